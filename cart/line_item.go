package cart

import "github.com/jrsteele09/go-bookstore-client/catalog"

// LineItem is a snapshot of one server-held cart row together with the book
// it references. The remote store owns the row; snapshots are invalidated
// wholesale on every mutation.
type LineItem struct {
	ID       int64        `json:"ID"`
	BookID   int64        `json:"book_id"`
	Book     catalog.Book `json:"book"`
	Quantity int          `json:"quantity"`
}

// Subtotal is the display price of the line. Presentational only; the server
// owns all real pricing and stock arithmetic.
func (li LineItem) Subtotal() int {
	return li.Book.Price * li.Quantity
}
