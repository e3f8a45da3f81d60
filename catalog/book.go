package catalog

// Book is a read-only snapshot of one store book record. The remote store
// owns the record; local snapshots are replaced wholesale on every Cache
// refresh and are never edited in place.
//
// The JSON field names follow the store API's wire format (the record ID is
// serialized as "ID", the remaining fields as snake_case).
type Book struct {
	ID          int64  `json:"ID"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	ImageURL    string `json:"image_url"`
	Stock       int    `json:"stock"`
}

// InStock reports whether the book can currently be added to a cart.
func (b Book) InStock() bool {
	return b.Stock > 0
}
