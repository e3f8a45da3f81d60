package catalog

import (
	"context"

	"github.com/pkg/errors"
)

// ItemAdder is the slice of the cart reconciler a Selector forwards to.
type ItemAdder interface {
	AddItem(ctx context.Context, bookID int64, quantity int) error
}

// Selector holds the transient quantity choice for a single book while its
// detail view is open. The quantity is clamped to [1, stock]. Callers must
// not open a selector for an out-of-stock book; with stock zero Increase is
// a no-op and Confirm should be unreachable.
type Selector struct {
	book     Book
	quantity int
}

// NewSelector opens a selector bound to one book snapshot, starting at
// quantity one.
func NewSelector(book Book) *Selector {
	return &Selector{book: book, quantity: 1}
}

// Book returns the snapshot the selector was opened on.
func (s *Selector) Book() Book {
	return s.book
}

// Quantity returns the current selection.
func (s *Selector) Quantity() int {
	return s.quantity
}

// Increase bumps the quantity, never beyond the book's stock.
func (s *Selector) Increase() {
	if s.quantity < s.book.Stock {
		s.quantity++
	}
}

// Decrease lowers the quantity, never below one.
func (s *Selector) Decrease() {
	if s.quantity > 1 {
		s.quantity--
	}
}

// Subtotal is the display price for the current selection. Presentational
// only; the server recomputes all pricing.
func (s *Selector) Subtotal() int {
	return s.book.Price * s.quantity
}

// Confirm forwards the selection to the cart. The selection is kept intact
// on failure so the user can retry; a successful add resets it to one.
// An unauthenticated caller is rejected inside the reconciler before any
// remote call is made.
func (s *Selector) Confirm(ctx context.Context, cart ItemAdder) error {
	if err := cart.AddItem(ctx, s.book.ID, s.quantity); err != nil {
		return errors.Wrap(err, "[Selector.Confirm] cart.AddItem")
	}
	s.quantity = 1
	return nil
}
