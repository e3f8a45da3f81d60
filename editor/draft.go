package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-bookstore-client/catalog"
)

// Draft mirrors the editable fields of a book record, without its ID. A
// draft exists only while the editor is open and is discarded on cancel or
// successful submit. The JSON tags match the admin endpoints' request body.
type Draft struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	ImageURL    string `json:"image_url"`
	Stock       int    `json:"stock"`
}

// DraftFromBook populates a draft from an existing record. Optional fields
// that the record never carried stay at their zero defaults.
func DraftFromBook(book catalog.Book) Draft {
	return Draft{
		Title:       book.Title,
		Author:      book.Author,
		Description: book.Description,
		Price:       book.Price,
		ImageURL:    book.ImageURL,
		Stock:       book.Stock,
	}
}

// ValidateDraft checks the required fields before any remote call: title and
// author present, price and stock non-negative.
func ValidateDraft(d Draft) error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(d.Author) == "" {
		return fmt.Errorf("author is required")
	}
	if d.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if d.Stock < 0 {
		return fmt.Errorf("stock must not be negative")
	}
	return nil
}

// CoerceInt applies the form's permissive numeric policy: input that does
// not parse as a whole number becomes 0 instead of being rejected.
func CoerceInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
