package catalog

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Lister fetches the full public book list from the remote store.
type Lister interface {
	ListBooks(ctx context.Context) ([]Book, error)
}

// Cache holds the client's snapshot of the store catalog. The remote store
// is authoritative: Refresh replaces the snapshot wholesale, and a failed
// refresh leaves the previous snapshot intact so the UI keeps rendering.
type Cache struct {
	lister Lister
	logger zerolog.Logger

	lock  sync.RWMutex
	books []Book
}

// NewCache initializes a Cache with required dependencies.
func NewCache(lister Lister, logger zerolog.Logger) (*Cache, error) {
	if lister == nil {
		return nil, errors.New("[NewCache] lister is required")
	}
	return &Cache{lister: lister, logger: logger}, nil
}

// Refresh pulls the server's current book list and replaces the snapshot.
// There is no pagination and no partial update. On failure the previous
// snapshot is kept, the condition logged, and the error returned for the
// caller to surface.
func (c *Cache) Refresh(ctx context.Context) error {
	books, err := c.lister.ListBooks(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("catalog refresh failed, keeping previous snapshot")
		return errors.Wrap(err, "[Cache.Refresh] lister.ListBooks")
	}

	c.lock.Lock()
	defer c.lock.Unlock()
	c.books = books
	return nil
}

// Books returns a copy of the current snapshot.
func (c *Cache) Books() []Book {
	c.lock.RLock()
	defer c.lock.RUnlock()
	books := make([]Book, len(c.books))
	copy(books, c.books)
	return books
}

// Get looks a book up by ID in the current snapshot.
func (c *Cache) Get(id int64) (Book, bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	for _, book := range c.books {
		if book.ID == id {
			return book, true
		}
	}
	return Book{}, false
}

// Len reports how many books the snapshot holds.
func (c *Cache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.books)
}
