package editor

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-bookstore-client/catalog"
)

var (
	// ErrClosed rejects draft operations while no editing session is open.
	ErrClosed = errors.New("editor is not open")

	// ErrSubmitInFlight rejects a second submit while one is still pending.
	ErrSubmitInFlight = errors.New("a submit is already in progress")
)

// Mode distinguishes whether Submit creates a new record or updates an
// existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Service is the slice of the remote API admin editing drives. The server
// checks authorization on every call; the client's admin gate is advisory.
type Service interface {
	CreateBook(ctx context.Context, draft Draft) (catalog.Book, error)
	UpdateBook(ctx context.Context, id int64, draft Draft) (catalog.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

// CatalogRefresher re-pulls the public catalog after a successful mutation.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// Editor is the create/edit state machine for the admin book form:
// Closed -> Open(create) | Open(edit). While open it holds the working
// draft; on successful submit it closes and invalidates the catalog, on
// failure it stays open with the draft intact so the user can retry.
type Editor struct {
	api     Service
	catalog CatalogRefresher
	logger  zerolog.Logger

	lock     sync.Mutex
	open     bool
	mode     Mode
	bookID   int64
	draft    Draft
	inFlight bool
}

// NewEditor initializes an Editor with required dependencies.
func NewEditor(api Service, cat CatalogRefresher, logger zerolog.Logger) (*Editor, error) {
	if api == nil {
		return nil, errors.New("[NewEditor] api is required")
	}
	if cat == nil {
		return nil, errors.New("[NewEditor] catalog is required")
	}
	return &Editor{api: api, catalog: cat, logger: logger}, nil
}

// OpenCreate opens the editor in create mode with an empty draft.
func (e *Editor) OpenCreate() {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.open = true
	e.mode = ModeCreate
	e.bookID = 0
	e.draft = Draft{}
}

// OpenEdit opens the editor on an existing record, populating the draft
// from it.
func (e *Editor) OpenEdit(book catalog.Book) {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.open = true
	e.mode = ModeEdit
	e.bookID = book.ID
	e.draft = DraftFromBook(book)
}

// Cancel discards the draft and closes the editor. No remote call is made.
func (e *Editor) Cancel() {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.open = false
	e.draft = Draft{}
	e.bookID = 0
}

// IsOpen reports whether an editing session is active.
func (e *Editor) IsOpen() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.open
}

// Mode returns the mode of the open session.
func (e *Editor) Mode() Mode {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.mode
}

// Draft returns the working draft.
func (e *Editor) Draft() Draft {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.draft
}

// SetDraft replaces the working draft; the form binds its fields through
// this. Setting a draft on a closed editor is a no-op.
func (e *Editor) SetDraft(d Draft) {
	e.lock.Lock()
	defer e.lock.Unlock()
	if !e.open {
		return
	}
	e.draft = d
}

// Submit validates the draft and sends it to the create or update endpoint
// depending on mode. Success closes the editor and refetches the catalog;
// failure leaves the editor open with the draft intact and returns the
// error. Only one submit may be in flight per editor.
func (e *Editor) Submit(ctx context.Context) error {
	e.lock.Lock()
	if !e.open {
		e.lock.Unlock()
		return ErrClosed
	}
	if e.inFlight {
		e.lock.Unlock()
		return ErrSubmitInFlight
	}
	draft, mode, bookID := e.draft, e.mode, e.bookID
	if err := ValidateDraft(draft); err != nil {
		e.lock.Unlock()
		return err
	}
	e.inFlight = true
	e.lock.Unlock()

	var err error
	switch mode {
	case ModeEdit:
		_, err = e.api.UpdateBook(ctx, bookID, draft)
	default:
		_, err = e.api.CreateBook(ctx, draft)
	}

	e.lock.Lock()
	e.inFlight = false
	if err != nil {
		e.lock.Unlock()
		return errors.Wrapf(err, "[Editor.Submit] %s", mode)
	}
	e.open = false
	e.draft = Draft{}
	e.bookID = 0
	e.lock.Unlock()

	if refreshErr := e.catalog.Refresh(ctx); refreshErr != nil {
		e.logger.Warn().Err(refreshErr).Msg("catalog refresh after submit failed")
	}
	return nil
}

// Delete removes a record and refetches the catalog. It runs outside the
// open/closed state machine, matching the list view's per-row delete
// control.
func (e *Editor) Delete(ctx context.Context, id int64) error {
	if err := e.api.DeleteBook(ctx, id); err != nil {
		return errors.Wrap(err, "[Editor.Delete] api.DeleteBook")
	}

	if err := e.catalog.Refresh(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("catalog refresh after delete failed")
	}
	return nil
}
