package cart

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	// ErrAuthenticationRequired rejects a cart action attempted without a
	// session, before any remote call is made. Callers should send the user
	// to the login flow.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrInvalidQuantity rejects a quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// Service is the slice of the remote API the reconciler drives.
type Service interface {
	ListCart(ctx context.Context) ([]LineItem, error)
	AddCartItem(ctx context.Context, bookID int64, quantity int) error
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) error
	RemoveCartItem(ctx context.Context, itemID int64) error
}

// SessionState is the slice of the session manager the reconciler consults.
type SessionState interface {
	Authenticated() bool
	Epoch() uint64
}

// Reconciler keeps the client's snapshot of the server-held cart. Every
// mutation goes to the server first and is followed by a full refetch; the
// snapshot is never edited locally, so server-computed stock checks and row
// merging cannot diverge from what renders.
//
// Two guards keep late results out: the session epoch and the mutation
// sequence, both captured when a refresh is issued and checked again before
// its result is applied. A refresh that raced a logout, or that was issued
// before a newer mutation, drops its result silently.
type Reconciler struct {
	api     Service
	session SessionState
	logger  zerolog.Logger

	lock  sync.RWMutex
	items []LineItem
	seq   uint64
}

// NewReconciler initializes a Reconciler with required dependencies.
func NewReconciler(api Service, sess SessionState, logger zerolog.Logger) (*Reconciler, error) {
	if api == nil {
		return nil, errors.New("[NewReconciler] api is required")
	}
	if sess == nil {
		return nil, errors.New("[NewReconciler] session state is required")
	}
	return &Reconciler{api: api, session: sess, logger: logger}, nil
}

// Refresh replaces the snapshot with the server's cart for the current
// session. Guests get an empty snapshot with no remote call.
func (r *Reconciler) Refresh(ctx context.Context) error {
	if !r.session.Authenticated() {
		r.lock.Lock()
		defer r.lock.Unlock()
		r.items = nil
		return nil
	}

	issuedEpoch := r.session.Epoch()
	r.lock.RLock()
	issuedSeq := r.seq
	r.lock.RUnlock()

	items, err := r.api.ListCart(ctx)
	if err != nil {
		return errors.Wrap(err, "[Reconciler.Refresh] api.ListCart")
	}

	r.apply(items, issuedSeq, issuedEpoch)
	return nil
}

// AddItem creates a cart row remotely and refetches. There is no optimistic
// local insert; the refetch brings back whatever the server decided (merged
// rows, recomputed quantities). A server stock rejection comes back with the
// server's own message.
func (r *Reconciler) AddItem(ctx context.Context, bookID int64, quantity int) error {
	if !r.session.Authenticated() {
		return ErrAuthenticationRequired
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	r.bumpSeq()
	if err := r.api.AddCartItem(ctx, bookID, quantity); err != nil {
		return errors.Wrap(err, "[Reconciler.AddItem] api.AddCartItem")
	}

	return r.Refresh(ctx)
}

// UpdateItem changes the quantity of an existing row remotely, then
// refetches, under the same rules as AddItem.
func (r *Reconciler) UpdateItem(ctx context.Context, itemID int64, quantity int) error {
	if !r.session.Authenticated() {
		return ErrAuthenticationRequired
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	r.bumpSeq()
	if err := r.api.UpdateCartItem(ctx, itemID, quantity); err != nil {
		return errors.Wrap(err, "[Reconciler.UpdateItem] api.UpdateCartItem")
	}

	return r.Refresh(ctx)
}

// RemoveItem deletes a cart row remotely and refetches either way, so the
// snapshot reconciles with the server even when the delete was rejected.
// A delete failure is logged, not fatal; the UI stays usable.
func (r *Reconciler) RemoveItem(ctx context.Context, itemID int64) error {
	if !r.session.Authenticated() {
		return ErrAuthenticationRequired
	}

	r.bumpSeq()
	if err := r.api.RemoveCartItem(ctx, itemID); err != nil {
		r.logger.Warn().Err(err).Int64("item_id", itemID).Msg("cart item delete failed, reconciling anyway")
	}

	return r.Refresh(ctx)
}

// Invalidate drops the snapshot immediately. The session manager calls this
// during logout so no stale authenticated cart can render afterwards.
func (r *Reconciler) Invalidate() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.items = nil
	r.seq++
}

// Items returns a copy of the current snapshot.
func (r *Reconciler) Items() []LineItem {
	r.lock.RLock()
	defer r.lock.RUnlock()
	items := make([]LineItem, len(r.items))
	copy(items, r.items)
	return items
}

// Count is the badge number: how many lines the cart holds.
func (r *Reconciler) Count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.items)
}

// Total sums the display subtotals over the current snapshot. Recomputed on
// every call and never sent anywhere; the server owns real totals.
func (r *Reconciler) Total() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	total := 0
	for _, item := range r.items {
		total += item.Subtotal()
	}
	return total
}

func (r *Reconciler) bumpSeq() {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.seq++
}

func (r *Reconciler) apply(items []LineItem, issuedSeq, issuedEpoch uint64) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if issuedEpoch != r.session.Epoch() {
		r.logger.Debug().Msg("discarding cart snapshot fetched for a previous session")
		return
	}
	if issuedSeq != r.seq {
		r.logger.Debug().Msg("discarding cart snapshot superseded by a newer mutation")
		return
	}

	r.items = items
}
