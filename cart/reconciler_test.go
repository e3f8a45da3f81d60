package cart_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-bookstore-client/cart"
	"github.com/jrsteele09/go-bookstore-client/catalog"
)

// fakeSession is a scripted cart.SessionState.
type fakeSession struct {
	lock   sync.Mutex
	authed bool
	epoch  uint64
}

func (f *fakeSession) Authenticated() bool {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.authed
}

func (f *fakeSession) Epoch() uint64 {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.epoch
}

// logout mimics the session manager's synchronous logout transition.
func (f *fakeSession) logout(rec *cart.Reconciler) {
	f.lock.Lock()
	f.authed = false
	f.epoch++
	f.lock.Unlock()
	rec.Invalidate()
}

// fakeCartService is a scripted cart.Service. listHook, when set, runs once
// inside the next ListCart call, before its result is returned.
type fakeCartService struct {
	items    []cart.LineItem
	listErr  error
	addErr   error
	updErr   error
	remErr   error
	listHook func()

	listCalls int
	addCalls  int
	updCalls  int
	remCalls  int
}

func (f *fakeCartService) ListCart(ctx context.Context) ([]cart.LineItem, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	// Snapshot the result first: the hook simulates events that land while
	// this response is still in flight.
	items := make([]cart.LineItem, len(f.items))
	copy(items, f.items)
	if hook := f.listHook; hook != nil {
		f.listHook = nil
		hook()
	}
	return items, nil
}

func (f *fakeCartService) AddCartItem(ctx context.Context, bookID int64, quantity int) error {
	f.addCalls++
	return f.addErr
}

func (f *fakeCartService) UpdateCartItem(ctx context.Context, itemID int64, quantity int) error {
	f.updCalls++
	return f.updErr
}

func (f *fakeCartService) RemoveCartItem(ctx context.Context, itemID int64) error {
	f.remCalls++
	return f.remErr
}

type reconcilerFixture struct {
	api     *fakeCartService
	session *fakeSession
	rec     *cart.Reconciler
}

func setupReconciler(t *testing.T, authed bool) *reconcilerFixture {
	t.Helper()

	api := &fakeCartService{}
	sess := &fakeSession{authed: authed}
	rec, err := cart.NewReconciler(api, sess, zerolog.Nop())
	require.NoError(t, err)

	return &reconcilerFixture{api: api, session: sess, rec: rec}
}

func lineItem(id, bookID int64, price, qty int) cart.LineItem {
	return cart.LineItem{
		ID:     id,
		BookID: bookID,
		Book: catalog.Book{
			ID:    bookID,
			Title: "The Martian Almanac",
			Price: price,
			Stock: 10,
		},
		Quantity: qty,
	}
}

func TestReconcilerRefresh(t *testing.T) {
	t.Run("guest snapshot is forced empty with no remote call", func(t *testing.T) {
		f := setupReconciler(t, false)

		require.NoError(t, f.rec.Refresh(context.Background()))
		require.Empty(t, f.rec.Items())
		require.Zero(t, f.api.listCalls)
	})

	t.Run("authenticated refresh replaces the snapshot wholesale", func(t *testing.T) {
		f := setupReconciler(t, true)
		f.api.items = []cart.LineItem{lineItem(1, 7, 120, 3)}

		require.NoError(t, f.rec.Refresh(context.Background()))

		items := f.rec.Items()
		require.Len(t, items, 1)
		require.Equal(t, 3, items[0].Quantity)
	})

	t.Run("failed refresh keeps the previous snapshot", func(t *testing.T) {
		f := setupReconciler(t, true)
		f.api.items = []cart.LineItem{lineItem(1, 7, 120, 1)}
		require.NoError(t, f.rec.Refresh(context.Background()))

		f.api.listErr = context.DeadlineExceeded
		require.Error(t, f.rec.Refresh(context.Background()))
		require.Len(t, f.rec.Items(), 1)
	})
}

func TestReconcilerAddItem(t *testing.T) {
	t.Run("guest add is rejected without any remote call", func(t *testing.T) {
		// A guest confirming a stock-5 book must bounce to the login
		// flow; nothing may hit the network.
		f := setupReconciler(t, false)

		err := f.rec.AddItem(context.Background(), 7, 1)
		require.ErrorIs(t, err, cart.ErrAuthenticationRequired)
		require.Zero(t, f.api.addCalls)
		require.Zero(t, f.api.listCalls)
	})

	t.Run("quantity below one is rejected", func(t *testing.T) {
		f := setupReconciler(t, true)

		err := f.rec.AddItem(context.Background(), 7, 0)
		require.ErrorIs(t, err, cart.ErrInvalidQuantity)
		require.Zero(t, f.api.addCalls)
	})

	t.Run("successful add refetches instead of inserting locally", func(t *testing.T) {
		// Adding 3 of a ฿120 book shows one server-built line with the
		// display total of ฿360.
		f := setupReconciler(t, true)
		f.api.items = []cart.LineItem{lineItem(1, 7, 120, 3)}

		require.NoError(t, f.rec.AddItem(context.Background(), 7, 3))

		require.Equal(t, 1, f.api.addCalls)
		require.Equal(t, 1, f.api.listCalls)
		items := f.rec.Items()
		require.Len(t, items, 1)
		require.Equal(t, 360, items[0].Subtotal())
		require.Equal(t, 360, f.rec.Total())
	})

	t.Run("server rejection keeps the snapshot and surfaces the error", func(t *testing.T) {
		f := setupReconciler(t, true)
		f.api.addErr = context.DeadlineExceeded

		err := f.rec.AddItem(context.Background(), 7, 3)
		require.Error(t, err)
		require.Zero(t, f.api.listCalls)
		require.Empty(t, f.rec.Items())
	})
}

func TestReconcilerRemoveItem(t *testing.T) {
	t.Run("removing the only line drops the badge from 1 to 0", func(t *testing.T) {
		f := setupReconciler(t, true)
		f.api.items = []cart.LineItem{lineItem(1, 7, 120, 1)}
		require.NoError(t, f.rec.Refresh(context.Background()))
		require.Equal(t, 1, f.rec.Count())

		f.api.items = nil
		require.NoError(t, f.rec.RemoveItem(context.Background(), 1))
		require.Equal(t, 0, f.rec.Count())
	})

	t.Run("delete failure still reconciles and is not fatal", func(t *testing.T) {
		f := setupReconciler(t, true)
		f.api.items = []cart.LineItem{lineItem(1, 7, 120, 1)}
		f.api.remErr = context.DeadlineExceeded

		require.NoError(t, f.rec.RemoveItem(context.Background(), 1))
		require.Equal(t, 1, f.api.listCalls)
		require.Equal(t, 1, f.rec.Count())
	})
}

func TestReconcilerUpdateItem(t *testing.T) {
	f := setupReconciler(t, true)
	f.api.items = []cart.LineItem{lineItem(1, 7, 120, 5)}

	require.NoError(t, f.rec.UpdateItem(context.Background(), 1, 5))
	require.Equal(t, 1, f.api.updCalls)
	require.Equal(t, 600, f.rec.Total())
}

func TestReconcilerOrdering(t *testing.T) {
	t.Run("logout mid-refresh discards the fetched snapshot", func(t *testing.T) {
		f := setupReconciler(t, true)
		f.api.items = []cart.LineItem{lineItem(1, 7, 120, 1)}

		// The logout lands while the list call is in flight; its result
		// must not render afterwards.
		f.api.listHook = func() { f.session.logout(f.rec) }

		require.NoError(t, f.rec.Refresh(context.Background()))
		require.Empty(t, f.rec.Items())
	})

	t.Run("refresh issued before a newer mutation is discarded", func(t *testing.T) {
		f := setupReconciler(t, true)

		stale := []cart.LineItem{lineItem(1, 7, 120, 1)}
		current := []cart.LineItem{lineItem(1, 7, 120, 1), lineItem(2, 9, 80, 2)}

		// While the first refresh's list call is in flight, a mutation
		// issues and completes its own refresh.
		f.api.items = stale
		f.api.listHook = func() {
			f.api.items = current
			require.NoError(t, f.rec.AddItem(context.Background(), 9, 2))
		}

		require.NoError(t, f.rec.Refresh(context.Background()))

		// The stale pre-mutation result arrived last but lost.
		require.Len(t, f.rec.Items(), 2)
		require.Equal(t, 2, f.rec.Count())
	})
}
