package storefakes

import (
	"sync"

	"github.com/jrsteele09/go-bookstore-client/session"
)

var _ session.Store = (*FakeStore)(nil)

// FakeStore is an in-memory session.Store for tests. Error fields, when set,
// are returned by the corresponding operation.
type FakeStore struct {
	lock    sync.RWMutex
	stored  session.Session
	present bool

	ReadErr  error
	WriteErr error
	ClearErr error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

// Seed places a session in the store without counting as a Write.
func (fs *FakeStore) Seed(s session.Session) {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.stored = s
	fs.present = true
}

func (fs *FakeStore) Read() (session.Session, error) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	if fs.ReadErr != nil {
		return session.Guest(), fs.ReadErr
	}
	if !fs.present {
		return session.Guest(), nil
	}
	return fs.stored, nil
}

func (fs *FakeStore) Write(s session.Session) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.WriteErr != nil {
		return fs.WriteErr
	}
	fs.stored = s
	fs.present = true
	return nil
}

func (fs *FakeStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	if fs.ClearErr != nil {
		return fs.ClearErr
	}
	fs.stored = session.Guest()
	fs.present = false
	return nil
}

// Stored reports the durable contents, for assertions.
func (fs *FakeStore) Stored() (session.Session, bool) {
	fs.lock.RLock()
	defer fs.lock.RUnlock()
	return fs.stored, fs.present
}
