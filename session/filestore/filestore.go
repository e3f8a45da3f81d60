package filestore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-bookstore-client/session"
)

var _ session.Store = (*Store)(nil)

// Entry file names. The session is persisted as three independent string
// entries, the same shape the browser build keeps in localStorage.
const (
	tokenEntry = "token"
	roleEntry  = "role"
	nameEntry  = "name"
)

// Store persists the session under a state directory, one file per entry.
type Store struct {
	dir string
}

// New creates the state directory if needed and returns a Store over it.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("[filestore.New] dir is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "[filestore.New] os.MkdirAll")
	}
	return &Store{dir: dir}, nil
}

// Read loads the persisted session. A missing or empty token entry yields
// the guest session.
func (s *Store) Read() (session.Session, error) {
	token, err := s.readEntry(tokenEntry)
	if err != nil {
		return session.Guest(), err
	}
	if token == "" {
		return session.Guest(), nil
	}

	role, err := s.readEntry(roleEntry)
	if err != nil {
		return session.Guest(), err
	}
	name, err := s.readEntry(nameEntry)
	if err != nil {
		return session.Guest(), err
	}

	return session.Session{Token: token, Role: session.Role(role), Name: name}, nil
}

// Write persists every entry of the session.
func (s *Store) Write(sess session.Session) error {
	entries := map[string]string{
		tokenEntry: sess.Token,
		roleEntry:  string(sess.Role),
		nameEntry:  sess.Name,
	}
	for entry, value := range entries {
		if err := os.WriteFile(filepath.Join(s.dir, entry), []byte(value), 0o600); err != nil {
			return errors.Wrapf(err, "[Store.Write] %s", entry)
		}
	}
	return nil
}

// Clear removes all entries together.
func (s *Store) Clear() error {
	for _, entry := range []string{tokenEntry, roleEntry, nameEntry} {
		if err := os.Remove(filepath.Join(s.dir, entry)); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "[Store.Clear] %s", entry)
		}
	}
	return nil
}

func (s *Store) readEntry(entry string) (string, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, entry))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "[Store.readEntry] %s", entry)
	}
	return strings.TrimSpace(string(b)), nil
}
