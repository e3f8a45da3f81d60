package filestore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-bookstore-client/session"
	"github.com/jrsteele09/go-bookstore-client/session/filestore"
)

func TestNew(t *testing.T) {
	t.Run("requires a directory", func(t *testing.T) {
		_, err := filestore.New("")
		require.Error(t, err)
	})

	t.Run("creates the state directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "bookstore")
		_, err := filestore.New(dir)
		require.NoError(t, err)

		info, err := os.Stat(dir)
		require.NoError(t, err)
		require.True(t, info.IsDir())
	})
}

func TestReadWrite(t *testing.T) {
	t.Run("empty store reads as guest", func(t *testing.T) {
		store, err := filestore.New(t.TempDir())
		require.NoError(t, err)

		sess, err := store.Read()
		require.NoError(t, err)
		require.Equal(t, session.Guest(), sess)
	})

	t.Run("round-trips a session", func(t *testing.T) {
		store, err := filestore.New(t.TempDir())
		require.NoError(t, err)

		want := session.Session{Token: "jwt-goes-here", Role: session.RoleAdmin, Name: "Amy"}
		require.NoError(t, store.Write(want))

		got, err := store.Read()
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("persists one file per entry", func(t *testing.T) {
		dir := t.TempDir()
		store, err := filestore.New(dir)
		require.NoError(t, err)

		require.NoError(t, store.Write(session.Session{Token: "jwt", Role: session.RoleUser, Name: "Amy"}))

		for entry, want := range map[string]string{"token": "jwt", "role": "user", "name": "Amy"} {
			b, err := os.ReadFile(filepath.Join(dir, entry))
			require.NoError(t, err)
			require.Equal(t, want, string(b))
		}
	})

	t.Run("a token with missing companion entries still reads", func(t *testing.T) {
		dir := t.TempDir()
		store, err := filestore.New(dir)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "token"), []byte("jwt"), 0o600))

		got, err := store.Read()
		require.NoError(t, err)
		require.Equal(t, "jwt", got.Token)
		require.Empty(t, got.Name)
	})
}

func TestClear(t *testing.T) {
	t.Run("removes every entry", func(t *testing.T) {
		dir := t.TempDir()
		store, err := filestore.New(dir)
		require.NoError(t, err)

		require.NoError(t, store.Write(session.Session{Token: "jwt", Role: session.RoleUser, Name: "Amy"}))
		require.NoError(t, store.Clear())

		sess, err := store.Read()
		require.NoError(t, err)
		require.Equal(t, session.Guest(), sess)

		for _, entry := range []string{"token", "role", "name"} {
			_, statErr := os.Stat(filepath.Join(dir, entry))
			require.True(t, os.IsNotExist(statErr))
		}
	})

	t.Run("clearing an empty store succeeds", func(t *testing.T) {
		store, err := filestore.New(t.TempDir())
		require.NoError(t, err)
		require.NoError(t, store.Clear())
	})
}
