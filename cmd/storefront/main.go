package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-bookstore-client/api"
	"github.com/jrsteele09/go-bookstore-client/cart"
	"github.com/jrsteele09/go-bookstore-client/catalog"
	"github.com/jrsteele09/go-bookstore-client/editor"
	"github.com/jrsteele09/go-bookstore-client/internal/config"
	"github.com/jrsteele09/go-bookstore-client/session"
	"github.com/jrsteele09/go-bookstore-client/session/filestore"
)

// app bundles the wired storefront components for the commands.
type app struct {
	cfg      *config.Config
	sessions *session.Manager
	catalog  *catalog.Cache
	cart     *cart.Reconciler
	editor   *editor.Editor
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s%v%s\n", Red, err, ResetColor)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := zerolog.WarnLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	store, err := filestore.New(cfg.StateDir)
	if err != nil {
		return err
	}

	// The manager is the API client's token source and the client is the
	// manager's authenticator; the closure defers the lookup until the
	// first authenticated request, after both exist.
	var sessions *session.Manager
	client, err := api.NewClient(cfg.APIBaseURL, api.TokenSourceFunc(func() (*oauth2.Token, error) {
		return sessions.Token()
	}), logger, api.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return err
	}

	sessions, err = session.NewManager(client, store, logger)
	if err != nil {
		return err
	}
	if err := sessions.Init(); err != nil {
		return err
	}

	books, err := catalog.NewCache(client, logger)
	if err != nil {
		return err
	}

	basket, err := cart.NewReconciler(client, sessions, logger)
	if err != nil {
		return err
	}
	sessions.OnLogout(basket)

	bookEditor, err := editor.NewEditor(client, books, logger)
	if err != nil {
		return err
	}

	a := &app{cfg: cfg, sessions: sessions, catalog: books, cart: basket, editor: bookEditor}
	return newRootCmd(a).Execute()
}
