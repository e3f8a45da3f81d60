package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jrsteele09/go-bookstore-client/api"
	"github.com/jrsteele09/go-bookstore-client/catalog"
	"github.com/jrsteele09/go-bookstore-client/session"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Terminal storefront for the Space Book Store API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newBrowseCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newRegisterCmd(a),
		newWhoamiCmd(a),
		newCartCmd(a),
		newBookCmd(a),
	)
	return root
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Show the catalog, with the cart badge when signed in",
		RunE: func(cmd *cobra.Command, args []string) error {
			figure.NewFigure(a.cfg.AppName, "cybermedium", true).Print()
			fmt.Println()

			ctx := cmd.Context()
			if err := a.catalog.Refresh(ctx); err != nil {
				return fmt.Errorf("%s", api.ServerMessage(err, "cannot reach server, try again later"))
			}
			if a.sessions.Authenticated() {
				if err := a.cart.Refresh(ctx); err != nil {
					warn("cart unavailable: %s", api.ServerMessage(err, "cannot reach server"))
				}
			}

			printSessionHeader(a)
			fmt.Println()
			for _, book := range a.catalog.Books() {
				printBook(book)
			}
			fmt.Println()
			printControlsHint(a)
			return nil
		},
	}
}

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in; the session persists for later commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}

			sess, err := a.sessions.Login(cmd.Context(), args[0], password)
			switch {
			case errors.Is(err, api.ErrUnreachable):
				return fmt.Errorf("cannot reach server, try again later")
			case errors.Is(err, api.ErrInvalidCredentials):
				return fmt.Errorf("login failed: %v", api.ErrInvalidCredentials)
			case err != nil:
				return err
			}

			success("Welcome back, %s!", sess.Name)
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sessions.Logout(); err != nil {
				return err
			}
			success("Logged out.")
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(os.Stdin)

			name, err := readLine(reader, "Name: ")
			if err != nil {
				return err
			}
			email, err := readLine(reader, "Email: ")
			if err != nil {
				return err
			}
			password, err := readPassword("Password: ")
			if err != nil {
				return err
			}
			confirm, err := readPassword("Confirm password: ")
			if err != nil {
				return err
			}

			input := session.RegisterInput{
				Name:            name,
				Email:           email,
				Password:        password,
				ConfirmPassword: confirm,
			}
			if err := a.sessions.Register(cmd.Context(), input); err != nil {
				if errors.Is(err, api.ErrUnreachable) {
					return fmt.Errorf("cannot reach server, try again later")
				}
				return fmt.Errorf("%s", api.ServerMessage(err, err.Error()))
			}

			success("Account created. Sign in with: storefront login %s", email)
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := a.sessions.Current()
			if !sess.Authenticated() {
				fmt.Println("guest (not signed in)")
				return nil
			}
			fmt.Printf("%s (%s)\n", sess.Name, sess.Role)
			return nil
		},
	}
}

func printSessionHeader(a *app) {
	sess := a.sessions.Current()
	switch {
	case sess.IsAdmin():
		fmt.Printf("%s%s — Admin Mode%s", Cyan, sess.Name, ResetColor)
	case sess.Authenticated():
		fmt.Printf("%s%s%s", Cyan, sess.Name, ResetColor)
	default:
		fmt.Printf("%sBrowsing as guest%s", Gray, ResetColor)
	}
	if sess.Authenticated() {
		fmt.Printf("   🛒 %d", a.cart.Count())
	}
	fmt.Println()
}

// printControlsHint renders the role-gated controls: admins get catalog
// management, everyone else gets the cart-facing actions.
func printControlsHint(a *app) {
	switch {
	case a.sessions.IsAdmin():
		fmt.Println("Manage the catalog: storefront book add | book edit <id> | book rm <id>")
	case a.sessions.Authenticated():
		fmt.Println("Add something: storefront cart add <book-id> --qty <n>")
	default:
		fmt.Println("Sign in to start shopping: storefront login <email>")
	}
}

func printBook(b catalog.Book) {
	stock := fmt.Sprintf("%d left", b.Stock)
	if !b.InStock() {
		stock = Gray + "out of stock" + ResetColor
	}
	fmt.Printf("%4d  %-36s %-24s ฿%-8d %s\n", b.ID, trunc(b.Title, 36), trunc(b.Author, 24), b.Price, stock)
}

func trunc(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func readLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}
