package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-bookstore-client/api"
	"github.com/jrsteele09/go-bookstore-client/editor"
)

// bookFlags are the admin form fields. Price and stock come in as text and
// go through the form's permissive coercion, the same as typing into the
// number inputs.
type bookFlags struct {
	title       string
	author      string
	description string
	price       string
	imageURL    string
	stock       string
}

func (f *bookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "book title")
	cmd.Flags().StringVar(&f.author, "author", "", "author name")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.price, "price", "", "price in baht")
	cmd.Flags().StringVar(&f.imageURL, "image", "", "cover image URL")
	cmd.Flags().StringVar(&f.stock, "stock", "", "units in stock")
}

func newBookCmd(a *app) *cobra.Command {
	bookCmd := &cobra.Command{
		Use:   "book",
		Short: "Manage the catalog (admin)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// UI gating only; the server checks the token on every call.
			if !a.sessions.IsAdmin() {
				return fmt.Errorf("an admin session is required for book management")
			}
			return nil
		},
	}

	bookCmd.AddCommand(newBookAddCmd(a), newBookEditCmd(a), newBookRemoveCmd(a))
	return bookCmd
}

func newBookAddCmd(a *app) *cobra.Command {
	flags := &bookFlags{}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new book",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.editor.OpenCreate()
			draft := a.editor.Draft()
			flags.apply(cmd, &draft)
			a.editor.SetDraft(draft)

			if err := a.editor.Submit(cmd.Context()); err != nil {
				return fmt.Errorf("%s", api.ServerMessage(err, err.Error()))
			}

			success("Book added!")
			return nil
		},
	}

	flags.register(addCmd)
	return addCmd
}

func newBookEditCmd(a *app) *cobra.Command {
	flags := &bookFlags{}

	editCmd := &cobra.Command{
		Use:   "edit <book-id>",
		Short: "Edit an existing book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid book id %q", args[0])
			}

			ctx := cmd.Context()
			if err := a.catalog.Refresh(ctx); err != nil {
				return fmt.Errorf("%s", api.ServerMessage(err, "cannot reach server, try again later"))
			}
			book, ok := a.catalog.Get(bookID)
			if !ok {
				return fmt.Errorf("book %d is not in the catalog", bookID)
			}

			a.editor.OpenEdit(book)
			draft := a.editor.Draft()
			flags.apply(cmd, &draft)
			a.editor.SetDraft(draft)

			if err := a.editor.Submit(ctx); err != nil {
				return fmt.Errorf("%s", api.ServerMessage(err, err.Error()))
			}

			success("Book updated!")
			return nil
		},
	}

	flags.register(editCmd)
	return editCmd
}

func newBookRemoveCmd(a *app) *cobra.Command {
	var yes bool

	rmCmd := &cobra.Command{
		Use:     "rm <book-id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete a book",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid book id %q", args[0])
			}

			if !yes && !confirm(fmt.Sprintf("Delete book %d? There is no undo", bookID)) {
				fmt.Println("Cancelled.")
				return nil
			}

			if err := a.editor.Delete(cmd.Context(), bookID); err != nil {
				return fmt.Errorf("%s", api.ServerMessage(err, err.Error()))
			}

			success("Book deleted.")
			return nil
		},
	}

	rmCmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return rmCmd
}

// apply copies only the flags the user actually set into the draft, so an
// edit leaves untouched fields as they were.
func (f *bookFlags) apply(cmd *cobra.Command, draft *editor.Draft) {
	if cmd.Flags().Changed("title") {
		draft.Title = f.title
	}
	if cmd.Flags().Changed("author") {
		draft.Author = f.author
	}
	if cmd.Flags().Changed("description") {
		draft.Description = f.description
	}
	if cmd.Flags().Changed("price") {
		draft.Price = editor.CoerceInt(f.price)
	}
	if cmd.Flags().Changed("image") {
		draft.ImageURL = f.imageURL
	}
	if cmd.Flags().Changed("stock") {
		draft.Stock = editor.CoerceInt(f.stock)
	}
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
