package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-bookstore-client/api"
	"github.com/jrsteele09/go-bookstore-client/cart"
	"github.com/jrsteele09/go-bookstore-client/catalog"
)

func newCartCmd(a *app) *cobra.Command {
	cartCmd := &cobra.Command{
		Use:   "cart",
		Short: "Show the cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.sessions.Authenticated() {
				return fmt.Errorf("sign in to see your cart: storefront login <email>")
			}
			if err := a.cart.Refresh(cmd.Context()); err != nil {
				return fmt.Errorf("%s", api.ServerMessage(err, "cannot reach server, try again later"))
			}

			items := a.cart.Items()
			if len(items) == 0 {
				fmt.Println("Your cart is empty.")
				return nil
			}
			for _, item := range items {
				fmt.Printf("%4d  %-36s ฿%d x %d = ฿%d\n",
					item.ID, trunc(item.Book.Title, 36), item.Book.Price, item.Quantity, item.Subtotal())
			}
			fmt.Printf("\nTotal: ฿%d (%d items)\n", a.cart.Total(), a.cart.Count())
			return nil
		},
	}

	cartCmd.AddCommand(newCartAddCmd(a), newCartSetCmd(a), newCartRemoveCmd(a))
	return cartCmd
}

func newCartAddCmd(a *app) *cobra.Command {
	var qty int

	addCmd := &cobra.Command{
		Use:   "add <book-id>",
		Short: "Put a book in the cart",
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
			if !book.InStock() {
				return fmt.Errorf("%q is out of stock", book.Title)
			}

			// The selector clamps the requested quantity to [1, stock],
			// just like the +/- controls in the detail view.
			selector := catalog.NewSelector(book)
			for i := 1; i < qty; i++ {
				selector.Increase()
			}
			if selector.Quantity() < qty {
				warn("only %d in stock, adding %d", book.Stock, selector.Quantity())
			}

			if err := selector.Confirm(ctx, a.cart); err != nil {
				if errors.Is(err, cart.ErrAuthenticationRequired) {
					return fmt.Errorf("sign in first: storefront login <email>")
				}
				return fmt.Errorf("%s", api.ServerMessage(err, "could not add to cart"))
			}

			success("Added %q. Cart now holds %d items (฿%d).", book.Title, a.cart.Count(), a.cart.Total())
			return nil
		},
	}

	addCmd.Flags().IntVar(&qty, "qty", 1, "quantity to add")
	return addCmd
}

func newCartSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <item-id> <quantity>",
		Short: "Change the quantity of a cart line",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			if err := a.cart.UpdateItem(cmd.Context(), itemID, qty); err != nil {
				if errors.Is(err, cart.ErrAuthenticationRequired) {
					return fmt.Errorf("sign in first: storefront login <email>")
				}
				return fmt.Errorf("%s", api.ServerMessage(err, "could not update the cart"))
			}

			success("Updated. Cart now holds %d items (฿%d).", a.cart.Count(), a.cart.Total())
			return nil
		},
	}
}

func newCartRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <item-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a cart line",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			itemID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}

			if err := a.cart.RemoveItem(cmd.Context(), itemID); err != nil {
				if errors.Is(err, cart.ErrAuthenticationRequired) {
					return fmt.Errorf("sign in first: storefront login <email>")
				}
				return fmt.Errorf("%s", api.ServerMessage(err, "could not update the cart"))
			}

			success("Removed. Cart now holds %d items (฿%d).", a.cart.Count(), a.cart.Total())
			return nil
		},
	}
}
