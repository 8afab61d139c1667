package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"restaurant-client/internal/cart"
	"restaurant-client/internal/logger"
)

// NewCartCommand manages the carried-over cart. Every subcommand loads
// the cart from the session store, mutates it through the single cart
// model, and saves it back; no divergent copies exist.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Manage the shopping cart",
	}

	cmd.AddCommand(newCartAddCommand(rootOpts))
	cmd.AddCommand(newCartShowCommand(rootOpts))
	cmd.AddCommand(newCartQuantityCommand(rootOpts, "inc", +1, "Increase a line's quantity by one"))
	cmd.AddCommand(newCartQuantityCommand(rootOpts, "dec", -1, "Decrease a line's quantity by one (never below one)"))
	cmd.AddCommand(newCartRemoveCommand(rootOpts))
	cmd.AddCommand(newCartClearCommand(rootOpts))
	cmd.AddCommand(newCartReviewCommand(rootOpts))

	return cmd
}

// withCart runs fn against the persisted cart and saves the result.
// Change notifications from the model drive debug logging, keeping the
// redraw path (here: persistence plus output) decoupled from mutation.
func withCart(rootOpts *RootOptions, cmd *cobra.Command, fn func(app *App, c *cart.Cart) error) error {
	app, err := rootOpts.newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	c, err := app.Session.LoadCart()
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	requestID := logger.GenerateRequestID()
	c.Subscribe(func(ch cart.Change) {
		app.Log.Debug("cart_changed", requestID,
			fmt.Sprintf("op=%s item=%s total=%.2f", ch.Op, ch.Key.ItemID, ch.Total))
	})

	if err := fn(app, c); err != nil {
		return err
	}

	if err := app.Session.SaveCart(c.Snapshot()); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	renderCart(cmd.OutOrStdout(), c.Lines(), c.Total())
	return nil
}

func newCartAddCommand(rootOpts *RootOptions) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "add <restaurant-id> <item-id>",
		Short: "Add a menu item to the cart",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(rootOpts, cmd, func(app *App, c *cart.Cart) error {
				items, err := app.API.Menu(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("failed to load menu: %w", err)
				}
				for _, item := range items {
					if item.ID == args[1] {
						c.AddItem(item, note)
						return nil
					}
				}
				return fmt.Errorf("item %s not found on this menu", args[1])
			})
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "customization note (lines with different notes stay separate)")

	return cmd
}

func newCartShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(rootOpts, cmd, func(app *App, c *cart.Cart) error {
				return nil
			})
		},
	}
}

func newCartQuantityCommand(rootOpts *RootOptions, use string, delta int, short string) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   use + " <item-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(rootOpts, cmd, func(app *App, c *cart.Cart) error {
				c.ChangeQuantity(cart.SlotKey{ItemID: args[0], Note: note}, delta)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "customization note identifying the line")

	return cmd
}

func newCartRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "remove <item-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(rootOpts, cmd, func(app *App, c *cart.Cart) error {
				c.RemoveItem(cart.SlotKey{ItemID: args[0], Note: note})
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "customization note identifying the line")

	return cmd
}

func newCartClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(rootOpts, cmd, func(app *App, c *cart.Cart) error {
				c.Clear()
				return nil
			})
		},
	}
}

func newCartReviewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "review <item-id> <text>...",
		Short: "Attach a local note-to-self review to a cart item",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCart(rootOpts, cmd, func(app *App, c *cart.Cart) error {
				c.AddReview(args[0], strings.Join(args[1:], " "))
				return nil
			})
		},
	}
}
