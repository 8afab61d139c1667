package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"restaurant-client/internal/checkout"
)

// NewCheckoutCommand hands the cart snapshot to the payment flow and
// prints the order id for tracking.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		schedule string
		address  string
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Create a payment intent for the cart",
		Long: `Validates the cart and delivery selection, creates a payment intent
for the grand total, and prints the order id. Card confirmation happens
in the payment provider's own flow using the printed client secret.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if app.Session.Token() == "" {
				return fmt.Errorf("not logged in")
			}

			c, err := app.Session.LoadCart()
			if err != nil {
				return fmt.Errorf("failed to load cart: %w", err)
			}

			delivery := checkout.DeliverySelection{Mode: checkout.Immediate}
			if schedule != "" {
				at, err := time.Parse(time.RFC3339, schedule)
				if err != nil {
					return fmt.Errorf("invalid --schedule value (want RFC3339): %w", err)
				}
				delivery = checkout.DeliverySelection{
					Mode:    checkout.Scheduled,
					At:      &at,
					Address: address,
				}
			}

			svc := checkout.NewService(app.API, app.Log)
			intent, err := svc.Checkout(cmd.Context(), c.Snapshot(), c.Total(), delivery)
			if err != nil {
				return err
			}

			if err := app.Session.DropCart(); err != nil {
				return fmt.Errorf("failed to clear cart after checkout: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Payment intent: %s\n", intent.ID)
			fmt.Fprintf(out, "Client secret:  %s\n", intent.ClientSecret)
			fmt.Fprintf(out, "Order id:       %s\n", intent.OrderID)
			fmt.Fprintf(out, "Track it with:  restaurant-client track %s --follow\n", intent.OrderID)
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "schedule", "", "deliver at this RFC3339 time instead of immediately")
	cmd.Flags().StringVar(&address, "address", "", "delivery address (required with --schedule)")

	return cmd
}
