package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// NewPaymentsCommand lists past charges for the authenticated user.
func NewPaymentsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "payments",
		Short: "Show payment history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if app.Session.Token() == "" {
				return fmt.Errorf("not logged in")
			}

			payments, err := app.API.PaymentHistory(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load payment history: %w", err)
			}
			renderPayments(cmd.OutOrStdout(), payments)
			return nil
		},
	}
}

// NewReviewCommand submits a restaurant review.
func NewReviewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "review <restaurant-id> <rating> <comment>...",
		Short: "Submit a restaurant review (rating 1-5)",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rating must be a number: %w", err)
			}

			app, err := rootOpts.newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if app.Session.Token() == "" {
				return fmt.Errorf("not logged in")
			}

			comment := strings.Join(args[2:], " ")
			if err := app.API.CreateReview(cmd.Context(), args[0], rating, comment); err != nil {
				return fmt.Errorf("failed to submit review: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Review submitted successfully")
			return nil
		},
	}
}
