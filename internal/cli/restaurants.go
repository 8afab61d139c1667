package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRestaurantsCommand lists restaurants, optionally filtered by name.
func NewRestaurantsCommand(rootOpts *RootOptions) *cobra.Command {
	var nameFilter string

	cmd := &cobra.Command{
		Use:   "restaurants",
		Short: "List restaurants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			restaurants, err := app.API.Restaurants(cmd.Context(), nameFilter)
			if err != nil {
				return fmt.Errorf("failed to load restaurants: %w", err)
			}
			renderRestaurants(cmd.OutOrStdout(), restaurants)
			return nil
		},
	}

	cmd.Flags().StringVar(&nameFilter, "name", "", "filter restaurants by name")

	return cmd
}

// NewMenuCommand shows one restaurant's menu.
func NewMenuCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "menu <restaurant-id>",
		Short: "Show a restaurant's menu",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			restaurant, err := app.API.Restaurant(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load restaurant: %w", err)
			}
			items, err := app.API.Menu(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load menu: %w", err)
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No menu items available for this restaurant.")
				return nil
			}
			renderMenu(cmd.OutOrStdout(), restaurant.Name, items)
			return nil
		},
	}
}
