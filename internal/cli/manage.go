package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"restaurant-client/internal/models"
)

// NewManageCommand groups the restaurant-owner operations: restaurant
// administration and the owner's restaurant profile. All of them require
// a logged-in session.
func NewManageCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manage",
		Short: "Manage restaurants (owner)",
	}

	cmd.AddCommand(newManageCreateCommand(rootOpts))
	cmd.AddCommand(newManageUpdateCommand(rootOpts))
	cmd.AddCommand(newManageDeleteCommand(rootOpts))
	cmd.AddCommand(newManageProfileCommand(rootOpts))

	return cmd
}

// newOwnerApp builds the per-invocation app and rejects guest sessions.
func newOwnerApp(rootOpts *RootOptions) (*App, error) {
	app, err := rootOpts.newApp()
	if err != nil {
		return nil, err
	}
	if app.Session.Token() == "" {
		app.Close()
		return nil, fmt.Errorf("not logged in")
	}
	return app, nil
}

func newManageCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new restaurant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newOwnerApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.API.CreateRestaurant(cmd.Context(), name, description); err != nil {
				return fmt.Errorf("failed to create restaurant: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Restaurant created")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "restaurant name (required)")
	cmd.Flags().StringVar(&description, "description", "", "restaurant description (required)")

	return cmd
}

func newManageUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update <restaurant-id>",
		Short: "Update a restaurant's name and description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newOwnerApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			// Unset flags keep the stored values.
			current, err := app.API.Restaurant(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load restaurant: %w", err)
			}
			if !cmd.Flags().Changed("name") {
				name = current.Name
			}
			if !cmd.Flags().Changed("description") {
				description = current.Description
			}

			if err := app.API.UpdateRestaurant(cmd.Context(), args[0], name, description); err != nil {
				return fmt.Errorf("failed to update restaurant: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Restaurant updated")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "restaurant name")
	cmd.Flags().StringVar(&description, "description", "", "restaurant description")

	return cmd
}

func newManageDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <restaurant-id>",
		Short: "Delete a restaurant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newOwnerApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.API.DeleteRestaurant(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete restaurant: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Restaurant deleted")
			return nil
		},
	}
}

func newManageProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the owner's restaurant profile",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the restaurant profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newOwnerApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			restaurant, err := app.API.RestaurantProfile(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load restaurant profile: %w", err)
			}
			renderRestaurants(cmd.OutOrStdout(), []models.Restaurant{*restaurant})
			return nil
		},
	})

	var description string
	update := &cobra.Command{
		Use:   "update",
		Short: "Update the restaurant description",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newOwnerApp(rootOpts)
			if err != nil {
				return err
			}
			defer app.Close()

			restaurant, err := app.API.RestaurantProfile(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load restaurant profile: %w", err)
			}
			if err := app.API.UpdateRestaurantProfile(cmd.Context(), restaurant.ID, description); err != nil {
				return fmt.Errorf("failed to update restaurant profile: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Restaurant profile updated successfully")
			return nil
		},
	}
	update.Flags().StringVar(&description, "description", "", "restaurant description")
	cmd.AddCommand(update)

	return cmd
}
