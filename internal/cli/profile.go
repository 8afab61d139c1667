package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"restaurant-client/internal/models"
)

// NewProfileCommand reads and updates the authenticated profile.
func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the user profile",
	}

	cmd.AddCommand(newProfileShowCommand(rootOpts))
	cmd.AddCommand(newProfileUpdateCommand(rootOpts))

	return cmd
}

func newProfileShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the profile",
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

			profile, err := app.API.Profile(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}
			renderProfile(cmd.OutOrStdout(), profile, app.Session.Role())
			return nil
		},
	}
}

func newProfileUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		name     string
		email    string
		picture  string
		password string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the profile",
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

			// Start from the current profile so unset flags keep their
			// stored values.
			current, err := app.API.Profile(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load profile: %w", err)
			}

			upd := models.ProfileUpdate{
				Name:           current.Name,
				Email:          current.Email,
				ProfilePicture: current.ProfilePicture,
				Password:       password, // empty means keep current
			}
			if cmd.Flags().Changed("name") {
				upd.Name = name
			}
			if cmd.Flags().Changed("email") {
				upd.Email = email
			}
			if cmd.Flags().Changed("picture") {
				upd.ProfilePicture = picture
			}

			if err := app.API.UpdateProfile(cmd.Context(), upd); err != nil {
				return fmt.Errorf("failed to update profile: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Profile updated successfully")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&picture, "picture", "", "profile picture URL")
	cmd.Flags().StringVar(&password, "password", "", "new password (omit to keep current)")

	return cmd
}
