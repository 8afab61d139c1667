package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLoginCommand exchanges credentials for a bearer token and stores
// it in the session.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		email    string
		password string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			token, role, err := app.API.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := app.Session.SetToken(token); err != nil {
				return err
			}
			if role != "" {
				if err := app.Session.SetRole(role); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Login successful")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// NewRegisterCommand creates an account. Role is customer or
// restaurantOwner, matching the remote service.
func NewRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		name     string
		email    string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != "customer" && role != "restaurantOwner" {
				return fmt.Errorf("role must be customer or restaurantOwner, got %q", role)
			}

			app, err := rootOpts.newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			token, err := app.API.Register(cmd.Context(), name, email, password, role)
			if err != nil {
				return err
			}
			if err := app.Session.SetToken(token); err != nil {
				return err
			}
			if err := app.Session.SetRole(role); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Registration successful")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&role, "role", "customer", "account role (customer|restaurantOwner)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

// NewLogoutCommand destroys the session credential.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Drop the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Session.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
