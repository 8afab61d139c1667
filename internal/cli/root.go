package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"restaurant-client/internal/api"
	"restaurant-client/internal/config"
	"restaurant-client/internal/logger"
	"restaurant-client/internal/session"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
}

// NewRootCommand creates the root command for the restaurant client.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "restaurant-client",
		Short: "Order food from the terminal",
		Long: `A client for the restaurant platform: browse restaurants and menus,
manage a cart, check out with a card payment intent, and follow an
order's status live.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "config.yaml", "path to config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(NewRestaurantsCommand(opts))
	cmd.AddCommand(NewMenuCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewCheckoutCommand(opts))
	cmd.AddCommand(NewTrackCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewPaymentsCommand(opts))
	cmd.AddCommand(NewReviewCommand(opts))
	cmd.AddCommand(NewManageCommand(opts))

	return cmd
}

// App wires one command invocation: config, logger, session store, API
// client. The session is the explicit credential context every consumer
// receives; nothing reads ambient global storage.
type App struct {
	Config  *config.Config
	Log     *logger.Logger
	Session *session.Store
	API     *api.Client
}

func (o *RootOptions) newApp() (*App, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New("restaurant-client", o.Verbose)

	sess, err := session.Open(cfg.Session.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.APITimeout()}
	client := api.New(cfg.API.BaseURL, httpClient, sess.Token, log)

	return &App{
		Config:  cfg,
		Log:     log,
		Session: sess,
		API:     client,
	}, nil
}

// Close releases the session store.
func (a *App) Close() {
	if a.Session != nil {
		a.Session.Close()
	}
}
