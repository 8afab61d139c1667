package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"restaurant-client/internal/messaging"
	"restaurant-client/internal/notify"
	"restaurant-client/internal/tracking"
)

// NewTrackCommand shows an order's status: a snapshot by default, or a
// live feed with --follow that stays open until interrupted.
func NewTrackCommand(rootOpts *RootOptions) *cobra.Command {
	var follow bool

	cmd := &cobra.Command{
		Use:   "track <order-id>",
		Short: "Show the current status of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := rootOpts.newApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if !follow {
				return trackOnce(app, cmd, args[0])
			}
			return trackFollow(app, cmd, args[0])
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep the subscription open and print each transition")

	return cmd
}

func trackOnce(app *App, cmd *cobra.Command, orderID string) error {
	view, err := app.API.OrderStatus(cmd.Context(), orderID)
	if err != nil {
		st := tracking.State{Kind: stateKindForError(err)}
		if st.Kind == tracking.Failed {
			st.Err = fmt.Sprintf("Failed to fetch order status: %v", err)
		}
		return describeState(cmd, st)
	}
	return describeState(cmd, tracking.State{Kind: tracking.Known, Status: view.Status})
}

func trackFollow(app *App, cmd *cobra.Command, orderID string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := messaging.New(app.Config, app.Log)
	if err != nil {
		return fmt.Errorf("failed to connect to the push channel: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, app.Log, orderID)
	watcher := tracking.NewWatcher(orderID, app.API, consumer, app.Log)

	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Close()

	var notifier *notify.Telegram
	if app.Config.Telegram.Token != "" {
		notifier, err = notify.NewTelegram(app.Config.Telegram.Token, app.Config.Telegram.ChatID, app.Log)
		if err != nil {
			// Forwarding is best-effort; the terminal feed still works.
			app.Log.Error("notifier_init_failed", "", "Telegram notifier disabled", err)
			notifier = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case st := <-watcher.States():
			if err := describeState(cmd, st); err != nil {
				return err
			}
			if notifier != nil && st.Kind == tracking.Known {
				if err := notifier.StatusChanged(orderID, st.Status); err != nil {
					app.Log.Error("notify_failed", "", "Failed to forward status update", err)
				}
			}
		}
	}
}

func describeState(cmd *cobra.Command, st tracking.State) error {
	out := cmd.OutOrStdout()
	switch st.Kind {
	case tracking.Known:
		fmt.Fprintf(out, "Current status: %s\n", st.Status)
	case tracking.NotFound:
		fmt.Fprintln(out, "No order found for the given id.")
	case tracking.Failed:
		if st.Err != "" {
			fmt.Fprintln(out, st.Err)
		} else {
			fmt.Fprintln(out, "Failed to fetch order status.")
		}
	case tracking.Loading:
		fmt.Fprintln(out, "Fetching your order status...")
	}
	return nil
}

func stateKindForError(err error) tracking.Kind {
	if err == nil {
		return tracking.Known
	}
	if isNotFound(err) {
		return tracking.NotFound
	}
	return tracking.Failed
}
