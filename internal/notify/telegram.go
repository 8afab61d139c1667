package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"restaurant-client/internal/logger"
)

// Telegram forwards order status transitions to a chat. Optional: the
// tracker works without it, this is a convenience for watching an order
// without keeping a terminal open.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *logger.Logger
}

// NewTelegram creates a notifier for the given bot token and chat.
func NewTelegram(token string, chatID int64, log *logger.Logger) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID, logger: log}, nil
}

// StatusChanged sends a human-readable transition message.
func (t *Telegram) StatusChanged(orderID, status string) error {
	msg := tgbotapi.NewMessage(t.chatID, FormatStatus(orderID, status))
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram notification: %w", err)
	}
	t.logger.Debug("notification_sent", "", fmt.Sprintf("Forwarded status %q for order %s", status, orderID))
	return nil
}

// FormatStatus renders one status line for an order. The status set is
// open-ended; unknown labels fall through to a generic message.
func FormatStatus(orderID, status string) string {
	switch strings.ToLower(status) {
	case "pending":
		return fmt.Sprintf("Order %s received and waiting for the kitchen.", orderID)
	case "preparing":
		return fmt.Sprintf("Order %s is being prepared.", orderID)
	case "out for delivery":
		return fmt.Sprintf("Order %s is out for delivery.", orderID)
	case "delivered":
		return fmt.Sprintf("Order %s has been delivered. Enjoy!", orderID)
	default:
		return fmt.Sprintf("Order %s status: %s", orderID, status)
	}
}
