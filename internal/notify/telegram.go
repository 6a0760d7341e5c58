package notify

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/fitsync/fitsync/internal/logging"
	"github.com/fitsync/fitsync/internal/syncer"
)

// Sender is the slice of the Telegram bot API the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends the end-of-run summary to a chat. It is strictly
// best-effort: a notification failure is logged and otherwise ignored, the
// sync outcome never depends on it.
type TelegramNotifier struct {
	sender Sender
	chatID int64
	logger *logging.Logger
}

// NewTelegramNotifier connects to the bot API.
func NewTelegramNotifier(botToken string, chatID int64, logger *logging.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	return &TelegramNotifier{sender: bot, chatID: chatID, logger: logger}, nil
}

// NewTelegramNotifierWithSender wires a notifier over an existing sender.
func NewTelegramNotifierWithSender(sender Sender, chatID int64, logger *logging.Logger) *TelegramNotifier {
	return &TelegramNotifier{sender: sender, chatID: chatID, logger: logger}
}

// NotifySummary sends a run summary message.
func (n *TelegramNotifier) NotifySummary(summary *syncer.Summary) {
	n.send(FormatSummary(summary))
}

// NotifyFailure reports a run that aborted before producing a summary.
func (n *TelegramNotifier) NotifyFailure(err error) {
	n.send(fmt.Sprintf("✗ fitsync run failed: %v", err))
}

func (n *TelegramNotifier) send(text string) {
	if _, err := n.sender.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		n.logger.Warn("telegram notification failed", "error", err.Error())
	}
}

// FormatSummary renders a run summary as a short plain-text message.
func FormatSummary(summary *syncer.Summary) string {
	var b strings.Builder

	marker := "✓"
	if len(summary.Failed) > 0 {
		marker = "✗"
	}
	fmt.Fprintf(&b, "%s fitsync: %d synced, %d skipped", marker, len(summary.Synced), summary.Skipped)

	if len(summary.Failed) > 0 {
		fmt.Fprintf(&b, ", %d failed (%s)", len(summary.Failed), strings.Join(summary.Failed, ", "))
	}
	if len(summary.NoData) > 0 {
		fmt.Fprintf(&b, ", %d without data", len(summary.NoData))
	}
	if summary.CategoryFailures > 0 {
		fmt.Fprintf(&b, ", %d category fetches degraded", summary.CategoryFailures)
	}
	fmt.Fprintf(&b, " in %s", summary.Duration.Round(10*time.Millisecond))

	return b.String()
}
