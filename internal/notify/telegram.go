// Package notify delivers outbound reminders to learners.
package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier sends review reminders over Telegram. Learner IDs double
// as Telegram chat IDs.
type TelegramNotifier struct {
	api *tgbotapi.BotAPI
}

// NewTelegramNotifier creates a notifier for the given bot token.
func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram client: %v", err)
	}
	return &TelegramNotifier{api: api}, nil
}

// SendReminder tells the learner how many words are waiting for review.
func (n *TelegramNotifier) SendReminder(learnerID int64, dueCount int) error {
	text := fmt.Sprintf("📚 You have %d word(s) ready for review. Keep your streak going!", dueCount)
	msg := tgbotapi.NewMessage(learnerID, text)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %v", err)
	}
	return nil
}
