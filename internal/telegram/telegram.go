// Package telegram sends run reports to an operator chat.
package telegram

import (
	"StoreImport/internal/migrate"
	"StoreImport/pkg/logging"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/pkg/errors"
)

type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Reporter struct {
	bot    Sender
	chatID int64
}

// New connects to the Bot API with token.
func New(token string, chatID int64) (*Reporter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, errors.Wrap(err, "failed tgbotapi.NewBotAPI")
	}
	return NewWithSender(bot, chatID), nil
}

func NewWithSender(bot Sender, chatID int64) *Reporter {
	return &Reporter{bot: bot, chatID: chatID}
}

func (r *Reporter) SendMessage(text string) error {
	if _, err := r.bot.Send(tgbotapi.NewMessage(r.chatID, text)); err != nil {
		return errors.Wrapf(err, "failed send message to chat %d", r.chatID)
	}
	return nil
}

// SendMessageWithLogError sends text and only logs a failure.
func (r *Reporter) SendMessageWithLogError(text string) {
	logger := logging.GetLogger()
	if err := r.SendMessage(text); err != nil {
		logger.Errorf("failed telegram SendMessage, error: %v", err)
	}
}

func (r *Reporter) Report(res *migrate.Result) {
	r.SendMessageWithLogError(FormatReport(res))
}

func FormatReport(res *migrate.Result) string {
	var b strings.Builder
	status := "completed"
	if !res.OK() {
		status = "completed with errors"
	}
	fmt.Fprintf(&b, "Migration %s from %s %s\n", res.RunID, res.Source, status)
	fmt.Fprintf(&b, "Products: %d migrated, %d skipped, %d failed\n", res.Products, res.ProductsSkipped, res.ProductsFailed)
	fmt.Fprintf(&b, "Orders: %d migrated, %d skipped, %d failed\n", res.Orders, res.OrdersSkipped, res.OrdersFailed)
	fmt.Fprintf(&b, "Duration: %s", res.Duration().Round(time.Millisecond))
	if res.FailedStage != "" {
		fmt.Fprintf(&b, "\nStopped in %s", res.FailedStage)
	}
	for _, e := range res.Errors {
		fmt.Fprintf(&b, "\nError: %s", e.Message)
		if e.Location != "" {
			fmt.Fprintf(&b, " at %s", e.Location)
		}
	}
	return b.String()
}
