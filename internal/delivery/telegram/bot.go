package telegram

import (
	"context"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Sender is the slice of the Bot API the handlers and transport need.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Bot struct {
	api         *tgbotapi.BotAPI
	handlers    *Handlers
	pollTimeout int
}

// requestSlack is added on top of the long-poll timeout for every API call.
const requestSlack = 15 * time.Second

func NewAPI(token string, pollTimeout int) (*tgbotapi.BotAPI, error) {
	client := &http.Client{Timeout: time.Duration(pollTimeout)*time.Second + requestSlack}
	return tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, client)
}

func NewBot(api *tgbotapi.BotAPI, handlers *Handlers, pollTimeout int) *Bot {
	return &Bot{api: api, handlers: handlers, pollTimeout: pollTimeout}
}

func (b *Bot) Start(ctx context.Context) error {
	config := tgbotapi.NewUpdate(0)
	config.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(config)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handlers.HandleUpdate(ctx, b.api, update)
		}
	}
}

// Transport delivers trigger notifications as Markdown messages to the
// user's private chat, whose id equals the Telegram user id.
type Transport struct {
	api    Sender
	logger *zap.Logger
}

func NewTransport(api Sender, logger *zap.Logger) *Transport {
	return &Transport{api: api, logger: logger}
}

func (t *Transport) Send(ctx context.Context, telegramUserID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.logger.Debug("telegram notify send", zap.Int64("telegram_user_id", telegramUserID), zap.Int("length", len(text)))
	msg := tgbotapi.NewMessage(telegramUserID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := t.api.Send(msg)
	return err
}
