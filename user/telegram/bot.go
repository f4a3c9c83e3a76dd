// Package telegram implements the audit user over a telegram bot.
package telegram

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/drakos74/free-fall/internal/api"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/rs/zerolog/log"
)

const (
	telegramBotToken = "TELEGRAM_BOT_TOKEN"
	telegramChatID   = "TELEGRAM_CHAT_ID"
)

type botAPI interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) (tgbotapi.UpdatesChannel, error)
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot defines the telegram api.User implementation.
type Bot struct {
	bot    botAPI
	chatID int64
}

// NewBot creates a new telegram bot from the environment.
func NewBot() (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(os.Getenv(telegramBotToken))
	if err != nil {
		return nil, fmt.Errorf("error creating bot: %w", err)
	}
	chatIDProperty := os.Getenv(telegramChatID)
	chatID, err := strconv.ParseInt(chatIDProperty, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("error parsing chat ID: %w", err)
	}
	bot.Buffer = 0
	return &Bot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run starts the bot and polls for updates from telegram.
// Incoming messages are logged and otherwise ignored, the bot is a
// one-way audit channel.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 10

	updates, err := b.bot.GetUpdatesChan(u)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case update := <-updates:
				if update.Message == nil {
					continue
				}
				log.Debug().
					Str("user", update.Message.From.UserName).
					Str("text", update.Message.Text).
					Msg("telegram message received")
			}
		}
	}()
	return nil
}

// Send sends the given message to the configured chat.
func (b *Bot) Send(channel api.Index, message *api.Message) int {
	msg := tgbotapi.NewMessage(b.chatID, message.Text)
	sent, err := b.bot.Send(msg)
	if err != nil {
		log.Err(err).Msg("could not send message")
		return 0
	}
	return sent.MessageID
}
