// Package telegram implements the chat transport on the Telegram Bot
// API with long polling.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"societypay/internal/bot"
	applog "societypay/internal/log"
)

const pollTimeoutSeconds = 30

// Transport wraps the Telegram Bot API client.
type Transport struct {
	api    *tgbotapi.BotAPI
	logger *applog.Logger
}

var _ bot.Transport = (*Transport)(nil)

func New(token string, logger *applog.Logger) (*Transport, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	logger.Info("Telegram bot authorized", "username", api.Self.UserName)

	return &Transport{
		api:    api,
		logger: logger,
	}, nil
}

// SendMessage sends a Markdown-formatted reply to a conversation.
func (t *Transport) SendMessage(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendDocument sends a file attachment with a caption.
func (t *Transport) SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  filename,
		Bytes: data,
	})
	doc.Caption = caption
	if _, err := t.api.Send(doc); err != nil {
		return fmt.Errorf("send document: %w", err)
	}
	return nil
}

// RegisterCommands publishes the command menu shown by Telegram clients.
func (t *Transport) RegisterCommands() error {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Start the bot"},
		tgbotapi.BotCommand{Command: "help", Description: "Show help message"},
		tgbotapi.BotCommand{Command: "table", Description: "Show last 20 payments (Admin)"},
		tgbotapi.BotCommand{Command: "today", Description: "Show today's total (Admin)"},
		tgbotapi.BotCommand{Command: "month", Description: "Show monthly total (Admin)"},
		tgbotapi.BotCommand{Command: "member", Description: "Show member history (Admin)"},
		tgbotapi.BotCommand{Command: "export", Description: "Export to Excel (Admin)"},
		tgbotapi.BotCommand{Command: "stats", Description: "Show statistics (Admin)"},
		tgbotapi.BotCommand{Command: "reset", Description: "Reset all data (Admin)"},
	)
	if _, err := t.api.Request(cmds); err != nil {
		return fmt.Errorf("set bot commands: %w", err)
	}
	return nil
}

// Poll streams inbound messages into the dispatcher until the context
// ends. Each message runs in its own goroutine so one slow handler
// (a database round trip, an export) never stalls the stream.
func (t *Transport) Poll(ctx context.Context, dispatcher *bot.Dispatcher) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeoutSeconds
	updates := t.api.GetUpdatesChan(u)

	t.logger.Info("Polling for updates")

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("update channel closed")
			}
			if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
				continue
			}

			msg := bot.Message{
				SenderID:   update.Message.From.ID,
				ChatID:     update.Message.Chat.ID,
				SenderName: senderName(update.Message.From),
				Text:       update.Message.Text,
			}

			t.logger.Debug("Message received",
				applog.FieldSenderID, msg.SenderID,
				applog.FieldChatID, msg.ChatID)

			go dispatcher.HandleMessage(ctx, msg)
		}
	}
}

func senderName(user *tgbotapi.User) string {
	if user.FirstName != "" {
		return user.FirstName
	}
	if user.UserName != "" {
		return user.UserName
	}
	return "Unknown"
}
