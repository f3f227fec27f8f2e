package bot

import "context"

// Message is one inbound chat message as the transport delivers it.
type Message struct {
	SenderID   int64
	ChatID     int64
	SenderName string
	Text       string
}

// Transport is the outbound chat port. Replies target the conversation
// the triggering message arrived in.
type Transport interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) error
}
