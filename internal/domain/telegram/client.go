package telegram

import "gopkg.in/telebot.v3"

// Client defines an interface for sending messages via a Telegram bot.
// This keeps the delivery and application layers decoupled from the bot
// library.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
	// SendMarkdown sends text with Markdown parsing enabled.
	SendMarkdown(recipientChatID int64, text string) error
}
