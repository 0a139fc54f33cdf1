package user

import (
	"time"
)

// Language is the user's preferred language for reminder texts.
type Language string

const (
	LanguageGerman  Language = "de"
	LanguageEnglish Language = "en"
	LanguagePolish  Language = "pl"
)

// Known reports whether l is one of the supported languages.
func (l Language) Known() bool {
	switch l {
	case LanguageGerman, LanguageEnglish, LanguagePolish:
		return true
	}
	return false
}

// User represents a person tracking their cycle through the bot.
type User struct {
	ID         int64
	TelegramID int64
	FirstName  string
	Language   Language
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
