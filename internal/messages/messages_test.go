package messages

import (
	"testing"

	"cycle_companion_bot/internal/domain/notification"
	"cycle_companion_bot/internal/domain/user"

	"github.com/stretchr/testify/assert"
)

var allKeys = []notification.MessageKey{
	notification.KeyPeriodToday,
	notification.KeyPeriodTomorrow,
	notification.KeyFertileStart,
	notification.KeyFertileEnd,
	notification.KeyOvulation,
	notification.KeyWeeklyCheck,
}

func TestEveryLanguageCoversEveryKey(t *testing.T) {
	for _, lang := range []user.Language{user.LanguageGerman, user.LanguageEnglish, user.LanguagePolish} {
		for _, key := range allKeys {
			title, body := Lookup(lang, key)
			assert.NotEmpty(t, title, "%s/%s title", lang, key)
			assert.NotEmpty(t, body, "%s/%s body", lang, key)
		}
	}
}

func TestUnknownLanguageFallsBackToEnglish(t *testing.T) {
	wantTitle, wantBody := Lookup(user.LanguageEnglish, notification.KeyOvulation)
	title, body := Lookup(user.Language("fr"), notification.KeyOvulation)
	assert.Equal(t, wantTitle, title)
	assert.Equal(t, wantBody, body)
}

func TestUnknownKeyFallsBackToGenericReminder(t *testing.T) {
	title, body := Lookup(user.LanguageEnglish, notification.MessageKey("no_such_key"))
	assert.NotEmpty(t, title)
	assert.NotEmpty(t, body)
}
