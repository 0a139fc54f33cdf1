// Package messages holds the localized reminder texts. Lookup never fails:
// unknown languages fall back to English, unknown keys to a generic
// reminder, so a missing translation can only ever soften a message, not
// block a notification.
package messages

import (
	"cycle_companion_bot/internal/domain/notification"
	"cycle_companion_bot/internal/domain/user"
)

// Text is a localized notification title/body pair.
type Text struct {
	Title string
	Body  string
}

var texts = map[user.Language]map[notification.MessageKey]Text{
	user.LanguageEnglish: {
		notification.KeyPeriodToday:    {"Period expected today", "Your period is predicted to start today. Don't forget to log it."},
		notification.KeyPeriodTomorrow: {"Period expected tomorrow", "Your period is predicted to start tomorrow. Time to prepare."},
		notification.KeyFertileStart:   {"Fertile window starts", "Your fertile window is predicted to begin today."},
		notification.KeyFertileEnd:     {"Fertile window ends", "Today is the predicted last day of your fertile window."},
		notification.KeyOvulation:      {"Ovulation day", "Today is your predicted ovulation day."},
		notification.KeyWeeklyCheck:    {"Weekly check-in", "How was your week? Take a minute to log how you feel."},
	},
	user.LanguageGerman: {
		notification.KeyPeriodToday:    {"Periode heute erwartet", "Deine Periode beginnt voraussichtlich heute. Vergiss nicht, sie einzutragen."},
		notification.KeyPeriodTomorrow: {"Periode morgen erwartet", "Deine Periode beginnt voraussichtlich morgen. Zeit, sich vorzubereiten."},
		notification.KeyFertileStart:   {"Fruchtbare Phase beginnt", "Deine fruchtbare Phase beginnt voraussichtlich heute."},
		notification.KeyFertileEnd:     {"Fruchtbare Phase endet", "Heute ist voraussichtlich der letzte Tag deiner fruchtbaren Phase."},
		notification.KeyOvulation:      {"Eisprung", "Heute ist dein voraussichtlicher Eisprung."},
		notification.KeyWeeklyCheck:    {"Wöchentlicher Check-in", "Wie war deine Woche? Nimm dir eine Minute und trag ein, wie du dich fühlst."},
	},
	user.LanguagePolish: {
		notification.KeyPeriodToday:    {"Okres spodziewany dzisiaj", "Twój okres prawdopodobnie zacznie się dzisiaj. Nie zapomnij go zapisać."},
		notification.KeyPeriodTomorrow: {"Okres spodziewany jutro", "Twój okres prawdopodobnie zacznie się jutro. Czas się przygotować."},
		notification.KeyFertileStart:   {"Początek dni płodnych", "Twoje dni płodne prawdopodobnie zaczynają się dzisiaj."},
		notification.KeyFertileEnd:     {"Koniec dni płodnych", "Dzisiaj to prawdopodobnie ostatni dzień Twoich dni płodnych."},
		notification.KeyOvulation:      {"Dzień owulacji", "Dzisiaj przypada Twoja przewidywana owulacja."},
		notification.KeyWeeklyCheck:    {"Cotygodniowy przegląd", "Jak minął tydzień? Poświęć minutę i zapisz, jak się czujesz."},
	},
}

var fallback = Text{
	Title: "Cycle reminder",
	Body:  "You have an upcoming cycle event.",
}

// Lookup returns the title and body for a reminder in the given language.
func Lookup(lang user.Language, key notification.MessageKey) (string, string) {
	byKey, ok := texts[lang]
	if !ok {
		byKey = texts[user.LanguageEnglish]
	}
	t, ok := byKey[key]
	if !ok {
		t = fallback
	}
	return t.Title, t.Body
}
