// internal/domain/notification/derive.go
package notification

import (
	"time"

	"cycle_companion_bot/internal/domain/cycle"
)

// Fire-time hours, in the user's local day.
const (
	periodTodayHour    = 9
	periodTomorrowHour = 20
	fertileStartHour   = 9
	fertileEndHour     = 18
	ovulationHour      = 10
	weeklyCheckHour    = 11
)

// Candidate is one reminder the scheduler intends to place, before the
// time-safety guard has been applied.
type Candidate struct {
	Type   EventType
	Key    MessageKey
	FireAt time.Time
}

// DeriveCandidates builds the full set of candidate reminders for one
// scheduling run. Prediction inputs are independent: a nil input skips its
// event category and nothing else. The weekly check is always emitted.
// Candidate times are placed in now's location.
func DeriveCandidates(now time.Time, nextStart, ovulation *time.Time, window *cycle.Window) []Candidate {
	var out []Candidate

	if nextStart != nil {
		out = append(out,
			Candidate{Type: EventPeriodDue, Key: KeyPeriodToday, FireAt: atHour(*nextStart, periodTodayHour, now.Location())},
			Candidate{Type: EventPeriodDue, Key: KeyPeriodTomorrow, FireAt: atHour(nextStart.AddDate(0, 0, -1), periodTomorrowHour, now.Location())},
		)
	}

	if window != nil {
		out = append(out,
			Candidate{Type: EventFertileWindowStart, Key: KeyFertileStart, FireAt: atHour(window.Start, fertileStartHour, now.Location())},
			Candidate{Type: EventFertileWindowEnd, Key: KeyFertileEnd, FireAt: atHour(window.End, fertileEndHour, now.Location())},
		)
	}

	if ovulation != nil {
		out = append(out, Candidate{Type: EventOvulation, Key: KeyOvulation, FireAt: atHour(*ovulation, ovulationHour, now.Location())})
	}

	out = append(out, Candidate{Type: EventWeeklyCheck, Key: KeyWeeklyCheck, FireAt: NextWeeklyCheck(now)})

	return out
}

// NextWeeklyCheck returns 11:00 on the next Sunday strictly after now's
// date. When today is Sunday the check lands a full week out, never today.
func NextWeeklyCheck(now time.Time) time.Time {
	days := (7 - int(now.Weekday())) % 7
	if days == 0 {
		days = 7
	}
	return atHour(now.AddDate(0, 0, days), weeklyCheckHour, now.Location())
}

// atHour pins a date to a clock hour in the given location, discarding
// whatever time-of-day the prediction carried.
func atHour(date time.Time, hour int, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hour, 0, 0, 0, loc)
}
