package cycle

import (
	"time"
)

const (
	// DefaultCycleLength is assumed until enough history exists to average.
	DefaultCycleLength = 28

	// Observed gaps outside this range are treated as data-entry noise
	// (a skipped log, a typo) and excluded from the average.
	minPlausibleGap = 15
	maxPlausibleGap = 60

	// maxGapsAveraged bounds how far back the average looks, so the
	// prediction tracks recent cycles rather than years-old ones.
	maxGapsAveraged = 6

	lutealPhaseDays = 14
)

// Window is a fertile window: both bounds inclusive, date precision.
type Window struct {
	Start time.Time
	End   time.Time
}

// AverageLength returns the user's average cycle length in days, derived
// from the gaps between consecutive start dates in history. History must be
// ordered newest first, as returned by Repository.ListByUser. Falls back to
// DefaultCycleLength when fewer than two plausible gaps exist.
func AverageLength(history []*Entry) int {
	var sum, n int
	for i := 0; i+1 < len(history) && n < maxGapsAveraged; i++ {
		gap := int(history[i].StartDate.Sub(history[i+1].StartDate).Hours() / 24)
		if gap < minPlausibleGap || gap > maxPlausibleGap {
			continue
		}
		sum += gap
		n++
	}
	if n < 2 {
		return DefaultCycleLength
	}
	return sum / n
}

// PredictNextStart returns the predicted start date of the next period, or
// nil when there is no history to predict from.
func PredictNextStart(history []*Entry) *time.Time {
	if len(history) == 0 {
		return nil
	}
	next := history[0].StartDate.AddDate(0, 0, AverageLength(history))
	return &next
}

// OvulationDate returns the predicted ovulation date (next start minus the
// luteal phase), or nil when no next start can be predicted.
func OvulationDate(history []*Entry) *time.Time {
	next := PredictNextStart(history)
	if next == nil {
		return nil
	}
	ov := next.AddDate(0, 0, -lutealPhaseDays)
	return &ov
}

// FertileWindow returns the predicted fertile window (five days before
// ovulation through one day after), or nil when no prediction is possible.
func FertileWindow(history []*Entry) *Window {
	ov := OvulationDate(history)
	if ov == nil {
		return nil
	}
	return &Window{
		Start: ov.AddDate(0, 0, -5),
		End:   ov.AddDate(0, 0, 1),
	}
}
