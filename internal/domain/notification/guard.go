// internal/domain/notification/guard.go
package notification

import "time"

const (
	// nearImmediateWindow: candidates closer than this are pushed back,
	// since the delivery layer may reject or misfire near-immediate
	// triggers.
	nearImmediateWindow = 20 * time.Second
	nearImmediateShift  = 2 * time.Minute
)

// SafeFireTime converts a candidate fire time into a safe future instant.
// The second return value is false when the candidate is stale (at or
// before now) and must not be scheduled at all. Candidates less than 20
// seconds away are shifted forward by exactly two minutes; anything further
// out passes through unchanged. Pure function of its inputs.
func SafeFireTime(now, candidate time.Time) (time.Time, bool) {
	if !candidate.After(now) {
		return time.Time{}, false
	}
	if candidate.Sub(now) < nearImmediateWindow {
		return candidate.Add(nearImmediateShift), true
	}
	return candidate, true
}
