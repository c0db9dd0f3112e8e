package scheduler

import (
	"fmt"
	"strings"
	"time"
)

// startTimeLayout is the explicit start-time format accepted from users,
// interpreted in the deployment's reference timezone.
const startTimeLayout = "02/01/2006 15:04"

// nowGrace is added when the user asks to start "agora", so the first dose
// is not already past by the time the calendar call lands.
const nowGrace = time.Minute

// ParseStartTime converts a user-supplied start string into a timestamp in
// loc. The literal "agora"/"now" (or blank) means now plus one minute; an
// explicit "DD/MM/AAAA HH:MM" must not be in the past.
func ParseStartTime(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" || trimmed == "agora" || trimmed == "now" {
		return now.In(loc).Add(nowGrace), nil
	}

	t, err := time.ParseInLocation(startTimeLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q (use 'agora' or 'DD/MM/AAAA HH:MM')", ErrBadStartTime, raw)
	}
	if t.Before(now) {
		return time.Time{}, ErrStartTimeInPast
	}
	return t, nil
}

// addWallClockHours shifts t by whole hours keeping wall-clock semantics:
// crossing a DST transition preserves the local clock reading rather than
// the elapsed duration.
func addWallClockHours(t time.Time, hours int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+hours,
		t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
