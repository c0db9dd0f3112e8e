package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TreatmentIDPrefix namespaces treatment identifiers stored in calendar
// event metadata.
const TreatmentIDPrefix = "medsched_"

// TreatmentID correlates all dose events of one prescribed course. It is
// generated once per scheduling operation, never reused, and has no storage
// of its own: it is recoverable only from event metadata.
type TreatmentID string

// NewTreatmentID returns a fresh opaque treatment identifier.
func NewTreatmentID() TreatmentID {
	return TreatmentID(TreatmentIDPrefix + uuid.NewString()[:8])
}

// IsTreatmentID reports whether s carries the treatment id namespace.
func IsTreatmentID(s string) bool {
	return strings.HasPrefix(s, TreatmentIDPrefix)
}

// DoseEvent is one scheduled calendar occurrence representing a single dose.
type DoseEvent struct {
	EventID     string
	Title       string
	Start       time.Time
	End         time.Time
	DoseIndex   int // 1-based position within the treatment
	TotalDoses  int
	TreatmentID TreatmentID
}

// Duration returns the event length, preserved across time shifts.
func (e DoseEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}
