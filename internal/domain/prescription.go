package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DoseDuration is how long each dose event blocks on the calendar.
const DoseDuration = 30 * time.Minute

var (
	// ErrEmptyMedication indicates a prescription without a medication name.
	ErrEmptyMedication = errors.New("prescription has no medication name")

	// ErrNonPositiveInterval indicates an interval of zero or fewer hours.
	ErrNonPositiveInterval = errors.New("interval must be a positive number of hours")

	// ErrNonPositiveDuration indicates a duration of zero or fewer days.
	ErrNonPositiveDuration = errors.New("duration must be a positive number of days")

	// ErrEmptySchedule indicates a prescription whose interval exceeds its
	// total duration, yielding zero doses.
	ErrEmptySchedule = errors.New("prescription yields zero doses")
)

// Prescription is the structured schedule descriptor extracted from a
// free-text medication instruction. Immutable once created.
type Prescription struct {
	// Medication is the name as extracted, case preserved.
	Medication string

	// IntervalHours is the number of hours between doses.
	IntervalHours int

	// DurationDays is the total treatment length in days.
	DurationDays int
}

// TotalDoses returns floor(duration_days * 24 / interval_hours).
// The division truncates: a partial trailing day yields no extra dose.
func (p Prescription) TotalDoses() int {
	if p.IntervalHours <= 0 {
		return 0
	}
	return p.DurationDays * 24 / p.IntervalHours
}

// Validate checks the prescription invariants: non-empty medication,
// positive interval and duration, and at least one resulting dose.
func (p Prescription) Validate() error {
	if strings.TrimSpace(p.Medication) == "" {
		return ErrEmptyMedication
	}
	if p.IntervalHours <= 0 {
		return ErrNonPositiveInterval
	}
	if p.DurationDays <= 0 {
		return ErrNonPositiveDuration
	}
	if p.TotalDoses() < 1 {
		return ErrEmptySchedule
	}
	return nil
}

// EventTitle returns the calendar title for this medication, following the
// fixed naming convention used to find events back later.
func (p Prescription) EventTitle() string {
	return EventTitleFor(p.Medication)
}

// EventTitleFor returns the calendar title convention for a medication name.
func EventTitleFor(medication string) string {
	return fmt.Sprintf("Tomar %s", strings.ToUpper(medication))
}
