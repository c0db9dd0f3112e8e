package calendar

import (
	"fmt"
	"time"
)

// TreatmentIDProperty is the private extended-property key carrying the
// treatment identifier on every dose event.
const TreatmentIDProperty = "treatment_id"

// EventDateTime is an event boundary with an explicit timezone identifier.
type EventDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

// NewEventDateTime builds an EventDateTime from a timezone-aware timestamp.
func NewEventDateTime(t time.Time, tzName string) EventDateTime {
	return EventDateTime{
		DateTime: t.Format(time.RFC3339),
		TimeZone: tzName,
	}
}

// Time parses the boundary back into a timestamp.
func (d EventDateTime) Time() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, d.DateTime)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing event time %q: %w", d.DateTime, err)
	}
	return t, nil
}

// ReminderOverride is one lead-time alert attached to an event.
type ReminderOverride struct {
	Method  string `json:"method"`
	Minutes int    `json:"minutes"`
}

// Reminders configures event alerts, replacing the calendar defaults.
type Reminders struct {
	UseDefault bool               `json:"useDefault"`
	Overrides  []ReminderOverride `json:"overrides,omitempty"`
}

// ExtendedProperties is the opaque metadata bag on an event. The private
// map is only visible to this application.
type ExtendedProperties struct {
	Private map[string]string `json:"private,omitempty"`
}

// Event is the calendar service's event representation.
type Event struct {
	ID                 string              `json:"id,omitempty"`
	Summary            string              `json:"summary"`
	Description        string              `json:"description,omitempty"`
	Start              EventDateTime       `json:"start"`
	End                EventDateTime       `json:"end"`
	Reminders          *Reminders          `json:"reminders,omitempty"`
	ExtendedProperties *ExtendedProperties `json:"extendedProperties,omitempty"`
}

// TreatmentID returns the treatment identifier stored in the event's
// private metadata, or "" when absent.
func (e Event) TreatmentID() string {
	if e.ExtendedProperties == nil {
		return ""
	}
	return e.ExtendedProperties.Private[TreatmentIDProperty]
}

// ListQuery restricts an event listing. Zero-value fields are omitted.
type ListQuery struct {
	// Text matches against event titles and descriptions.
	Text string

	// PrivateProperties filters by private extended properties, all of
	// which must match.
	PrivateProperties map[string]string

	// TimeMin excludes events ending before this instant.
	TimeMin time.Time

	// MaxResults caps the page size; the backend default applies when 0.
	MaxResults int
}
