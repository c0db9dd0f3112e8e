package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/gmfontes/bulario/internal/calendar"
	"github.com/gmfontes/bulario/internal/domain"
)

// ScheduleResult summarizes one scheduling operation. Partial success is a
// valid outcome: Created may be lower than Requested, with the 1-based
// indexes of the missing doses in FailedDoses.
type ScheduleResult struct {
	TreatmentID domain.TreatmentID
	Medication  string
	Start       time.Time
	Requested   int
	Created     int
	FailedDoses []int
}

// Schedule materializes a prescription as calendar events starting at
// start: one event every IntervalHours, each lasting 30 minutes, all tagged
// with a fresh treatment id. Each insert is independent — a failed dose is
// logged and skipped without aborting the rest of the batch. Calling twice
// with identical inputs creates two independent treatments; deduplication
// is a caller policy.
func (s *Service) Schedule(ctx context.Context, rx domain.Prescription, start time.Time) (*ScheduleResult, error) {
	if err := rx.Validate(); err != nil {
		return nil, err
	}
	if start.Before(s.now()) {
		return nil, ErrStartTimeInPast
	}

	total := rx.TotalDoses()
	treatmentID := domain.NewTreatmentID()

	s.log.Info("scheduling treatment",
		"medication", rx.Medication,
		"treatment_id", treatmentID,
		"doses", total,
		"interval_hours", rx.IntervalHours)

	result := &ScheduleResult{
		TreatmentID: treatmentID,
		Medication:  rx.Medication,
		Start:       start,
		Requested:   total,
	}

	for i := 0; i < total; i++ {
		doseStart := addWallClockHours(start, i*rx.IntervalHours)
		doseEnd := doseStart.Add(domain.DoseDuration)

		ev := calendar.Event{
			Summary: rx.EventTitle(),
			Description: fmt.Sprintf("Dose %d de %d do tratamento.\n\nID do Tratamento: %s",
				i+1, total, treatmentID),
			Start: calendar.NewEventDateTime(doseStart, s.tzName),
			End:   calendar.NewEventDateTime(doseEnd, s.tzName),
			Reminders: &calendar.Reminders{
				UseDefault: false,
				Overrides: []calendar.ReminderOverride{
					{Method: "popup", Minutes: reminderLeadMinutes},
				},
			},
			ExtendedProperties: &calendar.ExtendedProperties{
				Private: map[string]string{
					calendar.TreatmentIDProperty: string(treatmentID),
				},
			},
		}

		if _, err := s.cal.Insert(ctx, ev); err != nil {
			s.log.Warn("dose event creation failed",
				"treatment_id", treatmentID,
				"dose", i+1,
				"error", err)
			result.FailedDoses = append(result.FailedDoses, i+1)
			continue
		}
		result.Created++
	}

	return result, nil
}
