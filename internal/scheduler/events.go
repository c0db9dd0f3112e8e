package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/gmfontes/bulario/internal/calendar"
	"github.com/gmfontes/bulario/internal/domain"
)

// DeleteResult reports a bulk deletion: every id is attempted
// independently and failures are collected, never swallowed.
type DeleteResult struct {
	Deleted   int
	FailedIDs []string
}

// FindFutureEvents returns the upcoming dose events for a medication,
// ordered by start time ascending. Only events matching the title
// convention and starting at or after now are included.
func (s *Service) FindFutureEvents(ctx context.Context, medication string) ([]domain.DoseEvent, error) {
	now := s.now()
	title := domain.EventTitleFor(medication)

	events, err := s.cal.List(ctx, calendar.ListQuery{
		Text:       title,
		TimeMin:    now,
		MaxResults: maxListResults,
	})
	if err != nil {
		return nil, err
	}

	doses := make([]domain.DoseEvent, 0, len(events))
	for _, ev := range events {
		// Text search also matches descriptions; keep only real dose
		// events for this medication.
		if ev.Summary != title {
			continue
		}
		dose, err := doseEventFromCalendar(ev)
		if err != nil {
			s.log.Warn("skipping event with malformed times", "id", ev.ID, "error", err)
			continue
		}
		if dose.Start.Before(now) {
			continue
		}
		doses = append(doses, dose)
	}
	return doses, nil
}

// DeleteEvents removes the given events one by one. A failure on one id
// does not abort the others.
func (s *Service) DeleteEvents(ctx context.Context, eventIDs []string) DeleteResult {
	var result DeleteResult
	for _, id := range eventIDs {
		if err := s.cal.Delete(ctx, id); err != nil {
			s.log.Warn("event deletion failed", "id", id, "error", err)
			result.FailedIDs = append(result.FailedIDs, id)
			continue
		}
		result.Deleted++
	}
	return result
}

// EditEvent shifts a single event to newStart, preserving its original
// duration. A newStart in the past is rejected before any calendar call.
func (s *Service) EditEvent(ctx context.Context, eventID string, newStart time.Time) (*domain.DoseEvent, error) {
	if newStart.Before(s.now()) {
		return nil, ErrStartTimeInPast
	}

	ev, err := s.cal.Get(ctx, eventID)
	if err != nil {
		return nil, &EditError{EventID: eventID, Err: err}
	}

	origStart, err := ev.Start.Time()
	if err != nil {
		return nil, &EditError{EventID: eventID, Err: err}
	}
	origEnd, err := ev.End.Time()
	if err != nil {
		return nil, &EditError{EventID: eventID, Err: err}
	}
	duration := origEnd.Sub(origStart)

	ev.Start = calendar.NewEventDateTime(newStart, s.tzName)
	ev.End = calendar.NewEventDateTime(newStart.Add(duration), s.tzName)

	updated, err := s.cal.Update(ctx, eventID, *ev)
	if err != nil {
		return nil, &EditError{EventID: eventID, Err: err}
	}

	dose, err := doseEventFromCalendar(*updated)
	if err != nil {
		return nil, &EditError{EventID: eventID, Err: err}
	}
	return &dose, nil
}

// IsNotFound reports whether err stems from a missing calendar event.
func IsNotFound(err error) bool {
	return errors.Is(err, calendar.ErrNotFound)
}
