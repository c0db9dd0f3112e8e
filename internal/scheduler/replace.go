package scheduler

import (
	"context"
	"time"

	"github.com/gmfontes/bulario/internal/calendar"
	"github.com/gmfontes/bulario/internal/domain"
)

// ReplaceResult exposes both phases of a treatment replacement so callers
// can detect and repair partial failures: which old events were removed and
// what the new treatment looks like.
type ReplaceResult struct {
	OldTreatmentID domain.TreatmentID
	Deleted        DeleteResult
	Schedule       *ScheduleResult
}

// ReplaceTreatment deletes every event of the old treatment and schedules
// the new prescription in its place. The two phases are NOT transactional:
// if creation partially fails after deletion, the intermediate state is
// reported as-is — there is no rollback, because the calendar collaborator
// has no compensating-transaction API.
func (s *Service) ReplaceTreatment(ctx context.Context, oldID domain.TreatmentID, rx domain.Prescription, start time.Time) (*ReplaceResult, error) {
	// Validate the new schedule before touching the old one, so a bad
	// replacement never destroys an existing treatment.
	if err := rx.Validate(); err != nil {
		return nil, err
	}
	if start.Before(s.now()) {
		return nil, ErrStartTimeInPast
	}

	old, err := s.cal.List(ctx, calendar.ListQuery{
		PrivateProperties: map[string]string{
			calendar.TreatmentIDProperty: string(oldID),
		},
		MaxResults: maxListResults,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(old))
	for _, ev := range old {
		ids = append(ids, ev.ID)
	}

	result := &ReplaceResult{OldTreatmentID: oldID}
	result.Deleted = s.DeleteEvents(ctx, ids)

	result.Schedule, err = s.Schedule(ctx, rx, start)
	if err != nil {
		// The old treatment is already gone; surface the half-done state
		// alongside the error instead of masking it.
		return result, err
	}
	return result, nil
}
