package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gmfontes/bulario/internal/calendar"
	"github.com/gmfontes/bulario/internal/domain"
)

// reminderLeadMinutes is the popup lead time attached to every dose event.
const reminderLeadMinutes = 10

// maxListResults caps how many future events one lookup returns.
const maxListResults = 250

// EventAPI is the calendar surface the scheduler consumes. *calendar.Client
// satisfies it; tests provide an in-memory fake.
type EventAPI interface {
	Insert(ctx context.Context, ev calendar.Event) (*calendar.Event, error)
	List(ctx context.Context, q calendar.ListQuery) ([]calendar.Event, error)
	Get(ctx context.Context, eventID string) (*calendar.Event, error)
	Update(ctx context.Context, eventID string, ev calendar.Event) (*calendar.Event, error)
	Delete(ctx context.Context, eventID string) error
}

// Service schedules, finds, edits and deletes dose events on the external
// calendar. Stateless apart from the injected collaborators; safe for
// concurrent use.
type Service struct {
	cal    EventAPI
	loc    *time.Location
	tzName string
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates a scheduler bound to a calendar collaborator and a
// reference timezone. logger may be nil.
func NewService(cal EventAPI, loc *time.Location, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cal:    cal,
		loc:    loc,
		tzName: loc.String(),
		log:    logger,
		now:    func() time.Time { return time.Now().In(loc) },
	}
}

// Location returns the deployment's reference timezone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Now returns the current time in the reference timezone.
func (s *Service) Now() time.Time {
	return s.now()
}

// doseEventFromCalendar converts a calendar event into a dose summary.
// A malformed description leaves the index fields at zero.
func doseEventFromCalendar(ev calendar.Event) (domain.DoseEvent, error) {
	start, err := ev.Start.Time()
	if err != nil {
		return domain.DoseEvent{}, err
	}
	end, err := ev.End.Time()
	if err != nil {
		return domain.DoseEvent{}, err
	}

	dose := domain.DoseEvent{
		EventID:     ev.ID,
		Title:       ev.Summary,
		Start:       start,
		End:         end,
		TreatmentID: domain.TreatmentID(ev.TreatmentID()),
	}
	fmt.Sscanf(ev.Description, "Dose %d de %d", &dose.DoseIndex, &dose.TotalDoses)
	return dose, nil
}
