package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gmfontes/bulario/internal/calendar"
)

// saoPaulo stands in for the deployment timezone without depending on the
// host's tzdata.
var saoPaulo = time.FixedZone("America/Sao_Paulo", -3*60*60)

// testNow is the frozen reference instant for all scheduler tests.
var testNow = time.Date(2026, 9, 1, 8, 0, 0, 0, saoPaulo)

// fakeCalendar is an in-memory EventAPI double.
type fakeCalendar struct {
	mu      sync.Mutex
	events  map[string]calendar.Event
	nextID  int
	inserts int

	failInsertOn map[int]bool    // 1-based insert call numbers that fail
	failDelete   map[string]bool // event ids whose deletion fails
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{events: map[string]calendar.Event{}}
}

func (f *fakeCalendar) Insert(_ context.Context, ev calendar.Event) (*calendar.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.inserts++
	if f.failInsertOn[f.inserts] {
		return nil, fmt.Errorf("backend rejected insert %d", f.inserts)
	}
	f.nextID++
	ev.ID = fmt.Sprintf("evt-%d", f.nextID)
	f.events[ev.ID] = ev
	return &ev, nil
}

func (f *fakeCalendar) List(_ context.Context, q calendar.ListQuery) ([]calendar.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []calendar.Event
	for _, ev := range f.events {
		if q.Text != "" && !strings.Contains(ev.Summary, q.Text) && !strings.Contains(ev.Description, q.Text) {
			continue
		}
		if !matchesProperties(ev, q.PrivateProperties) {
			continue
		}
		if !q.TimeMin.IsZero() {
			end, err := ev.End.Time()
			if err != nil || end.Before(q.TimeMin) {
				continue
			}
		}
		out = append(out, ev)
	}

	sort.Slice(out, func(i, j int) bool {
		a, _ := out[i].Start.Time()
		b, _ := out[j].Start.Time()
		return a.Before(b)
	})
	if q.MaxResults > 0 && len(out) > q.MaxResults {
		out = out[:q.MaxResults]
	}
	return out, nil
}

func matchesProperties(ev calendar.Event, props map[string]string) bool {
	for k, v := range props {
		if ev.ExtendedProperties == nil || ev.ExtendedProperties.Private[k] != v {
			return false
		}
	}
	return true
}

func (f *fakeCalendar) Get(_ context.Context, eventID string) (*calendar.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ev, ok := f.events[eventID]
	if !ok {
		return nil, calendar.ErrNotFound
	}
	return &ev, nil
}

func (f *fakeCalendar) Update(_ context.Context, eventID string, ev calendar.Event) (*calendar.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.events[eventID]; !ok {
		return nil, calendar.ErrNotFound
	}
	ev.ID = eventID
	f.events[eventID] = ev
	return &ev, nil
}

func (f *fakeCalendar) Delete(_ context.Context, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDelete[eventID] {
		return fmt.Errorf("backend refused to delete %s", eventID)
	}
	if _, ok := f.events[eventID]; !ok {
		return calendar.ErrNotFound
	}
	delete(f.events, eventID)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeCalendar) {
	t.Helper()
	cal := newFakeCalendar()
	svc := NewService(cal, saoPaulo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return testNow }
	return svc, cal
}
