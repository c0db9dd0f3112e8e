package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmfontes/bulario/internal/calendar"
	"github.com/gmfontes/bulario/internal/domain"
)

func TestFindFutureEvents(t *testing.T) {
	ctx := context.Background()
	rx := domain.Prescription{Medication: "dipirona", IntervalHours: 8, DurationDays: 5}

	t.Run("returns doses sorted by start time", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Schedule(ctx, rx, testNow.Add(time.Hour))
		require.NoError(t, err)

		doses, err := svc.FindFutureEvents(ctx, "dipirona")
		require.NoError(t, err)
		require.Len(t, doses, 15)

		for i := 1; i < len(doses); i++ {
			assert.True(t, doses[i].Start.After(doses[i-1].Start),
				"dose %d should start after dose %d", i+1, i)
		}
	})

	t.Run("lookup is case-insensitive on the medication name", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Schedule(ctx, rx, testNow.Add(time.Hour))
		require.NoError(t, err)

		doses, err := svc.FindFutureEvents(ctx, "DiPiRoNa")
		require.NoError(t, err)
		assert.Len(t, doses, 15)
	})

	t.Run("excludes other medications", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Schedule(ctx, rx, testNow.Add(time.Hour))
		require.NoError(t, err)
		other := domain.Prescription{Medication: "amoxicilina", IntervalHours: 12, DurationDays: 7}
		_, err = svc.Schedule(ctx, other, testNow.Add(time.Hour))
		require.NoError(t, err)

		doses, err := svc.FindFutureEvents(ctx, "amoxicilina")
		require.NoError(t, err)
		require.Len(t, doses, 14)
		for _, dose := range doses {
			assert.Equal(t, "Tomar AMOXICILINA", dose.Title)
		}
	})

	t.Run("excludes events already started", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Schedule(ctx, rx, testNow.Add(time.Hour))
		require.NoError(t, err)

		// Jump forward past the first three doses.
		svc.now = func() time.Time { return addWallClockHours(testNow, 18) }

		doses, err := svc.FindFutureEvents(ctx, "dipirona")
		require.NoError(t, err)
		assert.Len(t, doses, 12)
	})

	t.Run("read is idempotent", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Schedule(ctx, rx, testNow.Add(time.Hour))
		require.NoError(t, err)

		first, err := svc.FindFutureEvents(ctx, "dipirona")
		require.NoError(t, err)
		second, err := svc.FindFutureEvents(ctx, "dipirona")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("no matches yields empty slice", func(t *testing.T) {
		svc, _ := newTestService(t)

		doses, err := svc.FindFutureEvents(ctx, "dipirona")
		require.NoError(t, err)
		assert.Empty(t, doses)
	})
}

func TestDeleteEvents(t *testing.T) {
	ctx := context.Background()
	rx := domain.Prescription{Medication: "dipirona", IntervalHours: 8, DurationDays: 5}

	t.Run("deletes every listed event", func(t *testing.T) {
		svc, cal := newTestService(t)
		_, err := svc.Schedule(ctx, rx, testNow.Add(time.Hour))
		require.NoError(t, err)

		doses, err := svc.FindFutureEvents(ctx, "dipirona")
		require.NoError(t, err)
		ids := make([]string, len(doses))
		for i, d := range doses {
			ids[i] = d.EventID
		}

		res := svc.DeleteEvents(ctx, ids)
		assert.Equal(t, 15, res.Deleted)
		assert.Empty(t, res.FailedIDs)
		assert.Empty(t, cal.events)
	})

	t.Run("one failure does not abort the rest", func(t *testing.T) {
		svc, cal := newTestService(t)
		_, err := svc.Schedule(ctx, rx, testNow.Add(time.Hour))
		require.NoError(t, err)

		doses, err := svc.FindFutureEvents(ctx, "dipirona")
		require.NoError(t, err)
		ids := make([]string, len(doses))
		for i, d := range doses {
			ids[i] = d.EventID
		}
		cal.failDelete = map[string]bool{ids[4]: true}

		res := svc.DeleteEvents(ctx, ids)
		assert.Equal(t, 14, res.Deleted)
		assert.Equal(t, []string{ids[4]}, res.FailedIDs)
		assert.Len(t, cal.events, 1)
	})

	t.Run("empty id list is a no-op", func(t *testing.T) {
		svc, _ := newTestService(t)

		res := svc.DeleteEvents(ctx, nil)
		assert.Zero(t, res.Deleted)
		assert.Empty(t, res.FailedIDs)
	})
}

func TestEditEvent(t *testing.T) {
	ctx := context.Background()
	rx := domain.Prescription{Medication: "dipirona", IntervalHours: 8, DurationDays: 1}

	t.Run("shifts start and preserves duration", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Schedule(ctx, rx, testNow.Add(time.Hour))
		require.NoError(t, err)

		doses, err := svc.FindFutureEvents(ctx, "dipirona")
		require.NoError(t, err)
		target := doses[0]

		newStart := testNow.Add(5 * time.Hour)
		updated, err := svc.EditEvent(ctx, target.EventID, newStart)
		require.NoError(t, err)

		assert.True(t, updated.Start.Equal(newStart))
		assert.Equal(t, target.Duration(), updated.Duration())
		assert.Equal(t, target.DoseIndex, updated.DoseIndex)
		assert.Equal(t, target.TreatmentID, updated.TreatmentID)
	})

	t.Run("other events are untouched", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Schedule(ctx, rx, testNow.Add(time.Hour))
		require.NoError(t, err)

		before, err := svc.FindFutureEvents(ctx, "dipirona")
		require.NoError(t, err)
		require.Len(t, before, 3)

		_, err = svc.EditEvent(ctx, before[1].EventID, testNow.Add(48*time.Hour))
		require.NoError(t, err)

		after, err := svc.FindFutureEvents(ctx, "dipirona")
		require.NoError(t, err)
		require.Len(t, after, 3)
		assert.True(t, after[0].Start.Equal(before[0].Start))
		assert.True(t, after[1].Start.Equal(before[2].Start))
	})

	t.Run("past start rejected without touching the calendar", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Schedule(ctx, rx, testNow.Add(time.Hour))
		require.NoError(t, err)

		before, err := svc.FindFutureEvents(ctx, "dipirona")
		require.NoError(t, err)

		_, err = svc.EditEvent(ctx, before[0].EventID, testNow.Add(-time.Hour))
		assert.ErrorIs(t, err, ErrStartTimeInPast)

		after, err := svc.FindFutureEvents(ctx, "dipirona")
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("missing event reported with its id", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.EditEvent(ctx, "evt-missing", testNow.Add(time.Hour))
		require.Error(t, err)

		var editErr *EditError
		require.ErrorAs(t, err, &editErr)
		assert.Equal(t, "evt-missing", editErr.EventID)
		assert.True(t, IsNotFound(err))
		assert.ErrorIs(t, err, calendar.ErrNotFound)
	})
}
