package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.CalendarID = "primary"
	return NewClient(cfg, StaticTokenSource("tok-123"), nil), srv
}

func TestClient_Insert(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		var ev Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
		assert.Equal(t, "Tomar DIPIRONA", ev.Summary)
		assert.Equal(t, "medsched_deadbeef", ev.TreatmentID())

		ev.ID = "evt-1"
		json.NewEncoder(w).Encode(ev)
	}))

	ev := Event{
		Summary: "Tomar DIPIRONA",
		Start:   EventDateTime{DateTime: "2026-09-01T08:00:00-03:00", TimeZone: "America/Sao_Paulo"},
		End:     EventDateTime{DateTime: "2026-09-01T08:30:00-03:00", TimeZone: "America/Sao_Paulo"},
		ExtendedProperties: &ExtendedProperties{
			Private: map[string]string{TreatmentIDProperty: "medsched_deadbeef"},
		},
	}

	created, err := client.Insert(context.Background(), ev)
	require.NoError(t, err)
	assert.Equal(t, "evt-1", created.ID)
}

func TestClient_List_QueryParams(t *testing.T) {
	timeMin := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Tomar DIPIRONA", q.Get("q"))
		assert.Equal(t, "true", q.Get("singleEvents"))
		assert.Equal(t, "startTime", q.Get("orderBy"))
		assert.Equal(t, timeMin.Format(time.RFC3339), q.Get("timeMin"))
		assert.Equal(t, "treatment_id=medsched_deadbeef", q.Get("privateExtendedProperty"))
		assert.Equal(t, "250", q.Get("maxResults"))

		json.NewEncoder(w).Encode(map[string]any{
			"items": []Event{
				{ID: "evt-1", Summary: "Tomar DIPIRONA"},
				{ID: "evt-2", Summary: "Tomar DIPIRONA"},
			},
		})
	}))

	events, err := client.List(context.Background(), ListQuery{
		Text:              "Tomar DIPIRONA",
		PrivateProperties: map[string]string{TreatmentIDProperty: "medsched_deadbeef"},
		TimeMin:           timeMin,
		MaxResults:        250,
	})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "evt-1", events[0].ID)
}

func TestClient_Update_PreservesBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/calendars/primary/events/evt-1", r.URL.Path)

		var ev Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
		json.NewEncoder(w).Encode(ev)
	}))

	updated, err := client.Update(context.Background(), "evt-1", Event{
		ID:      "evt-1",
		Summary: "Tomar DIPIRONA",
		Start:   EventDateTime{DateTime: "2026-09-02T10:00:00-03:00", TimeZone: "America/Sao_Paulo"},
		End:     EventDateTime{DateTime: "2026-09-02T10:30:00-03:00", TimeZone: "America/Sao_Paulo"},
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-09-02T10:00:00-03:00", updated.Start.DateTime)
}

func TestClient_Delete(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/calendars/primary/events/evt-9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))

	assert.NoError(t, client.Delete(context.Background(), "evt-9"))
}

func TestClient_NotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))

	_, err := client.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_Unauthorized_InvalidatesSession(t *testing.T) {
	tokens := &spyTokenSource{token: "expired"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	client := NewClient(cfg, tokens, nil)

	_, err := client.Get(context.Background(), "evt-1")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, tokens.invalidated, "401 must invalidate the cached session")
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	client := NewClient(cfg, StaticTokenSource("tok"), nil)

	_, err := client.Get(context.Background(), "evt-1")
	assert.ErrorIs(t, err, ErrUnavailable)
}

type spyTokenSource struct {
	token       string
	invalidated bool
}

func (s *spyTokenSource) Token(context.Context) (string, error) { return s.token, nil }
func (s *spyTokenSource) Invalidate() error {
	s.invalidated = true
	return nil
}
