package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var (
	// ErrNotFound indicates the target event does not exist.
	ErrNotFound = errors.New("calendar event not found")

	// ErrUnauthorized indicates the credential was rejected. The cached
	// session is invalidated so the next call picks up a fresh token.
	ErrUnauthorized = errors.New("calendar credential rejected")

	// ErrUnavailable indicates the calendar backend is unreachable.
	ErrUnavailable = errors.New("calendar service unavailable")
)

// Client is a narrow REST client for a Google-Calendar-compatible events
// API. Safe for concurrent use.
type Client struct {
	cfg    Config
	tokens TokenSource
	http   *http.Client
	log    *slog.Logger
}

// NewClient creates a calendar client. logger may be nil.
func NewClient(cfg Config, tokens TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		tokens: tokens,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
			Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
		},
		log: logger,
	}
}

// Insert creates an event and returns it with the backend-assigned id.
func (c *Client) Insert(ctx context.Context, ev Event) (*Event, error) {
	var created Event
	if err := c.do(ctx, http.MethodPost, c.eventsURL(""), nil, ev, &created); err != nil {
		return nil, err
	}
	c.log.Debug("event created", "id", created.ID, "summary", created.Summary)
	return &created, nil
}

// List returns events matching the query, ordered by start time ascending,
// with recurring events expanded into single occurrences.
func (c *Client) List(ctx context.Context, q ListQuery) ([]Event, error) {
	params := url.Values{}
	params.Set("singleEvents", "true")
	params.Set("orderBy", "startTime")
	if q.Text != "" {
		params.Set("q", q.Text)
	}
	if !q.TimeMin.IsZero() {
		params.Set("timeMin", q.TimeMin.Format(time.RFC3339))
	}
	for k, v := range q.PrivateProperties {
		params.Add("privateExtendedProperty", k+"="+v)
	}
	if q.MaxResults > 0 {
		params.Set("maxResults", strconv.Itoa(q.MaxResults))
	}

	var page struct {
		Items []Event `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, c.eventsURL(""), params, nil, &page); err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Get fetches a single event by id.
func (c *Client) Get(ctx context.Context, eventID string) (*Event, error) {
	var ev Event
	if err := c.do(ctx, http.MethodGet, c.eventsURL(eventID), nil, nil, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Update replaces an event body and returns the stored result.
func (c *Client) Update(ctx context.Context, eventID string, ev Event) (*Event, error) {
	var updated Event
	if err := c.do(ctx, http.MethodPut, c.eventsURL(eventID), nil, ev, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an event by id.
func (c *Client) Delete(ctx context.Context, eventID string) error {
	return c.do(ctx, http.MethodDelete, c.eventsURL(eventID), nil, nil, nil)
}

func (c *Client) eventsURL(eventID string) string {
	u := fmt.Sprintf("%s/calendars/%s/events", c.cfg.BaseURL, url.PathEscape(c.cfg.CalendarID))
	if eventID != "" {
		u += "/" + url.PathEscape(eventID)
	}
	return u
}

func (c *Client) do(ctx context.Context, method, rawURL string, params url.Values, body, out any) error {
	if len(params) > 0 {
		rawURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("acquiring calendar credential: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		if invErr := c.tokens.Invalidate(); invErr != nil {
			c.log.Warn("invalidating calendar session failed", "error", invErr)
		}
		return ErrUnauthorized
	case resp.StatusCode >= 300:
		return fmt.Errorf("calendar returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
