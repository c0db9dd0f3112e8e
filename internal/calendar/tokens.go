package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// TokenSource supplies the bearer credential for calendar calls. The
// concrete storage (file, secret manager, env) stays behind this interface;
// Invalidate is the explicit replacement for deleting a cached token file
// to force a fresh login.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate() error
}

// StaticTokenSource returns a TokenSource for a fixed token. Invalidate is
// a no-op; useful for tests and short-lived environment credentials.
func StaticTokenSource(token string) TokenSource {
	return staticToken(token)
}

type staticToken string

func (t staticToken) Token(context.Context) (string, error) { return string(t), nil }
func (t staticToken) Invalidate() error                     { return nil }

// FileTokenStore reads the access token from a JSON credential file written
// by an external authorization flow. The token is cached in memory after
// the first read; Invalidate drops both the cache and the file.
type FileTokenStore struct {
	path string

	mu     sync.Mutex
	cached string
}

// NewFileTokenStore creates a store backed by the credential file at path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Token(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != "" {
		return s.cached, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("reading credential file: %w", err)
	}

	var cred struct {
		AccessToken string `json:"access_token"`
		Token       string `json:"token"`
	}
	if err := json.Unmarshal(data, &cred); err != nil {
		return "", fmt.Errorf("parsing credential file %s: %w", s.path, err)
	}

	token := cred.AccessToken
	if token == "" {
		token = cred.Token
	}
	if token == "" {
		return "", fmt.Errorf("credential file %s has no access token", s.path)
	}

	s.cached = token
	return token, nil
}

// Invalidate discards the cached session so the next Token call forces a
// fresh authorization.
func (s *FileTokenStore) Invalidate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing credential file: %w", err)
	}
	return nil
}
