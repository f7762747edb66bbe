// Package session holds the operator's token and role in a small JSON file,
// the CLI analogue of browser session storage. The file is re-read on every
// access so a concurrent login or logout is picked up by the very next
// request.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/laterrassa/admin-client/internal/gateway"
)

type State struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Token implements gateway.TokenSource. Missing or unreadable state means no
// token, never an error.
func (s *Store) Token() string { return s.read().Token }

func (s *Store) Role() string { return s.read().Role }

// IsAuthenticated reports whether a token is present and, when the token is a
// parseable JWT with an exp claim, not yet expired. Opaque tokens pass on
// presence alone.
func (s *Store) IsAuthenticated() bool {
	tok := s.Token()
	if tok == "" {
		return false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.After(time.Now())
}

type loginResponse struct {
	Token string `json:"token"`
	User  struct {
		Role string `json:"role"`
	} `json:"user"`
}

// Login exchanges credentials for a token and persists it. The request goes
// out without a bearer header because Token() is empty until this succeeds
// (a stale token from a previous session is cleared first).
func (s *Store) Login(ctx context.Context, gw *gateway.Client, userName, password string) (string, error) {
	if err := s.Logout(); err != nil {
		return "", err
	}

	raw, err := gw.Post(ctx, "/auth/login", map[string]string{
		"userName": userName,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if resp.Token == "" {
		return "", errors.New("login response carried no token")
	}

	if err := s.write(State{Token: resp.Token, Role: resp.User.Role}); err != nil {
		return "", err
	}
	return resp.User.Role, nil
}

// Logout discards the persisted session. Logging out twice is fine.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *Store) read() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return State{}
	}
	var st State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}
	}
	return st
}

func (s *Store) write(st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := json.Marshal(st)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}
