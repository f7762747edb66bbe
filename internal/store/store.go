// Package store implements the generic collection cache behind every entity
// screen: fetch-all with dedupe, pessimistic create/update/delete reconciled
// against server responses, and policy-driven background revalidation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/laterrassa/admin-client/internal/gateway"
	"github.com/laterrassa/admin-client/internal/snapshot"
)

// Config binds one Store instantiation to its entity: endpoint path, envelope
// strategy and identity. Unwrap and UnwrapItem are required; the rest is
// optional.
type Config[T any] struct {
	// Key identifies the collection for the Coordinator and snapshots
	// ("products", "tables", ...).
	Key string

	// Path is the collection endpoint ("/productes"). Element endpoints are
	// Path + "/" + id.
	Path string

	Unwrap     func(raw json.RawMessage) []T
	UnwrapItem func(raw json.RawMessage) (T, error)
	IDOf       func(item T) string

	// Reconcile merges the payload the client sent with the entity the server
	// returned, for fields where the client's value is trusted over the
	// server's echo (product images). Nil means trust the server.
	Reconcile func(sent any, received T) T

	Policy    Policy
	Snapshots *snapshot.DB
	Log       *slog.Logger
}

type Store[T any] struct {
	cfg Config[T]
	gw  *gateway.Client

	mu          sync.Mutex
	items       []T
	loaded      bool // at least one successful fetch this session
	loading     bool
	err         error
	lastFetch   time.Time
	invalidated bool
}

func New[T any](gw *gateway.Client, cfg Config[T]) (*Store[T], error) {
	if cfg.Key == "" || cfg.Path == "" {
		return nil, fmt.Errorf("store: key and path are required")
	}
	if cfg.Unwrap == nil || cfg.UnwrapItem == nil || cfg.IDOf == nil {
		return nil, fmt.Errorf("store %s: unwrap and identity functions are required", cfg.Key)
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	s := &Store[T]{cfg: cfg, gw: gw, items: []T{}}
	s.seedFromSnapshot()
	return s, nil
}

// seedFromSnapshot pre-populates the collection from the last persisted
// fetch. loaded stays false so the snapshot counts as stale: it never
// satisfies the dedupe window and a failed first fetch still reports its
// error.
func (s *Store[T]) seedFromSnapshot() {
	if s.cfg.Snapshots == nil {
		return
	}
	payload, ok, err := s.cfg.Snapshots.Load(s.cfg.Key)
	if err != nil {
		s.cfg.Log.Warn("snapshot load failed", "entity", s.cfg.Key, "error", err)
		return
	}
	if !ok {
		return
	}
	var items []T
	if err := json.Unmarshal(payload, &items); err != nil {
		s.cfg.Log.Warn("snapshot decode failed", "entity", s.cfg.Key, "error", err)
		return
	}
	s.items = items
}

// FetchAll refreshes the collection from the server. Within the policy's
// dedupe window the previous result is served and no request goes out. On
// failure the previous collection is kept untouched and the error is both
// recorded and returned; background callers may ignore it.
func (s *Store[T]) FetchAll(ctx context.Context) error {
	return s.fetch(ctx, true)
}

// Revalidate is FetchAll without the loading flag, used for background
// refreshes that must not flip consuming screens back into their loading
// state.
func (s *Store[T]) Revalidate(ctx context.Context) error {
	return s.fetch(ctx, false)
}

func (s *Store[T]) fetch(ctx context.Context, markLoading bool) error {
	s.mu.Lock()
	if s.loaded && !s.invalidated && time.Since(s.lastFetch) < s.cfg.Policy.DedupeWindow {
		s.mu.Unlock()
		return nil
	}
	if markLoading {
		s.loading = true
	}
	s.mu.Unlock()

	raw, err := s.gw.Get(ctx, s.cfg.Path, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	if markLoading {
		s.loading = false
	}
	if err != nil {
		s.err = err
		return err
	}

	s.items = s.cfg.Unwrap(raw)
	s.loaded = true
	s.err = nil
	s.lastFetch = time.Now()
	s.invalidated = false
	s.persistLocked()
	return nil
}

// Create posts a draft and appends the server's entity to the end of the
// collection. Nothing changes locally until the server confirms.
func (s *Store[T]) Create(ctx context.Context, draft any) (T, error) {
	var zero T
	raw, err := s.gw.Post(ctx, s.cfg.Path, draft)
	if err != nil {
		s.recordErr(err)
		return zero, err
	}
	created, err := s.cfg.UnwrapItem(raw)
	if err != nil {
		err = fmt.Errorf("decode created %s: %w", s.cfg.Key, err)
		s.recordErr(err)
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, created)
	s.err = nil
	s.persistLocked()
	return created, nil
}

// Update sends a partial patch and replaces the matching element in place,
// preserving order. The Reconcile hook gets the last word on the stored
// value.
func (s *Store[T]) Update(ctx context.Context, id string, patch any) (T, error) {
	var zero T
	raw, err := s.gw.Put(ctx, s.cfg.Path+"/"+id, patch)
	if err != nil {
		s.recordErr(err)
		return zero, err
	}
	updated, err := s.cfg.UnwrapItem(raw)
	if err != nil {
		err = fmt.Errorf("decode updated %s: %w", s.cfg.Key, err)
		s.recordErr(err)
		return zero, err
	}
	if s.cfg.Reconcile != nil {
		updated = s.cfg.Reconcile(patch, updated)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range s.items {
		if s.cfg.IDOf(item) == id {
			s.items[i] = updated
			break
		}
	}
	s.err = nil
	s.persistLocked()
	return updated, nil
}

// Delete removes the matching element after the server confirms.
func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if _, err := s.gw.Delete(ctx, s.cfg.Path+"/"+id); err != nil {
		s.recordErr(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, item := range s.items {
		if s.cfg.IDOf(item) != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.err = nil
	s.persistLocked()
	return nil
}

// Replace swaps the element with a matching id in place, for out-of-band
// server confirmations such as a table status transition. Reports whether a
// match was found.
func (s *Store[T]) Replace(item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.cfg.IDOf(item)
	for i, existing := range s.items {
		if s.cfg.IDOf(existing) == id {
			s.items[i] = item
			s.persistLocked()
			return true
		}
	}
	return false
}

// Items returns a copy of the current collection.
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last recorded operation error, or nil.
func (s *Store[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Store[T]) ClearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = nil
}

// Invalidate forces the next fetch to bypass the dedupe window.
func (s *Store[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = true
}

func (s *Store[T]) Key() string    { return s.cfg.Key }
func (s *Store[T]) Policy() Policy { return s.cfg.Policy }

func (s *Store[T]) recordErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *Store[T]) persistLocked() {
	if s.cfg.Snapshots == nil {
		return
	}
	payload, err := json.Marshal(s.items)
	if err != nil {
		s.cfg.Log.Warn("snapshot encode failed", "entity", s.cfg.Key, "error", err)
		return
	}
	if err := s.cfg.Snapshots.Save(s.cfg.Key, payload); err != nil {
		s.cfg.Log.Warn("snapshot save failed", "entity", s.cfg.Key, "error", err)
	}
}

// Transient reports whether an error is worth a background retry: transport
// failures and 5xx responses qualify, client errors do not.
func Transient(err error) bool {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= http.StatusInternalServerError
	}
	return errors.Is(err, gateway.ErrRequestFailed)
}
