package store

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Event is an application-level revalidation trigger. Focus fires when the
// dashboard regains the operator's attention, Reconnect when connectivity
// comes back.
type Event int

const (
	EventFocus Event = iota
	EventReconnect
)

// Revalidator is the slice of Store the Coordinator needs; every
// *Store[T] satisfies it.
type Revalidator interface {
	Key() string
	Policy() Policy
	Invalidate()
	Revalidate(ctx context.Context) error
}

// Coordinator owns cross-store cache policy: manual invalidation by entity
// key, focus/reconnect revalidation and polling for realtime collections. It
// performs no I/O of its own beyond driving the stores it registers.
type Coordinator struct {
	mu      sync.Mutex
	entries map[string]Revalidator
	log     *slog.Logger
}

func NewCoordinator(log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{entries: make(map[string]Revalidator), log: log}
}

func (c *Coordinator) Register(st Revalidator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[st.Key()] = st
}

// Invalidate forces the keyed store's next read to bypass its dedupe window.
// Unknown keys are ignored.
func (c *Coordinator) Invalidate(entityKey string) {
	c.mu.Lock()
	st, ok := c.entries[entityKey]
	c.mu.Unlock()
	if ok {
		st.Invalidate()
	}
}

// Signal revalidates every store whose policy subscribes to the event.
// Failures are retried per policy and then logged; a background refresh must
// never take the dashboard down.
func (c *Coordinator) Signal(ctx context.Context, ev Event) {
	for _, st := range c.snapshot() {
		p := st.Policy()
		switch ev {
		case EventFocus:
			if !p.RevalidateOnFocus {
				continue
			}
		case EventReconnect:
			if !p.RevalidateOnReconnect {
				continue
			}
		}
		c.revalidate(ctx, st)
	}
}

// Run drives the polling loops for realtime-policy stores until ctx is
// cancelled. Each store gets its own ticker; all of them are torn down before
// Run returns, so the caller's scope owns every timer.
func (c *Coordinator) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, st := range c.snapshot() {
		interval := st.Policy().PollInterval
		if interval <= 0 {
			continue
		}
		wg.Add(1)
		go func(st Revalidator) {
			defer wg.Done()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					c.revalidate(ctx, st)
				}
			}
		}(st)
	}
	wg.Wait()
}

func (c *Coordinator) revalidate(ctx context.Context, st Revalidator) {
	p := st.Policy()
	var err error
	for attempt := 0; ; attempt++ {
		if err = st.Revalidate(ctx); err == nil {
			return
		}
		if attempt >= p.RetryCount || !Transient(err) {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(p.RetryBackoff):
		}
	}
	c.log.Warn("revalidation failed", "entity", st.Key(), "policy", p.Name, "error", err)
}

func (c *Coordinator) snapshot() []Revalidator {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Revalidator, 0, len(c.entries))
	for _, st := range c.entries {
		out = append(out, st)
	}
	return out
}
