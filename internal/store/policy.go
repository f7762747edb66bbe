package store

import "time"

// Policy declares how aggressively a collection is kept fresh. Policies carry
// configuration only; scheduling lives in the Coordinator and the store's
// dedupe check.
type Policy struct {
	Name string

	// DedupeWindow is the minimum interval during which repeated fetches are
	// served from the last result instead of re-issued.
	DedupeWindow time.Duration

	RevalidateOnFocus     bool
	RevalidateOnReconnect bool

	// PollInterval enables periodic background refetch when non-zero.
	PollInterval time.Duration

	// RetryCount bounds background-revalidation retries on transient failure.
	RetryCount   int
	RetryBackoff time.Duration
}

// Immutable suits reference data that effectively never changes mid-session
// (categories): long dedupe, no automatic revalidation.
func Immutable() Policy {
	return Policy{
		Name:         "immutable",
		DedupeWindow: 60 * time.Second,
	}
}

// Realtime suits fast-moving state (table occupancy): short dedupe, focus
// revalidation and periodic polling.
func Realtime() Policy {
	return Policy{
		Name:              "realtime",
		DedupeWindow:      5 * time.Second,
		RevalidateOnFocus: true,
		PollInterval:      30 * time.Second,
	}
}

// Default suits general entities (waiters, products).
func Default() Policy {
	return Policy{
		Name:                  "default",
		DedupeWindow:          2 * time.Second,
		RevalidateOnFocus:     true,
		RevalidateOnReconnect: true,
		RetryCount:            3,
		RetryBackoff:          500 * time.Millisecond,
	}
}
