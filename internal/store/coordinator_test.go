package store

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinator_InvalidateByKey(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	s := seeded(t, api, Immutable(), twoDishes)

	c := NewCoordinator(nil)
	c.Register(s)

	c.Invalidate("dishes")
	require.NoError(t, s.FetchAll(context.Background()))
	assert.Equal(t, 2, api.count(http.MethodGet, "/dishes"))

	// Unknown keys are a no-op.
	c.Invalidate("nope")
}

func TestCoordinator_SignalHonorsPolicy(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	immutable := seeded(t, api, Immutable(), twoDishes)

	c := NewCoordinator(nil)
	c.Register(immutable)

	c.Signal(context.Background(), EventFocus)
	c.Signal(context.Background(), EventReconnect)
	assert.Equal(t, 1, api.count(http.MethodGet, "/dishes"), "immutable collections never revalidate on signals")
}

func TestCoordinator_FocusRevalidatesDefaultPolicy(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.on(http.MethodGet, "/dishes", response{http.StatusOK, twoDishes})
	s := newDishStore(t, api, Policy{Name: "default", RevalidateOnFocus: true})
	require.NoError(t, s.FetchAll(context.Background()))

	c := NewCoordinator(nil)
	c.Register(s)
	c.Signal(context.Background(), EventFocus)
	assert.Equal(t, 2, api.count(http.MethodGet, "/dishes"))
}

func TestCoordinator_RetriesTransientFailures(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.on(http.MethodGet, "/dishes",
		response{http.StatusInternalServerError, ""},
		response{http.StatusInternalServerError, ""},
		response{http.StatusOK, twoDishes},
	)
	s := newDishStore(t, api, Policy{
		Name:              "default",
		RevalidateOnFocus: true,
		RetryCount:        3,
		RetryBackoff:      time.Millisecond,
	})

	c := NewCoordinator(nil)
	c.Register(s)
	c.Signal(context.Background(), EventFocus)

	assert.Equal(t, 3, api.count(http.MethodGet, "/dishes"))
	assert.Len(t, s.Items(), 2)
}

func TestCoordinator_DoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.on(http.MethodGet, "/dishes", response{http.StatusBadRequest, `{"message":"bad"}`})
	s := newDishStore(t, api, Policy{
		Name:              "default",
		RevalidateOnFocus: true,
		RetryCount:        3,
		RetryBackoff:      time.Millisecond,
	})

	c := NewCoordinator(nil)
	c.Register(s)
	c.Signal(context.Background(), EventFocus)

	assert.Equal(t, 1, api.count(http.MethodGet, "/dishes"))
}

func TestCoordinator_PollingStopsWithContext(t *testing.T) {
	t.Parallel()

	api := newFakeAPI()
	api.on(http.MethodGet, "/dishes", response{http.StatusOK, twoDishes})
	s := newDishStore(t, api, Policy{
		Name:         "realtime",
		PollInterval: 10 * time.Millisecond,
	})

	c := NewCoordinator(nil)
	c.Register(s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Run(ctx)
	}()

	waitFor(t, func() bool { return api.count(http.MethodGet, "/dishes") >= 2 })
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	settled := api.count(http.MethodGet, "/dishes")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, api.count(http.MethodGet, "/dishes"), "ticker must be torn down with the context")
}
