package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/garage-manager/internal/logger"
)

type memStore struct {
	mu      sync.Mutex
	events  []Event
	release chan struct{}
	err     error
}

func (m *memStore) Write(_ context.Context, ev Event) error {
	if m.release != nil {
		<-m.release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
	return m.err
}

func (m *memStore) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, ev := range m.events {
		out = append(out, ev.Action)
	}
	return out
}

func TestDispatcher_CloseDrainsQueue(t *testing.T) {
	store := &memStore{err: errors.New("db down")}
	d := NewDispatcher(store, logger.Discard())

	d.Dispatch(Event{Action: "login"})
	d.Dispatch(Event{Action: "service_created"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	// write errors are logged, not retried
	assert.Equal(t, []string{"login", "service_created"}, store.actions())
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	store := &memStore{release: make(chan struct{})}
	d := newDispatcher(store, logger.Discard(), 1)

	d.Dispatch(Event{Action: "a"})
	// wait for the worker to pick "a" up and block on the store
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, time.Millisecond)

	d.Dispatch(Event{Action: "b"})
	d.Dispatch(Event{Action: "c"})

	close(store.release)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	assert.Equal(t, []string{"a", "b"}, store.actions())
}

func TestDispatcher_DispatchAfterClose(t *testing.T) {
	store := &memStore{}
	d := NewDispatcher(store, logger.Discard())
	d.Dispatch(Event{Action: "login"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: "late"})
	})
	require.NoError(t, d.Close(ctx))
	assert.Equal(t, []string{"login"}, store.actions())
}

func TestDispatcher_CloseWhileDispatching(t *testing.T) {
	store := &memStore{}
	d := NewDispatcher(store, logger.Discard())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d.Dispatch(Event{Action: "service_updated"})
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
	wg.Wait()
}
