package audit

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Recorder is what use cases depend on. *Dispatcher is the production one.
type Recorder interface {
	Dispatch(ev Event)
}

// Store is where the worker writes events. *Logger is the gorm one.
type Store interface {
	Write(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	store Store
	log   logrus.FieldLogger
	queue chan Event
	done  chan struct{}

	// guards queue against a send after close
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(store Store, log logrus.FieldLogger) *Dispatcher {
	return newDispatcher(store, log, 100)
}

func newDispatcher(store Store, log logrus.FieldLogger, size int) *Dispatcher {
	d := &Dispatcher{
		store: store,
		log:   log,
		queue: make(chan Event, size),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.store.Write(context.Background(), ev); err != nil {
			d.log.WithError(err).WithField("action", ev.Action).Error("audit write failed")
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		// handlers still running after a failed http shutdown
		d.log.WithField("action", ev.Action).Warn("audit dispatcher closed, dropping event")
		return
	}

	select {
	case d.queue <- ev:
	default:
		// never block a request on the audit trail
		d.log.WithField("action", ev.Action).Warn("audit queue full, dropping event")
	}
}

// Close drains the queue. Events dispatched afterwards are dropped, and
// calling Close again only waits for the drain.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Nop discards every event.
type Nop struct{}

func (Nop) Dispatch(Event) {}
