package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Event mirrors an Activity row after its transaction committed.
type Event struct {
	BusinessID  uint      `json:"businessId"`
	Action      string    `json:"action"`
	Entity      string    `json:"entity"`
	EntityID    uint      `json:"entityId,omitempty"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// Sink receives dispatched events. Implementations must be safe for use by
// the single dispatcher worker.
type Sink interface {
	Publish(ctx context.Context, ev Event) error
}

const queueSize = 100

type Dispatcher struct {
	sinks  []Sink
	log    *zap.Logger
	queue  chan Event
	done   chan struct{}

	// mu guards closed; Dispatch holds it for reading while it sends.
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(log *zap.Logger, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks: sinks,
		log:   log,
		queue: make(chan Event, queueSize),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.Publish(ctx, ev); err != nil {
				d.log.Warn("audit sink failed",
					zap.String("action", ev.Action),
					zap.Uint("business_id", ev.BusinessID),
					zap.Error(err),
				)
			}
			cancel()
		}
	}
}

// Dispatch never blocks: a full queue drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("audit dispatcher closed, dropping event", zap.String("action", ev.Action))
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for the queue to drain or ctx to end.
// Events dispatched afterwards are dropped.
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
