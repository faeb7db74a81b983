package events

import (
	"context"
	"sync"
	"time"

	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/common/metrics"
	"mergington-activities/internal/common/observability"
)

const (
	defaultQueueSize = 256
	defaultTimeout   = 3 * time.Second
)

// Dispatcher queues events and delivers them to every sink from a single
// goroutine. Publishing never blocks the caller.
type Dispatcher struct {
	sinks   []Sink
	timeout time.Duration
	logger  logger.Logger
	obs     *observability.Observability

	mu     sync.RWMutex
	closed bool
	queue  chan RosterEvent
	done   chan struct{}
}

func NewDispatcher(sinks []Sink, queueSize int, timeout time.Duration, log logger.Logger, obs *observability.Observability) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	d := &Dispatcher{
		sinks:   sinks,
		timeout: timeout,
		logger:  log,
		obs:     obs,
		queue:   make(chan RosterEvent, queueSize),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Sinks returns the names of the configured sinks.
func (d *Dispatcher) Sinks() []string {
	names := make([]string, len(d.sinks))
	for i, s := range d.sinks {
		names[i] = s.Name()
	}
	return names
}

// Publish enqueues event. It reports false when the event was dropped
// because the queue is full or the dispatcher is closed.
func (d *Dispatcher) Publish(event RosterEvent) bool {
	if len(d.sinks) == 0 {
		return true
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}

	select {
	case d.queue <- event:
		return true
	default:
		metrics.EventsDropped.Inc()
		d.logger.Warn("Roster event dropped, queue full", map[string]interface{}{
			"event_id": event.ID,
			"activity": event.Activity,
		})
		return false
	}
}

// Close stops accepting events and waits until the queue is drained or ctx
// is done.
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

func (d *Dispatcher) run() {
	defer close(d.done)
	for event := range d.queue {
		for _, sink := range d.sinks {
			d.deliver(sink, event)
		}
	}
}

func (d *Dispatcher) deliver(sink Sink, event RosterEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := sink.Deliver(ctx, event); err != nil {
		metrics.EventsFailed.WithLabelValues(sink.Name()).Inc()
		d.obs.RecordEvent(ctx, sink.Name(), "failed")
		d.logger.WithError(err).Error("Roster event delivery failed", map[string]interface{}{
			"sink":     sink.Name(),
			"event_id": event.ID,
			"activity": event.Activity,
		})
		return
	}

	metrics.EventsDelivered.WithLabelValues(sink.Name()).Inc()
	d.obs.RecordEvent(ctx, sink.Name(), "delivered")
	d.logger.Debug("Roster event delivered", map[string]interface{}{
		"sink":     sink.Name(),
		"event_id": event.ID,
	})
}
