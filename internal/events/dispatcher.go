package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher interface allows event publication/subscription.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
	// Wait blocks until in-flight asynchronous handlers return or ctx is done.
	Wait(ctx context.Context) error
}

// Option configures the in-memory dispatcher.
type Option func(*inMemoryDispatcher)

// WithAsync runs handlers on their own goroutine, detached from the publisher's
// cancellation, so slow handlers never delay the publishing request.
func WithAsync() Option {
	return func(d *inMemoryDispatcher) { d.async = true }
}

// inMemoryDispatcher delivers events to in-process subscribers.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	logger    *zap.Logger
	async     bool
	inflight  sync.WaitGroup
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher(logger *zap.Logger, opts ...Option) Dispatcher {
	d := &inMemoryDispatcher{
		listeners: make(map[EventType][]EventHandler),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Publish invokes handlers for the given event. Handler errors are logged and
// never returned to the publisher.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	if !d.async {
		d.run(ctx, event, handlers)
		return nil
	}

	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		d.run(context.WithoutCancel(ctx), event, handlers)
	}()
	return nil
}

func (d *inMemoryDispatcher) run(ctx context.Context, event Event, handlers []EventHandler) {
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			d.logger.Warn("event handler failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	}
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

func (d *inMemoryDispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
