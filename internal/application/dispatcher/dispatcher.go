package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/garyjia/servicehub/internal/domain/event"
)

// ErrClosed is returned by Dispatch after Close
var ErrClosed = errors.New("dispatcher is closed")

// Dispatcher runs the post-commit hooks registered for an event type
type Dispatcher interface {
	// Subscribe appends a named hook for eventType
	Subscribe(eventType event.Type, name string, handler Handler)

	// Dispatch runs every hook for the event in registration order.
	// A failing or panicking hook does not stop the ones after it;
	// all failures are joined into the returned error.
	Dispatch(ctx context.Context, evt *event.Event) error

	// Handlers returns the hook names for eventType in registration order
	Handlers(eventType event.Type) []string

	// Close stops accepting events
	Close() error
}

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type eventDispatcher struct {
	mu     sync.RWMutex
	hooks  map[event.Type][]hook
	logger Logger
	closed atomic.Bool
}

// Option configures the dispatcher
type Option func(*eventDispatcher)

// WithLogger sets a logger for the dispatcher
func WithLogger(logger Logger) Option {
	return func(d *eventDispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(opts ...Option) Dispatcher {
	d := &eventDispatcher{hooks: make(map[event.Type][]hook)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *eventDispatcher) Subscribe(eventType event.Type, name string, handler Handler) {
	d.mu.Lock()
	d.hooks[eventType] = append(d.hooks[eventType], hook{name: name, run: handler})
	d.mu.Unlock()

	if d.logger != nil {
		d.logger.Info("Hook registered", "event_type", eventType, "hook", name)
	}
}

func (d *eventDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	if d.closed.Load() {
		return ErrClosed
	}

	d.mu.RLock()
	hooks := append([]hook(nil), d.hooks[evt.Type]...)
	d.mu.RUnlock()

	var errs []error
	for _, h := range hooks {
		err := d.run(ctx, evt, h)
		if err == nil {
			continue
		}
		if d.logger != nil {
			d.logger.Error("Hook failed",
				"event_type", evt.Type,
				"event_id", evt.ID,
				"hook", h.name,
				"error", err,
			)
		}
		errs = append(errs, fmt.Errorf("hook %s: %w", h.name, err))
	}
	return errors.Join(errs...)
}

func (d *eventDispatcher) Handlers(eventType event.Type) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.hooks[eventType]))
	for _, h := range d.hooks[eventType] {
		names = append(names, h.name)
	}
	return names
}

func (d *eventDispatcher) Close() error {
	if !d.closed.CompareAndSwap(false, true) {
		return fmt.Errorf("dispatcher already closed")
	}
	if d.logger != nil {
		d.logger.Info("Dispatcher closed")
	}
	return nil
}

// run calls one hook, turning a panic into an error
func (d *eventDispatcher) run(ctx context.Context, evt *event.Event, h hook) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.run(ctx, evt)
}
