package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// EventHandler is a function that handles a domain event
type EventHandler func(ctx context.Context, event DomainEvent) error

// Publisher is the narrow view of the dispatcher the application layer depends on.
type Publisher interface {
	Dispatch(ctx context.Context, event DomainEvent) error
}

// Dispatcher dispatches domain events to registered handlers
type Dispatcher struct {
	handlers map[string][]EventHandler
	fallback []EventHandler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		handlers: make(map[string][]EventHandler),
		logger:   logger,
	}
}

// Register registers an event handler for a specific event type
func (d *Dispatcher) Register(eventType string, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[eventType] = append(d.handlers[eventType], handler)
}

// RegisterAll registers a handler that receives every event type.
func (d *Dispatcher) RegisterAll(handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.fallback = append(d.fallback, handler)
}

// Dispatch dispatches an event to all registered handlers and waits for them.
func (d *Dispatcher) Dispatch(ctx context.Context, event DomainEvent) error {
	d.mu.RLock()
	handlers := make([]EventHandler, 0, len(d.handlers[event.EventType()])+len(d.fallback))
	handlers = append(handlers, d.handlers[event.EventType()]...)
	handlers = append(handlers, d.fallback...)
	d.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(handlers))

	for _, handler := range handlers {
		wg.Add(1)
		go func(h EventHandler) {
			defer wg.Done()
			if err := h(ctx, event); err != nil {
				d.logger.Error("event handler failed",
					"event_type", event.EventType(),
					"event_id", event.EventID(),
					"error", err)
				errChan <- err
			}
		}(handler)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("dispatching %s: %w", event.EventType(), errors.Join(errs...))
	}

	return nil
}

// DispatchAll dispatches multiple events
func (d *Dispatcher) DispatchAll(ctx context.Context, events []DomainEvent) error {
	for _, event := range events {
		if err := d.Dispatch(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// AuditHandler returns a handler that writes one structured log line per event.
func AuditHandler(logger *slog.Logger) EventHandler {
	return func(ctx context.Context, event DomainEvent) error {
		attrs := []any{
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"aggregate_id", event.AggregateID(),
			"occurred_at", event.OccurredAt(),
		}
		if d, ok := event.(Describer); ok {
			for k, v := range d.Fields() {
				attrs = append(attrs, k, v)
			}
		}
		logger.InfoContext(ctx, "domain event", attrs...)
		return nil
	}
}
