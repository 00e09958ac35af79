package events

import (
	"context"
	"errors"
	"fmt"

	"microtask/internal/domain/entity"
)

// Sink is anything that accepts ledger events.
type Sink interface {
	Publish(ctx context.Context, event entity.LedgerEvent) error
}

// Fanout delivers each event to every sink. A failing sink does not stop
// delivery to the others.
type Fanout struct {
	sinks map[string]Sink
	order []string
}

func NewFanout() *Fanout {
	return &Fanout{sinks: make(map[string]Sink)}
}

// Add registers a named sink. Nil sinks are ignored.
func (f *Fanout) Add(name string, sink Sink) *Fanout {
	if sink == nil {
		return f
	}
	if _, ok := f.sinks[name]; !ok {
		f.order = append(f.order, name)
	}
	f.sinks[name] = sink
	return f
}

func (f *Fanout) Len() int {
	return len(f.order)
}

func (f *Fanout) Publish(ctx context.Context, event entity.LedgerEvent) error {
	var errs []error
	for _, name := range f.order {
		if err := f.sinks[name].Publish(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
