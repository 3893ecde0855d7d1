package sink

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/oranjParker/mlapi/internal/core"
)

type namedSink[T any] struct {
	name string
	sink core.Sink[T]
}

// FanoutSink writes every item to each attached sink in the order they were
// added. A failing sink is logged and does not stop the ones after it.
// With a positive timeout each sink gets its own deadline, and a sink that
// ignores it is abandoned once it passes.
type FanoutSink[T any] struct {
	sinks   []namedSink[T]
	timeout time.Duration
}

func NewFanoutSink[T any](timeout time.Duration) *FanoutSink[T] {
	return &FanoutSink[T]{timeout: timeout}
}

func (f *FanoutSink[T]) Add(name string, s core.Sink[T]) {
	f.sinks = append(f.sinks, namedSink[T]{name: name, sink: s})
}

func (f *FanoutSink[T]) Len() int {
	return len(f.sinks)
}

func (f *FanoutSink[T]) Write(ctx context.Context, item T) error {
	var errs []error
	for _, s := range f.sinks {
		if err := f.writeOne(ctx, s, item); err != nil {
			log.Printf("[Fanout] Warning: sink %s failed: %v", s.name, err)
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}

func (f *FanoutSink[T]) writeOne(ctx context.Context, s namedSink[T], item T) error {
	if f.timeout <= 0 {
		return s.sink.Write(ctx, item)
	}

	sinkCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.sink.Write(sinkCtx, item) }()

	select {
	case err := <-done:
		return err
	case <-sinkCtx.Done():
		return fmt.Errorf("%w: gave up after %v: %v", core.ErrSinkWriteFailed, f.timeout, sinkCtx.Err())
	}
}

func (f *FanoutSink[T]) Close() error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.sink.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.name, err))
		}
	}
	return errors.Join(errs...)
}
