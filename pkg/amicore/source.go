package amicore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/randalmurphal/amicore/pkg/amicore/event"
	"github.com/randalmurphal/amicore/pkg/amicore/observability"
)

// Source yields records from a connection in arrival order.
// Next returns io.EOF when the connection ends normally.
type Source interface {
	Next(ctx context.Context) (*event.Record, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (*event.Record, error)

// Next calls f(ctx).
func (f SourceFunc) Next(ctx context.Context) (*event.Record, error) {
	return f(ctx)
}

// ChanSource reads records from ch. A closed channel ends the source with
// io.EOF.
func ChanSource(ch <-chan *event.Record) Source {
	return SourceFunc(func(ctx context.Context) (*event.Record, error) {
		select {
		case rec, ok := <-ch:
			if !ok {
				return nil, io.EOF
			}
			return rec, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
}

// Run ingests records from src until it ends, ctx is cancelled, or the
// dispatcher is closed.
//
// Whatever ends the source, every correlation still open is flushed as
// Disconnected: with ErrSourceClosed on io.EOF, otherwise with the
// failure. Run returns nil on io.EOF. Rejected unknown events do not stop
// Run.
func (d *Dispatcher) Run(ctx context.Context, src Source) error {
	for {
		rec, err := src.Next(ctx)
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				d.FlushAll(ErrSourceClosed)
				return nil
			case ctx.Err() != nil:
				d.FlushAll(context.Cause(ctx))
				return ctx.Err()
			default:
				n := d.FlushAll(err)
				observability.LogSourceError(d.logger, err, n)
				return fmt.Errorf("read record: %w", err)
			}
		}
		if rec == nil {
			continue
		}

		if _, err := d.Ingest(ctx, rec); err != nil && !errors.Is(err, ErrUnknownEvent) {
			return err
		}
	}
}
