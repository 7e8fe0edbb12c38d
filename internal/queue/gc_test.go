package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakePurger struct {
	calls  atomic.Int64
	purged int
	err    error
}

func (f *fakePurger) PurgeOlderThan(ctx context.Context, retention time.Duration) (int, error) {
	f.calls.Add(1)
	return f.purged, f.err
}

func TestGarbageCollector_PurgesOnInterval(t *testing.T) {
	t.Parallel()

	purger := &fakePurger{purged: 2}
	gc := NewGarbageCollector(purger, 10*time.Millisecond, time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := gc.Start(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Start returned %v, want context.DeadlineExceeded", err)
	}
	if purger.calls.Load() == 0 {
		t.Error("expected at least one purge call")
	}
}

func TestGarbageCollector_SurvivesPurgeErrors(t *testing.T) {
	t.Parallel()

	purger := &fakePurger{err: errors.New("amqp down")}
	gc := NewGarbageCollector(purger, 10*time.Millisecond, time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	_ = gc.Start(ctx)

	// A failing purge must not stop the loop.
	if purger.calls.Load() < 2 {
		t.Errorf("expected repeated purge attempts, got %d", purger.calls.Load())
	}
}

func TestGarbageCollector_NilPurger(t *testing.T) {
	t.Parallel()

	gc := NewGarbageCollector(nil, 10*time.Millisecond, time.Hour, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := gc.Start(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Start returned %v, want context.DeadlineExceeded", err)
	}
}
