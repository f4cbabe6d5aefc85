package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"synapse-digest/internal/metrics"
)

// Worker is a long-running loop owned by a context.
type Worker interface {
	Start(ctx context.Context) error
}

// Interval calls Tick on a fixed schedule. Each tick runs on its own
// goroutine; a slow tick is neither cancelled nor waited for by the next
// one. The loop returns when ctx ends or Stop is closed, after in-flight
// ticks have returned.
type Interval struct {
	Name     string
	Every    time.Duration
	Tick     func(ctx context.Context)
	Stop     <-chan struct{} // optional
	Metrics  metrics.Recorder
	SkipInit bool // don't tick immediately on start
}

func (w *Interval) Start(ctx context.Context) error {
	if w.Every <= 0 {
		w.Every = time.Minute
	}
	rec := w.Metrics
	if rec == nil {
		rec = metrics.Nop{}
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	defer wg.Wait()
	tick := func() {
		rec.RecordPollTick(w.Name)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Tick(ctx)
		}()
	}

	if !w.SkipInit {
		tick()
	}
	t := time.NewTicker(w.Every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Debug("worker: stopped", "name", w.Name, "reason", ctx.Err())
			return nil
		case <-w.Stop:
			slog.Info("worker: stopped", "name", w.Name, "reason", "session ended")
			return nil
		case <-t.C:
			tick()
		}
	}
}
