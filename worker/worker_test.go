package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestIntervalTicksUntilCancel(t *testing.T) {
	var n atomic.Int32
	w := &Interval{Name: "t", Every: 10 * time.Millisecond, Tick: func(context.Context) { n.Add(1) }}
	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if got := n.Load(); got < 3 {
		t.Errorf("ticks = %d, want at least 3", got)
	}
}

func TestIntervalOverlappingTicks(t *testing.T) {
	var running, peak atomic.Int32
	w := &Interval{
		Name:  "slow",
		Every: 5 * time.Millisecond,
		Tick: func(ctx context.Context) {
			cur := running.Add(1)
			for {
				p := peak.Load()
				if cur <= p || peak.CompareAndSwap(p, cur) {
					break
				}
			}
			select {
			case <-time.After(30 * time.Millisecond):
			case <-ctx.Done():
			}
			running.Add(-1)
		},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_ = w.Start(ctx)
	if peak.Load() < 2 {
		t.Errorf("peak concurrent ticks = %d, want overlap", peak.Load())
	}
	if running.Load() != 0 {
		t.Error("ticks still running after Start returned")
	}
}

func TestIntervalStopsOnStopChannel(t *testing.T) {
	stop := make(chan struct{})
	var n atomic.Int32
	w := &Interval{Name: "n", Every: time.Hour, Tick: func(context.Context) { n.Add(1) }, Stop: stop}
	done := make(chan struct{})
	go func() {
		_ = w.Start(context.Background())
		close(done)
	}()
	close(stop)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	if n.Load() != 1 {
		t.Errorf("ticks = %d, want initial tick only", n.Load())
	}
}

type failing struct{ err error }

func (f failing) Start(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return nil
}

func TestManagerReportsWorkerError(t *testing.T) {
	boom := errors.New("boom")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := NewManager(failing{}, failing{err: boom}).Start(ctx)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}
