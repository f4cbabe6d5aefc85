package detach

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestQueueRunsInOrder(t *testing.T) {
	q := New(context.Background(), time.Second)
	var mu sync.Mutex
	var got []int
	for i := 0; i < 50; i++ {
		i := i
		q.Go(func(context.Context) {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	q.Wait()

	if len(got) != 50 {
		t.Fatalf("ran %d calls, want 50", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("order broken at %d: %v", i, got)
		}
	}
}

func TestQueueDoesNotBlockCaller(t *testing.T) {
	q := New(context.Background(), 0)
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		q.Go(func(context.Context) { <-release })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Go blocked on a slow call")
	}
	close(release)
	q.Wait()
}

func TestQueueAppliesTimeout(t *testing.T) {
	q := New(context.Background(), 50*time.Millisecond)
	var err error
	q.Go(func(ctx context.Context) {
		<-ctx.Done()
		err = ctx.Err()
	})
	q.Wait()
	if err != context.DeadlineExceeded {
		t.Errorf("call context err = %v, want deadline exceeded", err)
	}
}

func TestQueueCloseDropsLateCalls(t *testing.T) {
	q := New(context.Background(), time.Second)
	ran := false
	q.Go(func(context.Context) { ran = true })
	q.Close()
	if !ran {
		t.Error("pending call not drained by Close")
	}
	if q.Go(func(context.Context) {}) {
		t.Error("Go accepted a call after Close")
	}
}
