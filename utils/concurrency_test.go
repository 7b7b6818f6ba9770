package utils

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestKeySetNoDuplicates(t *testing.T) {
	s := NewKeySet()

	if !s.Add("https://de.wikipedia.org/wiki/Liste/A") {
		t.Error("first Add should return true")
	}
	if s.Add("https://de.wikipedia.org/wiki/Liste/A") {
		t.Error("second Add of same key should return false")
	}
	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestKeySetConcurrency(t *testing.T) {
	s := NewKeySet()
	var added int64

	pool := NewWorkerPool(10, 0)
	for i := 0; i < 100; i++ {
		pool.Submit(context.Background(), func() {
			if s.Add("segment-A") {
				atomic.AddInt64(&added, 1)
			}
		})
	}
	pool.Wait()

	if added != 1 {
		t.Errorf("expected exactly 1 successful add, got %d", added)
	}
}

func TestWorkerPoolRateLimit(t *testing.T) {
	rateLimitMs := 100
	pool := NewWorkerPool(1, rateLimitMs)

	var (
		mu         sync.Mutex
		timestamps []time.Time
	)
	for i := 0; i < 3; i++ {
		pool.Submit(context.Background(), func() {
			mu.Lock()
			timestamps = append(timestamps, time.Now())
			mu.Unlock()
		})
	}
	pool.Wait()

	if len(timestamps) != 3 {
		t.Fatalf("expected 3 jobs to run, got %d", len(timestamps))
	}
	min := time.Duration(rateLimitMs) * time.Millisecond
	for i := 1; i < len(timestamps); i++ {
		if gap := timestamps[i].Sub(timestamps[i-1]); gap < min-5*time.Millisecond {
			t.Errorf("gap between job %d and %d: %v < minimum %v", i-1, i, gap, min)
		}
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	pool := NewWorkerPool(2, 0)
	var running, peak int64

	for i := 0; i < 8; i++ {
		pool.Submit(context.Background(), func() {
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&running, -1)
		})
	}
	pool.Wait()

	if peak > 2 {
		t.Errorf("peak concurrency: got %d, want <= 2", peak)
	}
}

func TestWorkerPoolDropsJobsAfterCancel(t *testing.T) {
	pool := NewWorkerPool(1, 10_000)
	ctx, cancel := context.WithCancel(context.Background())
	var ran int64

	pool.Submit(ctx, func() { atomic.AddInt64(&ran, 1) })
	pool.Wait()

	done := make(chan struct{})
	go func() {
		pool.Submit(ctx, func() { atomic.AddInt64(&ran, 1) })
		pool.Wait()
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queued job kept waiting for the rate gap after cancel")
	}
	if n := atomic.LoadInt64(&ran); n != 1 {
		t.Errorf("jobs run: got %d, want 1", n)
	}
}
