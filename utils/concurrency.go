package utils

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// WorkerPool manages a pool of goroutines with rate limiting.
type WorkerPool struct {
	limiter   *rate.Limiter
	semaphore chan struct{}
	wg        sync.WaitGroup
}

// NewWorkerPool creates a WorkerPool with the given concurrency and the
// minimum gap in milliseconds between two job starts.
func NewWorkerPool(maxWorkers, rateLimitMs int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	limit := rate.Inf
	if rateLimitMs > 0 {
		limit = rate.Every(time.Duration(rateLimitMs) * time.Millisecond)
	}
	return &WorkerPool{
		limiter:   rate.NewLimiter(limit, 1),
		semaphore: make(chan struct{}, maxWorkers),
	}
}

// Submit enqueues a job for execution in the pool. It blocks while all
// workers are busy. A job whose ctx ends before it starts is dropped.
func (wp *WorkerPool) Submit(ctx context.Context, job func()) {
	select {
	case wp.semaphore <- struct{}{}:
	case <-ctx.Done():
		return
	}
	wp.wg.Add(1)

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.semaphore }()

		if err := wp.limiter.Wait(ctx); err != nil {
			return
		}
		job()
	}()
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// KeySet is a thread-safe set of strings, used to track fetched URLs.
type KeySet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewKeySet creates an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{seen: make(map[string]struct{})}
}

// Add returns true if the key was newly added, false if already present.
func (s *KeySet) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Size returns the number of unique keys tracked.
func (s *KeySet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
