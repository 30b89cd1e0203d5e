package poller

import (
	"sync"
	"time"
)

// Feed is the shared per-endpoint response cache. Every consumer of an
// endpoint reads the same Feed, so overlapping screens never duplicate
// requests, and a request issued before the latest applied one can never
// clobber newer data: Begin hands out a sequence number per request and
// Apply discards results that arrive out of order.
type Feed[T any] struct {
	mu        sync.RWMutex
	value     T
	hasValue  bool
	err       error
	updatedAt time.Time

	nextSeq    uint64
	appliedSeq uint64
}

// Begin reserves a sequence number for a request about to be issued.
func (f *Feed[T]) Begin() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextSeq++
	return f.nextSeq
}

// Apply records the outcome of the request tagged seq. It reports false when
// a newer response has already been applied, in which case the result is
// dropped. Errors keep the last good value so screens can keep rendering
// last-known data.
func (f *Feed[T]) Apply(seq uint64, value T, err error) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq <= f.appliedSeq {
		return false
	}
	f.appliedSeq = seq
	f.err = err
	if err == nil {
		f.value = value
		f.hasValue = true
		f.updatedAt = time.Now()
	}
	return true
}

// Get returns the last applied value. ok is false until the first successful
// fetch has been applied.
func (f *Feed[T]) Get() (value T, ok bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.value, f.hasValue
}

// Err returns the error of the most recently applied request, if any.
func (f *Feed[T]) Err() error {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.err
}

func (f *Feed[T]) UpdatedAt() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.updatedAt
}
