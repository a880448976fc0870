package engine

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DefaultMaxConnections is used when the configured limit is 0.
const DefaultMaxConnections = 10000

// Admission bounds the number of live connections. The accept loop takes a
// slot before accepting and the session gives it back when it has fully
// finished.
type Admission struct {
	sem      *semaphore.Weighted
	capacity int64
	inUse    atomic.Int64
}

func NewAdmission(limit int) *Admission {
	if limit <= 0 {
		limit = DefaultMaxConnections
	}
	return &Admission{
		sem:      semaphore.NewWeighted(int64(limit)),
		capacity: int64(limit),
	}
}

// Acquire blocks until a slot is free. It only fails when ctx is done.
func (a *Admission) Acquire(ctx context.Context) error {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	a.inUse.Add(1)
	return nil
}

func (a *Admission) TryAcquire() bool {
	if !a.sem.TryAcquire(1) {
		return false
	}
	a.inUse.Add(1)
	return true
}

func (a *Admission) Release() {
	a.inUse.Add(-1)
	a.sem.Release(1)
}

func (a *Admission) Capacity() int {
	return int(a.capacity)
}

func (a *Admission) InUse() int {
	return int(a.inUse.Load())
}
