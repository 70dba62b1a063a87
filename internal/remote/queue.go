package remote

import (
	"context"
	"sync"
	"time"

	"github.com/rasoi-labs/rasoi/internal/common"
)

// Op is one queued remote write.
type Op struct {
	Name string
	Do   func(ctx context.Context) error
}

// Queue is the write-behind path for remote mirror writes. Operations run in
// order on a single worker; the caller never waits and never sees a failure.
// This method body is the one place remote write errors are swallowed
// (logged at debug, no retry, never surfaced).
type Queue struct {
	ops      chan Op
	wg       sync.WaitGroup
	stopOnce sync.Once
	timeout  time.Duration
}

// NewQueue starts a queue with the given buffer size.
func NewQueue(buffer int) *Queue {
	if buffer <= 0 {
		buffer = 64
	}
	q := &Queue{
		ops:     make(chan Op, buffer),
		timeout: 30 * time.Second,
	}
	q.wg.Add(1)
	go q.worker()
	return q
}

// Enqueue schedules op without blocking. When the buffer is full the op is
// dropped like any other sync failure: logged and forgotten.
func (q *Queue) Enqueue(op Op) {
	select {
	case q.ops <- op:
	default:
		common.LogDebug("sync queue full, dropping write", common.Fields{"op": op.Name})
	}
}

// Close stops the worker after draining queued ops.
func (q *Queue) Close() {
	q.stopOnce.Do(func() { close(q.ops) })
	q.wg.Wait()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for op := range q.ops {
		ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
		if err := op.Do(ctx); err != nil {
			common.LogDebug("remote sync write failed", common.Fields{
				"op":    op.Name,
				"error": err.Error(),
			})
		}
		cancel()
	}
}
