package queue

import (
	"context"
	"errors"
)

// ErrQueueFull is returned by MemoryDriver.Push when the buffer is full.
var ErrQueueFull = errors.New("queue: memory buffer full")

// MemoryDriver is an in-process, channel-backed queue driver. Jobs do not
// survive a restart.
type MemoryDriver struct {
	ch chan []byte
}

// NewMemoryDriver creates an in-memory queue with a buffer of 1000 jobs.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{ch: make(chan []byte, 1000)}
}

// Push never blocks the caller; a full buffer is ErrQueueFull.
func (d *MemoryDriver) Push(payload []byte) error {
	select {
	case d.ch <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case payload := <-d.ch:
		return payload, nil
	}
}

// TryPop takes a buffered job without waiting.
func (d *MemoryDriver) TryPop() ([]byte, bool) {
	select {
	case payload := <-d.ch:
		return payload, true
	default:
		return nil, false
	}
}

// Len reports buffered jobs.
func (d *MemoryDriver) Len() int { return len(d.ch) }
