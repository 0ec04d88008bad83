package game

import (
	"sync"
	"time"
)

// FrameHandle identifies a requested frame callback. Zero is never issued.
type FrameHandle uint64

// Scheduler delivers frame callbacks. CancelFrame on an already run or
// cancelled handle is a no-op.
type Scheduler interface {
	RequestFrame(fn func(now time.Time)) FrameHandle
	CancelFrame(h FrameHandle)
}

// FrameQueue is a Scheduler driven by an external clock: callbacks
// requested now run on the next RunFrame.
type FrameQueue struct {
	mu      sync.Mutex
	next    FrameHandle
	pending map[FrameHandle]func(time.Time)
	order   []FrameHandle
}

// NewFrameQueue creates an empty queue.
func NewFrameQueue() *FrameQueue {
	return &FrameQueue{pending: make(map[FrameHandle]func(time.Time))}
}

// RequestFrame implements Scheduler.
func (q *FrameQueue) RequestFrame(fn func(now time.Time)) FrameHandle {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending[q.next] = fn
	q.order = append(q.order, q.next)
	return q.next
}

// CancelFrame implements Scheduler.
func (q *FrameQueue) CancelFrame(h FrameHandle) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, h)
}

// Pending returns the number of callbacks waiting for the next frame.
func (q *FrameQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// RunFrame runs every callback requested before this call. Callbacks
// requested while running wait for the next frame. It returns how many ran.
func (q *FrameQueue) RunFrame(now time.Time) int {
	q.mu.Lock()
	order := q.order
	q.order = nil
	fns := make([]func(time.Time), 0, len(order))
	for _, h := range order {
		if fn, ok := q.pending[h]; ok {
			fns = append(fns, fn)
			delete(q.pending, h)
		}
	}
	q.mu.Unlock()

	for _, fn := range fns {
		fn(now)
	}
	return len(fns)
}
