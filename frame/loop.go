// Package frame runs per-frame tasks on a single goroutine.
//
// A Loop is driven either by an external cadence calling Step once per
// display refresh or by Run with a fixed interval. Work from other goroutines
// enters through Post and is applied at the start of the next frame, before
// any task runs, so every task of a frame observes the same state.
package frame

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the frame interval of Run at 60 frames per second.
const DefaultInterval = time.Second / 60

type Task func(f Frame)

type task struct {
	id        int
	fn        Task
	cancelled bool
}

// Handle identifies a requested task.
type Handle struct {
	l  *Loop
	id int
}

// Cancel stops the task. A task cancelled during a frame does not run again,
// not even later in the same frame. Cancelling twice is fine.
func (h Handle) Cancel() {
	if h.l == nil {
		return
	}
	h.l.cancel(h.id)
}

type Loop struct {
	mu     sync.Mutex
	queue  []func()
	tasks  []*task
	nextID int
	ft     frameTime
}

func New(clock Clock) *Loop {
	if clock == nil {
		clock = SystemClock()
	}
	return &Loop{ft: frameTime{clock: clock}}
}

// Request registers fn to run once every frame until cancelled. Tasks run in
// request order.
func (l *Loop) Request(fn Task) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.tasks = append(l.tasks, &task{id: l.nextID, fn: fn})
	return Handle{l: l, id: l.nextID}
}

func (l *Loop) cancel(id int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, t := range l.tasks {
		if t.id == id {
			t.cancelled = true
			l.tasks = append(l.tasks[:i:i], l.tasks[i+1:]...)
			return
		}
	}
}

// Post queues fn to run on the loop goroutine at the start of the next frame.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queue = append(l.queue, fn)
}

// Len returns the number of active tasks.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Step runs one frame: queued functions first, then every task.
func (l *Loop) Step() Frame {
	l.mu.Lock()
	f := l.ft.update()
	queue := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, fn := range queue {
		fn()
	}

	l.mu.Lock()
	tasks := make([]*task, len(l.tasks))
	copy(tasks, l.tasks)
	l.mu.Unlock()

	for _, t := range tasks {
		l.mu.Lock()
		cancelled := t.cancelled
		l.mu.Unlock()
		if cancelled {
			continue
		}
		t.fn(f)
	}
	return f
}

// Run steps the loop every interval until ctx is done.
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step()
		}
	}
}
