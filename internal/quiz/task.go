package quiz

import (
	"context"
	"sync"
)

// Task is a background call started by the session. Callers may wait for it
// or abandon it; nothing in the session blocks on it.
type Task struct {
	name   string
	done   chan struct{}
	cancel context.CancelFunc

	mu        sync.Mutex
	err       error
	abandoned bool
}

// newTask detaches from the parent's cancellation; only Abandon stops it.
func newTask(parent context.Context, name string) (*Task, context.Context) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	return &Task{name: name, done: make(chan struct{}), cancel: cancel}, ctx
}

func (t *Task) run(ctx context.Context, fn func(ctx context.Context) error) {
	go func() {
		defer close(t.done)
		defer t.cancel()
		err := fn(ctx)
		t.mu.Lock()
		t.err = err
		t.mu.Unlock()
	}()
}

func (t *Task) Name() string { return t.name }

func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.abandoned {
		return ErrTaskAbandoned
	}
	return t.err
}

// Abandon cancels the in-flight call and suppresses its follow-up actions.
func (t *Task) Abandon() {
	t.mu.Lock()
	t.abandoned = true
	t.mu.Unlock()
	t.cancel()
}

func (t *Task) Abandoned() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.abandoned
}
