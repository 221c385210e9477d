package generation

import (
	"context"
	"sync"
)

// Task is one in-flight submission. It resolves exactly once, with either a
// Result or an error.
type Task struct {
	done   chan struct{}
	once   sync.Once
	cancel context.CancelFunc

	result *Result
	err    error
}

func newTask(cancel context.CancelFunc) *Task {
	return &Task{
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

func (t *Task) resolve(res *Result, err error) {
	t.once.Do(func() {
		if err != nil {
			res = nil
		}

		t.result = res
		t.err = err
		close(t.done)
	})
}

// closed once the task has resolved
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// blocks until the task resolves or ctx ends. giving up on the wait does
// not cancel the task.
func (t *Task) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// returns the outcome; only meaningful after Done is closed
func (t *Task) Result() (*Result, error) {
	return t.result, t.err
}

// aborts the request. the task still resolves, with a canceled failure
// unless the response won the race.
func (t *Task) Cancel() {
	if t.cancel != nil {
		t.cancel()
	}
}
