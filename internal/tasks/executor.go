package tasks

import (
	"context"
	"errors"
	"strings"
	"sync"

	"scribe/internal/palette"
)

// ErrNoResult is the failure forced onto a task whose invocation completed
// but produced nothing displayable.
var ErrNoResult = errors.New("task produced no result")

// Executor runs palette commands with a single-in-flight-task invariant:
// submitting a new task first requests cancellation of the previous one.
//
// Cancellation is cooperative. It takes effect at a suspension point inside
// the running invocation; an invocation with no suspension points runs to
// completion and its result is discarded rather than reported. A cancelled
// task never emits a completion.
type Executor struct {
	reg palette.Invoker

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	current *TaskContext
	closed  bool

	completions chan *TaskContext
	done        chan struct{}
	wg          sync.WaitGroup
}

// NewExecutor creates an executor dispatching through the given registry.
func NewExecutor(reg palette.Invoker) *Executor {
	return &Executor{
		reg:         reg,
		completions: make(chan *TaskContext, 16),
		done:        make(chan struct{}),
	}
}

// Completions is the channel completion notifications are posted on. One
// record is delivered per task that ran to completion, success or failure;
// cancelled tasks deliver nothing. The owning control context is expected
// to drain it. The channel is closed by Shutdown.
func (e *Executor) Completions() <-chan *TaskContext {
	return e.completions
}

// Submit starts executing the command with the given query and selected
// text, cancelling any task still in flight. It never blocks.
func (e *Executor) Submit(command *palette.Command, query, selection string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}

	if e.cancel != nil {
		e.cancel()
	}

	e.seq++
	task := &TaskContext{
		Command:   command,
		Query:     query,
		Selection: selection,
		seq:       e.seq,
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.current = task

	e.wg.Add(1)
	go e.run(ctx, cancel, task)
}

// CancelTask requests cooperative cancellation of the in-flight task, if
// any. It is idempotent and a no-op when idle or already completed.
func (e *Executor) CancelTask() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
	}
}

// IsRunning reports whether a task is in flight and not yet resolved.
func (e *Executor) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.current != nil
}

// Shutdown cancels any in-flight task and waits for the execution context
// to drain, then closes the completions channel.
func (e *Executor) Shutdown() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	if e.cancel != nil {
		e.cancel()
	}
	e.mu.Unlock()

	close(e.done)
	e.wg.Wait()
	close(e.completions)
}

// run executes one task on its own goroutine and posts the completion,
// unless the task was cancelled or superseded.
func (e *Executor) run(ctx context.Context, cancel context.CancelFunc, task *TaskContext) {
	defer e.wg.Done()
	defer cancel()

	result, err := task.Command.Invoke(ctx, e.reg, task.Query, task.Selection)

	e.mu.Lock()
	stale := task.seq != e.seq || e.closed
	if task.seq == e.seq {
		// This task is still the active one; the executor goes idle.
		e.cancel = nil
		e.current = nil
	}
	e.mu.Unlock()

	// A cancelled task is invisible: no success, no error.
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return
	}
	if stale {
		// Superseded between cancellation request and completion with no
		// suspension point in between; the result is discarded.
		return
	}

	if err != nil {
		task.Err = err
	} else {
		task.Result = result
		if isBlank(result) {
			task.Err = ErrNoResult
		}
	}

	select {
	case e.completions <- task:
	case <-e.done:
	}
}

// isBlank reports whether a result has nothing displayable in it.
func isBlank(result []string) bool {
	for _, value := range result {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
