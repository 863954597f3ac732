// Package tasks runs palette commands one at a time.
//
// The executor accepts one active invocation, cancels any prior one on a
// new submission, and reports completions back to the owning control
// context over a channel.
package tasks

import (
	"strings"

	"scribe/internal/palette"
)

// TaskContext carries everything about one submitted task: the command
// being run, the inputs it was given, and the outcome. It is owned by the
// executor for the task's lifetime and handed to the control context with
// the completion notification.
type TaskContext struct {
	Command   *palette.Command
	Query     string
	Selection string

	// Result holds the normalized answers of a successful task.
	Result []string

	// Err holds the failure of an unsuccessful task. Exactly one
	// completion is delivered per task that ran to completion; inspect
	// Failed to tell the two apart.
	Err error

	// seq identifies the submission this context belongs to, so a stale
	// completion racing a newer submission can be detected and swallowed.
	seq uint64
}

// Failed reports whether the task ended in an error.
func (t *TaskContext) Failed() bool {
	return t.Err != nil
}

// Text returns the task's answers joined into one displayable string.
func (t *TaskContext) Text() string {
	return strings.Join(t.Result, "\n")
}

// ErrorMessage returns the failure message verbatim, or "" on success.
func (t *TaskContext) ErrorMessage() string {
	if t.Err == nil {
		return ""
	}
	return t.Err.Error()
}
