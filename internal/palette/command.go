// Package palette defines the commands a user can run from the palette.
//
// A command binds an action to display metadata and usage flags, or holds a
// literal answer of its own. Commands are the unit of work submitted to the
// task executor.
package palette

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// AnswerAction is the sentinel action name of a command that already
	// holds its final answer.
	AnswerAction = "<answer>"

	// DefaultIcon is the icon of ad-hoc commands.
	DefaultIcon = "edit-paste-symbolic"

	// SavedIcon is the icon of commands saved from a template.
	SavedIcon = "insert-text-symbolic"
)

// Invoker resolves an action name and runs it. It is implemented by
// *actions.Registry.
type Invoker interface {
	Invoke(ctx context.Context, name, query, selection string) ([]string, error)
}

// Command is a command that can be executed from the palette.
type Command struct {
	UUID        string
	Label       string
	IconName    string
	ActionName  string
	LastInvoked time.Time
	UserQuery   string
	Answer      *string
	Starred     bool
	Proactive   bool
	Fallback    bool
	Template    bool
	Builtin     bool
}

// New creates a command bound to the given action.
func New(label, actionName string) *Command {
	return &Command{
		UUID:       uuid.NewString(),
		Label:      label,
		IconName:   DefaultIcon,
		ActionName: actionName,
	}
}

// IsAnswer reports whether the command holds a literal answer instead of
// pointing at a registered action.
func (c *Command) IsAnswer() bool {
	return c.ActionName == AnswerAction
}

// Invoke executes the command and returns its result.
//
// A cached answer is returned as-is without touching the registry.
// Otherwise the command's own query override, when present, replaces the
// supplied query, and the action is resolved through reg. Failures
// propagate unchanged.
func (c *Command) Invoke(ctx context.Context, reg Invoker, query, selection string) ([]string, error) {
	c.LastInvoked = time.Now()

	if c.Answer != nil {
		return []string{*c.Answer}, nil
	}

	if c.UserQuery != "" {
		query = c.UserQuery
	}

	return reg.Invoke(ctx, c.ActionName, query, selection)
}

// Prefetch eagerly resolves the command and stores the outcome as its
// cached answer. Failures are swallowed into an absent answer: a proactive
// command that cannot be computed simply becomes ineligible for display.
func (c *Command) Prefetch(ctx context.Context, reg Invoker, query, selection string) {
	if c.UserQuery != "" {
		query = c.UserQuery
	}

	result, err := reg.Invoke(ctx, c.ActionName, query, selection)
	if err != nil || len(result) == 0 {
		c.Answer = nil
		return
	}

	answer := strings.Join(result, "\n")
	c.Answer = &answer
}

// FromAnswer creates a terminal command holding a literal answer.
func FromAnswer(answer string) *Command {
	return &Command{
		UUID:       uuid.NewString(),
		Label:      strings.TrimSpace(answer),
		IconName:   DefaultIcon,
		ActionName: AnswerAction,
		Answer:     &answer,
	}
}

// FromTemplate clones a template command into a new, independent saved
// command with the query baked in as its permanent label and query
// override. The clone gets a fresh identity and drops the starred,
// template, fallback and builtin flags; the template itself is unchanged.
func FromTemplate(query string, template *Command) *Command {
	clone := *template
	clone.UUID = uuid.NewString()
	clone.Label = query
	clone.IconName = SavedIcon
	clone.UserQuery = query
	clone.Answer = nil
	clone.Starred = false
	clone.Template = false
	clone.Fallback = false
	clone.Builtin = false

	return &clone
}
