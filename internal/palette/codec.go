package palette

import (
	"time"

	"github.com/google/uuid"
)

// ToMap converts the command to its persistent form. The cached answer is
// deliberately dropped: answers are ephemeral and recomputed, never saved.
func (c *Command) ToMap() map[string]any {
	var lastInvoked float64
	if !c.LastInvoked.IsZero() {
		lastInvoked = float64(c.LastInvoked.UnixMilli()) / 1000.0
	}

	return map[string]any{
		"uuid":         c.UUID,
		"label":        c.Label,
		"icon_name":    c.IconName,
		"action_name":  c.ActionName,
		"last_invoked": lastInvoked,
		"user_query":   c.UserQuery,
		"is_starred":   c.Starred,
		"is_proactive": c.Proactive,
		"is_fallback":  c.Fallback,
		"is_template":  c.Template,
		"is_builtin":   c.Builtin,
	}
}

// FromMap builds a command from its persistent form. Missing keys fall
// back to zero values; an absent uuid gets a fresh one.
func FromMap(data map[string]any) *Command {
	c := &Command{
		UUID:       stringValue(data, "uuid"),
		Label:      stringValue(data, "label"),
		IconName:   stringValue(data, "icon_name"),
		ActionName: stringValue(data, "action_name"),
		UserQuery:  stringValue(data, "user_query"),
		Starred:    boolValue(data, "is_starred"),
		Proactive:  boolValue(data, "is_proactive"),
		Fallback:   boolValue(data, "is_fallback"),
		Template:   boolValue(data, "is_template"),
		Builtin:    boolValue(data, "is_builtin"),
	}

	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
	if c.IconName == "" {
		c.IconName = DefaultIcon
	}
	if c.ActionName == "" {
		c.ActionName = AnswerAction
	}

	if seconds, ok := data["last_invoked"].(float64); ok && seconds > 0 {
		c.LastInvoked = time.UnixMilli(int64(seconds * 1000))
	}

	return c
}

func stringValue(data map[string]any, key string) string {
	value, _ := data[key].(string)
	return value
}

func boolValue(data map[string]any, key string) bool {
	value, _ := data[key].(bool)
	return value
}
