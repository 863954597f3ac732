package palette

import (
	"context"
	"errors"
	"testing"
)

// stubInvoker records invocations and returns a scripted result.
type stubInvoker struct {
	calls         int
	lastAction    string
	lastQuery     string
	lastSelection string
	result        []string
	err           error
}

func (s *stubInvoker) Invoke(ctx context.Context, name, query, selection string) ([]string, error) {
	s.calls++
	s.lastAction = name
	s.lastQuery = query
	s.lastSelection = selection
	return s.result, s.err
}

func TestInvokeRunsAction(t *testing.T) {
	inv := &stubInvoker{result: []string{"HELLO"}}
	cmd := New("Uppercase", "text:upper")

	result, err := cmd.Invoke(context.Background(), inv, "query", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 || result[0] != "HELLO" {
		t.Errorf("expected [HELLO], got %v", result)
	}
	if inv.lastAction != "text:upper" || inv.lastQuery != "query" || inv.lastSelection != "hello" {
		t.Errorf("action invoked with wrong arguments: %+v", inv)
	}
	if cmd.LastInvoked.IsZero() {
		t.Error("expected LastInvoked to be stamped")
	}
}

func TestInvokeCachedAnswerSkipsRegistry(t *testing.T) {
	inv := &stubInvoker{result: []string{"should not be used"}}
	answer := "42"
	cmd := New("Calculate", "math:evaluate_query")
	cmd.Answer = &answer

	result, err := cmd.Invoke(context.Background(), inv, "6*7", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 1 || result[0] != "42" {
		t.Errorf("expected the cached answer, got %v", result)
	}
	if inv.calls != 0 {
		t.Errorf("expected the registry to stay untouched, got %d calls", inv.calls)
	}
}

func TestInvokeUserQueryOverride(t *testing.T) {
	inv := &stubInvoker{result: []string{"ok"}}
	cmd := New("Saved", "ai:query")
	cmd.UserQuery = "what is the capital of France"

	if _, err := cmd.Invoke(context.Background(), inv, "ignored", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.lastQuery != "what is the capital of France" {
		t.Errorf("expected the saved query to win, got %q", inv.lastQuery)
	}
}

func TestInvokePropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	inv := &stubInvoker{err: boom}
	cmd := New("Failing", "text:upper")

	if _, err := cmd.Invoke(context.Background(), inv, "", ""); !errors.Is(err, boom) {
		t.Errorf("expected the action error unchanged, got %v", err)
	}
}

func TestPrefetchStoresAnswer(t *testing.T) {
	inv := &stubInvoker{result: []string{"4", "also 4"}}
	cmd := New("Calculate", "math:evaluate_query")

	cmd.Prefetch(context.Background(), inv, "2+2", "")
	if cmd.Answer == nil {
		t.Fatal("expected a cached answer")
	}
	if *cmd.Answer != "4\nalso 4" {
		t.Errorf("expected joined answer, got %q", *cmd.Answer)
	}
}

func TestPrefetchSwallowsFailures(t *testing.T) {
	stale := "stale"
	inv := &stubInvoker{err: errors.New("boom")}
	cmd := New("Calculate", "math:evaluate_query")
	cmd.Answer = &stale

	cmd.Prefetch(context.Background(), inv, "nonsense", "")
	if cmd.Answer != nil {
		t.Errorf("expected a failed prefetch to clear the answer, got %q", *cmd.Answer)
	}
}

func TestFromAnswer(t *testing.T) {
	cmd := FromAnswer("  the answer  ")

	if !cmd.IsAnswer() {
		t.Error("expected an answer command")
	}
	if cmd.Label != "the answer" {
		t.Errorf("expected a trimmed label, got %q", cmd.Label)
	}
	if cmd.Answer == nil || *cmd.Answer != "  the answer  " {
		t.Error("expected the answer to be kept verbatim")
	}
}

func TestFromTemplate(t *testing.T) {
	answer := "old"
	template := New("Ask the assistant", "ai:query")
	template.Template = true
	template.Fallback = true
	template.Starred = true
	template.Builtin = true
	template.Answer = &answer

	saved := FromTemplate("how tall is the Eiffel Tower", template)

	if saved.UUID == template.UUID {
		t.Error("expected a fresh identity")
	}
	if saved.Label != "how tall is the Eiffel Tower" {
		t.Errorf("expected the query as label, got %q", saved.Label)
	}
	if saved.UserQuery != "how tall is the Eiffel Tower" {
		t.Errorf("expected the query baked in, got %q", saved.UserQuery)
	}
	if saved.IconName != SavedIcon {
		t.Errorf("expected the saved icon, got %q", saved.IconName)
	}
	if saved.ActionName != template.ActionName {
		t.Errorf("expected the action to carry over, got %q", saved.ActionName)
	}
	if saved.Answer != nil {
		t.Error("expected no cached answer on the clone")
	}
	if saved.Starred || saved.Template || saved.Fallback || saved.Builtin {
		t.Error("expected the starred, template, fallback and builtin flags cleared")
	}
	if !template.Template || !template.Builtin {
		t.Error("expected the template itself to stay unchanged")
	}
}
