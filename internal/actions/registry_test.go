package actions

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestRegistryInvokeImmediate(t *testing.T) {
	reg := NewRegistry()
	reg.Register("echo", ImmediateFunc(func(query, selection string) (string, error) {
		return query + "/" + selection, nil
	}))

	result, err := reg.Invoke(context.Background(), "echo", "q", "s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result, []string{"q/s"}) {
		t.Errorf("expected [q/s], got %v", result)
	}
}

func TestRegistryInvokeDeferred(t *testing.T) {
	reg := NewRegistry()
	reg.Register("multi", DeferredFunc(func(ctx context.Context, query, selection string) ([]string, error) {
		return []string{"a", "b"}, nil
	}))

	result, err := reg.Invoke(context.Background(), "multi", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(result, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", result)
	}
}

func TestRegistryUnknownAction(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Invoke(context.Background(), "missing", "", "")
	if !errors.Is(err, ErrUnknownAction) {
		t.Errorf("expected ErrUnknownAction, got %v", err)
	}
}

func TestRegistryErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	reg := NewRegistry()
	reg.Register("fail", ImmediateFunc(func(query, selection string) (string, error) {
		return "", boom
	}))

	_, err := reg.Invoke(context.Background(), "fail", "", "")
	if !errors.Is(err, boom) {
		t.Errorf("expected the action's error unchanged, got %v", err)
	}
}

func TestRegistryLastWriteWins(t *testing.T) {
	reg := NewRegistry()
	reg.Register("name", ImmediateFunc(func(query, selection string) (string, error) {
		return "first", nil
	}))
	reg.Register("name", ImmediateFunc(func(query, selection string) (string, error) {
		return "second", nil
	}))

	result, err := reg.Invoke(context.Background(), "name", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result[0] != "second" {
		t.Errorf("expected the later registration to shadow, got %q", result[0])
	}
	if reg.Count() != 1 {
		t.Errorf("expected 1 registered action, got %d", reg.Count())
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	reg := NewRegistry()
	for _, name := range []string{"c", "a", "b"} {
		reg.Register(name, ImmediateFunc(func(query, selection string) (string, error) {
			return "", nil
		}))
	}

	names := reg.Names()
	if !reflect.DeepEqual(names, []string{"a", "b", "c"}) {
		t.Errorf("expected sorted names, got %v", names)
	}

	if !reg.Has("b") {
		t.Error("expected Has(b) to be true")
	}
	if reg.Has("d") {
		t.Error("expected Has(d) to be false")
	}
}
