package config

import (
	"os"
	"path/filepath"
	"testing"

	"scribe/internal/palette"
)

func loadDefaults(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return cfg
}

func TestLoadDefaults(t *testing.T) {
	cfg := loadDefaults(t)

	if cfg.Inference.BaseURL != "http://localhost:11434" {
		t.Errorf("unexpected default base URL: %q", cfg.Inference.BaseURL)
	}
	if cfg.Inference.Model == "" {
		t.Error("expected a default model")
	}
	if cfg.Scheduler.Refresh != "@every 10m" {
		t.Errorf("unexpected default refresh schedule: %q", cfg.Scheduler.Refresh)
	}
	if cfg.Store.MaxUserCommands != 100 {
		t.Errorf("unexpected default command limit: %d", cfg.Store.MaxUserCommands)
	}
	if len(cfg.Commands) < 10 {
		t.Errorf("expected the builtin command palette, got %d entries", len(cfg.Commands))
	}
}

func TestLoadFromOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "inference:\n  model: llama3:8b\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Inference.Model != "llama3:8b" {
		t.Errorf("expected the user model, got %q", cfg.Inference.Model)
	}
	// Untouched defaults survive the overlay.
	if cfg.Inference.BaseURL != "http://localhost:11434" {
		t.Errorf("expected the default base URL to survive, got %q", cfg.Inference.BaseURL)
	}
	if len(cfg.Commands) < 10 {
		t.Error("expected the builtin commands to survive")
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("inference: ["), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected an error for invalid yaml")
	}
}

func TestGetOption(t *testing.T) {
	cfg := loadDefaults(t)

	if got := cfg.GetOption("inference.base_url", "x"); got != "http://localhost:11434" {
		t.Errorf("unexpected option value: %v", got)
	}
	if got := cfg.GetOption("no.such.key", "fallback"); got != "fallback" {
		t.Errorf("expected the fallback, got %v", got)
	}
}

func TestBuiltinCommands(t *testing.T) {
	cfg := loadDefaults(t)
	commands := cfg.BuiltinCommands()

	if len(commands) != len(cfg.Commands) {
		t.Fatalf("expected %d commands, got %d", len(cfg.Commands), len(commands))
	}

	var template, fallback *palette.Command
	for _, cmd := range commands {
		if !cmd.Builtin {
			t.Errorf("expected %q to be marked builtin", cmd.Label)
		}
		if cmd.Template {
			template = cmd
		}
		if cmd.Fallback && cmd.ActionName == "math:evaluate_query" {
			fallback = cmd
		}
	}

	if template == nil {
		t.Error("expected a template command for AI queries")
	} else if template.ActionName != "ai:query" {
		t.Errorf("unexpected template action: %q", template.ActionName)
	}
	if fallback == nil {
		t.Error("expected the calculator fallback command")
	}
}

func TestBuiltinCommandsStableIdentity(t *testing.T) {
	first := loadDefaults(t).BuiltinCommands()
	second := loadDefaults(t).BuiltinCommands()

	if len(first) == 0 || len(first) != len(second) {
		t.Fatal("expected the same command set on both loads")
	}
	for i := range first {
		if first[i].UUID != second[i].UUID {
			t.Errorf("uuid of %q changed between loads", first[i].Label)
		}
	}
}

func TestBuiltinCommandsSkipIncomplete(t *testing.T) {
	cfg := &Config{Commands: []CommandConfig{
		{Label: "No action"},
		{Action: "text:upper"},
		{Label: "Good", Action: "text:upper"},
	}}

	commands := cfg.BuiltinCommands()
	if len(commands) != 1 || commands[0].Label != "Good" {
		t.Errorf("expected only the complete declaration, got %v", commands)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandPath("~/scribe/x"); got != filepath.Join(home, "scribe", "x") {
		t.Errorf("unexpected expansion: %q", got)
	}
	if got := ExpandPath("/absolute/path"); got != "/absolute/path" {
		t.Errorf("expected absolute paths untouched, got %q", got)
	}
}
