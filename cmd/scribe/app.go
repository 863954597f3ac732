package main

import (
	"log"
	"strings"

	"scribe/internal/actions"
	"scribe/internal/config"
	"scribe/internal/inference"
	"scribe/internal/palette"
	"scribe/internal/sandbox"
	"scribe/internal/store"
	"scribe/internal/tasks"
)

// app wires the Scribe components together: configuration, persistence,
// the action registry with its providers, and the task executor. It is
// built once per invocation and passed explicitly to whatever needs it.
type app struct {
	cfg      *config.Config
	store    *store.Store
	registry *actions.Registry
	sandbox  *sandbox.Sandbox
	client   *inference.Client
	executor *tasks.Executor
	commands []*palette.Command
}

// newApp loads the configuration and constructs every component. A broken
// command store degrades to the builtin command set; everything else is
// fatal.
func newApp() (*app, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	sb := sandbox.New()

	client := inference.NewClient(cfg.Inference.BaseURL, cfg.Inference.Model)
	if len(cfg.Inference.Context) > 0 {
		client.SetUserContext(cfg.Inference.Context)
	}

	registry := actions.NewRegistry()
	registry.AddProvider(actions.NewTextProvider())
	registry.AddProvider(actions.NewMathProvider(sb))
	registry.AddProvider(actions.NewChatProvider(client))

	a := &app{
		cfg:      cfg,
		registry: registry,
		sandbox:  sb,
		client:   client,
		executor: tasks.NewExecutor(registry),
		commands: cfg.BuiltinCommands(),
	}

	st, err := store.Open(cfg.StorePath())
	if err != nil {
		log.Printf("[scribe] command store unavailable: %v", err)
		return a, nil
	}
	a.store = st

	if err := st.ApplyUsage(a.commands); err != nil {
		log.Printf("[scribe] failed to load usage: %v", err)
	}
	saved, err := st.Commands()
	if err != nil {
		log.Printf("[scribe] failed to load saved commands: %v", err)
	}
	a.commands = append(a.commands, saved...)

	return a, nil
}

// close releases the executor, sandbox worker and store.
func (a *app) close() {
	a.executor.Shutdown()
	a.sandbox.Close()
	if a.store != nil {
		a.store.Close()
	}
}

// findCommand resolves a palette command by label (case-insensitive) or
// uuid. Returns nil when nothing matches.
func (a *app) findCommand(name string) *palette.Command {
	for _, cmd := range a.commands {
		if strings.EqualFold(cmd.Label, name) || cmd.UUID == name {
			return cmd
		}
	}
	return nil
}

// fallbackCommand returns the first fallback command, the one used when a
// bare query names no command.
func (a *app) fallbackCommand() *palette.Command {
	for _, cmd := range a.commands {
		if cmd.Fallback {
			return cmd
		}
	}
	return nil
}

// saveOutcome persists the side effects of a successful invocation: usage
// for the command itself, and for a template command the newly spawned
// saved command. Persistence is best-effort.
func (a *app) saveOutcome(cmd *palette.Command, query string) {
	if a.store == nil || cmd.IsAnswer() {
		return
	}

	if cmd.Template && query != "" {
		spawned := palette.FromTemplate(query, cmd)
		if err := a.store.SaveCommand(spawned); err != nil {
			log.Printf("[scribe] failed to save command: %v", err)
		} else {
			a.commands = append(a.commands, spawned)
		}
		if err := a.store.Prune(a.cfg.Store.MaxUserCommands); err != nil {
			log.Printf("[scribe] failed to prune saved commands: %v", err)
		}
	}

	if err := a.store.SaveUsage(cmd); err != nil {
		log.Printf("[scribe] failed to save usage: %v", err)
	}
}
