// Package store persists palette commands and their usage statistics.
//
// Saved commands are JSON documents keyed by uuid; usage (last invocation
// time, starred flag) lives in its own table so builtin commands, which are
// never saved themselves, still accumulate history. Persistence is
// best-effort: the palette works from its in-memory set even when the
// database is unavailable.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"scribe/internal/palette"
)

const schema = `
CREATE TABLE IF NOT EXISTS commands (
	uuid TEXT PRIMARY KEY,
	data TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS usage (
	uuid TEXT PRIMARY KEY,
	last_invoked REAL NOT NULL,
	is_starred INTEGER NOT NULL
);
`

// Store is the command database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the command database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open command store: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize command store: %w", err)
	}

	return &Store{db: db}, nil
}

// SaveCommand writes a command to persistent storage, replacing any earlier
// version. The cached answer is never persisted.
func (s *Store) SaveCommand(cmd *palette.Command) error {
	data, err := json.Marshal(cmd.ToMap())
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO commands (uuid, data) VALUES (?, ?)`,
		cmd.UUID, string(data),
	)
	return err
}

// SaveUsage persists a command's usage statistics.
func (s *Store) SaveUsage(cmd *palette.Command) error {
	starred := 0
	if cmd.Starred {
		starred = 1
	}

	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO usage (uuid, last_invoked, is_starred) VALUES (?, ?, ?)`,
		cmd.UUID, unixSeconds(cmd.LastInvoked), starred,
	)
	return err
}

// DeleteCommand removes a saved command and its usage.
func (s *Store) DeleteCommand(uuid string) error {
	if _, err := s.db.Exec(`DELETE FROM commands WHERE uuid = ?`, uuid); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM usage WHERE uuid = ?`, uuid)
	return err
}

// Commands loads all saved commands with their usage merged in.
func (s *Store) Commands() ([]*palette.Command, error) {
	rows, err := s.db.Query(`SELECT data FROM commands`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var commands []*palette.Command
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		var values map[string]any
		if err := json.Unmarshal([]byte(data), &values); err != nil {
			// A corrupt row costs one command, not the whole load.
			continue
		}
		commands = append(commands, palette.FromMap(values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.ApplyUsage(commands); err != nil {
		return nil, err
	}

	return commands, nil
}

// ApplyUsage merges persisted usage statistics onto the given commands.
// Commands without history are left untouched.
func (s *Store) ApplyUsage(commands []*palette.Command) error {
	rows, err := s.db.Query(`SELECT uuid, last_invoked, is_starred FROM usage`)
	if err != nil {
		return err
	}
	defer rows.Close()

	type usage struct {
		lastInvoked float64
		starred     bool
	}
	byUUID := make(map[string]usage)

	for rows.Next() {
		var uuid string
		var u usage
		var starred int
		if err := rows.Scan(&uuid, &u.lastInvoked, &starred); err != nil {
			return err
		}
		u.starred = starred != 0
		byUUID[uuid] = u
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, cmd := range commands {
		if u, ok := byUUID[cmd.UUID]; ok {
			cmd.Starred = u.starred
			if u.lastInvoked > 0 {
				cmd.LastInvoked = time.UnixMilli(int64(u.lastInvoked * 1000))
			}
		}
	}

	return nil
}

// Prune deletes the oldest non-starred saved commands once more than limit
// of them exist. Starred commands never count toward the limit and are
// never pruned.
func (s *Store) Prune(limit int) error {
	if limit <= 0 {
		return nil
	}

	commands, err := s.Commands()
	if err != nil {
		return err
	}

	var candidates []*palette.Command
	for _, cmd := range commands {
		if !cmd.Starred {
			candidates = append(candidates, cmd)
		}
	}

	excess := len(candidates) - limit
	if excess <= 0 {
		return nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].LastInvoked.Before(candidates[j].LastInvoked)
	})

	for _, cmd := range candidates[:excess] {
		if err := s.DeleteCommand(cmd.UUID); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func unixSeconds(t time.Time) float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixMilli()) / 1000.0
}
