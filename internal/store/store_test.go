package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scribe/internal/palette"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "scribe", "commands.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadCommands(t *testing.T) {
	s := openTestStore(t)

	cmd := palette.New("What is the answer", "ai:query")
	cmd.UserQuery = "what is the answer"
	cmd.IconName = palette.SavedIcon
	require.NoError(t, s.SaveCommand(cmd))

	loaded, err := s.Commands()
	require.NoError(t, err)
	require.Len(t, loaded, 1)

	got := loaded[0]
	assert.Equal(t, cmd.UUID, got.UUID)
	assert.Equal(t, cmd.Label, got.Label)
	assert.Equal(t, "ai:query", got.ActionName)
	assert.Equal(t, "what is the answer", got.UserQuery)
	assert.Equal(t, palette.SavedIcon, got.IconName)
	assert.Nil(t, got.Answer)
}

func TestSaveCommandReplaces(t *testing.T) {
	s := openTestStore(t)

	cmd := palette.New("Original", "text:upper")
	require.NoError(t, s.SaveCommand(cmd))

	cmd.Label = "Renamed"
	require.NoError(t, s.SaveCommand(cmd))

	loaded, err := s.Commands()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Renamed", loaded[0].Label)
}

func TestUsageMergedOntoLoad(t *testing.T) {
	s := openTestStore(t)

	cmd := palette.New("Used", "text:upper")
	cmd.LastInvoked = time.Unix(1700000000, 0)
	cmd.Starred = true
	require.NoError(t, s.SaveCommand(cmd))
	require.NoError(t, s.SaveUsage(cmd))

	loaded, err := s.Commands()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.True(t, loaded[0].Starred)
	assert.True(t, loaded[0].LastInvoked.Equal(time.Unix(1700000000, 0)))
}

func TestApplyUsageOnBuiltins(t *testing.T) {
	s := openTestStore(t)

	// Builtins are never saved; only their usage is.
	builtin := palette.New("Calculate", "math:evaluate_query")
	builtin.Builtin = true
	builtin.LastInvoked = time.Unix(1700000000, 0)
	require.NoError(t, s.SaveUsage(builtin))

	fresh := palette.New("Calculate", "math:evaluate_query")
	fresh.UUID = builtin.UUID
	untouched := palette.New("Other", "text:upper")

	require.NoError(t, s.ApplyUsage([]*palette.Command{fresh, untouched}))
	assert.True(t, fresh.LastInvoked.Equal(time.Unix(1700000000, 0)))
	assert.True(t, untouched.LastInvoked.IsZero())
}

func TestDeleteCommand(t *testing.T) {
	s := openTestStore(t)

	cmd := palette.New("Doomed", "text:upper")
	require.NoError(t, s.SaveCommand(cmd))
	require.NoError(t, s.SaveUsage(cmd))

	require.NoError(t, s.DeleteCommand(cmd.UUID))

	loaded, err := s.Commands()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestCorruptRowIsSkipped(t *testing.T) {
	s := openTestStore(t)

	cmd := palette.New("Good", "text:upper")
	require.NoError(t, s.SaveCommand(cmd))
	_, err := s.db.Exec(
		`INSERT INTO commands (uuid, data) VALUES (?, ?)`, "corrupt", "{not json")
	require.NoError(t, err)

	loaded, err := s.Commands()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Good", loaded[0].Label)
}

func TestPruneDropsOldestNonStarred(t *testing.T) {
	s := openTestStore(t)

	var saved []*palette.Command
	for i := 0; i < 5; i++ {
		cmd := palette.New("Saved", "text:upper")
		cmd.LastInvoked = time.Unix(int64(1700000000+i), 0)
		require.NoError(t, s.SaveCommand(cmd))
		require.NoError(t, s.SaveUsage(cmd))
		saved = append(saved, cmd)
	}

	// The oldest command is starred and therefore untouchable.
	saved[0].Starred = true
	require.NoError(t, s.SaveUsage(saved[0]))

	require.NoError(t, s.Prune(2))

	loaded, err := s.Commands()
	require.NoError(t, err)
	require.Len(t, loaded, 3)

	kept := map[string]bool{}
	for _, cmd := range loaded {
		kept[cmd.UUID] = true
	}
	assert.True(t, kept[saved[0].UUID], "starred command pruned")
	assert.True(t, kept[saved[3].UUID])
	assert.True(t, kept[saved[4].UUID])
}

func TestPruneUnderLimitIsNoOp(t *testing.T) {
	s := openTestStore(t)

	cmd := palette.New("Saved", "text:upper")
	require.NoError(t, s.SaveCommand(cmd))

	require.NoError(t, s.Prune(10))
	require.NoError(t, s.Prune(0))

	loaded, err := s.Commands()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "commands.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveCommand(palette.New("Probe", "text:upper")))
}
