package storage

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, path string) *Storage {
	t.Helper()
	s, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUsageRoundTripAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datastore.json")

	s := newStore(t, path)
	require.NoError(t, s.SaveUsage(map[string]uint64{"ping": 3, "commands": 1}))
	require.NoError(t, s.Close())

	reopened := newStore(t, path)
	counts, err := reopened.LoadUsage()
	require.NoError(t, err)
	assert.Equal(t, map[string]uint64{"ping": 3, "commands": 1}, counts)
}

func TestLoadUsageEmptyStore(t *testing.T) {
	s := newStore(t, filepath.Join(t.TempDir(), "datastore.json"))

	counts, err := s.LoadUsage()
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestCommandHistoryAppendAndFetch(t *testing.T) {
	s := newStore(t, filepath.Join(t.TempDir(), "datastore.json"))

	rec := CommandHistoryRecord{
		ChannelID: "chan-1",
		GuildID:   "guild-1",
		UserID:    "user-1",
		Command:   "ping",
		Args:      "staff",
		Datetime:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.AppendCommandToHistory("guild-1", rec))

	history, err := s.FetchCommandHistory("guild-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, rec, history[0])

	other, err := s.FetchCommandHistory("guild-2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCommandHistoryCapped(t *testing.T) {
	s := newStore(t, filepath.Join(t.TempDir(), "datastore.json"))

	for i := 0; i < commandHistoryLimit+5; i++ {
		require.NoError(t, s.AppendCommandToHistory("guild-1", CommandHistoryRecord{
			Command: fmt.Sprintf("cmd-%d", i),
		}))
	}

	history, err := s.FetchCommandHistory("guild-1")
	require.NoError(t, err)
	require.Len(t, history, commandHistoryLimit)
	assert.Equal(t, "cmd-5", history[0].Command, "oldest entries are dropped first")
}
