package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"dispatchkit/datastore"
)

const commandHistoryLimit = 20

const usageKey = "usage"

// Storage persists dispatch bookkeeping across restarts: the per-command
// usage counts and a short per-guild command history.
type Storage struct {
	ds *datastore.DataStore
}

// CommandHistoryRecord is one logged command invocation.
type CommandHistoryRecord struct {
	ChannelID string    `json:"channel_id"`
	GuildID   string    `json:"guild_id"`
	UserID    string    `json:"user_id"`
	Command   string    `json:"command"`
	Args      string    `json:"args"`
	Datetime  time.Time `json:"datetime"`
}

// New opens (or creates) the store at filePath.
func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

// Close flushes and closes the underlying datastore.
func (s *Storage) Close() error {
	return s.ds.Close()
}

// decode round-trips a stored value into out. The datastore holds values as
// the loose types json.Unmarshal produced, so re-marshalling is the simplest
// faithful conversion.
func decode(value any, out any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshalling stored value: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("unmarshalling stored value: %w", err)
	}
	return nil
}
