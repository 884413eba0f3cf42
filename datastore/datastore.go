// Package datastore is a small JSON-file-backed key-value store: an in-memory
// map flushed to disk by an autosave loop and on Close. Writes are atomic
// (temp file + rename) and a bounded set of backups is rotated on each save.
package datastore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Config holds configuration options for the DataStore.
type Config struct {
	FilePath         string
	AutoSaveInterval time.Duration
	BackupCount      int // number of backup files to keep
	Logger           *log.Logger
}

// DefaultConfig returns a default configuration.
func DefaultConfig(filePath string) *Config {
	return &Config{
		FilePath:         filePath,
		AutoSaveInterval: 10 * time.Second,
		BackupCount:      3,
		Logger:           log.New(os.Stderr, "[datastore] ", log.LstdFlags),
	}
}

// DataStore is safe for concurrent use.
type DataStore struct {
	mu   sync.RWMutex
	data map[string]any

	config       *Config
	lastChecksum string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	closeMu sync.Mutex
	closed  bool
}

// New creates a DataStore with default configuration.
func New(filePath string) (*DataStore, error) {
	return NewWithConfig(DefaultConfig(filePath))
}

// NewWithConfig creates a DataStore, loading existing data if the file exists.
func NewWithConfig(config *Config) (*DataStore, error) {
	if config == nil || config.FilePath == "" {
		return nil, fmt.Errorf("datastore: file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("datastore: creating directory: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ds := &DataStore{
		data:   make(map[string]any),
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}

	if _, err := os.Stat(config.FilePath); err == nil {
		if err := ds.load(); err != nil {
			cancel()
			return nil, fmt.Errorf("datastore: loading %s: %w", config.FilePath, err)
		}
	} else if !os.IsNotExist(err) {
		cancel()
		return nil, fmt.Errorf("datastore: checking %s: %w", config.FilePath, err)
	}

	if config.AutoSaveInterval > 0 {
		ds.wg.Add(1)
		go ds.autoSave()
	}
	return ds, nil
}

// Add stores a key-value pair.
func (ds *DataStore) Add(key string, value any) {
	ds.mu.Lock()
	ds.data[key] = value
	ds.mu.Unlock()
}

// Get retrieves a value by key.
func (ds *DataStore) Get(key string) (any, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	v, ok := ds.data[key]
	return v, ok
}

// Delete removes a key.
func (ds *DataStore) Delete(key string) {
	ds.mu.Lock()
	delete(ds.data, key)
	ds.mu.Unlock()
}

// Keys returns all stored keys.
func (ds *DataStore) Keys() []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	keys := make([]string, 0, len(ds.data))
	for k := range ds.data {
		keys = append(keys, k)
	}
	return keys
}

// Save flushes the current data to disk if it changed since the last save.
func (ds *DataStore) Save() error {
	ds.mu.RLock()
	raw, err := json.MarshalIndent(ds.data, "", "  ")
	ds.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("datastore: marshalling: %w", err)
	}

	sum := sha256.Sum256(raw)
	checksum := hex.EncodeToString(sum[:])
	if checksum == ds.lastChecksum {
		return nil
	}

	ds.rotateBackups()
	if err := ds.writeFileAtomic(raw); err != nil {
		return err
	}
	ds.lastChecksum = checksum
	return nil
}

// Close stops the autosave loop and performs a final save.
func (ds *DataStore) Close() error {
	ds.closeMu.Lock()
	defer ds.closeMu.Unlock()
	if ds.closed {
		return nil
	}
	ds.closed = true
	ds.cancel()
	ds.wg.Wait()
	return ds.Save()
}

func (ds *DataStore) autoSave() {
	defer ds.wg.Done()
	ticker := time.NewTicker(ds.config.AutoSaveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ds.ctx.Done():
			return
		case <-ticker.C:
			if err := ds.Save(); err != nil {
				ds.config.Logger.Printf("autosave failed: %v", err)
			}
		}
	}
}

func (ds *DataStore) load() error {
	raw, err := os.ReadFile(ds.config.FilePath)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if err := json.Unmarshal(raw, &ds.data); err != nil {
		return err
	}
	sum := sha256.Sum256(raw)
	ds.lastChecksum = hex.EncodeToString(sum[:])
	return nil
}

// writeFileAtomic writes via a temp file in the same directory plus rename, so
// a crash mid-write never truncates the live file.
func (ds *DataStore) writeFileAtomic(raw []byte) error {
	dir := filepath.Dir(ds.config.FilePath)
	tmp, err := os.CreateTemp(dir, ".datastore-*.tmp")
	if err != nil {
		return fmt.Errorf("datastore: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("datastore: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("datastore: closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, ds.config.FilePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("datastore: replacing %s: %w", ds.config.FilePath, err)
	}
	return nil
}

// rotateBackups shifts file.bak1 -> file.bak2 -> ... and copies the current
// file to file.bak1. Best effort; rotation failures only get logged.
func (ds *DataStore) rotateBackups() {
	if ds.config.BackupCount <= 0 {
		return
	}
	base := ds.config.FilePath
	for i := ds.config.BackupCount - 1; i >= 1; i-- {
		from := fmt.Sprintf("%s.bak%d", base, i)
		to := fmt.Sprintf("%s.bak%d", base, i+1)
		if _, err := os.Stat(from); err == nil {
			if err := os.Rename(from, to); err != nil {
				ds.config.Logger.Printf("backup rotation failed: %v", err)
			}
		}
	}
	if raw, err := os.ReadFile(base); err == nil {
		if err := os.WriteFile(base+".bak1", raw, 0644); err != nil {
			ds.config.Logger.Printf("backup write failed: %v", err)
		}
	}
}
