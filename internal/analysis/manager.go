package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Manager provides an in-memory store for analysis records backed by a
// best-effort persistent store.
type Manager struct {
	mu      sync.RWMutex
	records map[string]*Record
	store   RecordStore
}

// NewManager creates a manager backed by the provided store. A nil store
// keeps records in memory only, which is what tests use.
func NewManager(store RecordStore) *Manager {
	return &Manager{
		records: make(map[string]*Record),
		store:   store,
	}
}

// AddResult stores a freshly produced analysis under a new record ID and
// returns the record.
func (m *Manager) AddResult(filename string, result *Result, usage map[string]int) *Record {
	newRecord := &Record{
		ID:        uuid.NewString(),
		Filename:  filename,
		Timestamp: time.Now(),
		Result:    result,
		Usage:     usage,
	}

	m.mu.Lock()
	m.records[newRecord.ID] = newRecord
	m.mu.Unlock()

	if err := m.persistRecord(newRecord); err != nil { // best-effort
		log.Warn().Str("result_id", newRecord.ID).Err(err).Msg("persist record failed")
	}
	return newRecord
}

// GetRecord returns a record by ID.
func (m *Manager) GetRecord(recordID string) (*Record, bool) {
	m.mu.RLock()
	foundRecord, recordFound := m.records[recordID]
	m.mu.RUnlock()
	return foundRecord, recordFound
}

// LoadFromDisk restores previously persisted records. Records already in
// memory are not overwritten.
func (m *Manager) LoadFromDisk() error {
	if m.store == nil {
		return nil
	}
	loaded, err := m.store.LoadRecords(context.Background())
	if err != nil {
		return err //nolint:wrapcheck
	}
	m.mu.Lock()
	for _, r := range loaded {
		if _, exists := m.records[r.ID]; exists {
			continue
		}
		m.records[r.ID] = r
	}
	m.mu.Unlock()
	log.Info().Int("records", len(loaded)).Msg("analysis records loaded from disk")
	return nil
}

func (m *Manager) persistRecord(r *Record) error {
	if m.store == nil {
		return nil
	}
	return m.store.SaveRecord(context.Background(), r) //nolint:wrapcheck
}
