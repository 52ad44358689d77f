package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	fileutil "wbsview/internal/file"
)

// RecordStore abstracts persistence for analysis records. The default
// implementation is file-based; the interface leaves room for a DB-backed
// store later.
type RecordStore interface {
	SaveRecord(ctx context.Context, r *Record) error
	LoadRecords(ctx context.Context) ([]*Record, error)
}

// fileStore implements RecordStore using the local filesystem under dataDir.
type fileStore struct {
	dataDir string
}

func NewFileStore(dataDir string) RecordStore { //nolint:ireturn
	if dataDir == "" {
		dataDir = "data"
	}
	return &fileStore{dataDir: dataDir}
}

func (s *fileStore) recordDir(recordID string) string {
	return filepath.Join(s.dataDir, "results", recordID)
}

func (s *fileStore) recordPath(recordID string) string {
	return filepath.Join(s.recordDir(recordID), "record.json")
}

func (s *fileStore) SaveRecord(ctx context.Context, r *Record) error { //nolint:revive // context reserved for future use
	if err := fileutil.EnsureDir(s.recordDir(r.ID)); err != nil {
		return fmt.Errorf("ensure record dir: %w", err)
	}
	return fileutil.WriteJSONAtomic(s.recordPath(r.ID), r) //nolint:wrapcheck
}

func (s *fileStore) LoadRecords(ctx context.Context) ([]*Record, error) { //nolint:revive // context reserved for future use
	root := filepath.Join(s.dataDir, "results")
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir: %w", err)
	}
	records := make([]*Record, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		b, err := os.ReadFile(s.recordPath(e.Name())) //nolint:gosec // path is controlled by application
		if err != nil {
			continue
		}
		var r Record
		if err := json.Unmarshal(b, &r); err != nil {
			continue
		}
		rr := r
		records = append(records, &rr)
	}
	return records, nil
}
