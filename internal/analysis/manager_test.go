package analysis

import (
	"testing"
)

func sampleResult() *Result {
	return &Result{
		ProjectInfo: ProjectInfo{
			ProjectName:         "Система управления задачами",
			TotalEstimatedHours: 480,
		},
		WBS: WBS{Phases: []Phase{
			{
				ID:             "1",
				Name:           "Планирование и анализ",
				EstimatedHours: 40,
				WorkPackages: []WorkPackage{
					{ID: "1.1", Name: "Анализ требований", EstimatedHours: 16},
				},
			},
		}},
	}
}

func TestAddResultAndGet(t *testing.T) {
	manager := NewManager(nil)

	record := manager.AddResult("тз.docx", sampleResult(), map[string]int{"total_tokens": 1200})
	if record.ID == "" {
		t.Fatalf("expected non-empty record id")
	}
	if record.Filename != "тз.docx" {
		t.Fatalf("unexpected filename: %q", record.Filename)
	}
	if record.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}

	found, ok := manager.GetRecord(record.ID)
	if !ok {
		t.Fatalf("record not found after add")
	}
	if found.Result.ProjectInfo.ProjectName != "Система управления задачами" {
		t.Fatalf("unexpected result: %+v", found.Result)
	}
}

func TestGetUnknownRecord(t *testing.T) {
	manager := NewManager(nil)
	if _, ok := manager.GetRecord("missing"); ok {
		t.Fatalf("expected miss for unknown id")
	}
}

func TestPersistAndLoadRoundTrip(t *testing.T) {
	dataDir := t.TempDir()

	first := NewManager(NewFileStore(dataDir))
	record := first.AddResult("тз.docx", sampleResult(), nil)

	second := NewManager(NewFileStore(dataDir))
	if err := second.LoadFromDisk(); err != nil {
		t.Fatalf("load from disk: %v", err)
	}
	loaded, ok := second.GetRecord(record.ID)
	if !ok {
		t.Fatalf("record not restored from disk")
	}
	if loaded.Filename != record.Filename {
		t.Fatalf("expected filename %q, got %q", record.Filename, loaded.Filename)
	}
	if len(loaded.Result.WBS.Phases) != 1 || loaded.Result.WBS.Phases[0].Name != "Планирование и анализ" {
		t.Fatalf("result not restored: %+v", loaded.Result)
	}
}

func TestLoadFromDiskKeepsInMemoryRecords(t *testing.T) {
	dataDir := t.TempDir()

	manager := NewManager(NewFileStore(dataDir))
	record := manager.AddResult("a.pdf", sampleResult(), nil)
	record.Filename = "renamed-in-memory"

	if err := manager.LoadFromDisk(); err != nil {
		t.Fatalf("load from disk: %v", err)
	}
	found, _ := manager.GetRecord(record.ID)
	if found.Filename != "renamed-in-memory" {
		t.Fatalf("in-memory record was overwritten: %q", found.Filename)
	}
}

func TestLoadFromDiskMissingDir(t *testing.T) {
	manager := NewManager(NewFileStore(t.TempDir()))
	if err := manager.LoadFromDisk(); err != nil {
		t.Fatalf("expected no error for empty data dir, got %v", err)
	}
}
