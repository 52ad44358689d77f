package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultAndNormalize(t *testing.T) {
	cfg := Default()
	if cfg.Port == 0 || cfg.DataDir == "" || cfg.UploadDir == "" || cfg.MaxUploadSize < 1 {
		t.Fatalf("default config invalid: %+v", cfg)
	}

	got := normalizeExtensions([]string{"DOC", ".docx", "doc", "  .PDF"})

	has := func(slice []string, s string) bool {
		for _, v := range slice {
			if v == s {
				return true
			}
		}
		return false
	}
	if !has(got, ".doc") || !has(got, ".docx") || !has(got, ".pdf") {
		t.Fatalf("expected normalized set to contain .doc,.docx,.pdf got %v", got)
	}
	if len(got) != 3 {
		t.Fatalf("expected duplicates removed, got %v", got)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("not_exists.yml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.MaxUploadSize != 16*1024*1024 {
		t.Fatalf("expected 16 MiB default cap, got %d", cfg.MaxUploadSize)
	}
}

func TestLoadReadsAndValidates(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "cfg.yml")
	content := []byte("port: 9090\ndata_dir: testdata\nupload_dir: up\nmax_upload_size: 1024\nallowed_extensions: [doc, .pdf]\nanalyzer_url: http://analyzer:9000\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9090 || cfg.DataDir != "testdata" || cfg.UploadDir != "up" || cfg.MaxUploadSize != 1024 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.AnalyzerURL != "http://analyzer:9000" {
		t.Fatalf("analyzer url not read: %q", cfg.AnalyzerURL)
	}

	if len(cfg.AllowedExtensions) == 0 || cfg.AllowedExtensions[0][0] != '.' {
		t.Fatalf("extensions not normalized: %v", cfg.AllowedExtensions)
	}
}

func TestLoadRejectsInvalidUploadSize(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "cfg.yml")
	content := []byte("max_upload_size: -5\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for invalid upload size")
	}
}
