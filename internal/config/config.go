package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort            = 8000
	defaultDataDir         = "data"
	defaultUploadDir       = "uploads"
	defaultMaxUploadSize   = 16 * 1024 * 1024
	defaultAnalyzerTimeout = 120
)

// Config describes runtime configuration for the service.
type Config struct {
	Port                   int      `yaml:"port"`
	DataDir                string   `yaml:"data_dir"`
	UploadDir              string   `yaml:"upload_dir"`
	MaxUploadSize          int64    `yaml:"max_upload_size"`
	AllowedExtensions      []string `yaml:"allowed_extensions"`
	AnalyzerURL            string   `yaml:"analyzer_url"`
	AnalyzerTimeoutSeconds int      `yaml:"analyzer_timeout_seconds"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Port:                   defaultPort,
		DataDir:                defaultDataDir,
		UploadDir:              defaultUploadDir,
		MaxUploadSize:          defaultMaxUploadSize,
		AllowedExtensions:      []string{".doc", ".docx", ".pdf"},
		AnalyzerTimeoutSeconds: defaultAnalyzerTimeout,
	}
}

// Load reads YAML config from the provided path. If the file does not exist
// or is empty, defaults are returned with no error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, errors.New("empty config path")
	}
	fileData, err := os.ReadFile(path) //nolint:gosec // config path is controlled by deployment
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if len(fileData) == 0 {
		return cfg, nil
	}
	if err := yaml.Unmarshal(fileData, &cfg); err != nil {
		return cfg, fmt.Errorf("parse yaml: %w", err)
	}
	// basic normalization
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	if cfg.UploadDir == "" {
		cfg.UploadDir = defaultUploadDir
	}
	if cfg.AnalyzerTimeoutSeconds == 0 {
		cfg.AnalyzerTimeoutSeconds = defaultAnalyzerTimeout
	}
	// the size cap gates every upload: values < 1 are not allowed
	if cfg.MaxUploadSize < 1 {
		return cfg, fmt.Errorf("invalid max_upload_size: %d (must be >= 1)", cfg.MaxUploadSize)
	}
	if cfg.AnalyzerTimeoutSeconds < 1 {
		return cfg, fmt.Errorf("invalid analyzer_timeout_seconds: %d (must be >= 1)", cfg.AnalyzerTimeoutSeconds)
	}
	cfg.AllowedExtensions = normalizeExtensions(cfg.AllowedExtensions)
	return cfg, nil
}

func normalizeExtensions(in []string) []string {
	if len(in) == 0 {
		return []string{".doc", ".docx", ".pdf"}
	}
	seen := make(map[string]struct{}, len(in))
	normalized := make([]string, 0, len(in))
	for _, ext := range in {
		e := strings.ToLower(strings.TrimSpace(ext))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		normalized = append(normalized, e)
	}
	return normalized
}
