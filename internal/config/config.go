package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Directories
	SiteDir   string
	RawDir    string
	SourceDir string

	// Generation service (OpenAI-compatible)
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	UseLLM     bool

	// Build queue
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Snapshots
	BackupKeep int

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("COURSEFORGE_API_KEY"),

		SiteDir:   envOr("SITE_DIR", "./site"),
		RawDir:    envOr("RAW_DIR", "./raw"),
		SourceDir: envOr("SOURCE_DIR", "./source"),

		LLMBaseURL: envOr("LLM_BASE_URL", "https://api.deepseek.com/v1"),
		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMModel:   envOr("LLM_MODEL", "deepseek-chat"),
		UseLLM:     envBool("USE_LLM", true),

		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 10),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		BackupKeep: envInt("BACKUP_KEEP", 3),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 10
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.BackupKeep <= 0 {
		cfg.BackupKeep = 3
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("COURSEFORGE_API_KEY is required")
	}
	if c.SiteDir == "" {
		return fmt.Errorf("SITE_DIR is required")
	}
	if c.UseLLM && c.LLMAPIKey == "" {
		return fmt.Errorf("LLM_API_KEY is required when USE_LLM is enabled")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
