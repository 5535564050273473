package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8090" {
		t.Errorf("expected default port 8090, got %q", cfg.Port)
	}
	if cfg.ExtractProvider != "gemini" {
		t.Errorf("expected default provider gemini, got %q", cfg.ExtractProvider)
	}
	if cfg.MaxUploadBytes != 16<<20 {
		t.Errorf("expected 16MB upload cap, got %d", cfg.MaxUploadBytes)
	}
	if cfg.NotionMaxBlocks != 100 {
		t.Errorf("expected 100 notion blocks, got %d", cfg.NotionMaxBlocks)
	}
	if cfg.EmptySection != "keep" {
		t.Errorf("expected keep policy, got %q", cfg.EmptySection)
	}
	if cfg.ArtifactTTL != time.Hour {
		t.Errorf("expected 1h artifact ttl, got %s", cfg.ArtifactTTL)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("EXTRACT_PROVIDER", "Claude")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("PUBLISH_TIMEOUT", "5s")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.ExtractProvider != "claude" {
		t.Errorf("expected provider to be normalized to claude, got %q", cfg.ExtractProvider)
	}
	if cfg.PublishTimeout != 5*time.Second {
		t.Errorf("expected 5s publish timeout, got %s", cfg.PublishTimeout)
	}
	if cfg.MaxUploadBytes != 1024 {
		t.Errorf("expected 1024 byte cap, got %d", cfg.MaxUploadBytes)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "syllaboss.yaml")
	body := "port: \"7000\"\ngemini_api_key: g-key\noutput_dir: /tmp/out\nempty_section: na\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PORT", "7100")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "7100" {
		t.Errorf("expected env to win over file, got %q", cfg.Port)
	}
	if cfg.GeminiAPIKey != "g-key" || cfg.OutputDir != "/tmp/out" || cfg.EmptySection != "na" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func validConfig(t *testing.T) Config {
	t.Helper()
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.GeminiAPIKey = "g-key"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"gemini key missing", func(c *Config) { c.GeminiAPIKey = "" }, "gemini_api_key"},
		{"claude key missing", func(c *Config) { c.ExtractProvider = "claude" }, "anthropic_api_key"},
		{"unknown provider", func(c *Config) { c.ExtractProvider = "openai" }, "extract_provider"},
		{"block cap too high", func(c *Config) { c.NotionMaxBlocks = 500 }, "notion_max_blocks"},
		{"zero timeout", func(c *Config) { c.ExtractTimeout = 0 }, "extract_timeout"},
		{"bad policy", func(c *Config) { c.EmptySection = "drop" }, "empty_section"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig(t)
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := Config{CalendarTimezone: "America/Vancouver"}
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loc.String() != "America/Vancouver" {
		t.Errorf("unexpected location %s", loc)
	}
	if _, err := (Config{CalendarTimezone: "Mars/Olympus"}).Location(); err == nil {
		t.Error("expected error for unknown timezone")
	}
}
