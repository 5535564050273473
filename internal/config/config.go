package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

type Config struct {
	Port string `mapstructure:"port" json:"port"`

	// Auth for /api routes. Empty disables it.
	APIKey string `mapstructure:"api_key" json:"api_key"`

	// Extraction
	ExtractProvider    string        `mapstructure:"extract_provider" json:"extract_provider"`
	GeminiAPIKey       string        `mapstructure:"gemini_api_key" json:"gemini_api_key"`
	GeminiModel        string        `mapstructure:"gemini_model" json:"gemini_model"`
	GeminiPollInterval time.Duration `mapstructure:"gemini_poll_interval" json:"gemini_poll_interval"`
	AnthropicAPIKey    string        `mapstructure:"anthropic_api_key" json:"anthropic_api_key"`
	AnthropicModel     string        `mapstructure:"anthropic_model" json:"anthropic_model"`
	AnthropicBaseURL   string        `mapstructure:"anthropic_base_url" json:"anthropic_base_url"`
	ExtractTimeout     time.Duration `mapstructure:"extract_timeout" json:"extract_timeout"`

	// Notion publishing
	NotionBaseURL   string        `mapstructure:"notion_base_url" json:"notion_base_url"`
	NotionVersion   string        `mapstructure:"notion_version" json:"notion_version"`
	NotionMaxBlocks int           `mapstructure:"notion_max_blocks" json:"notion_max_blocks"`
	PublishTimeout  time.Duration `mapstructure:"publish_timeout" json:"publish_timeout"`

	// Upload limits
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" json:"max_upload_bytes"`

	// Templates and artifacts
	TemplateDir  string        `mapstructure:"template_dir" json:"template_dir"`
	OutputDir    string        `mapstructure:"output_dir" json:"output_dir"`
	ArtifactTTL  time.Duration `mapstructure:"artifact_ttl" json:"artifact_ttl"`
	EmptySection string        `mapstructure:"empty_section" json:"empty_section"`

	// ICS export timezone, an IANA name. Empty means the server's local zone.
	CalendarTimezone string `mapstructure:"calendar_timezone" json:"calendar_timezone"`
}

var defaults = map[string]any{
	"port":                 "8090",
	"extract_provider":     "gemini",
	"gemini_model":         "gemini-flash-latest",
	"gemini_poll_interval": 2 * time.Second,
	"anthropic_model":      "claude-sonnet-4-5-20250929",
	"anthropic_base_url":   "https://api.anthropic.com",
	"extract_timeout":      3 * time.Minute,
	"notion_base_url":      "https://api.notion.com",
	"notion_version":       "2022-06-28",
	"notion_max_blocks":    100,
	"publish_timeout":      30 * time.Second,
	"max_upload_bytes":     int64(16 << 20), // 16MB
	"template_dir":         "",
	"output_dir":           "output",
	"artifact_ttl":         time.Hour,
	"empty_section":        "keep",
	"api_key":              "",
	"gemini_api_key":       "",
	"anthropic_api_key":    "",
	"calendar_timezone":    "",
}

// Load reads configuration from defaults, an optional config file and the
// environment, in increasing order of precedence. Environment variables use
// the upper-cased key (PORT, GEMINI_API_KEY, ...).
func Load(path string) (Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.ExtractProvider = strings.ToLower(strings.TrimSpace(cfg.ExtractProvider))
	cfg.EmptySection = strings.ToLower(strings.TrimSpace(cfg.EmptySection))
	return cfg, nil
}

var positiveDuration = validation.By(func(value any) error {
	if d, ok := value.(time.Duration); ok && d <= 0 {
		return errors.New("must be a positive duration")
	}
	return nil
})

// Validate checks the settings needed to serve requests.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required),
		validation.Field(&c.ExtractProvider, validation.Required, validation.In("gemini", "claude")),
		validation.Field(&c.GeminiAPIKey,
			validation.When(c.ExtractProvider == "gemini", validation.Required.Error("is required for the gemini provider"))),
		validation.Field(&c.AnthropicAPIKey,
			validation.When(c.ExtractProvider == "claude", validation.Required.Error("is required for the claude provider"))),
		validation.Field(&c.ExtractTimeout, positiveDuration),
		validation.Field(&c.PublishTimeout, positiveDuration),
		validation.Field(&c.ArtifactTTL, positiveDuration),
		validation.Field(&c.GeminiPollInterval, positiveDuration),
		validation.Field(&c.NotionMaxBlocks, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.MaxUploadBytes, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.OutputDir, validation.Required),
		validation.Field(&c.EmptySection, validation.In("keep", "remove", "na")),
	)
}

// Location returns the calendar timezone.
func (c Config) Location() (*time.Location, error) {
	if c.CalendarTimezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.CalendarTimezone)
	if err != nil {
		return nil, fmt.Errorf("calendar timezone: %w", err)
	}
	return loc, nil
}
