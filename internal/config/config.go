package config

import (
	"embed"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/matheuskafuri/hnsort/internal/classify"
	"github.com/matheuskafuri/hnsort/internal/crawl"
	"github.com/matheuskafuri/hnsort/internal/extract"
	"github.com/matheuskafuri/hnsort/internal/format"
	"github.com/matheuskafuri/hnsort/internal/order"
	"github.com/matheuskafuri/hnsort/internal/retry"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

const (
	EngineBrowser = "browser"
	EngineHTTP    = "http"
)

type RetryConfig struct {
	Attempts int    `yaml:"attempts"`
	Delay    string `yaml:"delay"`
}

type Config struct {
	StartURL      string            `yaml:"start_url"`
	Engine        string            `yaml:"engine"`
	Headful       bool              `yaml:"headful"`
	ChromePath    string            `yaml:"chrome_path,omitempty"`
	UserAgent     string            `yaml:"user_agent,omitempty"`
	RespectRobots bool              `yaml:"respect_robots"`
	Timeout       string            `yaml:"timeout"`
	Target        int               `yaml:"target"`
	Pages         int               `yaml:"pages"`
	MinAge        int               `yaml:"min_age"`
	Order         string            `yaml:"order"`
	Kinds         []string          `yaml:"kinds"`
	Format        string            `yaml:"format"`
	Retry         RetryConfig       `yaml:"retry"`
	LogLevel      string            `yaml:"log_level"`
	ExportDB      string            `yaml:"export_db,omitempty"`
	Selectors     extract.Selectors `yaml:"selectors"`
}

func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return crawl.DefaultTimeout
	}
	return d
}

func (c *Config) RetryPolicy() retry.Policy {
	p := retry.DefaultPolicy()
	if c.Retry.Attempts > 0 {
		p.Attempts = c.Retry.Attempts
	}
	if d, err := time.ParseDuration(c.Retry.Delay); err == nil && d >= 0 {
		p.Delay = d
	}
	return p
}

// KindSet resolves the kinds filter. Validate has already rejected unknown
// entries.
func (c *Config) KindSet() []classify.Kind {
	kinds, _ := classify.ResolveAll(c.Kinds)
	return kinds
}

// Level maps log_level to a slog level, defaulting to warn.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return l
}

// SelectorSet fills unset selectors from the built-in Hacker News ones.
func (c *Config) SelectorSet() extract.Selectors {
	s := extract.DefaultSelectors()
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&s.Row, c.Selectors.Row)
	set(&s.Title, c.Selectors.Title)
	set(&s.Subtext, c.Selectors.Subtext)
	set(&s.Age, c.Selectors.Age)
	set(&s.Score, c.Selectors.Score)
	set(&s.Author, c.Selectors.Author)
	set(&s.Comments, c.Selectors.Comments)
	set(&s.More, c.Selectors.More)
	return s
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "hnsort", "config.yaml")
}

// DefaultExportPath is used when --export-db is given without a value.
func DefaultExportPath() string {
	return filepath.Join(xdg.DataHome, "hnsort", "runs.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (or the default location) on top of the
// embedded defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: the embedded defaults still apply
			_ = writeDefaults(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the values that would otherwise fail deep inside a crawl.
func Validate(cfg *Config) error {
	u, err := url.Parse(cfg.StartURL)
	if err != nil {
		return fmt.Errorf("start_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("start_url scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("start_url %q has no host", cfg.StartURL)
	}
	if cfg.Engine != EngineBrowser && cfg.Engine != EngineHTTP {
		return fmt.Errorf("unknown engine %q (valid: browser, http)", cfg.Engine)
	}
	if cfg.Target < 1 {
		return fmt.Errorf("target must be at least 1, got %d", cfg.Target)
	}
	if cfg.Pages < 1 {
		return fmt.Errorf("pages must be at least 1, got %d", cfg.Pages)
	}
	if cfg.MinAge < 0 {
		return fmt.Errorf("min_age must not be negative, got %d", cfg.MinAge)
	}
	if _, err := order.ParseDirection(cfg.Order); err != nil {
		return err
	}
	if _, err := format.ParseFormat(cfg.Format); err != nil {
		return err
	}
	if _, err := classify.ResolveAll(cfg.Kinds); err != nil {
		return fmt.Errorf("kinds: %w", err)
	}
	if cfg.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Timeout); err != nil || d <= 0 {
			return fmt.Errorf("timeout must be a positive duration, got %q", cfg.Timeout)
		}
	}
	if cfg.Retry.Attempts < 0 {
		return fmt.Errorf("retry.attempts must not be negative, got %d", cfg.Retry.Attempts)
	}
	if cfg.Retry.Delay != "" {
		if _, err := time.ParseDuration(cfg.Retry.Delay); err != nil {
			return fmt.Errorf("retry.delay: %w", err)
		}
	}
	return nil
}
