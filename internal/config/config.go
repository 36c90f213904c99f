package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultPath is used when neither --config nor CONFIG_PATH is set.
	DefaultPath = "config.yaml"

	// SoftLimitBytes is the largest Markdown payload accepted for rendering.
	SoftLimitBytes = 15 * 1024 * 1024
	// HardLimitBytes is the largest request body the transport will read.
	HardLimitBytes = 16 * 1024 * 1024
)

// PaperSize is a page size in inches.
type PaperSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PostgresConfig locates the optional log event archive.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// Enabled reports whether an archive database was configured.
func (p PostgresConfig) Enabled() bool { return p.Host != "" }

// Config is the full service configuration.
type Config struct {
	Server struct {
		Host          string        `yaml:"host"`
		Port          string        `yaml:"port"`
		Prefork       bool          `yaml:"prefork"`
		BodyLimit     int           `yaml:"body_limit_bytes"`
		ReadTimeout   time.Duration `yaml:"read_timeout"`
		WriteTimeout  time.Duration `yaml:"write_timeout"`
		StaticDir     string        `yaml:"static_dir"`
		EnableMonitor bool          `yaml:"enable_monitor"`
	} `yaml:"server"`

	Limits struct {
		MaxContentBytes int           `yaml:"max_content_bytes"`
		RenderTimeout   time.Duration `yaml:"render_timeout"`
	} `yaml:"limits"`

	Logger struct {
		File        string         `yaml:"file"`
		Level       string         `yaml:"level"`
		Format      string         `yaml:"format"`
		Stdout      bool           `yaml:"stdout"`
		Rotate      bool           `yaml:"rotate"`
		MaxSizeMB   int            `yaml:"max_size_mb"`
		MaxBackups  int            `yaml:"max_backups"`
		MaxAgeDays  int            `yaml:"max_age_days"`
		Compress    bool           `yaml:"compress"`
		EventBuffer int            `yaml:"event_buffer"`
		Postgres    PostgresConfig `yaml:"postgres"`
	} `yaml:"logger"`

	Markdown struct {
		Highlight      bool   `yaml:"highlight"`
		HighlightStyle string `yaml:"highlight_style"`
		UnsafeHTML     bool   `yaml:"unsafe_html"`
	} `yaml:"markdown"`

	RateLimiter struct {
		UserLimit int           `yaml:"user_limit"`
		Interval  time.Duration `yaml:"interval"`
		RedisHost string        `yaml:"redis_host"`
		RedisDB   int           `yaml:"redis_db"`
	} `yaml:"rate_limiter"`

	PDF struct {
		Enabled         bool      `yaml:"enabled"`
		ChromePath      string    `yaml:"chrome_path"`
		ChromeNoSandbox bool      `yaml:"chrome_no_sandbox"`
		TimeoutSecs     int       `yaml:"timeout_secs"`
		Margin          float64   `yaml:"margin"`
		Paper           PaperSize `yaml:"paper"`
		Filename        string    `yaml:"filename"`
	} `yaml:"pdf"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	var cfg Config
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = ":3001"
	cfg.Server.BodyLimit = HardLimitBytes
	cfg.Server.ReadTimeout = 30 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second

	cfg.Limits.MaxContentBytes = SoftLimitBytes
	cfg.Limits.RenderTimeout = 10 * time.Second

	cfg.Logger.File = "logs/app.log"
	cfg.Logger.Level = "info"
	cfg.Logger.Format = "text"
	cfg.Logger.Stdout = true
	cfg.Logger.MaxSizeMB = 100
	cfg.Logger.MaxBackups = 5
	cfg.Logger.MaxAgeDays = 30
	cfg.Logger.EventBuffer = 1024

	cfg.Markdown.HighlightStyle = "github"
	cfg.Markdown.UnsafeHTML = true

	cfg.RateLimiter.Interval = time.Minute

	cfg.PDF.TimeoutSecs = 30
	cfg.PDF.Margin = 0.5
	cfg.PDF.Paper = PaperSize{Width: 8.27, Height: 11.69}
	cfg.PDF.Filename = "markdown-preview.pdf"
	return cfg
}

// Load reads the file named by CONFIG_PATH, or DefaultPath.
func Load() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = DefaultPath
	}
	return LoadFrom(path)
}

// LoadFrom reads the YAML file at path over the defaults. A missing file
// yields the defaults; an unreadable, unparsable or invalid file panics.
func LoadFrom(path string) Config {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return applyEnv(cfg)
	}
	if err != nil {
		panic(fmt.Sprintf("config: read %s: %v", path, err))
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		panic(fmt.Sprintf("config: parse %s: %v", path, err))
	}
	cfg = applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("config: %s: %v", path, err))
	}
	return cfg
}

// applyEnv lets the common container variable override chrome_path.
func applyEnv(cfg Config) Config {
	if cfg.PDF.ChromePath == "" {
		if v := os.Getenv("CHROME_BIN"); v != "" {
			cfg.PDF.ChromePath = v
		}
	}
	return cfg
}

// Validate checks value ranges that would otherwise fail at request time.
func (c Config) Validate() error {
	if c.Server.BodyLimit <= 0 {
		return errors.New("server.body_limit_bytes must be positive")
	}
	if c.Limits.MaxContentBytes <= 0 {
		return errors.New("limits.max_content_bytes must be positive")
	}
	if c.Limits.MaxContentBytes > c.Server.BodyLimit {
		return errors.New("limits.max_content_bytes must not exceed server.body_limit_bytes")
	}
	if c.Limits.RenderTimeout < 0 {
		return errors.New("limits.render_timeout must not be negative")
	}
	switch c.Logger.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logger.format %q must be text or json", c.Logger.Format)
	}
	if c.RateLimiter.UserLimit < 0 {
		return errors.New("rate_limiter.user_limit must not be negative")
	}
	if c.RateLimiter.UserLimit > 0 && c.RateLimiter.Interval <= 0 {
		return errors.New("rate_limiter.interval must be positive when user_limit is set")
	}
	if c.PDF.Enabled {
		if c.PDF.TimeoutSecs <= 0 {
			return errors.New("pdf.timeout_secs must be positive")
		}
		if c.PDF.Margin < 0 || c.PDF.Margin > 2 {
			return errors.New("pdf.margin must be between 0 and 2")
		}
		if c.PDF.Paper.Width <= 0 || c.PDF.Paper.Height <= 0 {
			return errors.New("pdf.paper must have positive width and height")
		}
	}
	return nil
}
