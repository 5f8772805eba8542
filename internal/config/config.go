package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-builder/internal/pdf"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Store  StoreConfig  `mapstructure:"store"`
	Chrome ChromeConfig `mapstructure:"chrome"`
	Render RenderConfig `mapstructure:"render"`
	PDF    PDFConfig    `mapstructure:"pdf"`
	Output OutputConfig `mapstructure:"output"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type StoreConfig struct {
	Driver      string `mapstructure:"driver"` // postgres, sqlite, none
	DatabaseURL string `mapstructure:"database_url"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	Migrate     bool   `mapstructure:"migrate"`
}

type ChromeConfig struct {
	Path         string        `mapstructure:"path"`
	NoSandbox    bool          `mapstructure:"no_sandbox"`
	AutoDownload bool          `mapstructure:"auto_download"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type RenderConfig struct {
	Settle       string        `mapstructure:"settle"` // fixed, proportional, paint
	SettleDelay  time.Duration `mapstructure:"settle_delay"`
	Attempts     int           `mapstructure:"attempts"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	TempDir      string        `mapstructure:"temp_dir"`
	Template     string        `mapstructure:"template"`
}

type PDFConfig struct {
	Mode    string      `mapstructure:"mode"`
	Options pdf.Options `mapstructure:",squash"`
}

type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// DefaultPath is ~/.resume-builder/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".resume-builder", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("store.driver", "none")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.sqlite_path", filepath.Join(filepath.Dir(DefaultPath()), "resumes.db"))
	v.SetDefault("store.migrate", true)
	v.SetDefault("chrome.path", "")
	v.SetDefault("chrome.no_sandbox", false)
	v.SetDefault("chrome.auto_download", false)
	v.SetDefault("chrome.timeout", 60*time.Second)
	v.SetDefault("render.settle", "fixed")
	v.SetDefault("render.settle_delay", time.Second)
	v.SetDefault("render.attempts", 3)
	v.SetDefault("render.retry_backoff", time.Second)
	v.SetDefault("render.temp_dir", "")
	v.SetDefault("render.template", "professional")
	v.SetDefault("pdf.mode", string(pdf.ModeRaster))
	v.SetDefault("pdf.format", string(pdf.FormatA4))
	v.SetDefault("pdf.orientation", string(pdf.Portrait))
	v.SetDefault("pdf.quality", pdf.DefaultRasterQuality)
	v.SetDefault("pdf.filename", "")
	v.SetDefault("output.dir", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load reads configuration from path (optional; a missing file is fine),
// then RESUME_* environment variables. PORT, CHROME_PATH and DATABASE_URL
// are honoured as well.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("RESUME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("server.port", "RESUME_SERVER_PORT", "PORT")
	_ = v.BindEnv("chrome.path", "RESUME_CHROME_PATH", "CHROME_PATH")
	_ = v.BindEnv("store.database_url", "RESUME_STORE_DATABASE_URL", "DATABASE_URL")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "none", "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if _, err := pdf.ParseMode(c.PDF.Mode); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.PDF.Options.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Render.Attempts < 1 {
		c.Render.Attempts = 1
	}
	return nil
}
