// Package config loads calgrid settings from a config file, the
// environment and built-in defaults.
//
// Files are named calgrid.yaml (or .toml, .json) and are looked up in the
// user config directory and the working directory. Every key can be
// overridden from the environment with the CALGRID_ prefix, e.g.
// CALGRID_SERVER_ADDR or CALGRID_THEME_SOURCE_COLOR.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/teemow/calgrid/internal/grid"
	"github.com/teemow/calgrid/internal/theme"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "CALGRID"

type Config struct {
	Server   ServerConfig   `mapstructure:"server" yaml:"server"`
	Google   GoogleConfig   `mapstructure:"google" yaml:"google"`
	Theme    ThemeConfig    `mapstructure:"theme" yaml:"theme"`
	Calendar CalendarConfig `mapstructure:"calendar" yaml:"calendar"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Addr       string        `mapstructure:"addr" yaml:"addr" validate:"required"`
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	SessionTTL time.Duration `mapstructure:"session_ttl" yaml:"session_ttl" validate:"min=1m"`
}

type GoogleConfig struct {
	ClientID     string `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret string `mapstructure:"client_secret" yaml:"client_secret"`
	CalendarID   string `mapstructure:"calendar_id" yaml:"calendar_id" validate:"required"`
}

type ThemeConfig struct {
	SourceColor string `mapstructure:"source_color" yaml:"source_color" validate:"required,hexcolor,sourcecolor"`
}

type CalendarConfig struct {
	DefaultView int    `mapstructure:"default_view" yaml:"default_view" validate:"oneof=1 3 7"`
	WeekStart   string `mapstructure:"week_start" yaml:"week_start" validate:"weekday"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Addr    string `mapstructure:"addr" yaml:"addr" validate:"required_if=Enabled true"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:       ":8080",
			BaseURL:    "http://localhost:8080",
			SessionTTL: 24 * time.Hour,
		},
		Google: GoogleConfig{
			CalendarID: "primary",
		},
		Theme: ThemeConfig{
			SourceColor: theme.DefaultSourceColor,
		},
		Calendar: CalendarConfig{
			DefaultView: int(grid.DefaultView),
			WeekStart:   "sunday",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration. An explicit path must exist; without one
// the default locations are searched and a missing file is not an error.
// The result is validated before it is returned.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Accept the plain Google variables used by other tooling.
	_ = v.BindEnv("google.client_id", EnvPrefix+"_GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_ID")
	_ = v.BindEnv("google.client_secret", EnvPrefix+"_GOOGLE_CLIENT_SECRET", "GOOGLE_CLIENT_SECRET")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("calgrid")
		if dir, err := DefaultDir(); err == nil {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.base_url", d.Server.BaseURL)
	v.SetDefault("server.session_ttl", d.Server.SessionTTL)

	v.SetDefault("google.client_id", d.Google.ClientID)
	v.SetDefault("google.client_secret", d.Google.ClientSecret)
	v.SetDefault("google.calendar_id", d.Google.CalendarID)

	v.SetDefault("theme.source_color", d.Theme.SourceColor)

	v.SetDefault("calendar.default_view", d.Calendar.DefaultView)
	v.SetDefault("calendar.week_start", d.Calendar.WeekStart)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.addr", d.Metrics.Addr)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// DefaultDir returns the per-user calgrid config directory.
func DefaultDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get config directory: %w", err)
	}
	return filepath.Join(dir, "calgrid"), nil
}

// View returns the configured default grid view.
func (c *Config) View() grid.View {
	return grid.View(c.Calendar.DefaultView).OrDefault()
}

// WeekStartDay returns the configured first day of the week.
// An unparsable value means Sunday.
func (c *Config) WeekStartDay() time.Weekday {
	wd, err := grid.ParseWeekday(c.Calendar.WeekStart)
	if err != nil {
		return time.Sunday
	}
	return wd
}

// RedirectURL is the OAuth callback registered for the web server.
func (c *Config) RedirectURL() string {
	return strings.TrimSuffix(c.Server.BaseURL, "/") + "/auth/callback"
}

// GoogleConfigured reports whether sign-in credentials are present.
func (c *Config) GoogleConfigured() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != ""
}
