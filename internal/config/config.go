package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTargetURL          = "https://www.exevopan.com/bosses"
	DefaultUserAgent          = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"
	DefaultAnchor             = "__NEXT_DATA__"
	DefaultFieldPath          = "props.pageProps.bosses"
	DefaultTopN               = 5
	DefaultContextPlaceholder = "All servers"
	DefaultFetchTimeout       = 15 * time.Second
)

// ErrMissingWebhook is returned by RequireWebhook when no notification
// endpoint is configured. It is fatal and never reported through the webhook.
var ErrMissingWebhook = errors.New("DISCORD_WEBHOOK_URL environment variable not found")

type Config struct {
	TargetURL          string        `yaml:"target_url"`
	UserAgent          string        `yaml:"user_agent"`
	PayloadAnchor      string        `yaml:"payload_anchor"`
	FieldPath          []string      `yaml:"field_path"`
	NameKey            string        `yaml:"name_key"`
	ChanceKey          string        `yaml:"chance_key"`
	ContextKey         string        `yaml:"context_key"`
	ContextPlaceholder string        `yaml:"context_placeholder"`
	TopN               int           `yaml:"top_n"`
	WebhookURL         string        `yaml:"webhook_url"`
	FetchTimeout       time.Duration `yaml:"fetch_timeout"`

	// PushgatewayURL, when set, receives the metrics of a one-shot run.
	PushgatewayURL string `yaml:"pushgateway_url"`

	Port      string `yaml:"port"`
	RefreshAt string `yaml:"refresh_at"` // HH:MM (24h)
	TZ        string `yaml:"tz"`         // IANA TZ, e.g. Europe/Berlin
	LogLevel  string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		TargetURL:          DefaultTargetURL,
		UserAgent:          DefaultUserAgent,
		PayloadAnchor:      DefaultAnchor,
		FieldPath:          SplitPath(DefaultFieldPath),
		NameKey:            "name",
		ChanceKey:          "chance",
		ContextKey:         "server",
		ContextPlaceholder: DefaultContextPlaceholder,
		TopN:               DefaultTopN,
		FetchTimeout:       DefaultFetchTimeout,
		Port:               "8080",
		RefreshAt:          "9:30",
		TZ:                 "CET",
		LogLevel:           "info",
	}
}

// Load builds the configuration from defaults, the optional YAML file named by
// CONFIG_FILE, and environment variables, in increasing priority.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.TargetURL = getenv("BOSS_TRACKER_URL", cfg.TargetURL)
	cfg.UserAgent = getenv("USER_AGENT", cfg.UserAgent)
	cfg.PayloadAnchor = getenv("PAYLOAD_ANCHOR", cfg.PayloadAnchor)
	if v := os.Getenv("FIELD_PATH"); v != "" {
		cfg.FieldPath = SplitPath(v)
	}
	cfg.NameKey = getenv("NAME_KEY", cfg.NameKey)
	cfg.ChanceKey = getenv("CHANCE_KEY", cfg.ChanceKey)
	cfg.ContextKey = getenv("CONTEXT_KEY", cfg.ContextKey)
	cfg.ContextPlaceholder = getenv("CONTEXT_PLACEHOLDER", cfg.ContextPlaceholder)
	cfg.WebhookURL = strings.TrimSpace(getenv("DISCORD_WEBHOOK_URL", cfg.WebhookURL))
	cfg.PushgatewayURL = getenv("PUSHGATEWAY_URL", cfg.PushgatewayURL)
	cfg.Port = getenv("PORT", cfg.Port)
	cfg.RefreshAt = getenv("REFRESH_AT", cfg.RefreshAt)
	cfg.TZ = getenv("TZ", cfg.TZ)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)

	if v := os.Getenv("TOP_N"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid TOP_N %q: %w", v, err)
		}
		cfg.TopN = n
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_TIMEOUT %q: %w", v, err)
		}
		cfg.FetchTimeout = d
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	// zero values in the file leave the defaults untouched
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	setString(&c.TargetURL, file.TargetURL)
	setString(&c.UserAgent, file.UserAgent)
	setString(&c.PayloadAnchor, file.PayloadAnchor)
	setString(&c.NameKey, file.NameKey)
	setString(&c.ChanceKey, file.ChanceKey)
	setString(&c.ContextKey, file.ContextKey)
	setString(&c.ContextPlaceholder, file.ContextPlaceholder)
	setString(&c.WebhookURL, file.WebhookURL)
	setString(&c.PushgatewayURL, file.PushgatewayURL)
	setString(&c.Port, file.Port)
	setString(&c.RefreshAt, file.RefreshAt)
	setString(&c.TZ, file.TZ)
	setString(&c.LogLevel, file.LogLevel)
	if file.FieldPath != nil {
		c.FieldPath = file.FieldPath
	}
	if file.TopN != 0 {
		c.TopN = file.TopN
	}
	if file.FetchTimeout != 0 {
		c.FetchTimeout = file.FetchTimeout
	}
	return nil
}

// Validate checks everything a run needs except the webhook secret.
func (c Config) Validate() error {
	if c.TargetURL == "" {
		return errors.New("target URL cannot be empty")
	}
	u, err := url.Parse(c.TargetURL)
	if err != nil {
		return fmt.Errorf("invalid target URL: %w", err)
	}
	if u.Host == "" {
		return errors.New("target URL must include a host")
	}
	if c.PayloadAnchor == "" {
		return errors.New("payload anchor cannot be empty")
	}
	for i, step := range c.FieldPath {
		if step == "" {
			return fmt.Errorf("field path step %d is empty", i)
		}
	}
	if c.NameKey == "" || c.ChanceKey == "" {
		return errors.New("record name and chance keys cannot be empty")
	}
	if c.TopN <= 0 {
		return errors.New("top_n must be positive")
	}
	if c.FetchTimeout <= 0 {
		return errors.New("fetch timeout must be positive")
	}
	if _, err := time.LoadLocation(c.TZ); err != nil {
		return fmt.Errorf("invalid TZ %q: %w", c.TZ, err)
	}
	if _, err := time.Parse("15:04", c.RefreshAt); err != nil {
		return fmt.Errorf("invalid REFRESH_AT %q, want HH:MM: %w", c.RefreshAt, err)
	}
	return nil
}

func (c Config) RequireWebhook() error {
	if c.WebhookURL == "" {
		return ErrMissingWebhook
	}
	return nil
}

// SplitPath turns "props.pageProps.bosses" into its steps. An empty string
// yields an empty path, meaning the payload root itself is the record list.
func SplitPath(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ".")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
