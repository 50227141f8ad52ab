package server

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kelanguage/enrollhook/notion"
	"github.com/kelanguage/enrollhook/zapi"
)

// Config is loaded once at startup from the environment and never mutated
// afterwards.
type Config struct {
	Debug           bool            `cfg:"debug"`
	ListenAddr      string          `cfg:"listen_addr"`
	HTTPTimeout     time.Duration   `cfg:"http_timeout"`
	UpstreamTimeout time.Duration   `cfg:"upstream_timeout"`
	Log             LogConfig       `cfg:"log"`
	RateLimit       RateLimitConfig `cfg:"rate_limit"`
	Otel            OtelConfig      `cfg:"otel"`
	Notion          notion.Config   `cfg:"notion"`
	ZAPI            zapi.Config     `cfg:"zapi"`
	ZapSign         ZapSignConfig   `cfg:"zapsign"`
}

// Validate reports every required environment value that is missing.
func (c Config) Validate() error {
	required := []struct {
		value string
		env   string
	}{
		{c.Notion.Token, "NOTION_TOKEN"},
		{c.Notion.DBID, "NOTION_DB_ID"},
		{c.ZAPI.InstanceID, "ZAPI_INSTANCE_ID"},
		{c.ZAPI.Token, "ZAPI_TOKEN"},
	}

	var missing []string
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	if c.HTTPTimeout <= 0 {
		return errors.New("http_timeout must be positive")
	}
	if c.UpstreamTimeout <= 0 {
		return errors.New("upstream_timeout must be positive")
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("Debug: %t\nListenAddr: %s\nHTTPTimeout: %s\nUpstreamTimeout: %s\nLog: %s\nRateLimit: %s\nOtel: %s\nNotion: %s\nZAPI: %s\nZapSign: %s",
		c.Debug,
		c.ListenAddr,
		c.HTTPTimeout,
		c.UpstreamTimeout,
		c.Log,
		c.RateLimit,
		c.Otel,
		c.Notion,
		c.ZAPI,
		c.ZapSign,
	)
}

type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

type LogConfig struct {
	Level     string    `cfg:"level"`
	Format    LogFormat `cfg:"format"`
	AddSource bool      `cfg:"add_source"`
	NoColor   bool      `cfg:"no_color"`
}

func (c LogConfig) String() string {
	return fmt.Sprintf("\n Level: %s\n Format: %s\n AddSource: %t\n NoColor: %t",
		c.Level,
		c.Format,
		c.AddSource,
		c.NoColor,
	)
}

type RateLimitConfig struct {
	Enabled   bool          `cfg:"enabled"`
	Requests  int           `cfg:"requests"`
	Duration  time.Duration `cfg:"duration"`
	Whitelist []string      `cfg:"whitelist"`
	Blacklist []string      `cfg:"blacklist"`
}

func (c RateLimitConfig) String() string {
	return fmt.Sprintf("\n Enabled: %t\n Requests: %d\n Duration: %s\n Whitelist: %v\n Blacklist: %v",
		c.Enabled,
		c.Requests,
		c.Duration,
		c.Whitelist,
		c.Blacklist,
	)
}

type ZapSignConfig struct {
	// HMACSecret enables webhook signature verification when set.
	HMACSecret string `cfg:"hmac_secret"`
}

func (c ZapSignConfig) String() string {
	return fmt.Sprintf("\n HMACSecret: %t", c.HMACSecret != "")
}

type OtelConfig struct {
	Enabled    bool          `cfg:"enabled"`
	InstanceID string        `cfg:"instance_id"`
	Trace      TraceConfig   `cfg:"trace"`
	Metrics    MetricsConfig `cfg:"metrics"`
}

func (c OtelConfig) String() string {
	return fmt.Sprintf("\n Enabled: %t\n InstanceID: %s\n Trace: %s\n Metrics: %s",
		c.Enabled,
		c.InstanceID,
		c.Trace,
		c.Metrics,
	)
}

type TraceConfig struct {
	Enabled  bool   `cfg:"enabled"`
	Endpoint string `cfg:"endpoint"`
	Insecure bool   `cfg:"insecure"`
}

func (c TraceConfig) String() string {
	return fmt.Sprintf("\n  Enabled: %t\n  Endpoint: %s\n  Insecure: %t",
		c.Enabled,
		c.Endpoint,
		c.Insecure,
	)
}

type MetricsConfig struct {
	Enabled    bool   `cfg:"enabled"`
	ListenAddr string `cfg:"listen_addr"`
}

func (c MetricsConfig) String() string {
	return fmt.Sprintf("\n  Enabled: %t\n  ListenAddr: %s",
		c.Enabled,
		c.ListenAddr,
	)
}
