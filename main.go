package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptrace"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"github.com/topi314/tint"
	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/kelanguage/enrollhook/internal/ver"
	"github.com/kelanguage/enrollhook/notion"
	"github.com/kelanguage/enrollhook/server"
	"github.com/kelanguage/enrollhook/zapi"
)

func main() {
	version := ver.Load()

	// A local .env is optional; the environment itself is authoritative.
	_ = godotenv.Load()

	viper.SetDefault("debug", false)
	viper.SetDefault("listen_addr", ":80")
	viper.SetDefault("http_timeout", "30s")
	viper.SetDefault("upstream_timeout", "10s")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
	viper.SetDefault("log.add_source", false)
	viper.SetDefault("log.no_color", false)
	viper.SetDefault("rate_limit.enabled", false)
	viper.SetDefault("rate_limit.requests", 10)
	viper.SetDefault("rate_limit.duration", "1m")
	viper.SetDefault("rate_limit.whitelist", []string{"127.0.0.1"})
	viper.SetDefault("rate_limit.blacklist", []string{})
	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.instance_id", "1")
	viper.SetDefault("otel.trace.enabled", false)
	viper.SetDefault("otel.trace.endpoint", "localhost:4318")
	viper.SetDefault("otel.trace.insecure", false)
	viper.SetDefault("otel.metrics.enabled", false)
	viper.SetDefault("otel.metrics.listen_addr", ":8080")
	viper.SetDefault("notion.token", "")
	viper.SetDefault("notion.db_id", "")
	viper.SetDefault("notion.version", "2022-06-28")
	viper.SetDefault("notion.base_url", notion.DefaultBaseURL)
	viper.SetDefault("notion.email_property", "Email")
	viper.SetDefault("notion.name_property", "Student Name")
	viper.SetDefault("zapi.instance_id", "")
	viper.SetDefault("zapi.token", "")
	viper.SetDefault("zapi.base_url", zapi.DefaultBaseURL)
	viper.SetDefault("zapsign.hmac_secret", "")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg server.Config
	if err := viper.Unmarshal(&cfg, func(config *mapstructure.DecoderConfig) {
		config.TagName = "cfg"
	}); err != nil {
		log.Fatalln("Error while unmarshalling config:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalln("Invalid config:", err)
	}

	setupLogger(cfg.Log)
	slog.Info("Starting enrollhook...", slog.String("version", version.Format()))
	slog.Debug("Config:\n" + cfg.String())

	if cfg.Otel.Enabled {
		if err := server.SetupOtel(version.Version, cfg.Otel); err != nil {
			slog.Error("Error while setting up otel", tint.Err(err))
			os.Exit(1)
		}
	}

	client := &http.Client{
		Timeout: cfg.UpstreamTimeout,
	}
	if cfg.Otel.Enabled {
		client.Transport = otelhttp.NewTransport(
			http.DefaultTransport,
			otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
				return otelhttptrace.NewClientTrace(ctx)
			}),
		)
	}

	s := server.NewServer(version, cfg, notion.New(cfg.Notion, client), zapi.New(cfg.ZAPI, client))
	go s.Start()
	defer s.Close()
	slog.Info("Listening for webhooks", slog.String("addr", cfg.ListenAddr))

	si := make(chan os.Signal, 1)
	signal.Notify(si, syscall.SIGINT, syscall.SIGTERM)
	<-si
	slog.Info("Shutting down enrollhook...")
}

func setupLogger(cfg server.LogConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		log.Fatalln("Invalid log level:", err)
	}

	var handler slog.Handler
	switch cfg.Format {
	case server.LogFormatJSON:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: cfg.AddSource,
			Level:     level,
		})
	case server.LogFormatText:
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			AddSource: cfg.AddSource,
			Level:     level,
			NoColor:   cfg.NoColor,
		})
	default:
		log.Fatalln("Invalid log format:", cfg.Format)
	}
	slog.SetDefault(slog.New(handler))
}
