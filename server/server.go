package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/kelanguage/enrollhook/internal/httperr"
	"github.com/kelanguage/enrollhook/internal/httprate"
	"github.com/kelanguage/enrollhook/internal/ver"
)

var (
	Name      = "enrollhook"
	Namespace = "github.com/kelanguage/enrollhook"
)

// StudentDirectory answers whether a student record already exists. Both
// lookups treat any result as a match.
type StudentDirectory interface {
	ContainsEmail(ctx context.Context, email string) (bool, error)
	ContainsGivenName(ctx context.Context, givenName string) (bool, error)
}

// Messenger delivers a single text message to a phone number.
type Messenger interface {
	SendText(ctx context.Context, phone string, message string) error
}

func NewServer(version ver.Version, cfg Config, directory StudentDirectory, messenger Messenger) *Server {
	s := &Server{
		version:   version,
		cfg:       cfg,
		directory: directory,
		messenger: messenger,
	}

	s.server = &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: s.Routes(),
	}

	if cfg.RateLimit.Enabled {
		s.rateLimitHandler = httprate.NewRateLimiter(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Duration,
			func(w http.ResponseWriter, r *http.Request) {
				s.error(w, r, httperr.TooManyRequests(ErrRateLimit))
			},
		).Handler
	}

	return s
}

// Server holds no mutable state across requests; the config and clients are
// read-only after construction.
type Server struct {
	version          ver.Version
	cfg              Config
	directory        StudentDirectory
	messenger        Messenger
	server           *http.Server
	rateLimitHandler func(http.Handler) http.Handler
}

func (s *Server) Start() {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Error while listening", slog.Any("err", err))
	}
}

func (s *Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		slog.Error("Error while shutting down server", slog.Any("err", err))
	}
}
