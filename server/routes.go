package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
	"github.com/riandyrn/otelchi/metric"
	"github.com/samber/slog-chi"

	"github.com/kelanguage/enrollhook/internal/ezhttp"
	"github.com/kelanguage/enrollhook/internal/httperr"
)

var (
	ErrInvalidSignature = errors.New("invalid signature")
	ErrRateLimit        = errors.New("rate limit exceeded")
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	if s.cfg.Otel.Enabled {
		r.Use(otelchi.Middleware(Name, otelchi.WithChiRoutes(r)))
		baseCfg := metric.NewBaseConfig(Name)
		r.Use(metric.NewRequestDurationMillis(baseCfg))
		r.Use(metric.NewRequestInFlight(baseCfg))
		r.Use(metric.NewResponseSizeBytes(baseCfg))
	}
	r.Use(middleware.CleanPath)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(slogchi.NewWithConfig(slog.Default(), slogchi.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelDebug,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
		WithSpanID:       s.cfg.Otel.Enabled,
		WithTraceID:      s.cfg.Otel.Enabled,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))
	if s.cfg.RateLimit.Enabled {
		r.Use(s.RateLimit)
	}
	r.Use(middleware.GetHead)

	if s.cfg.Debug {
		r.Mount("/debug", middleware.Profiler())
	}

	r.Get("/", s.GetStatus)
	r.Get("/version", s.GetVersion)
	r.Post("/webhook/zapsign", s.PostZapSignWebhook)

	if s.cfg.HTTPTimeout > 0 {
		return http.TimeoutHandler(r, s.cfg.HTTPTimeout, "Request timed out")
	}
	return r
}

func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	s.json(w, r, map[string]string{"status": "ok"}, http.StatusOK)
}

func (s *Server) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set(ezhttp.HeaderContentType, ezhttp.ContentTypeText)
	_, _ = w.Write([]byte(s.version.Format()))
}

func (s *Server) error(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, http.ErrHandlerTimeout) {
		return
	}

	status := http.StatusInternalServerError
	var httpErr *httperr.Error
	if errors.As(err, &httpErr) {
		status = httpErr.Status
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", slog.Any("err", err))
	}
	s.json(w, r, ezhttp.ErrorResponse{
		Message:   err.Error(),
		Status:    status,
		Path:      r.URL.Path,
		RequestID: middleware.GetReqID(r.Context()),
	}, status)
}

func (s *Server) ok(w http.ResponseWriter, r *http.Request, v any) {
	if v == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.json(w, r, v, http.StatusOK)
}

func (s *Server) json(w http.ResponseWriter, r *http.Request, v any, status int) {
	w.Header().Set(ezhttp.HeaderContentType, ezhttp.ContentTypeJSON)
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil && !errors.Is(err, http.ErrHandlerTimeout) {
		slog.ErrorContext(r.Context(), "failed to encode json", slog.Any("err", err))
	}
}
