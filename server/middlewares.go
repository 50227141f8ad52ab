package server

import (
	"net/http"
	"slices"
	"strings"

	"github.com/kelanguage/enrollhook/internal/httperr"
)

func (s *Server) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only webhook deliveries are limited.
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		remoteAddr := strings.SplitN(r.RemoteAddr, ":", 2)[0]
		if slices.Contains(s.cfg.RateLimit.Whitelist, remoteAddr) {
			next.ServeHTTP(w, r)
			return
		}
		if slices.Contains(s.cfg.RateLimit.Blacklist, remoteAddr) {
			s.error(w, r, httperr.TooManyRequests(ErrRateLimit))
			return
		}
		if s.rateLimitHandler == nil {
			next.ServeHTTP(w, r)
			return
		}
		s.rateLimitHandler(next).ServeHTTP(w, r)
	})
}
