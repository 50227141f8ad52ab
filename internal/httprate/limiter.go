package httprate

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/kelanguage/enrollhook/internal/ezhttp"
)

// NewRateLimiter returns a fixed-window limiter keyed by client IP and
// request path. onRequestLimit is invoked for rejected requests.
func NewRateLimiter(requestLimit int, windowLength time.Duration, onRequestLimit http.HandlerFunc) *RateLimiter {
	c := &counter{
		counters:     make(map[uint64]*count),
		windowLength: windowLength,
		requestLimit: requestLimit,
	}

	go c.Cleanup()

	return &RateLimiter{
		requestLimit:   requestLimit,
		limitCounter:   c,
		onRequestLimit: onRequestLimit,
	}
}

type RateLimiter struct {
	requestLimit   int
	limitCounter   *counter
	onRequestLimit http.HandlerFunc
}

func (l *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, remaining, reset := l.limitCounter.Try(getKey(r))
		w.Header().Set(ezhttp.HeaderRateLimitLimit, strconv.Itoa(l.requestLimit))
		w.Header().Set(ezhttp.HeaderRateLimitRemaining, strconv.Itoa(remaining))
		w.Header().Set(ezhttp.HeaderRateLimitReset, strconv.FormatInt(reset.Unix(), 10))

		if !ok {
			w.Header().Set(ezhttp.HeaderRetryAfter, strconv.FormatInt(int64(math.Ceil(time.Until(reset).Seconds())), 10))
			l.onRequestLimit(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func getKey(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return canonicalizeIP(ip) + ":" + r.URL.Path
}

// canonicalizeIP returns a form of ip suitable for comparison to other IPs.
// For IPv4 addresses, this is simply the whole string.
// For IPv6 addresses, this is the /64 prefix.
func canonicalizeIP(ip string) string {
	isIPv6 := false
	for i := 0; !isIPv6 && i < len(ip); i++ {
		switch ip[i] {
		case '.':
			return ip
		case ':':
			isIPv6 = true
		}
	}
	if !isIPv6 {
		return ip
	}

	ipv6 := net.ParseIP(ip)
	if ipv6 == nil {
		return ip
	}

	return ipv6.Mask(net.CIDRMask(64, 128)).String()
}
