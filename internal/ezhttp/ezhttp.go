package ezhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	HeaderContentType        = "Content-Type"
	HeaderUserAgent          = "User-Agent"
	HeaderAuthorization      = "Authorization"
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"
)

const (
	ContentTypeText = "text/plain; charset=UTF-8"
	ContentTypeJSON = "application/json"
)

type ErrorResponse struct {
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Path      string `json:"path"`
	RequestID string `json:"request_id"`
}

// NewJSONRequest encodes v as the JSON body of a new request and sets the
// content type.
func NewJSONRequest(ctx context.Context, method string, url string, v any) (*http.Request, error) {
	buff := new(bytes.Buffer)
	if err := json.NewEncoder(buff).Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	rq, err := http.NewRequestWithContext(ctx, method, url, buff)
	if err != nil {
		return nil, err
	}
	rq.Header.Set(HeaderContentType, ContentTypeJSON)
	return rq, nil
}

// ProcessBody decodes a success response into body and turns any non-2xx
// status into an error. The response body is always drained and closed.
func ProcessBody(action string, rs *http.Response, body any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, rs.Body)
		_ = rs.Body.Close()
	}()

	if rs.StatusCode < http.StatusOK || rs.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("failed to %s: unexpected status %s", action, rs.Status)
	}
	if body == nil {
		return nil
	}
	if err := json.NewDecoder(rs.Body).Decode(body); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", action, err)
	}
	return nil
}
