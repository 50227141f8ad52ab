// Package zapi sends WhatsApp text messages through a Z-API instance.
package zapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kelanguage/enrollhook/internal/ezhttp"
)

const DefaultBaseURL = "https://api.z-api.io"

type Config struct {
	InstanceID string `cfg:"instance_id"`
	Token      string `cfg:"token"`
	BaseURL    string `cfg:"base_url"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n InstanceID: %s\n Token: %t\n BaseURL: %s",
		c.InstanceID,
		c.Token != "",
		c.BaseURL,
	)
}

func New(cfg Config, client *http.Client) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{
		cfg:    cfg,
		client: client,
	}
}

type Client struct {
	cfg    Config
	client *http.Client
}

type sendMessageRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// SendText delivers a single text message. The phone number is reduced to
// its digits first; Z-API expects a country-code-prefixed number with no
// "+" or separators.
func (c *Client) SendText(ctx context.Context, phone string, message string) error {
	url := fmt.Sprintf("%s/instances/%s/token/%s/send-message", c.cfg.BaseURL, c.cfg.InstanceID, c.cfg.Token)
	rq, err := ezhttp.NewJSONRequest(ctx, http.MethodPost, url, sendMessageRequest{
		Phone:   NormalizePhone(phone),
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}

	rs, err := c.client.Do(rq)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return ezhttp.ProcessBody("send message", rs, nil)
}

// NormalizePhone strips every non-digit character from phone.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
