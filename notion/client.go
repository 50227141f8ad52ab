// Package notion queries a Notion database for existing student records.
package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kelanguage/enrollhook/internal/ezhttp"
)

const DefaultBaseURL = "https://api.notion.com"

type Config struct {
	Token         string `cfg:"token"`
	DBID          string `cfg:"db_id"`
	Version       string `cfg:"version"`
	BaseURL       string `cfg:"base_url"`
	EmailProperty string `cfg:"email_property"`
	NameProperty  string `cfg:"name_property"`
}

func (c Config) String() string {
	return fmt.Sprintf("\n Token: %t\n DBID: %s\n Version: %s\n BaseURL: %s\n EmailProperty: %s\n NameProperty: %s",
		c.Token != "",
		c.DBID,
		c.Version,
		c.BaseURL,
		c.EmailProperty,
		c.NameProperty,
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

// Client issues database query requests against the Notion API. It is safe
// for concurrent use.
type Client struct {
	cfg    Config
	client *http.Client
}

type queryRequest struct {
	Filter filter `json:"filter"`
}

type filter struct {
	Property string        `json:"property"`
	RichText richTextMatch `json:"rich_text"`
}

type richTextMatch struct {
	Equals   string `json:"equals,omitempty"`
	Contains string `json:"contains,omitempty"`
}

type queryResponse struct {
	Results []json.RawMessage `json:"results"`
}

// ContainsEmail reports whether any record has an exact match on the email
// property.
func (c *Client) ContainsEmail(ctx context.Context, email string) (bool, error) {
	return c.query(ctx, filter{
		Property: c.cfg.EmailProperty,
		RichText: richTextMatch{Equals: email},
	})
}

// ContainsGivenName reports whether any record's name property contains
// givenName as a substring.
func (c *Client) ContainsGivenName(ctx context.Context, givenName string) (bool, error) {
	return c.query(ctx, filter{
		Property: c.cfg.NameProperty,
		RichText: richTextMatch{Contains: givenName},
	})
}

func (c *Client) query(ctx context.Context, f filter) (bool, error) {
	url := fmt.Sprintf("%s/v1/databases/%s/query", c.cfg.BaseURL, c.cfg.DBID)
	rq, err := ezhttp.NewJSONRequest(ctx, http.MethodPost, url, queryRequest{Filter: f})
	if err != nil {
		return false, fmt.Errorf("failed to create query request: %w", err)
	}
	rq.Header.Set(ezhttp.HeaderAuthorization, "Bearer "+c.cfg.Token)
	rq.Header.Set("Notion-Version", c.cfg.Version)

	rs, err := c.client.Do(rq)
	if err != nil {
		return false, fmt.Errorf("failed to query database: %w", err)
	}

	var body queryResponse
	if err = ezhttp.ProcessBody("query database", rs, &body); err != nil {
		return false, err
	}
	return len(body.Results) > 0, nil
}
