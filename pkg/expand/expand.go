// Package expand calls the idea-expansion service: given a topic, it
// returns a handful of related ideas to fan out around a node.
package expand

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ideamap/ideamap/pkg/errors"
	"github.com/ideamap/ideamap/pkg/httputil"
)

// MaxIdeas is the most ideas a single request returns. The service may
// send more; extras are dropped.
const MaxIdeas = 4

const (
	httpTimeout = 10 * time.Second
	cacheTTL    = 24 * time.Hour
)

// Idea is one expansion suggestion.
type Idea struct {
	Title string `json:"title"`
	Body  string `json:"body,omitempty"`
}

// Config holds the expansion service settings.
type Config struct {
	// BaseURL is the service endpoint, e.g. "https://api.example.com".
	BaseURL string
	// APIKey is sent as a bearer token. Empty disables authentication.
	APIKey string
}

// Client calls the expansion service with retry and response caching.
// Identical topics within the cache TTL are served locally.
type Client struct {
	http  *http.Client
	cfg   Config
	cache *httputil.Cache
}

// NewClient creates a Client. Pass nil for cache to disable caching.
func NewClient(cfg Config, cache *httputil.Cache) *Client {
	if cache != nil {
		cache = cache.Namespace("expand:")
	}
	return &Client{
		http:  &http.Client{Timeout: httpTimeout},
		cfg:   cfg,
		cache: cache,
	}
}

type expandRequest struct {
	Topic string `json:"topic"`
	Limit int    `json:"limit"`
}

type expandResponse struct {
	Ideas []Idea `json:"ideas"`
}

// Expand returns up to MaxIdeas ideas related to topic.
func (c *Client) Expand(ctx context.Context, topic string) ([]Idea, error) {
	if topic == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "expansion topic cannot be empty")
	}

	var ideas []Idea
	if c.cache != nil {
		if ok, _ := c.cache.Get(topic, &ideas); ok {
			return clip(ideas), nil
		}
	}

	err := httputil.RetryWithBackoff(ctx, func() error {
		got, err := c.request(ctx, topic)
		if err == nil {
			ideas = got
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	ideas = clip(ideas)
	if c.cache != nil {
		_ = c.cache.Set(topic, ideas)
	}
	return ideas, nil
}

func (c *Client) request(ctx context.Context, topic string) ([]Idea, error) {
	body, err := json.Marshal(expandRequest{Topic: topic, Limit: MaxIdeas})
	if err != nil {
		return nil, err
	}
	url := c.cfg.BaseURL + "/v1/expand"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &httputil.RetryableError{
			Err: errors.Wrap(errors.ErrCodeNetwork, err, "expansion service unreachable"),
		}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	var out expandResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode expansion response")
	}
	return out.Ideas, nil
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return errors.New(errors.ErrCodeInvalidInput, "expansion service rejected the API key")
	case code == http.StatusTooManyRequests:
		return &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeRateLimited, "expansion service rate limited"),
		}
	case code >= 500:
		return &httputil.RetryableError{
			Err: errors.New(errors.ErrCodeNetwork, "expansion service error: status %d", code),
		}
	default:
		return errors.New(errors.ErrCodeNetwork, "expansion service error: status %d", code)
	}
}

func clip(ideas []Idea) []Idea {
	if len(ideas) > MaxIdeas {
		return ideas[:MaxIdeas]
	}
	return ideas
}

// String implements fmt.Stringer for log output without leaking the key.
func (c Config) String() string {
	key := "unset"
	if c.APIKey != "" {
		key = "set"
	}
	return fmt.Sprintf("expand.Config{BaseURL: %s, APIKey: %s}", c.BaseURL, key)
}
