// Package api implements the remote HTTP content store.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/nickpending/reelfeed/internal/catalog"
)

var (
	// ErrPermission is returned for 401 and 403 responses
	ErrPermission = errors.New("permission denied")
	// ErrNotFound is returned for 404 responses
	ErrNotFound = errors.New("not found")
)

// StatusError is returned for any other response with status >= 400
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("store error: HTTP %d", e.Code)
	}
	return fmt.Sprintf("store error: HTTP %d: %s", e.Code, e.Message)
}

// Client talks to the content store HTTP API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[[]byte]
	log        zerolog.Logger
}

// Options configures a Client
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  zerolog.Logger
	// BreakerFailures is the number of consecutive failures that opens the
	// breaker. Zero uses the default of 5.
	BreakerFailures uint32
	// BreakerTimeout is how long the breaker stays open. Zero uses 30s.
	BreakerTimeout time.Duration
}

// itemsResponse represents the response from GET /api/folders/{name}/items
type itemsResponse struct {
	Items []struct {
		Ref  string `json:"ref"`
		Name string `json:"name"`
	} `json:"items"`
}

// urlResponse represents the response from GET /api/objects/url
type urlResponse struct {
	URL string `json:"url"`
}

// metadataResponse represents the response from GET /api/objects/metadata
type metadataResponse struct {
	Size           int64     `json:"size"`
	TimeCreated    time.Time `json:"time_created"`
	CustomMetadata struct {
		Title     string `json:"title"`
		Thumbnail string `json:"thumbnail"`
	} `json:"custom_metadata"`
}

// errorResponse is the body the store sends with failures
type errorResponse struct {
	Message string `json:"message"`
}

// NewClient creates a remote store client
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("remote store requires [store].url in config.toml")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid store url: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 5
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = 30 * time.Second
	}

	log := opts.Logger.With().Str("component", "api").Logger()

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "content-store",
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		// A missing object or a rejected key is an answer, not an outage.
		// Neither is a request the caller cancelled.
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, ErrPermission) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		apiKey:     opts.APIKey,
		httpClient: &http.Client{Timeout: opts.Timeout},
		cb:         cb,
		log:        log,
	}, nil
}

// ListFolder lists the entries of a folder
func (c *Client) ListFolder(ctx context.Context, folder string) ([]catalog.Ref, error) {
	body, err := c.get(ctx, "/api/folders/"+url.PathEscape(folder)+"/items", nil)
	if err != nil {
		return nil, err
	}

	var resp itemsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	refs := make([]catalog.Ref, 0, len(resp.Items))
	for i, item := range resp.Items {
		if item.Ref == "" {
			return nil, fmt.Errorf("failed to parse response: item %d has an empty ref", i)
		}
		name := item.Name
		if name == "" {
			name = item.Ref[strings.LastIndex(item.Ref, "/")+1:]
		}
		refs = append(refs, catalog.Ref{Path: item.Ref, Name: name})
	}
	return refs, nil
}

// ResolvePlaybackURL resolves the (possibly signed) playback URL of an object
func (c *Client) ResolvePlaybackURL(ctx context.Context, ref catalog.Ref) (string, error) {
	body, err := c.get(ctx, "/api/objects/url", url.Values{"ref": {ref.Path}})
	if err != nil {
		return "", err
	}

	var resp urlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.URL == "" {
		return "", fmt.Errorf("empty playback url for %s", ref.Path)
	}
	return resp.URL, nil
}

// ResolveMetadata reads the object's metadata
func (c *Client) ResolveMetadata(ctx context.Context, ref catalog.Ref) (catalog.Metadata, error) {
	body, err := c.get(ctx, "/api/objects/metadata", url.Values{"ref": {ref.Path}})
	if err != nil {
		return catalog.Metadata{}, err
	}

	var resp metadataResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return catalog.Metadata{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return catalog.Metadata{
		Title:        resp.CustomMetadata.Title,
		ThumbnailURL: resp.CustomMetadata.Thumbnail,
		SizeBytes:    resp.Size,
		CreatedAt:    resp.TimeCreated,
	}, nil
}

// BreakerState returns the current circuit breaker state
func (c *Client) BreakerState() gobreaker.State {
	return c.cb.State()
}

// get performs an authenticated GET through the circuit breaker
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.do(ctx, endpoint)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.log.Warn().Err(err).Str("path", path).Msg("request rejected by circuit breaker")
		return nil, fmt.Errorf("content store unavailable: %w", err)
	}
	return body, err
}

func (c *Client) do(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	// Send request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	// Read response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Check for specific HTTP status codes
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("authentication failed: %w", ErrPermission)
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode >= 400:
		var apiErr errorResponse
		_ = json.Unmarshal(body, &apiErr)
		return nil, &StatusError{Code: resp.StatusCode, Message: apiErr.Message}
	}

	return body, nil
}
