package travel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	DefaultBaseURL = "https://test.api.amadeus.com"

	tokenPath     = "/v1/security/oauth2/token"
	locationsPath = "/v1/reference-data/locations"
	offersPath    = "/v2/shopping/flight-offers"

	maxErrorBody = 64 * 1024
)

type Config struct {
	BaseURL   string
	APIKey    string
	APISecret string
	Timeout   time.Duration // default: 15s

	// Custom HTTP client for the token and API calls (for testing)
	HTTPClient *http.Client
}

// Client calls the Amadeus self-service APIs. Access tokens are fetched and
// refreshed with the OAuth2 client-credentials flow.
type Client struct {
	baseURL    string
	httpClient *http.Client
	configured bool
	logger     *zap.Logger
}

// NewClient builds an Amadeus client. Missing credentials are allowed:
// airport search then serves the fallback list and flight search fails
// with ErrNotConfigured.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: cfg.Timeout}
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.APIKey,
		ClientSecret: cfg.APISecret,
		TokenURL:     cfg.BaseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	httpClient := cc.Client(tokenCtx)
	httpClient.Timeout = cfg.Timeout

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
		configured: cfg.APIKey != "" && cfg.APISecret != "",
		logger:     logger.Named("travel"),
	}
}

// Configured reports whether credentials were supplied.
func (c *Client) Configured() bool { return c.configured }

// getJSON performs an authenticated GET and decodes a successful body into out.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	if !c.configured {
		return &UpstreamError{Err: ErrNotConfigured}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.amadeus+json, application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			return &UpstreamError{
				StatusCode: rerr.Response.StatusCode,
				Detail:     detailFromBody(rerr.Body),
				Err:        fmt.Errorf("token request failed: %w", rerr),
			}
		}
		return &UpstreamError{Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("amadeus call",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Detail:     detailFromBody(body),
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
