// Package openexchangerates fetches conversion rates from openexchangerates.org.
package openexchangerates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	portssvc "github.com/iswift/iswift_backend/internal/core/ports/services"
	"github.com/iswift/iswift_backend/internal/platform/config"
	"github.com/iswift/iswift_backend/internal/platform/resilience"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://openexchangerates.org/api"

var tracer = otel.Tracer("openexchangerates")

// Client implements the RateProvider port.
type Client struct {
	httpClient *http.Client
	baseURL    string
	appID      string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

var _ portssvc.RateProvider = (*Client)(nil)

// NewClient creates a new Client. An empty baseURL uses DefaultBaseURL.
func NewClient(httpClient *http.Client, baseURL, appID string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		appID:      appID,
		cb:         cb,
		cfg:        cfg,
	}
}

// NewFromConfig builds a client with its own timeout-bound HTTP client and
// circuit breaker. It returns nil when no app ID is configured.
func NewFromConfig(cfg *config.Config) *Client {
	if cfg.OpenExchangeAppID == "" {
		return nil
	}
	return NewClient(
		&http.Client{Timeout: cfg.HTTPClientTimeout},
		cfg.OpenExchangeBaseURL,
		cfg.OpenExchangeAppID,
		resilience.NewCircuitBreaker("openexchangerates"),
		resilience.Config{MaxRetries: cfg.RatesMaxRetries, InitialBackoff: cfg.RatesInitialBackoff},
	)
}

type latestResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

type errorResponse struct {
	Status      int    `json:"status"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// LatestRates returns the rates from base to each of symbols. Symbols the API
// does not quote are absent from the result.
func (c *Client) LatestRates(ctx context.Context, base string, symbols []string) (map[string]decimal.Decimal, error) {
	ctx, span := tracer.Start(ctx, "OpenExchangeRates.LatestRates")
	defer span.End()
	span.SetAttributes(
		attribute.String("rates.base", base),
		attribute.Int("rates.symbols", len(symbols)),
	)

	query := url.Values{}
	query.Set("app_id", c.appID)
	query.Set("base", base)
	query.Set("symbols", strings.Join(symbols, ","))
	endpoint := fmt.Sprintf("%s/latest.json?%s", c.baseURL, query.Encode())

	result, err := c.cb.Execute(func() (any, error) {
		var body latestResponse
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return resilience.Permanent(err)
			}
			req.Header.Set("Accept", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				var apiErr errorResponse
				_ = json.NewDecoder(resp.Body).Decode(&apiErr)
				err := fmt.Errorf("openexchangerates returned status %d: %s %s", resp.StatusCode, apiErr.Message, apiErr.Description)
				if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
					return resilience.Permanent(err)
				}
				return err
			}

			body = latestResponse{}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return resilience.Permanent(fmt.Errorf("failed to decode rates: %w", err))
			}
			return nil
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return body.Rates, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("fetch rates for %s: %w", base, err)
	}

	rates := result.(map[string]decimal.Decimal)
	if rates == nil {
		rates = map[string]decimal.Decimal{}
	}
	return rates, nil
}
