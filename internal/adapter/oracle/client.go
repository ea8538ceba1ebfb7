// Package oracle prices withdrawal assets through a CoinGecko-style HTTP API.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/iho/mintledger/internal/domain"
	"github.com/iho/mintledger/internal/infrastructure/metrics"
)

// coinIDs maps tickers to the upstream coin ids.
var coinIDs = map[string]string{
	"BTC": "bitcoin",
	"ETH": "ethereum",
}

// PriceCache is the read-through cache in front of the upstream API.
type PriceCache interface {
	Get(ctx context.Context, asset string) (decimal.Decimal, bool, error)
	Set(ctx context.Context, asset string, price decimal.Decimal) error
}

// Config for Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Cache      PriceCache
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
}

// Client implements usecase.PriceOracle. Lookups go cache first, then to the
// upstream API behind a circuit breaker with a short backoff retry.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cache      PriceCache
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	maxRetries uint64
	retryDelay time.Duration
}

// NewClient creates a new Client.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cb:         newCircuitBreaker("price-oracle"),
		cache:      cfg.Cache,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger.With().Str("component", "price_oracle").Logger(),
		maxRetries: 2,
		retryDelay: 100 * time.Millisecond,
	}
}

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
	})
}

// Price returns the USD price of asset. Every failure is reported as
// domain.ErrPriceUnavailable.
func (c *Client) Price(ctx context.Context, asset string) (decimal.Decimal, error) {
	asset = strings.ToUpper(asset)
	coinID, ok := coinIDs[asset]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: unsupported asset %q", domain.ErrPriceUnavailable, asset)
	}

	if c.cache != nil {
		price, hit, err := c.cache.Get(ctx, asset)
		if err != nil {
			c.logger.Warn().Err(err).Str("asset", asset).Msg("price cache read failed")
		} else if hit {
			c.observe("cache")
			return price, nil
		}
	}

	result, err := c.cb.Execute(func() (interface{}, error) {
		var price decimal.Decimal
		op := func() error {
			p, err := c.fetch(ctx, coinID)
			if err != nil {
				return err
			}
			price = p
			return nil
		}

		b := backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), c.maxRetries), ctx)
		if err := backoff.Retry(op, b); err != nil {
			return nil, err
		}
		return price, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.observe("breaker_open")
		} else {
			c.observe("error")
		}
		return decimal.Zero, fmt.Errorf("%w: %s: %w", domain.ErrPriceUnavailable, asset, err)
	}

	price := result.(decimal.Decimal)
	c.observe("upstream")

	if c.cache != nil {
		if err := c.cache.Set(ctx, asset, price); err != nil {
			c.logger.Warn().Err(err).Str("asset", asset).Msg("price cache write failed")
		}
	}

	return price, nil
}

func (c *Client) fetch(ctx context.Context, coinID string) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("ids", coinID)
	q.Set("vs_currencies", "usd")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return decimal.Zero, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return decimal.Zero, fmt.Errorf("price API returned status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return decimal.Zero, backoff.Permanent(fmt.Errorf("price API returned status %d", resp.StatusCode))
	}

	var body map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return decimal.Zero, backoff.Permanent(fmt.Errorf("decode price response: %w", err))
	}

	price, ok := body[coinID]["usd"]
	if !ok || !price.IsPositive() {
		return decimal.Zero, backoff.Permanent(fmt.Errorf("no usd price for %s", coinID))
	}

	return price, nil
}

func (c *Client) observe(source string) {
	if c.metrics != nil {
		c.metrics.OracleRequests.WithLabelValues(source).Inc()
	}
}
