// Package oddsapi is the client for The Odds API v4, the pipeline's single
// upstream provider of lines and final scores.
package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/spreadline/internal/config"
)

// Client fetches odds and scores for one configured sport. Each call is one
// network round trip; callers treat an error as "zero records this run" and
// rely on the next scheduled run, never on in-call retries.
type Client struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	sport      string
	region     string
	daysFrom   int
	logger     *logrus.Logger
}

// NewClient creates a new Odds API client from configuration
func NewClient(cfg *config.OddsAPIConfig, logger *logrus.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	httpCfg.MaxRetries = cfg.MaxRetries
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}

	return &Client{
		httpClient: NewRateLimitedHTTPClient(httpCfg, logger),
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		sport:      cfg.Sport,
		region:     cfg.Region,
		daysFrom:   cfg.ScoresDaysFrom,
		logger:     logger,
	}, nil
}

// FetchOdds retrieves the current per-game market payloads for the
// configured sport. American odds, moneyline + spreads + totals.
func (c *Client) FetchOdds(ctx context.Context) ([]RawGame, error) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", c.region)
	params.Set("markets", MarketMoneyline+","+MarketSpreads+","+MarketTotals)
	params.Set("oddsFormat", "american")

	endpoint := fmt.Sprintf("%s/sports/%s/odds?%s", c.baseURL, c.sport, params.Encode())

	var games []RawGame
	if err := c.getJSON(ctx, "odds", endpoint, &games); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"sport": c.sport,
		"games": len(games),
	}).Info("Fetched odds from provider")

	return games, nil
}

// FetchScores retrieves recent game results for the configured sport within
// the configured recency window.
func (c *Client) FetchScores(ctx context.Context) ([]RawScore, error) {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("daysFrom", strconv.Itoa(c.daysFrom))

	endpoint := fmt.Sprintf("%s/sports/%s/scores?%s", c.baseURL, c.sport, params.Encode())

	var scores []RawScore
	if err := c.getJSON(ctx, "scores", endpoint, &scores); err != nil {
		return nil, err
	}

	c.logger.WithFields(logrus.Fields{
		"sport": c.sport,
		"games": len(scores),
	}).Info("Fetched scores from provider")

	return scores, nil
}

// getJSON performs one GET round trip and decodes the body. Non-2xx status,
// transport failure and malformed JSON all surface as ProviderError.
func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, out any) error {
	resp, err := c.httpClient.Get(ctx, rawURL)
	if err != nil {
		return NewProviderError(endpoint, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewProviderError(endpoint, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewProviderError(endpoint, ErrCodeRateLimitExceeded, "quota exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return NewProviderError(endpoint, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewProviderError(endpoint, ErrCodeInvalidData, "failed to parse response", err)
	}

	return nil
}
