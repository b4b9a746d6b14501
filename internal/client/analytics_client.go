package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"

	"go.uber.org/zap"
)

// Default per-operation timeouts. Backtests deliberately have none:
// they are long-running simulations bounded only by the caller's
// context.
const (
	DefaultSuggestTimeout   = 5 * time.Second
	DefaultStockInfoTimeout = 15 * time.Second
	DefaultScreenTimeout    = 30 * time.Second
	DefaultHealthTimeout    = 5 * time.Second
)

// Timeouts holds the per-operation deadlines for an AnalyticsClient
type Timeouts struct {
	Suggest   time.Duration
	StockInfo time.Duration
	Screen    time.Duration
	Health    time.Duration
}

func (t Timeouts) withDefaults() Timeouts {
	if t.Suggest <= 0 {
		t.Suggest = DefaultSuggestTimeout
	}
	if t.StockInfo <= 0 {
		t.StockInfo = DefaultStockInfoTimeout
	}
	if t.Screen <= 0 {
		t.Screen = DefaultScreenTimeout
	}
	if t.Health <= 0 {
		t.Health = DefaultHealthTimeout
	}
	return t
}

// AnalyticsClient handles communication with the market analytics
// service. The underlying http.Client carries no global timeout;
// deadlines are applied per operation so that backtests can run as
// long as the service needs.
type AnalyticsClient struct {
	baseURL    string
	httpClient *http.Client
	timeouts   Timeouts
	logger     *zap.Logger
}

// NewAnalyticsClient creates a new analytics service client
func NewAnalyticsClient(baseURL string, timeouts Timeouts, logger *zap.Logger) *AnalyticsClient {
	return &AnalyticsClient{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeouts:   timeouts.withDefaults(),
		logger:     logger,
	}
}

// SuggestStocks fetches typeahead candidates for a partial query. The
// returned order is the service's ranking and is preserved.
func (c *AnalyticsClient) SuggestStocks(ctx context.Context, query string) ([]model.SuggestionCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Suggest)
	defer cancel()

	reqURL := fmt.Sprintf("%s/stock-suggestions?q=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Suggestion request failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp)
	}

	var candidates []model.SuggestionCandidate
	if err := json.NewDecoder(resp.Body).Decode(&candidates); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return candidates, nil
}

// GetStockInfo fetches the full detail record for a symbol. A missing
// symbol surfaces as an APIError with status 404.
func (c *AnalyticsClient) GetStockInfo(ctx context.Context, symbol string) (*model.StockInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.StockInfo)
	defer cancel()

	reqURL := fmt.Sprintf("%s/stock-info/%s", c.baseURL, url.PathEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to send request to analytics service", zap.Error(err))
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp)
	}

	var info model.StockInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		c.logger.Error("Failed to decode stock info response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &info, nil
}

// RunBacktest submits a single-instrument backtest on the legacy
// endpoint and waits for the simulation to finish
func (c *AnalyticsClient) RunBacktest(ctx context.Context, request model.SingleBacktestRequest) (*model.BacktestResult, error) {
	return c.postBacktest(ctx, "/backtest", request)
}

// RunPortfolioBacktest submits a multi-instrument backtest and waits
// for the simulation to finish
func (c *AnalyticsClient) RunPortfolioBacktest(ctx context.Context, request model.BacktestRequest) (*model.BacktestResult, error) {
	return c.postBacktest(ctx, "/backtest-portfolio", request)
}

func (c *AnalyticsClient) postBacktest(ctx context.Context, path string, payload interface{}) (*model.BacktestResult, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backtest request: %w", err)
	}

	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("Sending backtest request", zap.String("url", reqURL))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to send request to analytics service", zap.Error(err))
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp)
	}

	var result model.BacktestResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.logger.Error("Failed to decode backtest response", zap.Error(err))
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// ScreenStocks runs a universe screen with the enabled filters.
// Depending on the service version the body is either a bare array or
// wrapped in {"stocks": [...]}; both shapes are accepted by branching
// on the first byte of the payload.
func (c *AnalyticsClient) ScreenStocks(ctx context.Context, filter model.ScreenFilter) ([]model.ScreenedStock, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Screen)
	defer cancel()

	jsonData, err := json.Marshal(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal screen request: %w", err)
	}

	reqURL := c.baseURL + "/screen-stocks"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to send request to analytics service", zap.Error(err))
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var stocks []model.ScreenedStock
		if err := json.Unmarshal(trimmed, &stocks); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return stocks, nil
	}

	var wrapped struct {
		Stocks []model.ScreenedStock `json:"stocks"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return wrapped.Stocks, nil
}

// CheckHealth checks if the analytics service is reachable and healthy
func (c *AnalyticsClient) CheckHealth(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Health)
	defer cancel()

	reqURL := c.baseURL + "/health"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
