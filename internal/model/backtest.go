package model

import (
	"encoding/json"
	"time"
)

// DateLayout is the wire format for all dates exchanged with the
// analytics service
const DateLayout = "2006-01-02"

// Starting-capital bounds. The default matches the service's own when
// the caller leaves the field unset.
const (
	MinInitialCash     = 1000.0
	DefaultInitialCash = 100000.0
)

// DateRange is an inclusive backtest window with day precision
type DateRange struct {
	Start time.Time
	End   time.Time
}

// RebalanceFrequency controls how often a rebalancing portfolio is
// brought back to its target allocations
type RebalanceFrequency string

const (
	RebalanceMonthly   RebalanceFrequency = "monthly"
	RebalanceQuarterly RebalanceFrequency = "quarterly"
	RebalanceYearly    RebalanceFrequency = "yearly"
)

// BacktestRequest represents one portfolio backtest submission. It is
// assembled from already-validated inputs and treated as immutable for
// the lifetime of the request.
type BacktestRequest struct {
	Portfolio          Portfolio
	Dates              DateRange
	InitialCash        float64
	Rebalance          bool
	RebalanceFrequency RebalanceFrequency
	Strategy           StrategyParameters
}

// MarshalJSON flattens the strategy fields into the top level of the
// request body, which is the shape the service expects
func (r BacktestRequest) MarshalJSON() ([]byte, error) {
	body := map[string]interface{}{
		"stocks":              r.Portfolio,
		"start_date":          r.Dates.Start.Format(DateLayout),
		"end_date":            r.Dates.End.Format(DateLayout),
		"initial_cash":        r.InitialCash,
		"rebalance":           r.Rebalance,
		"rebalance_frequency": string(r.RebalanceFrequency),
	}
	for k, v := range r.Strategy.WireFields() {
		body[k] = v
	}
	return json.Marshal(body)
}

// SingleBacktestRequest represents a backtest of one instrument on the
// legacy single-symbol endpoint, which only supports the RSI strategy
type SingleBacktestRequest struct {
	Ticker      string
	Dates       DateRange
	InitialCash float64
	Params      RSIParameters
}

// MarshalJSON produces the flat single-symbol request body
func (r SingleBacktestRequest) MarshalJSON() ([]byte, error) {
	body := map[string]interface{}{
		"ticker":       r.Ticker,
		"start_date":   r.Dates.Start.Format(DateLayout),
		"end_date":     r.Dates.End.Format(DateLayout),
		"initial_cash": r.InitialCash,
	}
	for k, v := range r.Params.WireFields() {
		body[k] = v
	}
	return json.Marshal(body)
}

// BacktestResult represents the statistics record returned by the
// service. The per-stock slices are only populated by the portfolio
// endpoint.
type BacktestResult struct {
	FinalValue           float64             `json:"final_value"`
	InitialValue         float64             `json:"initial_value"`
	TotalReturn          float64             `json:"total_return"`
	TotalReturnPct       float64             `json:"total_return_pct"`
	TotalTrades          int                 `json:"total_trades"`
	WinningTrades        int                 `json:"winning_trades"`
	LosingTrades         int                 `json:"losing_trades"`
	WinRate              float64             `json:"win_rate"`
	MaxDrawdown          float64             `json:"max_drawdown"`
	StockPerformances    []StockPerformance  `json:"stock_performances,omitempty"`
	PortfolioComposition []PortfolioPosition `json:"portfolio_composition,omitempty"`
}

// StockPerformance represents one instrument's trade statistics within
// a portfolio backtest
type StockPerformance struct {
	Ticker        string  `json:"ticker"`
	Trades        int     `json:"trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	Allocation    float64 `json:"allocation"`
}

// PortfolioPosition represents one instrument's final position after a
// portfolio backtest
type PortfolioPosition struct {
	Ticker           string  `json:"ticker"`
	PositionSize     int     `json:"position_size"`
	PositionValue    float64 `json:"position_value"`
	TargetAllocation float64 `json:"target_allocation"`
	ActualAllocation float64 `json:"actual_allocation"`
}
