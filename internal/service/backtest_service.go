package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunState is the lifecycle state of the most recent backtest run
type RunState string

const (
	StateIdle       RunState = "idle"
	StateValidating RunState = "validating"
	StatePending    RunState = "pending"
	StateSucceeded  RunState = "succeeded"
	StateFailed     RunState = "failed"
	StateCancelled  RunState = "cancelled"
)

// BacktestClient is the transport surface the orchestrator depends on
type BacktestClient interface {
	RunBacktest(ctx context.Context, request model.SingleBacktestRequest) (*model.BacktestResult, error)
	RunPortfolioBacktest(ctx context.Context, request model.BacktestRequest) (*model.BacktestResult, error)
}

// RunInput carries the raw submission of one portfolio backtest. The
// strategy fields arrive as raw strings; the parameter builder is the
// single authority that parses and validates them.
type RunInput struct {
	Entries            []model.PortfolioEntry
	StrategyKind       model.StrategyKind
	RawStrategyFields  map[string]string
	Dates              model.DateRange
	InitialCash        float64
	Rebalance          bool
	RebalanceFrequency model.RebalanceFrequency
}

// SingleRunInput carries the raw submission of a single-instrument
// backtest on the legacy endpoint, which only supports RSI
type SingleRunInput struct {
	Ticker            string
	RawStrategyFields map[string]string
	Dates             model.DateRange
	InitialCash       float64
}

// BacktestService composes validation, request assembly and the
// transport call into one request/response cycle and tracks its
// lifecycle state for the presentation layer
type BacktestService struct {
	client BacktestClient
	logger *zap.Logger

	mu          sync.Mutex
	state       RunState
	lastFailure string
}

// NewBacktestService creates a new backtest orchestration service
func NewBacktestService(client BacktestClient, logger *zap.Logger) *BacktestService {
	return &BacktestService{
		client: client,
		logger: logger,
		state:  StateIdle,
	}
}

// State returns the current lifecycle state. The accessor is safe to
// call from any goroutine.
func (s *BacktestService) State() RunState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastFailure returns the reason of the most recent failed or
// cancelled run, empty while a run is in progress or succeeded
func (s *BacktestService) LastFailure() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFailure
}

// Run validates the submission, assembles the portfolio backtest
// request and waits for the result. No client-side timeout is applied;
// the simulation runs as long as the service needs unless ctx is
// cancelled, in which case the run ends in the cancelled state.
//
// Runs must not overlap: callers are expected to disable resubmission
// while a run is pending. The service does not defend against
// concurrent Run calls.
func (s *BacktestService) Run(ctx context.Context, input RunInput) (*model.BacktestResult, error) {
	runID := uuid.New().String()
	s.setState(StateValidating)

	portfolio, err := validator.ValidatePortfolio(input.Entries)
	if err != nil {
		return nil, s.rejected(runID, err)
	}

	params, err := validator.BuildStrategyParameters(input.StrategyKind, input.RawStrategyFields)
	if err != nil {
		return nil, s.rejected(runID, err)
	}

	if err := validateDates(input.Dates); err != nil {
		return nil, s.rejected(runID, err)
	}

	cash, err := normalizeCash(input.InitialCash)
	if err != nil {
		return nil, s.rejected(runID, err)
	}

	frequency := input.RebalanceFrequency
	if frequency == "" {
		frequency = model.RebalanceMonthly
	}

	request := model.BacktestRequest{
		Portfolio:          portfolio,
		Dates:              input.Dates,
		InitialCash:        cash,
		Rebalance:          input.Rebalance,
		RebalanceFrequency: frequency,
		Strategy:           params,
	}

	s.setState(StatePending)
	s.logger.Info("Running portfolio backtest",
		zap.String("run_id", runID),
		zap.Strings("tickers", portfolio.Tickers()),
		zap.String("strategy", string(params.Kind())))

	result, err := s.client.RunPortfolioBacktest(ctx, request)
	if err != nil {
		return nil, s.finishError(ctx, runID, err)
	}

	s.setState(StateSucceeded)
	s.logger.Info("Backtest succeeded",
		zap.String("run_id", runID),
		zap.Float64("total_return_pct", result.TotalReturnPct),
		zap.Int("total_trades", result.TotalTrades))
	return result, nil
}

// RunSingle drives the legacy single-instrument endpoint through the
// same lifecycle as Run
func (s *BacktestService) RunSingle(ctx context.Context, input SingleRunInput) (*model.BacktestResult, error) {
	runID := uuid.New().String()
	s.setState(StateValidating)

	ticker := model.NormalizeTicker(input.Ticker)
	if ticker == "" || len(ticker) > model.MaxTickerLength {
		err := &validator.PortfolioValidationError{Code: validator.CodeInvalidTicker, Ticker: ticker}
		return nil, s.rejected(runID, err)
	}

	params, err := validator.BuildStrategyParameters(model.StrategyRSI, input.RawStrategyFields)
	if err != nil {
		return nil, s.rejected(runID, err)
	}

	if err := validateDates(input.Dates); err != nil {
		return nil, s.rejected(runID, err)
	}

	cash, err := normalizeCash(input.InitialCash)
	if err != nil {
		return nil, s.rejected(runID, err)
	}

	request := model.SingleBacktestRequest{
		Ticker:      ticker,
		Dates:       input.Dates,
		InitialCash: cash,
		Params:      params.(model.RSIParameters),
	}

	s.setState(StatePending)
	s.logger.Info("Running backtest",
		zap.String("run_id", runID),
		zap.String("ticker", ticker))

	result, err := s.client.RunBacktest(ctx, request)
	if err != nil {
		return nil, s.finishError(ctx, runID, err)
	}

	s.setState(StateSucceeded)
	s.logger.Info("Backtest succeeded",
		zap.String("run_id", runID),
		zap.Float64("total_return_pct", result.TotalReturnPct),
		zap.Int("total_trades", result.TotalTrades))
	return result, nil
}

// rejected records a validation failure; no network call was made
func (s *BacktestService) rejected(runID string, cause error) error {
	failure := newValidationFailure(cause)
	s.setTerminal(StateFailed, failure.Reason)
	s.logger.Warn("Backtest rejected",
		zap.String("run_id", runID),
		zap.String("reason", failure.Reason))
	return failure
}

// finishError records the terminal state of a run whose transport call
// failed. Cancellation is kept distinct from failure.
func (s *BacktestService) finishError(ctx context.Context, runID string, err error) error {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		s.setTerminal(StateCancelled, CancelledMessage)
		s.logger.Info("Backtest cancelled", zap.String("run_id", runID))
		return &Failure{Kind: FailureCancelled, Reason: CancelledMessage, Cause: err}
	}

	failure := mapTransportError(err)
	s.setTerminal(StateFailed, failure.Reason)
	s.logger.Error("Backtest failed",
		zap.String("run_id", runID),
		zap.String("reason", failure.Reason),
		zap.Error(err))
	return failure
}

func (s *BacktestService) setState(state RunState) {
	s.mu.Lock()
	s.state = state
	if state == StateValidating {
		s.lastFailure = ""
	}
	s.mu.Unlock()
}

func (s *BacktestService) setTerminal(state RunState, reason string) {
	s.mu.Lock()
	s.state = state
	s.lastFailure = reason
	s.mu.Unlock()
}

func validateDates(dates model.DateRange) error {
	if dates.Start.IsZero() || dates.End.IsZero() {
		return errors.New("start and end dates are required")
	}
	if dates.End.Before(dates.Start) {
		return errors.New("end date must be after start date")
	}
	if dates.End.After(endOfToday()) {
		return errors.New("end date cannot be in the future")
	}
	return nil
}

func endOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
}

func normalizeCash(cash float64) (float64, error) {
	if cash == 0 {
		return model.DefaultInitialCash, nil
	}
	if cash < model.MinInitialCash {
		return 0, fmt.Errorf("initial cash must be at least %.0f", model.MinInitialCash)
	}
	return cash, nil
}
