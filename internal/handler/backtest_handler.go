package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/insight"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/middleware"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BacktestHandler handles backtest HTTP requests
type BacktestHandler struct {
	backtestService *service.BacktestService
	logger          *zap.Logger
}

// NewBacktestHandler creates a new backtest handler
func NewBacktestHandler(backtestService *service.BacktestService, logger *zap.Logger) *BacktestHandler {
	return &BacktestHandler{
		backtestService: backtestService,
		logger:          logger,
	}
}

// portfolioEntryRequest carries one raw holding; all semantic checks
// belong to the portfolio validator
type portfolioEntryRequest struct {
	Ticker     string  `json:"ticker"`
	Allocation float64 `json:"allocation"`
}

// backtestRequest is the portfolio backtest submission. Strategy
// fields arrive as raw strings so the parameter builder stays the
// single validation authority.
type backtestRequest struct {
	Stocks             []portfolioEntryRequest `json:"stocks"`
	StartDate          string                  `json:"start_date" binding:"required"`
	EndDate            string                  `json:"end_date" binding:"required"`
	Strategy           string                  `json:"strategy" binding:"required"`
	StrategyFields     map[string]string       `json:"strategy_fields"`
	InitialCash        float64                 `json:"initial_cash"`
	Rebalance          bool                    `json:"rebalance"`
	RebalanceFrequency string                  `json:"rebalance_frequency" binding:"omitempty,oneof=monthly quarterly yearly"`
}

// singleBacktestRequest is the legacy single-instrument submission
type singleBacktestRequest struct {
	Ticker         string            `json:"ticker" binding:"required"`
	StartDate      string            `json:"start_date" binding:"required"`
	EndDate        string            `json:"end_date" binding:"required"`
	StrategyFields map[string]string `json:"strategy_fields"`
	InitialCash    float64           `json:"initial_cash"`
}

// RunPortfolioBacktest handles running a portfolio backtest and
// summarizing its result
func (h *BacktestHandler) RunPortfolioBacktest(c *gin.Context) {
	var request backtestRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dates, err := parseDateRange(request.StartDate, request.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entries := make([]model.PortfolioEntry, 0, len(request.Stocks))
	for _, stock := range request.Stocks {
		entries = append(entries, model.PortfolioEntry{Ticker: stock.Ticker, Allocation: stock.Allocation})
	}

	input := service.RunInput{
		Entries:            entries,
		StrategyKind:       model.StrategyKind(request.Strategy),
		RawStrategyFields:  request.StrategyFields,
		Dates:              dates,
		InitialCash:        request.InitialCash,
		Rebalance:          request.Rebalance,
		RebalanceFrequency: model.RebalanceFrequency(request.RebalanceFrequency),
	}

	result, err := h.backtestService.Run(c.Request.Context(), input)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":   middleware.RequestID(c),
		"result":   result,
		"insights": insight.Summarize(*result),
	})
}

// RunSingleBacktest handles running a backtest for one instrument on
// the legacy endpoint
func (h *BacktestHandler) RunSingleBacktest(c *gin.Context) {
	var request singleBacktestRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dates, err := parseDateRange(request.StartDate, request.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.SingleRunInput{
		Ticker:            request.Ticker,
		RawStrategyFields: request.StrategyFields,
		Dates:             dates,
		InitialCash:       request.InitialCash,
	}

	result, err := h.backtestService.RunSingle(c.Request.Context(), input)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"run_id":   middleware.RequestID(c),
		"result":   result,
		"insights": insight.Summarize(*result),
	})
}

// GetState exposes the orchestrator's lifecycle state so the
// presentation layer can disable resubmission while a run is pending
func (h *BacktestHandler) GetState(c *gin.Context) {
	response := gin.H{"state": h.backtestService.State()}
	if reason := h.backtestService.LastFailure(); reason != "" {
		response["last_failure"] = reason
	}
	c.JSON(http.StatusOK, response)
}

func parseDateRange(start, end string) (model.DateRange, error) {
	startDate, err := time.Parse(model.DateLayout, start)
	if err != nil {
		return model.DateRange{}, errors.New("start_date must be in YYYY-MM-DD format")
	}
	endDate, err := time.Parse(model.DateLayout, end)
	if err != nil {
		return model.DateRange{}, errors.New("end_date must be in YYYY-MM-DD format")
	}
	return model.DateRange{Start: startDate, End: endDate}, nil
}
