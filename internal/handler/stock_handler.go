package handler

import (
	"net/http"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StockHandler handles stock lookup HTTP requests
type StockHandler struct {
	stockService *service.StockService
	logger       *zap.Logger
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *service.StockService, logger *zap.Logger) *StockHandler {
	return &StockHandler{
		stockService: stockService,
		logger:       logger,
	}
}

// GetSuggestions handles one-shot typeahead lookups. The response is
// always a 200 with a candidate array; lookup failures degrade to an
// empty array.
func (h *StockHandler) GetSuggestions(c *gin.Context) {
	candidates := h.stockService.Suggest(c.Request.Context(), c.Query("q"))
	if candidates == nil {
		candidates = []model.SuggestionCandidate{}
	}
	c.JSON(http.StatusOK, candidates)
}

// GetStockInfo handles retrieving the detail record for a symbol
func (h *StockHandler) GetStockInfo(c *gin.Context) {
	info, err := h.stockService.GetStockInfo(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		writeFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
