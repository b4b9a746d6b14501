package handler

import (
	"net/http"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScreenerHandler handles stock screening HTTP requests
type ScreenerHandler struct {
	screenerService *service.ScreenerService
	logger          *zap.Logger
}

// NewScreenerHandler creates a new screener handler
func NewScreenerHandler(screenerService *service.ScreenerService, logger *zap.Logger) *ScreenerHandler {
	return &ScreenerHandler{
		screenerService: screenerService,
		logger:          logger,
	}
}

// Screen handles running a universe screen. Whichever shape the
// upstream answered with, the response here is always wrapped in
// {"stocks": [...]}.
func (h *ScreenerHandler) Screen(c *gin.Context) {
	var filter model.ScreenFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stocks, err := h.screenerService.Screen(c.Request.Context(), filter)
	if err != nil {
		writeFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stocks": stocks})
}
