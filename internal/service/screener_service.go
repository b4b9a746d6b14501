package service

import (
	"context"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"

	"go.uber.org/zap"
)

// ScreenerClient is the transport surface the screener service depends on
type ScreenerClient interface {
	ScreenStocks(ctx context.Context, filter model.ScreenFilter) ([]model.ScreenedStock, error)
}

// ScreenerService runs stock-universe screens. The screening itself
// executes remotely; this side only carries the enabled filters over
// and normalizes the result list.
type ScreenerService struct {
	client ScreenerClient
	logger *zap.Logger
}

// NewScreenerService creates a new screener service
func NewScreenerService(client ScreenerClient, logger *zap.Logger) *ScreenerService {
	return &ScreenerService{client: client, logger: logger}
}

// Screen submits the filter set and returns the matching stocks
func (s *ScreenerService) Screen(ctx context.Context, filter model.ScreenFilter) ([]model.ScreenedStock, error) {
	stocks, err := s.client.ScreenStocks(ctx, filter)
	if err != nil {
		failure := mapTransportError(err)
		s.logger.Warn("Screen failed", zap.String("reason", failure.Reason), zap.Error(err))
		return nil, failure
	}

	if stocks == nil {
		stocks = []model.ScreenedStock{}
	}
	return stocks, nil
}
