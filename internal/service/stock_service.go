package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/client"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"

	"go.uber.org/zap"
)

// StockClient is the transport surface the stock service depends on
type StockClient interface {
	SuggestStocks(ctx context.Context, query string) ([]model.SuggestionCandidate, error)
	GetStockInfo(ctx context.Context, symbol string) (*model.StockInfo, error)
}

// StockService handles symbol detail lookups and stateless typeahead
// suggestions
type StockService struct {
	client StockClient
	logger *zap.Logger
}

// NewStockService creates a new stock service
func NewStockService(client StockClient, logger *zap.Logger) *StockService {
	return &StockService{client: client, logger: logger}
}

// GetStockInfo fetches the full detail record for a symbol. An unknown
// symbol comes back as a server failure whose reason names the symbol.
func (s *StockService) GetStockInfo(ctx context.Context, symbol string) (*model.StockInfo, error) {
	normalized := model.NormalizeTicker(symbol)
	if normalized == "" {
		return nil, newValidationFailure(errors.New("symbol is required"))
	}

	info, err := s.client.GetStockInfo(ctx, normalized)
	if err != nil {
		failure := mapTransportError(err)
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.NotFound() && apiErr.Detail == "" {
			failure.Reason = fmt.Sprintf("Stock symbol '%s' not found", normalized)
		}
		s.logger.Warn("Stock info lookup failed",
			zap.String("symbol", normalized),
			zap.String("reason", failure.Reason))
		return nil, failure
	}

	return info, nil
}

// Suggest returns typeahead candidates for a query. Every failure
// degrades to an empty list; suggestions are an enhancement to typing
// and never surface as an error.
func (s *StockService) Suggest(ctx context.Context, query string) []model.SuggestionCandidate {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	candidates, err := s.client.SuggestStocks(ctx, query)
	if err != nil {
		s.logger.Debug("Suggestion lookup failed", zap.String("query", query), zap.Error(err))
		return nil
	}
	return candidates
}
