package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/client"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubStockClient answers lookups from canned data
type stubStockClient struct {
	suggestCalls int
	infoCalls    int
	lastQuery    string
	lastSymbol   string
	candidates   []model.SuggestionCandidate
	info         *model.StockInfo
	err          error
}

func (c *stubStockClient) SuggestStocks(_ context.Context, query string) ([]model.SuggestionCandidate, error) {
	c.suggestCalls++
	c.lastQuery = query
	return c.candidates, c.err
}

func (c *stubStockClient) GetStockInfo(_ context.Context, symbol string) (*model.StockInfo, error) {
	c.infoCalls++
	c.lastSymbol = symbol
	return c.info, c.err
}

func TestStockService_GetStockInfo(t *testing.T) {
	stub := &stubStockClient{
		info: &model.StockInfo{Symbol: "AAPL", CompanyName: "Apple Inc.", CurrentPrice: 210.5},
	}
	svc := NewStockService(stub, zap.NewNop())

	info, err := svc.GetStockInfo(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", info.Symbol)

	// The lookup goes out with the normalized symbol
	assert.Equal(t, "AAPL", stub.lastSymbol)
}

func TestStockService_GetStockInfoRejectsBlankSymbol(t *testing.T) {
	stub := &stubStockClient{}
	svc := NewStockService(stub, zap.NewNop())

	_, err := svc.GetStockInfo(context.Background(), "   ")

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, FailureValidation, failure.Kind)
	assert.Equal(t, 0, stub.infoCalls)
}

func TestStockService_GetStockInfoUnknownSymbol(t *testing.T) {
	stub := &stubStockClient{err: &client.APIError{StatusCode: 404}}
	svc := NewStockService(stub, zap.NewNop())

	_, err := svc.GetStockInfo(context.Background(), "zzzz")

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, FailureServer, failure.Kind)
	assert.Equal(t, 404, failure.Status)
	assert.Equal(t, "Stock symbol 'ZZZZ' not found", failure.Reason)
}

func TestStockService_GetStockInfoKeepsServerDetail(t *testing.T) {
	stub := &stubStockClient{
		err: &client.APIError{StatusCode: 404, Detail: "Stock symbol 'ZZZZ' not found"},
	}
	svc := NewStockService(stub, zap.NewNop())

	_, err := svc.GetStockInfo(context.Background(), "ZZZZ")

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, "Stock symbol 'ZZZZ' not found", failure.Reason)
}

func TestStockService_GetStockInfoTransportError(t *testing.T) {
	stub := &stubStockClient{err: fmt.Errorf("dial tcp: connection refused")}
	svc := NewStockService(stub, zap.NewNop())

	_, err := svc.GetStockInfo(context.Background(), "AAPL")

	var failure *Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, FailureTransport, failure.Kind)
	assert.Equal(t, GenericConnectFailure, failure.Reason)
}

func TestStockService_Suggest(t *testing.T) {
	stub := &stubStockClient{
		candidates: []model.SuggestionCandidate{
			{Symbol: "AAPL", CompanyName: "Apple Inc.", MatchKind: model.MatchKindSymbol},
			{Symbol: "APP", CompanyName: "AppLovin Corp.", MatchKind: model.MatchKindCompany},
		},
	}
	svc := NewStockService(stub, zap.NewNop())

	candidates := svc.Suggest(context.Background(), "ap")
	require.Len(t, candidates, 2)
	assert.Equal(t, "AAPL", candidates[0].Symbol)
	assert.Equal(t, "ap", stub.lastQuery)
}

func TestStockService_SuggestEmptyQuery(t *testing.T) {
	stub := &stubStockClient{}
	svc := NewStockService(stub, zap.NewNop())

	candidates := svc.Suggest(context.Background(), "   ")
	assert.Empty(t, candidates)
	assert.Equal(t, 0, stub.suggestCalls)
}

func TestStockService_SuggestSwallowsErrors(t *testing.T) {
	stub := &stubStockClient{err: fmt.Errorf("upstream exploded")}
	svc := NewStockService(stub, zap.NewNop())

	candidates := svc.Suggest(context.Background(), "aa")
	assert.Empty(t, candidates)
}
