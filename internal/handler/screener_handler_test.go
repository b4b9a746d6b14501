package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/client"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubScreenerClient stands in for the analytics transport
type stubScreenerClient struct {
	lastFilter model.ScreenFilter
	stocks     []model.ScreenedStock
	err        error
}

func (c *stubScreenerClient) ScreenStocks(_ context.Context, filter model.ScreenFilter) ([]model.ScreenedStock, error) {
	c.lastFilter = filter
	return c.stocks, c.err
}

func newScreenerRouter(upstream *stubScreenerClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewScreenerService(upstream, zap.NewNop())
	h := NewScreenerHandler(svc, zap.NewNop())

	router := gin.New()
	router.POST("/api/v1/screener", h.Screen)
	return router
}

func TestScreen(t *testing.T) {
	stub := &stubScreenerClient{
		stocks: []model.ScreenedStock{
			{Symbol: "AAPL", Price: 210.5, RSI: 28.4},
		},
	}
	router := newScreenerRouter(stub)

	w := performRequest(router, http.MethodPost, "/api/v1/screener", `{"max_rsi": 30, "min_price": 50}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Stocks []model.ScreenedStock `json:"stocks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Stocks, 1)
	assert.Equal(t, "AAPL", resp.Stocks[0].Symbol)

	require.NotNil(t, stub.lastFilter.MaxRSI)
	assert.Equal(t, 30.0, *stub.lastFilter.MaxRSI)
	assert.Nil(t, stub.lastFilter.MinVolume)
}

func TestScreen_EmptyResult(t *testing.T) {
	router := newScreenerRouter(&stubScreenerClient{})

	w := performRequest(router, http.MethodPost, "/api/v1/screener", `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"stocks": []}`, w.Body.String())
}

func TestScreen_MalformedBody(t *testing.T) {
	router := newScreenerRouter(&stubScreenerClient{})

	w := performRequest(router, http.MethodPost, "/api/v1/screener", `{"max_rsi": `)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScreen_UpstreamError(t *testing.T) {
	router := newScreenerRouter(&stubScreenerClient{
		err: &client.APIError{StatusCode: 500, Detail: "screening engine unavailable"},
	})

	w := performRequest(router, http.MethodPost, "/api/v1/screener", `{}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "screening engine unavailable", resp["error"])
}
