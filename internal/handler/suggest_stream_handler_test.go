package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/suggest"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// fixedFetcher answers every query with the same candidates
type fixedFetcher struct {
	candidates []model.SuggestionCandidate
}

func (f *fixedFetcher) SuggestStocks(_ context.Context, _ string) ([]model.SuggestionCandidate, error) {
	return f.candidates, nil
}

func newStreamServer(t *testing.T, fetcher suggest.SuggestionFetcher) (*httptest.Server, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	h := NewSuggestStreamHandler(fetcher, suggest.Options{
		Debounce:  20 * time.Millisecond,
		BlurGrace: 30 * time.Millisecond,
	}, zap.NewNop())

	router := gin.New()
	router.GET("/api/v1/stocks/suggest-stream", h.Stream)

	server := httptest.NewServer(router)
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/stocks/suggest-stream"
	return server, wsURL
}

func writeFrame(t *testing.T, ctx context.Context, conn *websocket.Conn, frame string) {
	t.Helper()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte(frame)))
}

// readFrameOfType skips unrelated frames until the wanted type arrives
func readFrameOfType(t *testing.T, ctx context.Context, conn *websocket.Conn, wantType string) map[string]interface{} {
	t.Helper()
	for i := 0; i < 10; i++ {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err)

		var frame map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &frame))
		if frame["type"] == wantType {
			return frame
		}
	}
	t.Fatalf("no %q frame arrived", wantType)
	return nil
}

func TestSuggestStream_QueryAndSelect(t *testing.T) {
	fetcher := &fixedFetcher{
		candidates: []model.SuggestionCandidate{
			{Symbol: "AAPL", CompanyName: "Apple Inc.", MatchKind: model.MatchKindSymbol},
			{Symbol: "APP", CompanyName: "AppLovin Corp.", MatchKind: model.MatchKindCompany},
		},
	}
	server, wsURL := newStreamServer(t, fetcher)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	writeFrame(t, ctx, conn, `{"type": "query", "text": "app"}`)

	frame := readFrameOfType(t, ctx, conn, "suggestions")
	assert.Equal(t, true, frame["visible"])
	candidates, ok := frame["candidates"].([]interface{})
	require.True(t, ok)
	require.Len(t, candidates, 2)
	first := candidates[0].(map[string]interface{})
	assert.Equal(t, "AAPL", first["symbol"])
	assert.Equal(t, "symbol", first["match_type"])

	writeFrame(t, ctx, conn, `{"type": "select", "index": 0}`)

	selected := readFrameOfType(t, ctx, conn, "selected")
	assert.Equal(t, "AAPL - Apple Inc.", selected["text"])
}

func TestSuggestStream_BlurHidesPanel(t *testing.T) {
	fetcher := &fixedFetcher{
		candidates: []model.SuggestionCandidate{
			{Symbol: "AAPL", CompanyName: "Apple Inc.", MatchKind: model.MatchKindSymbol},
		},
	}
	server, wsURL := newStreamServer(t, fetcher)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	writeFrame(t, ctx, conn, `{"type": "query", "text": "aa"}`)
	frame := readFrameOfType(t, ctx, conn, "suggestions")
	require.Equal(t, true, frame["visible"])

	writeFrame(t, ctx, conn, `{"type": "blur"}`)

	// After the grace period a hidden snapshot arrives; the candidates
	// are kept so a refocus can restore them
	frame = readFrameOfType(t, ctx, conn, "suggestions")
	assert.Equal(t, false, frame["visible"])
	assert.Len(t, frame["candidates"], 1)

	writeFrame(t, ctx, conn, `{"type": "focus"}`)
	frame = readFrameOfType(t, ctx, conn, "suggestions")
	assert.Equal(t, true, frame["visible"])
}

func TestSuggestStream_MalformedFrameIgnored(t *testing.T) {
	fetcher := &fixedFetcher{
		candidates: []model.SuggestionCandidate{
			{Symbol: "AAPL", CompanyName: "Apple Inc.", MatchKind: model.MatchKindSymbol},
		},
	}
	server, wsURL := newStreamServer(t, fetcher)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	writeFrame(t, ctx, conn, `this is not json`)
	writeFrame(t, ctx, conn, `{"type": "select", "index": 99}`)
	writeFrame(t, ctx, conn, `{"type": "query", "text": "aa"}`)

	frame := readFrameOfType(t, ctx, conn, "suggestions")
	assert.Equal(t, true, frame["visible"])
}
