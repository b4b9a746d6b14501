package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"
	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/suggest"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

const streamWriteWait = 10 * time.Second

// Inbound frame types sent by the editing surface
const (
	frameQuery  = "query"
	frameSelect = "select"
	frameBlur   = "blur"
	frameFocus  = "focus"
)

// Outbound frame types
const (
	frameSuggestions = "suggestions"
	frameSelected    = "selected"
)

// SuggestStreamHandler upgrades a connection to a WebSocket and binds
// it to its own suggestion controller, so every editing surface gets
// the full debounce and staleness guarantees over one stream
type SuggestStreamHandler struct {
	fetcher suggest.SuggestionFetcher
	opts    suggest.Options
	logger  *zap.Logger
}

// NewSuggestStreamHandler creates a new suggest stream handler
func NewSuggestStreamHandler(fetcher suggest.SuggestionFetcher, opts suggest.Options, logger *zap.Logger) *SuggestStreamHandler {
	return &SuggestStreamHandler{
		fetcher: fetcher,
		opts:    opts,
		logger:  logger,
	}
}

type inboundFrame struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Index int    `json:"index,omitempty"`
}

type suggestionsFrame struct {
	Type       string                      `json:"type"`
	Generation uint64                      `json:"generation"`
	Candidates []model.SuggestionCandidate `json:"candidates"`
	Visible    bool                        `json:"visible"`
}

type selectedFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Stream handles one suggestion session end to end
func (h *SuggestStreamHandler) Stream(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream aborted")

	controller := suggest.NewController(h.fetcher, h.opts, h.logger)
	defer controller.Close()

	ctx := c.Request.Context()
	go h.writeUpdates(ctx, conn, controller)

	h.readFrames(ctx, conn, controller)
	conn.Close(websocket.StatusNormalClosure, "")
}

// readFrames drives the controller from inbound frames until the
// client goes away
func (h *SuggestStreamHandler) readFrames(ctx context.Context, conn *websocket.Conn, controller *suggest.Controller) {
	for {
		msgType, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway && ctx.Err() == nil {
				h.logger.Debug("Suggest stream closed", zap.Error(err))
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			h.logger.Debug("Dropping malformed frame", zap.Error(err))
			continue
		}

		switch frame.Type {
		case frameQuery:
			controller.QueryChanged(frame.Text)
		case frameSelect:
			candidates := controller.Candidates()
			if frame.Index < 0 || frame.Index >= len(candidates) {
				continue
			}
			text := controller.Select(candidates[frame.Index])
			h.write(ctx, conn, selectedFrame{Type: frameSelected, Text: text})
		case frameBlur:
			controller.FocusLost()
		case frameFocus:
			controller.Focus()
		}
	}
}

// writeUpdates relays controller snapshots to the client until the
// update channel closes
func (h *SuggestStreamHandler) writeUpdates(ctx context.Context, conn *websocket.Conn, controller *suggest.Controller) {
	for update := range controller.Updates() {
		frame := suggestionsFrame{
			Type:       frameSuggestions,
			Generation: update.Generation,
			Candidates: update.Candidates,
			Visible:    update.Visible,
		}
		if frame.Candidates == nil {
			frame.Candidates = []model.SuggestionCandidate{}
		}
		if err := h.write(ctx, conn, frame); err != nil {
			return
		}
	}
}

func (h *SuggestStreamHandler) write(ctx context.Context, conn *websocket.Conn, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, streamWriteWait)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}
