// Package suggest implements the debounced typeahead controller that
// stands between raw keystrokes and the suggestion endpoint. It
// guarantees at most one fetch in flight and that a stale result can
// never overwrite a fresher one.
package suggest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Ashwin-Prakash-dev/Retrotrade/internal/model"

	"go.uber.org/zap"
)

// Defaults applied when an option is left zero
const (
	DefaultDebounce     = 300 * time.Millisecond
	DefaultFetchTimeout = 5 * time.Second
	DefaultBlurGrace    = 200 * time.Millisecond
	DefaultUpdateBuffer = 8
)

// SuggestionFetcher fetches candidates for a query string
type SuggestionFetcher interface {
	SuggestStocks(ctx context.Context, query string) ([]model.SuggestionCandidate, error)
}

// Update is a snapshot of the controller's output state, emitted
// whenever candidates or panel visibility change. Generation grows
// monotonically, so consumers can rely on update order.
type Update struct {
	Generation uint64
	Candidates []model.SuggestionCandidate
	Visible    bool
}

// Options configures a Controller
type Options struct {
	Debounce     time.Duration
	FetchTimeout time.Duration
	BlurGrace    time.Duration
	UpdateBuffer int
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = DefaultFetchTimeout
	}
	if o.BlurGrace <= 0 {
		o.BlurGrace = DefaultBlurGrace
	}
	if o.UpdateBuffer <= 0 {
		o.UpdateBuffer = DefaultUpdateBuffer
	}
	return o
}

// Controller coalesces keystrokes into suggestion fetches. Every state
// change happens under one mutex; fetches run in their own goroutines
// and carry the generation value active when they were issued. A
// result is applied only while its generation is still current, which
// makes result application ordered by generation rather than by
// arrival.
type Controller struct {
	fetcher SuggestionFetcher
	logger  *zap.Logger
	opts    Options

	rootCtx    context.Context
	rootCancel context.CancelFunc

	mu          sync.Mutex
	generation  uint64
	pendingText string
	timer       *time.Timer
	blurTimer   *time.Timer
	cancelFetch context.CancelFunc
	candidates  []model.SuggestionCandidate
	visible     bool
	focused     bool
	closed      bool

	updates chan Update
}

// NewController creates a controller with its input considered focused
func NewController(fetcher SuggestionFetcher, opts Options, logger *zap.Logger) *Controller {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		fetcher:    fetcher,
		logger:     logger,
		opts:       opts,
		rootCtx:    ctx,
		rootCancel: cancel,
		focused:    true,
		updates:    make(chan Update, opts.UpdateBuffer),
	}
}

// Updates returns the channel of state snapshots. The channel is
// closed by Close. Slow consumers lose the oldest snapshots first,
// never the newest.
func (c *Controller) Updates() <-chan Update {
	return c.updates
}

// QueryChanged is called on every keystroke. Empty input clears the
// candidates synchronously without touching the network; anything else
// re-arms the debounce timer.
func (c *Controller) QueryChanged(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.stopTimerLocked()

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		// Advancing the generation orphans any in-flight fetch so it
		// cannot resurrect the cleared state
		c.generation++
		c.cancelFetchLocked()
		c.candidates = nil
		c.visible = false
		c.emitLocked()
		return
	}

	c.pendingText = trimmed
	c.timer = time.AfterFunc(c.opts.Debounce, c.debounceFired)
}

// debounceFired runs when the debounce timer expires: the burst is
// over and the latest text becomes a tagged fetch
func (c *Controller) debounceFired() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.generation++
	gen := c.generation
	query := c.pendingText

	// Cancel the previous fetch so at most one is in flight; the
	// generation comparison in apply stays the correctness guard
	c.cancelFetchLocked()
	ctx, cancel := context.WithCancel(c.rootCtx)
	c.cancelFetch = cancel
	c.mu.Unlock()

	go c.fetch(ctx, gen, query)
}

func (c *Controller) fetch(ctx context.Context, gen uint64, query string) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.FetchTimeout)
	defer cancel()

	candidates, err := c.fetcher.SuggestStocks(ctx, query)
	if err != nil {
		// Suggestion failures degrade to no suggestions, they are
		// never surfaced as user-facing errors
		c.logger.Debug("Suggestion fetch failed", zap.String("query", query), zap.Error(err))
		candidates = nil
	}

	c.apply(gen, candidates)
}

func (c *Controller) apply(gen uint64, candidates []model.SuggestionCandidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.generation {
		// Stale: a newer query, a clear or a selection has advanced
		// the generation since this fetch was issued
		return
	}

	c.candidates = candidates
	c.visible = len(candidates) > 0 && c.focused
	c.emitLocked()
}

// Select accepts a candidate: pending work is cancelled, the panel is
// cleared and the canonical input text for the selection is returned.
// The follow-up detail fetch belongs to the caller.
func (c *Controller) Select(candidate model.SuggestionCandidate) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return candidate.DisplayText()
	}

	c.stopTimerLocked()
	c.cancelFetchLocked()
	c.generation++
	c.candidates = nil
	c.visible = false
	c.emitLocked()

	return candidate.DisplayText()
}

// FocusLost hides the panel after a short grace period so that a
// selection tap on the panel itself still lands. In-flight fetches
// keep running; they just apply with the panel hidden.
func (c *Controller) FocusLost() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.focused = false
	if c.blurTimer != nil {
		c.blurTimer.Stop()
	}
	c.blurTimer = time.AfterFunc(c.opts.BlurGrace, c.blurGraceExpired)
}

func (c *Controller) blurGraceExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.focused {
		return
	}
	if c.visible {
		c.visible = false
		c.emitLocked()
	}
}

// Focus marks the input active again and re-shows the panel when
// candidates are still present
func (c *Controller) Focus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.focused = true
	if c.blurTimer != nil {
		c.blurTimer.Stop()
		c.blurTimer = nil
	}
	if len(c.candidates) > 0 && !c.visible {
		c.visible = true
		c.emitLocked()
	}
}

// Candidates returns a copy of the currently applied candidates
func (c *Controller) Candidates() []model.SuggestionCandidate {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.SuggestionCandidate, len(c.candidates))
	copy(out, c.candidates)
	return out
}

// PanelVisible reports whether the suggestion panel should be shown
func (c *Controller) PanelVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visible
}

// Close cancels all pending work and closes the update channel. The
// controller ignores calls after Close.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.closed = true
	c.stopTimerLocked()
	if c.blurTimer != nil {
		c.blurTimer.Stop()
		c.blurTimer = nil
	}
	c.cancelFetchLocked()
	c.rootCancel()
	close(c.updates)
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) cancelFetchLocked() {
	if c.cancelFetch != nil {
		c.cancelFetch()
		c.cancelFetch = nil
	}
}

// emitLocked publishes the current state. The caller holds the mutex,
// so emissions happen in generation order; when the buffer is full the
// oldest snapshot is dropped to make room.
func (c *Controller) emitLocked() {
	update := Update{
		Generation: c.generation,
		Candidates: c.candidates,
		Visible:    c.visible,
	}
	for {
		select {
		case c.updates <- update:
			return
		default:
		}
		select {
		case <-c.updates:
		default:
		}
	}
}
