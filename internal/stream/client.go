package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"browsercontrol/internal/metrics"
	"browsercontrol/internal/types"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Config struct {
	// StreamURL resolves the channel address for a session handle.
	StreamURL func(handle string) (string, error)
	// MoveDebounce is the trailing-edge window for pointer motion.
	MoveDebounce time.Duration
	WriteTimeout time.Duration
	ReadLimit    int64
}

type Option func(*Client)

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// WithStatusHandler registers fn for every status transition. fn runs with
// the client's lock held and must not call back into the client.
func WithStatusHandler(fn func(Status)) Option {
	return func(c *Client) { c.onStatus = fn }
}

// WithDecodeErrorHandler registers fn for frames that fail to decode.
func WithDecodeErrorHandler(fn func(error)) Option {
	return func(c *Client) { c.onDecodeError = fn }
}

// Client owns one streaming channel for one session handle at a time: it
// paints inbound frames onto its surface and forwards operator input while
// the channel is live.
type Client struct {
	cfg           Config
	surface       Surface
	logger        *zap.Logger
	dialer        *websocket.Dialer
	onStatus      func(Status)
	onDecodeError func(error)
	moves         *Debouncer

	mu        sync.Mutex
	status    Status
	handle    string
	epoch     uint64
	conn      *websocket.Conn
	cancel    context.CancelFunc
	frameSize image.Point
}

func New(cfg Config, surface Surface, opts ...Option) *Client {
	if cfg.MoveDebounce <= 0 {
		cfg.MoveDebounce = 500 * time.Millisecond
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = 8 << 20 // 8MB
	}
	c := &Client{
		cfg:     cfg,
		surface: surface,
		logger:  zap.NewNop(),
		dialer:  websocket.DefaultDialer,
		status:  Status{State: StateIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.moves = NewDebouncer(cfg.MoveDebounce)
	return c
}

// Status returns the current lifecycle status.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Handle returns the session handle the channel belongs to, if any.
func (c *Client) Handle() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle
}

// FrameSize returns the native size of the last painted frame.
func (c *Client) FrameSize() image.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frameSize
}

// Open moves the client from Idle to Connecting and dials the channel for
// handle in the background. It does not wait for the channel to go live.
func (c *Client) Open(handle string) error {
	if handle == "" {
		return ErrNoHandle
	}
	url, err := c.cfg.StreamURL(handle)
	if err != nil {
		return fmt.Errorf("resolve stream url: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle != "" {
		return ErrAlreadyOpen
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.epoch++
	c.handle = handle
	c.cancel = cancel
	c.frameSize = image.Point{}
	c.setStatusLocked(Status{State: StateConnecting})

	go c.run(ctx, c.epoch, url)
	return nil
}

// Close tears the channel down and returns the client to Idle. Frames still
// decoding are discarded and no further input is forwarded.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle == "" && c.status.State == StateIdle {
		return
	}

	c.epoch++
	c.handle = ""
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.moves.Stop()
	if c.conn != nil {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		_ = c.conn.Close()
		c.conn = nil
	}
	c.frameSize = image.Point{}
	c.setStatusLocked(Status{State: StateIdle})
}

func (c *Client) run(ctx context.Context, epoch uint64, url string) {
	conn, _, err := c.dialer.DialContext(ctx, url, nil)
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.epoch != epoch {
			return
		}
		c.logger.Warn("stream connect failed", zap.String("url", url), zap.Error(err))
		c.setStatusLocked(Status{State: StateFailed, Reason: GenericFailure, Err: &ConnectError{URL: url, Err: err}})
		return
	}

	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	conn.SetReadLimit(c.cfg.ReadLimit)
	c.conn = conn
	c.setStatusLocked(Status{State: StateLive})
	c.mu.Unlock()

	c.readLoop(epoch, conn)
}

func (c *Client) readLoop(epoch uint64, conn *websocket.Conn) {
	for {
		mt, payload, err := conn.ReadMessage()
		if err != nil {
			c.closed(epoch, conn, err)
			return
		}
		if mt != websocket.BinaryMessage {
			c.logger.Debug("ignoring non-binary message", zap.Int("type", mt))
			continue
		}
		metrics.FramesReceived.Inc()
		// Decodes are not ordered: whichever finishes last is what stays painted.
		go c.paint(epoch, payload)
	}
}

func (c *Client) paint(epoch uint64, payload []byte) {
	start := time.Now()
	img, err := decodeFrame(payload)
	metrics.FrameDecodeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FrameDecodeErrors.Inc()
		c.logger.Warn("frame decode failed", zap.Int("bytes", len(payload)), zap.Error(err))
		if c.onDecodeError != nil {
			c.onDecodeError(err)
		}
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	c.frameSize = img.Bounds().Size()
	c.surface.Paint(img)
	metrics.FramesPainted.Inc()
}

func (c *Client) closed(epoch uint64, conn *websocket.Conn, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return
	}
	_ = conn.Close()
	c.conn = nil
	c.moves.Stop()

	var ce *websocket.CloseError
	if errors.As(err, &ce) && ce.Code != websocket.CloseAbnormalClosure {
		c.logger.Info("stream closed by host", zap.Int("code", ce.Code), zap.String("reason", ce.Text))
		c.setStatusLocked(Status{State: StateDisconnected, Reason: ce.Text, Err: &CloseError{Code: ce.Code, Reason: ce.Text}})
		return
	}
	c.logger.Warn("stream failed", zap.Error(err))
	c.setStatusLocked(Status{State: StateFailed, Reason: GenericFailure, Err: &RuntimeError{Err: err}})
}

func (c *Client) setStatusLocked(st Status) {
	c.status = st
	metrics.StatusTransitions.WithLabelValues(st.State.String()).Inc()
	c.logger.Info("stream status", zap.String("state", st.State.String()), zap.String("reason", st.Reason))
	if c.onStatus != nil {
		c.onStatus(st)
	}
}

// PointerMove samples the pointer at (x, y) on a surface rendered at
// rendered size. Samples are debounced; the last one in a burst is sent
// once the window elapses.
func (c *Client) PointerMove(x, y float64, rendered image.Point) {
	c.mu.Lock()
	live := c.status.State == StateLive
	native := c.frameSize
	c.mu.Unlock()
	if !live {
		metrics.InputEventsTotal.WithLabelValues(types.ActionMove, "dropped").Inc()
		return
	}

	px, py, ok := MapPoint(x, y, rendered, native)
	if !ok {
		return
	}
	c.moves.Trigger(func() {
		_ = c.send(types.Move(px, py))
	})
}

// Click sends a single left click immediately.
func (c *Client) Click() error { return c.send(types.Click()) }

// KeyPress sends one keystroke's text immediately.
func (c *Client) KeyPress(text string) error { return c.send(types.KeyPress(text)) }

// Scroll sends a scroll event immediately. Scrolling is not throttled.
func (c *Client) Scroll(deltaY float64) error { return c.send(types.Scroll(deltaY)) }

// Navigate loads url in the remote browser. The address is not validated.
func (c *Client) Navigate(url string) error { return c.send(types.Navigate(url)) }

func (c *Client) Refresh() error  { return c.send(types.Refresh()) }
func (c *Client) Back() error     { return c.send(types.Back()) }
func (c *Client) Forward() error  { return c.send(types.Forward()) }
func (c *Client) CloseTab() error { return c.send(types.CloseTab()) }

// send writes ev as one text message. Events are dropped unless the channel
// is live; nothing is queued or retried.
func (c *Client) send(ev types.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status.State != StateLive || c.conn == nil {
		metrics.InputEventsTotal.WithLabelValues(ev.Action, "dropped").Inc()
		return ErrNotLive
	}

	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ev.Action, err)
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
		metrics.InputEventsTotal.WithLabelValues(ev.Action, "error").Inc()
		c.logger.Debug("input send failed", zap.String("action", ev.Action), zap.Error(err))
		return fmt.Errorf("send %s: %w", ev.Action, err)
	}
	metrics.InputEventsTotal.WithLabelValues(ev.Action, "sent").Inc()
	return nil
}
