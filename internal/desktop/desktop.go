// Package desktop is a host backend that streams the local display and
// injects input into whatever browser window has focus.
package desktop

import (
	"context"
	"image"
	"math"
	"runtime"
	"sync"

	"browsercontrol/internal/capture"

	"github.com/go-vgo/robotgo"
	"go.uber.org/zap"
)

// Backend drives the local desktop. All sessions share the one display.
type Backend struct {
	opts   capture.Options
	logger *zap.Logger

	mu     sync.Mutex
	bounds image.Rectangle
	frame  image.Point
}

func New(opts capture.Options, logger *zap.Logger) *Backend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backend{opts: opts, logger: logger}
}

// Screenshot captures the display as a JPEG frame.
func (b *Backend) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, bounds, err := capture.Frame(b.opts)
	if err != nil {
		return nil, err
	}
	frame := bounds.Size()
	if b.opts.MaxWidth > 0 && frame.X > b.opts.MaxWidth {
		frame = image.Pt(b.opts.MaxWidth, frame.Y*b.opts.MaxWidth/frame.X)
	}

	b.mu.Lock()
	b.bounds, b.frame = bounds, frame
	b.mu.Unlock()
	return data, nil
}

// toScreen maps frame pixel coordinates onto the captured display.
func (b *Backend) toScreen(x, y int) (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frame.X <= 0 || b.frame.Y <= 0 {
		return x, y
	}
	sx := b.bounds.Min.X + x*b.bounds.Dx()/b.frame.X
	sy := b.bounds.Min.Y + y*b.bounds.Dy()/b.frame.Y
	return sx, sy
}

func (b *Backend) MoveMouse(_ context.Context, x, y int) error {
	sx, sy := b.toScreen(x, y)
	robotgo.Move(sx, sy)
	return nil
}

// Click clicks at the current pointer position.
func (b *Backend) Click(_ context.Context, button string, count int) error {
	robotgo.Click(button, count > 1)
	return nil
}

func (b *Backend) Type(_ context.Context, text string) error {
	if len([]rune(text)) > 1 {
		if key := normalizeKey(text); key != "" {
			return robotgo.KeyTap(key)
		}
	}
	robotgo.TypeStr(text)
	return nil
}

// Scroll converts a browser-style pixel delta into wheel notches.
func (b *Backend) Scroll(_ context.Context, direction string, amount float64) error {
	notches := int(math.Max(1, math.Round(math.Abs(amount)/100)))
	robotgo.ScrollDir(notches, direction)
	return nil
}

func (b *Backend) Navigate(_ context.Context, url string) error {
	if err := robotgo.KeyTap("l", modifier()); err != nil {
		return err
	}
	robotgo.TypeStr(url)
	return robotgo.KeyTap("enter")
}

func (b *Backend) Refresh(context.Context) error { return robotgo.KeyTap("f5") }

func (b *Backend) Back(context.Context) error { return robotgo.KeyTap("left", "alt") }

func (b *Backend) Forward(context.Context) error { return robotgo.KeyTap("right", "alt") }

func (b *Backend) CloseTab(context.Context) error { return robotgo.KeyTap("w", modifier()) }

// Close is a no-op: the desktop outlives any session.
func (b *Backend) Close() error {
	b.logger.Debug("desktop session released")
	return nil
}

func modifier() string {
	if runtime.GOOS == "darwin" {
		return "cmd"
	}
	return "ctrl"
}
