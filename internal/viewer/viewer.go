// Package viewer is the operator window: it shows the remote frames and turns
// mouse and keyboard input into stream events.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"browsercontrol/internal/session"
	"browsercontrol/internal/stream"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

const (
	barHeight = 20
	// one wheel notch in browser deltaY pixels
	wheelStep = 100
)

type Options struct {
	Title      string
	Width      int
	Height     int
	DefaultURL string
}

// specialKeys are forwarded by their browser key names.
var specialKeys = []struct {
	key  ebiten.Key
	name string
}{
	{ebiten.KeyEnter, "Enter"},
	{ebiten.KeyBackspace, "Backspace"},
	{ebiten.KeyTab, "Tab"},
	{ebiten.KeyEscape, "Escape"},
	{ebiten.KeyDelete, "Delete"},
	{ebiten.KeyArrowUp, "ArrowUp"},
	{ebiten.KeyArrowDown, "ArrowDown"},
	{ebiten.KeyArrowLeft, "ArrowLeft"},
	{ebiten.KeyArrowRight, "ArrowRight"},
	{ebiten.KeyHome, "Home"},
	{ebiten.KeyEnd, "End"},
	{ebiten.KeyPageUp, "PageUp"},
	{ebiten.KeyPageDown, "PageDown"},
}

// Window implements ebiten.Game and stream.Surface.
type Window struct {
	opts     Options
	logger   *zap.Logger
	sessions *session.Controller
	client   *stream.Client

	mu      sync.Mutex
	pending image.Image
	blank   bool
	notice  string

	// game-loop state, touched only from Update/Draw/Layout
	frame   *ebiten.Image
	layout  image.Point
	cursor  image.Point
	address []rune
	editing bool
}

func New(opts Options, logger *zap.Logger) *Window {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	return &Window{opts: opts, logger: logger, address: []rune(opts.DefaultURL)}
}

// Attach binds the window to the session controller and the stream client
// painting into it. It must be called before Run.
func (w *Window) Attach(sessions *session.Controller, client *stream.Client) {
	w.sessions = sessions
	w.client = client
}

// Paint stores the decoded frame; it is uploaded on the next Draw.
func (w *Window) Paint(img image.Image) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = img
	w.blank = false
}

func (w *Window) setNotice(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.notice = msg
}

func (w *Window) Run() error {
	ebiten.SetWindowSize(w.opts.Width, w.opts.Height)
	ebiten.SetWindowTitle(w.opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(w)
}

func (w *Window) Update() error {
	w.handleSessionKeys()
	if w.editing {
		w.updateAddressBar()
		return nil
	}
	if w.client.Status().State != stream.StateLive {
		return nil
	}
	w.handleNavigationKeys()
	w.forwardPointer()
	w.forwardKeys()
	return nil
}

func (w *Window) handleSessionKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		if w.sessions.Handle() != "" || w.sessions.Creating() {
			return
		}
		w.setNotice("")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if _, err := w.sessions.CreateSession(ctx); err != nil {
				w.logger.Error("start session", zap.Error(err))
				w.setNotice("Failed to start session: " + err.Error())
			}
		}()
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		w.mu.Lock()
		w.pending, w.blank = nil, true
		w.mu.Unlock()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			err := w.sessions.TerminateSession(ctx)
			// a frame painted before the channel closed may have landed
			w.mu.Lock()
			w.pending, w.blank = nil, true
			w.mu.Unlock()
			if err != nil && !errors.Is(err, session.ErrNoSession) {
				w.logger.Warn("end session", zap.Error(err))
			}
		}()
	case inpututil.IsKeyJustPressed(ebiten.KeyF6),
		ebiten.IsKeyPressed(ebiten.KeyControl) && inpututil.IsKeyJustPressed(ebiten.KeyL):
		if w.sessions.Handle() != "" {
			w.editing = true
		}
	}
}

// updateAddressBar edits the navigation field. Keystrokes typed here are
// never forwarded; only Enter sends the address.
func (w *Window) updateAddressBar() {
	w.address = ebiten.AppendInputChars(w.address)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(w.address) > 0:
		w.address = w.address[:len(w.address)-1]
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		w.editing = false
		if err := w.client.Navigate(string(w.address)); err != nil {
			w.logger.Debug("navigate not sent", zap.Error(err))
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		w.editing = false
	}
}

func (w *Window) handleNavigationKeys() {
	alt := ebiten.IsKeyPressed(ebiten.KeyAlt)
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		_ = w.client.Refresh()
	case alt && inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		_ = w.client.Back()
	case alt && inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		_ = w.client.Forward()
	case ebiten.IsKeyPressed(ebiten.KeyControl) && inpututil.IsKeyJustPressed(ebiten.KeyW):
		_ = w.client.CloseTab()
	}
}

func (w *Window) forwardPointer() {
	x, y := ebiten.CursorPosition()
	p := image.Pt(x, y)
	if p != w.cursor && p.In(image.Rectangle{Max: w.layout}) {
		w.cursor = p
		w.client.PointerMove(float64(x), float64(y), w.layout)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		_ = w.client.Click()
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		// ebiten reports wheel-up as positive, browsers report it as negative deltaY
		_ = w.client.Scroll(-dy * wheelStep)
	}
}

func (w *Window) forwardKeys() {
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyAlt) {
		return
	}
	for _, r := range ebiten.AppendInputChars(nil) {
		_ = w.client.KeyPress(string(r))
	}
	for _, k := range specialKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			_ = w.client.KeyPress(k.name)
		}
	}
}

func (w *Window) Draw(screen *ebiten.Image) {
	w.mu.Lock()
	pending, blank, notice := w.pending, w.blank, w.notice
	w.pending, w.blank = nil, false
	w.mu.Unlock()

	if pending != nil || blank {
		if w.frame != nil {
			// release the previous frame's texture
			w.frame.Deallocate()
			w.frame = nil
		}
		if pending != nil {
			w.frame = ebiten.NewImageFromImage(pending)
		}
	}

	if w.frame != nil {
		fw, fh := w.frame.Bounds().Dx(), w.frame.Bounds().Dy()
		op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
		op.GeoM.Scale(float64(w.layout.X)/float64(fw), float64(w.layout.Y)/float64(fh))
		screen.DrawImage(w.frame, op)
	}

	w.drawAddressBar(screen)
	if msg := overlayText(w.client.Status(), w.sessions.Handle() != "", w.sessions.Creating(), notice); msg != "" {
		w.drawOverlay(screen, msg)
	}
}

func (w *Window) drawAddressBar(screen *ebiten.Image) {
	if !w.editing {
		return
	}
	vector.DrawFilledRect(screen, 0, 0, float32(w.layout.X), barHeight, color.RGBA{R: 255, G: 255, B: 255, A: 230}, false)
	ebitenutil.DebugPrintAt(screen, "Go to: "+string(w.address)+"_", 4, 2)
}

func (w *Window) drawOverlay(screen *ebiten.Image, msg string) {
	vector.DrawFilledRect(screen, 0, 0, float32(w.layout.X), float32(w.layout.Y), color.RGBA{A: 128}, false)
	x := w.layout.X/2 - len(msg)*3
	if x < 4 {
		x = 4
	}
	ebitenutil.DebugPrintAt(screen, msg, x, w.layout.Y/2)
}

// Layout keeps the logical screen equal to the window so that cursor
// positions are in rendered-surface coordinates.
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	w.layout = image.Pt(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// overlayText is the message shown over the display surface, or "" when
// the surface should be unobstructed.
func overlayText(st stream.Status, hasSession, creating bool, notice string) string {
	switch {
	case notice != "":
		return notice
	case !hasSession && creating:
		return "Starting..."
	case !hasSession:
		return "Press F2 to start a session"
	}
	switch st.State {
	case stream.StateConnecting, stream.StateIdle:
		return "Connecting..."
	case stream.StateDisconnected, stream.StateFailed:
		if st.Reason == "" {
			return "Browser got disconnected. Please end the session and try again."
		}
		return fmt.Sprintf("Browser got disconnected due to %s. Please end the session and try again.", st.Reason)
	default:
		return ""
	}
}
