package input

import (
	"context"
	"errors"
	"fmt"

	t "browsercontrol/internal/types"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrMissingField  = errors.New("missing field")
)

// Actuator performs input actions against a remote browser.
type Actuator interface {
	MoveMouse(ctx context.Context, x, y int) error
	Click(ctx context.Context, button string, count int) error
	Type(ctx context.Context, text string) error
	Scroll(ctx context.Context, direction string, amount float64) error
	Navigate(ctx context.Context, url string) error
	Refresh(ctx context.Context) error
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	CloseTab(ctx context.Context) error
}

// HandleEvent executes the side-effect for a control Event
func HandleEvent(ctx context.Context, a Actuator, event t.Event) error {
	switch event.Action {
	case t.ActionMove:
		if event.X == nil || event.Y == nil {
			return fmt.Errorf("%s: %w: x/y", event.Action, ErrMissingField)
		}
		return a.MoveMouse(ctx, *event.X, *event.Y)
	case t.ActionClick:
		button, count := event.Button, event.Count
		if button == "" {
			button = "left"
		}
		if count <= 0 {
			count = 1
		}
		return a.Click(ctx, button, count)
	case t.ActionType:
		if event.Text == nil {
			return fmt.Errorf("%s: %w: text", event.Action, ErrMissingField)
		}
		return a.Type(ctx, *event.Text)
	case t.ActionScroll:
		if event.Amount == nil {
			return fmt.Errorf("%s: %w: amount", event.Action, ErrMissingField)
		}
		return a.Scroll(ctx, event.Direction, *event.Amount)
	case t.ActionNavigate:
		if event.URL == nil {
			return fmt.Errorf("%s: %w: url", event.Action, ErrMissingField)
		}
		return a.Navigate(ctx, *event.URL)
	case t.ActionRefresh:
		return a.Refresh(ctx)
	case t.ActionBack:
		return a.Back(ctx)
	case t.ActionForward:
		return a.Forward(ctx)
	case t.ActionCloseTab:
		return a.CloseTab(ctx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, event.Action)
	}
}
