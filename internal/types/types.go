package types

// Action names carried in the "action" discriminator of outbound messages.
const (
	ActionMove     = "move"
	ActionClick    = "click"
	ActionType     = "type"
	ActionScroll   = "scroll"
	ActionNavigate = "navigate"
	ActionRefresh  = "refresh"
	ActionBack     = "back"
	ActionForward  = "forward"
	ActionCloseTab = "close_tab"
)

// Scroll directions.
const (
	ScrollUp   = "up"
	ScrollDown = "down"
)

// Event is one input record sent from the viewer to the host. Fields that
// do not belong to the action are omitted on the wire.
type Event struct {
	Action    string   `json:"action"`
	X         *int     `json:"x,omitempty"`
	Y         *int     `json:"y,omitempty"`
	Button    string   `json:"button,omitempty"`
	Count     int      `json:"count,omitempty"`
	Text      *string  `json:"text,omitempty"`
	URL       *string  `json:"url,omitempty"`
	Direction string   `json:"direction,omitempty"`
	Amount    *float64 `json:"amount,omitempty"`
}

// Move positions the remote pointer in frame pixel space.
func Move(x, y int) Event { return Event{Action: ActionMove, X: &x, Y: &y} }

// Click is a single left click at the current remote pointer position.
func Click() Event { return Event{Action: ActionClick, Button: "left", Count: 1} }

// KeyPress forwards one keystroke's textual value as-is.
func KeyPress(text string) Event { return Event{Action: ActionType, Text: &text} }

// Scroll derives the direction from the sign of deltaY and passes the
// amount through untouched.
func Scroll(deltaY float64) Event {
	dir := ScrollUp
	if deltaY > 0 {
		dir = ScrollDown
	}
	return Event{Action: ActionScroll, Direction: dir, Amount: &deltaY}
}

func Navigate(url string) Event { return Event{Action: ActionNavigate, URL: &url} }

func Refresh() Event  { return Event{Action: ActionRefresh} }
func Back() Event     { return Event{Action: ActionBack} }
func Forward() Event  { return Event{Action: ActionForward} }
func CloseTab() Event { return Event{Action: ActionCloseTab} }

// SessionResponse is the body returned by POST /sessions.
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// MessageResponse is the body returned by DELETE /sessions/{id}.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body returned on API errors.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
