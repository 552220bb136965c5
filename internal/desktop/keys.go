package desktop

import "strings"

// normalizeKey maps a browser key value to a robotgo key name. It returns ""
// for values that are not a single named key.
func normalizeKey(k string) string {
	switch strings.ToLower(k) {
	case "enter":
		return "enter"
	case "shift":
		return "shift"
	case "control", "ctrl":
		return "ctrl"
	case "alt", "option":
		return "alt"
	case "meta", "command", "cmd":
		return "cmd"
	case "escape", "esc":
		return "esc"
	case " ", "space":
		return "space"
	case "tab":
		return "tab"
	case "backspace":
		return "backspace"
	case "delete":
		return "delete"
	case "arrowup":
		return "up"
	case "arrowdown":
		return "down"
	case "arrowleft":
		return "left"
	case "arrowright":
		return "right"
	case "home", "end", "pageup", "pagedown":
		return strings.ToLower(k)
	default:
		return ""
	}
}
