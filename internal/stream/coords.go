package stream

import (
	"image"
	"math"
)

// MapPoint translates a point captured on the rendered display surface into
// the frame's native pixel space: round(x * Wn / Wr), and the same for y.
// An unknown native size (no frame painted yet) maps 1:1. ok is false when
// the rendered size is degenerate.
func MapPoint(x, y float64, rendered, native image.Point) (px, py int, ok bool) {
	if rendered.X <= 0 || rendered.Y <= 0 {
		return 0, 0, false
	}
	if native.X <= 0 || native.Y <= 0 {
		native = rendered
	}
	px = int(math.Round(x * float64(native.X) / float64(rendered.X)))
	py = int(math.Round(y * float64(native.Y) / float64(rendered.Y)))
	return px, py, true
}
