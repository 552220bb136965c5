package stream

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapPoint(t *testing.T) {
	cases := []struct {
		name             string
		x, y             float64
		rendered, native image.Point
		wantX, wantY     int
		ok               bool
	}{
		{"identity", 12, 34, image.Pt(800, 600), image.Pt(800, 600), 12, 34, true},
		{"downscaled display", 100, 75, image.Pt(400, 300), image.Pt(800, 600), 200, 150, true},
		{"upscaled display rounds", 333, 100, image.Pt(1600, 1200), image.Pt(800, 600), 167, 50, true},
		{"no frame yet maps 1:1", 7.4, 9.6, image.Pt(300, 150), image.Point{}, 7, 10, true},
		{"degenerate surface", 1, 1, image.Point{}, image.Pt(800, 600), 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x, y, ok := MapPoint(tc.x, tc.y, tc.rendered, tc.native)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.wantX, x)
			assert.Equal(t, tc.wantY, y)
		})
	}
}
