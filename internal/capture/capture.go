package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/kbinani/screenshot"
	"golang.org/x/image/draw"
)

type Options struct {
	Display  int
	Quality  int // 1-100
	MaxWidth int // 0 keeps the native width
}

// Frame captures the configured display and returns it JPEG encoded along
// with the display bounds the frame's pixel space maps onto.
func Frame(opts Options) ([]byte, image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, image.Rectangle{}, fmt.Errorf("no active displays")
	}
	d := opts.Display
	if d < 0 || d >= n {
		d = 0
	}
	bounds := screenshot.GetDisplayBounds(d)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, bounds, fmt.Errorf("capture display %d: %w", d, err)
	}
	b, err := Encode(img, opts)
	return b, bounds, err
}

// Encode scales img down to opts.MaxWidth (keeping the aspect ratio) and
// JPEG encodes it.
func Encode(img image.Image, opts Options) ([]byte, error) {
	src := img
	if w := img.Bounds().Dx(); opts.MaxWidth > 0 && w > opts.MaxWidth {
		h := img.Bounds().Dy() * opts.MaxWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, opts.MaxWidth, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		src = dst
	}

	buf := new(bytes.Buffer)
	q := opts.Quality
	if q <= 0 || q > 100 {
		q = 80
	}
	if err := jpeg.Encode(buf, src, &jpeg.Options{Quality: q}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}
