package stream

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var errEmptyFrame = errors.New("empty payload")

// decodeFrame decodes one compressed image payload. The format is sniffed,
// so hosts may send JPEG, PNG, WebP, GIF or BMP frames.
func decodeFrame(payload []byte) (image.Image, error) {
	if len(payload) == 0 {
		return nil, &DecodeError{Err: errEmptyFrame}
	}
	img, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, &DecodeError{Size: len(payload), Err: err}
	}
	return img, nil
}
