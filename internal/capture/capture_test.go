package capture

import (
	"bytes"
	"image"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDownscales(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1600, 900))

	b, err := Encode(img, Options{Quality: 70, MaxWidth: 800})
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 450, cfg.Height)
}

func TestEncodeKeepsNativeSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))

	b, err := Encode(img, Options{Quality: 0, MaxWidth: 1024})
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 480, cfg.Height)
}
