package stream

import (
	"image"
	"sync"
)

// Surface is the display the client paints decoded frames onto. Paint must
// size the surface to img.Bounds() so pointer mapping stays exact. It is
// called from decode goroutines, one call at a time.
type Surface interface {
	Paint(img image.Image)
}

// MemorySurface keeps the last painted frame in memory.
type MemorySurface struct {
	mu     sync.RWMutex
	img    image.Image
	paints int
}

func (s *MemorySurface) Paint(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = img
	s.paints++
}

// Image returns the displayed frame, or nil before the first paint.
func (s *MemorySurface) Image() image.Image {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.img
}

// Size returns the surface dimensions, which follow the last painted frame.
func (s *MemorySurface) Size() image.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.img == nil {
		return image.Point{}
	}
	return s.img.Bounds().Size()
}

func (s *MemorySurface) Paints() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paints
}
