package core

import "fmt"

// HeadlessSurface is a fixed-size surface without a window. It never asks
// to close; callers bound the loop with a frame limit.
type HeadlessSurface struct {
	Size     Viewport
	Presents int
}

func NewHeadlessSurface(width, height int) *HeadlessSurface {
	return &HeadlessSurface{Size: Viewport{Width: width, Height: height}}
}

func (s *HeadlessSurface) ShouldClose() bool         { return false }
func (s *HeadlessSurface) Present()                  { s.Presents++ }
func (s *HeadlessSurface) FramebufferSize() Viewport { return s.Size }

func (s *HeadlessSurface) String() string {
	return fmt.Sprintf("headless %dx%d", s.Size.Width, s.Size.Height)
}
