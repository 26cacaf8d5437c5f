package geometry

import (
	"image"
	"math"
)

// Sizing holds the watermark sizing and positioning rules, all as fractions
// (0.5 means 50%).
type Sizing struct {
	MaxWidth  float64
	MaxHeight float64
	HPos      float64
	VPos      float64
}

// Placement is where, and how large, the watermark is drawn on one image.
type Placement struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (p Placement) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

func (p Placement) Empty() bool {
	return p.Width <= 0 || p.Height <= 0
}

// Compute scales the watermark uniformly so that it fits within MaxWidth x
// MaxHeight of the source, then positions it: HPos/VPos of 0 aligns it to the
// left/top edge, 1 to the right/bottom edge and 0.5 centres it.
func Compute(src, mark image.Point, s Sizing) Placement {
	if mark.X <= 0 || mark.Y <= 0 {
		return Placement{}
	}

	maxW := float64(src.X) * s.MaxWidth
	maxH := float64(src.Y) * s.MaxHeight

	scale := math.Min(maxW/float64(mark.X), maxH/float64(mark.Y))
	w := round(float64(mark.X) * scale)
	h := round(float64(mark.Y) * scale)

	return Placement{
		X:      round(float64(src.X-w) * s.HPos),
		Y:      round(float64(src.Y-h) * s.VPos),
		Width:  w,
		Height: h,
	}
}

// round rounds half up, so -2.5 becomes -2.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
