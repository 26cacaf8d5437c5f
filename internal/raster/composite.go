package raster

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/AndyA/Lintilla/internal/geometry"
)

var ErrComposite = errors.New("composite failed")

// Composite draws mark, resampled to the placement size, over a copy of src at
// the placement offset. alpha scales the contribution of every watermark
// pixel: 0 leaves the source untouched and 1 draws the watermark opaquely.
// Neither src nor mark is modified. Only the part of the placement that lands
// on src is resampled, so a placement far larger than src costs no more than
// src itself.
func Composite(src, mark image.Image, p geometry.Placement, alpha float64) (*image.NRGBA, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, fmt.Errorf("%w: missing source bitmap", ErrComposite)
	}
	if mark == nil || mark.Bounds().Empty() {
		return nil, fmt.Errorf("%w: missing watermark bitmap", ErrComposite)
	}

	sb := src.Bounds()
	visible := p.Rect().Intersect(image.Rect(0, 0, sb.Dx(), sb.Dy()))
	if p.Empty() || visible.Empty() || alpha <= 0 {
		return imaging.Clone(src), nil
	}

	mb := mark.Bounds()
	sx := float64(p.Width) / float64(mb.Dx())
	sy := float64(p.Height) / float64(mb.Dy())
	s2d := f64.Aff3{
		sx, 0, float64(p.X) - sx*float64(mb.Min.X),
		0, sy, float64(p.Y) - sy*float64(mb.Min.Y),
	}

	scaled := image.NewNRGBA(visible)
	draw.CatmullRom.Transform(scaled, s2d, mark, mb, draw.Src, nil)

	return imaging.Overlay(src, scaled, sb.Min.Add(visible.Min), alpha), nil
}
