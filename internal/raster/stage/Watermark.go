package stage

import (
	"github.com/AndyA/Lintilla/internal/geometry"
	"github.com/AndyA/Lintilla/internal/raster"
)

// WatermarkStage overlays Mark onto the image. Mark is shared between
// concurrently running pipelines and is only ever read.
type WatermarkStage struct {
	Mark   *raster.Image
	Sizing geometry.Sizing
	Alpha  float64
}

// Process sizes and positions the watermark relative to the current image
// and blends it in with the stage's alpha
func (s *WatermarkStage) Process(p *raster.Image) error {
	var mark raster.Image
	if s.Mark != nil {
		mark = *s.Mark
	}

	placement := geometry.Compute(p.Size(), mark.Size(), s.Sizing)
	out, err := raster.Composite(p.Img, mark.Img, placement, s.Alpha)
	if err != nil {
		return err
	}

	p.Img = out
	p.Bounds = out.Bounds()
	return nil
}
