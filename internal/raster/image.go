package raster

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
)

var (
	ErrDecode            = errors.New("decode failed")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// JPEGQuality is the fixed quality used for every JPEG written.
const JPEGQuality = 90

type Image struct {
	Img    image.Image
	Bounds image.Rectangle
}

type PipelineStage interface {
	Process(img *Image) error
}

// NewImageFromReader decodes a JPEG or PNG. With autoOrient the EXIF
// orientation tag, if any, is applied.
func NewImageFromReader(r io.Reader, autoOrient bool) (*Image, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: nil reader", ErrDecode)
	}
	img, err := imaging.Decode(r, imaging.AutoOrientation(autoOrient))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &Image{
		Img:    img,
		Bounds: img.Bounds(),
	}, nil
}

func (p *Image) Size() image.Point {
	return p.Bounds.Size()
}

// Write encodes the image in the format implied by name's extension.
func (p *Image) Write(w io.Writer, name string) error {
	enc, err := EncoderFor(name)
	if err != nil {
		return err
	}
	return enc(w, p.Img)
}

func (p *Image) Pipeline(stages ...PipelineStage) error {
	for _, stage := range stages {
		if err := stage.Process(p); err != nil {
			return err
		}
	}
	return nil
}

// Supported reports whether name has a .jpg, .jpeg or .png extension,
// ignoring case.
func Supported(name string) bool {
	_, err := EncoderFor(name)
	return err == nil
}

func EncoderFor(name string) (imgio.Encoder, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return imgio.PNGEncoder(), nil
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(JPEGQuality), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}
