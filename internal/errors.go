package internal

import (
	"errors"
	"fmt"

	"github.com/AndyA/Lintilla/internal/raster"
)

// ErrWatermarkLoad is fatal: no file is processed without a watermark.
var ErrWatermarkLoad = errors.New("failed to load watermark")

// Per-file failures. They are reported and the batch carries on.
var (
	ErrSourceDecode    = errors.New("failed to decode source image")
	ErrComposite       = raster.ErrComposite
	ErrDirectoryCreate = errors.New("failed to create output directory")
	ErrEncode          = errors.New("failed to encode image")
	ErrWrite           = errors.New("failed to write image")
)

// FileError ties a per-file failure to the source path that caused it.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}
