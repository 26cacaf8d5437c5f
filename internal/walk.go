package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/AndyA/Lintilla/internal/raster"
)

// FileTask is one image to watermark. Dest mirrors the position of Source
// below Root, inside the output directory.
type FileTask struct {
	Root   string
	Source string
	Dest   string
}

// Walk lists the JPEG and PNG files below root in lexical order. Other files
// are skipped silently, as is the output directory when it lies inside root.
// Unreadable entries are returned as errors and do not stop the walk.
func Walk(fs afero.Fs, root, output string) ([]FileTask, []error) {
	var (
		tasks []FileTask
		errs  []error
	)

	outputAbs := absPath(output)

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to walk %s: %w", path, err))
			return nil
		}

		if info.IsDir() {
			if path != root && absPath(path) == outputAbs {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.Mode().IsRegular() || !raster.Supported(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to resolve %s against %s: %w", path, root, err))
			return nil
		}
		if rel == "." {
			// root is the file itself
			rel = filepath.Base(path)
		}

		tasks = append(tasks, FileTask{
			Root:   root,
			Source: path,
			Dest:   filepath.Join(output, rel),
		})
		return nil
	}

	if err := afero.Walk(fs, root, walkFn); err != nil {
		errs = append(errs, fmt.Errorf("failed to walk %s: %w", root, err))
	}

	return tasks, errs
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
