package internal

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/AndyA/Lintilla/internal/config"
	"github.com/AndyA/Lintilla/internal/raster"
	"github.com/AndyA/Lintilla/internal/raster/stage"
)

// Report summarises a run. Errors holds every per-file and walk failure.
type Report struct {
	Processed int
	Failed    int
	Errors    []error
	Elapsed   time.Duration
}

type Processor struct {
	fs       afero.Fs
	cfg      config.Config
	log      zerolog.Logger
	mark     *raster.Image
	pipeline []raster.PipelineStage
}

// lane is a queue of tasks drained by a fixed number of workers. A lane with
// a single worker processes its tasks strictly in order.
type lane struct {
	tasks   []FileTask
	workers int
}

// NewProcessor decodes the watermark once for the whole run. A watermark that
// cannot be loaded is fatal.
func NewProcessor(fs afero.Fs, cfg config.Config, logger zerolog.Logger) (*Processor, error) {
	mark, err := openImage(fs, cfg.Watermark, cfg.AutoOrient)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrWatermarkLoad, cfg.Watermark, err)
	}

	logger.Debug().
		Str("watermark", cfg.Watermark).
		Int("width", mark.Bounds.Dx()).
		Int("height", mark.Bounds.Dy()).
		Msg("Loaded watermark")

	return &Processor{
		fs:   fs,
		cfg:  cfg,
		log:  logger,
		mark: mark,
		pipeline: []raster.PipelineStage{
			&stage.WatermarkStage{Mark: mark, Sizing: cfg.Sizing(), Alpha: cfg.Alpha},
		},
	}, nil
}

// Run watermarks every image found below the configured roots and waits for
// all of them to finish.
func (p *Processor) Run() Report {
	startTime := time.Now()
	var report Report

	perRoot := make([][]FileTask, 0, len(p.cfg.Roots))
	total := 0
	for _, root := range p.cfg.Roots {
		tasks, errs := Walk(p.fs, root, p.cfg.Output)
		for _, err := range errs {
			p.log.Error().Err(err).Str("root", root).Msg("Error while walking the directory tree")
		}
		report.Errors = append(report.Errors, errs...)

		p.log.Info().Str("root", root).Int("files", len(tasks)).Msg("Found images")
		perRoot = append(perRoot, tasks)
		total += len(tasks)
	}

	results := make(chan error)
	lanes := p.lanes(perRoot)
	p.log.Debug().Str("schedule", string(p.cfg.Schedule)).Int("lanes", len(lanes)).Msg("Starting workers")
	for i, l := range lanes {
		p.startLane(i, l, results)
	}

	for range total {
		if err := <-results; err != nil {
			report.Failed++
			report.Errors = append(report.Errors, err)
			continue
		}
		report.Processed++
	}

	report.Elapsed = time.Since(startTime)
	p.log.Info().
		Int("processed", report.Processed).
		Int("failed", report.Failed).
		Dur("elapsed", report.Elapsed).
		Msg("All files watermarked")
	return report
}

func (p *Processor) lanes(perRoot [][]FileTask) []lane {
	if p.cfg.Schedule == config.ScheduleSerial {
		lanes := make([]lane, 0, len(perRoot))
		for _, tasks := range perRoot {
			lanes = append(lanes, lane{tasks: tasks, workers: 1})
		}
		return lanes
	}

	var all []FileTask
	for _, tasks := range perRoot {
		all = append(all, tasks...)
	}

	workers := p.cfg.Workers
	if p.cfg.Schedule == config.ScheduleParallel {
		workers = len(all)
	}
	return []lane{{tasks: all, workers: min(workers, len(all))}}
}

func (p *Processor) startLane(id int, l lane, results chan<- error) {
	if len(l.tasks) == 0 {
		return
	}

	p.log.Debug().Int("lane", id).Int("tasks", len(l.tasks)).Int("workers", l.workers).Msg("Starting lane")

	jobs := make(chan FileTask)
	for range l.workers {
		go func() {
			for task := range jobs {
				results <- p.processFile(task)
			}
		}()
	}

	go func() {
		for _, task := range l.tasks {
			jobs <- task
		}
		close(jobs)
	}()
}

func (p *Processor) processFile(task FileTask) error {
	err := p.watermarkFile(task)
	if err != nil {
		p.log.Error().Err(err).Str("source", task.Source).Str("dest", task.Dest).Msg("Failed to watermark")
		return &FileError{Path: task.Source, Err: err}
	}
	p.log.Debug().Str("source", task.Source).Str("dest", task.Dest).Msg("Written")
	return nil
}

func (p *Processor) watermarkFile(task FileTask) error {
	img, err := openImage(p.fs, task.Source, p.cfg.AutoOrient)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceDecode, err)
	}

	p.log.Info().Str("source", task.Source).Str("dest", task.Dest).Msg("Watermarking")

	if err := img.Pipeline(p.pipeline...); err != nil {
		return fmt.Errorf("%w: %w", ErrComposite, err)
	}

	dir := filepath.Dir(task.Dest)
	if err := p.fs.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w %s: %w", ErrDirectoryCreate, dir, err)
	}

	return p.save(img, task.Dest)
}

// outputMode is applied to every written image; temporary files start out
// owner-only.
const outputMode = 0644

// save writes img next to dest under a temporary name and renames it into
// place once fully encoded, so dest never holds a partial image.
func (p *Processor) save(img *raster.Image, dest string) error {
	tmpFile, err := afero.TempFile(p.fs, filepath.Dir(dest), ".watermark-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: failed to create temporary file: %w", ErrWrite, err)
	}
	cleanupTemp := true
	defer func() {
		_ = tmpFile.Close()
		if cleanupTemp {
			_ = p.fs.Remove(tmpFile.Name())
		}
	}()

	if err := img.Write(tmpFile, dest); err != nil {
		return fmt.Errorf("%w %s: %w", ErrEncode, dest, err)
	}

	if err := p.fs.Chmod(tmpFile.Name(), outputMode); err != nil {
		return fmt.Errorf("%w: failed to set permissions on temporary file: %w", ErrWrite, err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: failed to close temporary file before rename: %w", ErrWrite, err)
	}

	if err := p.fs.Rename(tmpFile.Name(), dest); err != nil {
		return fmt.Errorf("%w: failed to rename temporary file: %w", ErrWrite, err)
	}

	cleanupTemp = false
	return nil
}

func openImage(fs afero.Fs, name string, autoOrient bool) (*raster.Image, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	return raster.NewImageFromReader(f, autoOrient)
}
