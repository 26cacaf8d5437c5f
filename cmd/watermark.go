package cmd

import (
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/AndyA/Lintilla/internal"
	"github.com/AndyA/Lintilla/internal/config"
)

// Watermark runs one batch with the options bound in v. Only configuration
// and watermark problems are returned as errors; failures of individual files
// are logged and the run carries on.
func Watermark(fs afero.Fs, stderr io.Writer, v *viper.Viper, roots []string) error {
	logger, err := NewLogger(stderr, v.GetString("log-level"))
	if err != nil {
		return err
	}

	cfg, err := config.Load(v, roots)
	if err != nil {
		return err
	}

	if v.GetBool("debug") {
		internal.ShowVersion(logger)
		internal.UserInfo(logger)
		internal.EnvironmentVars(logger, config.EnvPrefix+"_")
	}

	p, err := internal.NewProcessor(fs, cfg, logger)
	if err != nil {
		return err
	}

	report := p.Run()
	if len(report.Errors) > 0 {
		logger.Warn().
			Int("errors", len(report.Errors)).
			Int("failed", report.Failed).
			Msg("Some files could not be watermarked")
	}
	return nil
}
