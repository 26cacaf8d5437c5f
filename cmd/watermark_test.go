package cmd

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndyA/Lintilla/internal"
	"github.com/AndyA/Lintilla/internal/config"
)

func newViper(t *testing.T, args ...string) *viper.Viper {
	t.Helper()

	fs := pflag.NewFlagSet("watermark", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	fs.String("log-level", "info", "")
	fs.Bool("debug", false, "")
	require.NoError(t, fs.Parse(args))

	v, err := config.NewViper(fs)
	require.NoError(t, err)
	return v
}

func writePNG(t *testing.T, fs afero.Fs, name string, w, h int) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, afero.WriteFile(fs, name, buf.Bytes(), 0644))
}

func TestWatermark(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePNG(t, fs, "/wm.png", 4, 2)
	writePNG(t, fs, "/photos/2024/a.png", 40, 20)
	require.NoError(t, afero.WriteFile(fs, "/photos/2024/b.png", []byte("corrupt"), 0644))

	var stderr bytes.Buffer
	v := newViper(t, "-w", "/wm.png", "-o", "/marked", "--debug", "--log-level", "debug")

	require.NoError(t, Watermark(fs, &stderr, v, []string{"/photos"}))

	exists, err := afero.Exists(fs, "/marked/2024/a.png")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = afero.Exists(fs, "/marked/2024/b.png")
	require.NoError(t, err)
	assert.False(t, exists)

	log := stderr.String()
	assert.Contains(t, log, "Version")
	assert.Contains(t, log, "/photos/2024/b.png")
	assert.Contains(t, log, "Some files could not be watermarked")
}

func TestWatermark_DebugFromEnvironment(t *testing.T) {
	t.Setenv("LINTILLA_DEBUG", "true")

	fs := afero.NewMemMapFs()
	writePNG(t, fs, "/wm.png", 4, 2)
	writePNG(t, fs, "/photos/a.png", 40, 20)

	var stderr bytes.Buffer
	require.NoError(t, Watermark(fs, &stderr, newViper(t, "-w", "/wm.png"), []string{"/photos"}))

	assert.Contains(t, stderr.String(), "Version")
}

func TestWatermark_FatalErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	writePNG(t, fs, "/photos/a.png", 10, 10)

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"missing watermark option", nil, config.ErrInvalidConfig},
		{"bad percent", []string{"-w", "/wm.png", "--hpos", "left"}, config.ErrInvalidConfig},
		{"bad log level", []string{"-w", "/wm.png", "--log-level", "loud"}, config.ErrInvalidConfig},
		{"watermark not found", []string{"-w", "/wm.png"}, internal.ErrWatermarkLoad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			err := Watermark(fs, &stderr, newViper(t, tt.args...), []string{"/photos"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			exists, err := afero.DirExists(fs, "watermarked")
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := NewLogger(&buf, "WARN")
	require.NoError(t, err)

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
