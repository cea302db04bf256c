package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/atlas/internal/adapters/logger"
	"go.trai.ch/zerr"
)

// newTestLogger returns a logger writing to a buffer without ANSI escapes.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Pretty(t *testing.T) {
	tests := []struct {
		name   string
		golden string
		log    func(lg *logger.Logger)
	}{
		{
			name:   "info",
			golden: "info_basic",
			log:    func(lg *logger.Logger) { lg.Info("atlas enemies packed") },
		},
		{
			name:   "info multiline",
			golden: "info_multiline",
			log:    func(lg *logger.Logger) { lg.Info("packing\nenemies") },
		},
		{
			name:   "warn",
			golden: "warn_basic",
			log: func(lg *logger.Logger) {
				lg.Warn("'overwrite' on atlas ui has no effect without packerOptions")
			},
		},
		{
			name:   "plain error",
			golden: "error_simple",
			log:    func(lg *logger.Logger) { lg.Error(os.ErrPermission) },
		},
		{
			name:   "multiline error",
			golden: "error_multiline",
			log: func(lg *logger.Logger) {
				lg.Error(errors.New("yaml: unmarshal errors:\n  line 3: cannot unmarshal !!seq into string"))
			},
		},
		{
			name:   "zerr chain with metadata",
			golden: "error_chain",
			log: func(lg *logger.Logger) {
				decode := zerr.With(zerr.Wrap(io.ErrUnexpectedEOF, "failed to decode image"), "path", "enemies/bat.png")
				lg.Error(zerr.With(zerr.Wrap(decode, "failed to pack atlas"), "atlas", "enemies"))
			},
		},
		{
			name:   "stdlib chain is printed flat",
			golden: "error_chain_stdlib",
			log: func(lg *logger.Logger) {
				cause := &fs.PathError{Op: "open", Path: ".atlas/cache", Err: fs.ErrPermission}
				lg.Error(fmt.Errorf("failed to initialize cache: %w", cause))
			},
		},
		{
			name:   "joined errors are reported separately",
			golden: "error_joined",
			log: func(lg *logger.Logger) {
				lg.Error(errors.Join(
					zerr.New("failed to write cache snapshot"),
					zerr.With(zerr.New("failed to emit atlas output"), "path", "public/ui.png"),
				))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			tt.log(lg)

			g := goldie.New(t)
			g.Assert(t, tt.golden, buf.Bytes())
		})
	}
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	err := zerr.With(zerr.Wrap(errors.New("unexpected EOF"), "failed to decode image"), "path", "ui/button.png")
	lg.Error(err)

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"error":"failed to decode image: unexpected EOF"`)
	assert.Contains(t, out, `"path":"ui/button.png"`)
	assert.NotContains(t, out, "✗")

	buf.Reset()
	lg.SetJSON(false)
	lg.Error(errors.New("back to pretty"))
	assert.Equal(t, "✗ Error: back to pretty\n", buf.String())
}

func TestLogger_SetOutputNil(t *testing.T) {
	require.NotPanics(t, func() {
		lg := logger.New().(*logger.Logger)
		lg.SetOutput(nil)
	})
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	lg, _ := newTestLogger(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch i % 4 {
			case 0:
				lg.Info("info")
			case 1:
				lg.Warn("warn")
			case 2:
				lg.Error(errors.New("error"))
			default:
				lg.SetJSON(i%8 == 3)
			}
		}()
	}
	wg.Wait()
}
