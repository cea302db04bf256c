// Package linear prints build progress as plain sequential lines.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/atlas/internal/ui/output"
	"go.trai.ch/atlas/internal/ui/style"
)

// Renderer implements ports.Renderer. Span output goes to stdout prefixed
// with the span name; status lines go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	out    *termenv.Output

	mu    sync.Mutex
	spans map[string]span
}

type span struct {
	name  string
	start time.Time
}

// NewRenderer creates a Renderer. Nil writers select the process streams.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Renderer{
		stdout: stdout,
		stderr: stderr,
		out:    output.New(stderr),
		spans:  make(map[string]span),
	}
}

// Start implements ports.Renderer.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop implements ports.Renderer.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.spans)
	return nil
}

// OnPlanEmit prints the atlases of the pass.
func (r *Renderer) OnPlanEmit(atlases []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(atlases) == 0 {
		r.printf(style.Slate, "No atlases configured\n")
		return
	}
	r.printf(style.Slate, "Building %d atlas(es): %s\n", len(atlases), strings.Join(atlases, ", "))
}

// OnTaskStart records the span so its output and result can be attributed.
func (r *Renderer) OnTaskStart(spanID, _, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spans[spanID] = span{name: name, start: startTime}
}

// OnTaskLog prints one line of span output.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.spans[spanID]
	if !ok {
		return
	}
	line := bytes.TrimRight(data, "\r\n")
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", s.name, line)
}

// OnTaskComplete prints the result line of a span.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error, cached bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.spans[spanID]
	if !ok {
		return
	}
	delete(r.spans, spanID)

	switch {
	case err != nil:
		r.printf(style.Red, "%s %s: %v\n", style.Cross, s.name, err)
	case cached:
		r.printf(style.Slate, "%s %s (cached)\n", style.Tilde, s.name)
	default:
		elapsed := endTime.Sub(s.start).Round(time.Millisecond)
		r.printf(style.Green, "%s %s %v\n", style.Check, s.name, elapsed)
	}
}

// printf must be called with mu held.
func (r *Renderer) printf(color lipgloss.Color, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	styled := r.out.String(msg).Foreground(termenv.RGBColor(string(color)))
	_, _ = io.WriteString(r.stderr, styled.String())
}
