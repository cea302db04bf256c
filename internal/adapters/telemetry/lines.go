package telemetry

import (
	"bytes"
	"sync"
)

// LineWriter splits a byte stream into lines and hands each complete line,
// newline included, to a callback. A trailing partial line is delivered on Close.
type LineWriter struct {
	mu      sync.Mutex
	pending bytes.Buffer
	onLine  func([]byte)
	closed  bool
}

// NewLineWriter returns a LineWriter calling onLine for every line.
func NewLineWriter(onLine func([]byte)) *LineWriter {
	return &LineWriter{onLine: onLine}
}

// Write implements io.Writer. Writes after Close are discarded.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return len(p), nil
	}

	w.pending.Write(p)
	for {
		i := bytes.IndexByte(w.pending.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := make([]byte, i+1)
		copy(line, w.pending.Next(i+1))
		w.onLine(line)
	}
	return len(p), nil
}

// Close flushes the trailing partial line.
func (w *LineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	if w.pending.Len() > 0 {
		w.onLine(bytes.Clone(w.pending.Bytes()))
		w.pending.Reset()
	}
	return nil
}
