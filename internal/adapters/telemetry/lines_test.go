package telemetry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/atlas/internal/adapters/telemetry"
)

func TestLineWriter(t *testing.T) {
	var lines []string
	w := telemetry.NewLineWriter(func(line []byte) { lines = append(lines, string(line)) })

	n, err := w.Write([]byte("copying enemies.png\ncopy"))
	require.NoError(t, err)
	assert.Equal(t, 24, n)
	assert.Equal(t, []string{"copying enemies.png\n"}, lines)

	_, _ = w.Write([]byte("ing ui.png\n\ndone"))
	assert.Equal(t, []string{"copying enemies.png\n", "copying ui.png\n", "\n"}, lines)

	require.NoError(t, w.Close())
	assert.Equal(t, "done", lines[len(lines)-1])

	_, _ = w.Write([]byte("late\n"))
	require.NoError(t, w.Close())
	assert.Len(t, lines, 4)
}
