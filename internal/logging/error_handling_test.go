package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeClose(t *testing.T) {
	t.Run("closes file safely without error logging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		path := filepath.Join(t.TempDir(), "stops.csv")
		require.NoError(t, os.WriteFile(path, []byte("stop_id\n"), 0o644))

		f, err := os.Open(path)
		require.NoError(t, err)

		SafeCloseWithLogging(f, logger, "read stops table")

		// Check that no error was logged (successful close)
		output := buf.String()
		if output != "" {
			assert.NotContains(t, output, `"level":"ERROR"`)
		}
	})

	t.Run("logs error when close fails", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		// Create a closer that always returns an error
		errorCloser := &errorCloser{err: assert.AnError}

		SafeCloseWithLogging(errorCloser, logger, "test_operation")

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to close resource"`)
		assert.Contains(t, output, `"operation":"test_operation"`)
	})

	t.Run("tolerates nil closer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		SafeCloseWithLogging(nil, logger, "noop")
		assert.Empty(t, buf.String())
	})
}

type errorCloser struct {
	err error
}

func (c *errorCloser) Close() error {
	return c.err
}
