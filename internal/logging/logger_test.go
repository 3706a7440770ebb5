package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"", DefaultLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"bogus", DefaultLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNewLogger_JSONIncludesTraceID(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, Config{Level: "debug", Format: FormatJSON})

	ctx := ContextWithTraceID(context.Background(), "01TESTTRACE")
	l.Info().Ctx(ctx).Str("component", "test").Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["message"])
	assert.Equal(t, "01TESTTRACE", entry["trace_id"])
	assert.Equal(t, "test", entry["component"])
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, Config{Level: "error", Format: FormatJSON})
	l.Info().Msg("dropped")
	assert.Empty(t, buf.String())
}

func TestNewLogger_Caller(t *testing.T) {
	for _, caller := range []bool{false, true} {
		var buf bytes.Buffer
		l := NewLogger(&buf, Config{Level: "info", Format: FormatJSON, Caller: caller})
		l.Info().Msg("where")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		if caller {
			assert.Contains(t, entry["caller"], "logger_test.go:")
		} else {
			assert.NotContains(t, entry, "caller")
		}
	}
}

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "azimage.log")
	res := NewLoggerWithPath(Config{Level: "info", Output: OutputFile, File: path})
	t.Cleanup(func() { _ = res.Close() })

	assert.True(t, res.UsingFile)
	assert.False(t, res.FallbackUsed)
	assert.Equal(t, path, res.FilePath)
}

func TestNewLoggerWithPath_FallbackOnBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "azimage.log")
	res := NewLoggerWithPath(Config{Output: OutputFile, File: path})

	assert.False(t, res.UsingFile)
	assert.True(t, res.FallbackUsed)
	assert.NotEmpty(t, res.FallbackReason)
	assert.NoError(t, res.Close())
}

func TestFromContext(t *testing.T) {
	t.Run("no logger returns disabled", func(t *testing.T) {
		l := FromContext(context.Background())
		require.NotNil(t, l)
		assert.Equal(t, zerolog.Disabled, l.GetLevel())
	})

	t.Run("attached logger is returned", func(t *testing.T) {
		var buf bytes.Buffer
		base := NewLogger(&buf, Config{Level: "info", Format: FormatJSON})
		ctx := base.WithContext(context.Background())

		FromContext(ctx).Info().Msg("via context")
		assert.Contains(t, buf.String(), "via context")
	})
}

func TestGetOrGenerateTraceID(t *testing.T) {
	ctx := ContextWithTraceID(context.Background(), "existing")
	assert.Equal(t, "existing", GetOrGenerateTraceID(ctx))

	generated := GetOrGenerateTraceID(context.Background())
	assert.Len(t, generated, 26)
	assert.NotEqual(t, generated, GetOrGenerateTraceID(context.Background()))
}
