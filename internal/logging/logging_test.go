package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/web-scout/pkg/types"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    zapcore.Level
		wantErr bool
	}{
		{"", zapcore.InfoLevel, false},
		{"debug", zapcore.DebugLevel, false},
		{" WARN ", zapcore.WarnLevel, false},
		{"error", zapcore.ErrorLevel, false},
		{"loud", zapcore.InfoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewAndSetLevel(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		t.Run(format, func(t *testing.T) {
			logger, atom, err := New(types.LogConfig{Level: "warn", Format: format})
			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))

			require.NoError(t, SetLevel(atom, "debug"))
			assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

			assert.Error(t, SetLevel(atom, "nope"))
			assert.Equal(t, zapcore.DebugLevel, atom.Level())
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New(types.LogConfig{Level: "chatty"})
	assert.Error(t, err)
}
