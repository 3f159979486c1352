package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		level       string
		wantLevel   zapcore.Level
		wantErr     bool
	}{
		{name: "production default", environment: "production", wantLevel: zapcore.InfoLevel},
		{name: "development default", environment: "development", wantLevel: zapcore.DebugLevel},
		{name: "explicit level", environment: "production", level: "warn", wantLevel: zapcore.WarnLevel},
		{name: "case-insensitive env", environment: "PRODUCTION", level: "error", wantLevel: zapcore.ErrorLevel},
		{name: "bad level", environment: "production", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.environment, tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, logger.Level())
		})
	}
}
