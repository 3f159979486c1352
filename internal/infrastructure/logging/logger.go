package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger. Production uses the JSON encoder; any other
// environment gets the human-readable development encoder. An empty level
// keeps the config's default.
func New(environment, level string) (*zap.Logger, error) {
	var config zap.Config
	if strings.EqualFold(environment, "production") {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
	}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
