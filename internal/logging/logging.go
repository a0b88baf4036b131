// Package logging builds the process logger.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment selects the logger profile.
type Environment string

const (
	EnvironmentProduction  Environment = "production"
	EnvironmentDevelopment Environment = "development"
	EnvironmentLocal       Environment = "local"
)

// Config holds logger initialization inputs.
type Config struct {
	Environment Environment
	Level       string
}

func (c Config) validate() error {
	switch c.Environment {
	case EnvironmentProduction, EnvironmentDevelopment, EnvironmentLocal:
		return nil
	default:
		return fmt.Errorf("invalid environment %q", c.Environment)
	}
}

// New creates a logger writing to stderr, leaving stdout for reports.
func New(cfg Config) (*zap.Logger, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	level, err := resolveLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	base := buildConfigByEnvironment(cfg.Environment)
	base.Level = level
	base.DisableStacktrace = true
	base.OutputPaths = []string{"stderr"}
	base.ErrorOutputPaths = []string{"stderr"}

	logger, err := base.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

func resolveLevel(level string) (zap.AtomicLevel, error) {
	if strings.TrimSpace(level) == "" {
		return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
	}

	var parsed zapcore.Level
	if err := parsed.Set(level); err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid level %q: %w", level, err)
	}
	return zap.NewAtomicLevelAt(parsed), nil
}

func buildConfigByEnvironment(env Environment) zap.Config {
	if env == EnvironmentProduction {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}
