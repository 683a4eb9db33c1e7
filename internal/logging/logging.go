// Package logging builds the zap logger shared by the server, the pipeline
// and the CLI.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/web-scout/pkg/types"
)

// New builds a logger from cfg. Format "console" selects the development
// encoder; anything else is JSON. The returned level can be changed at
// runtime to adjust verbosity without rebuilding the logger.
func New(cfg types.LogConfig) (*zap.Logger, zap.AtomicLevel, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	atom := zap.NewAtomicLevelAt(level)

	var zc zap.Config
	if strings.EqualFold(cfg.Format, "console") {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "time"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = atom
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	logger, err := zc.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("building logger: %w", err)
	}
	return logger, atom, nil
}

// ParseLevel maps a level name to a zapcore.Level. Empty means info.
func ParseLevel(name string) (zapcore.Level, error) {
	if strings.TrimSpace(name) == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(name)))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return l, nil
}

// SetLevel changes atom to the named level. Invalid names leave it unchanged.
func SetLevel(atom zap.AtomicLevel, name string) error {
	l, err := ParseLevel(name)
	if err != nil {
		return err
	}
	atom.SetLevel(l)
	return nil
}
