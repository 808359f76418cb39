package config

import (
	"fmt"

	"go.uber.org/zap"
)

// NewLogger builds the JSON production logger in production and the
// console development logger otherwise, at the configured level.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.Log.Level, err)
	}

	var zc zap.Config
	if c.IsProduction() {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
