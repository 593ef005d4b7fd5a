// Package logging construye el logger zap de la aplicación.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New devuelve un logger JSON de producción, o de consola legible si
// development es true. level acepta debug, info, warn o error.
func New(level string, development bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}

	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cfg.Level = lvl
	}

	return cfg.Build()
}
