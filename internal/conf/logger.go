// Package conf provides configuration management for reefkb.
package conf

import "github.com/reefgenomics/reefkb/internal/logger"

// GetLogger returns the config package logger. It is fetched from the global
// logger on each call because the central logger is configured after Load.
func GetLogger() logger.Logger {
	return logger.Global().Module("config")
}
