// Package observability wires the application's Prometheus registry and
// exports it for node_exporter's textfile collector.
package observability

import "github.com/reefgenomics/reefkb/internal/logger"

// GetLogger returns the observability module logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("observability")
}
