package observability

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/reefgenomics/reefkb/internal/errors"
	"github.com/reefgenomics/reefkb/internal/logger"
	"github.com/reefgenomics/reefkb/internal/observability/metrics"
)

// Metrics holds all the metric collectors for the application.
type Metrics struct {
	registry *prometheus.Registry
	Importer *metrics.ImporterMetrics
}

// NewMetrics creates a new instance of Metrics on a private registry.
func NewMetrics() (*Metrics, error) {
	registry := prometheus.NewRegistry()

	importerMetrics, err := metrics.NewImporterMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to create importer metrics: %w", err)
	}

	return &Metrics{
		registry: registry,
		Importer: importerMetrics,
	}, nil
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes every metric to path in the text exposition format.
// The file is replaced atomically so a concurrent scrape never sees a
// partial write.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.New(err).
			Component("observability").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.New(err).
			Component("observability").
			Category(errors.CategoryFileIO).
			Context("path", path).
			Build()
	}
	GetLogger().Debug("metrics written", logger.String("path", path))
	return nil
}
