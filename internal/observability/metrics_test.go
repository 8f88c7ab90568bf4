package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reefgenomics/reefkb/internal/observability/metrics"
)

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)
	m.Importer.RecordRun(metrics.OutcomeCommitted, 3*time.Second)
	m.Importer.RecordRows("SITE", 4)

	path := filepath.Join(t.TempDir(), "textfile", "reefkb.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `reefkb_import_runs_total{outcome="committed"} 1`)
	assert.Contains(t, string(data), `reefkb_import_rows_total{sheet="SITE"} 4`)
}

func TestWriteTextfile_EmptyPathDisabled(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)
	assert.NoError(t, m.WriteTextfile(""))
}

func TestRegistry_GathersRunDuration(t *testing.T) {
	t.Parallel()

	m, err := NewMetrics()
	require.NoError(t, err)
	m.Importer.RecordRun(metrics.OutcomeCommitted, 2*time.Second)
	m.Importer.RecordRun(metrics.OutcomeFailed, 500*time.Millisecond)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var duration *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "reefkb_import_run_duration_seconds" {
			duration = f
		}
	}
	require.NotNil(t, duration)
	assert.Equal(t, dto.MetricType_HISTOGRAM, duration.GetType())
	require.Len(t, duration.GetMetric(), 2)

	var total uint64
	for _, metric := range duration.GetMetric() {
		total += metric.GetHistogram().GetSampleCount()
	}
	assert.Equal(t, uint64(2), total)
}
