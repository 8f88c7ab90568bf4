package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *ImporterMetrics {
	t.Helper()
	m, err := NewImporterMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	return m
}

func TestRecordRun(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)

	m.RecordRun(OutcomeCommitted, 2*time.Second)
	m.RecordRun(OutcomeCommitted, time.Second)
	m.RecordRun(OutcomeFailed, 10*time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.runsTotal.WithLabelValues(OutcomeCommitted)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.runsTotal.WithLabelValues(OutcomeFailed)), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.runDuration))
	assert.Positive(t, testutil.ToFloat64(m.lastRunTimestamp))
}

func TestRecordRowsAndEntities(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)

	m.RecordRows("SAMPLE", 10)
	m.RecordRows("SAMPLE", 5)
	m.RecordEntities("fragments", 15)
	m.RecordEntities("biosamples", 0)

	assert.InDelta(t, 15, testutil.ToFloat64(m.rowsTotal.WithLabelValues("SAMPLE")), 0)
	assert.InDelta(t, 15, testutil.ToFloat64(m.entitiesTotal.WithLabelValues("fragments")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.entitiesTotal), "zero counts create no series")
}

func TestCacheLookup(t *testing.T) {
	t.Parallel()
	m := newTestMetrics(t)

	m.CacheLookup("SITE", true)
	m.CacheLookup("SITE", false)
	m.CacheLookup("SITE", true)

	expected := `
# HELP reefkb_sheet_cache_lookups_total Parsed sheet cache lookups by result
# TYPE reefkb_sheet_cache_lookups_total counter
reefkb_sheet_cache_lookups_total{result="hit",sheet="SITE"} 2
reefkb_sheet_cache_lookups_total{result="miss",sheet="SITE"} 1
`
	require.NoError(t, testutil.CollectAndCompare(m.cacheLookups, strings.NewReader(expected)))
}

func TestNewImporterMetrics_DoubleRegistration(t *testing.T) {
	t.Parallel()
	registry := prometheus.NewRegistry()
	_, err := NewImporterMetrics(registry)
	require.NoError(t, err)
	_, err = NewImporterMetrics(registry)
	assert.Error(t, err)
}
