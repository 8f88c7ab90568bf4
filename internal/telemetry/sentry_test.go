package telemetry

import (
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reefgenomics/reefkb/internal/buildinfo"
	"github.com/reefgenomics/reefkb/internal/conf"
	"github.com/reefgenomics/reefkb/internal/errors"
)

func TestInitSentry_DisabledIsNoop(t *testing.T) {
	settings := &conf.Settings{}
	require.NoError(t, InitSentry(settings, &buildinfo.Context{}))
	assert.Nil(t, errors.GetTelemetryReporter())
}

func TestInitSentry_FiltersPrivateData(t *testing.T) {
	t.Cleanup(func() {
		errors.SetTelemetryReporter(nil)
		initialized.Store(false)
	})

	transport := &mockTransport{}
	settings := &conf.Settings{Sentry: conf.SentrySettings{
		Enabled: true,
		DSN:     "https://public@sentry.example.org/1",
	}}
	require.NoError(t, initSentry(settings, &buildinfo.Context{Version: "1.2.0"}, transport))
	require.NotNil(t, errors.GetTelemetryReporter())

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetUser(sentry.User{Email: "maren.ziegler@example.org"})
		scope.SetExtra("workbook", "submission.xlsx")
		scope.SetExtra("component", "importer")
		scope.SetTag("hostname", "lab-workstation")
		sentry.CaptureMessage("import failed: user maren.ziegler@example.org not found")
	})
	Flush(time.Second)

	events := transport.Events()
	require.Len(t, events, 1)
	event := events[0]
	assert.Empty(t, event.User.Email)
	assert.Empty(t, event.ServerName)
	assert.NotContains(t, event.Extra, "workbook")
	assert.Contains(t, event.Extra, "component")
	assert.NotContains(t, event.Tags, "hostname")
	assert.Equal(t, "reefkb@1.2.0", event.Release)
	assert.Equal(t, "import failed: user [email] not found", event.Message)
}
