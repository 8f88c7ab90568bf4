package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext(t *testing.T) {
	t.Parallel()

	var missing *Context
	assert.Equal(t, UnknownValue, missing.GetVersion())
	assert.Equal(t, UnknownValue, missing.GetBuildDate())

	partial := &Context{Version: "0.4.0-rc.1"}
	assert.Equal(t, "0.4.0-rc.1", partial.GetVersion())
	assert.Equal(t, UnknownValue, partial.GetBuildDate())

	var info BuildInfo = &Context{Version: "0.4.0", BuildDate: "2026-10-19T08:00:00Z"}
	assert.Equal(t, "0.4.0", info.GetVersion())
	assert.Equal(t, "2026-10-19T08:00:00Z", info.GetBuildDate())
}
