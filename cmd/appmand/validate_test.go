package main

import (
	"strings"
	"testing"

	"github.com/atlanticdynamic/appmand/internal/settings"
	"github.com/stretchr/testify/assert"
)

func TestRenderSettings(t *testing.T) {
	cfg := settings.DefaultSettings()
	cfg.KeepAliveApps = []string{"com.test.beta"}
	cfg.FallbackAppID = "com.test.home"

	out := renderSettings(cfg)
	assert.True(t, strings.Contains(out, "com.test.beta"))
	assert.True(t, strings.Contains(out, "com.test.home"))
	assert.True(t, strings.Contains(out, "30s"))
}
