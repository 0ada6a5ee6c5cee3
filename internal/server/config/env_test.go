package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("HTTP_ADDRESS", ":9999")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("LOG_FORMAT", "zap")

	c := &Config{DatabaseDSN: "keep", ShutdownTimeout: time.Second, MaxPageSize: 100}
	parseEnv(c)

	expected := &Config{
		EndpointAddrHTTP: ":9999",
		DatabaseDSN:      "keep",
		RequestTimeout:   5 * time.Second,
		ShutdownTimeout:  time.Second,
		BcryptCost:       4,
		LogFormat:        "zap",
		MaxPageSize:      100,
	}
	assert.Empty(t, cmp.Diff(expected, c))
}

func TestParseEnv_InvalidValuePanics(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")

	require.Panics(t, func() { parseEnv(&Config{}) })
}
