// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:0", cfg.ListenAddr)
	assert.Equal(t, "https://api.boomi.com/api/rest/v1", cfg.Platform.String())
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.InsecureSkipVerify)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.GracefulShutdownTimeout)
	assert.Equal(t, -1, cfg.NotifyFD)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ATOM_LISTEN_ADDR", ":9090")
	t.Setenv("ATOM_PLATFORM_URL", "https://platform.example.com/api/rest/v1")
	t.Setenv("ATOM_REQUEST_TIMEOUT", "5s")
	t.Setenv("ATOM_LOG_LEVEL", "DEBUG")
	t.Setenv("ATOM_NOTIFY_FD", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "https://platform.example.com/api/rest/v1", cfg.Platform.String())
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3, cfg.NotifyFD)
}

func TestLoadRejectsRelativePlatformURL(t *testing.T) {
	t.Setenv("ATOM_PLATFORM_URL", "api.boomi.com/api/rest/v1")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadNotifyFD(t *testing.T) {
	t.Setenv("ATOM_NOTIFY_FD", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestDurationFallbackOnGarbage(t *testing.T) {
	t.Setenv("ATOM_REQUEST_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
