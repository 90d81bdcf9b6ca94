// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T) (*ConsoleConfig, error) {
	t.Helper()
	v, err := InitConfig()
	require.NoError(t, err)
	return GetApplicationConfig(v)
}

func TestConsoleConfig_Defaults(t *testing.T) {
	t.Setenv("ENV_PATH", "")
	t.Setenv("ENV", "")
	cfg, err := loadConfig(t)
	require.NoError(t, err)

	assert.Equal(t, "sounds-console", cfg.Name)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 8081, cfg.Port)
	assert.Equal(t, "0.0.0.0:8081", cfg.Address())
	assert.Equal(t, "http://localhost:5000", cfg.Recorder.Url)
	assert.Equal(t, "/ws", cfg.Recorder.StreamPath)
	assert.Equal(t, 5*time.Second, cfg.Recorder.Timeout)
	assert.Equal(t, 500, cfg.Render.Width)
	assert.Equal(t, 180, cfg.Render.Height)
	assert.Equal(t, 20*time.Millisecond, cfg.Render.Interval)
	assert.Equal(t, 10, cfg.Render.Stride)
	assert.Equal(t, 256, cfg.Stream.InboxSize)
	assert.Equal(t, 10*time.Second, cfg.Stream.MaxBackoff)
	assert.Contains(t, cfg.Events, "dog")
}

func TestConsoleConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("ENV_PATH", "")
	t.Setenv("PORT", "9000")
	t.Setenv("RECORDER__URL", "https://recorder.lab:8443/base/")
	t.Setenv("RENDER__WIDTH", "640")
	t.Setenv("RENDER__INTERVAL", "40ms")
	t.Setenv("EVENTS", "glass,siren")

	cfg, err := loadConfig(t)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 640, cfg.Render.Width)
	assert.Equal(t, 40*time.Millisecond, cfg.Render.Interval)
	assert.Equal(t, []string{"glass", "siren"}, cfg.Events)

	stream, err := cfg.StreamURL()
	require.NoError(t, err)
	assert.Equal(t, "wss://recorder.lab:8443/base/ws", stream)
}

func TestConsoleConfig_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "console.env")
	require.NoError(t, os.WriteFile(path, []byte("SERVICE_NAME=lab-console\nRENDER__STRIDE=5\n"), 0o600))
	t.Setenv("ENV_PATH", path)

	cfg, err := loadConfig(t)
	require.NoError(t, err)
	assert.Equal(t, "lab-console", cfg.Name)
	assert.Equal(t, 5, cfg.Render.Stride)
}

func TestConsoleConfig_Validation(t *testing.T) {
	cases := map[string]string{
		"RENDER__STRIDE":        "0",
		"RENDER__WIDTH":         "-1",
		"STREAM__INBOX_SIZE":    "0",
		"RECORDER__URL":         "not a url",
		"RECORDER__STREAM_PATH": "ws",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv("ENV_PATH", "")
			t.Setenv(key, value)
			_, err := loadConfig(t)
			assert.Error(t, err)
		})
	}
}

func TestConsoleConfig_StreamURLPlainHTTP(t *testing.T) {
	cfg := &ConsoleConfig{Recorder: RecorderConfig{Url: "http://127.0.0.1:5000", StreamPath: "/ws"}}
	stream, err := cfg.StreamURL()
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:5000/ws", stream)
}
