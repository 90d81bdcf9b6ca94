// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package commons

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplicationLogger_Defaults(t *testing.T) {
	logger, err := NewApplicationLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
	logger.Infof("hello %s", "world")
	logger.Benchmark("TestNewApplicationLogger_Defaults", time.Millisecond)
}

func TestNewApplicationLogger_InvalidLevel(t *testing.T) {
	logger, err := NewApplicationLogger(Level("loud"))
	assert.Error(t, err)
	assert.Nil(t, logger)
}

func TestNewApplicationLogger_WritesFileSink(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewApplicationLogger(Name("test-logger"), Path(dir), Level("debug"))
	require.NoError(t, err)

	logger.Debugw("file sink", "key", "value")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "test-logger.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "file sink")
	assert.Contains(t, string(data), `"key":"value"`)
}

func TestNewApplicationLogger_ReportsCallingFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewApplicationLogger(Name("caller"), Path(dir), Level("debug"))
	require.NoError(t, err)

	logger.Infow("direct call")
	logger.Benchmark("TestNewApplicationLogger_ReportsCallingFile", time.Millisecond)
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "caller.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, `"caller":"commons/logger_test.go:`)
	}
}
