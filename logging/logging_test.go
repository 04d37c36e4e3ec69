package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "katasuji.log")

	log, err := New("debug", path)
	require.NoError(t, err)
	log.Infow("engine started", "model", "b18")
	log.Debugw("noise")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"engine started"`)
	assert.Contains(t, string(data), `"model":"b18"`)
	assert.Contains(t, string(data), `"msg":"noise"`)
}

func TestNewRespectsLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "katasuji.log")

	log, err := New("warn", path)
	require.NoError(t, err)
	log.Infow("hidden")
	log.Warnw("shown")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewBadLevel(t *testing.T) {
	_, err := New("loud", filepath.Join(t.TempDir(), "x.log"))
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Errorw("ignored", "k", 1) })
}
