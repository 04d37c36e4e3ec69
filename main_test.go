package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katasuji/config"
	"katasuji/engine"
	"katasuji/record"
)

// writeTestConfig points the store and the log into a temp dir.
func writeTestConfig(t *testing.T) (cfgFile, storeDir string) {
	t.Helper()
	dir := t.TempDir()
	storeDir = filepath.Join(dir, "records")
	cfgFile = filepath.Join(dir, "config.json")
	content := fmt.Sprintf(`{
		"engine": {"model": "kata1.bin.gz"},
		"store": {"path": %q},
		"log": {"file": %q, "level": "debug"}
	}`, storeDir, filepath.Join(dir, "katasuji.log"))
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0o600))
	return cfgFile, storeDir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSessionOptions(t *testing.T) {
	c := config.DefaultConfig
	c.Analysis.Interval = 25
	c.Engine.StallTimeout = time.Minute

	opts := sessionOptions(&c)
	assert.Equal(t, 25, opts.AnalysisInterval)
	assert.Equal(t, c.Analysis.MaxMoves, opts.MaxAnalysisMoves)
	assert.Equal(t, time.Minute, opts.StallTimeout)
	assert.Equal(t, c.Console.MaxMessageLines, opts.MaxMessageLines)
	assert.Equal(t, c.Console.MaxMessageCharacters, opts.MaxMessageChars)
}

func TestProcessConfig(t *testing.T) {
	c := config.DefaultConfig
	c.Engine.Model = "model.bin.gz"
	c.Engine.HumanModel = "human.bin.gz"

	pc := processConfig(&c)
	assert.Equal(t, "katago", pc.Path)
	assert.Equal(t, []string{"gtp", "-model", "model.bin.gz", "-human-model", "human.bin.gz"}, pc.Args())
}

func TestConfigCommand(t *testing.T) {
	cfgFile, storeDir := writeTestConfig(t)

	out, err := execute(t, "config", "--config", cfgFile)
	require.NoError(t, err)

	var got config.Config
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "kata1.bin.gz", got.Engine.Model)
	assert.Equal(t, storeDir, got.Store.Path)
	assert.Equal(t, config.DefaultConfig.Game, got.Game)
}

func TestRecordsCommands(t *testing.T) {
	cfgFile, storeDir := writeTestConfig(t)

	s, err := record.OpenBadger(record.BadgerOptions{Path: storeDir})
	require.NoError(t, err)
	rec := record.New("ladder study", engine.DefaultGameConfig())
	require.NoError(t, s.Save(context.Background(), rec))
	require.NoError(t, s.Close())

	out, err := execute(t, "records", "list", "--config", cfgFile)
	require.NoError(t, err)
	assert.Contains(t, out, rec.ID)
	assert.Contains(t, out, "ladder study")
	assert.Contains(t, out, "19x19")

	out, err = execute(t, "records", "delete", rec.ID, "--config", cfgFile)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted "+rec.ID)

	_, err = execute(t, "records", "delete", rec.ID, "--config", cfgFile)
	assert.ErrorContains(t, err, "no record with id")
}
