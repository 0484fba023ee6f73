package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"martctl/pkg/errors"
)

func TestRootCommand(t *testing.T) {
	// Test root command without arguments
	cmd := rootCmd
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetErr(b)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	assert.NoError(t, err)

	output := b.String()
	assert.Contains(t, output, "martctl")
	assert.Contains(t, output, "analytics warehouse")
}

func TestRootCommandHelp(t *testing.T) {
	// Test help flag
	cmd := rootCmd
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetErr(b)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	assert.NoError(t, err)

	output := b.String()
	assert.Contains(t, output, "Available Commands:")
	assert.Contains(t, output, "run")
	assert.Contains(t, output, "transform")
	assert.Contains(t, output, "classify")
	assert.Contains(t, output, "report")
	assert.Contains(t, output, "setup")
}

func TestInvalidCommand(t *testing.T) {
	// Test invalid command
	cmd := rootCmd
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetErr(b)
	cmd.SetArgs([]string{"invalid-command"})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MARTCTL_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv("MARTCTL_REPORTS_LIMIT", "7")
	initConfig()

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Reports.Limit)
}

func TestLoadConfigDbFlagOverride(t *testing.T) {
	t.Setenv("MARTCTL_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))
	initConfig()

	require.NoError(t, rootCmd.PersistentFlags().Set("db", "/tmp/override.db"))
	t.Cleanup(func() { rootCmd.PersistentFlags().Set("db", "") })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override.db", cfg.Warehouse.Path)
}

func TestPipelineCommandReportsFailure(t *testing.T) {
	t.Setenv("MARTCTL_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	// A warehouse path inside a directory that does not exist cannot be
	// opened; the command must surface that as a command error so the
	// process exits non-zero.
	badPath := filepath.Join(t.TempDir(), "no_such_dir", "warehouse.db")

	cmd := rootCmd
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetErr(b)
	cmd.SetArgs([]string{"transform", "--db", badPath})
	t.Cleanup(func() {
		cmd.SetArgs([]string{})
		rootCmd.PersistentFlags().Set("db", "")
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConnectionFailed, errors.GetErrorCode(err))
}

func TestLoadRunUnconfiguredIngestion(t *testing.T) {
	t.Setenv("MARTCTL_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	// --yes bypasses the confirmation prompt; with no ingestion paths
	// configured the command must fail before touching the warehouse.
	cmd := rootCmd
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetErr(b)
	cmd.SetArgs([]string{"load", "run", "--yes"})
	t.Cleanup(func() {
		cmd.SetArgs([]string{})
		loadYes = false
	})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeConfigInvalid, errors.GetErrorCode(err))
}

func TestLoadSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range loadCmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["split"])
	assert.True(t, names["clean"])
	assert.True(t, names["run"])
}
