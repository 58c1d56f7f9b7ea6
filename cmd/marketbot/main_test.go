package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreconfig "github.com/m3rciful/marketbot/core/config"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "marketbot dev")
}

func TestResolvedConfigPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	configPath = ""
	assert.Equal(t, defaultConfigPath, resolvedConfigPath())

	t.Setenv("CONFIG_PATH", "/etc/marketbot.yaml")
	assert.Equal(t, "/etc/marketbot.yaml", resolvedConfigPath())

	configPath = "flag.yaml"
	t.Cleanup(func() { configPath = "" })
	assert.Equal(t, "flag.yaml", resolvedConfigPath())
}

func TestBootstrapRejectsForeignConfig(t *testing.T) {
	_, err := bootstrapApp(&coreconfig.Config{})
	assert.Error(t, err)
}
