package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	// Collect subcommand names.
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	// Verify expected subcommands are registered.
	expected := []string{"metadata", "visualize", "inspect"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "landgrid", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestMetadataCommand_Flags(t *testing.T) {
	flag := metadataCmd.Flags().Lookup("centerpoints")
	require.NotNil(t, flag, "metadata command should have --centerpoints flag")
	assert.Equal(t, "true", flag.DefValue)

	for _, name := range []string{"input", "output", "rules"} {
		assert.NotNil(t, metadataCmd.Flags().Lookup(name), "metadata should have --%s flag", name)
	}
}

func TestVisualizeCommand_Flags(t *testing.T) {
	for _, name := range []string{"input", "output", "centerpoints"} {
		assert.NotNil(t, visualizeCmd.Flags().Lookup(name), "visualize should have --%s flag", name)
	}
}

func TestInspectCommand_Flags(t *testing.T) {
	assert.NotNil(t, inspectCmd.Flags().Lookup("input"))
}
