package redline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, "Redline", config.DefaultAuthor)
	assert.Equal(t, "RL", config.DefaultInitials)
	assert.Equal(t, "info", config.LogLevel)
	assert.NoError(t, config.Validate())
}

func TestConfigFromEnvironment(t *testing.T) {
	t.Setenv("REDLINE_AUTHOR", "Env Author")
	t.Setenv("REDLINE_INITIALS", "EA")
	t.Setenv("REDLINE_LOG_LEVEL", "debug")

	config := ConfigFromEnvironment()
	assert.Equal(t, "Env Author", config.DefaultAuthor)
	assert.Equal(t, "EA", config.DefaultInitials)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestConfigValidate(t *testing.T) {
	config := DefaultConfig()
	config.DefaultAuthor = ""
	require.Error(t, config.Validate())

	config = DefaultConfig()
	config.LogLevel = "loud"
	require.Error(t, config.Validate())
}

func TestSetGlobalConfig(t *testing.T) {
	original := GetGlobalConfig()
	t.Cleanup(func() { SetGlobalConfig(original) })

	custom := DefaultConfig()
	custom.DefaultAuthor = "Custom Author"
	SetGlobalConfig(custom)

	got := GetGlobalConfig()
	assert.Equal(t, "Custom Author", got.DefaultAuthor)

	// The getter hands out copies.
	got.DefaultAuthor = "mutated"
	assert.Equal(t, "Custom Author", GetGlobalConfig().DefaultAuthor)
}
