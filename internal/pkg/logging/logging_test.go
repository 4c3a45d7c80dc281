package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, closer, err := New("loud", "", false)
	require.Error(t, err)
	closer()
}

func TestNew_Stdout(t *testing.T) {
	l, closer, err := New("warn", "", true)
	require.NoError(t, err)
	defer closer()
	assert.Equal(t, zerolog.WarnLevel, l.GetLevel())
}

func TestNew_FileCreatesDirAndAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "notifyd.log")

	l, closer, err := New("debug", path, false)
	require.NoError(t, err)
	l.Info().Str("component", "test").Msg("first")
	closer()

	l, closer, err = New("debug", path, false)
	require.NoError(t, err)
	l.Info().Msg("second")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"first"`)
	assert.Contains(t, string(data), `"message":"second"`)
	assert.Contains(t, string(data), `"component":"test"`)
}
