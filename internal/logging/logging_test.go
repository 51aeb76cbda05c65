package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zapcore.Level{
		"":        zap.InfoLevel,
		"DEBUG":   zap.DebugLevel,
		"warning": zap.WarnLevel,
		" error ": zap.ErrorLevel,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arcade.log")
	logger, err := New(Config{Level: "info", Outputs: []string{path}})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("wave started", zap.Int("wave", 3))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"wave started"`)
	assert.Contains(t, out, `"wave":3`)
	assert.False(t, strings.Contains(out, "hidden"))
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Encoding: "xml"})
	require.Error(t, err)
	_, err = New(Config{Level: "chatty"})
	require.Error(t, err)
}
