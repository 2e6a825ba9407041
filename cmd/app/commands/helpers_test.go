package commands

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestValidateFormat(t *testing.T) {
	assert.NoError(t, validateFormat("text"))
	assert.NoError(t, validateFormat("json"))

	err := validateFormat("yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format: yaml")
}

func TestWriteJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeJSON(&out, map[string]string{"alias": "my_app_key"}))
	assert.Equal(t, "{\n  \"alias\": \"my_app_key\"\n}\n", out.String())
}
