package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Environment: "production", Output: &buf})
	t.Cleanup(func() { Configure(Options{}) })

	Info("generation finished", "kind", "timeout")
	Debug("dropped below INFO")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "generation finished", entry["msg"])
	assert.Equal(t, "timeout", entry["kind"])
}

func TestConfigureDevelopmentWritesText(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Environment: "development", Output: &buf})
	t.Cleanup(func() { Configure(Options{}) })

	Debug("picker opened")

	assert.Contains(t, buf.String(), "picker opened")
	assert.Contains(t, buf.String(), "level=DEBUG")
}

func TestFromContext(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.TODO()))

	scoped := With("host", "tui")
	ctx := WithContext(context.Background(), scoped)
	assert.Same(t, scoped, FromContext(ctx))
}
