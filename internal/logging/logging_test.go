package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "grocery-shop", "warn")

	l.Info("dropped")
	require.Zero(t, buf.Len())

	l.Warn("kept", "status", 400)
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "kept", line["msg"])
	require.Equal(t, float64(400), line["status"])
	require.Equal(t, "grocery-shop", line["service"])
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel(" DEBUG ")
	require.NoError(t, err)
	require.Equal(t, slog.LevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, slog.LevelInfo, lvl)

	_, err = ParseLevel("verbose")
	require.Error(t, err)
}

func TestFromContext(t *testing.T) {
	require.Same(t, slog.Default(), FromContext(context.Background()))

	l := NewWithWriter(&bytes.Buffer{}, "", "info")
	ctx := IntoContext(context.Background(), l)
	require.Same(t, l, FromContext(ctx))
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	ctx := IntoContext(context.Background(), NewWithWriter(&buf, "", "info"))

	FromContext(Component(ctx, "relay")).Info("tick")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "relay", line["component"])
}
