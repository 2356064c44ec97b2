package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"library-lending/internal/config"
	"library-lending/internal/session"
)

func TestTerminalNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := newTerminalNotifier(&buf)
	n.Error("session expired, please log in again")
	n.Warning("please log in first")
	n.Success("login successful")

	assert.Equal(t, "[error] session expired, please log in again\n"+
		"[warning] please log in first\n"+
		"[ok] login successful\n", buf.String())
}

func TestOpenSessionKV(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/session.json"

	kv, closeKV, err := openSessionKV(ctx, &config.ClientConfig{SessionBackend: "file", SessionFile: path}, zap.NewNop())
	require.NoError(t, err)
	defer closeKV()
	fileKV, ok := kv.(*session.FileKV)
	require.True(t, ok)
	assert.Equal(t, path, fileKV.Path())

	kv, _, err = openSessionKV(ctx, &config.ClientConfig{SessionBackend: "MEMORY"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, kv.Set(session.TokenKey, "t"))

	_, _, err = openSessionKV(ctx, &config.ClientConfig{SessionBackend: "redis"}, zap.NewNop())
	assert.Error(t, err)

	_, _, err = openSessionKV(ctx, &config.ClientConfig{SessionBackend: "s3"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("debug")
	require.NoError(t, err)
	_, err = newLogger("loud")
	assert.Error(t, err)
}
