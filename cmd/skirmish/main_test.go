package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/skirmish/internal/snapshot"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), "level %q", in)
	}
}

func TestWriteFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frames.bin")
	frames := make(chan *snapshot.Frame, 2)
	frames <- &snapshot.Frame{Tick: 1}
	frames <- &snapshot.Frame{Tick: 2}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- writeFrames(ctx, path, frames) }()

	require.Eventually(t, func() bool { return len(frames) == 0 }, 2*time.Second, 5*time.Millisecond)
	// последний кадр может ещё писаться
	time.Sleep(50 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := snapshot.NewReader(f)
	first, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), first.Tick)
	second, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), second.Tick)
}
