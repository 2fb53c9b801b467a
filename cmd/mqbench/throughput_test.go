package main

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestThroughputCommandWritesCSV(t *testing.T) {
	cmd := newThroughputCommand(discardLogger())
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--threads", "2",
		"--prefill", "100",
		"--elements", "100",
		"--min-key", "1",
		"--max-key", "1000",
	})

	require.NoError(t, cmd.Execute())
	require.Contains(t, buf.String(), "threads,prefill,operations")
}

func TestThroughputCommandRejectsBadWorkMode(t *testing.T) {
	cmd := newThroughputCommand(discardLogger())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--work-mode", "x"})

	err := cmd.Execute()
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "work mode"))
}

func TestThroughputCommandRejectsSplitWithNoPushThreads(t *testing.T) {
	cmd := newThroughputCommand(discardLogger())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"--work-mode", "s",
		"--push-threads", "0",
		"--elements", "10",
	})

	require.Error(t, cmd.Execute())
}

func TestThroughputCommandSelectsChannelQueue(t *testing.T) {
	cmd := newThroughputCommand(discardLogger())
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{
		"--threads", "2",
		"--prefill", "0",
		"--elements", "50",
		"--min-key", "1",
		"--max-key", "1000",
		"--queue", "channelq",
		"--ring-capacity", "4096",
	})

	require.NoError(t, cmd.Execute())
}
