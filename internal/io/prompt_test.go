package io

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader(t *testing.T) {
	lr := NewLineReader(strings.NewReader("first\r\nsecond\n"))
	ctx := context.Background()

	line, err := lr.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = lr.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	_, err = lr.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)

	_, err = lr.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineReader_Cancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	lr := NewLineReader(r)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := lr.ReadLine(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestLineReader_CancelThenResume(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	lr := NewLineReader(r)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := lr.ReadLine(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	go func() { _, _ = w.Write([]byte("late\n")) }()

	line, err := lr.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late", line)
}

// readWithin reads once from r, failing the test if nothing arrives in time
func readWithin(t *testing.T, r io.Reader, timeout time.Duration) string {
	t.Helper()
	got := make(chan string, 1)
	go func() {
		buf := make([]byte, 64)
		n, _ := r.Read(buf)
		got <- string(buf[:n])
	}()

	select {
	case s := <-got:
		return s
	case <-time.After(timeout):
		t.Fatal("input was consumed by the line reader")
		return ""
	}
}

func TestLineReader_LeavesInputBetweenReads(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()
	defer w.Close()

	lr := NewLineReader(r)
	ctx := context.Background()

	_, err = w.WriteString("build it\n")
	require.NoError(t, err)
	line, err := lr.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "build it", line)

	// a confirmation prompt answered from the same input
	_, err = w.WriteString("y\n")
	require.NoError(t, err)
	assert.Equal(t, "y\n", readWithin(t, r, 2*time.Second))

	_, err = w.WriteString("next\n")
	require.NoError(t, err)
	line, err = lr.ReadLine(ctx)
	require.NoError(t, err)
	assert.Equal(t, "next", line)
}
