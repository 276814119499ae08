package parser

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendToFile(t *testing.T, path, data string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestFollowSource_ReadsExistingThenGrowth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "follow.ndjson")
	require.NoError(t, os.WriteFile(path, []byte("{\"n\":1}\n"), 0644))

	source, err := Follow(path)
	require.NoError(t, err)
	defer source.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	line, err := source.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"n":1}`, string(line.Raw))
	assert.Equal(t, 1, line.Num)

	go func() {
		time.Sleep(50 * time.Millisecond)
		appendToFile(t, path, "{\"n\":2}\n")
	}()

	line, err = source.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"n":2}`, string(line.Raw))
	assert.Equal(t, 2, line.Num)
}

func TestFollowSource_HoldsPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.ndjson")
	require.NoError(t, os.WriteFile(path, []byte(`{"msg":"hel`), 0644))

	source, err := Follow(path)
	require.NoError(t, err)
	defer source.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		time.Sleep(50 * time.Millisecond)
		appendToFile(t, path, "lo\"}\n")
	}()

	line, err := source.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"msg":"hello"}`, string(line.Raw))
}

func TestFollowSource_Cancellation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idle.ndjson")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	source, err := Follow(path)
	require.NoError(t, err)
	defer source.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err = source.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFollowSource_RemovedFileEndsStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.ndjson")
	require.NoError(t, os.WriteFile(path, []byte("{}\n{\"tail\":true}"), 0644))

	source, err := Follow(path)
	require.NoError(t, err)
	defer source.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	line, err := source.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(line.Raw))

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.Remove(path)
	}()

	// The unterminated last line is flushed once the file goes away.
	line, err = source.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"tail":true}`, string(line.Raw))

	_, err = source.Next(ctx)
	assert.Equal(t, io.EOF, err)
}

func TestFollow_MissingFile(t *testing.T) {
	_, err := Follow(filepath.Join(t.TempDir(), "nope.ndjson"))
	assert.Error(t, err)
}
