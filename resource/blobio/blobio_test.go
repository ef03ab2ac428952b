package blobio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/oxy-go/oxyres/resource/blobio"
	"github.com/stretchr/testify/require"
)

func TestFixedBufferZeroLength(t *testing.T) {
	b := blobio.NewFixedBuffer(nil)
	require.EqualValues(t, 0, b.TotalSize())
	progress, err := b.Prepare()
	require.NoError(t, err)
	require.True(t, progress.Done())
	dst := make([]byte, 8)
	require.Equal(t, 0, b.FetchFragment(0, dst))
}

func TestFixedBufferFetchFragment(t *testing.T) {
	b := blobio.NewFixedBuffer([]byte("hello world"))
	dst := make([]byte, 5)
	n := b.FetchFragment(6, dst)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(dst[:n]))
}

func TestAppendableBufferProgressMonotonic(t *testing.T) {
	b := blobio.NewAppendableBuffer()
	p1, err := b.Prepare()
	require.NoError(t, err)
	require.Equal(t, blobio.Working, p1.State)

	b.Append([]byte("chunk-1"))
	b.Append([]byte("chunk-2"))
	b.Finish(nil)

	p2, err := b.Prepare()
	require.NoError(t, err)
	require.True(t, p2.Done())
	require.Equal(t, blobio.Finished, p2.State)

	dst := make([]byte, 14)
	n := b.FetchFragment(0, dst)
	require.Equal(t, "chunk-1chunk-2", string(dst[:n]))
}

func TestGeneratedBufferDrivesProducerUntilDone(t *testing.T) {
	calls := 0
	g := blobio.NewGeneratedBuffer(func(buf *blobio.AppendableBuffer) (blobio.Progress, error) {
		calls++
		buf.Append([]byte{byte(calls)})
		if calls < 3 {
			return blobio.Progress{State: blobio.Working, Fraction: float32(calls) / 3}, nil
		}
		buf.Finish(nil)
		return blobio.Progress{State: blobio.Finished, Fraction: 1}, nil
	})

	var last blobio.Progress
	for i := 0; i < 5; i++ {
		p, err := g.Prepare()
		require.NoError(t, err)
		if p.Done() {
			last = p
			break
		}
		require.GreaterOrEqual(t, p.Fraction, float32(0))
		last = p
	}
	require.True(t, last.Done())
	require.EqualValues(t, 3, g.TotalSize())
}

func TestCompressedAppendableRoundTrip(t *testing.T) {
	b, err := blobio.NewCompressedAppendableBuffer(-1)
	require.NoError(t, err)

	payload := []byte("the quick brown fox jumps over the lazy dog, repeated for compressibility, the quick brown fox jumps over the lazy dog")
	require.NoError(t, b.Append(payload))
	b.Finish(nil)

	progress, err := b.Prepare()
	require.NoError(t, err)
	require.True(t, progress.Done())

	compressed := make([]byte, b.TotalSize())
	n := b.FetchFragment(0, compressed)
	require.EqualValues(t, len(compressed), n)

	roundTripped, err := blobio.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, payload, roundTripped)
}

func TestFileIOSeekAndRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixture.txt")
	content := []byte("0123456789abcdef")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	f, err := blobio.NewFileIO(path)
	require.NoError(t, err)
	defer f.Close()

	require.EqualValues(t, len(content), f.TotalSize())

	dst := make([]byte, 4)
	n := f.FetchFragment(10, dst)
	require.Equal(t, "abcd", string(dst[:n]))

	progress, err := f.Prepare()
	require.NoError(t, err)
	require.True(t, progress.Done())
}

func TestFileIOLargeOffsetsMonotonicFetch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.bin")
	content := make([]byte, 1<<16)
	for i := range content {
		content[i] = byte(i)
	}
	require.NoError(t, os.WriteFile(path, content, 0o644))

	f, err := blobio.NewFileIO(path)
	require.NoError(t, err)
	defer f.Close()

	chunk := make([]byte, 4096)
	var read int64
	for read < f.TotalSize() {
		n := f.FetchFragment(read, chunk)
		require.Greater(t, n, 0)
		read += int64(n)
	}
	require.Equal(t, f.TotalSize(), read)
}
