package blobio

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// CompressedAppendableBuffer is the compressed-appendable buffer variant
// (spec §4.A): a producer appends plain bytes, which are compressed through
// a zlib stream writer before landing in the materialized buffer consumers
// read — so FetchFragment always returns the compressed, framed byte stream,
// matching the `data_filter: "zlib"` framing documented in §6.
//
// zlib is used directly from the standard library rather than a third-party
// package: the spec's wire format for `.eagitexi` pixel data literally names
// "zlib" as the only recognized data_filter value, so compress/zlib is the
// correct encoder for that exact framing, and no example repo in the
// retrieval pack reaches for an alternative compression library.
type CompressedAppendableBuffer struct {
	compressed bytes.Buffer
	zw         *zlib.Writer
	done       bool
	err        error
}

// NewCompressedAppendableBuffer creates an empty compressed-appendable
// buffer at the given zlib compression level (zlib.DefaultCompression is a
// reasonable default for callers that don't care).
func NewCompressedAppendableBuffer(level int) (*CompressedAppendableBuffer, error) {
	b := &CompressedAppendableBuffer{}
	zw, err := zlib.NewWriterLevel(&b.compressed, level)
	if err != nil {
		return nil, fmt.Errorf("blobio: init zlib writer: %w", err)
	}
	b.zw = zw
	return b, nil
}

// Append compresses chunk and appends the resulting compressed bytes to the
// materialized prefix. zlib.Writer buffers internally, so the compressed
// output available to FetchFragment may lag behind the plain bytes appended
// until Finish flushes the stream.
func (b *CompressedAppendableBuffer) Append(chunk []byte) error {
	if b.done {
		return fmt.Errorf("blobio: append after Finish")
	}
	if _, err := b.zw.Write(chunk); err != nil {
		return fmt.Errorf("blobio: zlib write: %w", err)
	}
	return nil
}

// Finish flushes and closes the zlib stream, after which Prepare reports
// Finished (or Failed if err is non-nil).
func (b *CompressedAppendableBuffer) Finish(err error) {
	if !b.done {
		if closeErr := b.zw.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	b.done = true
	b.err = err
}

func (b *CompressedAppendableBuffer) TotalSize() int64 {
	return int64(b.compressed.Len())
}

func (b *CompressedAppendableBuffer) FetchFragment(offset int64, dst []byte) int {
	return fetchFromSlice(b.compressed.Bytes(), offset, dst)
}

func (b *CompressedAppendableBuffer) Prepare() (Progress, error) {
	if !b.done {
		return Progress{State: Working}, nil
	}
	if b.err != nil {
		return Progress{State: Failed}, b.err
	}
	return Progress{State: Finished, Fraction: 1}, nil
}

// Decompress reads a full zlib-compressed buffer (as produced by
// CompressedAppendableBuffer) back into plain bytes. Used by builders that
// consume a `data_filter: "zlib"` eagitexi image and by round-trip tests.
func Decompress(compressed []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("blobio: open zlib reader: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("blobio: zlib read: %w", err)
	}
	return out, nil
}

// CompressBytes zlib-compresses plain in one shot, for generators that have
// the whole payload in hand up front (the single-color and tiling
// generators) rather than streaming it incrementally.
func CompressBytes(plain []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(plain); err != nil {
		return nil, fmt.Errorf("blobio: zlib write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("blobio: zlib close: %w", err)
	}
	return buf.Bytes(), nil
}

var _ BlobIO = (*CompressedAppendableBuffer)(nil)
