package blobio

import (
	"fmt"
	"os"
)

// FileIO is the file BlobIO variant (spec §4.A): random seek+read on a
// regular file, grounded directly in the original implementation's
// `file_io` (original_source/source/app/resource_provider/file.cpp), which
// opens the stream once, measures its size via seek-to-end, then serves
// fetch_fragment via seek+read. The file provider that constructs FileIO is
// responsible for rejecting symlinks before calling NewFileIO.
type FileIO struct {
	file *os.File
	size int64
}

// NewFileIO opens path for random-access reads and measures its size.
func NewFileIO(path string) (*FileIO, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("blobio: open %q: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("blobio: stat %q: %w", path, err)
	}
	return &FileIO{file: f, size: info.Size()}, nil
}

func (f *FileIO) TotalSize() int64 { return f.size }

func (f *FileIO) FetchFragment(offset int64, dst []byte) int {
	if offset < 0 || offset >= f.size {
		return 0
	}
	n, err := f.file.ReadAt(dst, offset)
	if err != nil && n == 0 {
		return 0
	}
	return n
}

// Prepare for a plain file is always immediately Finished: there is no
// generating pipeline, the whole file is already on disk.
func (f *FileIO) Prepare() (Progress, error) {
	return Progress{State: Finished, Fraction: 1}, nil
}

// Close releases the underlying file handle. The loader does not call it:
// a FileIO's handle stays open until its owner closes it.
func (f *FileIO) Close() error {
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}

var _ BlobIO = (*FileIO)(nil)
