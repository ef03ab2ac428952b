// Package blobio implements the Blob I/O abstraction (spec §4.A): a
// polymorphic, random-access byte source with a cooperative prepare() pump
// for sources that generate their bytes incrementally instead of serving an
// already-materialized buffer.
package blobio

import "fmt"

// PrepareState is the result of one Prepare call.
type PrepareState int

const (
	// Working indicates the source has more internal work to do before all
	// of its bytes are available.
	Working PrepareState = iota
	// Finished indicates the source has no more bytes to produce.
	Finished
	// Failed indicates the source's internal pipeline failed irrecoverably.
	Failed
)

func (s PrepareState) String() string {
	switch s {
	case Working:
		return "working"
	case Finished:
		return "finished"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress is the result of a Prepare call: a coarse state plus a
// monotonically non-decreasing fraction in [0, 1].
type Progress struct {
	State    PrepareState
	Fraction float32
}

// Done reports whether the source has reached a terminal prepare state.
func (p Progress) Done() bool { return p.State == Finished || p.State == Failed }

// BlobIO is the abstract byte source every provider hands back to a pending
// request. fetch_fragment performs random-access reads of a window that may
// only be partially materialized; Prepare must be idempotent and cheap, and
// safe to call before the source is Finished — FetchFragment must return
// whatever prefix is currently available (spec §4.A).
type BlobIO interface {
	// TotalSize reports the currently known size. For generating sources
	// this may grow between Prepare calls.
	TotalSize() int64

	// FetchFragment copies the window [offset, offset+len(dst)) into dst
	// without consuming it, returning the number of bytes actually written
	// (which may be less than len(dst) near the end of the materialized
	// prefix).
	FetchFragment(offset int64, dst []byte) int

	// Prepare advances the source's internal pipeline by one bounded unit of
	// work and reports progress. Called periodically by the update pump.
	Prepare() (Progress, error)
}

// FixedBuffer is a BlobIO over an already fully materialized byte slice
// (e.g. an embedded resource or a request-list index). Prepare always
// reports Finished immediately.
type FixedBuffer struct {
	data []byte
}

// NewFixedBuffer wraps data as a BlobIO. data is not copied; the caller must
// not mutate it afterward.
func NewFixedBuffer(data []byte) *FixedBuffer {
	return &FixedBuffer{data: data}
}

func (b *FixedBuffer) TotalSize() int64 { return int64(len(b.data)) }

func (b *FixedBuffer) FetchFragment(offset int64, dst []byte) int {
	return fetchFromSlice(b.data, offset, dst)
}

func (b *FixedBuffer) Prepare() (Progress, error) {
	return Progress{State: Finished, Fraction: 1}, nil
}

func fetchFromSlice(data []byte, offset int64, dst []byte) int {
	if offset < 0 || offset >= int64(len(data)) {
		return 0
	}
	n := copy(dst, data[offset:])
	return n
}

// AppendableBuffer is a BlobIO a generating provider appends to over
// successive Append calls while consumers read whatever prefix has been
// materialized so far. The producerDone flag, once set, makes Prepare report
// Finished.
type AppendableBuffer struct {
	data         []byte
	producerDone bool
	producerErr  error
}

// NewAppendableBuffer creates an empty appendable buffer.
func NewAppendableBuffer() *AppendableBuffer {
	return &AppendableBuffer{}
}

// Append grows the materialized prefix. Safe to call repeatedly as the
// producer generates more bytes.
func (b *AppendableBuffer) Append(chunk []byte) {
	b.data = append(b.data, chunk...)
}

// Finish marks the producer as done; subsequent Prepare calls report
// Finished. If err is non-nil, Prepare instead reports Failed.
func (b *AppendableBuffer) Finish(err error) {
	b.producerDone = true
	b.producerErr = err
}

func (b *AppendableBuffer) TotalSize() int64 { return int64(len(b.data)) }

func (b *AppendableBuffer) FetchFragment(offset int64, dst []byte) int {
	return fetchFromSlice(b.data, offset, dst)
}

func (b *AppendableBuffer) Prepare() (Progress, error) {
	if !b.producerDone {
		return Progress{State: Working}, nil
	}
	if b.producerErr != nil {
		return Progress{State: Failed}, b.producerErr
	}
	return Progress{State: Finished, Fraction: 1}, nil
}

// Producer is the callback signature a provider implements to advance a
// generating source by one bounded unit of work per Prepare call. It reports
// its own progress fraction in [0, 1] and returns PrepareState directly so
// the blob can surface multi-phase progress (e.g. the cube-map-sky
// provider's "parameters / rendering / streaming" phases, spec §4.C).
type Producer func(buf *AppendableBuffer) (Progress, error)

// GeneratedBuffer wraps an AppendableBuffer with a Producer that is invoked
// once per Prepare call until it reports Finished or Failed. This is the
// shape every "generated-texture provider" (checkerboard, stripes, noise,
// single-colour, tiling, cube-map-sky) uses instead of materializing its
// whole body up front.
type GeneratedBuffer struct {
	buf      *AppendableBuffer
	produce  Producer
	finished bool
}

// NewGeneratedBuffer builds a BlobIO driven by produce.
func NewGeneratedBuffer(produce Producer) *GeneratedBuffer {
	return &GeneratedBuffer{buf: NewAppendableBuffer(), produce: produce}
}

func (g *GeneratedBuffer) TotalSize() int64 { return g.buf.TotalSize() }

func (g *GeneratedBuffer) FetchFragment(offset int64, dst []byte) int {
	return g.buf.FetchFragment(offset, dst)
}

func (g *GeneratedBuffer) Prepare() (Progress, error) {
	if g.finished {
		return Progress{State: Finished, Fraction: 1}, nil
	}
	progress, err := g.produce(g.buf)
	if err != nil {
		g.finished = true
		return Progress{State: Failed}, err
	}
	if progress.Done() {
		g.finished = true
	}
	return progress, nil
}

// ensure interface satisfaction at compile time.
var (
	_ BlobIO = (*FixedBuffer)(nil)
	_ BlobIO = (*AppendableBuffer)(nil)
	_ BlobIO = (*GeneratedBuffer)(nil)
)

// ErrExhausted is returned by blob sources that could not allocate the
// buffer space a fragment or append requires (spec §7, "resource_exhausted").
var ErrExhausted = fmt.Errorf("blobio: resource exhausted")
