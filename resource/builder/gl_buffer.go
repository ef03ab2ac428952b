package builder

// GLBuffer parses a buffer descriptor's label and inline data (spec §4.D
// "GL buffer builder": "parses label and data descriptor; fills the buffer
// via the GL context"). The actual GL buffer fill is performed by the
// caller once Finish reports success, via Data()/Label() — GLBuffer itself
// never touches a gpu.Context, keeping it testable without one.
type GLBuffer struct {
	label  string
	data   []byte
	failed bool
}

// NewGLBuffer creates an empty GLBuffer builder.
func NewGLBuffer() *GLBuffer { return &GLBuffer{} }

func (b *GLBuffer) MaxTokenSize() int { return defaultMaxTokenSize }

func (b *GLBuffer) AddStrings(p Path, values []string) {
	if len(p) == 1 && p[0] == "label" && len(values) > 0 {
		b.label = values[0]
	}
}

// AddInlineData attaches raw buffer bytes decoded out-of-band from the
// value-tree's `data` blob token, mirroring how GLTexture receives inline
// image bytes.
func (b *GLBuffer) AddInlineData(data []byte) { b.data = append(b.data[:0], data...) }

func (*GLBuffer) AddInts(Path, []int64)     {}
func (*GLBuffer) AddFloats(Path, []float64) {}
func (*GLBuffer) AddBools(Path, []bool)     {}
func (*GLBuffer) AddObject(Path)            {}
func (*GLBuffer) FinishObject(Path)         {}

func (b *GLBuffer) Finish() {
	if len(b.data) == 0 {
		b.failed = true
	}
}

func (b *GLBuffer) Failed() bool { return b.failed }

// Label returns the buffer's declared label, if any.
func (b *GLBuffer) Label() string { return b.label }

// Data returns the buffer's accumulated contents.
func (b *GLBuffer) Data() []byte { return b.data }

var _ Builder = (*GLBuffer)(nil)
