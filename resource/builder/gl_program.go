package builder

import (
	"github.com/oxy-go/oxyres/internal/gpu"
	"github.com/oxy-go/oxyres/resource"
)

// AttribKind names the kind of vertex attribute a program input binding
// declares (position, normal, texcoord, ...); the exact vocabulary is
// supplied by the shape-generator library the value tree's `attrib_kind`
// strings already use, so GLProgram stores it as an opaque string rather
// than re-enumerating it.
type AttribKind = string

// ProgramInput is one `inputs[name] = {attrib_kind, variant_index}` binding
// (spec §4.D "GL program builder").
type ProgramInput struct {
	Name         string
	AttribKind   AttribKind
	VariantIndex int
}

// ShaderRequester issues a child request for a shader of the given type at
// url, returning the request id the parent program tracks until the child
// reaches a terminal state (spec §4.D "for each entry in `shaders` issues a
// sub-request... and records the child request id").
type ShaderRequester interface {
	RequestShader(kind gpu.ShaderType, url string) resource.RequestID
}

// GLProgram accumulates program input bindings and, as each `shaders` entry
// closes, issues one child shader request for that entry — recording each
// child id so the parent can track when "all shader children requested"
// transitions to "all shader children loaded" (spec §4.D "GL program
// builder").
type GLProgram struct {
	requester ShaderRequester

	inputs       []ProgramInput
	shaderKind   gpu.ShaderType
	shaderURL    string
	haveKind     bool
	haveURL      bool
	childIDs     []resource.RequestID
	inShaders    bool
	label        string
	failed       bool
}

// NewGLProgram creates a GLProgram builder that issues shader child
// requests through requester.
func NewGLProgram(requester ShaderRequester) *GLProgram {
	return &GLProgram{requester: requester}
}

func (b *GLProgram) MaxTokenSize() int { return defaultMaxTokenSize }

func (b *GLProgram) AddObject(p Path) {
	if len(p) == 1 && p[0] == "shaders" {
		b.inShaders = true
		return
	}
	if b.inShaders && len(p) == 2 {
		b.haveKind, b.haveURL = false, false
		return
	}
	if len(p) == 2 && p[0] == "inputs" {
		b.inputs = append(b.inputs, ProgramInput{Name: p[1]})
	}
}

func (b *GLProgram) AddInts(p Path, values []int64) {
	if len(p) == 3 && p[0] == "inputs" && p[2] == "variant_index" && len(values) > 0 {
		if n := len(b.inputs); n > 0 {
			b.inputs[n-1].VariantIndex = int(values[0])
		}
	}
}

func (b *GLProgram) AddFloats(Path, []float64) {}
func (b *GLProgram) AddBools(Path, []bool)     {}

func (b *GLProgram) AddStrings(p Path, values []string) {
	if len(values) == 0 {
		return
	}
	v := values[0]
	switch {
	case len(p) == 3 && p[0] == "inputs" && p[2] == "attrib_kind":
		if n := len(b.inputs); n > 0 {
			b.inputs[n-1].AttribKind = v
		}
	case len(p) == 1 && p[0] == "label":
		b.label = v
	case b.inShaders && len(p) >= 2 && p[len(p)-1] == "type":
		if kind, ok := gpu.ParseShaderType(v); ok {
			b.shaderKind, b.haveKind = kind, true
		}
	case b.inShaders && len(p) >= 2 && p[len(p)-1] == "url":
		b.shaderURL, b.haveURL = v, true
	}
}

// FinishObject issues a shader child request once a `shaders` entry closes
// with both `type` and `url` set; closing `shaders` itself (and, by the
// value-tree grammar that precedes `inputs[name]` entries, closing an
// `inputs[name]` entry) just clears the relevant scratch state.
func (b *GLProgram) FinishObject(p Path) {
	switch {
	case len(p) == 1 && p[0] == "shaders":
		b.inShaders = false

	case b.inShaders && len(p) == 2:
		if b.haveKind && b.haveURL {
			id := b.requester.RequestShader(b.shaderKind, b.shaderURL)
			b.childIDs = append(b.childIDs, id)
		} else {
			b.failed = true
		}

	}
}

func (b *GLProgram) Finish() {}
func (b *GLProgram) Failed() bool { return b.failed }

// Inputs returns the accumulated program input bindings.
func (b *GLProgram) Inputs() []ProgramInput { return b.inputs }

// ChildShaderRequests returns the request ids issued for each `shaders`
// entry, in declaration order.
func (b *GLProgram) ChildShaderRequests() []resource.RequestID { return b.childIDs }

// Label returns the program's declared label, if any.
func (b *GLProgram) Label() string { return b.label }

var _ Builder = (*GLProgram)(nil)
