package loader

import (
	"github.com/oxy-go/oxyres/internal/gpu"
	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/builder"
)

// LoadStatusEvent is fired on every terminal transition (spec §4.F
// "load_status_changed").
type LoadStatusEvent struct {
	RequestID resource.RequestID
	Kind      resource.Kind
	Status    resource.Status
	URL       string
}

// PlainTextEvent carries a fully materialized plain-text resource.
type PlainTextEvent struct {
	RequestID resource.RequestID
	URL       string
	Text      string
}

// StringLineEvent is fired once per line as a string-list source splits on
// "\n" (spec §4.E "string-list splits on \n and emits string_line_loaded
// per line").
type StringLineEvent struct {
	RequestID resource.RequestID
	URL       string
	Index     int
	Line      string
}

// StringListEvent carries the complete split line list.
type StringListEvent struct {
	RequestID resource.RequestID
	URL       string
	Lines     []string
}

// URLListEvent carries a list of resource locators parsed from a
// newline-separated text source.
type URLListEvent struct {
	RequestID resource.RequestID
	URL       string
	URLs      []string
}

// FloatVectorEvent carries an assembled float vector.
type FloatVectorEvent struct {
	RequestID resource.RequestID
	URL       string
	Values    []float64
}

// Vec3VectorEvent carries an assembled vec3 vector.
type Vec3VectorEvent struct {
	RequestID resource.RequestID
	URL       string
	Values    []builder.Vec3
}

// Mat4VectorEvent carries an assembled mat4 vector.
type Mat4VectorEvent struct {
	RequestID resource.RequestID
	URL       string
	Values    []builder.Mat4
}

// SmoothVec3CurveEvent carries a smoothed vec3 curve. The curve-fitting
// itself is the shape-generator library's job (§1 Non-goals: the core only
// forwards the parsed value tree to it), so this event's ControlPoint field is the
// decoded control-point vector the curve was built from.
type SmoothVec3CurveEvent struct {
	RequestID    resource.RequestID
	URL          string
	ControlPoint []builder.Vec3
}

// ValueTreeEvent carries the raw decoded JSON document a value-tree
// continuation (shape generator, camera parameters, ...) consumes next.
type ValueTreeEvent struct {
	RequestID resource.RequestID
	URL       string
	Raw       []byte
}

// GLSLSourceEvent carries accumulated GLSL source text (spec §4.E "GLSL
// accumulates char pointers + lengths as a glsl_source_ref").
type GLSLSourceEvent struct {
	RequestID resource.RequestID
	URL       string
	Source    string
}

// ShapeGeneratorEvent fires once a shape generator's JSON input has been
// fetched, for the (externally supplied, §1 Non-goals) shape-generator
// library to consume. Handle holds the fetched document's raw bytes.
type ShapeGeneratorEvent struct {
	RequestID resource.RequestID
	URL       string
	Handle    any
}

// GLShapeEvent fires once a gl_shape request's document has been fetched.
// Handle holds the document's raw bytes; no vertex/index layout is resolved.
type GLShapeEvent struct {
	RequestID resource.RequestID
	URL       string
	Handle    any
}

// GLGeometryAndBindingsEvent fires once a gl_geometry_and_bindings request's
// document has been fetched. Handle holds the document's raw bytes; no
// vertex/index buffers are created or bound.
type GLGeometryAndBindingsEvent struct {
	RequestID resource.RequestID
	URL       string
	Handle    any
}

// GLShaderIncludeEvent carries accumulated shader-include source text.
type GLShaderIncludeEvent struct {
	RequestID resource.RequestID
	URL       string
	Source    string
}

// GLShaderEvent carries a compiled shader handle.
type GLShaderEvent struct {
	RequestID resource.RequestID
	URL       string
	Shader    gpu.Shader
}

// GLProgramEvent carries a linked program handle.
type GLProgramEvent struct {
	RequestID resource.RequestID
	URL       string
	Program   gpu.Program
	Inputs    []builder.ProgramInput
}

// GLTextureImagesEvent carries one decoded texture-image level/face.
type GLTextureImagesEvent struct {
	RequestID resource.RequestID
	URL       string
	Level     int
	XOffs     int
	YOffs     int
	ZOffs     int
	Width     int
	Height    int
	Depth     int
	Channels  int
	Pixels    []byte
}

// GLTextureEvent carries a fully built texture handle.
type GLTextureEvent struct {
	RequestID resource.RequestID
	URL       string
	Texture   gpu.Texture
}

// GLBufferEvent carries a filled GPU buffer handle.
type GLBufferEvent struct {
	RequestID resource.RequestID
	URL       string
	Buffer    gpu.Buffer
}

// MappedStructEvent is fired once a mapped-struct load completes, carrying
// the loader-style completion status (spec §4.D "the loader variant...
// sets a status").
type MappedStructEvent struct {
	RequestID resource.RequestID
	URL       string
	Status    builder.Status
}

// Signals is the synchronous observer bus every request_<kind> result
// fires into (spec §4.F "Signals"). Every field is a plain listener
// slice rather than a channel: the whole core is single-threaded
// cooperative (spec §5), so a broadcast list invoked inline from Update is
// both simpler and truer to the spec than a channel fan-out would be (see
// Design Notes, "Observer signals").
type Signals struct {
	StatusChanged         []func(LoadStatusEvent)
	PlainTextLoaded       []func(PlainTextEvent)
	StringLineLoaded      []func(StringLineEvent)
	StringListLoaded      []func(StringListEvent)
	URLListLoaded         []func(URLListEvent)
	FloatVectorLoaded     []func(FloatVectorEvent)
	Vec3VectorLoaded      []func(Vec3VectorEvent)
	Mat4VectorLoaded      []func(Mat4VectorEvent)
	SmoothVec3CurveLoaded []func(SmoothVec3CurveEvent)
	ValueTreeLoaded       []func(ValueTreeEvent)
	GLSLSourceLoaded      []func(GLSLSourceEvent)
	ShapeGeneratorLoaded  []func(ShapeGeneratorEvent)
	GLShapeLoaded         []func(GLShapeEvent)
	GLGeometryLoaded      []func(GLGeometryAndBindingsEvent)
	GLShaderIncludeLoaded []func(GLShaderIncludeEvent)
	GLShaderLoaded        []func(GLShaderEvent)
	GLProgramLoaded       []func(GLProgramEvent)
	GLTextureImagesLoaded []func(GLTextureImagesEvent)
	GLTextureLoaded       []func(GLTextureEvent)
	GLBufferLoaded        []func(GLBufferEvent)
	MappedStructLoaded    []func(MappedStructEvent)
}

func (s *Signals) fireStatusChanged(e LoadStatusEvent) {
	for _, fn := range s.StatusChanged {
		fn(e)
	}
}

// Observer handler interfaces — any type implementing one or more of these
// is auto-wired by ConnectObserver, matching spec §4.F's "any type that
// defines handle_<signal>(info) is auto-wired" compile-time observer
// concept. Go has no template-level trait introspection, so this package
// models it the idiomatic way: a family of tiny optional interfaces, each
// type-asserted against in turn (the same "does it implement io.Closer?"
// shape the standard library itself uses).
type (
	StatusChangedHandler         interface{ HandleLoadStatusChanged(LoadStatusEvent) }
	PlainTextLoadedHandler       interface{ HandlePlainTextLoaded(PlainTextEvent) }
	StringLineLoadedHandler      interface{ HandleStringLineLoaded(StringLineEvent) }
	StringListLoadedHandler      interface{ HandleStringListLoaded(StringListEvent) }
	URLListLoadedHandler         interface{ HandleURLListLoaded(URLListEvent) }
	FloatVectorLoadedHandler     interface{ HandleFloatVectorLoaded(FloatVectorEvent) }
	Vec3VectorLoadedHandler      interface{ HandleVec3VectorLoaded(Vec3VectorEvent) }
	Mat4VectorLoadedHandler      interface{ HandleMat4VectorLoaded(Mat4VectorEvent) }
	SmoothVec3CurveLoadedHandler interface {
		HandleSmoothVec3CurveLoaded(SmoothVec3CurveEvent)
	}
	ValueTreeLoadedHandler       interface{ HandleValueTreeLoaded(ValueTreeEvent) }
	GLSLSourceLoadedHandler      interface{ HandleGLSLSourceLoaded(GLSLSourceEvent) }
	ShapeGeneratorLoadedHandler  interface{ HandleShapeGeneratorLoaded(ShapeGeneratorEvent) }
	GLShapeLoadedHandler         interface{ HandleGLShapeLoaded(GLShapeEvent) }
	GLGeometryLoadedHandler      interface {
		HandleGLGeometryAndBindingsLoaded(GLGeometryAndBindingsEvent)
	}
	GLShaderIncludeLoadedHandler interface {
		HandleGLShaderIncludeLoaded(GLShaderIncludeEvent)
	}
	GLShaderLoadedHandler        interface{ HandleGLShaderLoaded(GLShaderEvent) }
	GLProgramLoadedHandler       interface{ HandleGLProgramLoaded(GLProgramEvent) }
	GLTextureImagesLoadedHandler interface {
		HandleGLTextureImagesLoaded(GLTextureImagesEvent)
	}
	GLTextureLoadedHandler    interface{ HandleGLTextureLoaded(GLTextureEvent) }
	GLBufferLoadedHandler     interface{ HandleGLBufferLoaded(GLBufferEvent) }
	MappedStructLoadedHandler interface{ HandleMappedStructLoaded(MappedStructEvent) }
)

// ConnectObserver wires every signal obs implements a handler interface
// for (spec §4.F "connect_observer(obs)"). An observer satisfying several
// handler interfaces is wired to all of them.
func (l *Loader) ConnectObserver(obs any) {
	s := &l.signals
	if h, ok := obs.(StatusChangedHandler); ok {
		s.StatusChanged = append(s.StatusChanged, h.HandleLoadStatusChanged)
	}
	if h, ok := obs.(PlainTextLoadedHandler); ok {
		s.PlainTextLoaded = append(s.PlainTextLoaded, h.HandlePlainTextLoaded)
	}
	if h, ok := obs.(StringLineLoadedHandler); ok {
		s.StringLineLoaded = append(s.StringLineLoaded, h.HandleStringLineLoaded)
	}
	if h, ok := obs.(StringListLoadedHandler); ok {
		s.StringListLoaded = append(s.StringListLoaded, h.HandleStringListLoaded)
	}
	if h, ok := obs.(URLListLoadedHandler); ok {
		s.URLListLoaded = append(s.URLListLoaded, h.HandleURLListLoaded)
	}
	if h, ok := obs.(FloatVectorLoadedHandler); ok {
		s.FloatVectorLoaded = append(s.FloatVectorLoaded, h.HandleFloatVectorLoaded)
	}
	if h, ok := obs.(Vec3VectorLoadedHandler); ok {
		s.Vec3VectorLoaded = append(s.Vec3VectorLoaded, h.HandleVec3VectorLoaded)
	}
	if h, ok := obs.(Mat4VectorLoadedHandler); ok {
		s.Mat4VectorLoaded = append(s.Mat4VectorLoaded, h.HandleMat4VectorLoaded)
	}
	if h, ok := obs.(SmoothVec3CurveLoadedHandler); ok {
		s.SmoothVec3CurveLoaded = append(s.SmoothVec3CurveLoaded, h.HandleSmoothVec3CurveLoaded)
	}
	if h, ok := obs.(ValueTreeLoadedHandler); ok {
		s.ValueTreeLoaded = append(s.ValueTreeLoaded, h.HandleValueTreeLoaded)
	}
	if h, ok := obs.(GLSLSourceLoadedHandler); ok {
		s.GLSLSourceLoaded = append(s.GLSLSourceLoaded, h.HandleGLSLSourceLoaded)
	}
	if h, ok := obs.(ShapeGeneratorLoadedHandler); ok {
		s.ShapeGeneratorLoaded = append(s.ShapeGeneratorLoaded, h.HandleShapeGeneratorLoaded)
	}
	if h, ok := obs.(GLShapeLoadedHandler); ok {
		s.GLShapeLoaded = append(s.GLShapeLoaded, h.HandleGLShapeLoaded)
	}
	if h, ok := obs.(GLGeometryLoadedHandler); ok {
		s.GLGeometryLoaded = append(s.GLGeometryLoaded, h.HandleGLGeometryAndBindingsLoaded)
	}
	if h, ok := obs.(GLShaderIncludeLoadedHandler); ok {
		s.GLShaderIncludeLoaded = append(s.GLShaderIncludeLoaded, h.HandleGLShaderIncludeLoaded)
	}
	if h, ok := obs.(GLShaderLoadedHandler); ok {
		s.GLShaderLoaded = append(s.GLShaderLoaded, h.HandleGLShaderLoaded)
	}
	if h, ok := obs.(GLProgramLoadedHandler); ok {
		s.GLProgramLoaded = append(s.GLProgramLoaded, h.HandleGLProgramLoaded)
	}
	if h, ok := obs.(GLTextureImagesLoadedHandler); ok {
		s.GLTextureImagesLoaded = append(s.GLTextureImagesLoaded, h.HandleGLTextureImagesLoaded)
	}
	if h, ok := obs.(GLTextureLoadedHandler); ok {
		s.GLTextureLoaded = append(s.GLTextureLoaded, h.HandleGLTextureLoaded)
	}
	if h, ok := obs.(GLBufferLoadedHandler); ok {
		s.GLBufferLoaded = append(s.GLBufferLoaded, h.HandleGLBufferLoaded)
	}
	if h, ok := obs.(MappedStructLoadedHandler); ok {
		s.MappedStructLoaded = append(s.MappedStructLoaded, h.HandleMappedStructLoaded)
	}
}
