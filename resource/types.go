// Package resource holds the shared vocabulary of the resource subsystem:
// the closed Kind and Status enumerations, the dense RequestID, and request
// Params (spec §3 "Data Model"). Sub-packages (locator, blobio, provider,
// builder, pending, loader) depend on this package rather than on each
// other, keeping the dependency order of spec §2 (A ← B ← C, A ← D,
// (B,D) ← E ← F) a straight line instead of a cycle.
package resource

import "time"

// RequestID uniquely identifies one pending request for its entire
// lifetime. It is a dense index into the pending-request arena (see Design
// Notes: "rewrite as an arena of pending requests keyed by dense RequestId")
// rather than a pointer, so continuations can be stored as plain
// comparable values instead of weak references.
type RequestID uint64

// Invalid is the zero RequestID, used as the "no continuation" / "not yet
// assigned" sentinel. The arena never hands out this value.
const Invalid RequestID = 0

// Kind is the closed enumeration of in-memory artifact types the loader can
// produce (spec §3 "Resource kind").
type Kind int

const (
	KindUnknown Kind = iota
	KindPlainText
	KindStringList
	KindURLList
	KindFloatVector
	KindVec3Vector
	KindMat4Vector
	KindSmoothVec3Curve
	KindValueTree
	KindGLSLSource
	KindShapeGenerator
	KindGLShape
	KindGLGeometryAndBindings
	KindGLShaderInclude
	KindGLShader
	KindGLProgram
	KindGLTextureImage
	KindGLTexture
	KindGLBuffer
	KindMappedStruct
	// KindFinished is the sentinel kind used once a pending request has been
	// swept from the arena; it is never requested directly.
	KindFinished
)

func (k Kind) String() string {
	switch k {
	case KindPlainText:
		return "plain_text"
	case KindStringList:
		return "string_list"
	case KindURLList:
		return "url_list"
	case KindFloatVector:
		return "float_vector"
	case KindVec3Vector:
		return "vec3_vector"
	case KindMat4Vector:
		return "mat4_vector"
	case KindSmoothVec3Curve:
		return "smooth_vec3_curve"
	case KindValueTree:
		return "value_tree"
	case KindGLSLSource:
		return "glsl_source"
	case KindShapeGenerator:
		return "shape_generator"
	case KindGLShape:
		return "gl_shape"
	case KindGLGeometryAndBindings:
		return "gl_geometry_and_bindings"
	case KindGLShaderInclude:
		return "gl_shader_include"
	case KindGLShader:
		return "gl_shader"
	case KindGLProgram:
		return "gl_program"
	case KindGLTextureImage:
		return "gl_texture_image"
	case KindGLTexture:
		return "gl_texture"
	case KindGLBuffer:
		return "gl_buffer"
	case KindMappedStruct:
		return "mapped_struct"
	case KindFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Status is the lifecycle state of a pending request (spec §3 "Resource
// status"). Loaded, Cancelled, NotFound and Error are terminal.
type Status int

const (
	StatusLoading Status = iota
	StatusLoaded
	StatusCancelled
	StatusNotFound
	StatusError
)

// Terminal reports whether s is one of the four terminal statuses.
func (s Status) Terminal() bool {
	switch s {
	case StatusLoaded, StatusCancelled, StatusNotFound, StatusError:
		return true
	default:
		return false
	}
}

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusCancelled:
		return "cancelled"
	case StatusNotFound:
		return "not_found"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Priority is an ordinal used by the transport/provider layer to decide
// fetch order; higher values are served first.
type Priority int

// Default priority used when a request does not specify one.
const DefaultPriority Priority = 0

// Params are the request parameters every request_<kind> call takes (spec
// §3 "Request parameters").
type Params struct {
	URL string
	// MaxTime is a deadline hint for byte delivery; zero means "no hint".
	MaxTime time.Duration
	// Priority is an ordinal used by the transport layer; zero is
	// DefaultPriority.
	Priority Priority
	// Label is an optional human-readable label propagated to the finished
	// GL object on success (spec §4.E "Label propagation").
	Label string
}
