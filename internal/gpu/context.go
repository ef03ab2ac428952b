// Package gpu wraps the WebGPU device/queue pair behind the linear-handle
// abstraction the resource subsystem's builders and providers target. It
// plays the role the specification calls "the GL context": an opaque,
// shared-ownership handle that every GL-kind builder and the cube-map-sky
// provider go through to create textures, buffers, shader modules and
// programs, without any of them needing to touch wgpu directly.
package gpu

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Context is the single-threaded GPU entry point shared by every pending
// request that needs to allocate a GPU resource. All calls must happen on
// the same goroutine that drives the resource loader's update pump; the
// context itself performs no internal locking beyond what is needed to let
// multiple owners hold the same *Context value (see Data Model "Ownership").
type Context interface {
	// Device returns the underlying WebGPU device for calls this package
	// does not wrap directly.
	Device() *wgpu.Device

	// Queue returns the WebGPU queue used for texture/buffer uploads.
	Queue() *wgpu.Queue

	// CreateShader compiles WGSL source into a linear Shader handle.
	CreateShader(kind ShaderType, label, source string) (Shader, error)

	// CreateTexture allocates GPU texture storage for the given descriptor
	// and returns a linear Texture handle with no levels uploaded yet.
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// CreateBuffer allocates a GPU buffer and optionally uploads initial
	// contents, returning a linear Buffer handle.
	CreateBuffer(desc BufferDescriptor, initial []byte) (Buffer, error)

	// CreateProgram links a vertex and fragment Shader (or, for compute
	// programs, a single compute Shader) into a Program handle.
	CreateProgram(desc ProgramDescriptor) (Program, error)

	// Ensure reports whether the context is usable. Mirrors the one
	// control-flow guard the specification keeps from the original
	// implementation (§9, "Exceptions for control flow") around GL-context
	// readiness checks.
	Ensure() (bool, error)
}

type context struct {
	mu     sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue
}

// NewContext wraps an already-initialized WebGPU device/queue pair. The
// caller retains ownership of device and queue; Context never releases them.
func NewContext(device *wgpu.Device, queue *wgpu.Queue) Context {
	return &context{device: device, queue: queue}
}

func (c *context) Device() *wgpu.Device {
	return c.device
}

func (c *context) Queue() *wgpu.Queue {
	return c.queue
}

func (c *context) Ensure() (bool, error) {
	if c.device == nil || c.queue == nil {
		return false, fmt.Errorf("gpu: context has no device/queue attached")
	}
	return true, nil
}

func (c *context) CreateShader(kind ShaderType, label, source string) (Shader, error) {
	if ok, err := c.Ensure(); !ok {
		return Shader{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	mod, err := c.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return Shader{}, fmt.Errorf("gpu: compile shader %q: %w", label, err)
	}
	return Shader{kind: kind, label: label, module: mod}, nil
}

func (c *context) CreateTexture(desc TextureDescriptor) (Texture, error) {
	if ok, err := c.Ensure(); !ok {
		return Texture{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	tex, err := c.device.CreateTexture(desc.toWGPU())
	if err != nil {
		return Texture{}, fmt.Errorf("gpu: create texture %q: %w", desc.Label, err)
	}
	return Texture{desc: desc, tex: tex}, nil
}

func (c *context) CreateBuffer(desc BufferDescriptor, initial []byte) (Buffer, error) {
	if ok, err := c.Ensure(); !ok {
		return Buffer{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	size := desc.Size
	if uint64(len(initial)) > size {
		size = uint64(len(initial))
	}
	buf, err := c.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            desc.Label,
		Usage:            desc.Usage,
		Size:             size,
		MappedAtCreation: false,
	})
	if err != nil {
		return Buffer{}, fmt.Errorf("gpu: create buffer %q: %w", desc.Label, err)
	}
	if len(initial) > 0 {
		c.queue.WriteBuffer(buf, 0, initial)
	}
	return Buffer{desc: desc, buf: buf, size: size}, nil
}

func (c *context) CreateProgram(desc ProgramDescriptor) (Program, error) {
	if ok, err := c.Ensure(); !ok {
		return Program{}, err
	}
	if desc.Compute.module == nil && (desc.Vertex.module == nil || desc.Fragment.module == nil) {
		return Program{}, fmt.Errorf("gpu: program %q needs either a compute shader or vertex+fragment shaders", desc.Label)
	}
	// Linking (pipeline-layout + render/compute pipeline creation) is left to
	// whatever consumes the Program; the Context only validates here that the
	// shader set is complete and hands back an owned, as-yet-unlinked Program
	// that the consumer populates via SetRenderPipeline or SetComputePipeline.
	return Program{
		label:    desc.Label,
		vertex:   desc.Vertex,
		fragment: desc.Fragment,
		compute:  desc.Compute,
	}, nil
}

// ShaderType mirrors the "shader type" dimension of the pending-state
// payload for shader kind requests (Data Model, "Pending-state variants").
type ShaderType int

const (
	ShaderTypeVertex ShaderType = iota
	ShaderTypeFragment
	ShaderTypeGeometry
	ShaderTypeCompute
	ShaderTypeTessControl
	ShaderTypeTessEvaluation
)

// ParseShaderType maps the `type` field of a GL program descriptor's
// `shaders` entry (§6 "GL program descriptor JSON") to a ShaderType.
func ParseShaderType(name string) (ShaderType, bool) {
	switch name {
	case "vertex":
		return ShaderTypeVertex, true
	case "fragment":
		return ShaderTypeFragment, true
	case "geometry":
		return ShaderTypeGeometry, true
	case "compute":
		return ShaderTypeCompute, true
	case "tess_control":
		return ShaderTypeTessControl, true
	case "tess_evaluation":
		return ShaderTypeTessEvaluation, true
	default:
		return 0, false
	}
}
