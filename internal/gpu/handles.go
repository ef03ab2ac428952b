package gpu

import (
	"log"

	"github.com/cogentcore/webgpu/wgpu"
)

// Shader is a linear, move-only handle around a compiled WGSL shader module.
// It follows the same "owned GPU object, explicit release" shape as
// bindGroupProvider.Release in the teacher engine: Close is idempotent, and
// calling it on a zero-value or already-released handle does nothing and
// returns nil.
type Shader struct {
	kind   ShaderType
	label  string
	module *wgpu.ShaderModule
}

// Kind returns the shader's type.
func (s Shader) Kind() ShaderType { return s.kind }

// Label returns the shader's debug label.
func (s Shader) Label() string { return s.label }

// Module returns the underlying WebGPU shader module, or nil for a
// zero-value Shader.
func (s Shader) Module() *wgpu.ShaderModule { return s.module }

// Valid reports whether the handle owns a compiled module.
func (s Shader) Valid() bool { return s.module != nil }

// Close releases the underlying shader module. Safe to call on a zero-value
// Shader or to call twice.
func (s *Shader) Close() error {
	if s.module == nil {
		return nil
	}
	s.module.Release()
	s.module = nil
	return nil
}

// TextureDescriptor is the engine-neutral shape of the spec's "GL texture
// parameters" (Data Model §3), translated to WebGPU terms.
type TextureDescriptor struct {
	Label          string
	Dimensions     int // 1, 2 or 3 per spec Data Model invariant
	Width          uint32
	Height         uint32
	Depth          uint32 // also doubles as array-layer / cube-face count
	Levels         uint32
	Format         wgpu.TextureFormat
	Usage          wgpu.TextureUsage
	GenerateMipmap bool
}

func (d TextureDescriptor) toWGPU() *wgpu.TextureDescriptor {
	dim := wgpu.TextureDimension2D
	switch d.Dimensions {
	case 1:
		dim = wgpu.TextureDimension1D
	case 3:
		dim = wgpu.TextureDimension3D
	}
	levels := d.Levels
	if levels == 0 {
		levels = 1
	}
	depth := d.Depth
	if depth == 0 {
		depth = 1
	}
	usage := d.Usage
	if usage == 0 {
		usage = wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst
	}
	format := d.Format
	if format == wgpu.TextureFormatUndefined {
		format = wgpu.TextureFormatRGBA8UnormSrgb
	}
	return &wgpu.TextureDescriptor{
		Label:     d.Label,
		Usage:     usage,
		Dimension: dim,
		Size: wgpu.Extent3D{
			Width:              d.Width,
			Height:             d.Height,
			DepthOrArrayLayers: depth,
		},
		Format:        format,
		MipLevelCount: levels,
		SampleCount:   1,
	}
}

// Texture is a linear handle over a GPU texture plus the level/face images
// streamed into it. The bitset of which (level, face) pairs have been
// written mirrors the "level-images bitset" field of the texture pending
// state (Data Model, "Pending-state variants").
type Texture struct {
	desc     TextureDescriptor
	tex      *wgpu.Texture
	uploaded map[uint64]bool
}

// Descriptor returns the descriptor the texture was created from.
func (t Texture) Descriptor() TextureDescriptor { return t.desc }

// Handle returns the underlying WebGPU texture, or nil for a zero value.
func (t Texture) Handle() *wgpu.Texture { return t.tex }

// Valid reports whether the handle owns a created texture.
func (t Texture) Valid() bool { return t.tex != nil }

// levelFaceKey packs a mip level and cube-map face/array-layer offset into a
// single key for the uploaded-set.
func levelFaceKey(level, face uint32) uint64 {
	return uint64(level)<<32 | uint64(face)
}

// WriteLevel uploads one texture level/face image. offsets follow the spec's
// GL texture image parameters ((x,y,z)_offs); zOffs doubles as the cube-map
// face index per the Data Model invariant that projects the face index into
// z_offs∈[0..5].
func (t *Texture) WriteLevel(queue *wgpu.Queue, level uint32, xOffs, yOffs, zOffs uint32, width, height uint32, bytesPerPixel uint32, pixels []byte) {
	if t.tex == nil {
		return
	}
	queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.tex,
			MipLevel: level,
			Origin:   wgpu.Origin3D{X: xOffs, Y: yOffs, Z: zOffs},
			Aspect:   wgpu.TextureAspectAll,
		},
		pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  width * bytesPerPixel,
			RowsPerImage: height,
		},
		&wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
	)
	if t.uploaded == nil {
		t.uploaded = make(map[uint64]bool)
	}
	t.uploaded[levelFaceKey(level, zOffs)] = true
}

// LevelWritten reports whether WriteLevel has been called for the given
// level/face pair.
func (t Texture) LevelWritten(level, face uint32) bool {
	return t.uploaded[levelFaceKey(level, face)]
}

// CreateView creates a default texture view for sampling.
func (t Texture) CreateView() (*wgpu.TextureView, error) {
	return t.tex.CreateView(nil)
}

// Close releases the underlying texture. Safe on a zero value.
func (t *Texture) Close() error {
	if t.tex == nil {
		return nil
	}
	t.tex.Release()
	t.tex = nil
	t.uploaded = nil
	return nil
}

// BufferDescriptor is the engine-neutral shape of a GL buffer build target.
type BufferDescriptor struct {
	Label string
	Usage wgpu.BufferUsage
	Size  uint64
}

// Buffer is a linear handle over a GPU buffer.
type Buffer struct {
	desc BufferDescriptor
	buf  *wgpu.Buffer
	size uint64
}

// Descriptor returns the descriptor the buffer was created from.
func (b Buffer) Descriptor() BufferDescriptor { return b.desc }

// Handle returns the underlying WebGPU buffer, or nil for a zero value.
func (b Buffer) Handle() *wgpu.Buffer { return b.buf }

// Size returns the allocated buffer size in bytes.
func (b Buffer) Size() uint64 { return b.size }

// Valid reports whether the handle owns a created buffer.
func (b Buffer) Valid() bool { return b.buf != nil }

// Write uploads bytes at the given offset via the owning context's queue.
func (b *Buffer) Write(queue *wgpu.Queue, offset uint64, data []byte) {
	if b.buf == nil {
		return
	}
	queue.WriteBuffer(b.buf, offset, data)
}

// Close releases the underlying buffer. Safe on a zero value.
func (b *Buffer) Close() error {
	if b.buf == nil {
		return nil
	}
	b.buf.Release()
	b.buf = nil
	return nil
}

// ProgramDescriptor describes the shader set a Program is linked from.
type ProgramDescriptor struct {
	Label    string
	Vertex   Shader
	Fragment Shader
	Compute  Shader
}

// Program is a linear handle over a linked render or compute pipeline, plus
// the shaders it was built from. Context.CreateProgram only validates and
// stages the shader set; the pipeline fields stay nil until whatever
// consumes the Program attaches one through SetRenderPipeline or
// SetComputePipeline. Nothing in this module attaches a pipeline.
type Program struct {
	label           string
	vertex, fragment, compute Shader
	renderPipeline  *wgpu.RenderPipeline
	computePipeline *wgpu.ComputePipeline
}

// Label returns the program's debug label.
func (p Program) Label() string { return p.label }

// IsCompute reports whether this program links a compute shader rather than
// a vertex+fragment pair.
func (p Program) IsCompute() bool { return p.compute.Valid() }

// Shader returns the shader of the given type linked into this program, or
// the zero Shader if none was set.
func (p Program) Shader(kind ShaderType) Shader {
	switch kind {
	case ShaderTypeVertex:
		return p.vertex
	case ShaderTypeFragment:
		return p.fragment
	case ShaderTypeCompute:
		return p.compute
	default:
		return Shader{}
	}
}

// SetRenderPipeline attaches the linked render pipeline.
func (p *Program) SetRenderPipeline(rp *wgpu.RenderPipeline) { p.renderPipeline = rp }

// SetComputePipeline attaches the linked compute pipeline.
func (p *Program) SetComputePipeline(cp *wgpu.ComputePipeline) { p.computePipeline = cp }

// RenderPipeline returns the linked render pipeline, or nil.
func (p Program) RenderPipeline() *wgpu.RenderPipeline { return p.renderPipeline }

// ComputePipeline returns the linked compute pipeline, or nil.
func (p Program) ComputePipeline() *wgpu.ComputePipeline { return p.computePipeline }

// Valid reports whether the program has been linked into a pipeline.
func (p Program) Valid() bool { return p.renderPipeline != nil || p.computePipeline != nil }

// Close releases the linked pipeline and the shaders it owns. If Close is
// called while the pipeline was never linked (a cancelled in-flight build),
// it still releases whichever shader modules were already compiled, and logs
// the partial teardown so a cancelled child build is observable.
func (p *Program) Close() error {
	if !p.Valid() && (p.vertex.Valid() || p.fragment.Valid() || p.compute.Valid()) {
		log.Printf("gpu: releasing program %q before it was linked (cancelled build)", p.label)
	}
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
	if p.computePipeline != nil {
		p.computePipeline.Release()
		p.computePipeline = nil
	}
	_ = p.vertex.Close()
	_ = p.fragment.Close()
	_ = p.compute.Close()
	return nil
}
