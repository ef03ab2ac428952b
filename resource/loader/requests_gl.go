package loader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/oxy-go/oxyres/internal/gpu"
	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/builder"
	"github.com/oxy-go/oxyres/resource/pending"
)

// shapeGeneratorDriver forwards a decoded JSON document to the
// shape-generator library as its opaque Handle; the shape generator itself
// is an external collaborator (spec §1 Non-goals), so this driver's whole
// job is the forwarding, matching valueTreeDriver's pass-through shape.
type shapeGeneratorDriver struct{}

func (shapeGeneratorDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	raw := append([]byte(nil), data...)
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.ShapeGeneratorLoaded {
			fn(ShapeGeneratorEvent{RequestID: id, URL: url, Handle: raw})
		}
	})
}

// RequestShapeGenerator forwards url's JSON input to the shape-generator
// library (spec §4.D "Shape generator forwarder").
func (l *Loader) RequestShapeGenerator(params resource.Params) Result {
	return l.allocSource(resource.KindShapeGenerator, params, shapeGeneratorDriver{})
}

// glShapeDriver forwards a decoded shape document as a GL-ready shape
// handle; resolving vertex/index layouts against a gpu.Context is the
// shape-generator library's job (§1 Non-goals), so, like
// shapeGeneratorDriver, this is a typed pass-through.
type glShapeDriver struct{}

func (glShapeDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	raw := append([]byte(nil), data...)
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.GLShapeLoaded {
			fn(GLShapeEvent{RequestID: id, URL: url, Handle: raw})
		}
	})
}

// RequestGLShape forwards url's shape document, typed as a GL-ready shape
// (spec §4.D "GL shape wrapper").
func (l *Loader) RequestGLShape(params resource.Params) Result {
	return l.allocSource(resource.KindGLShape, params, glShapeDriver{})
}

type glGeometryDriver struct{}

func (glGeometryDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	raw := append([]byte(nil), data...)
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.GLGeometryLoaded {
			fn(GLGeometryAndBindingsEvent{RequestID: id, URL: url, Handle: raw})
		}
	})
}

// RequestGLGeometryAndBindings forwards url's shape document, typed as bound
// vertex/index geometry ready to draw (spec §4.D "GL geometry and bindings").
func (l *Loader) RequestGLGeometryAndBindings(params resource.Params) Result {
	return l.allocSource(resource.KindGLGeometryAndBindings, params, glGeometryDriver{})
}

// glShaderIncludeDriver decodes a finished fetch as GLSL include source text
// (spec §4.D "GL shader include builder"): unlike RequestGLShader, an
// include is never compiled on its own — it only ever feeds a #include
// directive another shader resolves — so this driver never touches
// l.gpu.
type glShaderIncludeDriver struct{}

func (glShaderIncludeDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	source := string(data)
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.GLShaderIncludeLoaded {
			fn(GLShaderIncludeEvent{RequestID: id, URL: url, Source: source})
		}
	})
}

// RequestGLShaderInclude fetches url as GLSL include source text.
func (l *Loader) RequestGLShaderInclude(params resource.Params) Result {
	return l.allocSource(resource.KindGLShaderInclude, params, glShaderIncludeDriver{})
}

// glShaderDriver compiles a finished fetch's GLSL source through the GPU
// context (spec §4.D "GL shader builder"), storing the compiled gpu.Shader
// on the entry's Payload so a parent GL program request can gather it once
// every shader child has joined (spec §4.E "Child joins").
type glShaderDriver struct{ kind gpu.ShaderType }

func (d glShaderDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	if l.gpu == nil {
		l.completeError(id, fmt.Errorf("loader: gl_shader %s: no gpu context attached", url))
		return
	}
	e, _ := l.arena.Get(id)
	label := ""
	if e != nil {
		label = e.Label
	}
	if label == "" {
		label = url
	}
	sh, err := l.gpu.CreateShader(d.kind, label, string(data))
	if err != nil {
		l.completeError(id, fmt.Errorf("loader: compile gl_shader %s: %w", url, err))
		return
	}
	if e != nil {
		e.Payload = sh
	}
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.GLShaderLoaded {
			fn(GLShaderEvent{RequestID: id, URL: url, Shader: sh})
		}
	})
}

// RequestGLShader fetches url as GLSL source and compiles it as a kind
// shader through the attached GPU context.
func (l *Loader) RequestGLShader(kind gpu.ShaderType, params resource.Params) Result {
	return l.allocSource(resource.KindGLShader, params, glShaderDriver{kind: kind})
}

// programChildRequester adapts a Loader to builder.ShaderRequester for one
// in-flight GL program request, recording every shader it issues as a child
// of parentID (spec §4.D "issues a sub-request... and records the child
// request id").
type programChildRequester struct {
	l        *Loader
	parentID resource.RequestID
}

func (r programChildRequester) RequestShader(kind gpu.ShaderType, url string) resource.RequestID {
	res := r.l.RequestGLShader(kind, resource.Params{URL: url})
	r.l.arena.AddChild(r.parentID, res.RequestID)
	return res.RequestID
}

// glProgramPayload is the Entry.Payload of an in-flight (and, once
// finalized, completed) GL program request.
type glProgramPayload struct {
	b       *builder.GLProgram
	program gpu.Program
}

type glProgramDriver struct{ b *builder.GLProgram }

func (d glProgramDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	if err := streamInto(data, d.b); err != nil {
		l.completeError(id, err)
		return
	}
	if len(d.b.ChildShaderRequests()) == 0 {
		l.completeError(id, fmt.Errorf("%w: gl_program %s declares no shaders", ErrBuilderFailed, url))
		return
	}
	if e, ok := l.arena.Get(id); ok {
		e.Payload = &glProgramPayload{b: d.b}
	}
	// Children were already queued (and recorded via arena.AddChild) by the
	// requester as the builder streamed; the entry stays in StatusLoading
	// for the pump to finalize once every shader child joins.
}

// RequestGLProgram fetches url as a GL program descriptor, issuing one
// child gl_shader request per `shaders` entry (spec §4.D "GL program
// builder").
func (l *Loader) RequestGLProgram(params resource.Params) Result {
	id := l.arena.Alloc(resource.KindGLProgram, params)
	req := programChildRequester{l: l, parentID: id}
	b := builder.NewGLProgram(req)
	return l.allocSourceWithID(id, params, glProgramDriver{b: b})
}

// finalizeGLProgramEntry is the pending.Finalizer for KindGLProgram (wired
// in New): once every shader child has joined, it gathers their compiled
// gpu.Shader handles and links a gpu.Program. Linking a render pipeline from
// the shader source (vertex layout, bind group layout) is left to whatever
// consumes the Program — gpu.Context.CreateProgram itself only stages and
// validates the shader set (see internal/gpu.Context.CreateProgram), and
// deriving vertex/bind-group layouts from WGSL reflection is the rendering
// engine's job this module has no component for (spec §1, windowing/
// rendering named out of scope).
func (l *Loader) finalizeGLProgramEntry(e *pending.Entry) resource.Status {
	pp, ok := e.Payload.(*glProgramPayload)
	if !ok || l.gpu == nil {
		return resource.StatusError
	}

	var vertex, fragment, compute gpu.Shader
	for _, childID := range e.Children {
		child, ok := l.arena.Get(childID)
		if !ok || child.Status != resource.StatusLoaded {
			return resource.StatusError
		}
		sh, ok := child.Payload.(gpu.Shader)
		if !ok {
			return resource.StatusError
		}
		switch sh.Kind() {
		case gpu.ShaderTypeVertex:
			vertex = sh
		case gpu.ShaderTypeFragment:
			fragment = sh
		case gpu.ShaderTypeCompute:
			compute = sh
		}
	}

	prog, err := l.gpu.CreateProgram(gpu.ProgramDescriptor{
		Label:    pp.b.Label(),
		Vertex:   vertex,
		Fragment: fragment,
		Compute:  compute,
	})
	if err != nil {
		l.log.WithError(err).Warn("loader: link gl_program failed")
		return resource.StatusError
	}
	pp.program = prog
	return resource.StatusLoaded
}

// texImageResult is the Entry.Payload a gl_texture_image request leaves
// behind once loaded: the decoded `.eagitexi` header fields plus its pixel
// bytes, read back by the owning gl_texture request's finalizer.
type texImageResult struct {
	level, width, height, depth, channels int
	dataType                              string
	pixels                                []byte
}

type glTextureImageDriver struct{}

func (glTextureImageDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	hdr, pixels, err := builder.DecodeTextureImage(data)
	if err != nil {
		l.completeError(id, err)
		return
	}
	if e, ok := l.arena.Get(id); ok {
		e.Payload = &texImageResult{
			level: hdr.Level, width: hdr.Width, height: hdr.Height, depth: hdr.Depth,
			channels: hdr.Channels, dataType: hdr.DataType, pixels: pixels,
		}
	}
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.GLTextureImagesLoaded {
			// XOffs/YOffs/ZOffs place this image within a parent texture's
			// storage; a standalone gl_texture_image request (no owning
			// gl_texture) has no such placement, so they report zero here —
			// the owning gl_texture request applies its own offsets when it
			// writes this image's pixels into its texture.
			fn(GLTextureImagesEvent{
				RequestID: id, URL: url,
				Level: hdr.Level, Width: hdr.Width, Height: hdr.Height, Depth: hdr.Depth,
				Channels: hdr.Channels, Pixels: pixels,
			})
		}
	})
}

// RequestGLTextureImage fetches url as a `.eagitexi` image (JSON header
// plus raw or zlib-compressed pixel data, spec §6) and decodes it (spec
// §4.D "GL texture image loader").
func (l *Loader) RequestGLTextureImage(params resource.Params) Result {
	return l.allocSource(resource.KindGLTextureImage, params, glTextureImageDriver{})
}

// textureChildRequester adapts a Loader to builder.TextureImageRequester for
// one in-flight GL texture request.
type textureChildRequester struct {
	l        *Loader
	parentID resource.RequestID
}

func (r textureChildRequester) RequestTextureImage(url string) resource.RequestID {
	res := r.l.RequestGLTextureImage(resource.Params{URL: url})
	r.l.arena.AddChild(r.parentID, res.RequestID)
	return res.RequestID
}

// glTexturePayload is the Entry.Payload of an in-flight (and, once
// finalized, completed) GL texture request.
type glTexturePayload struct {
	b       *builder.GLTexture
	texture gpu.Texture
}

type glTextureDriver struct{ b *builder.GLTexture }

func (d glTextureDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	if err := streamInto(data, d.b); err != nil {
		l.completeError(id, err)
		return
	}
	if e, ok := l.arena.Get(id); ok {
		e.Payload = &glTexturePayload{b: d.b}
	}
	hasChildren := false
	for _, img := range d.b.Images() {
		if img.ChildRequest != resource.Invalid {
			hasChildren = true
			break
		}
	}
	if !hasChildren {
		// Every images[] entry was inline (already decompressed by the
		// builder) — there are no children for the pump to wait on, so
		// finalize immediately rather than leaving the entry in
		// StatusLoading forever (pending.Pump.Tick only finalizes entries
		// with at least one child, spec §4.E "Child joins").
		l.finishComposite(id)
	}
}

// RequestGLTexture fetches url as a GL texture descriptor, issuing one
// child gl_texture_image request per `images` entry that names a URL (spec
// §4.D "GL texture builder").
func (l *Loader) RequestGLTexture(params resource.Params) Result {
	id := l.arena.Alloc(resource.KindGLTexture, params)
	req := textureChildRequester{l: l, parentID: id}
	b := builder.NewGLTexture(req)
	return l.allocSourceWithID(id, params, glTextureDriver{b: b})
}

// mipDim halves base per level, never going below 1 (spec §6 "GL texture
// image parameters", mip levels each halve the prior level's extent).
func mipDim(base uint32, level int) uint32 {
	d := base >> uint(level)
	if d == 0 {
		d = 1
	}
	return d
}

// texelBytes estimates the per-texel byte stride WriteLevel needs from an
// eagitexi header's channel/data_type pair (spec §6 "channel/data-type
// matrix"): one byte per channel for unsigned_byte, four for float.
func texelBytes(dataType string, channels int) uint32 {
	unit := 1
	if dataType == "float" {
		unit = 4
	}
	if channels <= 0 {
		channels = 1
	}
	return uint32(unit * channels)
}

// finalizeGLTextureEntry is the pending.Finalizer for KindGLTexture (wired
// in New, and also invoked directly by glTextureDriver when every image was
// inline): it creates the GPU texture from the parsed descriptor and writes
// every image's pixels at its declared level/offsets, preferring the single
// upfront allocation gpu.Context.CreateTexture always performs over a
// per-level fallback (spec §4.D "GL texture builder", "commits storage once
// the root object closes").
func (l *Loader) finalizeGLTextureEntry(e *pending.Entry) resource.Status {
	tp, ok := e.Payload.(*glTexturePayload)
	if !ok || l.gpu == nil {
		return resource.StatusError
	}

	desc := tp.b.Descriptor()
	tex, err := l.gpu.CreateTexture(desc)
	if err != nil {
		l.log.WithError(err).Warn("loader: create gl_texture failed")
		return resource.StatusError
	}

	queue := l.gpu.Queue()
	for _, img := range tp.b.Images() {
		var pixels []byte
		bpp := uint32(4)
		if img.ChildRequest != resource.Invalid {
			child, ok := l.arena.Get(img.ChildRequest)
			if !ok || child.Status != resource.StatusLoaded {
				return resource.StatusError
			}
			res, ok := child.Payload.(*texImageResult)
			if !ok {
				return resource.StatusError
			}
			pixels = res.pixels
			bpp = texelBytes(res.dataType, res.channels)
		} else {
			pixels = img.InlineData
		}
		if len(pixels) == 0 {
			continue
		}
		w := mipDim(desc.Width, img.Level)
		h := mipDim(desc.Height, img.Level)
		tex.WriteLevel(queue, uint32(img.Level), uint32(img.XOffs), uint32(img.YOffs), uint32(img.ZOffs), w, h, bpp, pixels)
	}

	tp.texture = tex
	return resource.StatusLoaded
}

// finishComposite finalizes id immediately rather than waiting for the next
// pending.Pump.Tick — used when a composite request turns out to have no
// outstanding children at all (spec §4.E "Child joins" assumes at least one
// child; a texture whose every image was inline has none).
func (l *Loader) finishComposite(id resource.RequestID) {
	e, ok := l.arena.Get(id)
	if !ok {
		return
	}
	var fin pending.Finalizer
	switch e.Kind {
	case resource.KindGLProgram:
		fin = l.finalizeGLProgramEntry
	case resource.KindGLTexture:
		fin = l.finalizeGLTextureEntry
	default:
		return
	}
	e.Status = fin(e)
	l.fireTerminal(id)
}

// glBufferDriver fills a GPU buffer from a finished fetch's raw bytes (spec
// §4.D "GL buffer builder": "parses label and data descriptor; fills the
// buffer via the GL context").
type glBufferDriver struct {
	b     *builder.GLBuffer
	usage wgpu.BufferUsage
}

func (d glBufferDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	d.b.AddInlineData(data)
	d.b.Finish()
	if d.b.Failed() {
		l.completeError(id, ErrBuilderFailed)
		return
	}
	if l.gpu == nil {
		l.completeError(id, fmt.Errorf("loader: gl_buffer %s: no gpu context attached", url))
		return
	}
	label := d.b.Label()
	if label == "" {
		label = url
	}
	buf, err := l.gpu.CreateBuffer(gpu.BufferDescriptor{
		Label: label,
		Usage: d.usage,
		Size:  uint64(len(d.b.Data())),
	}, d.b.Data())
	if err != nil {
		l.completeError(id, fmt.Errorf("loader: create gl_buffer %s: %w", url, err))
		return
	}
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.GLBufferLoaded {
			fn(GLBufferEvent{RequestID: id, URL: url, Buffer: buf})
		}
	})
}

// RequestGLBuffer fetches url's raw bytes and uploads them into a GPU
// buffer of the given usage (vertex, index, uniform, ...) through the
// attached GPU context.
func (l *Loader) RequestGLBuffer(params resource.Params, usage wgpu.BufferUsage) Result {
	return l.allocSource(resource.KindGLBuffer, params, glBufferDriver{b: builder.NewGLBuffer(), usage: usage})
}

// fireTypedForComposite fires the `<kind>_loaded` signal for a composite
// request the pump (or finishComposite) just finalized to StatusLoaded
// (spec §4.E "Child joins", §4.F "typed <kind>_loaded signal").
func (l *Loader) fireTypedForComposite(e *pending.Entry) {
	switch e.Kind {
	case resource.KindGLProgram:
		pp, ok := e.Payload.(*glProgramPayload)
		if !ok {
			return
		}
		for _, fn := range l.signals.GLProgramLoaded {
			fn(GLProgramEvent{RequestID: e.ID, URL: e.URL, Program: pp.program, Inputs: pp.b.Inputs()})
		}
	case resource.KindGLTexture:
		tp, ok := e.Payload.(*glTexturePayload)
		if !ok {
			return
		}
		for _, fn := range l.signals.GLTextureLoaded {
			fn(GLTextureEvent{RequestID: e.ID, URL: e.URL, Texture: tp.texture})
		}
	}
}
