package loader_test

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/require"

	"github.com/oxy-go/oxyres/internal/gpu"
	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/loader"
	"github.com/oxy-go/oxyres/resource/provider"
)

func TestLoaderRequestGLShaderFailsWithoutGPUContext(t *testing.T) {
	fp := newFakeProvider().with("/vert.glsl", "void main() {}")
	reg := provider.NewRegistry()
	reg.Register(fp)
	l := loader.New(reg)

	res := l.RequestGLShader(gpu.ShaderTypeVertex, resource.Params{URL: "fake:///vert.glsl"})
	l.Update()

	info, ok := l.GetInfo(res.RequestID)
	require.True(t, ok)
	require.Equal(t, resource.StatusError, info.Status)
}

func TestLoaderRequestGLProgramJoinsShaderChildren(t *testing.T) {
	fp := newFakeProvider().
		with("/program.json", `{"label":"basic","shaders":{"0":{"type":"vertex","url":"fake:///vert.glsl"},`+
			`"1":{"type":"fragment","url":"fake:///frag.glsl"}}}`).
		with("/vert.glsl", "vertex source").
		with("/frag.glsl", "fragment source")
	reg := provider.NewRegistry()
	reg.Register(fp)

	gctx := &fakeGPUContext{}
	l := loader.New(reg, loader.WithGPUContext(gctx))

	var loaded loader.GLProgramEvent
	fired := 0
	l.Signals().GLProgramLoaded = append(l.Signals().GLProgramLoaded, func(e loader.GLProgramEvent) {
		loaded = e
		fired++
	})

	res := l.RequestGLProgram(resource.Params{URL: "fake:///program.json"})

	ok := pumpUntil(l.Update, func() bool {
		info, _ := l.GetInfo(res.RequestID)
		return info != nil && info.Status.Terminal()
	}, 5)
	require.True(t, ok)

	info, _ := l.GetInfo(res.RequestID)
	require.Equal(t, resource.StatusLoaded, info.Status)
	require.Equal(t, 1, fired)
	require.Empty(t, loaded.Inputs)
	require.ElementsMatch(t, []string{"vert.glsl", "frag.glsl"}, trimFakeScheme(gctx.shaderCalls))
}

func TestLoaderRequestGLProgramFailsWhenShaderChildErrors(t *testing.T) {
	fp := newFakeProvider().
		with("/program.json", `{"shaders":{"0":{"type":"vertex","url":"fake:///vert.glsl"}}}`).
		with("/vert.glsl", "vertex source")
	reg := provider.NewRegistry()
	reg.Register(fp)

	gctx := &fakeGPUContext{failShader: true}
	l := loader.New(reg, loader.WithGPUContext(gctx))

	res := l.RequestGLProgram(resource.Params{URL: "fake:///program.json"})

	ok := pumpUntil(l.Update, func() bool {
		info, _ := l.GetInfo(res.RequestID)
		return info != nil && info.Status.Terminal()
	}, 5)
	require.True(t, ok)

	info, _ := l.GetInfo(res.RequestID)
	require.Equal(t, resource.StatusError, info.Status)
}

func TestLoaderRequestGLTextureJoinsImageChild(t *testing.T) {
	pixels := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	fp := newFakeProvider().
		with("/tex.json", `{"width":2,"height":2,"levels":1,"images":{"0":{"level":0,"url":"fake:///img0"}}}`).
		with("/img0", eagitexiBody(0, 2, 2, 4, pixels))
	reg := provider.NewRegistry()
	reg.Register(fp)

	gctx := &fakeGPUContext{}
	l := loader.New(reg, loader.WithGPUContext(gctx))

	var textureEvents []loader.GLTextureEvent
	l.Signals().GLTextureLoaded = append(l.Signals().GLTextureLoaded, func(e loader.GLTextureEvent) {
		textureEvents = append(textureEvents, e)
	})
	var imageEvents []loader.GLTextureImagesEvent
	l.Signals().GLTextureImagesLoaded = append(l.Signals().GLTextureImagesLoaded, func(e loader.GLTextureImagesEvent) {
		imageEvents = append(imageEvents, e)
	})

	res := l.RequestGLTexture(resource.Params{URL: "fake:///tex.json"})

	ok := pumpUntil(l.Update, func() bool {
		info, _ := l.GetInfo(res.RequestID)
		return info != nil && info.Status.Terminal()
	}, 5)
	require.True(t, ok)

	info, _ := l.GetInfo(res.RequestID)
	require.Equal(t, resource.StatusLoaded, info.Status)
	require.Len(t, textureEvents, 1)
	require.Len(t, imageEvents, 1)
	require.Equal(t, 2, imageEvents[0].Width)
	require.Equal(t, pixels, imageEvents[0].Pixels)
}

func TestLoaderRequestGLTextureWithNoImagesFinishesWithoutChildren(t *testing.T) {
	fp := newFakeProvider().with("/tex.json", `{"width":4,"height":4,"levels":1}`)
	reg := provider.NewRegistry()
	reg.Register(fp)

	gctx := &fakeGPUContext{}
	l := loader.New(reg, loader.WithGPUContext(gctx))

	fired := 0
	l.Signals().GLTextureLoaded = append(l.Signals().GLTextureLoaded, func(loader.GLTextureEvent) {
		fired++
	})

	res := l.RequestGLTexture(resource.Params{URL: "fake:///tex.json"})
	// A texture descriptor with no images[] has no children at all, so
	// finishComposite fires within the very first Update call instead of
	// waiting on pending.Pump.Tick's child-join path.
	l.Update()

	info, _ := l.GetInfo(res.RequestID)
	require.Equal(t, resource.StatusLoaded, info.Status)
	require.Equal(t, 1, fired)
}

func TestLoaderRequestGLBufferUploadsWithRequestedUsage(t *testing.T) {
	fp := newFakeProvider().with("/verts.bin", "01234567")
	reg := provider.NewRegistry()
	reg.Register(fp)

	gctx := &fakeGPUContext{}
	l := loader.New(reg, loader.WithGPUContext(gctx))

	var got loader.GLBufferEvent
	l.Signals().GLBufferLoaded = append(l.Signals().GLBufferLoaded, func(e loader.GLBufferEvent) {
		got = e
	})

	res := l.RequestGLBuffer(resource.Params{URL: "fake:///verts.bin"}, wgpu.BufferUsageVertex)
	l.Update()

	info, _ := l.GetInfo(res.RequestID)
	require.Equal(t, resource.StatusLoaded, info.Status)
	require.Equal(t, res.RequestID, got.RequestID)
	require.Equal(t, []wgpu.BufferUsage{wgpu.BufferUsageVertex}, gctx.bufferUsages)
}

// trimFakeScheme strips the "fake:///" prefix from each label (labels
// default to the fetched URL when a request has no explicit Label) so the
// assertion reads as "which files were compiled" rather than full URLs.
func trimFakeScheme(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = l[len("fake:///"):]
	}
	return out
}
