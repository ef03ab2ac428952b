package loader_test

import (
	"fmt"
	"time"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/oxy-go/oxyres/internal/gpu"
	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/blobio"
	"github.com/oxy-go/oxyres/resource/locator"
	"github.com/oxy-go/oxyres/resource/provider"
)

// fakeProvider serves a fixed set of path -> body fixtures regardless of
// scheme, the same "path is the only thing that matters" shape
// textprovider.Provider uses, so tests can register ad-hoc fixtures (shader
// source, eagitexi images, GL descriptors) without a real file/embedded
// provider.
type fakeProvider struct {
	bodies map[string]string
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{bodies: map[string]string{}}
}

func (p *fakeProvider) with(path, body string) *fakeProvider {
	p.bodies[path] = body
	return p
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) HasResource(loc locator.Locator) bool {
	_, ok := p.bodies[loc.Path()]
	return ok
}

func (p *fakeProvider) GetResourceIO(_ resource.RequestID, loc locator.Locator) (blobio.BlobIO, bool, error) {
	body, ok := p.bodies[loc.Path()]
	if !ok {
		return nil, false, nil
	}
	return blobio.NewFixedBuffer([]byte(body)), true, nil
}

func (p *fakeProvider) BlobTimeout(resource.RequestID, locator.Locator, int64, time.Duration) time.Duration {
	return time.Second
}

func (p *fakeProvider) BlobPriority(_ resource.RequestID, _ locator.Locator, def resource.Priority) resource.Priority {
	return def
}

func (p *fakeProvider) ForEachLocator(fn func(url string)) {
	for path := range p.bodies {
		fn("fake://" + path)
	}
}

var _ provider.Provider = (*fakeProvider)(nil)

// runForever is a BlobIO that never finishes, used to exercise
// ForgetResource against a request still in flight.
type runForever struct{}

func (runForever) TotalSize() int64                 { return 0 }
func (runForever) FetchFragment(int64, []byte) int  { return 0 }
func (runForever) Prepare() (blobio.Progress, error) { return blobio.Progress{State: blobio.Working}, nil }

// stuckProvider claims a single path and always hands back a BlobIO that
// never reports Finished.
type stuckProvider struct{ path string }

func (p stuckProvider) Name() string { return "stuck" }

func (p stuckProvider) HasResource(loc locator.Locator) bool {
	return loc.Path() == p.path
}

func (p stuckProvider) GetResourceIO(resource.RequestID, locator.Locator) (blobio.BlobIO, bool, error) {
	return runForever{}, true, nil
}

func (p stuckProvider) BlobTimeout(resource.RequestID, locator.Locator, int64, time.Duration) time.Duration {
	return time.Second
}

func (p stuckProvider) BlobPriority(_ resource.RequestID, _ locator.Locator, def resource.Priority) resource.Priority {
	return def
}

func (p stuckProvider) ForEachLocator(fn func(url string)) { fn("fake://" + p.path) }

var _ provider.Provider = stuckProvider{}

// fakeGPUContext implements gpu.Context without touching a real wgpu
// device, recording every call a GL-kind request makes through it. Since
// gpu.Context is an interface, a test double can stand in for it entirely;
// the handles it returns are zero-value gpu.Shader/Texture/Buffer/Program,
// which is enough to exercise the loader's composite-join and completion
// bookkeeping without a real GPU.
type fakeGPUContext struct {
	shaderCalls  []string
	bufferUsages []wgpu.BufferUsage
	failShader   bool
}

func (c *fakeGPUContext) Device() *wgpu.Device { return nil }
func (c *fakeGPUContext) Queue() *wgpu.Queue   { return nil }

func (c *fakeGPUContext) CreateShader(kind gpu.ShaderType, label, source string) (gpu.Shader, error) {
	c.shaderCalls = append(c.shaderCalls, label)
	if c.failShader {
		return gpu.Shader{}, fmt.Errorf("fake: shader compile failed")
	}
	return gpu.Shader{}, nil
}

func (c *fakeGPUContext) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	return gpu.Texture{}, nil
}

func (c *fakeGPUContext) CreateBuffer(desc gpu.BufferDescriptor, initial []byte) (gpu.Buffer, error) {
	c.bufferUsages = append(c.bufferUsages, desc.Usage)
	return gpu.Buffer{}, nil
}

func (c *fakeGPUContext) CreateProgram(desc gpu.ProgramDescriptor) (gpu.Program, error) {
	return gpu.Program{}, nil
}

func (c *fakeGPUContext) Ensure() (bool, error) { return true, nil }

var _ gpu.Context = (*fakeGPUContext)(nil)

// eagitexiBody builds a minimal `.eagitexi` body (flat JSON header
// immediately followed by raw pixel bytes, spec §6), matching
// resource/provider/eagitexi's own `header` helper closely enough to drive
// builder.DecodeTextureImage in a test.
func eagitexiBody(level, width, height, channels int, pixels []byte) string {
	return fmt.Sprintf(
		`{"level":%d,"width":%d,"height":%d,"channels":%d,"data_type":"unsigned_byte","format":"rgba","iformat":"rgba8"}`,
		level, width, height, channels,
	) + string(pixels)
}

// pumpUntil drives up to maxTicks Update calls until pred reports true,
// returning whether it converged. Every GL composite join needs at least
// two ticks (spec §4.E "Child joins": the child request issued from inside
// the parent's onFinished is deferred to the side buffer and only driven on
// the following Update call), so tests loop rather than asserting after a
// single call.
func pumpUntil(update func() bool, pred func() bool, maxTicks int) bool {
	for i := 0; i < maxTicks; i++ {
		update()
		if pred() {
			return true
		}
	}
	return pred()
}
