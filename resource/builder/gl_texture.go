package builder

import (
	"github.com/oxy-go/oxyres/internal/gpu"
	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/blobio"
)

// TextureImageRequester issues a child request for a nested texture-image
// resource at url (spec §4.D "GL texture builder": "for each entry in
// `images` either requests a nested texture-image resource or... decompresses
// into the current texture level").
type TextureImageRequester interface {
	RequestTextureImage(url string) resource.RequestID
}

// TextureImageEntry is one parsed `images[i]` entry: either deferred to a
// child request (URL set) or carrying inline compressed pixel data ready to
// decompress directly into the texture.
type TextureImageEntry struct {
	Level             int
	XOffs, YOffs, ZOffs int
	URL               string
	InlineData        []byte
	InlineFilter      string
	ChildRequest      resource.RequestID
}

// GLTexture parses the outer texture descriptor (spec §4.D "GL texture
// builder"): dimension/levels/format fields, `i-parameter` pairs
// (min/mag filter, wrap s/t/r, swizzle r/g/b/a), `generate_mipmap`, and the
// `images` array. It only parses; the loader's gl_texture finalizer commits
// the texture storage from Descriptor and Images.
type GLTexture struct {
	images  TextureImageRequester

	desc    gpu.TextureDescriptor
	iparams map[string]int
	images_ []TextureImageEntry // avoids shadowing the `images` field name
	inImage bool
	cur     TextureImageEntry
	failed  bool
	done    bool
}

// NewGLTexture creates a GLTexture builder that requests nested
// texture-image children through images.
func NewGLTexture(images TextureImageRequester) *GLTexture {
	return &GLTexture{images: images, iparams: map[string]int{}}
}

func (b *GLTexture) MaxTokenSize() int { return defaultMaxTokenSize }

func (b *GLTexture) AddObject(p Path) {
	if len(p) == 2 && p[0] == "images" {
		b.inImage = true
		b.cur = TextureImageEntry{}
	}
}

func (b *GLTexture) AddInts(p Path, values []int64) {
	if len(values) == 0 {
		return
	}
	v := int(values[0])
	switch {
	case len(p) == 1 && p[0] == "width":
		b.desc.Width = uint32(v)
	case len(p) == 1 && p[0] == "height":
		b.desc.Height = uint32(v)
	case len(p) == 1 && p[0] == "depth":
		b.desc.Depth = uint32(v)
	case len(p) == 1 && p[0] == "levels":
		b.desc.Levels = uint32(v)
	case len(p) == 1 && p[0] == "dimensions":
		b.desc.Dimensions = v
	case b.inImage && len(p) == 3 && p[2] == "level":
		b.cur.Level = v
	case b.inImage && len(p) == 3 && p[2] == "x_offs":
		b.cur.XOffs = v
	case b.inImage && len(p) == 3 && p[2] == "y_offs":
		b.cur.YOffs = v
	case b.inImage && len(p) == 3 && p[2] == "z_offs":
		b.cur.ZOffs = v
	case len(p) == 2 && p[0] == "i-parameter":
		b.iparams[p[1]] = v
	}
}

func (b *GLTexture) AddFloats(Path, []float64) {}

func (b *GLTexture) AddBools(p Path, values []bool) {
	if len(p) == 1 && p[0] == "generate_mipmap" && len(values) > 0 {
		b.desc.GenerateMipmap = values[0]
	}
}

func (b *GLTexture) AddStrings(p Path, values []string) {
	if len(values) == 0 {
		return
	}
	v := values[0]
	switch {
	case b.inImage && len(p) == 3 && p[2] == "url":
		b.cur.URL = v
	case b.inImage && len(p) == 3 && p[2] == "data_filter":
		b.cur.InlineFilter = v
	case len(p) == 1 && p[0] == "label":
		b.desc.Label = v
	}
}

// AddInlineData attaches raw inline image bytes parsed out-of-band from the
// value-tree traversal (the blob payload following an images[i] object's
// JSON descriptor, per the `.eagitexi` wire format); callers feeding an
// embedded eagitexi image source call this once they have decoded the
// descriptor's `data` bytes.
func (b *GLTexture) AddInlineData(data []byte) { b.cur.InlineData = data }

func (b *GLTexture) FinishObject(p Path) {
	if !(len(p) == 2 && p[0] == "images") {
		return
	}
	b.inImage = false
	entry := b.cur
	if entry.URL != "" {
		entry.ChildRequest = b.images.RequestTextureImage(entry.URL)
	} else if len(entry.InlineData) > 0 && entry.InlineFilter == "zlib" {
		plain, err := blobio.Decompress(entry.InlineData)
		if err != nil {
			b.failed = true
			return
		}
		entry.InlineData = plain
	}
	b.images_ = append(b.images_, entry)
}

// Finish marks the descriptor complete; it allocates nothing. Storage is
// committed later by the loader through gpu.Context.CreateTexture, which
// always allocates every level up front (there is no per-level fallback to
// choose between in this binding).
func (b *GLTexture) Finish() { b.done = true }

func (b *GLTexture) Failed() bool { return b.failed }

// Descriptor returns the parsed texture descriptor.
func (b *GLTexture) Descriptor() gpu.TextureDescriptor { return b.desc }

// IParameters returns the parsed i-parameter (filter/wrap/swizzle) map.
func (b *GLTexture) IParameters() map[string]int { return b.iparams }

// Images returns the parsed images[] entries in declaration order.
func (b *GLTexture) Images() []TextureImageEntry { return b.images_ }

var _ Builder = (*GLTexture)(nil)
