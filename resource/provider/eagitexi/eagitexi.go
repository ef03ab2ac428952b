// Package eagitexi implements the generated-texture providers of spec §4.C
// ("Generated image providers"): a small JSON header, produced by each
// generator, is followed by either raw or zlib-compressed pixel data,
// grounded in the original's per-pattern providers
// (original_source/source/app/resource_provider/eagitexi_checks.cpp,
// eagitexi_random.cpp, eagitexi_single_color.cpp and eagitexi_tiling.cpp).
// Stripes and SphereVolume have no dedicated original_source file; they are
// modeled on Checks2D's band-parity test and Random's volumetric header
// shape respectively, per spec §4.C's generator list. All generators speak
// the `.eagitexi` wire format: a JSON object prefix followed immediately (no
// separator) by the pixel payload it describes.
package eagitexi

import (
	"bytes"
	"fmt"
	"math/rand"
	"time"

	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/blobio"
	"github.com/oxy-go/oxyres/resource/locator"
)

// clampDim mirrors the original's valid_dim: 1..64Ki.
func clampDim(n int) bool { return n > 0 && n <= 64*1024 }

// header renders the fixed JSON-prefix shared by every generator, matching
// the key order the original always emits (level, width[, height[, depth]],
// channels, data_type, format, iformat, tag[, data_filter]).
func header(level, width, height, depth, channels int, dataType, format, iformat string, tags []string, filter string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `{"level":%d,"width":%d`, level, width)
	if height > 1 {
		fmt.Fprintf(&buf, `,"height":%d`, height)
		if depth > 1 {
			fmt.Fprintf(&buf, `,"depth":%d`, depth)
		}
	}
	fmt.Fprintf(&buf, `,"channels":%d,"data_type":%q,"format":%q,"iformat":%q`, channels, dataType, format, iformat)
	buf.WriteString(`,"tag":[`)
	for i, t := range tags {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%q", t)
	}
	buf.WriteString(`]`)
	if filter != "" {
		fmt.Fprintf(&buf, `,"data_filter":%q`, filter)
	}
	buf.WriteString(`}`)
	return buf.Bytes()
}

// Checks2D serves "eagitexi:///checks" (checkerboard, grounded in
// eagitexi_checks.cpp), an r8 pattern alternating 0x00/0xFF every `size`
// texels along each axis.
type Checks2D struct{}

func NewChecks2D() Checks2D { return Checks2D{} }

func (Checks2D) Name() string { return "eagitexi-checks" }

func (Checks2D) HasResource(loc locator.Locator) bool {
	if !(loc.HasScheme("eagitexi") && loc.HasPath("/checks")) {
		return false
	}
	return locator.ArgInt(loc, "size", 1) > 0
}

func (p Checks2D) GetResourceIO(_ resource.RequestID, loc locator.Locator) (blobio.BlobIO, bool, error) {
	if !p.HasResource(loc) {
		return nil, false, nil
	}
	size := locator.ArgInt(loc, "size", 8)
	w := locator.ArgInt(loc, "width", 256)
	h := locator.ArgInt(loc, "height", 256)
	if !clampDim(w) || !clampDim(h) {
		return nil, false, nil
	}
	hdr := header(0, w, h, 1, 1, "unsigned_byte", "red", "r8", []string{"generated", "checks"}, "")
	body := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := byte(0x00)
			if ((x/size)+(y/size))%2 != 0 {
				v = 0xFF
			}
			body[y*w+x] = v
		}
	}
	return blobio.NewFixedBuffer(append(hdr, body...)), true, nil
}

func (Checks2D) BlobTimeout(resource.RequestID, locator.Locator, int64, time.Duration) time.Duration {
	return time.Second
}

func (Checks2D) BlobPriority(_ resource.RequestID, _ locator.Locator, def resource.Priority) resource.Priority {
	return def
}

func (Checks2D) ForEachLocator(fn func(url string)) {
	fn("eagitexi:///checks?size=8&width=256&height=256")
}

// Random serves "eagitexi:///random" (grounded in eagitexi_random.cpp): an
// r8 texture of uniformly distributed random bytes, generated fresh on
// every fetch rather than stored, matching the original's lazy generator.
type Random struct{}

func NewRandom() Random { return Random{} }

func (Random) Name() string { return "eagitexi-random" }

func (Random) HasResource(loc locator.Locator) bool {
	if !(loc.HasScheme("eagitexi") && loc.HasPath("/random")) {
		return false
	}
	return clampDim(locator.ArgInt(loc, "width", 1)) &&
		clampDim(locator.ArgInt(loc, "height", 1)) &&
		clampDim(locator.ArgInt(loc, "depth", 1)) &&
		locator.ArgInt(loc, "level", 0) >= 0
}

func (p Random) GetResourceIO(_ resource.RequestID, loc locator.Locator) (blobio.BlobIO, bool, error) {
	if !p.HasResource(loc) {
		return nil, false, nil
	}
	w := locator.ArgInt(loc, "width", 8)
	h := locator.ArgInt(loc, "height", 1)
	d := locator.ArgInt(loc, "depth", 1)
	level := locator.ArgInt(loc, "level", 0)
	hdr := header(level, w, h, d, 1, "unsigned_byte", "red", "r8", []string{"generated", "random"}, "")
	body := make([]byte, w*h*d)
	rand.Read(body) //nolint:errcheck // math/rand.Read never errors
	return blobio.NewFixedBuffer(append(hdr, body...)), true, nil
}

func (Random) BlobTimeout(resource.RequestID, locator.Locator, int64, time.Duration) time.Duration {
	return time.Second
}

func (Random) BlobPriority(_ resource.RequestID, _ locator.Locator, def resource.Priority) resource.Priority {
	return def
}

func (Random) ForEachLocator(fn func(url string)) {
	fn("eagitexi:///random?width=64&height=64")
}

// SingleColor serves "eagitexi:///single_rgb" (grounded in
// eagitexi_single_color.cpp): an rgb8 texture filled with one solid color,
// compressed with zlib as the original does via stream_compression.
type SingleColor struct{}

func NewSingleColor() SingleColor { return SingleColor{} }

func (SingleColor) Name() string { return "eagitexi-single-color" }

func validChannel(c int) bool { return c >= 0 && c <= 255 }

func (SingleColor) HasResource(loc locator.Locator) bool {
	if !(loc.HasScheme("eagitexi") && loc.HasPath("/single_rgb")) {
		return false
	}
	return validChannel(locator.ArgInt(loc, "r", 0)) &&
		validChannel(locator.ArgInt(loc, "g", 0)) &&
		validChannel(locator.ArgInt(loc, "b", 0)) &&
		clampDim(locator.ArgInt(loc, "width", 1)) &&
		clampDim(locator.ArgInt(loc, "height", 1))
}

func (p SingleColor) GetResourceIO(_ resource.RequestID, loc locator.Locator) (blobio.BlobIO, bool, error) {
	if !p.HasResource(loc) {
		return nil, false, nil
	}
	r := byte(locator.ArgInt(loc, "r", 0))
	g := byte(locator.ArgInt(loc, "g", 0))
	b := byte(locator.ArgInt(loc, "b", 0))
	w := locator.ArgInt(loc, "width", 2)
	h := locator.ArgInt(loc, "height", 2)
	level := locator.ArgInt(loc, "level", 0)

	hdr := header(level, w, h, 1, 3, "unsigned_byte", "rgb", "rgb8", []string{"generated"}, "zlib")

	raw := make([]byte, 0, w*h*3)
	for i := 0; i < w*h; i++ {
		raw = append(raw, r, g, b)
	}
	compressed, err := blobio.CompressBytes(raw)
	if err != nil {
		return nil, false, err
	}
	return blobio.NewFixedBuffer(append(hdr, compressed...)), true, nil
}

func (SingleColor) BlobTimeout(resource.RequestID, locator.Locator, int64, time.Duration) time.Duration {
	return time.Second
}

func (SingleColor) BlobPriority(_ resource.RequestID, _ locator.Locator, def resource.Priority) resource.Priority {
	return def
}

func (SingleColor) ForEachLocator(fn func(url string)) {
	fn("eagitexi:///single_rgb?r=255&g=0&b=0&width=2&height=2")
}

// Stripes serves "eagitexi:///stripes", an r8 pattern of alternating
// 0x00/0xFF bands along one axis, the one-dimensional sibling of Checks2D
// (the original's check and stripe patterns share the same band-index
// parity test, just projected onto a single axis instead of both).
type Stripes struct{}

func NewStripes() Stripes { return Stripes{} }

func (Stripes) Name() string { return "eagitexi-stripes" }

func (Stripes) HasResource(loc locator.Locator) bool {
	if !(loc.HasScheme("eagitexi") && loc.HasPath("/stripes")) {
		return false
	}
	return locator.ArgInt(loc, "size", 1) > 0
}

func (p Stripes) GetResourceIO(_ resource.RequestID, loc locator.Locator) (blobio.BlobIO, bool, error) {
	if !p.HasResource(loc) {
		return nil, false, nil
	}
	size := locator.ArgInt(loc, "size", 8)
	w := locator.ArgInt(loc, "width", 256)
	h := locator.ArgInt(loc, "height", 256)
	if !clampDim(w) || !clampDim(h) {
		return nil, false, nil
	}
	hdr := header(0, w, h, 1, 1, "unsigned_byte", "red", "r8", []string{"generated", "stripes"}, "")
	body := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := byte(0x00)
			if (x/size)%2 != 0 {
				v = 0xFF
			}
			body[y*w+x] = v
		}
	}
	return blobio.NewFixedBuffer(append(hdr, body...)), true, nil
}

func (Stripes) BlobTimeout(resource.RequestID, locator.Locator, int64, time.Duration) time.Duration {
	return time.Second
}

func (Stripes) BlobPriority(_ resource.RequestID, _ locator.Locator, def resource.Priority) resource.Priority {
	return def
}

func (Stripes) ForEachLocator(fn func(url string)) {
	fn("eagitexi:///stripes?size=8&width=256&height=256")
}

// SphereVolume serves "eagitexi:///sphere_volume", a 3-D r8 texture whose
// texel value is 0xFF inside a sphere inscribed in the volume and 0x00
// outside it, grounded on Random's volumetric (width/height/depth) header
// shape but with a deterministic occupancy test in place of random fill.
type SphereVolume struct{}

func NewSphereVolume() SphereVolume { return SphereVolume{} }

func (SphereVolume) Name() string { return "eagitexi-sphere-volume" }

func (SphereVolume) HasResource(loc locator.Locator) bool {
	if !(loc.HasScheme("eagitexi") && loc.HasPath("/sphere_volume")) {
		return false
	}
	return clampDim(locator.ArgInt(loc, "width", 1)) &&
		clampDim(locator.ArgInt(loc, "height", 1)) &&
		clampDim(locator.ArgInt(loc, "depth", 1))
}

func (p SphereVolume) GetResourceIO(_ resource.RequestID, loc locator.Locator) (blobio.BlobIO, bool, error) {
	if !p.HasResource(loc) {
		return nil, false, nil
	}
	w := locator.ArgInt(loc, "width", 8)
	h := locator.ArgInt(loc, "height", 8)
	d := locator.ArgInt(loc, "depth", 8)
	hdr := header(0, w, h, d, 1, "unsigned_byte", "red", "r8", []string{"generated", "sphere_volume"}, "")
	cx, cy, cz := float64(w-1)/2, float64(h-1)/2, float64(d-1)/2
	r := min3(cx, cy, cz)
	body := make([]byte, w*h*d)
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				dx, dy, dz := float64(x)-cx, float64(y)-cy, float64(z)-cz
				v := byte(0x00)
				if dx*dx+dy*dy+dz*dz <= r*r {
					v = 0xFF
				}
				body[(z*h+y)*w+x] = v
			}
		}
	}
	return blobio.NewFixedBuffer(append(hdr, body...)), true, nil
}

func min3(a, b, c float64) float64 {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}

func (SphereVolume) BlobTimeout(resource.RequestID, locator.Locator, int64, time.Duration) time.Duration {
	return time.Second
}

func (SphereVolume) BlobPriority(_ resource.RequestID, _ locator.Locator, def resource.Priority) resource.Priority {
	return def
}

func (SphereVolume) ForEachLocator(fn func(url string)) {
	fn("eagitexi:///sphere_volume?width=16&height=16&depth=16")
}
