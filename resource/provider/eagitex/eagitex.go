// Package eagitex implements the JSON texture-descriptor provider of spec
// §4.C ("Texture descriptor provider"), grounded in the original's
// eagitex_2d_square_provider (original_source/source/app/resource_provider/
// eagitex_provider.cpp): it synthesizes a `.eagitex` JSON document
// describing a square power-of-two mipmap chain, each level referencing a
// generated `eagitexi:` image URL rather than embedding pixel data itself.
package eagitex

import (
	"bytes"
	"fmt"
	"time"

	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/blobio"
	"github.com/oxy-go/oxyres/resource/locator"
)

// Square2D serves a single `.eagitex` descriptor path whose mipmap chain is
// built from imagePath, a template "eagitexi:" path that size/level query
// arguments are appended to, matching the original's image URL synthesis
// (`"eagitexi://" + path + "?level=" + l + "+width=" + s + "+height=" + s`).
type Square2D struct {
	path      string
	imagePath string
	dataType  string
	format    string
	iformat   string
	channels  int
}

// NewSquare2D creates a Square2D descriptor provider served at path,
// describing a power-of-two square texture whose per-level images are
// synthesized from imagePath.
func NewSquare2D(path, imagePath, dataType, format, iformat string, channels int) Square2D {
	return Square2D{
		path:      path,
		imagePath: imagePath,
		dataType:  dataType,
		format:    format,
		iformat:   iformat,
		channels:  channels,
	}
}

func (Square2D) Name() string { return "eagitex-2d-square" }

func (s Square2D) HasResource(loc locator.Locator) bool {
	if !(loc.HasScheme("eagitex") && loc.HasPath(s.path)) {
		return false
	}
	return locator.ArgInt(loc, "size", 1) > 0
}

func levelCount(size int) int {
	l := 0
	for i := size; i > 0; i /= 2 {
		l++
	}
	return l
}

func (s Square2D) GetResourceIO(_ resource.RequestID, loc locator.Locator) (blobio.BlobIO, bool, error) {
	if !s.HasResource(loc) {
		return nil, false, nil
	}
	size := locator.ArgInt(loc, "size", 256)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `{"levels":%d,"width":%d,"height":%d,"channels":%d`,
		levelCount(size), size, size, s.channels)
	fmt.Fprintf(&buf, `,"data_type":%q,"format":%q,"iformat":%q,"tag":["generated"],"images":[`,
		s.dataType, s.format, s.iformat)

	level := 0
	for cur := size; cur > 0; cur /= 2 {
		if level > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `{"url":"eagitexi://%s?level=%d+width=%d+height=%d","level":%d}`,
			s.imagePath, level, cur, cur, level)
		level++
	}
	buf.WriteString(`]}`)

	return blobio.NewFixedBuffer(buf.Bytes()), true, nil
}

func (Square2D) BlobTimeout(resource.RequestID, locator.Locator, int64, time.Duration) time.Duration {
	return time.Second
}

func (Square2D) BlobPriority(_ resource.RequestID, _ locator.Locator, def resource.Priority) resource.Priority {
	return def
}

func (s Square2D) ForEachLocator(fn func(url string)) {
	fn(fmt.Sprintf("eagitex://%s?size=256", s.path))
}
