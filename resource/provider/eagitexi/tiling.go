package eagitexi

import (
	"fmt"
	"strings"
	"time"

	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/blobio"
	"github.com/oxy-go/oxyres/resource/locator"
)

// sourceReader resolves a `source` query argument to its complete text body.
// config.NewRegistry wires this to the provider.Registry so Tiling can pull the
// referenced text resource without depending on the registry package
// (which would otherwise import this one back, for ForEachLocator-based
// discovery of tiling URLs).
type sourceReader interface {
	ReadAll(url string) ([]byte, bool, error)
}

// Tiling serves "eagitexi:///tiling?source=<url>" (grounded in
// eagitexi_tiling.cpp): the referenced text resource is read as a grid of
// hex digits, one per line, each digit becoming one r8ui texel; width and
// height are both the (equal) line length, and the pixel plane is zlib
// compressed exactly as eagitexi_tiling_io streams it through
// stream_compression.
type Tiling struct {
	source sourceReader
}

// NewTiling creates a Tiling generator that resolves `source` URLs through
// source.
func NewTiling(source sourceReader) Tiling { return Tiling{source: source} }

func validSourceURL(raw string) bool {
	loc, err := locator.Parse(raw)
	if err != nil {
		return false
	}
	return loc.HasScheme("text") || loc.HasPathSuffix(".text") || loc.HasPathSuffix(".txt")
}

func (Tiling) Name() string { return "eagitexi-tiling" }

func (t Tiling) HasResource(loc locator.Locator) bool {
	if !(loc.HasScheme("eagitexi") && loc.HasPath("/tiling")) {
		return false
	}
	src, ok := loc.ArgValue("source")
	return ok && validSourceURL(src)
}

func hexDigit(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return 0
	}
}

func (t Tiling) GetResourceIO(_ resource.RequestID, loc locator.Locator) (blobio.BlobIO, bool, error) {
	if !t.HasResource(loc) {
		return nil, false, nil
	}
	srcURL, _ := loc.ArgValue("source")
	data, ok, err := t.source.ReadAll(srcURL)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	var side int
	cells := make([]byte, 0, len(data))
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		if side == 0 {
			side = len(line)
		}
		for i := 0; i < side && i < len(line); i++ {
			cells = append(cells, hexDigit(line[i]))
		}
	}
	if side == 0 {
		return nil, false, nil
	}

	compressed, err := blobio.CompressBytes(cells)
	if err != nil {
		return nil, false, err
	}
	hdr := fmt.Sprintf(
		`{"level":0,"channels":1,"data_type":"unsigned_byte","tag":["tiling"]`+
			`,"format":"red_integer","iformat":"r8ui","width":%d,"height":%d,"data_filter":"zlib"}`,
		side, side)
	return blobio.NewFixedBuffer(append([]byte(hdr), compressed...)), true, nil
}

func (Tiling) BlobTimeout(resource.RequestID, locator.Locator, int64, time.Duration) time.Duration {
	return 2 * time.Second
}

func (Tiling) BlobPriority(_ resource.RequestID, _ locator.Locator, def resource.Priority) resource.Priority {
	return def
}

func (Tiling) ForEachLocator(func(url string)) {}
