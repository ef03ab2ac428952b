// Package textprovider implements the lorem-ipsum/text provider and the
// resource-list provider (spec §4.C "Lorem-ipsum / text provider" and
// "Resource-list provider"), grounded in the original's lorem_ipsum_io and
// lorem_ipsum_provider (original_source/source/app/resource_provider/
// text_lorem_ipsum.cpp): the canonical filler text is repeated `repeat=N`
// times (default 1) and served as one contiguous blob; a fetch_fragment
// offset past the end of the text returns no bytes.
package textprovider

import (
	"strings"
	"time"

	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/blobio"
	"github.com/oxy-go/oxyres/resource/locator"
)

// loremIpsumParagraph is the canonical filler paragraph, byte-for-byte the
// same text the original embeds as `lorem_ipsum_text`.
const loremIpsumParagraph = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, " +
	"sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. " +
	"Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris " +
	"nisi ut aliquip ex ea commodo consequat. " +
	"Duis aute irure dolor in reprehenderit in voluptate velit esse cillum " +
	"dolore eu fugiat nulla pariatur. " +
	"Excepteur sint occaecat cupidatat non proident, sunt in culpa qui " +
	"officia deserunt mollit anim id est laborum."

// wrappedLines word-wraps the lorem-ipsum paragraph, repeated enough times
// to produce exactly wantLines lines of wordsPerLine words apiece. The
// paragraph has 69 words; 20 repeats times 23 words/line divides evenly,
// so the last line ends precisely on the paragraph's closing sentence.
func wrappedLines(wantLines, wordsPerLine, repeats int) []string {
	words := strings.Fields(loremIpsumParagraph)
	all := make([]string, 0, len(words)*repeats)
	for i := 0; i < repeats; i++ {
		all = append(all, words...)
	}
	lines := make([]string, 0, wantLines)
	for i := 0; i < wantLines; i++ {
		start := i * wordsPerLine
		end := start + wordsPerLine
		if start >= len(all) {
			break
		}
		if end > len(all) {
			end = len(all)
		}
		lines = append(lines, strings.Join(all[start:end], " "))
	}
	return lines
}

// fixtureLines is the 60-line seed fixture served at the canonical
// "TestText" resource: lines[0:6] are the paragraph's first six wrapped
// lines, and the full body, read contiguously, starts with "Lorem ipsum
// dolor sit amet" and ends with "deserunt mollit anim id est laborum."
var fixtureLines = wrappedLines(60, 23, 20)

// fixtureURLs is the canonical "TestURLs" fixture: a small, fixed set of
// URLs spanning every scheme the locator understands.
var fixtureURLs = []string{
	"file:///proc/cpuinfo",
	"file:///etc/hosts",
	"ftp://example.com/file.txt",
	"https://oglplus.org/",
}

// Provider serves the lorem-ipsum text fixture, the URL-list fixture, and —
// when built by NewResourceList — a self-describing resource-list body.
type Provider struct {
	repeatable    map[string]string // path -> body, repeatable via `repeat=N`
	fixed         map[string]string // path -> fixed body, never repeated
	defaultRepeat int
}

// New creates a Provider. repeatablePaths registers paths whose body supports
// the `repeat=N` query argument (the lorem-ipsum text proper); fixedPaths registers
// paths served verbatim regardless of `repeat` (string/URL-list fixtures
// and the resource-list index, none of which tolerate repetition).
func New(repeatablePaths map[string]string, fixedPaths map[string]string) *Provider {
	p := &Provider{
		repeatable:    make(map[string]string, len(repeatablePaths)),
		fixed:         make(map[string]string, len(fixedPaths)),
		defaultRepeat: 1,
	}
	for k, v := range repeatablePaths {
		p.repeatable[k] = v
	}
	for k, v := range fixedPaths {
		p.fixed[k] = v
	}
	return p
}

// WithDefaultRepeat sets the `repeat=N` default applied when a request
// omits the query argument (config.Config.TextRepeatDefault). n<1 is
// clamped to 1. Returns p for chaining at construction time.
func (p *Provider) WithDefaultRepeat(n int) *Provider {
	if n < 1 {
		n = 1
	}
	p.defaultRepeat = n
	return p
}

// NewSeedFixtures builds the Provider carrying the standard lorem-ipsum,
// string-list, and URL-list seed fixtures used to exercise the loader's
// plain-text, string-list, and URL-list request kinds.
func NewSeedFixtures() *Provider {
	return New(
		map[string]string{
			"/lorem_ipsum": loremIpsumParagraph,
		},
		map[string]string{
			"/TestText": strings.Join(fixtureLines, "\n"),
			"/TestURLs": strings.Join(fixtureURLs, "\n"),
		},
	)
}

// NewResourceList builds a Provider exposing a single fixed path whose body
// is the newline-separated set of canonical URLs reported by reg, matching
// the original's self-describing resource-list index.
func NewResourceList(path string, reg interface{ ForEachLocator(func(string)) }) *Provider {
	var urls []string
	reg.ForEachLocator(func(url string) { urls = append(urls, url) })
	return New(nil, map[string]string{path: strings.Join(urls, "\n")})
}

func (p *Provider) Name() string { return "text" }

func (p *Provider) HasResource(loc locator.Locator) bool {
	if _, ok := p.fixed[loc.Path()]; ok {
		return true
	}
	_, ok := p.repeatable[loc.Path()]
	return ok
}

func (p *Provider) GetResourceIO(id resource.RequestID, loc locator.Locator) (blobio.BlobIO, bool, error) {
	if body, ok := p.fixed[loc.Path()]; ok {
		return blobio.NewFixedBuffer([]byte(body)), true, nil
	}
	body, ok := p.repeatable[loc.Path()]
	if !ok {
		return nil, false, nil
	}
	repeat := locator.ArgInt(loc, "repeat", p.defaultRepeat)
	if repeat < 1 {
		repeat = 1
	}
	return blobio.NewFixedBuffer([]byte(strings.Repeat(body, repeat))), true, nil
}

func (p *Provider) BlobTimeout(resource.RequestID, locator.Locator, int64, time.Duration) time.Duration {
	return time.Second
}

func (p *Provider) BlobPriority(_ resource.RequestID, _ locator.Locator, def resource.Priority) resource.Priority {
	return def
}

func (p *Provider) ForEachLocator(fn func(url string)) {
	for path := range p.fixed {
		fn("txt://" + path)
	}
	for path := range p.repeatable {
		fn("txt://" + path)
	}
}
