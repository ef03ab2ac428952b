// Package embedded implements the embedded provider (spec §4.C "Embedded
// provider"): resources baked into the binary, looked up by the URL's first
// path segment, grounded in the original's embedded_resource_provider
// (original_source/source/app/resource_provider/embedded.cpp), which looks
// the path's identifier up in an embedded_resource_loader table.
package embedded

import (
	"strings"
	"time"

	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/blobio"
	"github.com/oxy-go/oxyres/resource/locator"
)

// Provider serves byte slices registered under an identifier — typically
// produced by Go's own `embed.FS` at build time and handed to New, keeping
// this package decoupled from any particular embed directive.
type Provider struct {
	table map[string][]byte
}

// New creates a Provider over the given identifier → bytes table.
func New(table map[string][]byte) *Provider {
	t := make(map[string][]byte, len(table))
	for k, v := range table {
		t[k] = v
	}
	return &Provider{table: t}
}

// identifier extracts the first path segment of loc, matching the
// original's `locator.path_identifier()`.
func identifier(loc locator.Locator) string {
	trimmed := strings.TrimPrefix(loc.Path(), "/")
	if i := strings.IndexByte(trimmed, '/'); i >= 0 {
		return trimmed[:i]
	}
	return trimmed
}

func (p *Provider) Name() string { return "embedded" }

func (p *Provider) HasResource(loc locator.Locator) bool {
	_, ok := p.table[identifier(loc)]
	return ok
}

func (p *Provider) GetResourceIO(id resource.RequestID, loc locator.Locator) (blobio.BlobIO, bool, error) {
	data, ok := p.table[identifier(loc)]
	if !ok {
		return nil, false, nil
	}
	return blobio.NewFixedBuffer(data), true, nil
}

func (p *Provider) BlobTimeout(resource.RequestID, locator.Locator, int64, time.Duration) time.Duration {
	return time.Second
}

func (p *Provider) BlobPriority(_ resource.RequestID, _ locator.Locator, def resource.Priority) resource.Priority {
	return def
}

func (p *Provider) ForEachLocator(fn func(url string)) {
	for id := range p.table {
		fn("embedded:///" + id)
	}
}
