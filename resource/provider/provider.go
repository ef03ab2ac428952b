// Package provider implements the Provider Registry (spec §4.B) and the
// Provider capability every concrete source (file, embedded, generated
// texture, GPU-rendered cube-map sky, ...) implements.
package provider

import (
	"fmt"
	"time"

	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/blobio"
	"github.com/oxy-go/oxyres/resource/locator"
)

// Provider answers the four questions every concrete source in §4.C must
// answer: does it serve this URL, build a Blob I/O, what timeout/priority to
// recommend, and which canonical URLs does it expose.
type Provider interface {
	// Name identifies the provider for logging and registry introspection.
	Name() string

	// HasResource reports whether this provider claims loc.
	HasResource(loc locator.Locator) bool

	// GetResourceIO builds a BlobIO for loc, or (nil, false) if this
	// provider does not claim loc after all (HasResource is a fast
	// pre-filter; GetResourceIO is the authority).
	GetResourceIO(id resource.RequestID, loc locator.Locator) (blobio.BlobIO, bool, error)

	// BlobTimeout recommends a timeout for delivering size bytes of loc,
	// falling back to def when the provider has no opinion.
	BlobTimeout(id resource.RequestID, loc locator.Locator, size int64, def time.Duration) time.Duration

	// BlobPriority recommends a fetch priority for loc, falling back to def.
	BlobPriority(id resource.RequestID, loc locator.Locator, def resource.Priority) resource.Priority

	// ForEachLocator calls fn once per canonical URL this provider exposes,
	// for discovery (spec §4.B, and the resource-list provider's
	// self-describing index).
	ForEachLocator(fn func(url string))
}

// Registry holds an ordered list of Providers; order is precedence — the
// earliest registered provider that claims a URL wins, and there is no
// fallback if a matching provider fails mid-stream (spec §4.B "Policy").
type Registry struct {
	providers []Provider
}

// NewRegistry creates an empty Registry. Providers are appended with
// Register in the order that should apply at lookup time.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends p to the registry. Registration order is significant:
// the first provider (in registration order) whose HasResource or
// GetResourceIO claims a URL wins.
func (r *Registry) Register(p Provider) {
	r.providers = append(r.providers, p)
}

// Providers returns the registered providers in precedence order. Callers
// must not mutate the returned slice.
func (r *Registry) Providers() []Provider {
	return r.providers
}

// HasResource reports whether any registered provider claims loc.
func (r *Registry) HasResource(loc locator.Locator) bool {
	for _, p := range r.providers {
		if p.HasResource(loc) {
			return true
		}
	}
	return false
}

// GetResourceIO asks providers in registration order and returns the first
// non-nil BlobIO. Returns (nil, false, nil) if no provider claims loc.
func (r *Registry) GetResourceIO(id resource.RequestID, loc locator.Locator) (blobio.BlobIO, bool, error) {
	for _, p := range r.providers {
		if !p.HasResource(loc) {
			continue
		}
		io, ok, err := p.GetResourceIO(id, loc)
		if err != nil {
			return nil, false, err
		}
		if ok {
			return io, true, nil
		}
	}
	return nil, false, nil
}

// GetBlobTimeout delegates to the first provider that claims loc, or returns
// def if none do.
func (r *Registry) GetBlobTimeout(id resource.RequestID, loc locator.Locator, size int64, def time.Duration) time.Duration {
	if p := r.owner(loc); p != nil {
		return p.BlobTimeout(id, loc, size, def)
	}
	return def
}

// GetBlobPriority delegates to the first provider that claims loc, or
// returns def if none do.
func (r *Registry) GetBlobPriority(id resource.RequestID, loc locator.Locator, def resource.Priority) resource.Priority {
	if p := r.owner(loc); p != nil {
		return p.BlobPriority(id, loc, def)
	}
	return def
}

// ForEachLocator aggregates provider-advertised URLs across every
// registered provider, in registration order (spec §4.B "for_each_locator").
func (r *Registry) ForEachLocator(fn func(url string)) {
	for _, p := range r.providers {
		p.ForEachLocator(fn)
	}
}

func (r *Registry) owner(loc locator.Locator) Provider {
	for _, p := range r.providers {
		if p.HasResource(loc) {
			return p
		}
	}
	return nil
}

// ReadAll resolves url against the registry and drains its BlobIO to
// completion outside of the loader's own pending-request pump. It exists
// for providers that recursively depend on another resource's full body
// rather than a streamed chunk at a time — the tiling generator reading
// its `source` text (spec §4.C "it depends on the loader recursively").
// It still honors the BlobIO contract (repeated Prepare + drain of
// the materialized prefix), just synchronously rather than across pump
// ticks, since callers of ReadAll need the whole body before they can
// proceed.
func (r *Registry) ReadAll(id resource.RequestID, url string) ([]byte, bool, error) {
	loc, err := locator.Parse(url)
	if err != nil {
		return nil, false, fmt.Errorf("provider: parse %q: %w", url, err)
	}
	io, ok, err := r.GetResourceIO(id, loc)
	if err != nil || !ok {
		return nil, ok, err
	}
	for {
		progress, err := io.Prepare()
		if err != nil {
			return nil, false, fmt.Errorf("provider: prepare %q: %w", url, err)
		}
		if progress.Done() {
			if progress.State == blobio.Failed {
				return nil, false, fmt.Errorf("provider: %q: blob preparation failed", url)
			}
			break
		}
	}
	size := io.TotalSize()
	buf := make([]byte, size)
	n := io.FetchFragment(0, buf)
	return buf[:n], true, nil
}
