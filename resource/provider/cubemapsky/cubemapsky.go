// Package cubemapsky implements the GPU-rendered cube-map sky provider
// (spec §4.C "Generated image providers", the cube-map sky variant): it
// drives a Renderer through the six 2-D faces of an atmosphere model,
// compresses the face bytes the Renderer returns with zlib, and streams a
// `.eagitexi` cube-map
// image whose prepare() progress advances through three phases — parameter
// loading, rendering, streaming — matching the original design notes (spec
// §4.C, last paragraph). There is no original_source file dedicated to this
// provider; it is grounded in the original's general eagitexi/GL-resource
// shape (eagitexi_provider.hpp, resource_gl_builders_impl.cpp) and in the
// teacher's own wgpu-backed renderer (the repo this provider's GL plumbing
// is adapted from, see internal/gpu).
package cubemapsky

import (
	"time"

	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/blobio"
	"github.com/oxy-go/oxyres/resource/locator"
)

// Phase names the three stages prepare() advances through.
type Phase int

const (
	PhaseParameters Phase = iota
	PhaseRendering
	PhaseStreaming
	phaseCount
)

// Face is one of the six cube-map targets, in the order the wire format's
// z_offs invariant expects (spec §6, "face index is projected to z_offs").
type Face int

const (
	FacePositiveX Face = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
	FaceCount
)

// SkyParameters holds the atmosphere model inputs parsed from the request
// URL's query arguments.
type SkyParameters struct {
	Width        int
	SunElevation float64 // radians above the horizon
	Turbidity    float64
	CloudSource  string // the `clouds` query argument; no Renderer in this package reads it
}

// Renderer renders one cube-map face of size×size RGBA8 pixels for the
// given parameters. Production code backs this with internal/gpu; tests use
// a deterministic stub, keeping the provider itself free of any concrete GL
// dependency.
type Renderer interface {
	RenderFace(params SkyParameters, face Face, size int) ([]byte, error)
}

// Provider serves "eagitexi:///sky" by driving a Renderer through all six
// faces and assembling a `.eagitexi` cube-map image.
type Provider struct {
	render Renderer
}

// New creates a Provider backed by render.
func New(render Renderer) *Provider { return &Provider{render: render} }

func (*Provider) Name() string { return "eagitexi-cubemap-sky" }

func (*Provider) HasResource(loc locator.Locator) bool {
	if !(loc.HasScheme("eagitexi") && loc.HasPath("/sky")) {
		return false
	}
	return locator.ArgInt(loc, "width", 1) > 0
}

func (p *Provider) GetResourceIO(_ resource.RequestID, loc locator.Locator) (blobio.BlobIO, bool, error) {
	if !p.HasResource(loc) {
		return nil, false, nil
	}
	params := SkyParameters{
		Width:        locator.ArgInt(loc, "width", 64),
		SunElevation: locator.ArgFloat(loc, "sun_elevation", 0.6),
		Turbidity:    locator.ArgFloat(loc, "turbidity", 3),
		CloudSource:  loc.ArgValueOr("clouds", ""),
	}
	return newSkyIO(p.render, params), true, nil
}

func (*Provider) BlobTimeout(resource.RequestID, locator.Locator, int64, time.Duration) time.Duration {
	return 30 * time.Second
}

func (*Provider) BlobPriority(_ resource.RequestID, _ locator.Locator, def resource.Priority) resource.Priority {
	return def
}

func (*Provider) ForEachLocator(fn func(url string)) {
	fn("eagitexi:///sky?width=64")
}
