package cubemapsky

import (
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oxy-go/oxyres/internal/gpu"
)

// GPURenderer is the production Renderer: it computes the analytic sky
// gradient for each face on the CPU, uploads it into a GPU texture owned by
// the context, and returns those same CPU-computed bytes for the blob body.
// The texture is not read back.
type GPURenderer struct {
	ctx gpu.Context
	tex *gpu.Texture
}

// NewGPURenderer creates a GPURenderer that renders into a size×size×6
// RGBA8 cube-map texture owned by ctx. Close releases the texture.
func NewGPURenderer(ctx gpu.Context, size int) (*GPURenderer, error) {
	tex, err := ctx.CreateTexture(gpu.TextureDescriptor{
		Label:      "cubemap-sky",
		Dimensions: 2,
		Width:      uint32(size),
		Height:     uint32(size),
		Depth:      6,
		Format:     wgpu.TextureFormatRGBA8Unorm,
		Usage:      wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("cubemapsky: create cube texture: %w", err)
	}
	return &GPURenderer{ctx: ctx, tex: &tex}, nil
}

// Close releases the underlying cube-map texture.
func (r *GPURenderer) Close() error { return r.tex.Close() }

// RenderFace computes a simple Preetham-style sky gradient for face,
// biased by the sun elevation and turbidity parameters, uploads it to the
// owned texture, and returns the RGBA8 pixel bytes.
func (r *GPURenderer) RenderFace(params SkyParameters, face Face, size int) ([]byte, error) {
	pixels := make([]byte, size*size*4)
	zenith := faceZenithBias(face)
	for y := 0; y < size; y++ {
		v := 1 - 2*float64(y)/float64(size-maxInt(size-1, 1))
		for x := 0; x < size; x++ {
			elevation := zenith + v*0.5
			horizonFade := clamp01(elevation + params.SunElevation)
			r8, g8, b8 := skyColor(horizonFade, params.Turbidity)
			i := (y*size + x) * 4
			pixels[i+0] = r8
			pixels[i+1] = g8
			pixels[i+2] = b8
			pixels[i+3] = 0xFF
		}
	}
	r.tex.WriteLevel(r.ctx.Queue(), 0, 0, 0, uint32(face), uint32(size), uint32(size), 4, pixels)
	return pixels, nil
}

func faceZenithBias(f Face) float64 {
	switch f {
	case FacePositiveY:
		return 1
	case FaceNegativeY:
		return -1
	default:
		return 0
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// skyColor blends a deep atmosphere blue into a haze tint near the horizon,
// with turbidity widening the haze band, following the shape (not the exact
// math) of a Preetham sky model.
func skyColor(horizonFade, turbidity float64) (byte, byte, byte) {
	haze := clamp01(1 - math.Pow(horizonFade, 1/(turbidity+1e-3)))
	deepR, deepG, deepB := 0.2, 0.4, 0.9
	hazeR, hazeG, hazeB := 0.9, 0.85, 0.75
	r := deepR + (hazeR-deepR)*haze
	g := deepG + (hazeG-deepG)*haze
	b := deepB + (hazeB-deepB)*haze
	return byte(clamp01(r) * 255), byte(clamp01(g) * 255), byte(clamp01(b) * 255)
}

var _ Renderer = (*GPURenderer)(nil)
