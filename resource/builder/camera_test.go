package builder_test

import (
	"testing"

	"github.com/oxy-go/oxyres/resource/builder"
	"github.com/stretchr/testify/require"
)

type fakeCamera struct {
	near, far, orbitMin, orbitMax, fov, azimuth, elevation float64
}

func (c *fakeCamera) SetNear(v float64)        { c.near = v }
func (c *fakeCamera) SetFar(v float64)         { c.far = v }
func (c *fakeCamera) SetOrbitMin(v float64)    { c.orbitMin = v }
func (c *fakeCamera) SetOrbitMax(v float64)    { c.orbitMax = v }
func (c *fakeCamera) SetFOVRadians(v float64)  { c.fov = v }
func (c *fakeCamera) SetAzimuth(v float64)     { c.azimuth = v }
func (c *fakeCamera) SetElevation(v float64)   { c.elevation = v }

func TestCameraConvertsDegreesToRadians(t *testing.T) {
	cam := &fakeCamera{}
	b := builder.NewCamera(cam)

	b.AddFloats(builder.Path{"near"}, []float64{0.1})
	b.AddFloats(builder.Path{"far"}, []float64{100})
	b.AddFloats(builder.Path{"fov_deg"}, []float64{90})
	b.AddFloats(builder.Path{"azimuth_rad"}, []float64{1.5})
	b.Finish()

	require.False(t, b.Failed())
	require.Equal(t, 0.1, cam.near)
	require.Equal(t, 100.0, cam.far)
	require.InDelta(t, 1.5707963, cam.fov, 1e-6)
	require.Equal(t, 1.5, cam.azimuth)
}
