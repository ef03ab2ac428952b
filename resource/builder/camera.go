package builder

import "math"

// CameraTarget receives the scalar camera parameters as they stream in
// (spec §4.D "Camera parameters builder": "maps well-known scalar paths...
// to camera setters"). Implementations are expected to be cheap setters on
// a camera/controller object; Camera never holds the target itself beyond
// what it needs to dispatch.
type CameraTarget interface {
	SetNear(v float64)
	SetFar(v float64)
	SetOrbitMin(v float64)
	SetOrbitMax(v float64)
	SetFOVRadians(v float64)
	SetAzimuth(v float64)
	SetElevation(v float64)
}

// Camera streams `near`, `far`, `orbit_min`, `orbit_max`, `fov_deg|fov_rad`
// and `azimuth_*`/`elevation_*` scalar paths straight onto a CameraTarget.
type Camera struct {
	target CameraTarget
	failed bool
}

// NewCamera creates a Camera builder dispatching onto target.
func NewCamera(target CameraTarget) *Camera { return &Camera{target: target} }

func (b *Camera) MaxTokenSize() int { return defaultMaxTokenSize }

func (b *Camera) AddFloats(p Path, values []float64) {
	if len(p) != 1 || len(values) == 0 {
		return
	}
	v := values[0]
	switch p[0] {
	case "near":
		b.target.SetNear(v)
	case "far":
		b.target.SetFar(v)
	case "orbit_min":
		b.target.SetOrbitMin(v)
	case "orbit_max":
		b.target.SetOrbitMax(v)
	case "fov_deg":
		b.target.SetFOVRadians(v * math.Pi / 180)
	case "fov_rad":
		b.target.SetFOVRadians(v)
	case "azimuth_deg":
		b.target.SetAzimuth(v * math.Pi / 180)
	case "azimuth_rad":
		b.target.SetAzimuth(v)
	case "elevation_deg":
		b.target.SetElevation(v * math.Pi / 180)
	case "elevation_rad":
		b.target.SetElevation(v)
	}
}

func (b *Camera) AddInts(p Path, values []int64) {
	if len(values) == 0 {
		return
	}
	b.AddFloats(p, []float64{float64(values[0])})
}

func (*Camera) AddBools(Path, []bool)     {}
func (*Camera) AddStrings(Path, []string) {}
func (*Camera) AddObject(Path)            {}
func (*Camera) FinishObject(Path)         {}
func (*Camera) Finish()                   {}
func (b *Camera) Failed() bool            { return b.failed }

var _ Builder = (*Camera)(nil)
