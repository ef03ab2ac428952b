package loader

import (
	"fmt"

	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/builder"
	"github.com/oxy-go/oxyres/resource/valuetree"
)

// streamInto decodes data through valuetree.Stream into b, reporting a
// builder-failure error uniformly for every vector/value-tree kind: a
// malformed document or a builder that rejects its shape both surface as
// ErrBuilderFailed (spec §7 error taxonomy).
func streamInto(data []byte, b builder.Builder) error {
	if err := valuetree.Stream(data, b); err != nil {
		return fmt.Errorf("%w: %v", ErrBuilderFailed, err)
	}
	if b.Failed() {
		return ErrBuilderFailed
	}
	return nil
}

type floatVectorDriver struct{ b *builder.FloatVector }

func (d floatVectorDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	if err := streamInto(data, d.b); err != nil {
		l.completeError(id, err)
		return
	}
	values := d.b.Values()
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.FloatVectorLoaded {
			fn(FloatVectorEvent{RequestID: id, URL: url, Values: values})
		}
	})
}

// RequestFloatVector fetches a `values[i]`-shaped JSON document into a flat
// float vector (spec §4.D "Float vector builder"). sizeHint pre-reserves the
// builder's backing slice.
func (l *Loader) RequestFloatVector(params resource.Params, sizeHint int) Result {
	return l.allocSource(resource.KindFloatVector, params, floatVectorDriver{b: builder.NewFloatVector(sizeHint)})
}

type vec3VectorDriver struct{ b *builder.Vec3Vector }

func (d vec3VectorDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	if err := streamInto(data, d.b); err != nil {
		l.completeError(id, err)
		return
	}
	values := d.b.Values()
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.Vec3VectorLoaded {
			fn(Vec3VectorEvent{RequestID: id, URL: url, Values: values})
		}
	})
}

// RequestVec3Vector fetches a `values[i].{x,y,z}`-shaped JSON document into a
// Vec3 vector (spec §4.D "Vec3 vector builder").
func (l *Loader) RequestVec3Vector(params resource.Params, sizeHint int) Result {
	return l.allocSource(resource.KindVec3Vector, params, vec3VectorDriver{b: builder.NewVec3Vector(sizeHint)})
}

type mat4VectorDriver struct{ b *builder.Mat4Vector }

func (d mat4VectorDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	if err := streamInto(data, d.b); err != nil {
		l.completeError(id, err)
		return
	}
	values := d.b.Values()
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.Mat4VectorLoaded {
			fn(Mat4VectorEvent{RequestID: id, URL: url, Values: values})
		}
	})
}

// RequestMat4Vector fetches a `data[i]{rc}`-shaped JSON document into a Mat4
// vector (spec §4.D "Mat4 vector builder").
func (l *Loader) RequestMat4Vector(params resource.Params, sizeHint int) Result {
	return l.allocSource(resource.KindMat4Vector, params, mat4VectorDriver{b: builder.NewMat4Vector(sizeHint)})
}

// smoothVec3CurveDriver decodes the same `values[i].{x,y,z}` control-point
// shape as Vec3Vector; the curve-fitting itself is the shape-generator
// library's job (§1 Non-goals), so this driver only forwards the decoded
// control points for that external collaborator to smooth.
type smoothVec3CurveDriver struct{ b *builder.Vec3Vector }

func (d smoothVec3CurveDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	if err := streamInto(data, d.b); err != nil {
		l.completeError(id, err)
		return
	}
	points := d.b.Values()
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.SmoothVec3CurveLoaded {
			fn(SmoothVec3CurveEvent{RequestID: id, URL: url, ControlPoint: points})
		}
	})
}

// RequestSmoothVec3Curve fetches a vec3 control-point document destined for
// curve smoothing (spec §4.D "Smooth vec3 curve builder").
func (l *Loader) RequestSmoothVec3Curve(params resource.Params, sizeHint int) Result {
	return l.allocSource(resource.KindSmoothVec3Curve, params, smoothVec3CurveDriver{b: builder.NewVec3Vector(sizeHint)})
}

// valueTreeDriver forwards the decoded JSON document verbatim, for callers
// that consume the raw value tree directly (a shape generator's input, a
// continuation target) rather than through one of the typed vector
// builders.
type valueTreeDriver struct{}

func (valueTreeDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	raw := append([]byte(nil), data...)
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.ValueTreeLoaded {
			fn(ValueTreeEvent{RequestID: id, URL: url, Raw: raw})
		}
	})
}

// RequestValueTree fetches url and delivers its raw JSON bytes, without
// driving any particular builder (spec §4.D "the value-tree parser... is
// assumed available" — this is the pass-through seam other continuations
// attach to).
func (l *Loader) RequestValueTree(params resource.Params) Result {
	return l.allocSource(resource.KindValueTree, params, valueTreeDriver{})
}

type mappedStructDriver struct{ b *builder.MappedStruct }

func (d mappedStructDriver) onFinished(l *Loader, id resource.RequestID, url string, data []byte) {
	if err := streamInto(data, d.b); err != nil {
		l.completeError(id, err)
		return
	}
	status := d.b.Status()
	l.completeLoaded(id, func() {
		for _, fn := range l.signals.MappedStructLoaded {
			fn(MappedStructEvent{RequestID: id, URL: url, Status: status})
		}
	})
}

// RequestMappedStruct fetches a JSON document and writes its fields directly
// into target via fields (spec §4.D "Mapped-struct builder and loader").
// This is a package-level function, not a Loader method: Go methods cannot
// carry their own type parameters, and the target type only matters to
// reflect.Value field assignment inside builder.NewMappedStruct, not to the
// Loader.
func RequestMappedStruct[T any](l *Loader, params resource.Params, target *T, fields builder.FieldMap) Result {
	b := builder.NewMappedStruct(target, fields)
	return l.allocSource(resource.KindMappedStruct, params, mappedStructDriver{b: b})
}
