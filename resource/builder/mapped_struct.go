package builder

import "reflect"

// FieldMap maps a single value-tree path (joined with '.') to the exported
// struct field it should write into (spec §4.D "Mapped-struct builder and
// loader": "bridges value-tree attributes to C-struct-style field
// mappings"). Keys are dotted paths, e.g. "position.x".
type FieldMap map[string]string

func joinPath(p Path) string {
	out := p[0]
	for _, c := range p[1:] {
		out += "." + c
	}
	return out
}

// MappedStruct writes value-tree scalars directly into an exported field of
// a caller-owned struct via a FieldMap, reporting a status the way the
// original's mapped-struct loader does (spec: "the loader variant writes
// into a caller-owned struct and sets a status").
type MappedStruct struct {
	target reflect.Value
	fields FieldMap
	status Status
	failed bool
}

// status values mirror the spec's loader status concept without importing
// the resource package's full Status enum (a mapped-struct load is a
// leaf operation, not itself a tracked request).
type Status int

const (
	StatusPending Status = iota
	StatusOK
	StatusFieldError
)

// NewMappedStruct creates a MappedStruct builder writing into target, which
// must be a non-nil pointer to a struct, using fields to resolve value-tree
// paths to field names.
func NewMappedStruct(target any, fields FieldMap) *MappedStruct {
	v := reflect.ValueOf(target)
	b := &MappedStruct{fields: fields, status: StatusPending}
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		b.failed = true
		b.status = StatusFieldError
		return b
	}
	b.target = v.Elem()
	return b
}

func (b *MappedStruct) MaxTokenSize() int { return defaultMaxTokenSize }

func (b *MappedStruct) setField(p Path, assign func(reflect.Value)) {
	if b.failed || len(p) == 0 {
		return
	}
	fieldName, ok := b.fields[joinPath(p)]
	if !ok {
		return
	}
	f := b.target.FieldByName(fieldName)
	if !f.IsValid() || !f.CanSet() {
		b.failed = true
		b.status = StatusFieldError
		return
	}
	assign(f)
}

func (b *MappedStruct) AddFloats(p Path, values []float64) {
	if len(values) == 0 {
		return
	}
	b.setField(p, func(f reflect.Value) {
		switch f.Kind() {
		case reflect.Float32, reflect.Float64:
			f.SetFloat(values[0])
		case reflect.Int, reflect.Int32, reflect.Int64:
			f.SetInt(int64(values[0]))
		default:
			b.failed = true
			b.status = StatusFieldError
		}
	})
}

func (b *MappedStruct) AddInts(p Path, values []int64) {
	if len(values) == 0 {
		return
	}
	b.setField(p, func(f reflect.Value) {
		switch f.Kind() {
		case reflect.Int, reflect.Int32, reflect.Int64:
			f.SetInt(values[0])
		case reflect.Float32, reflect.Float64:
			f.SetFloat(float64(values[0]))
		default:
			b.failed = true
			b.status = StatusFieldError
		}
	})
}

func (b *MappedStruct) AddBools(p Path, values []bool) {
	if len(values) == 0 {
		return
	}
	b.setField(p, func(f reflect.Value) {
		if f.Kind() != reflect.Bool {
			b.failed = true
			b.status = StatusFieldError
			return
		}
		f.SetBool(values[0])
	})
}

func (b *MappedStruct) AddStrings(p Path, values []string) {
	if len(values) == 0 {
		return
	}
	b.setField(p, func(f reflect.Value) {
		if f.Kind() != reflect.String {
			b.failed = true
			b.status = StatusFieldError
			return
		}
		f.SetString(values[0])
	})
}

func (*MappedStruct) AddObject(Path)    {}
func (*MappedStruct) FinishObject(Path) {}

func (b *MappedStruct) Finish() {
	if !b.failed {
		b.status = StatusOK
	}
}

func (b *MappedStruct) Failed() bool { return b.failed }

// Status returns the loader-style completion status.
func (b *MappedStruct) Status() Status { return b.status }

var _ Builder = (*MappedStruct)(nil)
