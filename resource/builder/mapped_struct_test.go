package builder_test

import (
	"testing"

	"github.com/oxy-go/oxyres/resource/builder"
	"github.com/stretchr/testify/require"
)

type targetStruct struct {
	Name   string
	Width  int
	Factor float64
	Active bool
}

func TestMappedStructWritesFields(t *testing.T) {
	var target targetStruct
	fields := builder.FieldMap{
		"name":   "Name",
		"width":  "Width",
		"factor": "Factor",
		"active": "Active",
	}
	b := builder.NewMappedStruct(&target, fields)

	b.AddStrings(builder.Path{"name"}, []string{"sample"})
	b.AddInts(builder.Path{"width"}, []int64{1024})
	b.AddFloats(builder.Path{"factor"}, []float64{0.5})
	b.AddBools(builder.Path{"active"}, []bool{true})
	b.Finish()

	require.False(t, b.Failed())
	require.Equal(t, builder.StatusOK, b.Status())
	require.Equal(t, targetStruct{Name: "sample", Width: 1024, Factor: 0.5, Active: true}, target)
}

func TestMappedStructFailsOnTypeMismatch(t *testing.T) {
	var target targetStruct
	b := builder.NewMappedStruct(&target, builder.FieldMap{"name": "Width"})

	b.AddStrings(builder.Path{"name"}, []string{"not-an-int"})
	b.Finish()

	require.True(t, b.Failed())
	require.Equal(t, builder.StatusFieldError, b.Status())
}

func TestMappedStructRejectsNonPointerTarget(t *testing.T) {
	b := builder.NewMappedStruct(targetStruct{}, builder.FieldMap{})
	require.True(t, b.Failed())
}
