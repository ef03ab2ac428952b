package builder_test

import (
	"testing"

	"github.com/oxy-go/oxyres/resource/builder"
	"github.com/stretchr/testify/require"
)

func TestFloatVectorAssemblesByIndex(t *testing.T) {
	b := builder.NewFloatVector(0)
	b.AddFloats(builder.Path{"values", "2"}, []float64{3.5})
	b.AddFloats(builder.Path{"values", "0"}, []float64{1})
	b.AddFloats(builder.Path{"values", "1"}, []float64{2})
	b.Finish()

	require.False(t, b.Failed())
	require.Equal(t, []float64{1, 2, 3.5}, b.Values())
}

func TestVec3VectorDefaultsMissingComponentToZero(t *testing.T) {
	b := builder.NewVec3Vector(0)
	b.AddFloats(builder.Path{"values", "0", "x"}, []float64{1})
	b.AddFloats(builder.Path{"values", "0", "y"}, []float64{2})
	b.FinishObject(builder.Path{"values", "0"})
	b.Finish()

	require.False(t, b.Failed())
	require.Equal(t, []builder.Vec3{{1, 2, 0}}, b.Values())
}

func TestVec3VectorSucceedsWhenComplete(t *testing.T) {
	b := builder.NewVec3Vector(0)
	b.AddFloats(builder.Path{"values", "0", "x"}, []float64{1})
	b.AddFloats(builder.Path{"values", "0", "y"}, []float64{2})
	b.AddFloats(builder.Path{"values", "0", "z"}, []float64{3})
	b.FinishObject(builder.Path{"values", "0"})
	b.Finish()

	require.False(t, b.Failed())
	require.Equal(t, []builder.Vec3{{1, 2, 3}}, b.Values())
}

func TestMat4VectorAssemblesRowMajor(t *testing.T) {
	b := builder.NewMat4Vector(0)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			rc := string(rune('0'+row)) + string(rune('0'+col))
			b.AddFloats(builder.Path{"data", "0", rc}, []float64{float64(row*4 + col)})
		}
	}
	b.FinishObject(builder.Path{"data", "0"})
	b.Finish()

	require.False(t, b.Failed())
	require.Len(t, b.Values(), 1)
	for i := 0; i < 16; i++ {
		require.EqualValues(t, i, b.Values()[0][i])
	}
}
