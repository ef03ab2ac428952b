package valuetree_test

import (
	"testing"

	"github.com/oxy-go/oxyres/resource/builder"
	"github.com/oxy-go/oxyres/resource/valuetree"
	"github.com/stretchr/testify/require"
)

func TestStreamDrivesFloatVectorByIndex(t *testing.T) {
	b := builder.NewFloatVector(0)
	require.NoError(t, valuetree.Stream([]byte(`{"values":[1,2,3,5,8,13,21]}`), b))
	require.False(t, b.Failed())
	require.Equal(t, []float64{1, 2, 3, 5, 8, 13, 21}, b.Values())
}

func TestStreamDrivesVec3VectorThroughObjectElements(t *testing.T) {
	b := builder.NewVec3Vector(0)
	doc := `{"values":[` +
		`{"x":1,"y":0,"z":0},` +
		`{"x":0,"y":2,"z":0},` +
		`{"x":0,"y":0,"z":3},` +
		`{"x":4,"y":5,"z":6}` +
		`]}`
	require.NoError(t, valuetree.Stream([]byte(doc), b))
	require.False(t, b.Failed())
	require.Equal(t, []builder.Vec3{{1, 0, 0}, {0, 2, 0}, {0, 0, 3}, {4, 5, 6}}, b.Values())
}

func TestStreamDrivesMat4VectorRowMajor(t *testing.T) {
	b := builder.NewMat4Vector(0)
	doc := `{"data":[
		{"00":1,"01":0,"02":0,"03":0,"10":0,"11":1,"12":0,"13":0,"20":0,"21":0,"22":1,"23":0,"30":0,"31":0,"32":0,"33":1},
		{"00":0,"01":1,"02":2,"03":3,"10":4,"11":5,"12":6,"13":7,"20":8,"21":9,"22":10,"23":11,"30":12,"31":13,"32":14,"33":15}
	]}`
	require.NoError(t, valuetree.Stream([]byte(doc), b))
	require.False(t, b.Failed())
	require.Len(t, b.Values(), 2)
	require.Equal(t, builder.Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}, b.Values()[0])
	for i := 0; i < 16; i++ {
		require.EqualValues(t, i, b.Values()[1][i])
	}
}

func TestStreamRejectsMalformedJSON(t *testing.T) {
	b := builder.NewFloatVector(0)
	err := valuetree.Stream([]byte(`{"values":[1,2,`), b)
	require.Error(t, err)
}
