package builder_test

import (
	"testing"

	"github.com/oxy-go/oxyres/resource/builder"
	"github.com/stretchr/testify/require"
)

func TestGLBufferAccumulatesLabelAndData(t *testing.T) {
	b := builder.NewGLBuffer()
	b.AddStrings(builder.Path{"label"}, []string{"vertices"})
	b.AddInlineData([]byte{1, 2, 3})
	b.Finish()

	require.False(t, b.Failed())
	require.Equal(t, "vertices", b.Label())
	require.Equal(t, []byte{1, 2, 3}, b.Data())
}

func TestGLBufferFailsWithoutData(t *testing.T) {
	b := builder.NewGLBuffer()
	b.Finish()
	require.True(t, b.Failed())
}
