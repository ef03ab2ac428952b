package pending_test

import (
	"testing"

	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/pending"
	"github.com/stretchr/testify/require"
)

func TestAllocAssignsDistinctIDsAndLoadingStatus(t *testing.T) {
	a := pending.NewArena()

	id1 := a.Alloc(resource.KindPlainText, resource.Params{Label: "a"})
	id2 := a.Alloc(resource.KindGLBuffer, resource.Params{Label: "b"})
	require.NotEqual(t, id1, id2)

	e1, ok := a.Get(id1)
	require.True(t, ok)
	require.Equal(t, resource.StatusLoading, e1.Status)
	require.Equal(t, "a", e1.Label)
}

func TestReleaseInvalidatesStaleID(t *testing.T) {
	a := pending.NewArena()
	id := a.Alloc(resource.KindPlainText, resource.Params{})
	a.Release(id)

	_, ok := a.Get(id)
	require.False(t, ok)

	// The freed slot is reused under a new generation; the old RequestID
	// must never resolve to the new occupant.
	id2 := a.Alloc(resource.KindPlainText, resource.Params{})
	require.NotEqual(t, id, id2)
	_, ok = a.Get(id)
	require.False(t, ok)
}

func TestTransitionRejectsMovesOffTerminalStatus(t *testing.T) {
	a := pending.NewArena()
	id := a.Alloc(resource.KindPlainText, resource.Params{})

	require.NoError(t, a.Transition(id, resource.StatusLoaded))
	err := a.Transition(id, resource.StatusError)
	require.Error(t, err)
}

func TestSweepCancelledPropagatesFromFailedParent(t *testing.T) {
	a := pending.NewArena()
	parent := a.Alloc(resource.KindGLProgram, resource.Params{})
	child := a.Alloc(resource.KindGLShader, resource.Params{})
	a.AddChild(parent, child)

	require.NoError(t, a.Transition(parent, resource.StatusError))

	cancelled := a.SweepCancelled()
	require.Equal(t, []resource.RequestID{child}, cancelled)

	childEntry, ok := a.Get(child)
	require.True(t, ok)
	require.Equal(t, resource.StatusCancelled, childEntry.Status)
}

func TestAllChildrenTerminalReportsProgress(t *testing.T) {
	a := pending.NewArena()
	parent := a.Alloc(resource.KindGLProgram, resource.Params{})
	c1 := a.Alloc(resource.KindGLShader, resource.Params{})
	c2 := a.Alloc(resource.KindGLShader, resource.Params{})
	a.AddChild(parent, c1)
	a.AddChild(parent, c2)

	allTerminal, allLoaded := a.AllChildrenTerminal(parent)
	require.False(t, allTerminal)
	require.False(t, allLoaded)

	require.NoError(t, a.Transition(c1, resource.StatusLoaded))
	allTerminal, allLoaded = a.AllChildrenTerminal(parent)
	require.False(t, allTerminal)
	require.False(t, allLoaded)

	require.NoError(t, a.Transition(c2, resource.StatusLoaded))
	allTerminal, allLoaded = a.AllChildrenTerminal(parent)
	require.True(t, allTerminal)
	require.True(t, allLoaded)
}

func TestAllChildrenTerminalFalseWhenOneErrors(t *testing.T) {
	a := pending.NewArena()
	parent := a.Alloc(resource.KindGLTexture, resource.Params{})
	c1 := a.Alloc(resource.KindGLTextureImage, resource.Params{})
	a.AddChild(parent, c1)

	require.NoError(t, a.Transition(c1, resource.StatusError))
	allTerminal, allLoaded := a.AllChildrenTerminal(parent)
	require.True(t, allTerminal)
	require.False(t, allLoaded)
}
