package builder_test

import (
	"testing"

	"github.com/oxy-go/oxyres/resource/builder"
	"github.com/stretchr/testify/require"
)

type recordedMapping struct {
	class, method int64
	name          string
	kind          string
}

type fakeInputMapping struct {
	recorded []recordedMapping
}

func (m *fakeInputMapping) AddInputControl(name string, class, method int64) {
	m.recorded = append(m.recorded, recordedMapping{class, method, name, "input"})
}

func (m *fakeInputMapping) BindSlot(name string, class, method int64) {
	m.recorded = append(m.recorded, recordedMapping{class, method, name, "slot"})
}

func (m *fakeInputMapping) AddFeedback(name string, class, method int64) {
	m.recorded = append(m.recorded, recordedMapping{class, method, name, "feedback"})
}

func TestInputSetupDispatchesThreeKinds(t *testing.T) {
	mapping := &fakeInputMapping{}
	b := builder.NewInputSetup(mapping)

	b.AddObject(builder.Path{"input"})
	b.AddObject(builder.Path{"input", "jump"})
	b.AddInts(builder.Path{"input", "jump", "id", "0"}, []int64{1})
	b.AddInts(builder.Path{"input", "jump", "id", "1"}, []int64{2})
	b.FinishObject(builder.Path{"input"})

	b.AddObject(builder.Path{"slot"})
	b.AddObject(builder.Path{"slot", "move"})
	b.AddInts(builder.Path{"slot", "move", "id", "0"}, []int64{3})
	b.AddInts(builder.Path{"slot", "move", "id", "1"}, []int64{4})
	b.FinishObject(builder.Path{"slot"})

	b.AddObject(builder.Path{"feedback"})
	b.AddObject(builder.Path{"feedback", "rumble"})
	b.AddInts(builder.Path{"feedback", "rumble", "id", "0"}, []int64{5})
	b.AddInts(builder.Path{"feedback", "rumble", "id", "1"}, []int64{6})
	b.FinishObject(builder.Path{"feedback"})

	b.Finish()
	require.False(t, b.Failed())
	require.Equal(t, []recordedMapping{
		{1, 2, "jump", "input"},
		{3, 4, "move", "slot"},
		{5, 6, "rumble", "feedback"},
	}, mapping.recorded)
}

func TestInputSetupFailsOnIncompleteID(t *testing.T) {
	mapping := &fakeInputMapping{}
	b := builder.NewInputSetup(mapping)

	b.AddObject(builder.Path{"input"})
	b.AddObject(builder.Path{"input", "jump"})
	b.AddInts(builder.Path{"input", "jump", "id", "0"}, []int64{1})
	b.FinishObject(builder.Path{"input"})

	require.True(t, b.Failed())
	require.Empty(t, mapping.recorded)
}
