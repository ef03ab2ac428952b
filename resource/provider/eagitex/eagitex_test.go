package eagitex_test

import (
	"encoding/json"
	"testing"

	"github.com/oxy-go/oxyres/resource/locator"
	"github.com/oxy-go/oxyres/resource/provider/eagitex"
	"github.com/stretchr/testify/require"
)

func TestSquare2DDescribesMipmapChain(t *testing.T) {
	p := eagitex.NewSquare2D("/checks", "/checks", "unsigned_byte", "red", "r8", 1)
	loc := locator.MustParse("eagitex:///checks?size=4")
	require.True(t, p.HasResource(loc))

	io, ok, err := p.GetResourceIO(1, loc)
	require.NoError(t, err)
	require.True(t, ok)

	buf := make([]byte, io.TotalSize())
	n := io.FetchFragment(0, buf)

	var doc struct {
		Levels int `json:"levels"`
		Width  int `json:"width"`
		Images []struct {
			URL   string `json:"url"`
			Level int    `json:"level"`
		} `json:"images"`
	}
	require.NoError(t, json.Unmarshal(buf[:n], &doc))
	require.Equal(t, 4, doc.Width)
	require.Equal(t, 3, doc.Levels)
	require.Len(t, doc.Images, 3)
	require.Equal(t, 0, doc.Images[0].Level)
	require.Contains(t, doc.Images[0].URL, "width=4")
	require.Contains(t, doc.Images[2].URL, "width=1")
}

func TestSquare2DRejectsWrongPath(t *testing.T) {
	p := eagitex.NewSquare2D("/checks", "/checks", "unsigned_byte", "red", "r8", 1)
	require.False(t, p.HasResource(locator.MustParse("eagitex:///other")))
}
