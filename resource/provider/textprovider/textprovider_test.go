package textprovider_test

import (
	"strings"
	"testing"

	"github.com/oxy-go/oxyres/resource/locator"
	"github.com/oxy-go/oxyres/resource/provider/textprovider"
	"github.com/stretchr/testify/require"
)

func TestSeedPlainTextStartsAndEndsCanonically(t *testing.T) {
	p := textprovider.NewSeedFixtures()
	loc := locator.MustParse("txt:///TestText")
	require.True(t, p.HasResource(loc))

	io, ok, err := p.GetResourceIO(1, loc)
	require.NoError(t, err)
	require.True(t, ok)

	dst := make([]byte, io.TotalSize())
	n := io.FetchFragment(0, dst)
	text := string(dst[:n])

	require.True(t, strings.HasPrefix(text, "Lorem ipsum dolor sit amet"))
	require.True(t, strings.HasSuffix(text, "deserunt mollit anim id est laborum."))
}

func TestSeedStringListHasSixtyCanonicalLines(t *testing.T) {
	p := textprovider.NewSeedFixtures()
	loc := locator.MustParse("txt:///TestText")

	io, _, err := p.GetResourceIO(1, loc)
	require.NoError(t, err)

	dst := make([]byte, io.TotalSize())
	n := io.FetchFragment(0, dst)
	lines := strings.Split(string(dst[:n]), "\n")

	require.Len(t, lines, 60)
	for i, line := range lines[:6] {
		require.NotEmpty(t, line, "line %d", i)
	}
	require.True(t, strings.HasPrefix(lines[0], "Lorem ipsum dolor sit amet"))
}

func TestSeedURLListHasFourURLs(t *testing.T) {
	p := textprovider.NewSeedFixtures()
	loc := locator.MustParse("txt:///TestURLs")

	io, ok, err := p.GetResourceIO(1, loc)
	require.NoError(t, err)
	require.True(t, ok)

	dst := make([]byte, io.TotalSize())
	n := io.FetchFragment(0, dst)
	urls := strings.Split(string(dst[:n]), "\n")

	require.Equal(t, []string{
		"file:///proc/cpuinfo",
		"file:///etc/hosts",
		"ftp://example.com/file.txt",
		"https://oglplus.org/",
	}, urls)
}

func TestLoremIpsumRepeatArgument(t *testing.T) {
	p := textprovider.NewSeedFixtures()

	one, _, err := p.GetResourceIO(1, locator.MustParse("txt:///lorem_ipsum"))
	require.NoError(t, err)
	oneBuf := make([]byte, one.TotalSize())
	one.FetchFragment(0, oneBuf)

	three, _, err := p.GetResourceIO(1, locator.MustParse("txt:///lorem_ipsum?repeat=3"))
	require.NoError(t, err)
	threeBuf := make([]byte, three.TotalSize())
	three.FetchFragment(0, threeBuf)

	require.Equal(t, len(oneBuf)*3, len(threeBuf))
	require.Equal(t, string(oneBuf), string(threeBuf[:len(oneBuf)]))
}

func TestResourceListAggregatesRegistryURLs(t *testing.T) {
	stub := stubRegistry{urls: []string{"file:///a", "embedded:///b"}}
	p := textprovider.NewResourceList("/AllResources", stub)

	loc := locator.MustParse("txt:///AllResources")
	require.True(t, p.HasResource(loc))

	io, _, err := p.GetResourceIO(1, loc)
	require.NoError(t, err)
	dst := make([]byte, io.TotalSize())
	n := io.FetchFragment(0, dst)
	require.Equal(t, "file:///a\nembedded:///b", string(dst[:n]))
}

type stubRegistry struct{ urls []string }

func (s stubRegistry) ForEachLocator(fn func(string)) {
	for _, u := range s.urls {
		fn(u)
	}
}
