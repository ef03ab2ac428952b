package loader_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/loader"
	"github.com/oxy-go/oxyres/resource/provider"
	"github.com/oxy-go/oxyres/resource/provider/textprovider"
)

func newTextLoader() (*loader.Loader, *textprovider.Provider) {
	tp := textprovider.NewSeedFixtures()
	reg := provider.NewRegistry()
	reg.Register(tp)
	return loader.New(reg), tp
}

func TestLoaderRequestPlainTextDeliversWholeBody(t *testing.T) {
	l, _ := newTextLoader()

	var got loader.PlainTextEvent
	fired := 0
	l.Signals().PlainTextLoaded = append(l.Signals().PlainTextLoaded, func(e loader.PlainTextEvent) {
		got = e
		fired++
	})

	res := l.RequestPlainText(resource.Params{URL: "fake:///TestText"})

	ok := pumpUntil(l.Update, func() bool {
		info, _ := l.GetInfo(res.RequestID)
		return info != nil && info.Status.Terminal()
	}, 3)
	require.True(t, ok)

	info, _ := l.GetInfo(res.RequestID)
	require.Equal(t, resource.StatusLoaded, info.Status)
	require.Equal(t, 1, fired)
	require.True(t, strings.HasPrefix(got.Text, "Lorem ipsum dolor sit amet"))
}

func TestLoaderRequestStringListSplitsLinesAndFiresPerLine(t *testing.T) {
	l, _ := newTextLoader()

	var lines []loader.StringLineEvent
	l.Signals().StringLineLoaded = append(l.Signals().StringLineLoaded, func(e loader.StringLineEvent) {
		lines = append(lines, e)
	})
	var list loader.StringListEvent
	l.Signals().StringListLoaded = append(l.Signals().StringListLoaded, func(e loader.StringListEvent) {
		list = e
	})

	res := l.RequestStringList(resource.Params{URL: "fake:///TestURLs"})

	ok := pumpUntil(l.Update, func() bool {
		info, _ := l.GetInfo(res.RequestID)
		return info != nil && info.Status.Terminal()
	}, 3)
	require.True(t, ok)

	require.Len(t, lines, 4)
	require.Equal(t, 0, lines[0].Index)
	require.Equal(t, list.Lines, []string{lines[0].Line, lines[1].Line, lines[2].Line, lines[3].Line})
}

func TestLoaderRequestURLListParsesFixtureURLs(t *testing.T) {
	l, _ := newTextLoader()

	var got loader.URLListEvent
	l.Signals().URLListLoaded = append(l.Signals().URLListLoaded, func(e loader.URLListEvent) {
		got = e
	})

	res := l.RequestURLList(resource.Params{URL: "fake:///TestURLs"})

	ok := pumpUntil(l.Update, func() bool {
		info, _ := l.GetInfo(res.RequestID)
		return info != nil && info.Status.Terminal()
	}, 3)
	require.True(t, ok)
	require.Equal(t, []string{
		"file:///proc/cpuinfo",
		"file:///etc/hosts",
		"ftp://example.com/file.txt",
		"https://oglplus.org/",
	}, got.URLs)
}

func TestLoaderRequestUnclaimedURLIsNotFound(t *testing.T) {
	l, _ := newTextLoader()

	res := l.RequestPlainText(resource.Params{URL: "fake:///does-not-exist"})
	info, _ := l.GetInfo(res.RequestID)
	require.Equal(t, resource.StatusNotFound, info.Status)
}

func TestLoaderForgetResourceCancelsInFlightRequest(t *testing.T) {
	reg := provider.NewRegistry()
	reg.Register(stuckProvider{path: "/slow"})
	l := loader.New(reg)

	var changed []loader.LoadStatusEvent
	l.Signals().StatusChanged = append(l.Signals().StatusChanged, func(e loader.LoadStatusEvent) {
		changed = append(changed, e)
	})

	res := l.RequestPlainText(resource.Params{URL: "fake:///slow"})
	l.Update()
	info, ok := l.GetInfo(res.RequestID)
	require.True(t, ok)
	require.Equal(t, resource.StatusLoading, info.Status)

	// ForgetResource fires load_status_changed synchronously (spec §4.F);
	// the entry is only actually released on the following Update call.
	l.ForgetResource(res.RequestID)
	info, ok = l.GetInfo(res.RequestID)
	require.True(t, ok)
	require.Equal(t, resource.StatusCancelled, info.Status)
	require.Len(t, changed, 1)
	require.Equal(t, resource.StatusCancelled, changed[0].Status)
	require.Equal(t, "fake:///slow", changed[0].URL)

	require.True(t, l.Update())
	_, ok = l.GetInfo(res.RequestID)
	require.False(t, ok)
}
