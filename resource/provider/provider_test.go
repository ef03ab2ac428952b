package provider_test

import (
	"testing"
	"time"

	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/blobio"
	"github.com/oxy-go/oxyres/resource/locator"
	"github.com/oxy-go/oxyres/resource/provider"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name     string
	path     string
	body     string
	urls     []string
	priority resource.Priority
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) HasResource(loc locator.Locator) bool {
	return loc.HasPath(s.path)
}

func (s *stubProvider) GetResourceIO(id resource.RequestID, loc locator.Locator) (blobio.BlobIO, bool, error) {
	if !s.HasResource(loc) {
		return nil, false, nil
	}
	return blobio.NewFixedBuffer([]byte(s.body)), true, nil
}

func (s *stubProvider) BlobTimeout(resource.RequestID, locator.Locator, int64, time.Duration) time.Duration {
	return 5 * time.Second
}

func (s *stubProvider) BlobPriority(resource.RequestID, locator.Locator, resource.Priority) resource.Priority {
	return s.priority
}

func (s *stubProvider) ForEachLocator(fn func(url string)) {
	for _, u := range s.urls {
		fn(u)
	}
}

func TestRegistryFirstMatchWins(t *testing.T) {
	reg := provider.NewRegistry()
	reg.Register(&stubProvider{name: "a", path: "/shared", body: "from-a", priority: 1})
	reg.Register(&stubProvider{name: "b", path: "/shared", body: "from-b", priority: 2})

	loc := locator.MustParse("txt:///shared")
	io, ok, err := reg.GetResourceIO(1, loc)
	require.NoError(t, err)
	require.True(t, ok)

	dst := make([]byte, 16)
	n := io.FetchFragment(0, dst)
	require.Equal(t, "from-a", string(dst[:n]))

	require.EqualValues(t, 1, reg.GetBlobPriority(1, loc, 0))
}

func TestRegistryNoMatch(t *testing.T) {
	reg := provider.NewRegistry()
	reg.Register(&stubProvider{name: "a", path: "/other"})

	loc := locator.MustParse("txt:///missing")
	require.False(t, reg.HasResource(loc))
	io, ok, err := reg.GetResourceIO(1, loc)
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, io)
	require.Equal(t, 3*time.Second, reg.GetBlobTimeout(1, loc, 0, 3*time.Second))
}

func TestRegistryForEachLocatorAggregates(t *testing.T) {
	reg := provider.NewRegistry()
	reg.Register(&stubProvider{name: "a", urls: []string{"file:///a", "file:///b"}})
	reg.Register(&stubProvider{name: "b", urls: []string{"txt:///c"}})

	var got []string
	reg.ForEachLocator(func(url string) { got = append(got, url) })
	require.Equal(t, []string{"file:///a", "file:///b", "txt:///c"}, got)
}
