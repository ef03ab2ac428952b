package builder_test

import (
	"testing"

	"github.com/oxy-go/oxyres/resource"
	"github.com/oxy-go/oxyres/resource/blobio"
	"github.com/oxy-go/oxyres/resource/builder"
	"github.com/stretchr/testify/require"
)

type recordingImageRequester struct {
	urls   []string
	nextID resource.RequestID
}

func (r *recordingImageRequester) RequestTextureImage(url string) resource.RequestID {
	r.nextID++
	r.urls = append(r.urls, url)
	return r.nextID
}

func TestGLTextureParsesDescriptorAndRequestsImages(t *testing.T) {
	req := &recordingImageRequester{}
	b := builder.NewGLTexture(req)

	b.AddInts(builder.Path{"width"}, []int64{64})
	b.AddInts(builder.Path{"height"}, []int64{64})
	b.AddInts(builder.Path{"levels"}, []int64{1})
	b.AddBools(builder.Path{"generate_mipmap"}, []bool{true})
	b.AddInts(builder.Path{"i-parameter", "min_filter"}, []int64{1})

	b.AddObject(builder.Path{"images", "0"})
	b.AddInts(builder.Path{"images", "0", "level"}, []int64{0})
	b.AddStrings(builder.Path{"images", "0", "url"}, []string{"eagitexi:///checks"})
	b.FinishObject(builder.Path{"images", "0"})

	b.Finish()

	require.False(t, b.Failed())
	require.EqualValues(t, 64, b.Descriptor().Width)
	require.True(t, b.Descriptor().GenerateMipmap)
	require.Equal(t, 1, b.IParameters()["min_filter"])
	require.Len(t, b.Images(), 1)
	require.Equal(t, []string{"eagitexi:///checks"}, req.urls)
	require.EqualValues(t, 1, b.Images()[0].ChildRequest)
}

func TestGLTextureDecompressesInlineZlibData(t *testing.T) {
	req := &recordingImageRequester{}
	b := builder.NewGLTexture(req)

	plain := []byte{1, 2, 3, 4}
	compressed, err := blobio.CompressBytes(plain)
	require.NoError(t, err)

	b.AddObject(builder.Path{"images", "0"})
	b.AddStrings(builder.Path{"images", "0", "data_filter"}, []string{"zlib"})
	b.AddInlineData(compressed)
	b.FinishObject(builder.Path{"images", "0"})

	require.False(t, b.Failed())
	require.Equal(t, plain, b.Images()[0].InlineData)
	require.Empty(t, req.urls)
}
