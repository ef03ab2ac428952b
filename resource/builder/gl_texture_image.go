package builder

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/oxy-go/oxyres/resource/blobio"
)

// TextureImageHeader is the decoded JSON header prefix of the `.eagitexi`
// wire format (spec §6): a flat object naming the image's level, extent,
// channel layout and optional compression filter, immediately followed (no
// separator) by the pixel payload it describes.
type TextureImageHeader struct {
	Level      int      `json:"level"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Depth      int      `json:"depth"`
	Channels   int      `json:"channels"`
	DataType   string   `json:"data_type"`
	Format     string   `json:"format"`
	IFormat    string   `json:"iformat"`
	Tag        []string `json:"tag"`
	DataFilter string   `json:"data_filter"`
}

// DecodeTextureImage splits data into its `.eagitexi` JSON header and pixel
// payload (spec §4.D "GL texture image loader": "parses header fields...
// streams data bytes through the configured decompressor"), decompressing
// the tail when the header names `data_filter: "zlib"` — the same
// zlib-or-raw framing resource/provider/eagitexi's generators produce (see
// eagitexi.go's `header` helper) and resource/builder.GLTexture's inline
// path already decompresses.
//
// encoding/json.Decoder.Decode stops reading at the header object's closing
// brace and leaves the stream positioned right after it, so
// dec.InputOffset() gives the exact byte where the pixel payload begins —
// no separate length-prefix or delimiter is needed.
func DecodeTextureImage(data []byte) (TextureImageHeader, []byte, error) {
	var hdr TextureImageHeader
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&hdr); err != nil {
		return TextureImageHeader{}, nil, fmt.Errorf("builder: decode texture image header: %w", err)
	}
	if hdr.Height == 0 {
		hdr.Height = 1
	}
	if hdr.Depth == 0 {
		hdr.Depth = 1
	}

	tail := data[dec.InputOffset():]
	if hdr.DataFilter != "zlib" {
		return hdr, tail, nil
	}
	plain, err := blobio.Decompress(tail)
	if err != nil {
		return TextureImageHeader{}, nil, fmt.Errorf("builder: decompress texture image: %w", err)
	}
	return hdr, plain, nil
}
