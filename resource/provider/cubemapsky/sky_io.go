package cubemapsky

import (
	"bytes"
	"fmt"

	"github.com/oxy-go/oxyres/resource/blobio"
)

// skyIO drives Renderer across Face 0..5, one face per Prepare() call after
// the parameter phase, then streams the assembled, zlib-compressed body —
// giving prepare() exactly the three phases the design notes describe:
// loading parameters, rendering (one tick per face), and streaming.
type skyIO struct {
	render Renderer
	params SkyParameters

	phase      Phase
	faceIdx    Face
	facePixels [][]byte
	header     []byte
	body       []byte
	err        error
}

func newSkyIO(render Renderer, params SkyParameters) *skyIO {
	return &skyIO{render: render, params: params}
}

func (s *skyIO) TotalSize() int64 {
	return int64(len(s.header) + len(s.body))
}

func (s *skyIO) FetchFragment(offset int64, dst []byte) int {
	n := 0
	if offset < int64(len(s.header)) {
		n = copy(dst, s.header[offset:])
		offset = 0
		dst = dst[n:]
	} else {
		offset -= int64(len(s.header))
	}
	if len(dst) > 0 && offset >= 0 && offset < int64(len(s.body)) {
		n += copy(dst, s.body[offset:])
	}
	return n
}

func (s *skyIO) Prepare() (blobio.Progress, error) {
	if s.err != nil {
		return blobio.Progress{State: blobio.Failed}, s.err
	}

	switch s.phase {
	case PhaseParameters:
		if s.params.Width <= 0 {
			s.err = fmt.Errorf("cubemapsky: invalid width %d", s.params.Width)
			return blobio.Progress{State: blobio.Failed}, s.err
		}
		s.phase = PhaseRendering
		return s.progress(), nil

	case PhaseRendering:
		pixels, err := s.render.RenderFace(s.params, s.faceIdx, s.params.Width)
		if err != nil {
			s.err = fmt.Errorf("cubemapsky: render face %d: %w", s.faceIdx, err)
			return blobio.Progress{State: blobio.Failed}, s.err
		}
		s.facePixels = append(s.facePixels, pixels)
		s.faceIdx++
		if s.faceIdx >= FaceCount {
			s.phase = PhaseStreaming
		}
		return s.progress(), nil

	case PhaseStreaming:
		if err := s.assemble(); err != nil {
			s.err = err
			return blobio.Progress{State: blobio.Failed}, s.err
		}
		return blobio.Progress{State: blobio.Finished, Fraction: 1}, nil

	default:
		return blobio.Progress{State: blobio.Finished, Fraction: 1}, nil
	}
}

// progress reports overall fraction across all three phases, weighting the
// six-face rendering phase by faces completed.
func (s *skyIO) progress() blobio.Progress {
	const phases = float32(phaseCount)
	var within float32
	switch s.phase {
	case PhaseParameters:
		within = 0
	case PhaseRendering:
		within = float32(s.faceIdx) / float32(FaceCount)
	case PhaseStreaming:
		within = 1
	}
	return blobio.Progress{
		State:    blobio.Working,
		Fraction: (float32(s.phase) + within) / phases,
	}
}

func (s *skyIO) assemble() error {
	size := s.params.Width
	var plain bytes.Buffer
	for _, face := range s.facePixels {
		plain.Write(face)
	}
	compressed, err := blobio.CompressBytes(plain.Bytes())
	if err != nil {
		return err
	}
	s.header = []byte(fmt.Sprintf(
		`{"level":0,"width":%d,"height":%d,"depth":6,"channels":4,`+
			`"data_type":"unsigned_byte","format":"rgba","iformat":"rgba8",`+
			`"tag":["generated","sky","cubemap"],"data_filter":"zlib"}`,
		size, size))
	s.body = compressed
	return nil
}

var _ blobio.BlobIO = (*skyIO)(nil)
