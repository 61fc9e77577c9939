// Package wavedata models extracted audio as a described WAV stream and
// splits it into upload-sized, frame-aligned segments.
package wavedata

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"

	"github.com/forPelevin/scribe/internal/types"
)

// riff + fmt + data chunk headers of a canonical PCM WAV file.
const headerBytes = 44

// Stream describes a decoded WAV file on disk.
type Stream struct {
	Path         string
	SampleRate   int
	Channels     int
	BitDepth     int
	Frames       int64
	PayloadBytes int64
}

// FrameSize is the byte size of one sample frame (all channels).
func (s Stream) FrameSize() int64 {
	return int64(s.Channels) * int64(s.BitDepth) / 8
}

func (s Stream) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(s.Frames) * time.Second / time.Duration(s.SampleRate)
}

// Describe decodes the WAV header of the file at path and returns its
// stream facts. The PCM payload itself is not read.
func Describe(path string) (Stream, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Stream{}, fmt.Errorf("%w: %s", types.ErrNotFound, path)
		}
		return Stream{}, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return Stream{}, fmt.Errorf("%w: %s is not a valid WAV file", types.ErrDecodeFailed, path)
	}
	if err := dec.FwdToPCM(); err != nil {
		return Stream{}, fmt.Errorf("%w: %s: %v", types.ErrDecodeFailed, path, err)
	}

	st := Stream{
		Path:         path,
		SampleRate:   int(dec.SampleRate),
		Channels:     int(dec.NumChans),
		BitDepth:     int(dec.BitDepth),
		PayloadBytes: dec.PCMLen(),
	}
	if st.Channels <= 0 || st.BitDepth <= 0 || st.SampleRate <= 0 {
		return Stream{}, fmt.Errorf("%w: %s has a malformed format chunk", types.ErrDecodeFailed, path)
	}
	st.Frames = st.PayloadBytes / st.FrameSize()
	return st, nil
}
