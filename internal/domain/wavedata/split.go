package wavedata

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/forPelevin/scribe/internal/types"
)

// Segment is one upload-sized slice of a stream. Segments for a stream are
// ordered, gapless and non-overlapping; Path is a standalone playable WAV.
// Segment files are written into the directory passed to Split and are the
// caller's to clean up.
type Segment struct {
	Index      int
	Path       string
	StartFrame int64
	Frames     int64
	ByteSize   int64
}

// frames read per decoder pass while copying PCM into segment files.
const readChunkFrames = 16384

// Split partitions stream into the minimum number of roughly equal,
// frame-aligned segments whose on-disk size stays at or under maxBytes.
//
// Policy: the part count is the smallest that can satisfy the ceiling, and
// frames are divided evenly across parts (duration-proportional split). A
// stream already at or under the limit is returned as a single segment
// referencing the source file, with no rewrite.
func Split(stream Stream, maxBytes int64, dir string) ([]Segment, error) {
	if maxBytes <= 0 {
		return nil, fmt.Errorf("%w: max bytes must be > 0, got %d", types.ErrInvalidInput, maxBytes)
	}
	if stream.Frames == 0 || stream.PayloadBytes == 0 {
		return nil, fmt.Errorf("%w: stream %s has no audio frames", types.ErrInvalidInput, stream.Path)
	}

	info, err := os.Stat(stream.Path)
	if err != nil {
		return nil, err
	}
	if info.Size() <= maxBytes {
		return []Segment{{
			Index:      0,
			Path:       stream.Path,
			StartFrame: 0,
			Frames:     stream.Frames,
			ByteSize:   info.Size(),
		}}, nil
	}

	frameSize := stream.FrameSize()
	capFrames := (maxBytes - headerBytes) / frameSize
	if capFrames < 1 {
		return nil, fmt.Errorf("%w: one %d-byte frame cannot fit under %d bytes",
			types.ErrSegmentTooLarge, frameSize, maxBytes)
	}

	parts := (stream.Frames + capFrames - 1) / capFrames
	base := stream.Frames / parts
	rem := stream.Frames % parts

	f, err := os.Open(stream.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a valid WAV file", types.ErrDecodeFailed, stream.Path)
	}

	segments := make([]Segment, 0, parts)
	var start int64
	for i := int64(0); i < parts; i++ {
		frames := base
		if i < rem {
			frames++
		}
		seg, err := writeSegment(dec, stream, dir, int(i), start, frames)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segments = append(segments, seg)
		start += frames
	}
	return segments, nil
}

func writeSegment(dec *wav.Decoder, stream Stream, dir string, index int, start, frames int64) (Segment, error) {
	path := filepath.Join(dir, fmt.Sprintf("segment-%03d.wav", index))
	out, err := os.Create(path)
	if err != nil {
		return Segment{}, err
	}

	enc := wav.NewEncoder(out, stream.SampleRate, stream.BitDepth, stream.Channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: stream.Channels, SampleRate: stream.SampleRate},
		Data:           make([]int, readChunkFrames*stream.Channels),
		SourceBitDepth: stream.BitDepth,
	}

	remaining := frames
	for remaining > 0 {
		want := int64(readChunkFrames)
		if remaining < want {
			want = remaining
		}
		buf.Data = buf.Data[:want*int64(stream.Channels)]
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			out.Close()
			return Segment{}, fmt.Errorf("%w: read PCM: %v", types.ErrDecodeFailed, err)
		}
		if n == 0 {
			out.Close()
			return Segment{}, fmt.Errorf("%w: PCM data ended %d frames early", types.ErrDecodeFailed, remaining)
		}
		buf.Data = buf.Data[:n]
		if err := enc.Write(buf); err != nil {
			out.Close()
			return Segment{}, err
		}
		remaining -= int64(n) / int64(stream.Channels)
	}

	if err := enc.Close(); err != nil {
		out.Close()
		return Segment{}, err
	}
	if err := out.Close(); err != nil {
		return Segment{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return Segment{}, err
	}
	return Segment{
		Index:      index,
		Path:       path,
		StartFrame: start,
		Frames:     frames,
		ByteSize:   info.Size(),
	}, nil
}
