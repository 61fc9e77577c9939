package ffmpeg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
)

// Kind is the coarse media classification derived from the file extension.
type Kind int

const (
	KindUnknown Kind = iota
	KindVideo
	KindAudio
)

var videoExts = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".avi": {}, ".mkv": {}, ".flv": {}, ".wmv": {},
}

var audioExts = map[string]struct{}{
	".wav": {}, ".mp3": {}, ".m4a": {}, ".aac": {},
	".flac": {}, ".ogg": {}, ".opus": {}, ".wma": {},
}

// Classify reports whether path looks like a supported video container,
// a supported audio file, or neither.
func Classify(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := videoExts[ext]; ok {
		return KindVideo
	}
	if _, ok := audioExts[ext]; ok {
		return KindAudio
	}
	return KindUnknown
}

// isCanonicalWav reports whether src is already a valid 16 kHz mono 16-bit
// PCM WAV, in which case re-encoding would only waste time and risk
// generational loss.
func isCanonicalWav(src string) bool {
	if strings.ToLower(filepath.Ext(src)) != ".wav" {
		return false
	}
	f, err := os.Open(src)
	if err != nil {
		return false
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return false
	}
	return dec.BitDepth == 16 && dec.NumChans == 1 && dec.SampleRate == 16000
}
