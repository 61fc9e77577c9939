package ports

import (
	"context"
	"time"
)

// MediaTool demuxes and normalizes input media into canonical audio.
type MediaTool interface {
	// ExtractAudioMono16k writes the audio track of inPath to outWav as
	// 16 kHz mono 16-bit PCM, discarding any video stream.
	ExtractAudioMono16k(ctx context.Context, inPath, outWav string) error
	ProbeDuration(ctx context.Context, inPath string) (time.Duration, error)
}

// SpeechToText transcribes one segment-sized audio file. The segment must
// already satisfy the service's upload ceiling; the client never re-splits.
// language is a BCP-47-ish code hint; empty means service-side detection.
type SpeechToText interface {
	Transcribe(ctx context.Context, wavPath, language string) (string, error)
}

// TextSummarizer condenses a transcript into the target language.
type TextSummarizer interface {
	Summarize(ctx context.Context, transcriptText, targetLanguage string) (string, error)
}
