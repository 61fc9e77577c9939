package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/forPelevin/scribe/internal/domain/transcript"
	"github.com/forPelevin/scribe/internal/domain/wavedata"
	"github.com/forPelevin/scribe/internal/ports"
	"github.com/forPelevin/scribe/internal/types"
)

type Deps struct {
	Media ports.MediaTool
	STT   ports.SpeechToText
	LLM   ports.TextSummarizer // nil when no summary is requested
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	InputPath   string
	OutputPath  string
	SummaryPath string

	AudioLanguage      string
	TranscriptLanguage string
	SummaryLanguage    string

	MaxUploadBytes int64
	WorkDir        string

	Logf func(format string, args ...any)
	// OnSegment, when set, is called after each segment transcription with
	// (done, total). The CLI hangs a progress bar on it.
	OnSegment func(done, total int)
}

type Result struct {
	Transcript types.Transcript
	Summary    *types.Summary
	// SummaryErr records a summarization failure that did not fail the run:
	// by then the transcript is already on disk and stays valid.
	SummaryErr error
	Segments   int
}

// Run drives one invocation end to end: extract, segment, transcribe each
// segment in ascending order, assemble, write, then optionally summarize.
// Transcription is all-or-nothing: the first fatal segment failure aborts
// the run before anything is written, since a silent gap would corrupt the
// transcript.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	if in.TranscriptLanguage != "" && in.AudioLanguage != "" && in.TranscriptLanguage != in.AudioLanguage {
		logf("note: transcript_language=%q is informational; the service transcribes, it does not translate from %q",
			in.TranscriptLanguage, in.AudioLanguage)
	}

	if d, err := u.d.Media.ProbeDuration(ctx, in.InputPath); err == nil && d > 0 {
		logf("input duration: %s", d.Round(time.Second))
	}

	logf("extracting audio from %s", filepath.Base(in.InputPath))
	wavPath := filepath.Join(in.WorkDir, "audio.wav")
	if err := u.d.Media.ExtractAudioMono16k(ctx, in.InputPath, wavPath); err != nil {
		return Result{}, err
	}

	stream, err := wavedata.Describe(wavPath)
	if err != nil {
		return Result{}, err
	}

	segments, err := wavedata.Split(stream, in.MaxUploadBytes, in.WorkDir)
	if err != nil {
		return Result{}, err
	}
	logf("audio: %s, %d segment(s)", stream.Duration().Round(time.Millisecond), len(segments))

	fragments := make([]types.Fragment, 0, len(segments))
	for _, seg := range segments {
		text, err := u.d.STT.Transcribe(ctx, seg.Path, in.AudioLanguage)
		if err != nil {
			return Result{}, fmt.Errorf("transcribing segment %d of %d: %w", seg.Index+1, len(segments), err)
		}
		fragments = append(fragments, types.Fragment{Index: seg.Index, Text: text})
		if in.OnSegment != nil {
			in.OnSegment(len(fragments), len(segments))
		}
	}

	tr, err := transcript.Assemble(fragments)
	if err != nil {
		return Result{}, err
	}

	if err := os.WriteFile(in.OutputPath, []byte(tr.Text+"\n"), 0o644); err != nil {
		return Result{}, fmt.Errorf("write transcript: %w", err)
	}
	logf("transcript written: %s", in.OutputPath)

	res := Result{Transcript: tr, Segments: len(segments)}

	if in.SummaryLanguage != "" && u.d.LLM != nil {
		logf("summarizing in %q", in.SummaryLanguage)
		text, err := u.d.LLM.Summarize(ctx, tr.Text, in.SummaryLanguage)
		if err != nil {
			// The transcript is already written and valid; a summary
			// failure degrades the run instead of failing it.
			logf("warning: summarization failed: %v", err)
			res.SummaryErr = err
			return res, nil
		}
		if err := os.WriteFile(in.SummaryPath, []byte(text+"\n"), 0o644); err != nil {
			return Result{}, fmt.Errorf("write summary: %w", err)
		}
		res.Summary = &types.Summary{Language: in.SummaryLanguage, Text: text}
		logf("summary written: %s", in.SummaryPath)
	}

	return res, nil
}
