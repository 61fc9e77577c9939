package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/forPelevin/scribe/internal/ports"
	"github.com/forPelevin/scribe/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/scribe/internal/ports/adapters/openrouter"
	"github.com/forPelevin/scribe/internal/ports/adapters/whisperapi"
	"github.com/forPelevin/scribe/internal/usecase"
)

// The Whisper API rejects uploads over 25 MB. The margin absorbs container
// overhead so a segment sized against the payload never trips the ceiling.
const (
	serviceUploadLimit = 25 * 1024 * 1024
	uploadSafetyMargin = 5000

	DefaultMaxUploadBytes = serviceUploadLimit - uploadSafetyMargin
)

type Config struct {
	InputPath  string
	OutputPath string // empty: derived next to the input

	AudioLanguage      string
	TranscriptLanguage string
	SummaryLanguage    string // empty: no summary stage

	MaxUploadBytes int64
	Logf           func(format string, args ...any)

	FFmpegPath  string
	FFprobePath string

	OpenAIAPIKey  string
	WhisperModel  string
	OpenAIBaseURL string

	OpenRouterAPIKey       string
	OpenRouterModel        string
	OpenRouterBaseURL      string
	OpenRouterAllowedHosts []string
}

func (c Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("input is empty")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max upload bytes must be > 0")
	}
	if c.OpenAIAPIKey == "" {
		return errors.New("OPENAI_API_KEY is required (set it in .env)")
	}
	if c.SummaryLanguage != "" {
		if c.OpenRouterAPIKey == "" {
			return errors.New("OPENROUTER_API_KEY is required when a summary language is set")
		}
		return openrouter.ValidateBaseURL(c.OpenRouterBaseURL, c.OpenRouterAllowedHosts)
	}
	return nil
}

// Run wires the adapters, prepares a scoped workspace for intermediate
// audio, and executes one transcription run. The workspace is removed on
// every exit path.
func Run(ctx context.Context, cfg Config) error {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	outPath := cfg.OutputPath
	if outPath == "" {
		outPath = deriveOutputPath(cfg.InputPath)
	}

	workDir, err := os.MkdirTemp("", "scribe-*")
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	defer os.RemoveAll(workDir)
	logf("workspace: %s", workDir)

	deps := usecase.Deps{
		Media: ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath),
		STT:   whisperapi.New(cfg.OpenAIAPIKey, cfg.WhisperModel, cfg.OpenAIBaseURL),
	}
	if cfg.SummaryLanguage != "" {
		deps.LLM = openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterModel, cfg.OpenRouterBaseURL)
	}

	var bar *progressbar.ProgressBar
	onSegment := func(done, total int) {
		if total < 2 {
			return
		}
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("transcribing"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowCount(),
			)
		}
		_ = bar.Set(done)
	}

	uc := usecase.New(deps)
	_, err = uc.Run(ctx, usecase.Input{
		InputPath:          cfg.InputPath,
		OutputPath:         outPath,
		SummaryPath:        summaryPathFor(outPath),
		AudioLanguage:      cfg.AudioLanguage,
		TranscriptLanguage: cfg.TranscriptLanguage,
		SummaryLanguage:    cfg.SummaryLanguage,
		MaxUploadBytes:     cfg.MaxUploadBytes,
		WorkDir:            workDir,
		Logf:               logf,
		OnSegment:          onSegment,
	})
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	return err
}

// deriveOutputPath places the transcript next to the input, swapping the
// media extension for .txt.
func deriveOutputPath(inputPath string) string {
	stem := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	if stem == "" {
		stem = inputPath
	}
	return stem + ".txt"
}

// summaryPathFor derives the summary destination from the transcript path.
func summaryPathFor(outputPath string) string {
	stem := strings.TrimSuffix(outputPath, filepath.Ext(outputPath))
	if stem == "" {
		stem = outputPath
	}
	return stem + ".summary.txt"
}

// ensure adapters implement ports
var _ ports.MediaTool = (*ffmpeg.Adapter)(nil)
var _ ports.SpeechToText = (*whisperapi.Adapter)(nil)
var _ ports.TextSummarizer = (*openrouter.Adapter)(nil)
