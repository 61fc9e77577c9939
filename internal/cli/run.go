package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/forPelevin/scribe/internal/pipeline"
	"github.com/spf13/cobra"
)

func run(cmd *cobra.Command, _ []string) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	audioLang, _ := cmd.Flags().GetString("audio_language")
	transcriptLang, _ := cmd.Flags().GetString("transcript_language")
	summaryLang, _ := cmd.Flags().GetString("summary_language")

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	cfg := pipeline.Config{
		InputPath:  absIn,
		OutputPath: output,

		AudioLanguage:      strings.TrimSpace(audioLang),
		TranscriptLanguage: strings.TrimSpace(transcriptLang),
		SummaryLanguage:    strings.TrimSpace(summaryLang),

		MaxUploadBytes: pipeline.DefaultMaxUploadBytes,
		Logf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		},

		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		WhisperModel:  getenvDefault("OPENAI_WHISPER_MODEL", "whisper-1"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		OpenRouterAPIKey:       os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModel:        getenvDefault("OPENROUTER_MODEL", "anthropic/claude-3.5-sonnet"),
		OpenRouterBaseURL:      getenvDefault("OPENROUTER_BASE_URL", "https://openrouter.ai"),
		OpenRouterAllowedHosts: splitHosts(os.Getenv("OPENROUTER_ALLOWED_HOSTS")),
	}

	if err := cfg.Validate(); err != nil {
		return &configError{err: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	return pipeline.Run(ctx, cfg)
}

// splitHosts parses the comma-separated OPENROUTER_ALLOWED_HOSTS value.
// Empty means the adapter's built-in allowlist.
func splitHosts(s string) []string {
	var out []string
	for _, h := range strings.Split(s, ",") {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
