package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "scribe --input <media>",
		Short:        "Transcribe the audio track of a local video or audio file",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         run,
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	root.Flags().StringP("input", "i", "", "Path to the input video or audio file")
	root.Flags().StringP("output", "o", "", "Transcript destination (default: <input>.txt next to the input)")
	root.Flags().String("audio_language", "en", "Declared source language of the audio")
	root.Flags().String("transcript_language", "", "Requested transcript language (informational; the service does not translate)")
	root.Flags().String("summary_language", "", "When set, also produce a summary in this language")
	_ = root.MarkFlagRequired("input")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
