package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/forPelevin/scribe/internal/types"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := map[string]Kind{
		"talk.mp4":      KindVideo,
		"TALK.MOV":      KindVideo,
		"clip.mkv":      KindVideo,
		"old.avi":       KindVideo,
		"stream.flv":    KindVideo,
		"win.wmv":       KindVideo,
		"song.mp3":      KindAudio,
		"voice.wav":     KindAudio,
		"note.m4a":      KindAudio,
		"lossless.flac": KindAudio,
		"doc.txt":       KindUnknown,
		"archive.zip":   KindUnknown,
		"noext":         KindUnknown,
	}
	for path, want := range tests {
		if got := Classify(path); got != want {
			t.Fatalf("Classify(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestExtract_MissingFile(t *testing.T) {
	t.Parallel()

	a := New("", "")
	err := a.ExtractAudioMono16k(context.Background(), filepath.Join(t.TempDir(), "nope.mp4"), "out.wav")
	if !errors.Is(err, types.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	in := filepath.Join(tmp, "notes.txt")
	if err := os.WriteFile(in, []byte("plain text"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	a := New("", "")
	out := filepath.Join(tmp, "out.wav")
	err := a.ExtractAudioMono16k(context.Background(), in, out)
	if !errors.Is(err, types.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("no output must be created for rejected input, stat err=%v", err)
	}
}

func TestExtract_CanonicalWavPassThrough(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	in := filepath.Join(tmp, "already.wav")
	writeCanonicalWav(t, in, 500)

	// A bogus ffmpeg path proves pass-through never shells out.
	a := New(filepath.Join(tmp, "no-such-ffmpeg"), "")
	out := filepath.Join(tmp, "out.wav")
	if err := a.ExtractAudioMono16k(context.Background(), in, out); err != nil {
		t.Fatalf("pass-through failed: %v", err)
	}

	want, err := os.ReadFile(in)
	if err != nil {
		t.Fatalf("read input: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(want, got) {
		t.Fatalf("pass-through must copy bytes unchanged")
	}
}

func TestIsCanonicalWav(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()

	canonical := filepath.Join(tmp, "a.wav")
	writeCanonicalWav(t, canonical, 100)
	if !isCanonicalWav(canonical) {
		t.Fatalf("expected canonical WAV to be detected")
	}

	stereo := filepath.Join(tmp, "b.wav")
	writeWavWith(t, stereo, 44100, 2, 100)
	if isCanonicalWav(stereo) {
		t.Fatalf("44.1 kHz stereo must not count as canonical")
	}

	junk := filepath.Join(tmp, "c.wav")
	if err := os.WriteFile(junk, []byte("not a riff"), 0o644); err != nil {
		t.Fatalf("write junk: %v", err)
	}
	if isCanonicalWav(junk) {
		t.Fatalf("junk bytes must not count as canonical")
	}

	if isCanonicalWav(filepath.Join(tmp, "d.mp3")) {
		t.Fatalf("non-wav extension must not count as canonical")
	}
}

func writeCanonicalWav(t *testing.T, path string, frames int) {
	t.Helper()
	writeWavWith(t, path, 16000, 1, frames)
}

func writeWavWith(t *testing.T, path string, sampleRate, channels, frames int) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create wav: %v", err)
	}
	enc := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           make([]int, frames*channels),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}
}
