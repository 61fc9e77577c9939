package whisperapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forPelevin/scribe/internal/types"
)

func writeSegment(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "segment-000.wav")
	if err := os.WriteFile(path, []byte("RIFFfakewavdata"), 0o644); err != nil {
		t.Fatalf("write segment: %v", err)
	}
	return path
}

func TestTranscribe_Success(t *testing.T) {
	t.Parallel()

	var gotModel, gotLanguage, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer auth, got %q", r.Header.Get("Authorization"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotLanguage = r.FormValue("language")
		if fhs := r.MultipartForm.File["file"]; len(fhs) == 1 {
			gotFile = fhs[0].Filename
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "hello from whisper"})
	}))
	defer srv.Close()

	a := New("test-key", "", srv.URL)
	text, err := a.Transcribe(context.Background(), writeSegment(t), "en")
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if text != "hello from whisper" {
		t.Fatalf("unexpected text: %q", text)
	}
	if gotModel != "whisper-1" {
		t.Fatalf("expected default model, got %q", gotModel)
	}
	if gotLanguage != "en" {
		t.Fatalf("expected language hint, got %q", gotLanguage)
	}
	if gotFile != "segment-000.wav" {
		t.Fatalf("unexpected upload filename: %q", gotFile)
	}
}

func TestTranscribe_OmitsLanguageWhenEmpty(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if _, ok := r.MultipartForm.Value["language"]; ok {
			t.Errorf("language field must be absent for service-side detection")
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "ok"})
	}))
	defer srv.Close()

	a := New("test-key", "", srv.URL)
	if _, err := a.Transcribe(context.Background(), writeSegment(t), ""); err != nil {
		t.Fatalf("transcribe: %v", err)
	}
}

func TestTranscribe_RetryBoundOnRateLimit(t *testing.T) {
	t.Parallel()

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Retry-After", "0")
		http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := New("test-key", "", srv.URL)
	_, err := a.Transcribe(context.Background(), writeSegment(t), "en")
	if err == nil {
		t.Fatalf("expected rate limit error")
	}
	if requests != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", requests)
	}
	if kind, ok := types.APIErrorKindOf(err); !ok || kind != types.APIRateLimited {
		t.Fatalf("expected RateLimited kind, got: %v", err)
	}
}

func TestTranscribe_AuthFailureDoesNotRetry(t *testing.T) {
	t.Parallel()

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, `{"error":"invalid api key sk-test"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := New("sk-test", "", srv.URL)
	_, err := a.Transcribe(context.Background(), writeSegment(t), "en")
	if err == nil {
		t.Fatalf("expected auth error")
	}
	if requests != 1 {
		t.Fatalf("auth failures must not be retried, got %d requests", requests)
	}
	var ae *types.APIError
	if !errors.As(err, &ae) || ae.Kind != types.APIAuthFailed {
		t.Fatalf("expected AuthFailed kind, got: %v", err)
	}
	if strings.Contains(ae.Msg, "sk-test") {
		t.Fatalf("expected key to be redacted from error message: %q", ae.Msg)
	}
}

func TestTranscribe_RecoversFromTransient5xx(t *testing.T) {
	t.Parallel()

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.Header().Set("Retry-After", "0")
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text": "recovered"})
	}))
	defer srv.Close()

	a := New("test-key", "", srv.URL)
	text, err := a.Transcribe(context.Background(), writeSegment(t), "en")
	if err != nil {
		t.Fatalf("expected recovery after transient failure: %v", err)
	}
	if text != "recovered" {
		t.Fatalf("unexpected text: %q", text)
	}
	if requests != 2 {
		t.Fatalf("expected 2 requests, got %d", requests)
	}
}

func TestTranscribe_InvalidRequestSurfacesImmediately(t *testing.T) {
	t.Parallel()

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, `{"error":"unsupported file"}`, http.StatusUnsupportedMediaType)
	}))
	defer srv.Close()

	a := New("test-key", "", srv.URL)
	_, err := a.Transcribe(context.Background(), writeSegment(t), "en")
	if err == nil {
		t.Fatalf("expected invalid request error")
	}
	if requests != 1 {
		t.Fatalf("invalid requests must not be retried, got %d requests", requests)
	}
	if kind, ok := types.APIErrorKindOf(err); !ok || kind != types.APIInvalidRequest {
		t.Fatalf("expected InvalidRequest kind, got: %v", err)
	}
}
