// Package whisperapi talks to the OpenAI Whisper speech-to-text HTTP API.
package whisperapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/forPelevin/scribe/internal/ports/adapters/httpx"
	"github.com/forPelevin/scribe/internal/types"
)

const (
	service        = "whisper"
	defaultModel   = "whisper-1"
	defaultBaseURL = "https://api.openai.com"
	requestTimeout = 10 * time.Minute
)

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = defaultModel
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{
		key:     apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// Transcribe uploads one segment-sized WAV and returns its text. Retryable
// failures (rate limiting, transport errors, 5xx) are attempted up to
// httpx.MaxAttempts times; authentication and request-shape failures
// surface immediately.
func (a *Adapter) Transcribe(ctx context.Context, wavPath, language string) (string, error) {
	var last error
	for attempt := 1; attempt <= httpx.MaxAttempts; attempt++ {
		text, delay, err := a.transcribeOnce(ctx, wavPath, language)
		if err == nil {
			return text, nil
		}
		last = err

		var ae *types.APIError
		if !errors.As(err, &ae) || !ae.Retryable() || attempt == httpx.MaxAttempts {
			break
		}
		if err := httpx.Sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("transcribe %s: %w", filepath.Base(wavPath), err)
		}
	}
	return "", fmt.Errorf("transcribe %s: %w", filepath.Base(wavPath), last)
}

func (a *Adapter) transcribeOnce(ctx context.Context, wavPath, language string) (string, time.Duration, error) {
	f, err := os.Open(wavPath)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", a.model); err != nil {
		return "", 0, err
	}
	if language != "" {
		if err := mw.WriteField("language", language); err != nil {
			return "", 0, err
		}
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(wavPath))
	if err != nil {
		return "", 0, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", 0, err
	}
	if err := mw.Close(); err != nil {
		return "", 0, err
	}

	url := a.baseURL + "/v1/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := a.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", 0, ctx.Err()
		}
		return "", httpx.BaseDelay, httpx.ConnectionError(service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(resp.Body)
		msg := httpx.Truncate(httpx.Redact(string(rb), a.key), 400)
		return "", httpx.RetryDelay(resp), httpx.ClassifyStatus(service, resp.StatusCode, msg)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", 0, fmt.Errorf("whisper: decode response: %w", err)
	}
	return out.Text, 0, nil
}
