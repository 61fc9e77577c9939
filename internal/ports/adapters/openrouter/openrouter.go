// Package openrouter generates transcript summaries through the OpenRouter
// chat-completions API.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/forPelevin/scribe/internal/ports/adapters/httpx"
	"github.com/forPelevin/scribe/internal/types"
)

const (
	service        = "openrouter"
	requestTimeout = 90 * time.Second
)

type Adapter struct {
	key     string
	model   string
	baseURL string
	client  *http.Client
}

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = "anthropic/claude-3.5-sonnet"
	}
	baseURL = normalizeBaseURL(baseURL)
	return &Adapter{key: apiKey, model: model, baseURL: baseURL, client: &http.Client{Timeout: 5 * time.Minute}}
}

// Summarize condenses transcriptText into targetLanguage. Failure handling
// mirrors the transcription client: bounded retries for transient kinds,
// immediate surfacing of authentication and request-shape failures.
func (a *Adapter) Summarize(ctx context.Context, transcriptText, targetLanguage string) (string, error) {
	if strings.TrimSpace(transcriptText) == "" {
		return "", &types.APIError{Service: service, Kind: types.APIInvalidRequest, Msg: "empty transcript"}
	}

	var last error
	for attempt := 1; attempt <= httpx.MaxAttempts; attempt++ {
		text, delay, err := a.summarizeOnce(ctx, transcriptText, targetLanguage)
		if err == nil {
			return text, nil
		}
		last = err

		var ae *types.APIError
		if !errors.As(err, &ae) || !ae.Retryable() || attempt == httpx.MaxAttempts {
			break
		}
		if err := httpx.Sleep(ctx, delay); err != nil {
			return "", fmt.Errorf("summarize: %w", err)
		}
	}
	return "", fmt.Errorf("summarize: %w", last)
}

func (a *Adapter) summarizeOnce(ctx context.Context, transcriptText, targetLanguage string) (string, time.Duration, error) {
	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"messages": []map[string]any{
			{"role": "user", "content": buildPrompt(transcriptText, targetLanguage)},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", 0, fmt.Errorf("marshal request: %w", err)
	}
	url := a.baseURL + "/api/v1/chat/completions"

	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", 0, fmt.Errorf("openrouter timeout after %s (model=%s)", requestTimeout, a.model)
		}
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

	var raw struct {
		Choices []struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", 0, err
	}
	if len(raw.Choices) == 0 {
		return "", 0, &types.APIError{Service: service, Kind: types.APIInvalidRequest, Msg: "response has no choices"}
	}

	content, err := messageContentToString(raw.Choices[0].Message.Content)
	if err != nil {
		return "", 0, err
	}
	return strings.TrimSpace(content), 0, nil
}

func buildPrompt(transcriptText, targetLanguage string) string {
	lang := strings.TrimSpace(targetLanguage)
	if lang == "" {
		lang = "en"
	}
	return "Summarize the following transcript in language \"" + lang + "\". " +
		"Produce a short title line, then a concise summary covering the main points " +
		"in the order they appear. Use plain text, no markdown fences." +
		"\n\nTranscript:\n" + transcriptText
}

func messageContentToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []any:
		// Some providers return an array of {type,text} parts.
		var b strings.Builder
		for _, it := range x {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := m["text"].(string); ok {
				b.WriteString(t)
			}
		}
		s := b.String()
		if strings.TrimSpace(s) == "" {
			return "", errors.New("openrouter: empty content")
		}
		return s, nil
	default:
		return "", fmt.Errorf("openrouter: unexpected content type %T", v)
	}
}
