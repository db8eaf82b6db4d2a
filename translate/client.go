// Package translate — best-effort клиент машинного перевода для новостей.
// Любая ошибка перевода не должна блокировать вызывающий код: сервис новостей
// при сбое просто оставляет исходный текст.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var ErrTranslationUnavailable = errors.New("translation service unavailable")

type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

type ClientConfig struct {
	Endpoint string
	APIKey   string
	// Timeout ограничивает один вызов; ноль — 5 секунд.
	Timeout time.Duration
}

type httpTranslator struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewClient(cfg ClientConfig) (Translator, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("translate: endpoint is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &httpTranslator{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

type translateRequest struct {
	Text       string `json:"text"`
	TargetLang string `json:"target_lang"`
}

type translateResponse struct {
	TranslatedText string `json:"translated_text"`
}

func (t *httpTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if text == "" {
		return "", nil
	}

	payload, err := json.Marshal(translateRequest{Text: text, TargetLang: targetLang})
	if err != nil {
		return "", fmt.Errorf("translate: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("translate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranslationUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrTranslationUnavailable, resp.StatusCode)
	}

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrTranslationUnavailable, err)
	}
	if out.TranslatedText == "" {
		return "", fmt.Errorf("%w: empty translation", ErrTranslationUnavailable)
	}
	return out.TranslatedText, nil
}
