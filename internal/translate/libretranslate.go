package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultLibreTranslateEndpoint is the public LibreTranslate instance.
const DefaultLibreTranslateEndpoint = "https://libretranslate.com"

// LibreTranslate calls the LibreTranslate /translate API.
type LibreTranslate struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

type libreRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText string `json:"translatedText"`
	Error          string `json:"error"`
}

// NewLibreTranslate returns a client for endpoint. An empty endpoint uses the
// public instance.
func NewLibreTranslate(endpoint, apiKey string, timeout time.Duration) *LibreTranslate {
	if endpoint == "" {
		endpoint = DefaultLibreTranslateEndpoint
	}
	return &LibreTranslate{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// Translate implements Translator.
func (l *LibreTranslate) Translate(ctx context.Context, text, src, dest string) (string, error) {
	body, err := json.Marshal(libreRequest{
		Q:      text,
		Source: src,
		Target: dest,
		Format: "text",
		APIKey: l.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("libretranslate: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.endpoint+"/translate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("libretranslate: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := l.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("libretranslate: request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("libretranslate: read response: %w", err)
	}
	var out libreResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("libretranslate: decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := out.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("libretranslate: status %d: %s", resp.StatusCode, msg)
	}
	if out.TranslatedText == "" {
		return "", fmt.Errorf("libretranslate: empty translation")
	}
	return out.TranslatedText, nil
}
