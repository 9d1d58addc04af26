package translate

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
)

func TestLibreTranslate(t *testing.T) {
	var got libreRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/translate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"translatedText":"El gato."}`)
	}))
	defer srv.Close()

	tr := NewLibreTranslate(srv.URL+"/", "secret", time.Second)
	out, err := tr.Translate(context.Background(), "The cat.", "en", "es")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "El gato." {
		t.Fatalf("unexpected translation %q", out)
	}
	if got.Q != "The cat." || got.Source != "en" || got.Target != "es" || got.APIKey != "secret" || got.Format != "text" {
		t.Fatalf("unexpected request body %+v", got)
	}
}

func TestLibreTranslateErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"zz is not supported"}`)
	}))
	defer srv.Close()

	_, err := NewLibreTranslate(srv.URL, "", time.Second).Translate(context.Background(), "x", "en", "zz")
	if err == nil || !strings.Contains(err.Error(), "zz is not supported") {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestLibreTranslateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	if _, err := NewLibreTranslate(url, "", time.Second).Translate(context.Background(), "x", "en", "es"); err == nil {
		t.Fatalf("expected network error")
	}
}

func TestOpenAITranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", auth)
		}
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Model != "test-model" || len(body.Messages) != 2 || !strings.Contains(body.Messages[1].Content, "The cat.") {
			t.Errorf("unexpected request %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "test-model",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": " Le chat. "}}],
			"usage": {"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2}
		}`)
	}))
	defer srv.Close()

	tr, err := NewOpenAI("sk-test", "test-model", WithBaseURL(srv.URL), WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	out, err := tr.Translate(context.Background(), "The cat.", "en", "fr")
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if out != "Le chat." {
		t.Fatalf("unexpected translation %q", out)
	}
}

func TestOpenAIRequiresKey(t *testing.T) {
	if _, err := NewOpenAI("", ""); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

func TestNewSelectsBackend(t *testing.T) {
	tr, err := New(model.TranslateConfig{})
	if err != nil {
		t.Fatalf("default backend: %v", err)
	}
	if _, ok := tr.(*LibreTranslate); !ok {
		t.Fatalf("expected libretranslate by default, got %T", tr)
	}
	tr, err = New(model.TranslateConfig{Backend: "OpenAI", APIKey: "k"})
	if err != nil {
		t.Fatalf("openai backend: %v", err)
	}
	if _, ok := tr.(*OpenAI); !ok {
		t.Fatalf("expected openai translator, got %T", tr)
	}
	tr, err = New(model.TranslateConfig{Backend: "none"})
	if err != nil {
		t.Fatalf("none backend: %v", err)
	}
	if _, err := tr.Translate(context.Background(), "x", "en", "es"); !errors.Is(err, ErrTranslatorDisabled) {
		t.Fatalf("expected ErrTranslatorDisabled, got %v", err)
	}
	if _, err := New(model.TranslateConfig{Backend: "babelfish"}); err == nil {
		t.Fatalf("expected unknown backend error")
	}
}

func TestValidLangCode(t *testing.T) {
	for _, code := range []string{"es", "de", "fr"} {
		if !ValidLangCode(code) {
			t.Fatalf("expected %q to be valid", code)
		}
	}
	for _, code := range []string{"", "e", "esp", "ES", "e1"} {
		if ValidLangCode(code) {
			t.Fatalf("expected %q to be invalid", code)
		}
	}
}
