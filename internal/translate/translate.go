// Package translate provides translation backends for practice text.
package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
)

// SourceLang is the language of generated practice text.
const SourceLang = "en"

// DefaultTimeout bounds a single translation request.
const DefaultTimeout = 30 * time.Second

// Backend names accepted by New.
const (
	BackendLibreTranslate = "libretranslate"
	BackendOpenAI         = "openai"
	BackendNone           = "none"
)

// ErrTranslatorDisabled is returned by the none backend.
var ErrTranslatorDisabled = errors.New("translation is disabled")

// Translator translates text from src to dest, both two-letter language codes.
type Translator interface {
	Translate(ctx context.Context, text, src, dest string) (string, error)
}

// New builds the Translator selected by cfg.Backend.
func New(cfg model.TranslateConfig) (Translator, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendLibreTranslate:
		return NewLibreTranslate(cfg.Endpoint, cfg.APIKey, timeout), nil
	case BackendOpenAI:
		return NewOpenAI(cfg.APIKey, cfg.Model, WithBaseURL(cfg.Endpoint), WithTimeout(timeout))
	case BackendNone:
		return disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown translation backend %q", cfg.Backend)
	}
}

// ValidLangCode reports whether code looks like a two-letter language code.
func ValidLangCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for i := 0; i < len(code); i++ {
		if code[i] < 'a' || code[i] > 'z' {
			return false
		}
	}
	return true
}

type disabled struct{}

func (disabled) Translate(context.Context, string, string, string) (string, error) {
	return "", ErrTranslatorDisabled
}
