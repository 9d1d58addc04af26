// Package text supplies practice paragraphs and their translations.
package text

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/verte-zerg/typesprint/internal/generator"
	"github.com/verte-zerg/typesprint/internal/translate"
)

// Defaults for the text boundary.
const (
	DefaultSentences = 60
	DefaultLang      = "es"
)

var (
	// ErrTextFetch wraps paragraph generation failures.
	ErrTextFetch = errors.New("failed to fetch new text")
	// ErrTranslation wraps translation failures.
	ErrTranslation = errors.New("failed to translate text")
)

// Provider supplies practice text.
type Provider interface {
	Paragraph(ctx context.Context, sentences int) (string, error)
	Translate(ctx context.Context, text, dest string) (string, error)
}

// Manager generates paragraphs locally and translates through a Translator.
// It is safe for concurrent use.
type Manager struct {
	mu         sync.Mutex
	gen        *generator.Generator
	translator translate.Translator
}

// NewManager returns a Manager.
func NewManager(gen *generator.Generator, translator translate.Translator) *Manager {
	return &Manager{gen: gen, translator: translator}
}

// Paragraph implements Provider.
func (m *Manager) Paragraph(ctx context.Context, sentences int) (string, error) {
	if sentences <= 0 {
		sentences = DefaultSentences
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrTextFetch, err)
	}
	m.mu.Lock()
	paragraph, err := m.gen.Paragraph(sentences)
	m.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTextFetch, err)
	}
	return paragraph, nil
}

// Translate implements Provider.
func (m *Manager) Translate(ctx context.Context, text, dest string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: no text to translate", ErrTranslation)
	}
	if dest == "" {
		dest = DefaultLang
	}
	if !translate.ValidLangCode(dest) {
		return "", fmt.Errorf("%w: invalid language code %q", ErrTranslation, dest)
	}
	if m.translator == nil {
		return "", fmt.Errorf("%w: %w", ErrTranslation, translate.ErrTranslatorDisabled)
	}
	out, err := m.translator.Translate(ctx, text, translate.SourceLang, dest)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTranslation, err)
	}
	return NormalizeSpacing(out), nil
}

// NormalizeSpacing puts exactly one space after every period and collapses
// other runs of whitespace.
func NormalizeSpacing(s string) string {
	s = strings.ReplaceAll(s, ".", ". ")
	return strings.Join(strings.Fields(s), " ")
}
