// Package generator builds random practice sentences.
package generator

import (
	"errors"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/verte-zerg/typesprint/internal/wordlist"
)

// ErrNoWords is returned when a required part of speech has no words.
var ErrNoWords = errors.New("word list has no words for sentence")

type part int

const (
	noun part = iota
	verb
	adjective
	adverb
	article
)

// Sentence shapes, from bare to full.
var templates = [][]part{
	{article, noun, verb, article, noun},
	{article, adjective, noun, verb, article, noun},
	{article, noun, verb, article, adjective, noun},
	{article, adjective, noun, adverb, verb, article, noun},
	{article, adjective, noun, adverb, verb, article, adjective, noun},
}

// Generator produces randomized sentences.
type Generator struct {
	rnd   *rand.Rand
	words wordlist.Set
}

// New returns a Generator over words seeded with the current time.
func New(words wordlist.Set) *Generator {
	return NewWithSource(words, rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource returns a Generator using src for randomness.
func NewWithSource(words wordlist.Set, src rand.Source) *Generator {
	return &Generator{rnd: rand.New(src), words: words}
}

// Sentence returns one capitalized sentence ending with a period.
func (g *Generator) Sentence() (string, error) {
	tmpl := templates[g.rnd.Intn(len(templates))]
	out := make([]string, 0, len(tmpl))
	for _, p := range tmpl {
		word, err := g.pick(p)
		if err != nil {
			return "", err
		}
		out = append(out, word)
	}
	return capitalize(strings.Join(out, " ")) + ".", nil
}

// Paragraph joins count sentences with single spaces.
func (g *Generator) Paragraph(count int) (string, error) {
	sentences := make([]string, 0, count)
	for i := 0; i < count; i++ {
		s, err := g.Sentence()
		if err != nil {
			return "", err
		}
		sentences = append(sentences, s)
	}
	return strings.Join(sentences, " "), nil
}

func (g *Generator) pick(p part) (string, error) {
	var pool []string
	switch p {
	case article:
		return "the", nil
	case noun:
		pool = g.words.Nouns
	case verb:
		pool = g.words.Verbs
	case adjective:
		pool = g.words.Adjectives
	case adverb:
		pool = g.words.Adverbs
	}
	if len(pool) == 0 {
		return "", ErrNoWords
	}
	return pool[g.rnd.Intn(len(pool))], nil
}

func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
