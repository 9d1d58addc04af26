// Package wordlist loads the part-of-speech word lists used to build sentences.
package wordlist

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

//go:embed data/*.txt
var defaultData embed.FS

// Set groups words by part of speech.
type Set struct {
	Nouns      []string
	Verbs      []string
	Adjectives []string
	Adverbs    []string
}

type category struct {
	file string
	dest func(*Set) *[]string
}

var categories = []category{
	{file: "nouns.txt", dest: func(s *Set) *[]string { return &s.Nouns }},
	{file: "verbs.txt", dest: func(s *Set) *[]string { return &s.Verbs }},
	{file: "adjectives.txt", dest: func(s *Set) *[]string { return &s.Adjectives }},
	{file: "adverbs.txt", dest: func(s *Set) *[]string { return &s.Adverbs }},
}

// Default returns the embedded English word lists.
func Default() (Set, error) {
	var set Set
	for _, c := range categories {
		f, err := defaultData.Open("data/" + c.file)
		if err != nil {
			return Set{}, fmt.Errorf("failed to open embedded %s: %w", c.file, err)
		}
		words, err := readWords(f, nil)
		_ = f.Close()
		if err != nil {
			return Set{}, fmt.Errorf("embedded %s: %w", c.file, err)
		}
		*c.dest(&set) = words
	}
	return set, nil
}

// LoadDir reads nouns.txt, verbs.txt, adjectives.txt and adverbs.txt from dir.
// Missing files fall back to the embedded list for that part of speech.
func LoadDir(dir string, filter FilterFunc) (Set, error) {
	set, err := Default()
	if err != nil {
		return Set{}, err
	}
	if dir == "" {
		return set, nil
	}
	for _, c := range categories {
		path := filepath.Join(dir, c.file)
		words, err := LoadWords(path, filter)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Set{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
		*c.dest(&set) = words
	}
	return set, nil
}

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string, filter FilterFunc) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()
	return readWords(file, filter)
}

func readWords(r io.Reader, filter FilterFunc) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if filter != nil && !filter(line) {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}
