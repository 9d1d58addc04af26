package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes colours target against input position by position.
// Input past the end of target is not shown.
func buildStyledRunes(targetRunes, inputRunes []rune, cursorIndex int) []styledRune {
	words := findWords(targetRunes)
	currentWord := wordForCursor(words, cursorIndex)

	out := make([]styledRune, 0, len(targetRunes))
	for i, target := range targetRunes {
		displayed := target
		style := pendingStyle
		typed := i < len(inputRunes)
		if typed {
			switch {
			case target == ' ' && inputRunes[i] != ' ':
				displayed = '•'
				style = incorrectStyle
			case inputRunes[i] == target:
				style = correctStyle
			default:
				style = incorrectStyle
			}
		} else if target != ' ' && currentWord != nil && i >= currentWord.start && i < currentWord.end {
			style = currentWordStyle
		}
		if i == cursorIndex && i >= len(inputRunes) {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
		})
	}
	return out
}

type wordRange struct {
	start int
	end   int
}

func findWords(targetRunes []rune) []wordRange {
	words := []wordRange{}
	start := -1
	for i, r := range targetRunes {
		if r == ' ' {
			if start != -1 {
				words = append(words, wordRange{start: start, end: i})
				start = -1
			}
			continue
		}
		if start == -1 {
			start = i
		}
	}
	if start != -1 {
		words = append(words, wordRange{start: start, end: len(targetRunes)})
	}
	return words
}

func wordForCursor(words []wordRange, cursorIndex int) *wordRange {
	if len(words) == 0 || cursorIndex < 0 {
		return nil
	}
	for i, w := range words {
		if cursorIndex < w.end {
			return &words[i]
		}
	}
	return nil
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrappedLine is one display line and the index of its first rune in the source.
type wrappedLine struct {
	start int
	runes []styledRune
}

// wrapStyledRunes breaks runes into lines of at most width cells, preferring
// to break at spaces. The breaking space is dropped from the output.
func wrapStyledRunes(runes []styledRune, width int) []wrappedLine {
	if width <= 0 {
		return []wrappedLine{{start: 0, runes: runes}}
	}
	var lines []wrappedLine
	lineStart := 0
	lineWidth := 0
	lastSpace := -1

	for i := 0; i < len(runes); i++ {
		item := runes[i]
		if lineWidth+item.width > width && i > lineStart {
			if item.isSpace {
				lines = append(lines, wrappedLine{start: lineStart, runes: runes[lineStart:i]})
				lineStart = i + 1
				lineWidth = 0
				lastSpace = -1
				continue
			}
			if lastSpace >= lineStart {
				lines = append(lines, wrappedLine{start: lineStart, runes: runes[lineStart:lastSpace]})
				lineStart = lastSpace + 1
			} else {
				lines = append(lines, wrappedLine{start: lineStart, runes: runes[lineStart:i]})
				lineStart = i
			}
			lineWidth = widthOf(runes[lineStart:i])
			lastSpace = lastSpaceIn(runes, lineStart, i)
		}
		lineWidth += item.width
		if item.isSpace {
			lastSpace = i
		}
	}
	lines = append(lines, wrappedLine{start: lineStart, runes: runes[lineStart:]})
	return lines
}

func widthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIn(runes []styledRune, from, to int) int {
	for i := to - 1; i >= from; i-- {
		if runes[i].isSpace {
			return i
		}
	}
	return -1
}

// lineForIndex returns the wrapped line holding rune index idx.
func lineForIndex(lines []wrappedLine, idx int) int {
	for i := len(lines) - 1; i >= 0; i-- {
		if idx >= lines[i].start {
			return i
		}
	}
	return 0
}

// visibleWindow keeps the cursor line second from the top once typing moves
// past the first line.
func visibleWindow(lines []wrappedLine, cursorLine, height int) []wrappedLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	start := cursorLine - 1
	if start < 0 {
		start = 0
	}
	if start+height > len(lines) {
		start = len(lines) - height
	}
	return lines[start : start+height]
}

func renderLines(lines []wrappedLine) string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, renderStyledRunes(line.runes))
	}
	return strings.Join(out, "\n")
}
