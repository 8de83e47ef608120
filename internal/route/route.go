// Package route decides what to do with a recognition result.
//
// The decision table separates two questions the pipeline must not conflate:
// the per-token noise floor (applied during extraction) asks "is this word
// probably not noise", while the aggregate thresholds here ask "is this whole
// result good enough to show the user as authoritative text". Anything that
// fails the second test falls back to reverse-image search, which can always
// operate on the pixels alone.
package route

import (
	"fmt"
	"strings"
	"unicode"

	"circle-search/internal/ocr"
)

// Mode is the action taken with a capture: a text-driven search variant or
// the visual-search fallback.
type Mode int

const (
	// TextSearch opens a web search for the recognized text.
	TextSearch Mode = iota

	// Translate opens a translation of the recognized text.
	Translate

	// VisualSearch hands the image off for reverse-image search.
	VisualSearch

	// HomeworkSearch searches the recognized text as a problem statement.
	HomeworkSearch
)

var modeNames = map[Mode]string{
	TextSearch:     "text",
	Translate:      "translate",
	VisualSearch:   "visual",
	HomeworkSearch: "homework",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode maps a CLI mode name to its Mode.
func ParseMode(s string) (Mode, error) {
	for mode, name := range modeNames {
		if name == s {
			return mode, nil
		}
	}
	return VisualSearch, fmt.Errorf("unknown mode %q (want text, translate, visual or homework)", s)
}

// Thresholds is the aggregate acceptance bar for recognized text.
type Thresholds struct {
	// MinConfidence is the minimum average confidence (0-100).
	MinConfidence float64

	// MinTextLen is the minimum length of the whitespace-normalized text.
	MinTextLen int
}

// Decide maps a consensus result and the user's requested mode to the final
// action. Rules, in order: an explicit visual-search request always wins;
// empty, short, low-confidence or degenerate text falls back to visual
// search; otherwise the requested mode stands.
func Decide(result ocr.StrategyResult, requested Mode, th Thresholds) Mode {
	if requested == VisualSearch {
		return VisualSearch
	}

	text := Normalize(result.Text)
	switch {
	case result.Empty():
		return VisualSearch
	case len([]rune(text)) < th.MinTextLen:
		return VisualSearch
	case result.Confidence < th.MinConfidence:
		return VisualSearch
	case degenerate(text):
		return VisualSearch
	}
	return requested
}

// Normalize collapses all whitespace runs to single spaces and trims.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// degenerate reports whether normalized text is useless as a query: entirely
// numeric, or made up solely of single-character tokens (classic OCR noise
// from texture and UI ornaments).
func degenerate(text string) bool {
	if text == "" {
		return true
	}

	allDigits := true
	for _, r := range text {
		if !unicode.IsDigit(r) && !unicode.IsSpace(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return true
	}

	for _, token := range strings.Fields(text) {
		if len([]rune(token)) > 1 {
			return false
		}
	}
	return true
}
