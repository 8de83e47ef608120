package search

import (
	"net/url"
	"strings"
	"testing"

	"circle-search/internal/route"
)

func TestSearchURL_PercentEncoding(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"spaces", "hello world"},
		{"ampersand and equals", "a=b&c=d"},
		{"unicode", "größe 机器学习"},
		{"punctuation", `what is "2+2"?`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := SearchURL(tt.text)
			parsed, err := url.Parse(raw)
			if err != nil {
				t.Fatalf("produced unparseable URL %q: %v", raw, err)
			}
			if got := parsed.Query().Get("q"); got != tt.text {
				t.Errorf("round-tripped query: got %q, want %q", got, tt.text)
			}
		})
	}
}

func TestTranslateURL(t *testing.T) {
	raw := TranslateURL("bonjour le monde", "de")
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("unparseable URL: %v", err)
	}
	q := parsed.Query()
	if q.Get("text") != "bonjour le monde" {
		t.Errorf("text: got %q", q.Get("text"))
	}
	if q.Get("sl") != "auto" || q.Get("tl") != "de" {
		t.Errorf("languages: sl=%q tl=%q", q.Get("sl"), q.Get("tl"))
	}

	// Empty target falls back to English.
	if !strings.Contains(TranslateURL("x", ""), "tl=en") {
		t.Error("empty target language should default to en")
	}
}

func TestURLFor(t *testing.T) {
	if u, err := URLFor(route.TextSearch, "query", ""); err != nil || !strings.HasPrefix(u, "https://www.google.com/search?q=") {
		t.Errorf("text search: got %q, %v", u, err)
	}
	if u, err := URLFor(route.HomeworkSearch, "solve x", ""); err != nil || !strings.Contains(u, "solve") {
		t.Errorf("homework: got %q, %v", u, err)
	}
	if u, err := URLFor(route.Translate, "hola", "fr"); err != nil || !strings.Contains(u, "translate.google.com") {
		t.Errorf("translate: got %q, %v", u, err)
	}
	if _, err := URLFor(route.VisualSearch, "ignored", ""); err == nil {
		t.Error("visual search does not carry text and must error")
	}
}
