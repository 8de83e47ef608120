// Package search builds the outgoing URLs for recognized text and opens them
// in the user's browser. It is the boundary to the search/translate
// collaborators: the pipeline hands over a UTF-8 string and a mode, nothing
// more.
package search

import (
	"fmt"
	"net/url"

	"circle-search/internal/route"
)

const (
	searchBase    = "https://www.google.com/search"
	translateBase = "https://translate.google.com/"
	lensBase      = "https://lens.google.com/"
)

// SearchURL returns a web-search URL for the text.
func SearchURL(text string) string {
	return searchBase + "?q=" + url.QueryEscape(text)
}

// TranslateURL returns a translation URL for the text with auto-detected
// source language and the given target language code.
func TranslateURL(text, targetLang string) string {
	if targetLang == "" {
		targetLang = "en"
	}
	v := url.Values{}
	v.Set("sl", "auto")
	v.Set("tl", targetLang)
	v.Set("text", text)
	v.Set("op", "translate")
	return translateBase + "?" + v.Encode()
}

// LensURL returns the reverse-image-search upload page. The image itself is
// handed to the visual-search collaborator separately.
func LensURL() string {
	return lensBase
}

// URLFor maps a text-carrying routing decision to its URL. Homework requests
// share the web-search endpoint; the mode distinction is kept so a dedicated
// endpoint can slot in without touching the routing layer.
func URLFor(mode route.Mode, text, targetLang string) (string, error) {
	switch mode {
	case route.TextSearch, route.HomeworkSearch:
		return SearchURL(text), nil
	case route.Translate:
		return TranslateURL(text, targetLang), nil
	default:
		return "", fmt.Errorf("mode %v does not carry text", mode)
	}
}
