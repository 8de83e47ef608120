package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Word is one OCR token observation with its recognition confidence.
type Word struct {
	// Text is the recognized token.
	Text string `json:"text"`

	// Confidence is the engine's certainty for this token, 0-100.
	Confidence float64 `json:"confidence"`
}

// Engine recognizes text in an image file and reports word-level
// observations in source order.
//
// Implementations must be safe to call once per candidate image within a
// session; they are not required to be safe for concurrent use.
type Engine interface {
	Recognize(imagePath string) ([]Word, error)
}

// Tesseract is the gosseract-backed Engine.
type Tesseract struct {
	// Languages are Tesseract language codes passed through unchanged
	// (e.g. "eng", "deu", "chi_sim"). Empty means the engine default.
	Languages []string
}

// NewTesseract builds a Tesseract engine for the given languages.
func NewTesseract(languages ...string) *Tesseract {
	return &Tesseract{Languages: languages}
}

// Recognize runs Tesseract on the image and returns word observations.
//
// A fresh client per call keeps candidate recognitions independent; Tesseract
// carries per-image adaptive state that would otherwise leak between
// candidates. Page segmentation is fixed to single-block, matching the
// screen-region shape of the input.
func (t *Tesseract) Recognize(imagePath string) ([]Word, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if len(t.Languages) > 0 {
		if err := client.SetLanguage(t.Languages...); err != nil {
			return nil, fmt.Errorf("failed to set languages: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return nil, fmt.Errorf("failed to set segmentation mode: %w", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		words = append(words, Word{
			Text:       box.Word,
			Confidence: box.Confidence,
		})
	}
	return words, nil
}
