// Package ocr scores several preprocessed variants of one capture against a
// recognition engine and keeps the best result.
//
// No single preprocessing strategy wins everywhere: adaptive thresholding
// beats Otsu on gradients, inversion wins on dark UIs, plain contrast wins on
// anti-aliased fonts. Running the engine on every candidate and comparing
// confidence-weighted results costs a few hundred milliseconds and removes
// the need to guess.
package ocr

import (
	"log"
	"strings"

	"circle-search/internal/preprocess"
)

// CandidateFile pairs a preprocessing strategy with its image on disk.
type CandidateFile struct {
	ID   preprocess.StrategyID
	Path string
}

// StrategyResult aggregates the accepted word observations of one candidate.
type StrategyResult struct {
	// ID is the preprocessing strategy that produced the candidate.
	ID preprocess.StrategyID `json:"strategy"`

	// Text is the accepted tokens joined in source order with single spaces.
	Text string `json:"text"`

	// Confidence is the arithmetic mean of the accepted tokens'
	// confidences, 0 when nothing was accepted.
	Confidence float64 `json:"confidence"`

	// Accepted is the number of tokens that survived the noise floor.
	Accepted int `json:"accepted"`
}

// Empty reports whether the result carries no usable text.
func (r StrategyResult) Empty() bool {
	return r.Accepted == 0
}

// Extract runs the engine on every candidate and returns the result with the
// highest average confidence.
//
// Tokens at or below floor are discarded before aggregation; this is pure
// noise rejection, not the acceptance bar - routing applies the stricter
// aggregate threshold later. A candidate whose recognition fails contributes
// an empty zero-confidence result rather than aborting the extraction. Ties
// resolve to the candidate earlier in the fixed generation order, so the
// outcome is deterministic for identical inputs.
//
// An all-empty outcome is legitimate ("no usable text"), not an error.
func Extract(engine Engine, candidates []CandidateFile, floor float64) StrategyResult {
	best := StrategyResult{ID: -1}

	for _, candidate := range candidates {
		result := scoreCandidate(engine, candidate, floor)
		if result.Accepted > 0 && result.Confidence > best.Confidence {
			best = result
		}
	}

	if best.Empty() {
		return StrategyResult{ID: -1}
	}
	return best
}

func scoreCandidate(engine Engine, candidate CandidateFile, floor float64) StrategyResult {
	result := StrategyResult{ID: candidate.ID}

	words, err := engine.Recognize(candidate.Path)
	if err != nil {
		log.Printf("ocr: %v candidate failed: %v", candidate.ID, err)
		return result
	}

	var tokens []string
	var sum float64
	for _, w := range words {
		if w.Confidence <= floor {
			continue
		}
		tokens = append(tokens, w.Text)
		sum += w.Confidence
	}
	if len(tokens) == 0 {
		return result
	}

	result.Text = strings.Join(tokens, " ")
	result.Confidence = sum / float64(len(tokens))
	result.Accepted = len(tokens)
	return result
}
