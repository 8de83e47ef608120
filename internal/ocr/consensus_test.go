package ocr

import (
	"errors"
	"math"
	"testing"

	"circle-search/internal/preprocess"
)

// fakeEngine maps image paths to scripted observations.
type fakeEngine struct {
	words map[string][]Word
	fail  map[string]bool
	calls []string
}

func (e *fakeEngine) Recognize(path string) ([]Word, error) {
	e.calls = append(e.calls, path)
	if e.fail[path] {
		return nil, errors.New("engine crashed")
	}
	return e.words[path], nil
}

func TestExtract_PicksHighestAverage(t *testing.T) {
	// Scenario: "INVOICE" at 92 on strategy 1, 60 on strategy 3.
	engine := &fakeEngine{words: map[string][]Word{
		"adaptive.png": {{Text: "INVOICE", Confidence: 92}},
		"contrast.png": {{Text: "INVOICE", Confidence: 60}},
	}}
	candidates := []CandidateFile{
		{preprocess.StrategyAdaptive, "adaptive.png"},
		{preprocess.StrategyContrast, "contrast.png"},
	}

	result := Extract(engine, candidates, 30)
	if result.Text != "INVOICE" {
		t.Errorf("Text: got %q, want INVOICE", result.Text)
	}
	if result.Confidence != 92 {
		t.Errorf("Confidence: got %v, want 92", result.Confidence)
	}
	if result.ID != preprocess.StrategyAdaptive {
		t.Errorf("winning strategy: got %v, want adaptive", result.ID)
	}
}

func TestExtract_JoinsTokensInOrderAndAverages(t *testing.T) {
	engine := &fakeEngine{words: map[string][]Word{
		"a.png": {
			{Text: "total", Confidence: 80},
			{Text: "due:", Confidence: 90},
			{Text: "€42", Confidence: 70},
		},
	}}
	result := Extract(engine, []CandidateFile{{preprocess.StrategyAdaptive, "a.png"}}, 30)

	if result.Text != "total due: €42" {
		t.Errorf("Text: got %q", result.Text)
	}
	if math.Abs(result.Confidence-80) > 1e-9 {
		t.Errorf("Confidence: got %v, want 80", result.Confidence)
	}
	if result.Accepted != 3 {
		t.Errorf("Accepted: got %d, want 3", result.Accepted)
	}
}

func TestExtract_NoiseFloorFiltersTokens(t *testing.T) {
	engine := &fakeEngine{words: map[string][]Word{
		"a.png": {
			{Text: "real", Confidence: 85},
			{Text: "|", Confidence: 12},
			{Text: "~", Confidence: 30}, // at the floor: rejected
		},
	}}
	result := Extract(engine, []CandidateFile{{preprocess.StrategyAdaptive, "a.png"}}, 30)

	if result.Text != "real" {
		t.Errorf("Text: got %q, want only the confident token", result.Text)
	}
	if result.Confidence != 85 {
		t.Errorf("Confidence: got %v, want 85", result.Confidence)
	}
}

func TestExtract_TieBreaksToEarlierStrategy(t *testing.T) {
	engine := &fakeEngine{words: map[string][]Word{
		"a.png": {{Text: "same", Confidence: 75}},
		"b.png": {{Text: "same", Confidence: 75}},
	}}
	candidates := []CandidateFile{
		{preprocess.StrategyAdaptive, "a.png"},
		{preprocess.StrategyOtsu, "b.png"},
	}

	result := Extract(engine, candidates, 30)
	if result.ID != preprocess.StrategyAdaptive {
		t.Errorf("tie should resolve to the earlier strategy, got %v", result.ID)
	}
}

func TestExtract_EngineFailureIsRecoverable(t *testing.T) {
	engine := &fakeEngine{
		words: map[string][]Word{"b.png": {{Text: "ok", Confidence: 66}}},
		fail:  map[string]bool{"a.png": true},
	}
	candidates := []CandidateFile{
		{preprocess.StrategyAdaptive, "a.png"},
		{preprocess.StrategyOtsu, "b.png"},
	}

	result := Extract(engine, candidates, 30)
	if result.Text != "ok" || result.ID != preprocess.StrategyOtsu {
		t.Errorf("surviving candidate should win: got %+v", result)
	}
	if len(engine.calls) != 2 {
		t.Errorf("both candidates must be attempted, got calls %v", engine.calls)
	}
}

func TestExtract_AllEmptyIsLegitimate(t *testing.T) {
	engine := &fakeEngine{words: map[string][]Word{
		"a.png": nil,
		"b.png": {{Text: "x", Confidence: 5}}, // below floor
	}}
	candidates := []CandidateFile{
		{preprocess.StrategyAdaptive, "a.png"},
		{preprocess.StrategyOtsu, "b.png"},
	}

	result := Extract(engine, candidates, 30)
	if !result.Empty() {
		t.Errorf("expected empty consensus, got %+v", result)
	}
	if result.Text != "" || result.Confidence != 0 {
		t.Errorf("empty consensus must carry empty text and zero confidence, got %+v", result)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	words := map[string][]Word{
		"a.png": {{Text: "alpha", Confidence: 51}},
		"b.png": {{Text: "beta", Confidence: 88}},
		"c.png": {{Text: "gamma", Confidence: 88}},
	}
	candidates := []CandidateFile{
		{preprocess.StrategyAdaptive, "a.png"},
		{preprocess.StrategyOtsu, "b.png"},
		{preprocess.StrategyContrast, "c.png"},
	}

	first := Extract(&fakeEngine{words: words}, candidates, 30)
	for i := 0; i < 10; i++ {
		again := Extract(&fakeEngine{words: words}, candidates, 30)
		if again != first {
			t.Fatalf("extraction not reproducible: %+v vs %+v", first, again)
		}
	}
	// The winner's confidence is exactly the max per-strategy average.
	if first.Confidence != 88 || first.ID != preprocess.StrategyOtsu {
		t.Errorf("got %+v, want otsu at 88", first)
	}
}
