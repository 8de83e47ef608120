// Package session runs one capture-to-decision pipeline pass and owns its
// temporary files.
//
// Every entity the pipeline creates - the raw capture, the masked crop, the
// preprocessed candidates - lives in a uniquely named workspace directory and
// is discarded when the session closes, successful or not. Nothing persists
// across sessions except configuration.
package session

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"circle-search/internal/capture"
	"circle-search/internal/config"
	"circle-search/internal/envinfo"
	"circle-search/internal/mask"
	"circle-search/internal/ocr"
	"circle-search/internal/preprocess"
	"circle-search/internal/region"
	"circle-search/internal/route"
)

// RegionSource supplies the user's selection once the frame is captured.
// Implementations return ok=false for any "user cancelled" outcome.
type RegionSource interface {
	Select(ctx context.Context, img image.Image) (region.Path, bool, error)
}

// Outcome classifies how a session ended.
type Outcome int

const (
	// Completed means the pipeline ran through to a routing decision.
	Completed Outcome = iota

	// Cancelled means the user aborted or drew a degenerate selection.
	// Not an error; the session ends quietly.
	Cancelled
)

// Result is the session's final product.
type Result struct {
	Outcome Outcome

	// Decision is the chosen action. Meaningless when Outcome is Cancelled.
	Decision route.Mode

	// Text is the normalized recognized text; empty for visual search.
	Text string

	// Confidence is the winning strategy's average confidence.
	Confidence float64

	// ImagePath is the masked crop, for the visual-search handoff.
	ImagePath string

	// Tool names the capture strategy that produced the frame.
	Tool string
}

// Session is one pipeline pass with its workspace.
type Session struct {
	cfg    *config.Config
	chain  *capture.Chain
	engine ocr.Engine
	dir    string
}

// New creates a session with a fresh workspace directory.
func New(cfg *config.Config, chain *capture.Chain, engine ocr.Engine) (*Session, error) {
	root := cfg.TempRoot
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, "circle-search-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session workspace: %w", err)
	}
	return &Session{cfg: cfg, chain: chain, engine: engine, dir: dir}, nil
}

// Dir returns the session workspace directory.
func (s *Session) Dir() string { return s.dir }

// Close removes the workspace and everything in it.
func (s *Session) Close() error {
	return os.RemoveAll(s.dir)
}

// Run executes the pipeline: capture, select, mask, preprocess, extract,
// route. The context is checked between stages so an escape-level abort takes
// effect at the next component boundary, never inside a blocking call.
//
// Capture exhaustion is returned as an error (fatal for the session, carrying
// *capture.ExhaustedError); cancellation outcomes come back as a Result, not
// an error.
func (s *Session) Run(ctx context.Context, profile envinfo.Profile, source RegionSource, requested route.Mode) (*Result, error) {
	raw, err := s.chain.Capture(ctx, profile, s.dir)
	if err != nil {
		return nil, err
	}

	img, err := loadImage(raw.Path)
	if err != nil {
		return nil, err
	}

	path, ok, err := source.Select(ctx, img)
	if err != nil {
		return nil, err
	}
	if !ok || path.Degenerate() {
		return &Result{Outcome: Cancelled, Tool: raw.Tool}, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	masked := mask.Apply(img, path)
	maskedPath := filepath.Join(s.dir, "masked.png")
	if err := imaging.Save(masked, maskedPath); err != nil {
		return nil, fmt.Errorf("failed to save masked image: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := preprocess.Generate(masked, preprocess.Options{
		AdaptiveWindow: s.cfg.AdaptiveWindow,
		AdaptiveBias:   s.cfg.AdaptiveBias,
		ContrastFactor: s.cfg.ContrastFactor,
	})
	files := s.saveCandidates(candidates)

	consensus := ocr.Extract(s.engine, files, s.cfg.TokenFloor)
	s.removeCandidates(files)

	decision := route.Decide(consensus, requested, route.Thresholds{
		MinConfidence: s.cfg.MinConfidence,
		MinTextLen:    s.cfg.MinTextLen,
	})

	return &Result{
		Outcome:    Completed,
		Decision:   decision,
		Text:       route.Normalize(consensus.Text),
		Confidence: consensus.Confidence,
		ImagePath:  maskedPath,
		Tool:       raw.Tool,
	}, nil
}

// saveCandidates writes candidate images for the OCR engine. A candidate
// that fails to encode is dropped; the rest of the set carries on.
func (s *Session) saveCandidates(candidates []preprocess.Candidate) []ocr.CandidateFile {
	files := make([]ocr.CandidateFile, 0, len(candidates))
	for _, c := range candidates {
		path := filepath.Join(s.dir, fmt.Sprintf("candidate-%02d-%s.png", int(c.ID), c.ID))
		if err := imaging.Save(c.Image, path); err != nil {
			log.Printf("session: dropping candidate %s: %v", c.ID, err)
			continue
		}
		files = append(files, ocr.CandidateFile{ID: c.ID, Path: path})
	}
	return files
}

// removeCandidates deletes candidate artifacts once extraction is done.
// Close would catch them anyway; removing early keeps the workspace at its
// documented maximum of one raw capture plus one masked result.
func (s *Session) removeCandidates(files []ocr.CandidateFile) {
	for _, f := range files {
		if err := os.Remove(f.Path); err != nil {
			log.Printf("session: candidate cleanup: %v", err)
		}
	}
}
