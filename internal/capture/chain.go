package capture

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"circle-search/internal/envinfo"
)

// Raw is a successfully captured screen image on disk, with provenance.
type Raw struct {
	// Path is the image file inside the session workspace.
	Path string

	// Tool is the name of the strategy that produced it.
	Tool string
}

// ExhaustedError is returned when every eligible strategy failed. It is fatal
// for the session: retrying would hit the same missing-tool conditions.
type ExhaustedError struct {
	// Attempted lists the strategies that were tried, in order.
	Attempted []string

	// Profile is the environment the chain filtered against, so the caller
	// can print installation guidance that actually applies.
	Profile envinfo.Profile
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no capture tool succeeded on %s (tried: %s)",
		e.Profile, strings.Join(e.Attempted, ", "))
}

// Chain executes capture strategies in catalogue order until one produces a
// usable image.
type Chain struct {
	strategies []Strategy
	timeout    time.Duration
}

// NewChain builds a chain over the given strategies with a default per-attempt
// timeout. Strategies may override the timeout individually.
func NewChain(timeout time.Duration, strategies ...Strategy) *Chain {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Chain{strategies: strategies, timeout: timeout}
}

// DefaultChain builds a chain over the full static catalogue.
func DefaultChain(timeout time.Duration) *Chain {
	return NewChain(timeout, Catalogue()...)
}

// Capture runs the chain: filter by display server, attempt each candidate
// under its timeout, and accept the first non-empty output file.
//
// Each attempt writes to a fresh file in dir; files left behind by failed
// attempts are the caller's cleanup responsibility (the session workspace is
// removed wholesale at session end).
func (c *Chain) Capture(ctx context.Context, profile envinfo.Profile, dir string) (*Raw, error) {
	var attempted []string

	for i, s := range c.strategies {
		if !s.Requires().Matches(profile) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attempted = append(attempted, s.Name())

		outPath := filepath.Join(dir, fmt.Sprintf("capture-%02d-%s.png", i, s.Name()))

		timeout := s.Timeout()
		if timeout <= 0 {
			timeout = c.timeout
		}
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		err := s.Attempt(attemptCtx, outPath)
		cancel()

		if err != nil {
			log.Printf("capture: %s: %v", s.Name(), err)
			continue
		}
		if !usableFile(outPath) {
			log.Printf("capture: %s produced no output", s.Name())
			continue
		}

		log.Printf("capture: screenshot taken with %s", s.Name())
		return &Raw{Path: outPath, Tool: s.Name()}, nil
	}

	return nil, &ExhaustedError{Attempted: attempted, Profile: profile}
}

// usableFile reports whether path exists and holds at least one byte. Tools
// occasionally exit zero after the user dismisses the selection, leaving an
// empty file behind.
func usableFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}
