// Package capture acquires a raw screen image through a prioritized chain of
// capture strategies.
//
// The catalogue is static and strongly typed: every entry is a tagged variant
// behind the Strategy interface - a DBus portal call, an external command, or
// an in-process X11 grab. Selection is a pure filter over the catalogue by the
// detected display server; execution walks the filtered list in priority order
// until one strategy produces a non-empty image file.
package capture

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"circle-search/internal/envinfo"
)

// Requirement constrains a strategy to a display-server family.
type Requirement string

const (
	// Any strategies run regardless of display server.
	Any Requirement = ""

	// RequireX11 strategies only work under X (or XWayland-less sessions).
	RequireX11 Requirement = Requirement(envinfo.X11)

	// RequireWayland strategies only work under native Wayland.
	RequireWayland Requirement = Requirement(envinfo.Wayland)
)

// Matches reports whether the requirement is satisfied by the profile.
func (r Requirement) Matches(p envinfo.Profile) bool {
	return r == Any || string(r) == string(p.Server)
}

// Strategy is one way of producing a screenshot file.
//
// Attempt must either write a decodable image to outPath or return an error;
// it must respect ctx cancellation since external tools can hang. A missing
// executable, a non-zero exit and a timeout are all ordinary recoverable
// failures - the chain simply moves on.
type Strategy interface {
	// Name identifies the strategy in logs and diagnostics.
	Name() string

	// Requires returns the display-server constraint.
	Requires() Requirement

	// Timeout returns the per-attempt budget, or 0 to use the chain default.
	Timeout() time.Duration

	// Attempt tries to write a screenshot to outPath.
	Attempt(ctx context.Context, outPath string) error
}

// outputPlaceholder marks where the output path goes in a command template.
const outputPlaceholder = "{output}"

// execStrategy invokes an external capture tool. The argv template carries an
// output-path placeholder substituted per attempt.
type execStrategy struct {
	name     string
	requires Requirement
	timeout  time.Duration
	argv     []string
}

func (s execStrategy) Name() string           { return s.name }
func (s execStrategy) Requires() Requirement  { return s.requires }
func (s execStrategy) Timeout() time.Duration { return s.timeout }

func (s execStrategy) Attempt(ctx context.Context, outPath string) error {
	argv := make([]string, len(s.argv))
	for i, arg := range s.argv {
		argv[i] = strings.ReplaceAll(arg, outputPlaceholder, outPath)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	// Tool output is noise to the pipeline; failures are reported via the
	// exit code and the output file check.
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s timed out: %w", s.name, ctx.Err())
		}
		return fmt.Errorf("%s failed: %w", s.name, err)
	}
	return nil
}

// Catalogue returns the full ordered strategy list: portal first, then
// desktop-specific tools, then generic compositor tools, then the legacy X11
// grabbers, with the in-process grab as the last resort.
func Catalogue() []Strategy {
	// Interactive tools wait for the user to pick a region, so they get a
	// much larger budget than the non-interactive grabbers.
	const interactive = 2 * time.Minute

	return []Strategy{
		portalStrategy{timeout: interactive},
		execStrategy{
			name:    "flameshot",
			timeout: interactive,
			argv:    []string{"flameshot", "gui", "-p", outputPlaceholder},
		},
		execStrategy{
			name:    "spectacle",
			timeout: interactive,
			argv:    []string{"spectacle", "-r", "-b", "-n", "-o", outputPlaceholder},
		},
		execStrategy{
			name:     "grim",
			requires: RequireWayland,
			argv:     []string{"grim", outputPlaceholder},
		},
		execStrategy{
			name:     "maim",
			requires: RequireX11,
			timeout:  interactive,
			argv:     []string{"maim", "-s", outputPlaceholder},
		},
		execStrategy{
			name:     "scrot",
			requires: RequireX11,
			timeout:  interactive,
			argv:     []string{"scrot", "-s", "-q", "100", "-o", outputPlaceholder},
		},
		execStrategy{
			name:     "import",
			requires: RequireX11,
			timeout:  interactive,
			argv:     []string{"import", outputPlaceholder},
		},
		nativeStrategy{},
	}
}
