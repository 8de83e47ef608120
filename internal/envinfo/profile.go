// Package envinfo detects the display-server environment the process runs in.
//
// The profile decides which screen-capture tools are worth attempting: Wayland
// compositors refuse the legacy X11 grabbers, and X11 sessions have no use for
// wlroots tools. Detection is a pure function of environment variables with no
// failure mode - anything unrecognized is treated as an X11-like session so
// the capture chain always has candidates to try.
package envinfo

import (
	"fmt"
	"os"
	"strings"
)

// DisplayServer identifies the display-server family of the current session.
type DisplayServer string

const (
	// X11 covers classic X sessions and anything we cannot identify.
	X11 DisplayServer = "x11"

	// Wayland covers native Wayland sessions (GNOME, KDE, wlroots, ...).
	Wayland DisplayServer = "wayland"
)

// Profile describes the detected display environment.
//
// A Profile is computed once at session start and never mutated; every
// component that needs environment information receives it by value.
type Profile struct {
	// Server is the display-server family.
	Server DisplayServer

	// Compositor is a lowercased hint about the running compositor or
	// desktop environment (e.g. "gnome", "kde", "sway"). Empty when the
	// session does not advertise one.
	Compositor string
}

// Detect computes the environment profile from the process environment.
func Detect() Profile {
	return detectFrom(os.Getenv)
}

// detectFrom exists so tests can supply a synthetic environment.
func detectFrom(getenv func(string) string) Profile {
	server := X11
	switch strings.ToLower(getenv("XDG_SESSION_TYPE")) {
	case "wayland":
		server = Wayland
	case "x11", "tty":
		server = X11
	default:
		if getenv("WAYLAND_DISPLAY") != "" {
			server = Wayland
		}
	}

	compositor := getenv("XDG_CURRENT_DESKTOP")
	if compositor == "" {
		compositor = getenv("DESKTOP_SESSION")
	}
	// XDG_CURRENT_DESKTOP may be a colon list like "ubuntu:GNOME"; the last
	// entry is the actual desktop.
	if i := strings.LastIndex(compositor, ":"); i >= 0 {
		compositor = compositor[i+1:]
	}

	return Profile{
		Server:     server,
		Compositor: strings.ToLower(strings.TrimSpace(compositor)),
	}
}

// Guidance returns human-readable installation hints for capture tools that
// would work in this environment. Used by the fatal diagnostic when every
// capture strategy has been exhausted.
func (p Profile) Guidance() []string {
	hints := []string{
		"install flameshot (https://flameshot.org) for interactive region capture",
		"install xdg-desktop-portal so portal-based screenshots work",
	}
	switch p.Server {
	case Wayland:
		hints = append(hints, "install grim for wlroots compositors (sway, river, ...)")
	default:
		hints = append(hints,
			"install maim or scrot for X11 region capture",
			"install ImageMagick for the legacy 'import' grabber")
	}
	return hints
}

// String implements fmt.Stringer for log output.
func (p Profile) String() string {
	if p.Compositor == "" {
		return string(p.Server)
	}
	return fmt.Sprintf("%s/%s", p.Server, p.Compositor)
}
