package capture

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	portalMethod    = "org.freedesktop.portal.Screenshot.Screenshot"
	portalRequestIf = "org.freedesktop.portal.Request"
)

// portalStrategy takes a screenshot through the XDG desktop portal. This is
// the preferred path: it works on both Wayland and X11 and lets the
// compositor handle permissions.
type portalStrategy struct {
	timeout time.Duration
}

func (portalStrategy) Name() string             { return "xdg-desktop-portal" }
func (portalStrategy) Requires() Requirement    { return Any }
func (s portalStrategy) Timeout() time.Duration { return s.timeout }

// Attempt calls the portal Screenshot method and waits for its Response
// signal. The portal writes the screenshot itself and hands back a file URI,
// which is copied to outPath so the chain's cleanup rules apply uniformly.
func (s portalStrategy) Attempt(ctx context.Context, outPath string) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("session bus unavailable: %w", err)
	}

	obj := conn.Object(portalDest, dbus.ObjectPath(portalPath))
	opts := map[string]dbus.Variant{
		"interactive": dbus.MakeVariant(false),
	}

	var handle dbus.ObjectPath
	call := obj.CallWithContext(ctx, portalMethod, 0, "", opts)
	if call.Err != nil {
		return fmt.Errorf("portal call failed: %w", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return fmt.Errorf("portal returned unexpected reply: %w", err)
	}

	matchOpts := []dbus.MatchOption{
		dbus.WithMatchObjectPath(handle),
		dbus.WithMatchInterface(portalRequestIf),
		dbus.WithMatchMember("Response"),
	}
	if err := conn.AddMatchSignal(matchOpts...); err != nil {
		return fmt.Errorf("portal signal match failed: %w", err)
	}
	defer conn.RemoveMatchSignal(matchOpts...)

	signals := make(chan *dbus.Signal, 8)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("portal response timed out: %w", ctx.Err())
		case sig, ok := <-signals:
			if !ok {
				return fmt.Errorf("portal signal channel closed")
			}
			if sig.Path != handle || len(sig.Body) < 2 {
				continue
			}
			code, _ := sig.Body[0].(uint32)
			if code != 0 {
				return fmt.Errorf("portal request declined (code %d)", code)
			}
			results, _ := sig.Body[1].(map[string]dbus.Variant)
			uri, _ := results["uri"].Value().(string)
			if uri == "" {
				return fmt.Errorf("portal response missing uri")
			}
			return copyPortalFile(uri, outPath)
		}
	}
}

// copyPortalFile copies the portal's screenshot (a file:// URI, usually in
// the user's Pictures directory) into the session workspace and removes the
// original so no stray copies accumulate outside the temp area.
func copyPortalFile(uri, outPath string) error {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return fmt.Errorf("portal returned unusable uri %q", uri)
	}
	srcPath := u.Path

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open portal screenshot: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy portal screenshot: %w", err)
	}

	src.Close()
	os.Remove(srcPath)
	return nil
}
