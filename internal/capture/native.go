package capture

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/kbinani/screenshot"
)

// nativeStrategy grabs the primary display in-process. It needs no external
// tool at all, which makes it the last resort on X11 hosts where nothing else
// is installed. It cannot work under native Wayland.
type nativeStrategy struct{}

func (nativeStrategy) Name() string           { return "native-grab" }
func (nativeStrategy) Requires() Requirement  { return RequireX11 }
func (nativeStrategy) Timeout() time.Duration { return 0 }

func (nativeStrategy) Attempt(ctx context.Context, outPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if screenshot.NumActiveDisplays() == 0 {
		return fmt.Errorf("no active displays")
	}

	img, err := screenshot.CaptureDisplay(0)
	if err != nil {
		return fmt.Errorf("display grab failed: %w", err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode grab: %w", err)
	}
	return nil
}
