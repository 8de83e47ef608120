package search

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"
)

// openers are tried in order until one accepts the URL; the same
// walk-the-list shape as the capture chain.
var openers = [][]string{
	{"xdg-open"},
	{"x-www-browser"},
	{"sensible-browser"},
}

const openTimeout = 10 * time.Second

// Open launches the default browser on a URL.
func Open(ctx context.Context, rawURL string) error {
	var attempted []string
	for _, opener := range openers {
		attempted = append(attempted, opener[0])

		cmdCtx, cancel := context.WithTimeout(ctx, openTimeout)
		argv := append(append([]string{}, opener...), rawURL)
		err := exec.CommandContext(cmdCtx, argv[0], argv[1:]...).Run()
		cancel()

		if err == nil {
			return nil
		}
		log.Printf("browser: %s: %v", opener[0], err)
	}
	return fmt.Errorf("no browser opener succeeded (tried: %s)", strings.Join(attempted, ", "))
}

// Uploader hands a finished image to the visual-search collaborator. The
// pipeline expects nothing back beyond success or failure for logging.
type Uploader interface {
	Upload(ctx context.Context, imagePath string) error
}

// LensHandoff is the default Uploader: it opens the reverse-image-search
// page and reports where the image was left for the upload. Driving the
// actual browser upload is the collaborator's business, not the pipeline's.
type LensHandoff struct{}

func (LensHandoff) Upload(ctx context.Context, imagePath string) error {
	if err := Open(ctx, LensURL()); err != nil {
		return err
	}
	log.Printf("visual search: image ready at %s", imagePath)
	return nil
}
