package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"circle-search/internal/capture"
	"circle-search/internal/config"
	"circle-search/internal/envinfo"
	"circle-search/internal/frontend"
	"circle-search/internal/ocr"
	"circle-search/internal/region"
	"circle-search/internal/route"
	"circle-search/internal/search"
	"circle-search/internal/session"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags before flag parsing so they work alone
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("circle-search %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	// Log to stderr; stdout carries only the final decision line
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	var (
		modeName   = flag.String("mode", "text", "action for the selection: text, translate, visual or homework")
		configPath = flag.String("config", "", "path to a JSON config file")
		points     = flag.String("points", "", "pre-drawn selection path as x,y;x,y;... (skips interactive selection)")
		events     = flag.Bool("events", false, "read pointer events as JSON lines from stdin")
		langs      = flag.String("lang", "", "comma-separated OCR language codes (overrides config)")
	)
	flag.Parse()

	if err := run(*modeName, *configPath, *points, *events, *langs); err != nil {
		var exhausted *capture.ExhaustedError
		if errors.As(err, &exhausted) {
			fmt.Fprintln(os.Stderr, exhausted.Error())
			for _, hint := range exhausted.Profile.Guidance() {
				fmt.Fprintln(os.Stderr, "  "+hint)
			}
			os.Exit(1)
		}
		log.Fatalf("circle-search: %v", err)
	}
}

func run(modeName, configPath, points string, events bool, langs string) error {
	requested, err := route.ParseMode(modeName)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if langs != "" {
		cfg.Languages = strings.Split(langs, ",")
	}

	source, err := pickSource(points, events)
	if err != nil {
		return err
	}

	profile := envinfo.Detect()
	log.Printf("environment: %s", profile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chain := capture.DefaultChain(time.Duration(cfg.CaptureTimeoutSecs) * time.Second)
	engine := ocr.NewTesseract(cfg.Languages...)

	sess, err := session.New(cfg, chain, engine)
	if err != nil {
		return err
	}
	defer sess.Close()

	res, err := sess.Run(ctx, profile, source, requested)
	if err != nil {
		return err
	}

	if res.Outcome == session.Cancelled {
		fmt.Println("selection cancelled")
		return nil
	}

	return dispatch(ctx, cfg, res)
}

// pickSource chooses how the selection path is obtained. Interactive capture
// tools crop the frame themselves, so the full-frame source is the default.
func pickSource(points string, events bool) (session.RegionSource, error) {
	switch {
	case points != "" && events:
		return nil, fmt.Errorf("--points and --events are mutually exclusive")
	case points != "":
		path, err := parsePoints(points)
		if err != nil {
			return nil, err
		}
		return session.StaticRegion{Path: path}, nil
	case events:
		return frontend.NewEventReader(os.Stdin), nil
	default:
		return session.FullFrame{}, nil
	}
}

// parsePoints reads a path in x,y;x,y;... form.
func parsePoints(s string) (region.Path, error) {
	var path region.Path
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		xy := strings.Split(pair, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("bad point %q (want x,y)", pair)
		}
		x, errX := strconv.Atoi(strings.TrimSpace(xy[0]))
		y, errY := strconv.Atoi(strings.TrimSpace(xy[1]))
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("bad point %q (want integer coordinates)", pair)
		}
		path = append(path, region.Point{X: x, Y: y})
	}
	if len(path) < region.MinPoints {
		return nil, fmt.Errorf("need at least %d points, got %d", region.MinPoints, len(path))
	}
	return path, nil
}

// dispatch acts on a completed decision: open the right URL for text modes,
// hand the image to the visual-search flow otherwise.
func dispatch(ctx context.Context, cfg *config.Config, res *session.Result) error {
	log.Printf("decision: %s (confidence %.1f, via %s)", res.Decision, res.Confidence, res.Tool)

	if res.Decision == route.VisualSearch {
		fmt.Printf("visual %s\n", res.ImagePath)
		return search.LensHandoff{}.Upload(ctx, res.ImagePath)
	}

	u, err := search.URLFor(res.Decision, res.Text, cfg.TranslateTarget)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s\n", res.Decision, u)
	return search.Open(ctx, u)
}

func printHelp() {
	fmt.Println("circle-search - circle anything on screen, search it")
	fmt.Println()
	fmt.Println("Usage: circle-search [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --mode MODE      text, translate, visual or homework (default text)")
	fmt.Println("  --config PATH    JSON config file (default ~/.config/circle-search/config.json)")
	fmt.Println("  --points LIST    pre-drawn selection path as x,y;x,y;...")
	fmt.Println("  --events         read pointer events as JSON lines from stdin")
	fmt.Println("  --lang CODES     comma-separated OCR languages, e.g. eng,deu")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  CIRCLE_SEARCH_LANGUAGES, CIRCLE_SEARCH_TOKEN_FLOOR,")
	fmt.Println("  CIRCLE_SEARCH_MIN_CONFIDENCE, CIRCLE_SEARCH_MIN_TEXT_LEN,")
	fmt.Println("  CIRCLE_SEARCH_TRANSLATE_TARGET, CIRCLE_SEARCH_CAPTURE_TIMEOUT,")
	fmt.Println("  CIRCLE_SEARCH_TEMP_ROOT")
	fmt.Println()
	fmt.Println("The capture tool chain is tried in order until one produces an")
	fmt.Println("image; install flameshot, maim or grim for the best experience.")
}
