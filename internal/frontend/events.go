// Package frontend adapts the GUI collaborator's pointer-event stream to the
// region recorder.
//
// The wire format is JSON lines, one event per line:
//
//	{"type":"press","x":120,"y":80}
//	{"type":"move","x":131,"y":86}
//	{"type":"release"}
//	{"type":"abort"}
//
// The adapter owns no pipeline state beyond the recorder; it stops at the
// first release or abort. Malformed lines are logged and skipped so a glitchy
// frontend cannot wedge the session.
package frontend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"log"

	"circle-search/internal/region"
)

// Event is one pointer event from the GUI collaborator.
type Event struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// EventReader turns a JSONL event stream into a selection path.
type EventReader struct {
	r io.Reader
}

// NewEventReader wraps the collaborator's event stream, typically stdin.
func NewEventReader(r io.Reader) *EventReader {
	return &EventReader{r: r}
}

// Select consumes events until release or abort and returns the selection.
// The captured frame is ignored here - the collaborator renders it and sends
// coordinates in the same screen space.
//
// Returns (path, true, nil) for a usable selection; (nil, false, nil) for a
// degenerate stroke, an abort, or end of stream - all "user cancelled"
// outcomes, not errors.
func (e *EventReader) Select(ctx context.Context, _ image.Image) (region.Path, bool, error) {
	scanner := bufio.NewScanner(e.r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var rec region.Recorder
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			log.Printf("frontend: skipping malformed event: %v", err)
			continue
		}

		switch ev.Type {
		case "press":
			rec.Press(ev.X, ev.Y)
		case "move":
			rec.Move(ev.X, ev.Y)
		case "release":
			path, ok := rec.Release()
			return path, ok, nil
		case "abort":
			return nil, false, nil
		default:
			log.Printf("frontend: ignoring unknown event type %q", ev.Type)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("event stream error: %w", err)
	}
	// Stream ended mid-stroke: treat as abort.
	return nil, false, nil
}
