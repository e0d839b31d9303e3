// Package analysis runs the full circle-counting pipeline for one image:
// detection, duplicate suppression, annotation and persistence.
package analysis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ironsheep/circle-counter/internal/config"
	"github.com/ironsheep/circle-counter/internal/detection"
	"github.com/ironsheep/circle-counter/internal/imaging"
	"github.com/ironsheep/circle-counter/internal/render"
	"github.com/ironsheep/circle-counter/internal/suppress"
)

// Result describes one analyzed image.
type Result struct {
	// Path is the analyzed image.
	Path string `json:"path"`

	// Candidates are the raw detector output.
	Candidates []suppress.Circle `json:"candidates"`

	// Survivors are the candidates left after suppression, in pick order.
	Survivors []suppress.Circle `json:"survivors"`

	// Count is len(Survivors).
	Count int `json:"count"`

	// OutputPath is where the annotated image was written. Empty when
	// rendering was skipped.
	OutputPath string `json:"output_path,omitempty"`
}

// Analyzer wires a detector, a suppressor and the render settings together.
type Analyzer struct {
	cache      *imaging.ImageCache
	detector   detection.Detector
	suppressor *suppress.Suppressor
	output     config.RenderConfig
	style      render.Style
	now        func() time.Time
	debug      bool
}

// New creates an Analyzer from configuration. The cache may be shared with
// other consumers; nil creates a private one.
func New(cfg *config.Config, cache *imaging.ImageCache) (*Analyzer, error) {
	detector, err := detection.NewDetector(cfg.Detection)
	if err != nil {
		return nil, err
	}
	suppressor, err := cfg.Suppression.Suppressor()
	if err != nil {
		return nil, err
	}
	style, err := render.StyleFromConfig(cfg.Render)
	if err != nil {
		return nil, err
	}
	if cache == nil {
		cache = imaging.NewImageCache()
	}

	return &Analyzer{
		cache:      cache,
		detector:   detector,
		suppressor: suppressor,
		output:     cfg.Render,
		style:      style,
		now:        time.Now,
		debug:      cfg.Debug(),
	}, nil
}

// Detect loads path, runs the detector and suppresses duplicates without
// rendering anything. The error wraps detection.ErrNoCircles when the
// detector finds nothing.
func (a *Analyzer) Detect(ctx context.Context, path string) (*Result, error) {
	img, err := a.cache.Load(path)
	if err != nil {
		return nil, err
	}

	candidates, err := a.detector.Detect(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	survivors, err := a.suppressor.Apply(candidates)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if a.debug {
		log.Printf("%s: %s detector found %d candidates, %d survive (threshold %.2f, %s, %s)",
			path, a.detector.Name(), len(candidates), len(survivors),
			a.suppressor.Threshold(), a.suppressor.Priority(), a.suppressor.Metric())
	}

	return &Result{
		Path:       path,
		Candidates: candidates,
		Survivors:  survivors,
		Count:      len(survivors),
	}, nil
}

// Analyze runs Detect, then draws the survivors, resizes the annotated image
// to the configured output size and saves it under a timestamped name.
//
// index distinguishes images processed within the same second.
func (a *Analyzer) Analyze(ctx context.Context, path string, index int) (*Result, error) {
	result, err := a.Detect(ctx, path)
	if err != nil {
		return nil, err
	}

	img, err := a.cache.Load(path)
	if err != nil {
		return nil, err
	}

	annotated := render.Annotate(img, result.Survivors, a.style)
	resized := render.Resize(annotated, a.output.Width, a.output.Height)

	out := render.OutputPath(a.output.OutputDir, a.output.Prefix, a.now(), index)
	if err := render.Save(resized, out); err != nil {
		return nil, err
	}
	result.OutputPath = out

	if a.debug {
		log.Printf("%s: annotated image saved to %s", path, out)
	}
	return result, nil
}

// Count returns the number of distinct circles in path, or -1 with
// detection.ErrNoCircles when nothing was detected.
func (a *Analyzer) Count(ctx context.Context, path string) (int, error) {
	result, err := a.Detect(ctx, path)
	if err != nil {
		return -1, err
	}
	return result.Count, nil
}

// Cache exposes the image cache so callers can evict processed images.
func (a *Analyzer) Cache() *imaging.ImageCache {
	return a.cache
}
