// Package render draws surviving circles onto a photograph and persists the
// annotated result.
package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/basicfont"

	"github.com/ironsheep/circle-counter/internal/config"
	"github.com/ironsheep/circle-counter/internal/suppress"
)

// TimestampLayout is the time format embedded in output file names.
const TimestampLayout = "20060102-150405"

// Style controls how circles are drawn.
type Style struct {
	CircleColor  color.Color
	CenterColor  color.Color
	StrokeWidth  float64 // outline width in pixels
	CenterRadius float64 // radius of the center marker
	CenterWidth  float64 // stroke width of the center marker
	Labels       bool    // draw the survivor index next to each circle
}

// DefaultStyle draws green outlines with red centers.
func DefaultStyle() Style {
	return Style{
		CircleColor:  color.RGBA{0, 255, 0, 255},
		CenterColor:  color.RGBA{255, 0, 0, 255},
		StrokeWidth:  2,
		CenterRadius: 2,
		CenterWidth:  3,
	}
}

// StyleFromConfig parses hex colors from the render configuration.
func StyleFromConfig(cfg config.RenderConfig) (Style, error) {
	style := DefaultStyle()

	if cfg.CircleColor != "" {
		c, err := colorful.Hex(cfg.CircleColor)
		if err != nil {
			return style, fmt.Errorf("invalid circle_color %q: %w", cfg.CircleColor, err)
		}
		style.CircleColor = c
	}
	if cfg.CenterColor != "" {
		c, err := colorful.Hex(cfg.CenterColor)
		if err != nil {
			return style, fmt.Errorf("invalid center_color %q: %w", cfg.CenterColor, err)
		}
		style.CenterColor = c
	}
	if cfg.StrokeWidth > 0 {
		style.StrokeWidth = cfg.StrokeWidth
	}
	style.Labels = cfg.Labels
	return style, nil
}

// Annotate returns a copy of img with every circle outlined and its center
// marked. Coordinates are truncated to whole pixels before drawing. img is
// not modified.
func Annotate(img image.Image, circles []suppress.Circle, style Style) image.Image {
	offset := img.Bounds().Min
	dc := gg.NewContextForImage(imaging.Clone(img))

	if style.Labels {
		dc.SetFontFace(basicfont.Face7x13)
	}

	for i, c := range circles {
		center, radius := c.Pixel()
		x := float64(center.X - offset.X)
		y := float64(center.Y - offset.Y)

		dc.SetColor(style.CircleColor)
		dc.SetLineWidth(style.StrokeWidth)
		dc.DrawCircle(x, y, float64(radius))
		dc.Stroke()

		dc.SetColor(style.CenterColor)
		dc.SetLineWidth(style.CenterWidth)
		dc.DrawCircle(x, y, style.CenterRadius)
		dc.Stroke()

		if style.Labels {
			dc.SetColor(style.CircleColor)
			dc.DrawStringAnchored(strconv.Itoa(i+1), x+float64(radius), y-float64(radius), 0, 0)
		}
	}

	return dc.Image()
}

// Resize scales img to exactly width × height using area averaging.
func Resize(img image.Image, width, height int) *image.NRGBA {
	return imaging.Resize(img, width, height, imaging.Box)
}

// OutputPath builds a timestamp-derived file name:
//
//	dir/prefix_20060102-150405_<index>.png
//
// The time and index are supplied by the caller.
func OutputPath(dir, prefix string, now time.Time, index int) string {
	name := fmt.Sprintf("%s_%s_%d.png", prefix, now.Format(TimestampLayout), index)
	return filepath.Join(dir, name)
}

// Save writes img to path, creating the parent directory if needed. The
// format is chosen from the file extension.
func Save(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save annotated image: %w", err)
	}
	return nil
}
