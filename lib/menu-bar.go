package menubarlib

import (
	"fmt"
	"image"
	"log/slog"
	"math"
)

// Rect is a rectangle in points with a bottom-left origin.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g, %g, %g, %g)", r.X, r.Y, r.Width, r.Height)
}

type Insets struct {
	Top    float64
	Left   float64
	Bottom float64
	Right  float64
}

// Display describes one attached screen as reported by the desktop.
type Display struct {
	ID   string
	Name string
	// Frame is the full screen area in points
	Frame Rect
	// Visible is the area not covered by the menu bar or dock, relative to
	// the bottom-left corner of Frame
	Visible Rect
	// Pixels per point
	Scale    float64
	SafeArea Insets
	Primary  bool

	// Platform specific handle used to apply wallpapers
	handle string
	// Currently configured wallpaper, when the platform reports it during
	// enumeration
	wallpaper AbsolutePath
}

// PixelSize is the native resolution of the display.
func (d *Display) PixelSize() image.Point {
	return image.Pt(
		int(d.Frame.Width*d.Scale),
		int(d.Frame.Height*d.Scale))
}

type Resolution struct {
	Width  int
	Height int
}

// Geometry holds the thresholds used to infer how tall the menu bar is.
// All values are in points.
type Geometry struct {
	MinPoints              float64
	MaxPoints              float64
	NotchInferencePoints   float64
	NotchFallbackPoints    float64
	StandardFallbackPoints float64
	NotchedResolutions     []Resolution
}

func DefaultGeometry() Geometry {
	return Geometry{
		MinPoints:              20,
		MaxPoints:              50,
		NotchInferencePoints:   28,
		NotchFallbackPoints:    32,
		StandardFallbackPoints: 24,
		NotchedResolutions: []Resolution{
			{3024, 1964}, // 14" MacBook Pro
			{3456, 2234}, // 16" MacBook Pro
			{3456, 2160}, // 16" MacBook Pro, scaled
		},
	}
}

// MenuBarPoints is the gap between the top of the visible frame and the top
// of the screen. May be zero or negative for malformed screen data.
func MenuBarPoints(d *Display) float64 {
	return d.Frame.Height - d.Visible.Height - d.Visible.Y
}

// MenuBarHeight returns the height of the menu bar in pixels. It never
// returns a value below one pixel.
func (g Geometry) MenuBarHeight(d *Display, logger *slog.Logger) int {
	points := MenuBarPoints(d)
	pixels := points * d.Scale

	logger.Debug("calculated menu bar",
		"display", d.Name, "points", points, "pixels", pixels)

	notch := g.HasNotch(d, logger)

	// NaN fails both comparisons and falls through
	if pixels >= g.MinPoints*d.Scale && pixels <= g.MaxPoints*d.Scale {
		logger.Debug("using calculated height", "pixels", pixels)
		return atLeastOne(pixels)
	}

	var fallback float64
	if notch && d.Primary {
		fallback = g.NotchFallbackPoints * d.Scale
		logger.Warn("menu bar calculation failed, using notch fallback",
			"display", d.Name, "pixels", fallback)
	} else {
		fallback = g.StandardFallbackPoints * d.Scale
		logger.Warn("menu bar calculation failed, using standard fallback",
			"display", d.Name, "calculated", pixels, "pixels", fallback)
	}

	return atLeastOne(fallback)
}

func atLeastOne(pixels float64) int {
	if math.IsNaN(pixels) || pixels < 1 {
		return 1
	}
	return int(pixels)
}

// HasNotch reports whether the display has a camera housing cutting into the
// menu bar. The checks are ordered cheapest first and stop at the first hit.
func (g Geometry) HasNotch(d *Display, logger *slog.Logger) bool {
	if d.SafeArea.Top > 0 {
		logger.Debug("notch detected from safe area",
			"display", d.Name, "top", d.SafeArea.Top)
		return true
	}

	px := d.PixelSize()
	for _, r := range g.NotchedResolutions {
		if px.X == r.Width && px.Y == r.Height {
			logger.Debug("notch detected from resolution",
				"display", d.Name, "width", px.X, "height", px.Y)
			return true
		}
	}

	if points := MenuBarPoints(d); points > g.NotchInferencePoints {
		logger.Debug("notch inferred from large menu bar",
			"display", d.Name, "points", points)
		return true
	}

	return false
}

// DisplayInfo is a human readable summary of the display and the menu bar
// height that would be used for it.
func (g Geometry) DisplayInfo(d *Display, logger *slog.Logger) string {
	px := d.PixelSize()
	return fmt.Sprintf(
		"Display: %s\n"+
			"Resolution: %dx%d (%gx)\n"+
			"Frame: %s\n"+
			"Visible Frame: %s\n"+
			"Menu Bar Height: %dpx\n"+
			"Has Notch: %t\n",
		d.Name,
		px.X, px.Y, d.Scale,
		d.Frame,
		d.Visible,
		g.MenuBarHeight(d, logger),
		g.HasNotch(d, logger))
}
