package menubarlib

import (
	"fmt"
	"io"
	"log/slog"
)

// Diagnostic writes a report describing every display and how its menu bar
// height was derived. Nothing is modified.
func Diagnostic(w io.Writer, desk Desktop, g Geometry, logger *slog.Logger) error {
	displays, err := desk.Displays()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "=== Display Diagnostic ===\n\n")
	fmt.Fprintf(w, "Found %d display(s)\n\n", len(displays))

	for i, d := range displays {
		points := MenuBarPoints(d)

		fmt.Fprintf(w, "--- Display %d ---\n", i+1)
		fmt.Fprint(w, g.DisplayInfo(d, logger))
		fmt.Fprintf(w, "Is Main Display: %t\n", d.Primary)
		fmt.Fprintf(w, "Safe Area Insets: top=%g, bottom=%g, left=%g, right=%g\n",
			d.SafeArea.Top, d.SafeArea.Bottom, d.SafeArea.Left, d.SafeArea.Right)
		fmt.Fprintf(w, "Menu Bar Analysis:\n")
		fmt.Fprintf(w, "  - Points: %gpt\n", points)
		fmt.Fprintf(w, "  - Pixels: %gpx\n", points*d.Scale)
		fmt.Fprintf(w, "  - Backing Scale: %gx\n\n", d.Scale)
	}

	if ah, ok := desk.(autoHider); ok {
		hidden, err := ah.MenuBarAutoHide()
		if err != nil {
			logger.Debug("could not read menu bar auto-hide setting", "error", err)
		} else if hidden {
			logger.Warn("'Automatically hide and show the menu bar' is ENABLED")
			logger.Warn("this may cause incorrect menu bar size detection, " +
				"disable it in System Settings > Control Center")
		}
	}

	fmt.Fprintf(w, "=== Recommendations ===\n")
	fmt.Fprintf(w, "- Menu bar auto-hide should be DISABLED\n")
	fmt.Fprintf(w, "- Expected menu bar heights:\n")
	fmt.Fprintf(w, "  - Standard displays: %gpt (%gpx @2x, %gpx @3x)\n",
		g.StandardFallbackPoints,
		g.StandardFallbackPoints*2, g.StandardFallbackPoints*3)
	fmt.Fprintf(w, "  - Notched MacBook Pro: %gpt (%gpx @2x)\n",
		g.NotchFallbackPoints, g.NotchFallbackPoints*2)
	fmt.Fprintf(w, "  - External displays: %gpt (varies by scale)\n",
		g.StandardFallbackPoints)

	return nil
}
