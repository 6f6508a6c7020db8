package menubarlib

import (
	"context"
	"fmt"
	"image"
	"log/slog"
)

// Runner generates and applies menu bar wallpapers one display at a time.
type Runner struct {
	Desktop Desktop
	Output  *Output
	Config  *Config
	Logger  *slog.Logger
}

type Result struct {
	Processed int
	Failed    int
}

// Run applies band to the primary display, or to every display when all is
// set. wallpaper overrides the current wallpaper of each display when it is
// not empty. Only a missing display list is fatal, failures on a single
// display are logged and the next display is tried.
func (r *Runner) Run(band Band, wallpaper AbsolutePath, all bool) (Result, error) {
	r.Logger.Info("starting up")

	displays, err := r.Desktop.Displays()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNoDisplays, err)
	}

	displays = SelectDisplays(displays, all)
	if len(displays) == 0 {
		r.Logger.Error("could not detect any displays")
		return Result{}, ErrNoDisplays
	}

	r.Logger.Info("found displays to process", "count", len(displays))

	res := Result{}
	for i, d := range displays {
		// DisplayInfo repeats the fallback warnings, only dump it when asked
		if r.Logger.Enabled(context.Background(), slog.LevelDebug) {
			r.Logger.Debug(fmt.Sprintf("display %d\n%s",
				i+1, r.Config.Geometry.DisplayInfo(d, r.Logger)))
		}

		res.Processed++

		img, err := r.Render(d, band, wallpaper)
		if err != nil {
			r.Logger.Error("could not generate new wallpaper",
				"display", d.Name, "error", err)
			res.Failed++
			continue
		}

		if err := r.Output.PersistAndApply(r.Desktop, d, img); err != nil {
			r.Logger.Error("failed to set wallpaper",
				"display", d.Name, "error", err)
			res.Failed++
			continue
		}
	}

	r.Logger.Info("all done")
	return res, nil
}

// Render builds the composited wallpaper for d without touching the desktop.
func (r *Runner) Render(
	d *Display, band Band, wallpaper AbsolutePath) (*image.RGBA, error) {
	src, err := r.loadWallpaper(d, wallpaper)
	if err != nil {
		return nil, err
	}

	target := d.PixelSize()
	height := r.Config.Geometry.MenuBarHeight(d, r.Logger)

	r.Logger.Debug("generating menu bar image", "fill", band.String(),
		"width", target.X, "height", height)
	top, err := band.Render(target.X, height)
	if err != nil {
		return nil, fmt.Errorf("Failed to create menu bar image: %w", err)
	}

	img, err := Composite(src, target, top)
	if err != nil {
		return nil, fmt.Errorf("Cannot resize wallpaper to screen size: %w", err)
	}
	return img, nil
}

func (r *Runner) loadWallpaper(d *Display, wallpaper AbsolutePath) (image.Image, error) {
	if wallpaper == "" {
		current, err := r.Desktop.CurrentWallpaper(d)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNoWallpaper, err)
		}
		r.Logger.Debug("using current wallpaper", "file", current)
		wallpaper = current
	}

	img, err := LoadImage(wallpaper, r.Config)
	if err != nil {
		return nil, fmt.Errorf(
			"Cannot read [%s] as an image, check the path and that it is a valid image file: %w",
			wallpaper, err)
	}

	r.Logger.Debug("loaded wallpaper", "file", wallpaper,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, nil
}
