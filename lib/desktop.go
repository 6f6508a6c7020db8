package menubarlib

import (
	"errors"
	"log/slog"
)

var ErrNoDisplays = errors.New("Could not detect any displays")

var ErrWorkingDirectory = errors.New("Cannot access the working directory")

var ErrNoWallpaper = errors.New(
	"Cannot read the current wallpaper, try providing a specific wallpaper instead")

// Desktop is the host windowing system. NewDesktop returns the
// implementation for the current platform.
type Desktop interface {
	// Displays lists attached displays in enumeration order
	Displays() ([]*Display, error)
	CurrentWallpaper(d *Display) (AbsolutePath, error)
	SetWallpaper(d *Display, wallpaper AbsolutePath) error
}

// Implemented by desktops that can tell whether the menu bar hides itself
type autoHider interface {
	MenuBarAutoHide() (bool, error)
}

func NewDesktop(logger *slog.Logger) Desktop {
	return newDesktop(logger)
}

// SelectDisplays returns every display when all is set, otherwise only the
// primary one. The first display stands in for the primary when none is
// flagged.
func SelectDisplays(displays []*Display, all bool) []*Display {
	if all || len(displays) == 0 {
		return displays
	}

	for _, d := range displays {
		if d.Primary {
			return []*Display{d}
		}
	}
	return displays[:1]
}
