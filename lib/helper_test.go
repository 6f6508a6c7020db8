package menubarlib

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

type fakeDesktop struct {
	displays    []*Display
	displaysErr error
	current     map[string]AbsolutePath
	setErr      map[string]error
	autoHide    bool

	// display ID -> wallpaper applied
	applied map[string]AbsolutePath
}

func newFakeDesktop(displays ...*Display) *fakeDesktop {
	return &fakeDesktop{
		displays: displays,
		current:  map[string]AbsolutePath{},
		setErr:   map[string]error{},
		applied:  map[string]AbsolutePath{},
	}
}

func (f *fakeDesktop) Displays() ([]*Display, error) {
	return f.displays, f.displaysErr
}

func (f *fakeDesktop) CurrentWallpaper(d *Display) (AbsolutePath, error) {
	if p, ok := f.current[d.ID]; ok {
		return p, nil
	}
	return "", errors.New("no wallpaper configured")
}

func (f *fakeDesktop) SetWallpaper(d *Display, wallpaper AbsolutePath) error {
	if err := f.setErr[d.ID]; err != nil {
		return err
	}
	if _, err := os.Stat(wallpaper); err != nil {
		return fmt.Errorf("applied a file that does not exist: %w", err)
	}
	f.applied[d.ID] = wallpaper
	return nil
}

func (f *fakeDesktop) MenuBarAutoHide() (bool, error) {
	return f.autoHide, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// A display whose menu bar is menuBar points tall
func newDisplay(id string, width, height, menuBar, scale float64) *Display {
	return &Display{
		ID:      id,
		Name:    id,
		Frame:   Rect{Width: width, Height: height},
		Visible: Rect{Width: width, Height: height - menuBar},
		Scale:   scale,
	}
}

// Opaque image where every pixel is unique enough to catch misplaced rows
func patternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(x), G: uint8(y), B: uint8(x + y), A: 0xff})
		}
	}
	return img
}

func writePNG(t *testing.T, img image.Image) AbsolutePath {
	t.Helper()
	p := filepath.Join(t.TempDir(), "wallpaper.png")
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return p
}

func sameColor(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}
