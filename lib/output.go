package menubarlib

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/k1LoW/errors"
)

// Output persists generated wallpapers and hands them to the desktop.
// The working directory is assumed to have a single writer.
type Output struct {
	Dir     AbsolutePath
	Quality int

	logger *slog.Logger
	// Files produced by this run, kept when pruning
	written map[AbsolutePath]bool
}

// WorkingDirectory resolves where generated wallpapers live without
// creating it.
func WorkingDirectory(c *Config) (AbsolutePath, error) {
	if c.WorkingDirectory != "" {
		return filepath.Abs(c.WorkingDirectory)
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWorkingDirectory, err)
	}
	return filepath.Join(dir, appName, "wallpapers"), nil
}

func NewOutput(dir AbsolutePath, quality int, logger *slog.Logger) *Output {
	return &Output{
		Dir:     dir,
		Quality: quality,
		logger:  logger,
		written: map[AbsolutePath]bool{},
	}
}

// PersistAndApply encodes img, writes it to a fresh file in the working
// directory, sets it as the wallpaper of d and prunes files left over from
// previous runs.
func (o *Output) PersistAndApply(
	desk Desktop, d *Display, img image.Image) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()

	data, err := EncodeJPEG(img, o.Quality)
	if err != nil {
		return fmt.Errorf("Could not convert wallpaper to JPEG data: %w", err)
	}

	if err := os.MkdirAll(o.Dir, 0755); err != nil {
		return fmt.Errorf("%w [%s]: %v", ErrWorkingDirectory, o.Dir, err)
	}

	out := filepath.Join(
		o.Dir, fmt.Sprintf("wallpaper-screen-adjusted-%s.jpg", uuid.NewString()))
	if err := writeAtomic(out, data); err != nil {
		return err
	}
	o.written[out] = true
	o.logger.Debug("created new wallpaper", "display", d.Name, "file", out)

	if err := desk.SetWallpaper(d, out); err != nil {
		return fmt.Errorf("Failed to set wallpaper [%s]: %w", out, err)
	}
	o.logger.Info("wallpaper set", "display", d.Name)

	o.prune()
	return nil
}

func writeAtomic(out AbsolutePath, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(out), ".wip-*")
	if err != nil {
		return err
	}

	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(f.Name(), out)
	}
	if err != nil {
		_ = os.Remove(f.Name())
	}
	return err
}

// Best effort, errors are buried
func (o *Output) prune() {
	entries, err := os.ReadDir(o.Dir)
	if err != nil {
		return
	}

	var stale []AbsolutePath
	for _, e := range entries {
		p := filepath.Join(o.Dir, e.Name())
		if e.IsDir() || o.written[p] {
			continue
		}
		stale = append(stale, p)
	}

	if len(stale) == 0 {
		return
	}

	o.logger.Info("deleting old wallpaper files from previous runs",
		"count", len(stale))
	for _, p := range stale {
		_ = os.Remove(p)
	}
}
