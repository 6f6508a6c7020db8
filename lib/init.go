package menubarlib

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
)

type AbsolutePath = string

const appName = "menubar-color"

type Config struct {
	// Where generated wallpapers are written. Defaults to a directory under
	// the user's application support area.
	WorkingDirectory string
	// Where converted intermediate files go, defaults to the system temp dir
	TempDirectory string
	LogFile       string
	JPEGQuality   int
	Geometry      Geometry
}

func DefaultConfig() *Config {
	return &Config{
		JPEGQuality: 100,
		Geometry:    DefaultGeometry(),
	}
}

// DefaultConfigPath is <UserConfigDir>/menubar-color/config.toml
func DefaultConfigPath() (AbsolutePath, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "config.toml"), nil
}

// LoadConfig reads the TOML config at path on top of the defaults. An empty
// path means the default location, which is allowed to not exist.
func LoadConfig(path string, logger *slog.Logger) (*Config, error) {
	c := DefaultConfig()

	optional := path == ""
	if optional {
		p, err := DefaultConfigPath()
		if err != nil {
			logger.Debug("no user config directory, using defaults", "error", err)
			return c, c.validate()
		}
		path = p
	}

	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return c, c.validate()
		}
		return nil, fmt.Errorf("Error reading config [%s]: %w", path, err)
	}

	for _, k := range md.Undecoded() {
		logger.Warn("unknown config key", "key", k.String(), "file", path)
	}
	logger.Debug("loaded config", "file", path)

	return c, c.validate()
}

func (c *Config) validate() error {
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("JPEGQuality must be between 1 and 100, got %d",
			c.JPEGQuality)
	}

	g := c.Geometry
	if g.MinPoints <= 0 || g.MaxPoints < g.MinPoints {
		return fmt.Errorf("Invalid menu bar window [%g, %g]",
			g.MinPoints, g.MaxPoints)
	}

	if g.NotchFallbackPoints <= 0 || g.StandardFallbackPoints <= 0 {
		return fmt.Errorf("Fallback menu bar heights must be positive")
	}

	if c.WorkingDirectory != "" {
		fi, err := os.Stat(c.WorkingDirectory)
		if err == nil && !fi.IsDir() {
			return fmt.Errorf(
				"WorkingDirectory [%s] is a regular file", c.WorkingDirectory)
		}
	}

	if c.TempDirectory != "" {
		fi, err := os.Stat(c.TempDirectory)
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return fmt.Errorf("TempDirectory [%s] is not a directory", c.TempDirectory)
		}
	}

	return nil
}

var tempDir string
var tempErr error
var tempOnce sync.Once

func TempDir(c *Config) (string, error) {
	tempOnce.Do(func() {
		tempDir, tempErr = os.MkdirTemp(c.TempDirectory, appName)
	})

	return tempDir, tempErr
}

// Be sure to defer Cleanup() in main
func Cleanup() error {
	// tempDir is private and can't be set outside of this package
	if tempDir != "" {
		return os.RemoveAll(tempDir)
	}
	return nil
}
