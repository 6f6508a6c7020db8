//go:build !windows && !darwin

package menubarlib

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"regexp"
	"strings"
)

const dbusAddress = "DBUS_SESSION_BUS_ADDRESS"

func setDBUSAddress() error {
	dbus := os.Getenv(dbusAddress)
	if dbus == "" {
		// For now just assume we're dealing with per-user dbus sessions
		user, err := user.Current()
		if err != nil {
			return nil
		}
		uid := user.Uid
		if uid == "" {
			return errors.New("No $UID set")
		}
		return os.Setenv(dbusAddress, "unix:path=/run/user/"+uid+"/bus")
	}

	return nil
}

const gnomeBackground = "org.gnome.desktop.background"

func gsettings(args ...string) (string, error) {
	if err := setDBUSAddress(); err != nil {
		return "", err
	}

	cmd := exec.Command("gsettings", args...)
	cmd.SysProcAttr = sysProcAttr
	cmd.Stderr = os.Stderr
	out, err := cmd.Output()
	return strings.TrimSpace(string(out)), err
}

func (xd *x11Desktop) CurrentWallpaper(d *Display) (AbsolutePath, error) {
	if xd.session != nil && xd.session.env == gnome {
		uri, err := gsettings("get", gnomeBackground, "picture-uri")
		if err != nil {
			return "", err
		}
		return uriToPath(strings.Trim(uri, "'"))
	}

	return fehWallpaper()
}

func uriToPath(uri string) (AbsolutePath, error) {
	if !strings.HasPrefix(uri, "file://") {
		return "", fmt.Errorf("unsupported wallpaper URI [%s]", uri)
	}
	return url.PathUnescape(strings.TrimPrefix(uri, "file://"))
}

var fehArgRE = regexp.MustCompile(`'([^']+)'\s*$`)

// feh records the last command it ran in ~/.fehbg
func fehWallpaper() (AbsolutePath, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	b, err := os.ReadFile(filepath.Join(home, ".fehbg"))
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "feh") {
			continue
		}
		if m := fehArgRE.FindStringSubmatch(line); m != nil {
			return m[1], nil
		}
	}
	return "", errors.New("no wallpaper found in ~/.fehbg")
}

// Neither GNOME nor feh can be addressed per monitor here, the wallpaper of
// every display is replaced.
func (xd *x11Desktop) SetWallpaper(d *Display, wallpaper AbsolutePath) error {
	if xd.count > 1 {
		xd.logger.Warn("wallpaper is applied to every display on X11",
			"display", d.Name)
	}

	if xd.session != nil && xd.session.env == gnome {
		uri := "file://" + wallpaper
		if _, err := gsettings(
			"set", gnomeBackground, "picture-options", "zoom"); err != nil {
			return err
		}
		if _, err := gsettings("set", gnomeBackground, "picture-uri", uri); err != nil {
			return err
		}
		// Only present on GNOME 42 and later, failures are fine
		_, _ = gsettings("set", gnomeBackground, "picture-uri-dark", uri)
		return nil
	}

	cmd := exec.Command("feh", "--bg-fill", wallpaper)
	cmd.SysProcAttr = sysProcAttr
	return cmd.Run()
}

// No-op
func AttachParentConsole() {}
