//go:build darwin

package menubarlib

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// AppKit is reached through JavaScript for Automation so no cgo is needed.
// Screens are addressed by their index in NSScreen.screens, which is stable
// for the duration of a run.
const screensScript = `
ObjC.import('AppKit');
function rect(r) {
	return {x: r.origin.x, y: r.origin.y, width: r.size.width, height: r.size.height};
}
function run() {
	var screens = $.NSScreen.screens;
	var main = $.NSScreen.mainScreen;
	var out = [];
	for (var i = 0; i < screens.count; i++) {
		var s = screens.objectAtIndex(i);
		var insets = {top: 0, left: 0, bottom: 0, right: 0};
		try {
			var si = s.safeAreaInsets;
			insets = {top: si.top, left: si.left, bottom: si.bottom, right: si.right};
		} catch (e) {}
		var url = $.NSWorkspace.sharedWorkspace.desktopImageURLForScreen(s);
		out.push({
			index: i,
			name: ObjC.unwrap(s.localizedName),
			frame: rect(s.frame),
			visible: rect(s.visibleFrame),
			scale: s.backingScaleFactor,
			safeArea: insets,
			primary: !main.isNil() && main.isEqual(s),
			wallpaper: url.isNil() ? "" : ObjC.unwrap(url.path)
		});
	}
	return JSON.stringify(out);
}
`

const setWallpaperScript = `
ObjC.import('AppKit');
function run(argv) {
	var screen = $.NSScreen.screens.objectAtIndex(parseInt(argv[0], 10));
	var url = $.NSURL.fileURLWithPath(argv[1]);
	var err = Ref();
	var ok = $.NSWorkspace.sharedWorkspace.setDesktopImageURLForScreenOptionsError(
		url, screen, $({}), err);
	if (!ok) {
		throw new Error(ObjC.unwrap(err[0].localizedDescription));
	}
	return "ok";
}
`

type jxaRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type jxaScreen struct {
	Index     int     `json:"index"`
	Name      string  `json:"name"`
	Frame     jxaRect `json:"frame"`
	Visible   jxaRect `json:"visible"`
	Scale     float64 `json:"scale"`
	SafeArea  Insets  `json:"safeArea"`
	Primary   bool    `json:"primary"`
	Wallpaper string  `json:"wallpaper"`
}

type darwinDesktop struct {
	logger *slog.Logger
}

func newDesktop(logger *slog.Logger) Desktop {
	return &darwinDesktop{logger: logger}
}

func (dd *darwinDesktop) Displays() ([]*Display, error) {
	out, err := runJXA(screensScript)
	if err != nil {
		return nil, err
	}

	var screens []jxaScreen
	if err := json.Unmarshal([]byte(out), &screens); err != nil {
		return nil, fmt.Errorf("Unexpected screen data from osascript: %w", err)
	}

	displays := make([]*Display, 0, len(screens))
	for _, s := range screens {
		id := strconv.Itoa(s.Index)
		displays = append(displays, &Display{
			ID:   id,
			Name: s.Name,
			Frame: Rect{
				X: s.Frame.X, Y: s.Frame.Y,
				Width: s.Frame.Width, Height: s.Frame.Height},
			// AppKit reports the visible frame in global coordinates
			Visible: Rect{
				X: s.Visible.X - s.Frame.X, Y: s.Visible.Y - s.Frame.Y,
				Width: s.Visible.Width, Height: s.Visible.Height},
			Scale:     s.Scale,
			SafeArea:  s.SafeArea,
			Primary:   s.Primary,
			handle:    id,
			wallpaper: s.Wallpaper,
		})
	}

	return displays, nil
}

func (dd *darwinDesktop) CurrentWallpaper(d *Display) (AbsolutePath, error) {
	if d.wallpaper == "" {
		return "", fmt.Errorf("no wallpaper reported for [%s]", d.Name)
	}
	return d.wallpaper, nil
}

func (dd *darwinDesktop) SetWallpaper(d *Display, wallpaper AbsolutePath) error {
	_, err := runJXA(setWallpaperScript, d.handle, wallpaper)
	return err
}

func (dd *darwinDesktop) MenuBarAutoHide() (bool, error) {
	out, err := exec.Command(
		"defaults", "read", "NSGlobalDomain", "_HIHideMenuBar").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// The key does not exist until the setting is first changed
			return false, nil
		}
		return false, err
	}
	return strings.TrimSpace(string(out)) == "1", nil
}

func runJXA(script string, args ...string) (string, error) {
	cmd := exec.Command("osascript",
		append([]string{"-l", "JavaScript", "-e", script}, args...)...)

	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("osascript failed: %w: %s",
			err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(string(out)), nil
}

// sips ships with every macOS install and understands HEIC
func convertToPNG(inFile, outFile AbsolutePath) error {
	return exec.Command(
		"sips", "-s", "format", "png", inFile, "--out", outFile).Run()
}

// No-op
func AttachParentConsole() {}
