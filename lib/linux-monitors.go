//go:build !windows && !darwin

package menubarlib

import (
	"errors"
	"image"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"syscall"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
)

type environment int

const (
	gnome environment = iota
	i3
	unknown
)

type session struct {
	display string
	env     environment
}

// X11 desktop. Panels reserve space through the EWMH work area, which plays
// the role of the macOS visible frame.
type x11Desktop struct {
	logger  *slog.Logger
	session *session
	// Number of displays seen by the last enumeration
	count int
}

var sysProcAttr = &syscall.SysProcAttr{}

func newDesktop(logger *slog.Logger) Desktop {
	return &x11Desktop{logger: logger}
}

// Assumes a display ID of the form ":[0-9]+"
// True if it's definitely a local X session
func testXSession(session string) bool {
	_, err := os.Stat("/tmp/.X11-unix/X" + strings.TrimLeft(session, ":"))
	return err == nil
}

var displayRE = regexp.MustCompile(`^:[0-9]+`)

// Trims individual screens out of an X11 DISPLAY variable
func trimDisplay(display string) string {
	trimmed := displayRE.FindString(display)
	if trimmed != "" {
		return trimmed
	}
	return display
}

func findSession() (*session, error) {
	d := os.Getenv("DISPLAY")
	if d == "" {
		// Most likely run from cron or ssh, assume the first local display
		d = ":0"
	}

	if !testXSession(trimDisplay(d)) {
		return nil, errors.New(
			"$DISPLAY refers to a non-X session. Wayland is not yet supported")
	}
	return &session{display: d}, nil
}

// GDK_SCALE is the closest thing X has to a backing scale factor
func gdkScale() float64 {
	s, err := strconv.Atoi(os.Getenv("GDK_SCALE"))
	if err != nil || s < 1 {
		return 1
	}
	return float64(s)
}

func (xd *x11Desktop) Displays() ([]*Display, error) {
	// Stop polluting stdout
	xgb.Logger.SetOutput(io.Discard)
	xgbutil.Logger.SetOutput(io.Discard)

	s, err := findSession()
	if err != nil {
		return nil, err
	}

	X, err := xgbutil.NewConnDisplay(s.display)
	if err != nil {
		return nil, err
	}
	defer X.Conn().Close()
	Xgb := X.Conn()

	wm, err := ewmh.GetEwmhWM(X)
	if err != nil {
		xd.logger.Debug("no EWMH window manager", "error", err)
	}

	wm = strings.ToLower(wm)
	if strings.Contains(wm, "gnome") || strings.Contains(wm, "mutter") {
		s.env = gnome
	} else if wm == "i3" {
		s.env = i3
	} else {
		// Feh probably works
		xd.logger.Debug("unknown window manager, assuming feh works", "wm", wm)
		s.env = unknown
	}
	xd.session = s

	if err = randr.Init(Xgb); err != nil {
		return nil, err
	}

	root := X.RootWin()
	rootHeight := int(X.Screen().HeightInPixels)

	resources, err := randr.GetScreenResources(Xgb, root).Reply()
	if err != nil {
		return nil, err
	}

	var primary randr.Output
	if p, err := randr.GetOutputPrimary(Xgb, root).Reply(); err == nil {
		primary = p.Output
	}

	workarea, hasWorkarea := xd.workarea(X)
	scale := gdkScale()

	displays := []*Display{}
	for _, output := range resources.Outputs {
		oi, err := randr.GetOutputInfo(Xgb, output, 0).Reply()
		if err != nil {
			return nil, err
		}
		if oi.Connection != randr.ConnectionConnected || oi.Crtc == 0 {
			continue
		}

		ci, err := randr.GetCrtcInfo(Xgb, oi.Crtc, 0).Reply()
		if err != nil {
			return nil, err
		}

		frame := image.Rect(
			int(ci.X), int(ci.Y),
			int(ci.X)+int(ci.Width), int(ci.Y)+int(ci.Height))

		visible := frame
		if hasWorkarea {
			visible = workarea.Intersect(frame)
		}

		name := string(oi.Name)
		displays = append(displays, &Display{
			ID:   name,
			Name: name,
			Frame: Rect{
				X:      float64(frame.Min.X) / scale,
				Y:      float64(rootHeight-frame.Max.Y) / scale,
				Width:  float64(frame.Dx()) / scale,
				Height: float64(frame.Dy()) / scale,
			},
			// X has a top-left origin, flip into the frame's bottom-left one
			Visible: Rect{
				X:      float64(visible.Min.X-frame.Min.X) / scale,
				Y:      float64(frame.Max.Y-visible.Max.Y) / scale,
				Width:  float64(visible.Dx()) / scale,
				Height: float64(visible.Dy()) / scale,
			},
			Scale:   scale,
			Primary: output == primary,
			handle:  name,
		})
	}

	xd.count = len(displays)
	return displays, nil
}

// The work area of the current desktop in root window coordinates
func (xd *x11Desktop) workarea(X *xgbutil.XUtil) (image.Rectangle, bool) {
	areas, err := ewmh.WorkareaGet(X)
	if err != nil || len(areas) == 0 {
		xd.logger.Debug("no EWMH work area, menu bar height will use fallbacks")
		return image.Rectangle{}, false
	}

	current, err := ewmh.CurrentDesktopGet(X)
	if err != nil || int(current) >= len(areas) {
		current = 0
	}

	a := areas[current]
	return image.Rect(a.X, a.Y, a.X+int(a.Width), a.Y+int(a.Height)), true
}

// ImageMagick 7 ships "magick", older versions only "convert"
func convertToPNG(inFile, outFile AbsolutePath) error {
	im := "convert"
	if _, err := exec.LookPath("magick"); err == nil {
		im = "magick"
	}

	cmd := exec.Command(im, inFile, "png:"+outFile)
	cmd.SysProcAttr = sysProcAttr
	return cmd.Run()
}
