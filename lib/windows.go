//go:build windows

package menubarlib

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows/registry"
)

type rect struct {
	left   int32
	top    int32
	right  int32
	bottom int32
}

type monitorInfo struct {
	cbSize    uint32
	rcMonitor rect
	rcWork    rect
	dwFlags   uint32
}

// DesktopWallpaper does not extend IDispatch so this needs to be done manually
type IDesktopWallpaperVtbl struct {
	QueryInterface            uintptr
	AddRef                    uintptr
	Release                   uintptr
	SetWallpaper              uintptr
	GetWallpaper              uintptr
	GetMonitorDevicePathAt    uintptr
	GetMonitorDevicePathCount uintptr
	GetMonitorRECT            uintptr
	SetBackgroundColor        uintptr
	GetBackgroundColor        uintptr
	SetPosition               uintptr
	GetPosition               uintptr
	SetSlideshow              uintptr
	GetSlideshow              uintptr
	SetSlideshowOptions       uintptr
	GetSlideshowOptions       uintptr
	AdvanceSlideshow          uintptr
	GetStatus                 uintptr
	Enable                    uintptr
}

// Pulled from headers
const CLSID = "{C2CF3110-460E-4fc1-B9D0-8A1C0C9CC4BD}"
const IID = "{B92B56A9-8B55-4E14-9A89-0199BBB6F93B}"
const DWPOS_FILL = uintptr(4)

// Monitor is counted but isn't attached to the computer
const S_FALSE = uintptr(2147500037)

const MONITOR_DEFAULTTONEAREST = uintptr(2)
const MONITORINFOF_PRIMARY = uint32(1)

var sysProcAttr = &syscall.SysProcAttr{HideWindow: true}

var modole32 = syscall.NewLazyDLL("ole32.dll")
var coTaskMemFree = modole32.NewProc("CoTaskMemFree")

var moduser32 = syscall.NewLazyDLL("user32.dll")
var monitorFromRect = moduser32.NewProc("MonitorFromRect")
var getMonitorInfo = moduser32.NewProc("GetMonitorInfoW")

// Windows has no menu bar. The taskbar only shows up in the work area when
// it is docked at the top, otherwise the standard fallback applies.
type windowsDesktop struct {
	logger *slog.Logger
}

func newDesktop(logger *slog.Logger) Desktop {
	return &windowsDesktop{logger: logger}
}

// Runs f with an initialized IDesktopWallpaper
func withDesktopWallpaper(f func(
	desktop *ole.IUnknown, vtable *IDesktopWallpaperVtbl) error) error {
	err := ole.CoInitialize(0)
	if err != nil {
		return err
	}
	defer ole.CoUninitialize()

	desktop, err := ole.CreateInstance(
		ole.NewGUID(CLSID),
		ole.NewGUID(IID))
	if err != nil {
		return err
	}
	defer desktop.Release()

	vtable := (*IDesktopWallpaperVtbl)(unsafe.Pointer(desktop.RawVTable))
	return f(desktop, vtable)
}

// Copies a string allocated by COM and frees the original
func takeCoTaskString(p *[1 << 30]uint16) (string, error) {
	// We don't really need to convert to and from []uint16 but this makes
	// debugging easier and allows us to immediately free memory allocated
	// outside of Go's control
	s := syscall.UTF16ToString(p[:])

	_, _, errno := syscall.Syscall(
		coTaskMemFree.Addr(),
		1,
		uintptr(unsafe.Pointer(p)),
		0,
		0)
	if errno != 0 {
		return "", fmt.Errorf("Unexpected value from CoTaskMemFree %v", errno)
	}
	return s, nil
}

func (wd *windowsDesktop) Displays() ([]*Display, error) {
	var displays []*Display

	err := withDesktopWallpaper(func(
		desktop *ole.IUnknown, vtable *IDesktopWallpaperVtbl) error {
		var count uint32

		hr, _, err := syscall.Syscall(
			vtable.GetMonitorDevicePathCount,
			2,
			uintptr(unsafe.Pointer(desktop)),
			uintptr(unsafe.Pointer(&count)),
			0)
		if hr != 0 {
			return fmt.Errorf(
				"Unexpected value from GetMonitorDevicePathCount %d %v", hr, err)
		}

		for i := uint32(0); i < count; i++ {
			var pathOut *[1 << 30]uint16

			hr, _, err = syscall.Syscall(
				vtable.GetMonitorDevicePathAt,
				3,
				uintptr(unsafe.Pointer(desktop)),
				uintptr(i),
				uintptr(unsafe.Pointer(&pathOut)))
			if hr != 0 {
				return fmt.Errorf(
					"Unexpected value from GetMonitorDevicePathAt %d %v", hr, err)
			}

			m := rect{}
			rectHR, _, _ := syscall.Syscall(
				vtable.GetMonitorRECT,
				3,
				uintptr(unsafe.Pointer(desktop)),
				uintptr(unsafe.Pointer(pathOut)),
				uintptr(unsafe.Pointer(&m)))
			if rectHR != 0 && rectHR != S_FALSE {
				return fmt.Errorf("Unexpected value from GetMonitorRECT %d", rectHR)
			}

			path, err := takeCoTaskString(pathOut)
			if err != nil {
				return err
			}

			if rectHR == S_FALSE {
				continue
			}

			displays = append(displays, wd.display(path, i, m))
		}
		return nil
	})

	return displays, err
}

func (wd *windowsDesktop) display(path string, i uint32, m rect) *Display {
	mi := monitorInfo{cbSize: uint32(unsafe.Sizeof(monitorInfo{}))}
	work := m

	hmon, _, _ := monitorFromRect.Call(
		uintptr(unsafe.Pointer(&m)), MONITOR_DEFAULTTONEAREST)
	if hmon != 0 {
		ret, _, _ := getMonitorInfo.Call(hmon, uintptr(unsafe.Pointer(&mi)))
		if ret != 0 {
			work = mi.rcWork
		} else {
			wd.logger.Debug("GetMonitorInfoW failed", "monitor", path)
		}
	}

	// Pixels and points are the same thing here
	return &Display{
		ID:   path,
		Name: fmt.Sprintf("Monitor %d", i+1),
		Frame: Rect{
			X:      float64(m.left),
			Y:      0,
			Width:  float64(m.right - m.left),
			Height: float64(m.bottom - m.top),
		},
		Visible: Rect{
			X:      float64(work.left - m.left),
			Y:      float64(m.bottom - work.bottom),
			Width:  float64(work.right - work.left),
			Height: float64(work.bottom - work.top),
		},
		Scale:   1,
		Primary: mi.dwFlags&MONITORINFOF_PRIMARY != 0,
		handle:  path,
	}
}

func (wd *windowsDesktop) CurrentWallpaper(d *Display) (AbsolutePath, error) {
	var wallpaper string

	err := withDesktopWallpaper(func(
		desktop *ole.IUnknown, vtable *IDesktopWallpaperVtbl) error {
		var out *[1 << 30]uint16

		hr, _, _ := syscall.Syscall(
			vtable.GetWallpaper,
			3,
			uintptr(unsafe.Pointer(desktop)),
			uintptr(unsafe.Pointer(syscall.StringToUTF16Ptr(d.handle))),
			uintptr(unsafe.Pointer(&out)))
		if hr != 0 {
			return fmt.Errorf("Unexpected value from GetWallpaper %d", hr)
		}

		var err error
		wallpaper, err = takeCoTaskString(out)
		return err
	})
	if err != nil {
		return "", err
	}

	if wallpaper == "" {
		return "", fmt.Errorf("no wallpaper set for [%s]", d.Name)
	}
	return wallpaper, nil
}

func (wd *windowsDesktop) SetWallpaper(d *Display, wallpaper AbsolutePath) error {
	if err := setRegistryKeys(); err != nil {
		return err
	}

	return withDesktopWallpaper(func(
		desktop *ole.IUnknown, vtable *IDesktopWallpaperVtbl) error {
		hr, _, _ := syscall.Syscall(
			vtable.SetPosition,
			2,
			uintptr(unsafe.Pointer(desktop)),
			DWPOS_FILL,
			0)
		if hr != 0 {
			return fmt.Errorf("Unexpected value from SetPosition %d", hr)
		}

		hr, _, _ = syscall.Syscall(
			vtable.SetWallpaper,
			3,
			uintptr(unsafe.Pointer(desktop)),
			uintptr(unsafe.Pointer(syscall.StringToUTF16Ptr(d.handle))),
			uintptr(unsafe.Pointer(syscall.StringToUTF16Ptr(wallpaper))))
		if hr != 0 {
			return fmt.Errorf("Unexpected value from SetWallpaper %d", hr)
		}
		return nil
	})
}

// Windows recompresses JPEG wallpapers at 85% by default
func setRegistryKeys() error {
	k, err := registry.OpenKey(registry.CURRENT_USER, `Control Panel\Desktop`, registry.SET_VALUE)
	if err != nil {
		return err
	}
	defer k.Close()

	return k.SetDWordValue("JPEGImportQuality", 100)
}

func convertToPNG(inFile, outFile AbsolutePath) error {
	cmd := exec.Command("magick", inFile, "png:"+outFile)
	cmd.SysProcAttr = sysProcAttr
	return cmd.Run()
}

const ATTACH_PARENT_PROCESS = uintptr(^uint32(0)) // (DWORD)-1

var modkernel32 = syscall.NewLazyDLL("kernel32.dll")
var procAttachConsole = modkernel32.NewProc("AttachConsole")

// Attempts to attach to the parent console if one exists so we can get stdout
// Note that it's impossible to properly redirect stdin
// See https://stackoverflow.com/questions/23743217/
func AttachParentConsole() {
	r, _, _ :=
		syscall.Syscall(procAttachConsole.Addr(), 1, ATTACH_PARENT_PROCESS, 0, 0)

	if r == 0 {
		return
	}

	hout, err := syscall.GetStdHandle(syscall.STD_OUTPUT_HANDLE)
	if err != nil {
		return
	}
	herr, err := syscall.GetStdHandle(syscall.STD_ERROR_HANDLE)
	if err != nil {
		return
	}

	os.Stdout = os.NewFile(uintptr(hout), "/dev/stdout")
	os.Stderr = os.NewFile(uintptr(herr), "/dev/stderr")
}
