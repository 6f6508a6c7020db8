package menubarlib

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(p, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	c, err := LoadConfig("", discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(DefaultConfig(), c); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	work := t.TempDir()
	p := writeConfig(t, `
WorkingDirectory = "`+filepath.ToSlash(work)+`"
JPEGQuality = 85

[Geometry]
StandardFallbackPoints = 25
NotchedResolutions = [{ Width = 2560, Height = 1664 }]
`)

	c, err := LoadConfig(p, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	want := DefaultConfig()
	want.WorkingDirectory = filepath.ToSlash(work)
	want.JPEGQuality = 85
	want.Geometry.StandardFallbackPoints = 25
	want.Geometry.NotchedResolutions = []Resolution{{2560, 1664}}

	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLoadConfigWarnsUnknownKeys(t *testing.T) {
	buf := &bytes.Buffer{}
	p := writeConfig(t, "Colour = \"#FFFFFF\"\n")

	if _, err := LoadConfig(p, bufferLogger(buf)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Colour") {
		t.Errorf("expected a warning about the unknown key, got:\n%s", buf.String())
	}
}

func TestLoadConfigErrors(t *testing.T) {
	file := writeConfig(t, "")

	tests := []struct {
		name string
		path string
	}{
		{"missing explicit file", filepath.Join(t.TempDir(), "missing.toml")},
		{"malformed", writeConfig(t, "JPEGQuality = \n")},
		{"quality too high", writeConfig(t, "JPEGQuality = 101\n")},
		{"quality too low", writeConfig(t, "JPEGQuality = 0\n")},
		{"inverted window", writeConfig(t, "[Geometry]\nMinPoints = 60\n")},
		{"zero fallback", writeConfig(t, "[Geometry]\nNotchFallbackPoints = 0\n")},
		{"working directory is a file",
			writeConfig(t, "WorkingDirectory = \""+filepath.ToSlash(file)+"\"\n")},
		{"missing temp directory",
			writeConfig(t, "TempDirectory = \""+
				filepath.ToSlash(filepath.Join(t.TempDir(), "missing"))+"\"\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(tt.path, discardLogger()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
