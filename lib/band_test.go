package menubarlib

import (
	"errors"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSolidRender(t *testing.T) {
	// Alpha is ignored, bands are always opaque
	img, err := Solid{Color: color.RGBA{204, 204, 204, 0}}.Render(5, 3)
	if err != nil {
		t.Fatal(err)
	}

	if got := img.Bounds().Size(); got.X != 5 || got.Y != 3 {
		t.Fatalf("got size %v", got)
	}

	want := color.RGBA{204, 204, 204, 255}
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d, %d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestGradientRender(t *testing.T) {
	black := color.RGBA{0, 0, 0, 255}
	white := color.RGBA{255, 255, 255, 255}

	tests := []struct {
		name  string
		band  Gradient
		width int
		want  []uint8
	}{
		{"columns sampled at their centre", Gradient{black, white}, 3, []uint8{43, 128, 213}},
		{"single column", Gradient{black, white}, 1, []uint8{128}},
		{"reversed", Gradient{white, black}, 2, []uint8{191, 64}},
		{"equal stops", Gradient{white, white}, 4, []uint8{255, 255, 255, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := tt.band.Render(tt.width, 2)
			if err != nil {
				t.Fatal(err)
			}

			for y := 0; y < 2; y++ {
				var got []uint8
				for x := 0; x < tt.width; x++ {
					c := img.RGBAAt(x, y)
					if c.R != c.G || c.G != c.B || c.A != 0xff {
						t.Fatalf("pixel (%d, %d) is not opaque grey: %v", x, y, c)
					}
					got = append(got, c.R)
				}
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("row %d (-want +got):\n%s", y, diff)
				}
			}
		})
	}
}

func TestGradientEndpointsApproachStops(t *testing.T) {
	start := color.RGBA{255, 0, 0, 255}
	end := color.RGBA{0, 0, 255, 255}

	img, err := Gradient{start, end}.Render(1000, 1)
	if err != nil {
		t.Fatal(err)
	}

	if got := img.RGBAAt(0, 0); got.R != 255 || got.B != 0 {
		t.Errorf("left edge: got %v", got)
	}
	if got := img.RGBAAt(999, 0); got.R != 0 || got.B != 255 {
		t.Errorf("right edge: got %v", got)
	}
}

func TestRenderInvalidSize(t *testing.T) {
	bands := []Band{
		Solid{Color: color.RGBA{1, 2, 3, 255}},
		Gradient{color.RGBA{}, color.RGBA{255, 255, 255, 255}},
	}
	sizes := [][2]int{{0, 10}, {10, 0}, {-1, 10}, {10, -5}, {1 << 16, 10}}

	for _, b := range bands {
		for _, s := range sizes {
			img, err := b.Render(s[0], s[1])
			if !errors.Is(err, ErrNoImage) {
				t.Errorf("%s %dx%d: got %v, want ErrNoImage", b, s[0], s[1], err)
			}
			if img != nil {
				t.Errorf("%s %dx%d: got an image", b, s[0], s[1])
			}
		}
	}
}

func TestBandArgs(t *testing.T) {
	tests := []struct {
		band Band
		str  string
		args []string
	}{
		{
			Solid{Color: color.RGBA{0xcc, 0xcc, 0xcc, 0xff}},
			"#CCCCCC",
			[]string{"SolidColor", "#CCCCCC"},
		},
		{
			Gradient{color.RGBA{0xff, 0, 0, 0xff}, color.RGBA{0, 0, 0xff, 0xff}},
			"#FF0000 -> #0000FF",
			[]string{"Gradient", "#FF0000", "#0000FF"},
		},
	}

	for _, tt := range tests {
		if got := tt.band.String(); got != tt.str {
			t.Errorf("String: got %q, want %q", got, tt.str)
		}
		if diff := cmp.Diff(tt.args, tt.band.Args()); diff != "" {
			t.Errorf("Args (-want +got):\n%s", diff)
		}
	}
}
