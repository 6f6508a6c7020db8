package menubarlib

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func TestFillSize(t *testing.T) {
	tests := []struct {
		src, target, want image.Point
	}{
		{image.Pt(4000, 2000), image.Pt(1920, 1080), image.Pt(2160, 1080)},
		{image.Pt(1920, 1080), image.Pt(3840, 2160), image.Pt(3840, 2160)},
		{image.Pt(1000, 1000), image.Pt(1920, 1080), image.Pt(1920, 1920)},
		{image.Pt(1, 3), image.Pt(3, 3), image.Pt(3, 9)},
		{image.Pt(3000, 2000), image.Pt(3024, 1964), image.Pt(3024, 2016)},
	}

	for _, tt := range tests {
		got := fillSize(tt.src, tt.target)
		if got != tt.want {
			t.Errorf("fillSize(%v, %v): got %v, want %v",
				tt.src, tt.target, got, tt.want)
		}
		if got.X < tt.target.X || got.Y < tt.target.Y {
			t.Errorf("fillSize(%v, %v) = %v does not cover the target",
				tt.src, tt.target, got)
		}
	}
}

func TestCropToFillIdentity(t *testing.T) {
	src := patternImage(16, 9)

	got, err := CropToFill(src, image.Pt(16, 9))
	if err != nil {
		t.Fatal(err)
	}
	if got != image.Image(src) {
		t.Error("an image with the target size should be returned untouched")
	}
}

func TestCropToFillKeepsCentre(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	green := color.RGBA{0, 255, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}

	src := image.NewRGBA(image.Rect(0, 0, 400, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 400; x++ {
			switch {
			case x < 150:
				src.SetRGBA(x, y, red)
			case x < 250:
				src.SetRGBA(x, y, green)
			default:
				src.SetRGBA(x, y, blue)
			}
		}
	}

	got, err := CropToFill(src, image.Pt(100, 100))
	if err != nil {
		t.Fatal(err)
	}

	if size := got.Bounds().Size(); size != image.Pt(100, 100) {
		t.Fatalf("got size %v", size)
	}

	b := got.Bounds()
	for y := b.Min.Y + 2; y < b.Max.Y-2; y++ {
		for x := b.Min.X + 2; x < b.Max.X-2; x++ {
			r, g, bl, _ := got.At(x, y).RGBA()
			if r>>8 > 8 || g>>8 < 247 || bl>>8 > 8 {
				t.Fatalf("pixel (%d, %d) is outside the centre stripe: %v",
					x, y, got.At(x, y))
			}
		}
	}
}

func TestCropToFillEmpty(t *testing.T) {
	_, err := CropToFill(image.NewRGBA(image.Rect(0, 0, 0, 0)), image.Pt(10, 10))
	if !errors.Is(err, ErrNoImage) {
		t.Errorf("got %v, want ErrNoImage", err)
	}
}

func TestComposite(t *testing.T) {
	wallpaper := patternImage(8, 6)
	band, err := Solid{Color: color.RGBA{204, 204, 204, 255}}.Render(8, 2)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Composite(wallpaper, image.Pt(8, 6), band)
	if err != nil {
		t.Fatal(err)
	}

	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			want := wallpaper.RGBAAt(x, y)
			if y < 2 {
				want = color.RGBA{204, 204, 204, 255}
			}
			if c := got.RGBAAt(x, y); c != want {
				t.Fatalf("pixel (%d, %d): got %v, want %v", x, y, c, want)
			}
		}
	}
}

func TestCompositeClipsBand(t *testing.T) {
	band, err := Solid{Color: color.RGBA{255, 255, 255, 255}}.Render(20, 10)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Composite(patternImage(8, 6), image.Pt(8, 6), band)
	if err != nil {
		t.Fatal(err)
	}

	if size := got.Bounds().Size(); size != image.Pt(8, 6) {
		t.Fatalf("got size %v", size)
	}
	if c := got.RGBAAt(7, 5); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("band taller than the screen should cover it, got %v", c)
	}
}

func TestCompositeFlattensTransparency(t *testing.T) {
	// Fully transparent
	wallpaper := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	band, err := Solid{Color: color.RGBA{255, 0, 0, 255}}.Render(4, 1)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Composite(wallpaper, image.Pt(4, 4), band)
	if err != nil {
		t.Fatal(err)
	}

	if c := got.RGBAAt(0, 0); c != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("band: got %v", c)
	}
	if c := got.RGBAAt(2, 3); c != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("transparent pixels should be black, got %v", c)
	}
}

func TestLoadImage(t *testing.T) {
	p := writePNG(t, patternImage(30, 20))

	img, err := LoadImage(p, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if size := img.Bounds().Size(); size != image.Pt(30, 20) {
		t.Errorf("got size %v", size)
	}
	if !sameColor(img.At(5, 7), color.RGBA{5, 7, 12, 255}) {
		t.Errorf("got %v", img.At(5, 7))
	}
}

func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadImage(dir+"/missing.png", DefaultConfig()); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := LoadImage(dir, DefaultConfig()); err == nil {
		t.Error("expected an error for a directory")
	}
}

func TestEncodeJPEG(t *testing.T) {
	data, err := EncodeJPEG(patternImage(64, 32), 100)
	if err != nil {
		t.Fatal(err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if size := img.Bounds().Size(); size != image.Pt(64, 32) {
		t.Errorf("got size %v", size)
	}
}
