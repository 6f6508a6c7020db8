package menubarlib

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// LoadImage decodes the image at path. Formats Go cannot decode (HEIC being
// the usual suspect for system wallpapers) are converted to PNG with an
// external tool first.
func LoadImage(path AbsolutePath, c *Config) (image.Image, error) {
	img, err := decodeFile(path)
	if err == nil || (err != image.ErrFormat && err != bmp.ErrUnsupported) {
		return img, err
	}

	tdir, err := TempDir(c)
	if err != nil {
		return nil, err
	}

	// File might already exist from an earlier display
	convertedFile := filepath.Join(tdir, hashPath(path)+"-converted.png")
	if !fileExists(convertedFile) {
		if err = convertToPNG(path, convertedFile); err != nil {
			return nil, fmt.Errorf(
				"Unable to convert [%s] to a supported format: %w", path, err)
		}
	}

	return decodeFile(convertedFile)
}

func decodeFile(path AbsolutePath) (image.Image, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return nil, err
	}

	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("Input image [%s] is not a regular file", path)
	}

	img, _, err := image.Decode(in)
	return img, err
}

// fillSize scales src so that it covers target on both axes while keeping
// the aspect ratio. Dimensions are rounded down.
func fillSize(src, target image.Point) image.Point {
	ratio := math.Max(
		float64(target.X)/float64(src.X),
		float64(target.Y)/float64(src.Y))

	size := image.Pt(
		int(math.Floor(float64(src.X)*ratio)),
		int(math.Floor(float64(src.Y)*ratio)))

	// Float error can leave the covering side one pixel short
	if size.X < target.X {
		size.X = target.X
	}
	if size.Y < target.Y {
		size.Y = target.Y
	}
	return size
}

// CropToFill resizes src to cover target and crops the centre. Images that
// already have the target size are returned untouched.
func CropToFill(src image.Image, target image.Point) (image.Image, error) {
	b := src.Bounds()
	if b.Size() == target {
		return src, nil
	}

	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty wallpaper", ErrNoImage)
	}

	size := fillSize(b.Size(), target)
	resized, err := newSurface(size.X, size.Y)
	if err != nil {
		return nil, err
	}
	xdraw.CatmullRom.Scale(resized, resized.Bounds(), src, b, xdraw.Src, nil)

	if size == target {
		return resized, nil
	}

	x := (size.X - target.X) / 2
	y := (size.Y - target.Y) / 2
	return resized.SubImage(image.Rect(x, y, x+target.X, y+target.Y)), nil
}

// Composite produces a target sized copy of wallpaper with band drawn over
// its top rows.
func Composite(
	wallpaper image.Image, target image.Point, band image.Image) (
	*image.RGBA, error) {

	base, err := CropToFill(wallpaper, target)
	if err != nil {
		return nil, err
	}

	dst, err := newSurface(target.X, target.Y)
	if err != nil {
		return nil, err
	}

	// Flatten any transparency onto black, JPEG has no alpha channel
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black),
		image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), base, base.Bounds().Min, draw.Over)

	bb := band.Bounds()
	menuBar := image.Rect(0, 0, bb.Dx(), bb.Dy()).Intersect(dst.Bounds())
	draw.Draw(dst, menuBar, band, bb.Min, draw.Over)

	return dst, nil
}

// EncodeJPEG encodes img at the given quality, 100 being the best.
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Used to avoid collisions when creating temporary files
func hashPath(path AbsolutePath) string {
	h := sha256.Sum256([]byte(path))
	return hex.EncodeToString(h[:])
}

func fileExists(file AbsolutePath) bool {
	_, err := os.Stat(file)
	return err == nil
}
