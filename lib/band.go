package menubarlib

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
)

// ErrNoImage is returned when a drawing surface cannot be produced.
// Callers skip the display rather than aborting the run.
var ErrNoImage = errors.New("no image produced")

// Larger than any display sold today, small enough that a surface always
// fits in memory
const maxSurfaceSide = 1 << 15

// Band renders the strip drawn over the menu bar.
// Solid and Gradient are the only implementations.
type Band interface {
	Render(width, height int) (*image.RGBA, error)
	String() string
	// Args are the command line arguments that reproduce this band
	Args() []string
}

type Solid struct {
	Color color.RGBA
}

type Gradient struct {
	Start color.RGBA
	End   color.RGBA
}

func newSurface(width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 ||
		width > maxSurfaceSide || height > maxSurfaceSide {
		return nil, fmt.Errorf("%w: cannot allocate %dx%d surface",
			ErrNoImage, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

func opaque(c color.RGBA) color.RGBA {
	c.A = 0xff
	return c
}

func (s Solid) Render(width, height int) (*image.RGBA, error) {
	img, err := newSurface(width, height)
	if err != nil {
		return nil, err
	}

	draw.Draw(img, img.Bounds(), image.NewUniform(opaque(s.Color)),
		image.Point{}, draw.Src)
	return img, nil
}

func (s Solid) String() string {
	return HexString(s.Color)
}

func (s Solid) Args() []string {
	return []string{"SolidColor", HexString(s.Color)}
}

// Render draws a left to right linear gradient with stops at 0 and 1.
// Each column is sampled at its centre.
func (g Gradient) Render(width, height int) (*image.RGBA, error) {
	img, err := newSurface(width, height)
	if err != nil {
		return nil, err
	}

	row := img.Pix[:width*4]
	for x := 0; x < width; x++ {
		t := (float64(x) + 0.5) / float64(width)
		row[x*4] = lerp(g.Start.R, g.End.R, t)
		row[x*4+1] = lerp(g.Start.G, g.End.G, t)
		row[x*4+2] = lerp(g.Start.B, g.End.B, t)
		row[x*4+3] = 0xff
	}

	for y := 1; y < height; y++ {
		copy(img.Pix[y*img.Stride:], row)
	}
	return img, nil
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func (g Gradient) String() string {
	return HexString(g.Start) + " -> " + HexString(g.End)
}

func (g Gradient) Args() []string {
	return []string{"Gradient", HexString(g.Start), HexString(g.End)}
}
