package menubarlib

import (
	"encoding/hex"
	"errors"
	"fmt"
	"image/color"
)

var ErrInvalidColor = errors.New(
	"invalid HEX color, make sure it includes the '#' symbol, e.g: #FF0000")

// ParseHexColor parses an opaque colour of the form #RRGGBB.
func ParseHexColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("%w: [%s]", ErrInvalidColor, s)
	}

	b, err := hex.DecodeString(s[1:])
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: [%s]", ErrInvalidColor, s)
	}

	return color.RGBA{R: b[0], G: b[1], B: b[2], A: 0xff}, nil
}

func HexString(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
