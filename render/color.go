package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPalette tints slots when the configuration carries no colors.
var DefaultPalette = []color.RGBA{
	{0x2b, 0x4c, 0x7e, 0xff}, // night blue
	{0x5b, 0x8c, 0x5a, 0xff}, // lily green
	{0x1d, 0x5f, 0x8a, 0xff}, // wave blue
	{0xd9, 0xb3, 0x4a, 0xff}, // pearl gold
	{0xc8, 0x9b, 0x3c, 0xff}, // gilded
	{0xe0, 0x7a, 0x3f, 0xff}, // sunrise orange
}

// ParseHexColor parses #rgb or #rrggbb; the leading # is optional.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 3 && len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 0xff}, nil
}

// Hex formats c as #rrggbb.
func Hex(c color.RGBA) string {
	cf, _ := colorful.MakeColor(c)
	return cf.Hex()
}

// BlendHex mixes two #rrggbb colors in RGB; t=0 gives from, t=1 gives to.
// An unparsable input yields to.
func BlendHex(from, to string, t float64) string {
	a, errA := colorful.Hex(from)
	b, errB := colorful.Hex(to)
	if errA != nil || errB != nil {
		return to
	}
	return a.BlendRgb(b, t).Clamped().Hex()
}

// Palette resolves n slot colors from hex strings, falling back to
// DefaultPalette when hexes is empty.
func Palette(hexes []string, n int) ([]color.RGBA, error) {
	out := make([]color.RGBA, n)
	if len(hexes) == 0 {
		for i := range out {
			out[i] = DefaultPalette[i%len(DefaultPalette)]
		}
		return out, nil
	}
	if len(hexes) != n {
		return nil, fmt.Errorf("%d colors for %d slots", len(hexes), n)
	}
	for i, h := range hexes {
		c, err := ParseHexColor(h)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func scale(c color.RGBA, f float64) color.RGBA {
	clampByte := func(v float64) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return color.RGBA{
		R: clampByte(float64(c.R) * f),
		G: clampByte(float64(c.G) * f),
		B: clampByte(float64(c.B) * f),
		A: c.A,
	}
}

func withAlpha(c color.RGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha * 255)}
}
