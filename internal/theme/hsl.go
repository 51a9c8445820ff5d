package theme

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrMalformedHex is returned by ParseHex for input that is not #rgb,
// #rrggbb or #rrggbbaa.
var ErrMalformedHex = errors.New("malformed hex color")

// HSL is a color in hue (degrees), saturation and lightness (percent).
type HSL struct {
	H float64 `json:"h" yaml:"h"`
	S float64 `json:"s" yaml:"s"`
	L float64 `json:"l" yaml:"l"`
}

// String renders the CSS form, e.g. "hsl(204, 62.2%, 40%)".
func (c HSL) String() string {
	return fmt.Sprintf("hsl(%s, %s%%, %s%%)", formatNumber(c.H), formatNumber(c.S), formatNumber(c.L))
}

// Hex converts the color to #rrggbb.
func (c HSL) Hex() string {
	return colorful.Hsl(c.H, c.S/100, c.L/100).Clamped().Hex()
}

// HexToHSL converts a hex color to HSL. Input that ParseHex rejects is
// treated as black, so the result is always usable.
func HexToHSL(hex string) HSL {
	c, err := ParseHex(hex)
	if err != nil {
		return HSL{}
	}
	return c
}

// ParseHex converts #rgb, #rrggbb or #rrggbbaa to HSL. Alpha is
// discarded.
func ParseHex(hex string) (HSL, error) {
	r, g, b, err := parseRGB(hex)
	if err != nil {
		return HSL{}, err
	}
	return rgbToHSL(r, g, b), nil
}

func parseRGB(hex string) (r, g, b float64, err error) {
	digits, ok := strings.CutPrefix(strings.TrimSpace(hex), "#")
	if !ok {
		return 0, 0, 0, fmt.Errorf("%w: %q has no leading '#'", ErrMalformedHex, hex)
	}

	switch len(digits) {
	case 3:
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	case 6:
	case 8:
		digits = digits[:6]
	default:
		return 0, 0, 0, fmt.Errorf("%w: %q has %d digits", ErrMalformedHex, hex, len(digits))
	}

	v, perr := strconv.ParseUint(digits, 16, 32)
	if perr != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrMalformedHex, hex)
	}

	r = float64(v>>16&0xff) / 255
	g = float64(v>>8&0xff) / 255
	b = float64(v&0xff) / 255
	return r, g, b, nil
}

// rgbToHSL expects channels in [0,1]. Hue is rounded half up to whole
// degrees; saturation and lightness are rounded to one decimal.
func rgbToHSL(r, g, b float64) HSL {
	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	delta := maxC - minC

	var h float64
	switch {
	case delta == 0:
		h = 0
	case maxC == r:
		h = math.Mod((g-b)/delta, 6)
	case maxC == g:
		h = (b-r)/delta + 2
	default:
		h = (r-g)/delta + 4
	}
	h = math.Floor(h*60 + 0.5)
	if h < 0 {
		h += 360
	}
	if h >= 360 {
		h -= 360
	}

	l := (maxC + minC) / 2
	var s float64
	if delta != 0 {
		s = delta / (1 - math.Abs(2*l-1))
	}

	return HSL{H: h, S: round1(s * 100), L: round1(l * 100)}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(round1(v), 'f', -1, 64)
}
