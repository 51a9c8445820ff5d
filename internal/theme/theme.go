package theme

import (
	"fmt"
	"strings"
)

// DefaultSourceColor is the brand color the default theme is derived from.
const DefaultSourceColor = "#2c83bd"

// VarPrefix prefixes every CSS custom property emitted by Stylesheet.
const VarPrefix = "--md-sys-color-"

// Swatch is one role of a palette.
type Swatch struct {
	Role  string `json:"role" yaml:"role"`
	Color HSL    `json:"color" yaml:"color"`
}

// Palette is an ordered role table for one mode.
type Palette []Swatch

// Get returns the color of role.
func (p Palette) Get(role string) (HSL, bool) {
	for _, s := range p {
		if s.Role == role {
			return s.Color, true
		}
	}
	return HSL{}, false
}

// Hex returns the #rrggbb form of role, or an empty string when the
// role does not exist.
func (p Palette) Hex(role string) string {
	c, ok := p.Get(role)
	if !ok {
		return ""
	}
	return c.Hex()
}

// Theme holds both palettes derived from one source color.
type Theme struct {
	Source string  `json:"source" yaml:"source"`
	Base   HSL     `json:"base" yaml:"base"`
	Light  Palette `json:"light" yaml:"light"`
	Dark   Palette `json:"dark" yaml:"dark"`
}

// Derive computes the light and dark palettes for sourceHex. Malformed
// input derives from black, see HexToHSL.
func Derive(sourceHex string) Theme {
	base := HexToHSL(sourceHex)
	t := Theme{
		Source: sourceHex,
		Base:   base,
		Light:  make(Palette, 0, len(Roles)),
		Dark:   make(Palette, 0, len(Roles)),
	}
	for _, r := range Roles {
		t.Light = append(t.Light, Swatch{Role: r.Name, Color: base.tone(r.Light)})
		t.Dark = append(t.Dark, Swatch{Role: r.Name, Color: base.tone(r.Dark)})
	}
	return t
}

// Palette returns the palette active in mode.
func (t Theme) Palette(m Mode) Palette {
	if m == Dark {
		return t.Dark
	}
	return t.Light
}

// tone keeps the hue, offsets the saturation (never below zero) and
// replaces the lightness.
func (c HSL) tone(t Tone) HSL {
	s := c.S + t.SatDelta
	if s < 0 {
		s = 0
	}
	return HSL{H: c.H, S: round1(s), L: t.Lightness}
}

// Stylesheet renders the theme as CSS. Light roles apply on :root and
// dark roles override them when the body carries data-theme="dark".
func Stylesheet(t Theme) string {
	var b strings.Builder
	writeBlock(&b, ":root", t.Light)
	b.WriteString("\n")
	writeBlock(&b, `body[data-theme="dark"]`, t.Dark)
	return b.String()
}

func writeBlock(b *strings.Builder, selector string, p Palette) {
	fmt.Fprintf(b, "%s {\n", selector)
	for _, s := range p {
		fmt.Fprintf(b, "  %s%s: %s;\n", VarPrefix, s.Role, s.Color)
	}
	b.WriteString("}\n")
}
