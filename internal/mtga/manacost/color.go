// Package manacost parses Magic mana cost notation such as "{2}{W}{W}" or "{W/U}"
// into typed symbols.
package manacost

import (
	"fmt"
	"strings"
)

// Color is one of the five Magic colors or colorless.
type Color int

// The declaration order is the W, U, B, R, G, C order used for tie-breaks and display.
const (
	White Color = iota
	Blue
	Black
	Red
	Green
	Colorless
)

// Colors lists the five colors in WUBRG order, without Colorless.
var Colors = []Color{White, Blue, Black, Red, Green}

// AllColors lists every color including Colorless, in tie-break order.
var AllColors = []Color{White, Blue, Black, Red, Green, Colorless}

// Symbol returns the single-letter symbol used inside braces.
func (c Color) Symbol() string {
	switch c {
	case White:
		return "W"
	case Blue:
		return "U"
	case Black:
		return "B"
	case Red:
		return "R"
	case Green:
		return "G"
	case Colorless:
		return "C"
	default:
		return "?"
	}
}

// Name returns the color's display name.
func (c Color) Name() string {
	switch c {
	case White:
		return "White"
	case Blue:
		return "Blue"
	case Black:
		return "Black"
	case Red:
		return "Red"
	case Green:
		return "Green"
	case Colorless:
		return "Colorless"
	default:
		return fmt.Sprintf("Color(%d)", int(c))
	}
}

// BasicLand returns the basic land that produces this color.
func (c Color) BasicLand() string {
	switch c {
	case White:
		return "Plains"
	case Blue:
		return "Island"
	case Black:
		return "Swamp"
	case Red:
		return "Mountain"
	case Green:
		return "Forest"
	default:
		return "Wastes"
	}
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Name()
}

// MarshalText encodes the color as its symbol so maps keyed by Color serialize as {"W": ...}.
func (c Color) MarshalText() ([]byte, error) {
	if c < White || c > Colorless {
		return nil, fmt.Errorf("invalid color %d", int(c))
	}
	return []byte(c.Symbol()), nil
}

// UnmarshalText decodes a color from its symbol or name.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, ok := ParseColor(string(text))
	if !ok {
		return fmt.Errorf("unknown color %q", string(text))
	}
	*c = parsed
	return nil
}

// ParseColor accepts a symbol ("W") or a name ("white"), case-insensitively.
func ParseColor(s string) (Color, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "W", "WHITE":
		return White, true
	case "U", "BLUE":
		return Blue, true
	case "B", "BLACK":
		return Black, true
	case "R", "RED":
		return Red, true
	case "G", "GREEN":
		return Green, true
	case "C", "COLORLESS":
		return Colorless, true
	default:
		return 0, false
	}
}

// ParseColors reads a compact color string like "WUB". Unknown letters are an error.
// Duplicates are dropped and the result is in WUBRG order.
func ParseColors(s string) ([]Color, error) {
	seen := make(map[Color]bool)
	for i, r := range strings.TrimSpace(s) {
		c, ok := ParseColor(string(r))
		if !ok || c == Colorless {
			return nil, fmt.Errorf("unknown color %q at position %d", string(r), i)
		}
		seen[c] = true
	}

	colors := make([]Color, 0, len(seen))
	for _, c := range Colors {
		if seen[c] {
			colors = append(colors, c)
		}
	}
	return colors, nil
}

// GuildName returns the guild name for a two-color pair, or "" otherwise.
func GuildName(colors []Color) string {
	if len(colors) != 2 {
		return ""
	}
	a, b := colors[0], colors[1]
	if a > b {
		a, b = b, a
	}

	switch [2]Color{a, b} {
	case [2]Color{White, Blue}:
		return "Azorius"
	case [2]Color{White, Black}:
		return "Orzhov"
	case [2]Color{White, Red}:
		return "Boros"
	case [2]Color{White, Green}:
		return "Selesnya"
	case [2]Color{Blue, Black}:
		return "Dimir"
	case [2]Color{Blue, Red}:
		return "Izzet"
	case [2]Color{Blue, Green}:
		return "Simic"
	case [2]Color{Black, Red}:
		return "Rakdos"
	case [2]Color{Black, Green}:
		return "Golgari"
	case [2]Color{Red, Green}:
		return "Gruul"
	default:
		return ""
	}
}
