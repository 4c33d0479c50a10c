package manacost

import (
	"strconv"
	"strings"
)

// Kind identifies the type of a mana symbol.
type Kind int

const (
	// KindColored is a single colored pip such as {W}.
	KindColored Kind = iota
	// KindGeneric is a numeric generic cost such as {3}.
	KindGeneric
	// KindHybrid is a two-color hybrid such as {W/U}, optionally Phyrexian ({W/U/P}).
	KindHybrid
	// KindPhyrexian is a Phyrexian pip such as {B/P}.
	KindPhyrexian
	// KindColorless is the {C} pip that must be paid with colorless mana.
	KindColorless
	// KindVariable is {X}, {Y} or {Z}.
	KindVariable
	// KindMonoHybrid is a generic-or-color hybrid such as {2/W}.
	KindMonoHybrid
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindColored:
		return "colored"
	case KindGeneric:
		return "generic"
	case KindHybrid:
		return "hybrid"
	case KindPhyrexian:
		return "phyrexian"
	case KindColorless:
		return "colorless"
	case KindVariable:
		return "variable"
	case KindMonoHybrid:
		return "mono-hybrid"
	default:
		return "unknown"
	}
}

// Symbol is a single token of a mana cost. Symbols are values and are only
// produced by Parse.
type Symbol struct {
	Kind Kind
	// Color is the pip color for colored, Phyrexian and mono-hybrid symbols,
	// and the first color of a hybrid.
	Color Color
	// Alt is the second color of a hybrid.
	Alt Color
	// Amount is the generic count of a generic or mono-hybrid symbol.
	Amount int
	// Phyrexian marks a hybrid that can also be paid with life.
	Phyrexian bool
	// Letter preserves the variable letter of {X}, {Y} and {Z}.
	Letter string
}

// Pip is a fractional share of a color commitment carried by a symbol.
type Pip struct {
	Color  Color
	Weight float64
}

// ManaValue returns the symbol's contribution to converted mana cost.
func (s Symbol) ManaValue() int {
	switch s.Kind {
	case KindGeneric, KindMonoHybrid:
		return s.Amount
	case KindVariable:
		return 0
	default:
		return 1
	}
}

// Pips returns the colored commitment of the symbol. Hybrids split one pip
// evenly across both colors; generic, colorless and variable symbols carry none.
func (s Symbol) Pips() []Pip {
	switch s.Kind {
	case KindColored, KindPhyrexian, KindMonoHybrid:
		return []Pip{{Color: s.Color, Weight: 1}}
	case KindHybrid:
		return []Pip{{Color: s.Color, Weight: 0.5}, {Color: s.Alt, Weight: 0.5}}
	default:
		return nil
	}
}

// IsColored reports whether the symbol carries a color commitment.
func (s Symbol) IsColored() bool {
	return len(s.Pips()) > 0
}

// String renders the symbol back to brace notation.
func (s Symbol) String() string {
	switch s.Kind {
	case KindColored:
		return "{" + s.Color.Symbol() + "}"
	case KindGeneric:
		return "{" + strconv.Itoa(s.Amount) + "}"
	case KindHybrid:
		if s.Phyrexian {
			return "{" + s.Color.Symbol() + "/" + s.Alt.Symbol() + "/P}"
		}
		return "{" + s.Color.Symbol() + "/" + s.Alt.Symbol() + "}"
	case KindPhyrexian:
		return "{" + s.Color.Symbol() + "/P}"
	case KindColorless:
		return "{C}"
	case KindVariable:
		return "{" + s.Letter + "}"
	case KindMonoHybrid:
		return "{" + strconv.Itoa(s.Amount) + "/" + s.Color.Symbol() + "}"
	default:
		return "{?}"
	}
}

// Cost is the ordered symbol sequence of one card's mana cost.
type Cost struct {
	Symbols []Symbol
}

// CMC returns the converted mana cost: generic amounts plus one per colored,
// hybrid, Phyrexian and colorless symbol.
func (c Cost) CMC() int {
	total := 0
	for _, s := range c.Symbols {
		total += s.ManaValue()
	}
	return total
}

// Pips returns the per-color pip weight of the cost.
func (c Cost) Pips() map[Color]float64 {
	pips := make(map[Color]float64)
	for _, s := range c.Symbols {
		for _, p := range s.Pips() {
			pips[p.Color] += p.Weight
		}
	}
	return pips
}

// HasColoredPips reports whether any symbol carries a color commitment.
func (c Cost) HasColoredPips() bool {
	for _, s := range c.Symbols {
		if s.IsColored() {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the cost has no symbols (lands, costless effects).
func (c Cost) IsEmpty() bool {
	return len(c.Symbols) == 0
}

// String renders the cost back to brace notation.
func (c Cost) String() string {
	var b strings.Builder
	for _, s := range c.Symbols {
		b.WriteString(s.String())
	}
	return b.String()
}
