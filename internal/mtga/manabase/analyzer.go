// Package manabase turns a deck's mana symbol distribution into a land
// allocation. Every function here is pure: no I/O, no shared state, safe for
// concurrent use.
package manabase

import (
	"fmt"
	"math"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

// DeckEntry is one card line of a deck: a card, its parsed cost and how many copies.
type DeckEntry struct {
	Name     string
	Cost     manacost.Cost
	Quantity int  // 0 is read as 1
	Land     bool // lands are skipped by Analyze
	// Produces lists the colors a land taps for. Two or more make it a dual.
	Produces []manacost.Color
}

// NewDeckEntry parses cost and builds a spell entry.
func NewDeckEntry(name, cost string, quantity int) (DeckEntry, error) {
	parsed, err := manacost.Parse(cost)
	if err != nil {
		return DeckEntry{}, fmt.Errorf("card %q: %w", name, err)
	}
	return DeckEntry{Name: name, Cost: parsed, Quantity: quantity}, nil
}

// Copies returns the effective quantity.
func (e DeckEntry) Copies() int {
	if e.Quantity == 0 {
		return 1
	}
	return e.Quantity
}

// PipCounts maps a color to a (possibly fractional) pip weight.
type PipCounts map[manacost.Color]float64

// Total sums the weights of every color.
func (p PipCounts) Total() float64 {
	var total float64
	for _, v := range p {
		total += v
	}
	return total
}

// Ratios returns each color's share of Total. An empty or all-zero map yields an empty map.
func (p PipCounts) Ratios() map[manacost.Color]float64 {
	ratios := make(map[manacost.Color]float64, len(p))
	total := p.Total()
	if total <= 0 {
		return ratios
	}
	for c, v := range p {
		ratios[c] = v / total
	}
	return ratios
}

// Restrict returns the counts of the given colors only.
func (p PipCounts) Restrict(colors []manacost.Color) PipCounts {
	out := make(PipCounts, len(colors))
	for _, c := range colors {
		out[c] = p[c]
	}
	return out
}

// Analysis is the pip distribution of a deck.
type Analysis struct {
	// Pips counts raw symbol occurrences; hybrids split one pip across both colors.
	Pips PipCounts
	// Weighted multiplies each card's pips by that card's converted mana cost.
	Weighted PipCounts
	// Identity lists, in WUBRG order, every color with Pips > 0.
	Identity []manacost.Color
	// MaxPips is the highest single-card pip requirement per color, rounded up.
	MaxPips map[manacost.Color]int
	// Intensity counts spell copies carrying two or more pips of a color.
	Intensity map[manacost.Color]int
	// Spells and Lands count analyzed and skipped copies.
	Spells int
	Lands  int
}

// Analyze aggregates pip statistics over a deck. Land entries are skipped.
// Colorless and generic symbols add to a card's cmc but not to any pip count.
func Analyze(entries []DeckEntry) (Analysis, error) {
	a := Analysis{
		Pips:      make(PipCounts),
		Weighted:  make(PipCounts),
		MaxPips:   make(map[manacost.Color]int),
		Intensity: make(map[manacost.Color]int),
	}

	for _, e := range entries {
		if e.Quantity < 0 {
			return Analysis{}, &InvalidEntryError{Name: e.Name, Reason: fmt.Sprintf("negative quantity %d", e.Quantity)}
		}
		copies := e.Copies()
		if e.Land {
			a.Lands += copies
			continue
		}
		a.Spells += copies

		cmc := e.Cost.CMC()
		pips := e.Cost.Pips()
		if cmc == 0 && len(pips) > 0 {
			return Analysis{}, &InvalidEntryError{Name: e.Name, Reason: fmt.Sprintf("cost %s has colored symbols but converted mana cost 0", e.Cost)}
		}

		for color, weight := range pips {
			a.Pips[color] += weight * float64(copies)
			a.Weighted[color] += weight * float64(cmc) * float64(copies)

			need := int(math.Ceil(weight))
			if need > a.MaxPips[color] {
				a.MaxPips[color] = need
			}
			if weight >= 2 {
				a.Intensity[color] += copies
			}
		}
	}

	for _, c := range manacost.Colors {
		if a.Pips[c] > 0 {
			a.Identity = append(a.Identity, c)
		}
	}

	return a, nil
}

// validate checks that Identity matches the colors with positive pips.
func (a Analysis) validate() error {
	inIdentity := make(map[manacost.Color]bool, len(a.Identity))
	for _, c := range a.Identity {
		if c == manacost.Colorless {
			return fmt.Errorf("%w: colorless cannot be part of a color identity", ErrInconsistentAnalysis)
		}
		if inIdentity[c] {
			return fmt.Errorf("%w: %s listed twice", ErrInconsistentAnalysis, c)
		}
		inIdentity[c] = true
		if a.Pips[c] <= 0 {
			return fmt.Errorf("%w: %s has no pips", ErrInconsistentAnalysis, c)
		}
	}
	for c, v := range a.Pips {
		if v < 0 {
			return fmt.Errorf("%w: negative pip count for %s", ErrInconsistentAnalysis, c)
		}
		if v > 0 && c != manacost.Colorless && !inIdentity[c] {
			return fmt.Errorf("%w: %s has pips but is missing from the identity", ErrInconsistentAnalysis, c)
		}
	}
	return nil
}
