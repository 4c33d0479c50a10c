package manabase

import (
	"fmt"
	"math"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

// Hypergeometric defaults: sources needed by turn 3 at 90% confidence from a 7-card hand.
const (
	DefaultTurn       = 3
	DefaultConfidence = 0.90
	DefaultHandSize   = 7
)

// HypergeometricConfig tunes the probability model.
type HypergeometricConfig struct {
	// Turn is the reference turn by which the color must be available.
	Turn int `json:"turn" toml:"turn"`
	// Confidence is the minimum probability of having enough sources by Turn.
	Confidence float64 `json:"confidence" toml:"confidence"`
	// HandSize is the opening hand size.
	HandSize int `json:"hand_size" toml:"hand_size"`
	// OnThePlay skips the first-turn draw.
	OnThePlay bool `json:"on_the_play" toml:"on_the_play"`
}

// DefaultHypergeometricConfig returns turn 3, 90% confidence, 7-card hand, on the draw.
func DefaultHypergeometricConfig() HypergeometricConfig {
	return HypergeometricConfig{
		Turn:       DefaultTurn,
		Confidence: DefaultConfidence,
		HandSize:   DefaultHandSize,
	}
}

// Validate checks parameter ranges.
func (c HypergeometricConfig) Validate() error {
	if c.Turn < 1 {
		return fmt.Errorf("%w: turn must be at least 1, got %d", ErrInvalidConfig, c.Turn)
	}
	if c.Confidence <= 0 || c.Confidence >= 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1 exclusive, got %g", ErrInvalidConfig, c.Confidence)
	}
	if c.HandSize < 0 {
		return fmt.Errorf("%w: hand size cannot be negative, got %d", ErrInvalidConfig, c.HandSize)
	}
	return nil
}

// Draws returns the number of cards seen by Turn.
func (c HypergeometricConfig) Draws() int {
	draws := c.HandSize + c.Turn
	if c.OnThePlay {
		draws--
	}
	return draws
}

// Library returns the cards left after the opening hand is drawn from a deck
// of totalCards, never negative.
func (c HypergeometricConfig) Library(totalCards int) int {
	if lib := totalCards - c.HandSize; lib > 0 {
		return lib
	}
	return 0
}

// SourceRequirement is the probability-driven land need of one color.
type SourceRequirement struct {
	Color manacost.Color `json:"color"`
	// Pips is the largest single-card requirement of the color (r).
	Pips int `json:"pips"`
	// Sources is the minimal source count meeting the confidence, capped at the land budget.
	Sources int `json:"sources"`
	// Probability is P(at least Pips sources by the reference turn) with Sources in the deck.
	Probability float64 `json:"probability"`
	// Reachable is false when even the full land budget misses the confidence.
	Reachable bool `json:"reachable"`
}

// HypergeometricCalculator finds, per color, the fewest sources giving at least
// Confidence probability of drawing r of them by the reference turn, then fits
// those minimums to the land budget.
type HypergeometricCalculator struct {
	Config HypergeometricConfig
}

// Algorithm implements Calculator.
func (HypergeometricCalculator) Algorithm() Algorithm { return Hypergeometric }

// Calculate implements Calculator. When the per-color minimums exceed the
// budget they are scaled down by apportionment; surplus lands are spread by
// raw pip counts.
func (h HypergeometricCalculator) Calculate(a Analysis, target FormatTarget) (Allocation, error) {
	alloc, err := prepare(a, target)
	if err != nil || alloc != nil {
		return alloc, err
	}

	reqs, err := h.requirements(a, target)
	if err != nil {
		return nil, err
	}

	needs := make(map[manacost.Color]float64, len(reqs))
	required := 0
	for _, r := range reqs {
		needs[r.Color] = float64(r.Sources)
		required += r.Sources
	}

	switch {
	case required > target.TargetLands:
		return Apportion(needs, target.TargetLands), nil
	case required < target.TargetLands:
		alloc = Apportion(a.Pips.Restrict(a.Identity), target.TargetLands-required)
		for _, r := range reqs {
			alloc[r.Color] += r.Sources
		}
		return alloc, nil
	default:
		alloc = make(Allocation, len(reqs))
		for _, r := range reqs {
			alloc[r.Color] = r.Sources
		}
		return alloc, nil
	}
}

// Requirements reports the per-color source minimums before budget fitting.
func (h HypergeometricCalculator) Requirements(a Analysis, target FormatTarget) ([]SourceRequirement, error) {
	if _, err := prepare(a, target); err != nil {
		return nil, err
	}
	return h.requirements(a, target)
}

func (h HypergeometricCalculator) requirements(a Analysis, target FormatTarget) ([]SourceRequirement, error) {
	cfg := h.Config
	if cfg == (HypergeometricConfig{}) {
		cfg = DefaultHypergeometricConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	library, draws := cfg.Library(target.TotalCards), cfg.Draws()
	reqs := make([]SourceRequirement, 0, len(a.Identity))
	for _, c := range a.Identity {
		pips := a.MaxPips[c]
		if pips < 1 {
			pips = 1
		}
		sources, prob, ok := MinSources(library, draws, pips, cfg.Confidence, target.TargetLands)
		reqs = append(reqs, SourceRequirement{
			Color:       c,
			Pips:        pips,
			Sources:     sources,
			Probability: prob,
			Reachable:   ok,
		})
	}
	return reqs, nil
}

// MinSources returns the smallest s in [0, maxSources] such that drawing
// draws cards from a library of librarySize holding s sources yields at least
// required sources with probability >= confidence. When no such s exists it
// returns maxSources with ok=false. The probability is non-decreasing in s,
// so the first hit of the linear scan is minimal.
func MinSources(librarySize, draws, required int, confidence float64, maxSources int) (sources int, probability float64, ok bool) {
	if maxSources > librarySize {
		maxSources = librarySize
	}
	if maxSources < 0 {
		maxSources = 0
	}

	for s := 0; s <= maxSources; s++ {
		p := AtLeast(librarySize, s, draws, required)
		if p >= confidence {
			return s, p, true
		}
		probability = p
	}
	return maxSources, probability, false
}

// AtLeast returns P(X >= required) for X ~ Hypergeometric(population,
// successes, draws): the chance that draws cards taken without replacement
// from population cards, successes of them hits, contain at least required
// hits. Terms are evaluated in log space so large decks do not overflow.
func AtLeast(population, successes, draws, required int) float64 {
	if required <= 0 {
		return 1
	}
	if population <= 0 || successes <= 0 || draws <= 0 {
		return 0
	}
	if successes > population {
		successes = population
	}
	if draws > population {
		draws = population
	}
	if required > successes || required > draws {
		return 0
	}

	logTotal := logChoose(population, draws)
	var below float64
	for i := 0; i < required; i++ {
		if draws-i > population-successes {
			continue
		}
		below += math.Exp(logChoose(successes, i) + logChoose(population-successes, draws-i) - logTotal)
	}

	p := 1 - below
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// logChoose returns ln C(n, k) for 0 <= k <= n.
func logChoose(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	a, _ := math.Lgamma(float64(n + 1))
	b, _ := math.Lgamma(float64(k + 1))
	c, _ := math.Lgamma(float64(n - k + 1))
	return a - b - c
}
