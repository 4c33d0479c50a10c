package manabase

import (
	"fmt"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

// Request is everything needed for one mana base calculation.
type Request struct {
	Format    FormatRequest
	Entries   []DeckEntry
	Algorithm Algorithm
	// Duals are placed before any basic; land entries with Produces add to them.
	Duals []DualLand
	// Hypergeometric is only read by the Hypergeometric algorithm; zero selects defaults.
	Hypergeometric HypergeometricConfig
}

// Result is the immutable outcome of a calculation plus its diagnostics.
type Result struct {
	Format          FormatTarget               `json:"format"`
	Algorithm       Algorithm                  `json:"algorithm"`
	Allocation      Allocation                 `json:"allocation"`
	Lands           []Land                     `json:"lands"`
	Duals           DualLands                  `json:"duals,omitempty"`
	Identity        []manacost.Color           `json:"color_identity"`
	GuildName       string                     `json:"guild_name,omitempty"`
	Pips            PipCounts                  `json:"pips"`
	WeightedPips    PipCounts                  `json:"weighted_pips"`
	PipRatios       map[manacost.Color]float64 `json:"pip_ratios"`
	WeightedRatios  map[manacost.Color]float64 `json:"weighted_ratios"`
	MaxPips         map[manacost.Color]int     `json:"max_pips"`
	Intensity       map[manacost.Color]int     `json:"intensity"`
	Spells          int                        `json:"spells"`
	Sources         []SourceRequirement        `json:"sources,omitempty"`
	Hypergeometric  *HypergeometricConfig      `json:"hypergeometric,omitempty"`
	Recommendations []string                   `json:"recommendations,omitempty"`
}

// Assemble resolves the format, analyzes the deck, runs the selected
// calculator and checks the allocation before returning it.
func Assemble(req Request) (*Result, error) {
	target, err := Resolve(req.Format)
	if err != nil {
		return nil, fmt.Errorf("resolve format: %w", err)
	}

	analysis, err := Analyze(req.Entries)
	if err != nil {
		return nil, fmt.Errorf("analyze deck: %w", err)
	}

	duals := append(DualLands(nil), req.Duals...)
	duals = append(duals, DualsFromEntries(req.Entries)...)
	return AssembleAnalysis(analysis, target, req.Algorithm, req.Hypergeometric, duals)
}

// AssembleAnalysis runs the calculator on an existing analysis. The calculator
// sizes every color against the whole land budget; duals then cover part of
// that and the basics fill the rest.
func AssembleAnalysis(analysis Analysis, target FormatTarget, algo Algorithm, cfg HypergeometricConfig, duals DualLands) (*Result, error) {
	calc, err := NewCalculator(algo, cfg)
	if err != nil {
		return nil, err
	}
	slots, err := basicSlots(target, duals)
	if err != nil {
		return nil, err
	}

	full, err := calc.Calculate(analysis, target)
	if err != nil {
		return nil, fmt.Errorf("%s calculation: %w", algo, err)
	}
	if err := checkAllocation(algo, analysis, target.TargetLands, full); err != nil {
		return nil, err
	}

	alloc := Basics(full, duals, basisOf(algo, analysis), slots)
	if err := checkAllocation(algo, analysis, slots, alloc); err != nil {
		return nil, err
	}

	result := &Result{
		Format:         target,
		Algorithm:      algo,
		Allocation:     alloc,
		Lands:          alloc.Lands(),
		Duals:          duals,
		Identity:       analysis.Identity,
		GuildName:      manacost.GuildName(analysis.Identity),
		Pips:           analysis.Pips,
		WeightedPips:   analysis.Weighted,
		PipRatios:      analysis.Pips.Ratios(),
		WeightedRatios: analysis.Weighted.Ratios(),
		MaxPips:        analysis.MaxPips,
		Intensity:      analysis.Intensity,
		Spells:         analysis.Spells,
	}

	if h, ok := calc.(HypergeometricCalculator); ok {
		sources, err := h.Requirements(analysis, target)
		if err != nil {
			return nil, fmt.Errorf("%s requirements: %w", algo, err)
		}
		result.Sources = sources
		cfg := h.Config
		result.Hypergeometric = &cfg
	}

	result.Recommendations = Recommendations(result)
	return result, nil
}

// ColorSources counts every land that taps for each color, basics and duals
// together. Dual colors outside the identity are ignored.
func (r *Result) ColorSources() Allocation {
	out := make(Allocation, len(r.Allocation))
	for c, n := range r.Allocation {
		out[c] = n
	}
	for c, n := range r.Duals.Sources() {
		if _, ok := out[c]; ok {
			out[c] += n
		}
	}
	return out
}

// basisOf returns the pip weights the algorithm shares spare basics by.
func basisOf(algo Algorithm, a Analysis) PipCounts {
	if algo == CMCWeighted {
		return a.Weighted.Restrict(a.Identity)
	}
	return a.Pips.Restrict(a.Identity)
}

// checkAllocation enforces exact sum, non-negativity and the color set. Any
// failure is a calculator defect.
func checkAllocation(algo Algorithm, a Analysis, want int, alloc Allocation) error {
	got := alloc.Total()
	if got != want {
		return &InvariantViolationError{Algorithm: algo, Want: want, Got: got, Detail: "allocation does not sum to the land target"}
	}

	allowed := make(map[manacost.Color]bool, len(a.Identity))
	for _, c := range a.Identity {
		allowed[c] = true
	}
	if len(a.Identity) == 0 {
		allowed[manacost.Colorless] = true
	}

	for c, n := range alloc {
		if n < 0 {
			return &InvariantViolationError{Algorithm: algo, Want: want, Got: got, Detail: fmt.Sprintf("negative count %d for %s", n, c)}
		}
		if !allowed[c] {
			return &InvariantViolationError{Algorithm: algo, Want: want, Got: got, Detail: fmt.Sprintf("%s is outside the color identity", c)}
		}
	}
	return nil
}
