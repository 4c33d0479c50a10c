package manabase

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

// Algorithm selects a Calculator.
type Algorithm int

const (
	// Simple allocates lands proportionally to raw pip counts.
	Simple Algorithm = iota
	// CMCWeighted allocates lands proportionally to cmc-weighted pip counts.
	CMCWeighted
	// Hypergeometric sizes each color's sources from draw probabilities.
	Hypergeometric
)

// Algorithms lists every calculator in display order.
var Algorithms = []Algorithm{Simple, CMCWeighted, Hypergeometric}

// String returns the short CLI name.
func (a Algorithm) String() string {
	switch a {
	case Simple:
		return "simple"
	case CMCWeighted:
		return "cmc"
	case Hypergeometric:
		return "hypergeo"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

// DisplayName returns a human readable name.
func (a Algorithm) DisplayName() string {
	switch a {
	case Simple:
		return "Simple"
	case CMCWeighted:
		return "CMC-Weighted"
	case Hypergeometric:
		return "Hypergeometric"
	default:
		return a.String()
	}
}

// MarshalText encodes the algorithm as its short name.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an algorithm name.
func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAlgorithm resolves an algorithm name or alias.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "simple", "":
		return Simple, nil
	case "cmc", "cmc-weighted", "cmcweighted":
		return CMCWeighted, nil
	case "hypergeo", "hypergeometric":
		return Hypergeometric, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
}

// Calculator turns a pip analysis and a land budget into an allocation.
// Implementations are deterministic and always return an allocation summing
// to target.TargetLands, or an error.
type Calculator interface {
	Algorithm() Algorithm
	Calculate(a Analysis, target FormatTarget) (Allocation, error)
}

// NewCalculator returns the calculator for algo. cfg is only read by Hypergeometric;
// its zero value selects the defaults.
func NewCalculator(algo Algorithm, cfg HypergeometricConfig) (Calculator, error) {
	switch algo {
	case Simple:
		return SimpleCalculator{}, nil
	case CMCWeighted:
		return CMCWeightedCalculator{}, nil
	case Hypergeometric:
		if cfg == (HypergeometricConfig{}) {
			cfg = DefaultHypergeometricConfig()
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return HypergeometricCalculator{Config: cfg}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(algo))
	}
}

// Calculate runs the selected calculator.
func Calculate(algo Algorithm, a Analysis, target FormatTarget, cfg HypergeometricConfig) (Allocation, error) {
	calc, err := NewCalculator(algo, cfg)
	if err != nil {
		return nil, err
	}
	return calc.Calculate(a, target)
}

// prepare validates inputs shared by every calculator. It returns a non-nil
// allocation when the deck has no colored pips: every land becomes Colorless.
func prepare(a Analysis, target FormatTarget) (Allocation, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	if len(a.Identity) == 0 {
		return Allocation{manacost.Colorless: target.TargetLands}, nil
	}
	return nil, nil
}

// proportional allocates target lands across the identity by basis weights.
func proportional(a Analysis, target FormatTarget, basis PipCounts) (Allocation, error) {
	alloc, err := prepare(a, target)
	if err != nil || alloc != nil {
		return alloc, err
	}
	return Apportion(basis.Restrict(a.Identity), target.TargetLands), nil
}

// SimpleCalculator allocates lands in proportion to raw pip counts.
type SimpleCalculator struct{}

// Algorithm implements Calculator.
func (SimpleCalculator) Algorithm() Algorithm { return Simple }

// Calculate implements Calculator.
func (SimpleCalculator) Calculate(a Analysis, target FormatTarget) (Allocation, error) {
	return proportional(a, target, a.Pips)
}

// CMCWeightedCalculator allocates lands in proportion to pips weighted by the
// cmc of the card carrying them, so colors concentrated in expensive spells
// draw a larger share.
type CMCWeightedCalculator struct{}

// Algorithm implements Calculator.
func (CMCWeightedCalculator) Algorithm() Algorithm { return CMCWeighted }

// Calculate implements Calculator.
func (CMCWeightedCalculator) Calculate(a Analysis, target FormatTarget) (Allocation, error) {
	return proportional(a, target, a.Weighted)
}
