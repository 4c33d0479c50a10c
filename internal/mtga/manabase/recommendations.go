package manabase

import (
	"fmt"
	"strings"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

// Pip intensity thresholds, counted in spell copies with two or more pips of a color.
const (
	HighIntensity     = 3
	VeryHighIntensity = 5
)

// Recommendations returns advice derived from a result: heavy pip
// requirements, land counts outside the format's usual range, and colors the
// hypergeometric model could not satisfy.
func Recommendations(r *Result) []string {
	var recs []string

	for _, c := range r.Identity {
		intensity := r.Intensity[c]
		lower := lowerName(c)
		switch {
		case intensity >= VeryHighIntensity:
			recs = append(recs, fmt.Sprintf(
				"%s has very high pip density (%d cards with double+ pips). Strongly consider additional %s sources, fetch lands, or mana rocks.",
				c.Name(), intensity, lower))
		case intensity >= HighIntensity:
			recs = append(recs, fmt.Sprintf(
				"%s has high pip density (%d cards with {%s}{%s} or more). Consider additional %s sources or mana rocks.",
				c.Name(), intensity, c.Symbol(), c.Symbol(), lower))
		}
	}

	if !r.Format.InRecommendedRange() {
		low, high := r.Format.Format.RecommendedLandRange()
		recs = append(recs, fmt.Sprintf(
			"%d lands is outside the usual %d-%d range for %s.",
			r.Format.TargetLands, low, high, r.Format.Format.Name()))
	}

	required := 0
	for _, s := range r.Sources {
		required += s.Sources
		if !s.Reachable && r.Hypergeometric != nil {
			recs = append(recs, fmt.Sprintf(
				"Drawing %d %s source(s) by turn %d is only %.0f%% likely even with all %d lands producing %s (target %.0f%%).",
				s.Pips, lowerName(s.Color), r.Hypergeometric.Turn, s.Probability*100, s.Sources, lowerName(s.Color), r.Hypergeometric.Confidence*100))
		}
	}
	// Duals count once per color they produce.
	capacity := max(r.Format.TargetLands, r.ColorSources().Total())
	if len(r.Sources) > 0 && required > capacity {
		recs = append(recs, fmt.Sprintf(
			"Color requirements call for %d sources but only %d lands are budgeted; dual lands or mana fixing would close the gap.",
			required, r.Format.TargetLands))
	}

	if len(r.Identity) == 0 && r.Spells > 0 {
		recs = append(recs, fmt.Sprintf("No colored pips found; all lands allocated to %s.", manacost.Colorless.BasicLand()))
	}

	return recs
}

func lowerName(c manacost.Color) string {
	return strings.ToLower(c.Name())
}
