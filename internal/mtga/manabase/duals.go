package manabase

import (
	"fmt"
	"math"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

// DualLand is a group of identical lands that each tap for more than one color.
type DualLand struct {
	Name   string           `json:"name"`
	Colors []manacost.Color `json:"colors"`
	Count  int              `json:"count"`
}

// Validate rejects groups with no copies or fewer than two colors.
func (d DualLand) Validate() error {
	if d.Count < 1 {
		return &InvalidEntryError{Name: d.Name, Reason: fmt.Sprintf("dual land count %d", d.Count)}
	}
	seen := make(map[manacost.Color]bool, len(d.Colors))
	for _, c := range d.Colors {
		if c == manacost.Colorless {
			return &InvalidEntryError{Name: d.Name, Reason: "dual land cannot list colorless"}
		}
		seen[c] = true
	}
	if len(seen) < 2 {
		return &InvalidEntryError{Name: d.Name, Reason: "dual land needs at least two colors"}
	}
	return nil
}

// DualLands is the fixed multicolor part of a mana base.
type DualLands []DualLand

// Total counts every dual land copy.
func (ds DualLands) Total() int {
	n := 0
	for _, d := range ds {
		n += d.Count
	}
	return n
}

// Sources counts, per color, how many dual lands produce it.
func (ds DualLands) Sources() Allocation {
	out := make(Allocation)
	for _, d := range ds {
		seen := make(map[manacost.Color]bool, len(d.Colors))
		for _, c := range d.Colors {
			if !seen[c] {
				out[c] += d.Count
				seen[c] = true
			}
		}
	}
	return out
}

// DualsFromEntries collects land entries that produce two or more colors.
func DualsFromEntries(entries []DeckEntry) DualLands {
	var duals DualLands
	for _, e := range entries {
		if e.Land && len(e.Produces) >= 2 {
			duals = append(duals, DualLand{Name: e.Name, Colors: e.Produces, Count: e.Copies()})
		}
	}
	return duals
}

// basicSlots returns how many lands are left for basics once the duals are placed.
func basicSlots(target FormatTarget, duals DualLands) (int, error) {
	for _, d := range duals {
		if err := d.Validate(); err != nil {
			return 0, err
		}
	}
	slots := target.TargetLands - duals.Total()
	if slots < 0 {
		return 0, &InvalidTargetError{
			TotalCards:  target.TotalCards,
			TargetLands: target.TargetLands,
			Reason:      fmt.Sprintf("%d dual lands exceed the land target", duals.Total()),
		}
	}
	return slots, nil
}

// Basics turns a full-budget allocation into the basics that complete it
// once duals are in the deck. Each color first keeps what the duals do not
// already cover; when that overshoots slots the needs are scaled down,
// otherwise the spare slots are shared by basis. The result sums to slots.
func Basics(full Allocation, duals DualLands, basis PipCounts, slots int) Allocation {
	if len(duals) == 0 {
		return full
	}

	covered := duals.Sources()
	need := make(map[manacost.Color]float64, len(full))
	var needed float64
	for c, n := range full {
		need[c] = math.Max(float64(n-covered[c]), 0)
		needed += need[c]
	}
	if needed >= float64(slots) {
		return Apportion(need, slots)
	}

	ratios := basis.Ratios()
	if len(ratios) == 0 {
		for c := range full {
			ratios[c] = 1 / float64(len(full))
		}
	}
	spare := float64(slots) - needed
	for c := range need {
		need[c] += spare * ratios[c]
	}
	return Apportion(need, slots)
}
