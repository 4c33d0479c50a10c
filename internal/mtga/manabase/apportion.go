package manabase

import (
	"math"
	"sort"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

// remainderEpsilon treats float remainders this close as a tie.
const remainderEpsilon = 1e-9

// Allocation maps a color to a land count.
type Allocation map[manacost.Color]int

// Total sums every land count.
func (a Allocation) Total() int {
	total := 0
	for _, n := range a {
		total += n
	}
	return total
}

// Colors returns the allocated colors in WUBRGC order.
func (a Allocation) Colors() []manacost.Color {
	colors := make([]manacost.Color, 0, len(a))
	for _, c := range manacost.AllColors {
		if _, ok := a[c]; ok {
			colors = append(colors, c)
		}
	}
	return colors
}

// Land is one line of a rendered mana base.
type Land struct {
	Color manacost.Color `json:"color"`
	Name  string         `json:"name"`
	Count int            `json:"count"`
}

// Lands lists the allocation as basic lands in WUBRGC order.
func (a Allocation) Lands() []Land {
	lands := make([]Land, 0, len(a))
	for _, c := range a.Colors() {
		lands = append(lands, Land{Color: c, Name: c.BasicLand(), Count: a[c]})
	}
	return lands
}

// Apportion splits total across the keys of weights using the largest
// remainder (Hare-Niemeyer) method. Each key receives floor(total*w/sum) and
// the leftover units go one at a time to the largest fractional remainders,
// ties broken by W, U, B, R, G, C order. The result always sums to total for
// total >= 0 and non-empty weights. Negative weights count as zero; when every
// weight is zero the keys are weighted equally.
func Apportion(weights map[manacost.Color]float64, total int) Allocation {
	keys := make([]manacost.Color, 0, len(weights))
	for _, c := range manacost.AllColors {
		if _, ok := weights[c]; ok {
			keys = append(keys, c)
		}
	}

	alloc := make(Allocation, len(keys))
	if len(keys) == 0 || total < 0 {
		return alloc
	}

	w := make([]float64, len(keys))
	var sum float64
	for i, c := range keys {
		w[i] = math.Max(weights[c], 0)
		sum += w[i]
	}
	if sum == 0 {
		for i := range w {
			w[i] = 1
		}
		sum = float64(len(w))
	}

	type share struct {
		idx       int
		remainder float64
	}
	shares := make([]share, len(keys))
	assigned := 0
	for i, c := range keys {
		quota := float64(total) * w[i] / sum
		floor := math.Floor(quota + remainderEpsilon)
		alloc[c] = int(floor)
		assigned += int(floor)
		shares[i] = share{idx: i, remainder: quota - floor}
	}

	// Stable sort keeps color order among equal remainders.
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].remainder > shares[j].remainder+remainderEpsilon
	})

	for i := 0; assigned < total; i = (i + 1) % len(shares) {
		alloc[keys[shares[i].idx]]++
		assigned++
	}

	// Float drift can only overshoot by a unit or two; take them back from the
	// smallest remainders.
	for i := len(shares) - 1; assigned > total; i-- {
		if i < 0 {
			i = len(shares) - 1
		}
		c := keys[shares[i].idx]
		if alloc[c] > 0 {
			alloc[c]--
			assigned--
		}
	}

	return alloc
}
