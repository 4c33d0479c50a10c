package manabase

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mc "github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

func dimir(n int) DualLand {
	return DualLand{Name: "Watery Grave", Colors: []mc.Color{mc.Blue, mc.Black}, Count: n}
}

// pipDeck builds one single-pip spell per color, repeated to the given counts.
func pipDeck(t *testing.T, pips map[mc.Color]int) []DeckEntry {
	t.Helper()
	var entries []DeckEntry
	for _, c := range mc.Colors {
		if n := pips[c]; n > 0 {
			entries = append(entries, entry(t, c.Name()+" Spell", "{1}{"+c.Symbol()+"}", n))
		}
	}
	return entries
}

func TestBasics_WithDuals(t *testing.T) {
	tests := []struct {
		name  string
		pips  map[mc.Color]int
		duals []DualLand
		want  Allocation
	}{
		{
			// 12 sources each, 4 from duals, 4 spare basics split evenly.
			name:  "two color even split",
			pips:  map[mc.Color]int{mc.Blue: 10, mc.Black: 10},
			duals: []DualLand{dimir(4)},
			want:  Allocation{mc.Blue: 10, mc.Black: 10},
		},
		{
			// Red gets its share, not every slot the duals free up.
			name:  "grixis heavy duals",
			pips:  map[mc.Color]int{mc.Blue: 8, mc.Black: 7, mc.Red: 5},
			duals: []DualLand{dimir(8)},
			want:  Allocation{mc.Blue: 5, mc.Black: 3, mc.Red: 8},
		},
		{
			name:  "duals cover one color fully",
			pips:  map[mc.Color]int{mc.Blue: 12, mc.Black: 8},
			duals: []DualLand{dimir(10)},
			want:  Allocation{mc.Blue: 10, mc.Black: 4},
		},
		{
			name: "five color with two duals",
			pips: map[mc.Color]int{mc.White: 4, mc.Blue: 4, mc.Black: 4, mc.Red: 4, mc.Green: 4},
			duals: []DualLand{
				{Name: "Hallowed Fountain", Colors: []mc.Color{mc.White, mc.Blue}, Count: 2},
			},
			want: Allocation{mc.White: 4, mc.Blue: 4, mc.Black: 5, mc.Red: 5, mc.Green: 4},
		},
		{
			name: "off color duals only take slots",
			pips: map[mc.Color]int{mc.White: 10, mc.Blue: 10},
			duals: []DualLand{
				{Name: "Blood Crypt", Colors: []mc.Color{mc.Black, mc.Red}, Count: 4},
			},
			want: Allocation{mc.White: 10, mc.Blue: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Assemble(Request{
				Format:  FormatRequest{Name: "standard"},
				Entries: pipDeck(t, tt.pips),
				Duals:   tt.duals,
			})
			require.NoError(t, err)

			if diff := cmp.Diff(tt.want, res.Allocation); diff != "" {
				t.Errorf("basics mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, 24-DualLands(tt.duals).Total(), res.Allocation.Total())
			assert.Equal(t, DualLands(tt.duals), res.Duals)
		})
	}
}

func TestBasics_EveryAlgorithmFillsSlots(t *testing.T) {
	entries := pipDeck(t, map[mc.Color]int{mc.Blue: 8, mc.Black: 7, mc.Red: 5})
	for _, algo := range Algorithms {
		t.Run(algo.String(), func(t *testing.T) {
			res, err := Assemble(Request{
				Format:    FormatRequest{Name: "standard"},
				Entries:   entries,
				Algorithm: algo,
				Duals:     []DualLand{dimir(6)},
			})
			require.NoError(t, err)
			assert.Equal(t, 18, res.Allocation.Total())
			for c, n := range res.Allocation {
				assert.GreaterOrEqual(t, n, 0, c.String())
			}
		})
	}
}

func TestBasics_NoDualsKeepsAllocation(t *testing.T) {
	full := Allocation{mc.White: 12, mc.Blue: 12}
	assert.Equal(t, full, Basics(full, nil, PipCounts{mc.White: 1, mc.Blue: 1}, 24))
}

func TestBasics_ColorlessDeck(t *testing.T) {
	res, err := Assemble(Request{
		Format:  FormatRequest{Name: "limited"},
		Entries: []DeckEntry{entry(t, "Myr Enforcer", "{7}", 10)},
		Duals:   []DualLand{dimir(3)},
	})
	require.NoError(t, err)
	assert.Equal(t, Allocation{mc.Colorless: 14}, res.Allocation)
}

func TestDualsFromEntries(t *testing.T) {
	entries := append(pipDeck(t, map[mc.Color]int{mc.Blue: 10, mc.Black: 10}),
		DeckEntry{Name: "Watery Grave", Quantity: 4, Land: true, Produces: []mc.Color{mc.Blue, mc.Black}},
		DeckEntry{Name: "Island", Quantity: 6, Land: true, Produces: []mc.Color{mc.Blue}},
	)

	duals := DualsFromEntries(entries)
	require.Len(t, duals, 1)
	assert.Equal(t, dimir(4), duals[0])

	res, err := Assemble(Request{Format: FormatRequest{Name: "standard"}, Entries: entries})
	require.NoError(t, err)
	assert.Equal(t, Allocation{mc.Blue: 10, mc.Black: 10}, res.Allocation)
	assert.Equal(t, Allocation{mc.Blue: 14, mc.Black: 14}, res.ColorSources())
	assert.Equal(t, 10, res.Lands[0].Count)
}

func TestDualLands_Sources(t *testing.T) {
	duals := DualLands{
		dimir(4),
		{Name: "Sulfurous Springs", Colors: []mc.Color{mc.Black, mc.Red, mc.Black}, Count: 2},
	}
	assert.Equal(t, 6, duals.Total())
	assert.Equal(t, Allocation{mc.Blue: 4, mc.Black: 6, mc.Red: 2}, duals.Sources())
}

func TestDuals_Errors(t *testing.T) {
	entries := pipDeck(t, map[mc.Color]int{mc.Blue: 10, mc.Black: 10})

	_, err := Assemble(Request{Format: FormatRequest{Name: "limited"}, Entries: entries, Duals: []DualLand{dimir(18)}})
	assert.True(t, errors.Is(err, ErrInvalidTarget), "got %v", err)
	assert.True(t, IsUserError(err))

	tests := []struct {
		name string
		dual DualLand
	}{
		{"one color", DualLand{Name: "Island", Colors: []mc.Color{mc.Blue, mc.Blue}, Count: 2}},
		{"colorless", DualLand{Name: "Wastes", Colors: []mc.Color{mc.Blue, mc.Colorless}, Count: 2}},
		{"no copies", DualLand{Name: "Watery Grave", Colors: []mc.Color{mc.Blue, mc.Black}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Assemble(Request{Format: FormatRequest{Name: "standard"}, Entries: entries, Duals: []DualLand{tt.dual}})
			assert.True(t, errors.Is(err, ErrInvalidEntry), "got %v", err)
		})
	}
}
