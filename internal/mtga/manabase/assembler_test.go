package manabase

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mc "github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

func azoriusDeck(t *testing.T) []DeckEntry {
	return []DeckEntry{
		entry(t, "Absorb", "{W}{U}{U}", 4),
		entry(t, "Wrath of God", "{2}{W}{W}", 3),
		entry(t, "Brainstorm", "{U}", 4),
		entry(t, "Swords to Plowshares", "{W}", 4),
		entry(t, "Sphinx's Revelation", "{X}{W}{U}{U}", 2),
		{Name: "Island", Quantity: 12, Land: true},
	}
}

func TestAssemble(t *testing.T) {
	for _, algo := range Algorithms {
		t.Run(algo.String(), func(t *testing.T) {
			res, err := Assemble(Request{
				Format:    FormatRequest{Name: "standard"},
				Entries:   azoriusDeck(t),
				Algorithm: algo,
			})
			require.NoError(t, err)

			assert.Equal(t, Standard, res.Format.Format)
			assert.Equal(t, algo, res.Algorithm)
			assert.Equal(t, 24, res.Allocation.Total())
			assert.Equal(t, []mc.Color{mc.White, mc.Blue}, res.Identity)
			assert.Equal(t, "Azorius", res.GuildName)
			assert.Equal(t, 17, res.Spells)
			require.Len(t, res.Lands, 2)
			assert.Equal(t, "Plains", res.Lands[0].Name)
			assert.Equal(t, "Island", res.Lands[1].Name)
			assert.InDelta(t, 1.0, res.PipRatios[mc.White]+res.PipRatios[mc.Blue], 1e-9)

			if algo == Hypergeometric {
				require.NotNil(t, res.Hypergeometric)
				assert.Equal(t, DefaultHypergeometricConfig(), *res.Hypergeometric)
				require.Len(t, res.Sources, 2)
				assert.Equal(t, 2, res.Sources[0].Pips)
			} else {
				assert.Nil(t, res.Hypergeometric)
				assert.Empty(t, res.Sources)
			}
		})
	}
}

func TestAssemble_PipCounts(t *testing.T) {
	res, err := Assemble(Request{Format: FormatRequest{Name: "standard"}, Entries: azoriusDeck(t)})
	require.NoError(t, err)

	// Absorb 4W 8U, Wrath 6W, Brainstorm 4U, Swords 4W, Revelation 2W 4U.
	assert.Equal(t, PipCounts{mc.White: 16, mc.Blue: 16}, res.Pips)
	assert.Equal(t, Allocation{mc.White: 12, mc.Blue: 12}, res.Allocation)
}

func TestAssemble_Errors(t *testing.T) {
	_, err := Assemble(Request{Format: FormatRequest{Name: "vintage"}})
	assert.True(t, errors.Is(err, ErrUnknownFormat))
	assert.True(t, IsUserError(err))

	lands := 70
	_, err = Assemble(Request{Format: FormatRequest{Name: "modern", TargetLands: &lands}})
	assert.True(t, errors.Is(err, ErrInvalidTarget))

	_, err = Assemble(Request{
		Format:  FormatRequest{Name: "modern"},
		Entries: []DeckEntry{{Name: "Bad", Cost: mc.MustParse("{G}"), Quantity: -4}},
	})
	assert.True(t, errors.Is(err, ErrInvalidEntry))

	_, err = Assemble(Request{
		Format:         FormatRequest{Name: "modern"},
		Algorithm:      Hypergeometric,
		Hypergeometric: HypergeometricConfig{Turn: 3, Confidence: 2, HandSize: 7},
	})
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestAssemble_Colorless(t *testing.T) {
	res, err := Assemble(Request{
		Format:  FormatRequest{Name: "limited"},
		Entries: []DeckEntry{entry(t, "Myr Enforcer", "{7}", 10)},
	})
	require.NoError(t, err)

	assert.Equal(t, Allocation{mc.Colorless: 17}, res.Allocation)
	assert.Empty(t, res.Identity)
	assert.Contains(t, res.Recommendations, "No colored pips found; all lands allocated to Wastes.")
}

func TestCheckAllocation(t *testing.T) {
	a := analysisOf(PipCounts{mc.Red: 5})

	tests := []struct {
		name  string
		alloc Allocation
	}{
		{"short", Allocation{mc.Red: 16}},
		{"negative", Allocation{mc.Red: 18, mc.Colorless: -1}},
		{"outside identity", Allocation{mc.Red: 16, mc.Green: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkAllocation(Simple, a, 17, tt.alloc)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInternal))
			assert.False(t, IsUserError(err))
			assert.True(t, strings.HasPrefix(err.Error(), "bug:"))
		})
	}

	assert.NoError(t, checkAllocation(Simple, a, 17, Allocation{mc.Red: 17}))
}

func TestRecommendations(t *testing.T) {
	t.Run("pip intensity", func(t *testing.T) {
		res, err := Assemble(Request{
			Format: FormatRequest{Name: "standard"},
			Entries: []DeckEntry{
				entry(t, "Leviathan", "{5}{U}{U}{U}{U}", 4),
				entry(t, "Counterspell", "{U}{U}", 2),
				entry(t, "Kolaghan's Command", "{1}{B}{R}", 4),
				entry(t, "Terminate", "{B}{R}", 4),
				entry(t, "Blightning", "{1}{B}{R}", 1),
				entry(t, "Bloodbraid", "{2}{R}{R}", 3),
			},
		})
		require.NoError(t, err)

		joined := strings.Join(res.Recommendations, "\n")
		assert.Contains(t, joined, "Blue has very high pip density (6 cards with double+ pips)")
		assert.Contains(t, joined, "Red has high pip density (3 cards with {R}{R} or more)")
		assert.NotContains(t, joined, "Black has")
	})

	t.Run("land count out of range", func(t *testing.T) {
		lands := 20
		res, err := Assemble(Request{
			Format:  FormatRequest{Name: "limited", TargetLands: &lands},
			Entries: []DeckEntry{entry(t, "Grizzly Bears", "{1}{G}", 10)},
		})
		require.NoError(t, err)
		assert.Contains(t, res.Recommendations, "20 lands is outside the usual 16-18 range for Limited.")
	})

	t.Run("unreachable hypergeometric target", func(t *testing.T) {
		res, err := Assemble(Request{
			Format:    FormatRequest{Name: "standard"},
			Algorithm: Hypergeometric,
			Entries: []DeckEntry{
				entry(t, "Leviathan", "{5}{U}{U}{U}{U}", 4),
				entry(t, "Goblin Guide", "{R}", 4),
			},
		})
		require.NoError(t, err)

		joined := strings.Join(res.Recommendations, "\n")
		assert.Contains(t, joined, "Drawing 4 blue source(s) by turn 3")
		assert.Contains(t, joined, "only 24 lands are budgeted")
		assert.Equal(t, 24, res.Allocation.Total())
	})
}
