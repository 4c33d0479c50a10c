package manabase

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mc "github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

// analysisOf builds an analysis whose raw and weighted pips are both pips.
func analysisOf(pips PipCounts) Analysis {
	a := Analysis{
		Pips:      pips,
		Weighted:  make(PipCounts, len(pips)),
		MaxPips:   make(map[mc.Color]int),
		Intensity: make(map[mc.Color]int),
	}
	for c, v := range pips {
		a.Weighted[c] = v
	}
	for _, c := range mc.Colors {
		if pips[c] > 0 {
			a.Identity = append(a.Identity, c)
			a.MaxPips[c] = 1
		}
	}
	return a
}

func target(t *testing.T, cards, lands int) FormatTarget {
	t.Helper()
	ft, err := CustomFormat(cards, lands)
	require.NoError(t, err)
	return ft
}

func TestSimpleCalculator(t *testing.T) {
	tests := []struct {
		name  string
		pips  PipCounts
		lands int
		want  Allocation
	}{
		{"exact split", PipCounts{mc.White: 10, mc.Blue: 5}, 15, Allocation{mc.White: 10, mc.Blue: 5}},
		{"no remainder", PipCounts{mc.White: 7, mc.Blue: 3}, 10, Allocation{mc.White: 7, mc.Blue: 3}},
		// Quotas 2.5/1.25/1.25: white's .5 remainder takes the spare land.
		{"rounded", PipCounts{mc.White: 2, mc.Blue: 1, mc.Black: 1}, 5, Allocation{mc.White: 3, mc.Blue: 1, mc.Black: 1}},
		{"tie to blue", PipCounts{mc.White: 2, mc.Blue: 1, mc.Black: 1}, 6, Allocation{mc.White: 3, mc.Blue: 2, mc.Black: 1}},
		{"mono", PipCounts{mc.Red: 22}, 17, Allocation{mc.Red: 17}},
		{"no lands", PipCounts{mc.Red: 3, mc.Green: 3}, 0, Allocation{mc.Red: 0, mc.Green: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SimpleCalculator{}.Calculate(analysisOf(tt.pips), target(t, 60, tt.lands))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Calculate() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCMCWeighted_DiffersFromSimple(t *testing.T) {
	cheapWhite, err := Analyze([]DeckEntry{
		entry(t, "Savannah Lions", "{W}", 4),
		entry(t, "Dream Trawler Jr", "{4}{U}", 4),
	})
	require.NoError(t, err)
	cheapBlue, err := Analyze([]DeckEntry{
		entry(t, "Serra Angel Jr", "{4}{W}", 4),
		entry(t, "Delver", "{U}", 4),
	})
	require.NoError(t, err)
	require.Equal(t, cheapWhite.Pips, cheapBlue.Pips)

	ft := target(t, 40, 16)

	simpleA, err := SimpleCalculator{}.Calculate(cheapWhite, ft)
	require.NoError(t, err)
	simpleB, err := SimpleCalculator{}.Calculate(cheapBlue, ft)
	require.NoError(t, err)
	assert.Equal(t, simpleA, simpleB)
	assert.Equal(t, Allocation{mc.White: 8, mc.Blue: 8}, simpleA)

	weightedA, err := CMCWeightedCalculator{}.Calculate(cheapWhite, ft)
	require.NoError(t, err)
	weightedB, err := CMCWeightedCalculator{}.Calculate(cheapBlue, ft)
	require.NoError(t, err)
	assert.Equal(t, Allocation{mc.White: 3, mc.Blue: 13}, weightedA)
	assert.Equal(t, Allocation{mc.White: 13, mc.Blue: 3}, weightedB)
}

func TestCalculators_Colorless(t *testing.T) {
	a, err := Analyze([]DeckEntry{
		entry(t, "Ornithopter", "{0}", 4),
		entry(t, "Wurmcoil Engine", "{6}", 2),
		entry(t, "Eldrazi Mimic", "{2}", 4),
	})
	require.NoError(t, err)

	for _, algo := range Algorithms {
		t.Run(algo.String(), func(t *testing.T) {
			got, err := Calculate(algo, a, target(t, 40, 17), HypergeometricConfig{})
			require.NoError(t, err)
			assert.Equal(t, Allocation{mc.Colorless: 17}, got)
		})
	}
}

func TestCalculators_HybridOnly(t *testing.T) {
	a, err := Analyze([]DeckEntry{entry(t, "Hybrid Bear", "{W/U}{W/U}", 1)})
	require.NoError(t, err)
	assert.Equal(t, 2, entry(t, "Hybrid Bear", "{W/U}{W/U}", 1).Cost.CMC())

	for _, algo := range []Algorithm{Simple, CMCWeighted} {
		got, err := Calculate(algo, a, target(t, 40, 2), HypergeometricConfig{})
		require.NoError(t, err)
		assert.Equal(t, Allocation{mc.White: 1, mc.Blue: 1}, got, algo.String())
	}
}

func TestCalculators_InvalidTarget(t *testing.T) {
	a := analysisOf(PipCounts{mc.Green: 4})
	bad := FormatTarget{Format: Custom, TotalCards: 40, TargetLands: 41}

	for _, algo := range Algorithms {
		_, err := Calculate(algo, a, bad, HypergeometricConfig{})
		assert.True(t, errors.Is(err, ErrInvalidTarget), "%s: %v", algo, err)
	}

	bad.TargetLands = -3
	_, err := Calculate(Simple, a, bad, HypergeometricConfig{})
	assert.True(t, errors.Is(err, ErrInvalidTarget))
}

func TestCalculators_InconsistentAnalysis(t *testing.T) {
	a := Analysis{
		Pips:     PipCounts{mc.White: 3, mc.Red: 2},
		Weighted: PipCounts{mc.White: 3, mc.Red: 2},
		Identity: []mc.Color{mc.White},
	}
	for _, algo := range Algorithms {
		_, err := Calculate(algo, a, target(t, 60, 24), HypergeometricConfig{})
		assert.True(t, errors.Is(err, ErrInconsistentAnalysis), "%s: %v", algo, err)
	}
}

func TestCalculators_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 300; i++ {
		pips := make(PipCounts)
		for _, c := range mc.Colors {
			if rng.Intn(3) == 0 {
				continue
			}
			pips[c] = float64(rng.Intn(40)) / 2
		}
		a := analysisOf(pips)
		for c := range a.MaxPips {
			a.MaxPips[c] = 1 + rng.Intn(3)
			a.Weighted[c] = pips[c] * float64(1+rng.Intn(6))
		}

		cards := 40 + rng.Intn(61)
		ft := target(t, cards, rng.Intn(cards+1))

		allowed := make(map[mc.Color]bool)
		for _, c := range a.Identity {
			allowed[c] = true
		}
		if len(a.Identity) == 0 {
			allowed[mc.Colorless] = true
		}

		for _, algo := range Algorithms {
			got, err := Calculate(algo, a, ft, HypergeometricConfig{})
			require.NoError(t, err)

			if got.Total() != ft.TargetLands {
				t.Fatalf("%s pips=%v target=%d: sum %d", algo, pips, ft.TargetLands, got.Total())
			}
			for c, n := range got {
				if n < 0 {
					t.Fatalf("%s pips=%v: negative count %d for %s", algo, pips, n, c)
				}
				if !allowed[c] {
					t.Fatalf("%s pips=%v: %s outside identity", algo, pips, c)
				}
			}

			again, err := Calculate(algo, a, ft, HypergeometricConfig{})
			require.NoError(t, err)
			if diff := cmp.Diff(got, again); diff != "" {
				t.Fatalf("%s is not deterministic:\n%s", algo, diff)
			}
		}
	}
}

func TestSimple_Monotone(t *testing.T) {
	ft := target(t, 60, 24)
	prev := -1
	for white := 1.0; white <= 30; white++ {
		got, err := SimpleCalculator{}.Calculate(analysisOf(PipCounts{mc.White: white, mc.Blue: 6, mc.Red: 4}), ft)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, got[mc.White], prev, "white=%v", white)
		prev = got[mc.White]
	}
}

func TestCalculate_Concurrent(t *testing.T) {
	a, err := Analyze([]DeckEntry{
		entry(t, "Lightning Helix", "{R}{W}", 4),
		entry(t, "Boros Charm", "{R}{W}", 4),
		entry(t, "Goblin Guide", "{R}", 4),
		entry(t, "Thalia", "{1}{W}", 4),
		entry(t, "Ajani", "{2}{R/W}{R/W}", 2),
	})
	require.NoError(t, err)
	ft := target(t, 60, 22)

	want := make(map[Algorithm]Allocation)
	for _, algo := range Algorithms {
		want[algo], err = Calculate(algo, a, ft, HypergeometricConfig{})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	errs := make(chan string, 64)
	for i := 0; i < 16; i++ {
		for _, algo := range Algorithms {
			wg.Add(1)
			go func(algo Algorithm) {
				defer wg.Done()
				got, err := Calculate(algo, a, ft, HypergeometricConfig{})
				if err != nil {
					errs <- err.Error()
					return
				}
				if diff := cmp.Diff(want[algo], got); diff != "" {
					errs <- diff
				}
			}(algo)
		}
	}
	wg.Wait()
	close(errs)

	for msg := range errs {
		t.Error(msg)
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := map[string]Algorithm{
		"":               Simple,
		"simple":         Simple,
		"CMC":            CMCWeighted,
		"cmc-weighted":   CMCWeighted,
		"hypergeo":       Hypergeometric,
		"Hypergeometric": Hypergeometric,
	}
	for in, want := range tests {
		got, err := ParseAlgorithm(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAlgorithm("karsten")
	assert.True(t, errors.Is(err, ErrUnknownAlgorithm))

	_, err = NewCalculator(Algorithm(9), HypergeometricConfig{})
	assert.True(t, errors.Is(err, ErrUnknownAlgorithm))
}
