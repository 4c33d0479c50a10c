package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manabase"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

var csvHeader = []string{"color", "land", "count", "pips", "weighted_pips", "pip_ratio", "weighted_ratio", "sources_needed"}

// writeCSV writes one row per allocated basic, then one per dual land group.
func writeCSV(w io.Writer, r *manabase.Result) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	needed := make(map[manacost.Color]int, len(r.Sources))
	for _, s := range r.Sources {
		needed[s.Color] = s.Sources
	}

	for i, land := range r.Lands {
		sources := ""
		if n, ok := needed[land.Color]; ok {
			sources = strconv.Itoa(n)
		}
		row := []string{
			land.Color.Symbol(),
			land.Name,
			strconv.Itoa(land.Count),
			strconv.FormatFloat(r.Pips[land.Color], 'f', -1, 64),
			strconv.FormatFloat(r.WeightedPips[land.Color], 'f', -1, 64),
			fmt.Sprintf("%.4f", r.PipRatios[land.Color]),
			fmt.Sprintf("%.4f", r.WeightedRatios[land.Color]),
			sources,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i, err)
		}
	}

	// Dual rows carry every color they produce and no pip columns.
	for i, d := range r.Duals {
		row := []string{colorSymbols(d.Colors), d.Name, strconv.Itoa(d.Count), "", "", "", "", ""}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV dual row %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
