package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

// Markdown renders the report as a Markdown document.
func Markdown(report *Report) string {
	r := report.Result
	var b strings.Builder

	title := "Mana Base"
	if report.DeckName != "" {
		title = report.DeckName + " Mana Base"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	fmt.Fprintf(&b, "- **Format:** %s (%d cards, %d lands)\n", r.Format.Format.Name(), r.Format.TotalCards, r.Format.TargetLands)
	fmt.Fprintf(&b, "- **Algorithm:** %s\n", r.Algorithm.DisplayName())
	if len(r.Identity) > 0 {
		identity := colorSymbols(r.Identity)
		if r.GuildName != "" {
			identity += " (" + r.GuildName + ")"
		}
		fmt.Fprintf(&b, "- **Colors:** %s\n", identity)
	}
	if r.Spells > 0 {
		fmt.Fprintf(&b, "- **Spells analyzed:** %d\n", r.Spells)
	}
	if !report.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "- **Generated:** %s\n", report.GeneratedAt.Format("2006-01-02 15:04 MST"))
	}

	b.WriteString("\n## Lands\n\n| Land | Color | Count |\n|---|---|---:|\n")
	for _, land := range r.Lands {
		fmt.Fprintf(&b, "| %s | %s | %d |\n", land.Name, land.Color.Symbol(), land.Count)
	}
	for _, d := range r.Duals {
		fmt.Fprintf(&b, "| %s | %s | %d |\n", d.Name, colorSymbols(d.Colors), d.Count)
	}
	fmt.Fprintf(&b, "| **Total** | | **%d** |\n", r.Allocation.Total()+r.Duals.Total())

	if len(r.Identity) > 0 {
		b.WriteString("\n## Pips\n\n| Color | Pips | Share | Weighted Share | Max per Card |\n|---|---:|---:|---:|---:|\n")
		for _, c := range r.Identity {
			fmt.Fprintf(&b, "| %s | %s | %.1f%% | %.1f%% | %d |\n",
				c.Name(), formatPips(r.Pips[c]), r.PipRatios[c]*100, r.WeightedRatios[c]*100, r.MaxPips[c])
		}
	}

	if len(r.Sources) > 0 && r.Hypergeometric != nil {
		fmt.Fprintf(&b, "\n## Sources by Turn %d (%.0f%% confidence)\n\n", r.Hypergeometric.Turn, r.Hypergeometric.Confidence*100)
		b.WriteString("| Color | Pips Needed | Sources | Probability |\n|---|---:|---:|---:|\n")
		for _, s := range r.Sources {
			sources := fmt.Sprintf("%d", s.Sources)
			if !s.Reachable {
				sources += " (unreachable)"
			}
			fmt.Fprintf(&b, "| %s | %d | %s | %.1f%% |\n", s.Color.Name(), s.Pips, sources, s.Probability*100)
		}
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\n## Recommendations\n\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}

	return b.String()
}

// RenderTerminal styles Markdown for an ANSI terminal.
func RenderTerminal(markdown string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

func colorSymbols(colors []manacost.Color) string {
	var b strings.Builder
	for _, c := range colors {
		b.WriteString(c.Symbol())
	}
	return b.String()
}

func formatPips(p float64) string {
	if p == float64(int(p)) {
		return fmt.Sprintf("%d", int(p))
	}
	return fmt.Sprintf("%.1f", p)
}
