package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manabase"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
	"github.com/ramonehamilton/mtg-manabase/internal/storage"
)

const barWidth = 30

// Renderer writes styled output.
type Renderer struct {
	w      io.Writer
	styles Styles
}

// NewRenderer creates a renderer writing to w with the default styles.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w, styles: DefaultStyles()}
}

// Result prints the full calculation summary.
func (r *Renderer) Result(deckName string, res *manabase.Result) error {
	var b strings.Builder

	title := "Mana Base"
	if deckName != "" {
		title = deckName + " · " + title
	}
	b.WriteString(r.styles.Title.Render(title))
	b.WriteString("\n")

	r.field(&b, "Format", fmt.Sprintf("%s (%d cards, %d lands)", res.Format.Format.Name(), res.Format.TotalCards, res.Format.TargetLands))
	r.field(&b, "Algorithm", res.Algorithm.DisplayName())
	if len(res.Identity) > 0 {
		colors := symbols(res.Identity)
		if res.GuildName != "" {
			colors += " " + r.styles.Muted.Render("("+res.GuildName+")")
		}
		r.field(&b, "Colors", colors)
	}
	if res.Spells > 0 {
		r.field(&b, "Spells", strconv.Itoa(res.Spells))
	}

	b.WriteString(r.styles.Section.Render("Lands"))
	b.WriteString("\n")
	b.WriteString(r.landBars(res))

	if len(res.Identity) > 0 {
		b.WriteString(r.styles.Section.Render("Pips"))
		b.WriteString("\n")
		b.WriteString(r.pipTable(res))
		b.WriteString("\n")
	}

	if len(res.Sources) > 0 && res.Hypergeometric != nil {
		b.WriteString(r.styles.Section.Render(fmt.Sprintf("Sources by turn %d at %.0f%%", res.Hypergeometric.Turn, res.Hypergeometric.Confidence*100)))
		b.WriteString("\n")
		for _, s := range res.Sources {
			line := fmt.Sprintf("%-10s %2d sources for %d pip(s)  %5.1f%%", s.Color.Name(), s.Sources, s.Pips, s.Probability*100)
			if !s.Reachable {
				line = r.styles.Warning.Render(line + "  unreachable")
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if len(res.Recommendations) > 0 {
		b.WriteString(r.styles.Section.Render("Recommendations"))
		b.WriteString("\n")
		for _, rec := range res.Recommendations {
			b.WriteString(r.styles.Warning.Render("• ") + rec + "\n")
		}
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) field(b *strings.Builder, label, value string) {
	b.WriteString(r.styles.Label.Render(label))
	b.WriteString(r.styles.Value.Render(value))
	b.WriteString("\n")
}

func (r *Renderer) landBars(res *manabase.Result) string {
	var b strings.Builder
	total := res.Allocation.Total()
	for _, land := range res.Lands {
		width := 0
		if total > 0 {
			width = land.Count * barWidth / total
		}
		if land.Count > 0 && width == 0 {
			width = 1
		}
		fmt.Fprintf(&b, "%-9s %3d  %s\n", land.Name, land.Count, Swatch(land.Color).Render(strings.Repeat("█", width)))
	}
	for _, d := range res.Duals {
		var swatch strings.Builder
		for _, c := range d.Colors {
			swatch.WriteString(Swatch(c).Render("▌"))
		}
		fmt.Fprintf(&b, "%-9s %3d  %s %s\n", "Dual", d.Count, swatch.String(), d.Name)
	}
	fmt.Fprintf(&b, "%-9s %3d\n", "Total", total+res.Duals.Total())
	return b.String()
}

func (r *Renderer) pipTable(res *manabase.Result) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.styles.Border).
		Headers("Color", "Pips", "Share", "Weighted", "Max/Card", "Heavy").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true)
			}
			if col > 0 {
				return style.Align(lipgloss.Right)
			}
			return style
		})

	for _, c := range res.Identity {
		t.Row(
			Swatch(c).Render(c.Name()),
			formatPips(res.Pips[c]),
			fmt.Sprintf("%.1f%%", res.PipRatios[c]*100),
			fmt.Sprintf("%.1f%%", res.WeightedRatios[c]*100),
			strconv.Itoa(res.MaxPips[c]),
			strconv.Itoa(res.Intensity[c]),
		)
	}
	return t.String()
}

// Warnings prints non-fatal messages such as unresolved card names.
func (r *Renderer) Warnings(warnings []string) error {
	if len(warnings) == 0 {
		return nil
	}
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(r.styles.Warning.Render("warning: "+w) + "\n")
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

// Error prints a failure message.
func (r *Renderer) Error(err error) error {
	_, werr := io.WriteString(r.w, r.styles.Error.Render("error: "+err.Error())+"\n")
	return werr
}

// Cost prints the symbols, mana value and pips of a parsed mana cost.
func (r *Renderer) Cost(raw string, cost manacost.Cost) error {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render(raw))
	b.WriteString("\n")

	r.field(&b, "Mana value", strconv.Itoa(cost.CMC()))
	if cost.IsEmpty() {
		r.field(&b, "Symbols", "none")
	} else {
		parts := make([]string, 0, len(cost.Symbols))
		for _, s := range cost.Symbols {
			parts = append(parts, fmt.Sprintf("%s %s", s.String(), r.styles.Muted.Render(s.Kind.String())))
		}
		r.field(&b, "Symbols", strings.Join(parts, ", "))
	}

	pips := cost.Pips()
	if len(pips) > 0 {
		var parts []string
		for _, c := range manacost.AllColors {
			if p, ok := pips[c]; ok {
				parts = append(parts, Swatch(c).Render(c.Symbol())+" "+formatPips(p))
			}
		}
		r.field(&b, "Pips", strings.Join(parts, "  "))
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

// Card prints a looked-up card.
func (r *Renderer) Card(card *storage.CachedCard) error {
	var b strings.Builder
	b.WriteString(r.styles.Title.Render(card.Name))
	b.WriteString("\n")

	cost := card.ManaCost
	if cost == "" {
		cost = "none"
	}
	r.field(&b, "Cost", cost)
	r.field(&b, "Mana value", strconv.FormatFloat(card.CMC, 'f', -1, 64))
	r.field(&b, "Type", card.TypeLine)
	if len(card.ColorIdentity) > 0 {
		r.field(&b, "Identity", strings.Join(card.ColorIdentity, ""))
	}
	if card.IsLand {
		r.field(&b, "Land", "yes")
	}

	_, err := io.WriteString(r.w, b.String())
	return err
}

// Formats prints the format presets.
func (r *Renderer) Formats() error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(r.styles.Border).
		Headers("Format", "Cards", "Lands", "Range", "Description")

	for _, f := range manabase.Formats {
		low, high := f.RecommendedLandRange()
		t.Row(f.Name(), strconv.Itoa(f.DefaultCards()), strconv.Itoa(f.DefaultLands()), fmt.Sprintf("%d-%d", low, high), f.Description())
	}

	_, err := io.WriteString(r.w, t.String()+"\n")
	return err
}

func symbols(colors []manacost.Color) string {
	var b strings.Builder
	for _, c := range colors {
		b.WriteString(Swatch(c).Render(c.Symbol()))
	}
	return b.String()
}

func formatPips(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
