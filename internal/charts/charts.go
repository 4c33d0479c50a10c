// Package charts renders a mana base result as an interactive HTML page.
package charts

import (
	"fmt"
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manabase"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manacost"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string // Page title prefix
	Width      string // Chart width (e.g., "900px")
	Height     string // Chart height (e.g., "500px")
	Theme      string // Chart theme
	ShowLegend bool   // Show legend
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:      "Mana Base",
		Width:      "900px",
		Height:     "500px",
		Theme:      "light",
		ShowLegend: true,
	}
}

// ManaColors maps each color to the swatch used in charts.
var ManaColors = map[manacost.Color]string{
	manacost.White:     "#F8E7B9",
	manacost.Blue:      "#0E68AB",
	manacost.Black:     "#3C3430",
	manacost.Red:       "#D3202A",
	manacost.Green:     "#00733E",
	manacost.Colorless: "#A59E9A",
}

func (config ChartConfig) globalOptions(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: config.Title,
			Width:     config.Width,
			Height:    config.Height,
			Theme:     config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show: opts.Bool(true),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
			Top:  "bottom",
		}),
	}
}

// LandPie shows the land allocation as basic land slices plus one per dual group.
func LandPie(r *manabase.Result, config ChartConfig) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(config.globalOptions(
		"Land Allocation",
		fmt.Sprintf("%s, %d lands (%s)", r.Format.Format.Name(), r.Format.TargetLands, r.Algorithm.DisplayName()),
	)...)

	data := make([]opts.PieData, 0, len(r.Lands))
	for _, land := range r.Lands {
		data = append(data, opts.PieData{
			Name:      land.Name,
			Value:     land.Count,
			ItemStyle: &opts.ItemStyle{Color: ManaColors[land.Color]},
		})
	}

	for _, d := range r.Duals {
		data = append(data, opts.PieData{Name: d.Name, Value: d.Count})
	}

	pie.AddSeries("Lands", data).
		SetSeriesOptions(
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"40%", "70%"},
			}),
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}: {c}",
			}),
		)
	return pie
}

// PipBar compares raw and cmc-weighted pip shares per color.
func PipBar(r *manabase.Result, config ChartConfig) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(config.globalOptions("Pip Distribution", "share of colored pips, raw vs cmc-weighted")...)

	labels := make([]string, 0, len(r.Identity))
	raw := make([]opts.BarData, 0, len(r.Identity))
	weighted := make([]opts.BarData, 0, len(r.Identity))
	for _, c := range r.Identity {
		labels = append(labels, c.Name())
		style := &opts.ItemStyle{Color: ManaColors[c]}
		raw = append(raw, opts.BarData{Value: percent(r.PipRatios[c]), ItemStyle: style})
		weighted = append(weighted, opts.BarData{Value: percent(r.WeightedRatios[c])})
	}

	bar.SetXAxis(labels).
		AddSeries("Raw %", raw).
		AddSeries("Weighted %", weighted).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(true),
			}),
		)
	return bar
}

// SourceBar compares hypergeometric source minimums with the allocation.
// It returns nil when the result carries no source requirements.
func SourceBar(r *manabase.Result, config ChartConfig) *charts.Bar {
	if len(r.Sources) == 0 {
		return nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(config.globalOptions(
		"Sources Needed",
		fmt.Sprintf("turn %d at %.0f%% confidence", r.Hypergeometric.Turn, r.Hypergeometric.Confidence*100),
	)...)

	have := r.ColorSources()
	labels := make([]string, 0, len(r.Sources))
	needed := make([]opts.BarData, 0, len(r.Sources))
	allocated := make([]opts.BarData, 0, len(r.Sources))
	for _, s := range r.Sources {
		labels = append(labels, s.Color.Name())
		needed = append(needed, opts.BarData{Value: s.Sources})
		allocated = append(allocated, opts.BarData{Value: have[s.Color], ItemStyle: &opts.ItemStyle{Color: ManaColors[s.Color]}})
	}

	bar.SetXAxis(labels).
		AddSeries("Needed", needed).
		AddSeries("Allocated", allocated)
	return bar
}

// Render writes every chart for r to w as one HTML page.
func Render(w io.Writer, r *manabase.Result, config ChartConfig) error {
	page := components.NewPage()
	page.AddCharts(LandPie(r, config))
	if len(r.Identity) > 0 {
		page.AddCharts(PipBar(r, config))
	}
	if bar := SourceBar(r, config); bar != nil {
		page.AddCharts(bar)
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// RenderFile writes the chart page to outputPath.
func RenderFile(r *manabase.Result, config ChartConfig, outputPath string) (err error) {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return Render(f, r, config)
}

func percent(ratio float64) float64 {
	return float64(int(ratio*1000+0.5)) / 10
}
