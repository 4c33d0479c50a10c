// Package export writes mana base reports as JSON, CSV, Markdown or HTML charts.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/mtg-manabase/internal/charts"
	"github.com/ramonehamilton/mtg-manabase/internal/mtga/manabase"
)

// Format represents the export format.
type Format string

const (
	// FormatCSV represents CSV export format.
	FormatCSV Format = "csv"
	// FormatJSON represents JSON export format.
	FormatJSON Format = "json"
	// FormatMarkdown represents Markdown export format.
	FormatMarkdown Format = "md"
	// FormatHTML represents an HTML chart page.
	FormatHTML Format = "html"
)

// FormatFromPath picks the export format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".csv":
		return FormatCSV, nil
	case ".md", ".markdown":
		return FormatMarkdown, nil
	case ".html", ".htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported export extension %q (use .json, .csv, .md or .html)", ext)
	}
}

// Report is a calculation result stamped for export.
type Report struct {
	ID          string           `json:"id"`
	GeneratedAt time.Time        `json:"generated_at"`
	DeckName    string           `json:"deck_name,omitempty"`
	Result      *manabase.Result `json:"result"`
}

// NewReport wraps a result with a fresh ID and timestamp.
func NewReport(deckName string, r *manabase.Result) *Report {
	return &Report{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		DeckName:    deckName,
		Result:      r,
	}
}

// Options holds configuration for export operations.
type Options struct {
	Format     Format
	FilePath   string
	PrettyJSON bool
	Overwrite  bool
	Charts     charts.ChartConfig
}

// Exporter handles exporting reports to various formats.
type Exporter struct {
	opts Options
}

// NewExporter creates a new Exporter with the given options.
// An empty Format is derived from the file extension.
func NewExporter(opts Options) *Exporter {
	if opts.Charts == (charts.ChartConfig{}) {
		opts.Charts = charts.DefaultChartConfig()
	}
	return &Exporter{opts: opts}
}

// Export writes the report to the configured file.
func (e *Exporter) Export(report *Report) (err error) {
	if report == nil || report.Result == nil {
		return fmt.Errorf("no data to export")
	}

	format := e.opts.Format
	if format == "" {
		if format, err = FormatFromPath(e.opts.FilePath); err != nil {
			return err
		}
	}

	file, err := e.createFile()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return write(file, format, report, e.opts.PrettyJSON, e.opts.Charts)
}

// createFile creates the output file, handling overwrite settings.
func (e *Exporter) createFile() (*os.File, error) {
	if e.opts.FilePath == "" {
		return nil, fmt.Errorf("no export path set")
	}

	// Ensure directory exists
	dir := filepath.Dir(e.opts.FilePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	if _, err := os.Stat(e.opts.FilePath); err == nil && !e.opts.Overwrite {
		return nil, fmt.Errorf("file already exists: %s (use overwrite option to replace)", e.opts.FilePath)
	}

	file, err := os.Create(e.opts.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	return file, nil
}

// WriteFile exports the report to path, choosing the format from its extension.
// Existing files are replaced.
func WriteFile(path string, report *Report) error {
	return NewExporter(Options{
		FilePath:   path,
		PrettyJSON: true,
		Overwrite:  true,
	}).Export(report)
}

// ExportToWriter exports a report to an io.Writer instead of a file.
// Useful for writing to stdout or other streams.
func ExportToWriter(w io.Writer, format Format, report *Report, prettyJSON bool) error {
	if report == nil || report.Result == nil {
		return fmt.Errorf("no data to export")
	}
	return write(w, format, report, prettyJSON, charts.DefaultChartConfig())
}

func write(w io.Writer, format Format, report *Report, prettyJSON bool, chartConfig charts.ChartConfig) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		if prettyJSON {
			encoder.SetIndent("", "  ")
		}
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return nil
	case FormatCSV:
		return writeCSV(w, report.Result)
	case FormatMarkdown:
		if _, err := io.WriteString(w, Markdown(report)); err != nil {
			return fmt.Errorf("failed to write markdown: %w", err)
		}
		return nil
	case FormatHTML:
		return charts.Render(w, report.Result, chartConfig)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// JSON returns the indented JSON encoding of the report.
func JSON(report *Report) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return data, nil
}

// GenerateFilename generates a default filename based on the deck name and format.
func GenerateFilename(deckName string, format Format) string {
	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", slug(deckName), timestamp, format)
}

func slug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "manabase"
	}
	return s
}
