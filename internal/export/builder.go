package export

import (
	"fmt"
	"io"

	"github.com/ramonehamilton/mtg-manabase/internal/charts"
)

// ExportBuilder provides a fluent API for configuring and executing export operations.
//
// Example usage:
//
//	err := NewExportBuilder().
//	    WithFormat(FormatMarkdown).
//	    WithWriter(os.Stdout).
//	    Export(report)
type ExportBuilder struct {
	format     Format
	filePath   string
	prettyJSON bool
	overwrite  bool
	charts     charts.ChartConfig
	writer     io.Writer
	useWriter  bool
}

// NewExportBuilder creates a new ExportBuilder with default settings.
// Default settings:
//   - Format: derived from the file path, JSON for writers
//   - PrettyJSON: true
//   - Overwrite: false
func NewExportBuilder() *ExportBuilder {
	return &ExportBuilder{
		prettyJSON: true,
		charts:     charts.DefaultChartConfig(),
	}
}

// WithFormat sets the export format.
func (b *ExportBuilder) WithFormat(format Format) *ExportBuilder {
	b.format = format
	return b
}

// WithFilePath sets the output file path for the export.
// The directory will be created if it doesn't exist.
func (b *ExportBuilder) WithFilePath(filePath string) *ExportBuilder {
	b.filePath = filePath
	b.useWriter = false
	return b
}

// WithWriter sets an io.Writer as the output destination instead of a file.
func (b *ExportBuilder) WithWriter(w io.Writer) *ExportBuilder {
	b.writer = w
	b.useWriter = true
	return b
}

// WithPrettyJSON toggles indentation for JSON exports.
func (b *ExportBuilder) WithPrettyJSON(pretty bool) *ExportBuilder {
	b.prettyJSON = pretty
	return b
}

// WithOverwrite enables overwriting existing files.
func (b *ExportBuilder) WithOverwrite(overwrite bool) *ExportBuilder {
	b.overwrite = overwrite
	return b
}

// WithChartConfig sets the chart options used for HTML exports.
func (b *ExportBuilder) WithChartConfig(config charts.ChartConfig) *ExportBuilder {
	b.charts = config
	return b
}

// WithDefaultFilename generates a timestamped filename from the deck name and format.
// For example: "azorius-control_20240101_120000.md"
func (b *ExportBuilder) WithDefaultFilename(deckName string) *ExportBuilder {
	format := b.format
	if format == "" {
		format = FormatJSON
	}
	b.filePath = GenerateFilename(deckName, format)
	b.useWriter = false
	return b
}

// Build creates an Options struct from the builder's configuration.
func (b *ExportBuilder) Build() Options {
	return Options{
		Format:     b.format,
		FilePath:   b.filePath,
		PrettyJSON: b.prettyJSON,
		Overwrite:  b.overwrite,
		Charts:     b.charts,
	}
}

// Export executes the export operation with the configured settings.
func (b *ExportBuilder) Export(report *Report) error {
	if err := b.validate(); err != nil {
		return err
	}

	if b.useWriter {
		format := b.format
		if format == "" {
			format = FormatJSON
		}
		if report == nil || report.Result == nil {
			return fmt.Errorf("no data to export")
		}
		return write(b.writer, format, report, b.prettyJSON, b.charts)
	}

	return NewExporter(b.Build()).Export(report)
}

// validate checks that the builder configuration is valid.
func (b *ExportBuilder) validate() error {
	if !b.useWriter && b.filePath == "" {
		return fmt.Errorf("either file path or writer must be set")
	}
	if b.useWriter && b.writer == nil {
		return fmt.Errorf("writer is nil")
	}

	switch b.format {
	case "", FormatCSV, FormatJSON, FormatMarkdown, FormatHTML:
	default:
		return fmt.Errorf("unsupported export format: %s", b.format)
	}

	return nil
}
