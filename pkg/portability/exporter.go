package portability

import (
	"errors"

	"github.com/getmockd/apiconv/pkg/collection"
)

// Exporter defines the interface for rendering a collection in a vendor format.
type Exporter interface {
	// Export renders c. It must not modify c. The returned warnings describe
	// lossy steps (script lines left for manual review, dropped structure).
	Export(c *collection.Collection, opts *ExportOptions) (data []byte, warnings []string, err error)

	// Format returns the format this exporter produces.
	Format() Format
}

// ExportOptions provides configuration for the export process.
type ExportOptions struct {
	// Format is the output format. Required.
	Format Format

	// Compact disables indentation of JSON output.
	Compact bool
}

// defaultIndent is used for JSON output unless Compact is set.
const defaultIndent = "  "

func (o *ExportOptions) indent() string {
	if o != nil && o.Compact {
		return ""
	}
	return defaultIndent
}

// ExportResult contains the result of an export operation.
type ExportResult struct {
	// Data is the exported bytes.
	Data []byte

	// Format is the format that was used.
	Format Format

	// Warnings are non-fatal issues found while exporting.
	Warnings []string

	RequestCount  int
	FolderCount   int
	VariableCount int
}

// errNilCollection is returned when converting a nil collection.
var errNilCollection = errors.New("collection is nil")

// Convert renders c in the target format with default options.
func Convert(c *collection.Collection, target Format) (string, error) {
	result, err := Export(c, &ExportOptions{Format: target})
	if err != nil {
		return "", err
	}
	return string(result.Data), nil
}

// Export is a convenience function that exports to a specified format.
func Export(c *collection.Collection, opts *ExportOptions) (*ExportResult, error) {
	if opts == nil {
		opts = &ExportOptions{}
	}
	format := opts.Format
	if !format.CanExport() {
		return nil, &UnsupportedTargetFormatError{Format: format}
	}
	if c == nil {
		return nil, errNilCollection
	}

	exporter := GetExporter(format)
	if exporter == nil {
		return nil, &UnsupportedTargetFormatError{Format: format}
	}

	data, warnings, err := exporter.Export(c, opts)
	if err != nil {
		return nil, err
	}

	return &ExportResult{
		Data:          data,
		Format:        format,
		Warnings:      warnings,
		RequestCount:  c.RequestCount(),
		FolderCount:   c.FolderCount(),
		VariableCount: len(c.Variables),
	}, nil
}
