package portability

import (
	"github.com/getmockd/apiconv/pkg/collection"
)

// Importer defines the interface for parsing a vendor collection document into
// the unified model.
type Importer interface {
	// Import converts a decoded document in the importer's format. The document
	// has already passed format detection but not structural validation.
	Import(doc *Document) (*ImportResult, error)

	// Format returns the format this importer handles.
	Format() Format
}

// ImportOptions provides configuration for the import process.
type ImportOptions struct {
	// Name overrides the collection name found in the source.
	Name string

	// Format skips detection and parses the document as this format.
	Format Format
}

// ImportResult contains the result of an import operation.
type ImportResult struct {
	// Collection is the parsed collection.
	Collection *collection.Collection

	// Format is the detected (or forced) source format.
	Format Format

	// Warnings are non-fatal issues encountered during import, such as
	// Insomnia sub-environments that the model cannot carry.
	Warnings []string

	RequestCount  int
	FolderCount   int
	VariableCount int
}

// Parse decodes a JSON (or Insomnia YAML) document and converts it into the
// unified model.
func Parse(data []byte) (*collection.Collection, error) {
	result, err := Import(data, nil)
	if err != nil {
		return nil, err
	}
	return result.Collection, nil
}

// ParseDocument converts an already-decoded document into the unified model.
// See NewDocument for the accepted value types.
func ParseDocument(doc any) (*collection.Collection, error) {
	result, err := ImportDocument(doc, nil)
	if err != nil {
		return nil, err
	}
	return result.Collection, nil
}

// Import is a convenience function that auto-detects format and imports.
func Import(data []byte, opts *ImportOptions) (*ImportResult, error) {
	doc, err := DecodeDocument(data)
	if err != nil {
		return nil, err
	}
	return ImportDocument(doc, opts)
}

// ImportDocument detects the format of doc (unless opts forces one) and runs
// the matching importer.
func ImportDocument(v any, opts *ImportOptions) (*ImportResult, error) {
	doc, err := NewDocument(v)
	if err != nil {
		return nil, err
	}

	var format Format
	if opts != nil && opts.Format != FormatUnknown {
		format = opts.Format
	} else if format, err = detect(doc.Tree); err != nil {
		return nil, err
	}

	importer := GetImporter(format)
	if importer == nil {
		return nil, &FormatDetectionError{
			Candidates: []Format{format},
			Message:    "no importer available for format",
		}
	}

	result, err := importer.Import(doc)
	if err != nil {
		return nil, err
	}

	c := result.Collection
	if opts != nil && opts.Name != "" {
		c.Name = opts.Name
	}
	result.Format = format
	result.RequestCount = c.RequestCount()
	result.FolderCount = c.FolderCount()
	result.VariableCount = len(c.Variables)
	return result, nil
}
