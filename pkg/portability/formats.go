package portability

import (
	"fmt"
	"strings"

	"github.com/getmockd/apiconv/pkg/collection"
	"github.com/getmockd/apiconv/pkg/script"
)

// Format represents a supported import/export format.
type Format string

// Supported formats for import/export.
const (
	FormatUnknown       Format = ""
	FormatPostman       Format = "postman"       // Postman Collection v2.x
	FormatInsomnia      Format = "insomnia"      // Insomnia export v4 (JSON) or v5 (YAML)
	FormatThunderClient Format = "thunderclient" // Thunder Client collection
	FormatEnv           Format = "env"           // .env file of enabled variables
	FormatCSV           Format = "csv"           // CSV of all variables
	FormatJSON          Format = "json"          // flat JSON object of enabled variables
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known format.
func (f Format) IsValid() bool {
	switch f {
	case FormatPostman, FormatInsomnia, FormatThunderClient, FormatEnv, FormatCSV, FormatJSON:
		return true
	default:
		return false
	}
}

// CanImport returns true if collections can be parsed from this format.
func (f Format) CanImport() bool {
	switch f {
	case FormatPostman, FormatInsomnia, FormatThunderClient:
		return true
	default:
		return false
	}
}

// CanExport returns true if collections can be converted to this format.
func (f Format) CanExport() bool {
	return f.IsValid()
}

// IsVariableOnly reports whether the format carries variables and nothing else.
func (f Format) IsVariableOnly() bool {
	switch f {
	case FormatEnv, FormatCSV, FormatJSON:
		return true
	default:
		return false
	}
}

// DisplayName returns the vendor's name for the format.
func (f Format) DisplayName() string {
	switch f {
	case FormatPostman:
		return "Postman"
	case FormatInsomnia:
		return "Insomnia"
	case FormatThunderClient:
		return "Thunder Client"
	case FormatEnv:
		return ".env"
	case FormatCSV:
		return "CSV"
	case FormatJSON:
		return "JSON"
	default:
		return "unknown"
	}
}

// Extension returns the conventional file extension for the format, with the
// leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatEnv:
		return ".env"
	case FormatCSV:
		return ".csv"
	default:
		return ".json"
	}
}

// Dialect returns the script dialect used by the format's hooks. Variable-only
// formats carry no scripts and return script.DialectNone.
func (f Format) Dialect() script.Dialect {
	switch f {
	case FormatPostman:
		return script.DialectPostman
	case FormatInsomnia:
		return script.DialectInsomnia
	case FormatThunderClient:
		return script.DialectThunderClient
	default:
		return script.DialectNone
	}
}

// SourceFormat maps an importable format to the collection's source tag.
func (f Format) SourceFormat() collection.SourceFormat {
	switch f {
	case FormatPostman:
		return collection.SourcePostman
	case FormatInsomnia:
		return collection.SourceInsomnia
	case FormatThunderClient:
		return collection.SourceThunderClient
	default:
		return collection.SourceRaw
	}
}

// dialectOf returns the dialect a collection's scripts are stored in.
func dialectOf(source collection.SourceFormat) script.Dialect {
	switch source {
	case collection.SourcePostman:
		return script.DialectPostman
	case collection.SourceInsomnia:
		return script.DialectInsomnia
	case collection.SourceThunderClient:
		return script.DialectThunderClient
	default:
		return script.DialectNone
	}
}

// AllFormats returns every known format, import formats first.
func AllFormats() []Format {
	return []Format{FormatPostman, FormatInsomnia, FormatThunderClient, FormatEnv, FormatCSV, FormatJSON}
}

// ExportFormats returns the formats collections can be converted to.
func ExportFormats() []Format {
	var out []Format
	for _, f := range AllFormats() {
		if f.CanExport() {
			out = append(out, f)
		}
	}
	return out
}

// ParseFormat parses a format name. Common aliases and file extensions are
// accepted ("thunder-client", "tc", ".env", "dotenv").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "postman", "postman_collection", "postman-collection":
		return FormatPostman, nil
	case "insomnia", "insomnia-v4", "insomnia-v5":
		return FormatInsomnia, nil
	case "thunderclient", "thunder-client", "thunder", "tc":
		return FormatThunderClient, nil
	case "env", "dotenv":
		return FormatEnv, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown format %q", s)
	}
}
