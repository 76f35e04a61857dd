// Package varfile encodes and decodes collection variable lists as .env, CSV
// and JSON documents.
//
// The encoders back the env, csv and json conversion targets of package
// portability; encoders and decoders together back the variable export/import
// bulk operations. Decoded variables carry no ids: callers assign their own.
package varfile

import (
	"fmt"
	"strings"
)

// Format is a variable file encoding.
type Format string

// Supported encodings.
const (
	FormatEnv  Format = "env"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat parses an encoding name, accepting file extensions with or
// without the leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "env", "dotenv":
		return FormatEnv, nil
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported variable format %q (want env, csv or json)", s)
	}
}

// csvHeader is the column layout written by EncodeCSV.
var csvHeader = []string{"key", "value", "type", "description", "enabled"}
