package portability

import (
	"github.com/getmockd/apiconv/pkg/collection"
	"github.com/getmockd/apiconv/pkg/varfile"
)

// VariablesExporter renders only a collection's variables, as .env, CSV or a
// flat JSON object. Requests and scripts are not part of these formats.
type VariablesExporter struct {
	format Format
}

// NewVariablesExporter returns the exporter for a variable-only format, or nil
// for any other format.
func NewVariablesExporter(format Format) *VariablesExporter {
	if !format.IsVariableOnly() {
		return nil
	}
	return &VariablesExporter{format: format}
}

// Export encodes the variables. .env and JSON carry enabled variables only;
// CSV carries all of them with their enabled flag.
func (e *VariablesExporter) Export(c *collection.Collection, opts *ExportOptions) ([]byte, []string, error) {
	switch e.format {
	case FormatEnv:
		return []byte(varfile.EncodeEnv(c.Variables)), nil, nil
	case FormatCSV:
		return []byte(varfile.EncodeCSV(c.Variables)), nil, nil
	default:
		data, err := varfile.EncodeJSONMap(c.Variables, opts.indent())
		if err != nil {
			return nil, nil, err
		}
		return data, nil, nil
	}
}

// Format returns the variable format.
func (e *VariablesExporter) Format() Format {
	return e.format
}

// init registers the variable-only exporters.
func init() {
	for _, f := range []Format{FormatEnv, FormatCSV, FormatJSON} {
		RegisterExporter(NewVariablesExporter(f))
	}
}
