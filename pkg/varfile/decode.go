package varfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joho/godotenv"

	"github.com/getmockd/apiconv/internal/jsonutil"
	"github.com/getmockd/apiconv/pkg/collection"
)

// Decode reads variables in the given encoding.
func Decode(data []byte, format Format) ([]collection.Variable, error) {
	switch format {
	case FormatCSV:
		return DecodeCSV(data)
	case FormatJSON:
		return DecodeJSON(data)
	case FormatEnv:
		return DecodeEnv(data)
	default:
		return nil, fmt.Errorf("unsupported variable format %q", format)
	}
}

// DecodeCSV reads a CSV variable list. When the first row contains a "key"
// column it is treated as a header and columns are matched by name; otherwise
// columns are positional in key,value,type,description,enabled order. Rows with
// an empty key are skipped. enabled is true unless the cell is "false".
func DecodeCSV(data []byte) ([]collection.Variable, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := map[string]int{}
	for i, name := range csvHeader {
		columns[name] = i
	}
	start := 0
	if hasKeyColumn(rows[0]) {
		columns = map[string]int{}
		for i, cell := range rows[0] {
			columns[strings.ToLower(strings.TrimSpace(cell))] = i
		}
		start = 1
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var vars []collection.Variable
	for _, row := range rows[start:] {
		key := strings.TrimSpace(cell(row, "key"))
		if key == "" {
			continue
		}
		vars = append(vars, collection.Variable{
			Key:         key,
			Value:       cell(row, "value"),
			Type:        collection.ParseVariableType(cell(row, "type")),
			Description: cell(row, "description"),
			Enabled:     !strings.EqualFold(strings.TrimSpace(cell(row, "enabled")), "false"),
		})
	}
	return vars, nil
}

func hasKeyColumn(row []string) bool {
	for _, cell := range row {
		if strings.EqualFold(strings.TrimSpace(cell), "key") {
			return true
		}
	}
	return false
}

// looseEntry accepts the variable shapes found in the wild: this package's list
// form, Postman environment values, and Thunder Client environment data.
type looseEntry struct {
	Key         string          `json:"key"`
	Name        string          `json:"name"`
	Value       json.RawMessage `json:"value"`
	Type        string          `json:"type"`
	Description json.RawMessage `json:"description"`
	Enabled     json.RawMessage `json:"enabled"`
	Disabled    bool            `json:"disabled"`
	IsSecret    bool            `json:"isSecret"`
	IsDisabled  bool            `json:"isDisabled"`
}

// DecodeJSON reads a JSON variable list. Accepted shapes:
//   - an array of {key, value, type, description, enabled} objects
//   - a Postman environment ({"values": [...]})
//   - a flat {"key": "value"} object, in document order
func DecodeJSON(data []byte) ([]collection.Variable, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	switch data[0] {
	case '[':
		var entries []looseEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("parse json variable list: %w", err)
		}
		return fromEntries(entries), nil
	case '{':
		members, err := jsonutil.ObjectMembers(data)
		if err != nil {
			return nil, fmt.Errorf("parse json variables: %w", err)
		}
		for _, m := range members {
			if m.Key == "values" && bytes.HasPrefix(bytes.TrimSpace(m.Value), []byte("[")) {
				var entries []looseEntry
				if err := json.Unmarshal(m.Value, &entries); err != nil {
					return nil, fmt.Errorf("parse environment values: %w", err)
				}
				return fromEntries(entries), nil
			}
		}
		vars := make([]collection.Variable, 0, len(members))
		for _, m := range members {
			vars = append(vars, collection.Variable{
				Key:     m.Key,
				Value:   jsonutil.ScalarString(m.Value),
				Type:    collection.VariableDefault,
				Enabled: true,
			})
		}
		return vars, nil
	default:
		return nil, errors.New("json variables must be an array or an object")
	}
}

func fromEntries(entries []looseEntry) []collection.Variable {
	vars := make([]collection.Variable, 0, len(entries))
	for _, e := range entries {
		key := e.Key
		if key == "" {
			key = e.Name
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		typ := collection.ParseVariableType(e.Type)
		if e.IsSecret {
			typ = collection.VariableSecret
		}
		vars = append(vars, collection.Variable{
			Key:         key,
			Value:       jsonutil.ScalarString(e.Value),
			Type:        typ,
			Description: jsonutil.ScalarString(e.Description),
			Enabled:     enabledFlag(e.Enabled) && !e.Disabled && !e.IsDisabled,
		})
	}
	return vars
}

// enabledFlag is true unless the raw value is false or "false".
func enabledFlag(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return true
	}
	return !strings.EqualFold(jsonutil.ScalarString(raw), "false")
}

// DecodeEnv reads a .env document. Values are parsed by godotenv; key order and
// "# comment" lines directly above a key (used as its description) come from a
// line scan. All variables are enabled defaults.
func DecodeEnv(data []byte) ([]collection.Variable, error) {
	values, err := godotenv.UnmarshalBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	var (
		vars    []collection.Variable
		seen    = make(map[string]bool)
		comment []string
	)
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			comment = nil
			continue
		case strings.HasPrefix(line, "#"):
			comment = append(comment, strings.TrimSpace(strings.TrimPrefix(line, "#")))
			continue
		}

		key := envKey(line)
		value, ok := values[key]
		if key == "" || !ok || seen[key] {
			comment = nil
			continue
		}
		seen[key] = true
		vars = append(vars, collection.Variable{
			Key:         key,
			Value:       value,
			Type:        collection.VariableDefault,
			Description: strings.Join(comment, "\n"),
			Enabled:     true,
		})
		comment = nil
	}
	if err := sc.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("scan env: %w", err)
	}
	return vars, nil
}

func envKey(line string) string {
	line = strings.TrimPrefix(line, "export ")
	idx := strings.IndexAny(line, "=:")
	if idx <= 0 {
		return ""
	}
	return strings.TrimSpace(line[:idx])
}
