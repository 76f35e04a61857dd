package varfile

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/getmockd/apiconv/internal/jsonutil"
	"github.com/getmockd/apiconv/pkg/collection"
)

// EncodeEnv renders enabled variables as KEY=VALUE lines. A variable with a
// description is preceded by "# description" comment lines. Values are quoted
// only when godotenv would otherwise change them; see envValue.
func EncodeEnv(vars []collection.Variable) string {
	var b strings.Builder
	for _, v := range vars {
		if !v.Enabled {
			continue
		}
		if v.Description != "" {
			for _, line := range strings.Split(v.Description, "\n") {
				b.WriteString("# ")
				b.WriteString(strings.TrimRight(line, "\r"))
				b.WriteByte('\n')
			}
		}
		b.WriteString(v.Key)
		b.WriteByte('=')
		b.WriteString(envValue(v.Value))
		b.WriteByte('\n')
	}
	return b.String()
}

var envEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "$", `\$`)

// envValue quotes s for godotenv. Unquoted values are expanded ($VAR) and
// trimmed, double-quoted ones are expanded and unescaped, single-quoted ones
// are read literally but cannot hold a single quote or end in a backslash.
// A value that starts or ends with a double quote and also holds a single
// quote or a line break does not survive godotenv.
func envValue(s string) string {
	switch {
	case !strings.ContainsFunc(s, unicode.IsSpace) && !strings.Contains(s, "$") &&
		!strings.HasPrefix(s, `"`) && !strings.HasPrefix(s, "'"):
		return s
	case !strings.ContainsAny(s, `$\"`):
		return `"` + envEscaper.Replace(s) + `"`
	case !strings.ContainsAny(s, "'\n\r") && !strings.HasSuffix(s, `\`):
		return "'" + s + "'"
	default:
		return `"` + envEscaper.Replace(s) + `"`
	}
}

// EncodeCSV renders every variable, disabled ones included, as a CSV document
// with a key,value,type,description,enabled header. Data cells are always
// double-quoted.
func EncodeCSV(vars []collection.Variable) string {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteByte('\n')
	for _, v := range vars {
		cells := []string{
			v.Key,
			v.Value,
			string(variableType(v.Type)),
			v.Description,
			strconv.FormatBool(v.Enabled),
		}
		for i, c := range cells {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvQuote(c))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// EncodeJSONMap renders enabled variables as a flat key/value object in
// document order. When a key repeats, the first position and the last value win.
// Secrets are not distinguished from default variables.
func EncodeJSONMap(vars []collection.Variable, indent string) ([]byte, error) {
	index := make(map[string]int)
	var members []jsonutil.Member
	for _, v := range vars {
		if !v.Enabled {
			continue
		}
		m := jsonutil.StringMember(v.Key, v.Value)
		if i, ok := index[v.Key]; ok {
			members[i] = m
			continue
		}
		index[v.Key] = len(members)
		members = append(members, m)
	}
	return jsonutil.WriteObject(members, indent)
}

// listEntry is the JSON shape of one variable in list form.
type listEntry struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// EncodeJSONList renders every variable with all of its fields as a JSON array.
// DecodeJSON reads this form back losslessly (apart from ids).
func EncodeJSONList(vars []collection.Variable, indent string) ([]byte, error) {
	entries := make([]listEntry, len(vars))
	for i, v := range vars {
		entries[i] = listEntry{
			Key:         v.Key,
			Value:       v.Value,
			Type:        string(variableType(v.Type)),
			Description: v.Description,
			Enabled:     v.Enabled,
		}
	}
	return jsonutil.Marshal(entries, indent)
}

func variableType(t collection.VariableType) collection.VariableType {
	if t == collection.VariableSecret {
		return t
	}
	return collection.VariableDefault
}
