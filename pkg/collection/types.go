package collection

import "strings"

// SourceFormat records which tool a collection was imported from.
type SourceFormat string

// Known source formats.
const (
	SourcePostman       SourceFormat = "postman"
	SourceInsomnia      SourceFormat = "insomnia"
	SourceThunderClient SourceFormat = "thunderclient"
	SourceRaw           SourceFormat = "raw" // built programmatically or from a bare variable list
)

// IsValid returns true if the source format is known.
func (s SourceFormat) IsValid() bool {
	switch s {
	case SourcePostman, SourceInsomnia, SourceThunderClient, SourceRaw:
		return true
	default:
		return false
	}
}

// VariableType distinguishes plain values from secrets.
type VariableType string

// Variable types.
const (
	VariableDefault VariableType = "default"
	VariableSecret  VariableType = "secret"
)

// ParseVariableType maps vendor type strings onto a VariableType.
// Anything other than "secret" is treated as a default variable.
func ParseVariableType(s string) VariableType {
	if strings.EqualFold(strings.TrimSpace(s), string(VariableSecret)) {
		return VariableSecret
	}
	return VariableDefault
}

// MethodGet is the method given to requests that do not name one.
// Request.Method is otherwise a free string.
const MethodGet = "GET"

// Collection is the unified representation of an API test collection.
type Collection struct {
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	SourceFormat SourceFormat `json:"sourceFormat"`

	Variables []Variable `json:"variables,omitempty"`
	Requests  []Request  `json:"requests,omitempty"` // top-level requests, outside any folder
	Folders   []Folder   `json:"folders,omitempty"`

	// Collection-level hooks, in SourceFormat's dialect.
	PreRequestScript string `json:"preRequestScript,omitempty"`
	TestScript       string `json:"testScript,omitempty"`
}

// Folder groups requests and nested folders.
type Folder struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	Requests []Request `json:"requests,omitempty"`
	Folders  []Folder  `json:"folders,omitempty"`

	PreRequestScript string `json:"preRequestScript,omitempty"`
	TestScript       string `json:"testScript,omitempty"`
}

// Request is a single HTTP request.
type Request struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Method      string   `json:"method"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Headers     []Header `json:"headers,omitempty"`
	Body        string   `json:"body,omitempty"`

	PreRequestScript string `json:"preRequestScript,omitempty"`
	TestScript       string `json:"testScript,omitempty"`
}

// Header is an ordered request header. Disabled headers are kept so they can be
// re-emitted, but execution-oriented exports skip them.
type Header struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}

// Variable is a collection-level key/value pair.
type Variable struct {
	ID          string       `json:"id"`
	Key         string       `json:"key"`
	Value       string       `json:"value"`
	Type        VariableType `json:"type"`
	Description string       `json:"description,omitempty"`
	Enabled     bool         `json:"enabled"`
}

// New creates an empty collection.
func New(name string, source SourceFormat) *Collection {
	return &Collection{
		Name:         name,
		SourceFormat: source,
	}
}

// NormalizeScript returns "" for scripts that are empty after trimming, and the
// script unchanged otherwise.
func NormalizeScript(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return s
}

// EnabledVariables returns the enabled variables in order.
func (c *Collection) EnabledVariables() []Variable {
	out := make([]Variable, 0, len(c.Variables))
	for _, v := range c.Variables {
		if v.Enabled {
			out = append(out, v)
		}
	}
	return out
}

// EnabledHeaders returns the enabled headers in order.
func (r *Request) EnabledHeaders() []Header {
	out := make([]Header, 0, len(r.Headers))
	for _, h := range r.Headers {
		if h.Enabled {
			out = append(out, h)
		}
	}
	return out
}

// HeaderValue returns the value of the first enabled header matching key
// case-insensitively.
func (r *Request) HeaderValue(key string) (string, bool) {
	for _, h := range r.Headers {
		if h.Enabled && strings.EqualFold(h.Key, key) {
			return h.Value, true
		}
	}
	return "", false
}
