package bulk

import (
	"github.com/getmockd/apiconv/pkg/collection"
)

// Field names the part of a collection a match was found in.
type Field string

// Searchable fields.
const (
	FieldVariableKey   Field = "variable.key"
	FieldVariableValue Field = "variable.value"
	FieldURL           Field = "url"
	FieldHeaderKey     Field = "header.key"
	FieldHeaderValue   Field = "header.value"
	FieldBody          Field = "body"
)

// SearchOptions configures Find.
type SearchOptions struct {
	// Term is the text to look for. Required.
	Term string

	// Scope limits the search to variables or requests. Empty means all.
	Scope Scope

	// CaseSensitive disables the default case-insensitive matching.
	CaseSensitive bool

	// Regex treats Term as a regular expression.
	Regex bool

	// PathGlob, when set, restricts request matches to requests whose
	// slash-joined path ("Folder/Sub/Request") matches this doublestar pattern.
	PathGlob string
}

// SearchResult is one field that contains the term.
type SearchResult struct {
	// Location is "Folder / Subfolder / Request" for request fields and
	// "Variables / key" for variable fields.
	Location string `json:"location"`
	Field    Field  `json:"field"`
	// ItemID is the id of the request or variable holding the field.
	ItemID string `json:"itemId"`
	// Key is the header or variable key, empty for url and body matches.
	Key string `json:"key,omitempty"`
	// Value is the full field value.
	Value string `json:"value"`
	// Matches is the number of occurrences in the field.
	Matches int `json:"matches"`
}

// Find scans the collection and returns one result per matching field, in
// document order: variables first, then requests in walk order.
func Find(c *collection.Collection, opts SearchOptions) ([]SearchResult, error) {
	m, err := newMatcher(opts.Term, opts.Regex, opts.CaseSensitive, opts.PathGlob)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNilCollection
	}

	var results []SearchResult
	add := func(loc string, field Field, itemID, key, value string) {
		if n := m.count(value); n > 0 {
			results = append(results, SearchResult{
				Location: loc,
				Field:    field,
				ItemID:   itemID,
				Key:      key,
				Value:    value,
				Matches:  n,
			})
		}
	}

	if opts.Scope.variables() {
		for _, v := range c.Variables {
			loc := variablesLocation + collection.PathSeparator + v.Key
			add(loc, FieldVariableKey, v.ID, v.Key, v.Key)
			add(loc, FieldVariableValue, v.ID, v.Key, v.Value)
		}
	}

	if opts.Scope.requests() {
		collection.Walk(c, func(path []string, _ *collection.Folder, r *collection.Request) bool {
			if r == nil || !m.includes(path, r.Name) {
				return true
			}
			loc := location(path, r.Name)
			add(loc, FieldURL, r.ID, "", r.URL)
			for _, h := range r.Headers {
				add(loc, FieldHeaderKey, r.ID, h.Key, h.Key)
				add(loc, FieldHeaderValue, r.ID, h.Key, h.Value)
			}
			add(loc, FieldBody, r.ID, "", r.Body)
			return true
		})
	}
	return results, nil
}
