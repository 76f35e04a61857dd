package bulk

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/getmockd/apiconv/pkg/collection"
)

// Scope selects which parts of a collection are searched.
type Scope string

// Search scopes.
const (
	ScopeAll       Scope = "all"
	ScopeVariables Scope = "variables"
	ScopeRequests  Scope = "requests"
)

// ParseScope parses a scope name. The empty string means ScopeAll.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return ScopeAll, nil
	case "variables", "vars", "variable":
		return ScopeVariables, nil
	case "requests", "request":
		return ScopeRequests, nil
	default:
		return "", fmt.Errorf("unknown scope %q (want all, variables or requests)", s)
	}
}

func (s Scope) variables() bool { return s == "" || s == ScopeAll || s == ScopeVariables }
func (s Scope) requests() bool  { return s == "" || s == ScopeAll || s == ScopeRequests }

// Errors returned for unusable options.
var (
	ErrEmptyTerm     = errors.New("search term is empty")
	ErrNilCollection = errors.New("collection is nil")
)

// PatternError reports a search term or path glob that could not be compiled.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// matcher finds occurrences of one term in field values.
type matcher struct {
	re      *regexp.Regexp
	literal bool
	glob    string
}

func newMatcher(term string, regex, caseSensitive bool, glob string) (*matcher, error) {
	if term == "" {
		return nil, ErrEmptyTerm
	}
	pattern := term
	if !regex {
		pattern = regexp.QuoteMeta(term)
	}
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &PatternError{Pattern: term, Err: err}
	}
	if glob != "" && !doublestar.ValidatePattern(glob) {
		return nil, &PatternError{Pattern: glob, Err: doublestar.ErrBadPattern}
	}
	return &matcher{re: re, literal: !regex, glob: glob}, nil
}

// count returns the number of non-overlapping occurrences in s.
func (m *matcher) count(s string) int {
	if s == "" {
		return 0
	}
	return len(m.re.FindAllStringIndex(s, -1))
}

// replace substitutes every occurrence in s. Regex mode expands $1 style
// references in repl; literal mode inserts repl as is.
func (m *matcher) replace(s, repl string) (string, int) {
	n := m.count(s)
	if n == 0 {
		return s, 0
	}
	if m.literal {
		return m.re.ReplaceAllLiteralString(s, repl), n
	}
	return m.re.ReplaceAllString(s, repl), n
}

// includes reports whether the request at path (enclosing folder names) named
// name is inside the path glob. Without a glob every request is included.
func (m *matcher) includes(path []string, name string) bool {
	if m.glob == "" {
		return true
	}
	full := strings.Join(append(append([]string(nil), path...), name), "/")
	ok, err := doublestar.Match(m.glob, full)
	return err == nil && ok
}

// location renders the human-readable position of a request.
func location(path []string, name string) string {
	if len(path) == 0 {
		return name
	}
	return strings.Join(path, collection.PathSeparator) + collection.PathSeparator + name
}

// variablesLocation prefixes variable locations.
const variablesLocation = "Variables"
