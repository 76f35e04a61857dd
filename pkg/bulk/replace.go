package bulk

import (
	"github.com/getmockd/apiconv/pkg/collection"
)

// ReplaceOptions configures Replace. The matching fields mean the same as in
// SearchOptions.
type ReplaceOptions struct {
	Find          string
	Replace       string
	Scope         Scope
	CaseSensitive bool
	Regex         bool
	PathGlob      string
}

// ReplaceResult is the edited copy and the number of substitutions made.
type ReplaceResult struct {
	Collection *collection.Collection
	Count      int
}

// Replace returns a deep copy of c with every occurrence of opts.Find
// substituted in the fields Find would search. c is not modified. An invalid
// regular expression is returned as a *PatternError.
func Replace(c *collection.Collection, opts ReplaceOptions) (*ReplaceResult, error) {
	m, err := newMatcher(opts.Find, opts.Regex, opts.CaseSensitive, opts.PathGlob)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNilCollection
	}

	out := c.Clone()
	count := 0
	sub := func(s *string) {
		var n int
		*s, n = m.replace(*s, opts.Replace)
		count += n
	}

	if opts.Scope.variables() {
		for i := range out.Variables {
			sub(&out.Variables[i].Key)
			sub(&out.Variables[i].Value)
		}
	}

	if opts.Scope.requests() {
		collection.Walk(out, func(path []string, _ *collection.Folder, r *collection.Request) bool {
			if r == nil || !m.includes(path, r.Name) {
				return true
			}
			sub(&r.URL)
			for i := range r.Headers {
				sub(&r.Headers[i].Key)
				sub(&r.Headers[i].Value)
			}
			sub(&r.Body)
			return true
		})
	}

	return &ReplaceResult{Collection: out, Count: count}, nil
}
