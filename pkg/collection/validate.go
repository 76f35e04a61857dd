package collection

import (
	"fmt"
	"strings"
)

// ValidationError lists the structural problems found in a collection.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid collection: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid collection: %d problems: %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// Validate checks the model rules: a known source format, non-empty ids,
// and ids unique within the collection. Returns nil when the collection is valid.
func (c *Collection) Validate() error {
	if c == nil {
		return &ValidationError{Problems: []string{"collection is nil"}}
	}

	var problems []string
	if !c.SourceFormat.IsValid() {
		problems = append(problems, fmt.Sprintf("unknown source format %q", c.SourceFormat))
	}

	seen := make(map[string]string)
	check := func(kind, id, name string) {
		if id == "" {
			problems = append(problems, fmt.Sprintf("%s %q has no id", kind, name))
			return
		}
		if prev, ok := seen[id]; ok {
			problems = append(problems, fmt.Sprintf("%s %q reuses id %s of %s", kind, name, id, prev))
			return
		}
		seen[id] = kind + " " + name
	}

	for _, v := range c.Variables {
		check("variable", v.ID, v.Key)
	}
	Walk(c, func(_ []string, f *Folder, r *Request) bool {
		if f != nil {
			check("folder", f.ID, f.Name)
		} else {
			check("request", r.ID, r.Name)
		}
		return true
	})

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
