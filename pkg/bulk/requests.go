package bulk

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/getmockd/apiconv/pkg/collection"
)

// DeleteRequests returns a copy of c without the requests whose id is in ids,
// wherever they are in the tree, and the number removed. Folders are kept even
// when they end up empty.
func DeleteRequests(c *collection.Collection, ids []string) (*collection.Collection, int) {
	out := c.Clone()
	if out == nil {
		return nil, 0
	}
	drop := toSet(ids)
	removed := 0
	var prune func(requests []collection.Request, folders []collection.Folder) []collection.Request
	prune = func(requests []collection.Request, folders []collection.Folder) []collection.Request {
		var kept []collection.Request
		for _, r := range requests {
			if drop[r.ID] {
				removed++
				continue
			}
			kept = append(kept, r)
		}
		for i := range folders {
			folders[i].Requests = prune(folders[i].Requests, folders[i].Folders)
		}
		return kept
	}
	out.Requests = prune(out.Requests, out.Folders)
	return out, removed
}

// RequestIDs returns the ids of the requests selected by sel, in walk order.
// sel is either a request id or a doublestar glob over "Folder/Request" paths.
func RequestIDs(c *collection.Collection, sel string) ([]string, error) {
	if !doublestar.ValidatePattern(sel) {
		return nil, &PatternError{Pattern: sel, Err: doublestar.ErrBadPattern}
	}
	var ids []string
	collection.Walk(c, func(path []string, _ *collection.Folder, r *collection.Request) bool {
		if r == nil {
			return true
		}
		full := strings.Join(append(append([]string(nil), path...), r.Name), "/")
		if ok, _ := doublestar.Match(sel, full); ok || r.ID == sel {
			ids = append(ids, r.ID)
		}
		return true
	})
	return ids, nil
}
