package portability

import (
	"sort"

	"github.com/getmockd/apiconv/internal/id"
	"github.com/getmockd/apiconv/pkg/collection"
	"github.com/getmockd/apiconv/pkg/script"
)

// insomniaSortKeyStep spaces metaSortKey values of exported siblings.
const insomniaSortKeyStep = 1000

// insomniaTree is the result of linking flat resources into folders.
type insomniaTree struct {
	Requests []collection.Request
	Folders  []collection.Folder
	// Orphans counts requests and groups not reachable from any root.
	Orphans int
}

// buildTree links request and request_group resources into a folder tree
// through their parentId. Siblings are ordered by metaSortKey when every
// sibling has one, otherwise by resource order. Resources that cannot be
// reached from roots (unknown parents, cycles) are counted as orphans.
func buildTree(resources []InsomniaResource, roots map[string]bool, ids *id.Allocator) insomniaTree {
	children := make(map[string][]int)
	total := 0
	for idx := range resources {
		switch resources[idx].Type {
		case insomniaTypeRequest, insomniaTypeRequestGroup:
			p := resources[idx].parent()
			children[p] = append(children[p], idx)
			total++
		}
	}
	for _, siblings := range children {
		sortSiblings(resources, siblings)
	}

	visited := make(map[int]bool, total)
	var build func(parentID string) ([]collection.Request, []collection.Folder)
	build = func(parentID string) ([]collection.Request, []collection.Folder) {
		var (
			requests []collection.Request
			folders  []collection.Folder
		)
		for _, idx := range children[parentID] {
			if visited[idx] {
				continue
			}
			visited[idx] = true
			r := &resources[idx]
			if r.Type == insomniaTypeRequest {
				requests = append(requests, insomniaRequest(r, ids))
				continue
			}
			folder := collection.Folder{
				ID:               ids.Take(r.ID),
				Name:             r.Name,
				Description:      r.Description,
				PreRequestScript: importScript(r.PreRequestScript, script.DialectInsomnia),
				TestScript:       importScript(r.AfterResponseScript, script.DialectInsomnia),
			}
			folder.Requests, folder.Folders = build(r.ID)
			folders = append(folders, folder)
		}
		return requests, folders
	}

	rootIDs := make([]string, 0, len(roots))
	for root := range roots {
		rootIDs = append(rootIDs, root)
	}
	sort.Strings(rootIDs)

	var tree insomniaTree
	for _, root := range rootIDs {
		requests, folders := build(root)
		tree.Requests = append(tree.Requests, requests...)
		tree.Folders = append(tree.Folders, folders...)
	}
	tree.Orphans = total - len(visited)
	return tree
}

func sortSiblings(resources []InsomniaResource, siblings []int) {
	for _, idx := range siblings {
		if resources[idx].MetaSortKey == nil {
			return
		}
	}
	sort.SliceStable(siblings, func(a, b int) bool {
		return *resources[siblings[a]].MetaSortKey < *resources[siblings[b]].MetaSortKey
	})
}

// flatNode is one request group or request in parentId-linked form.
type flatNode struct {
	ID       string
	ParentID string
	SortKey  float64
	// Path holds the names of the enclosing folders.
	Path []string
	// Exactly one of Folder and Request is set.
	Folder  *collection.Folder
	Request *collection.Request
}

// flattenTree is the inverse of buildTree: it lays the tree under rootID out as
// a flat list, parents before their children, with fresh ids from newID and
// increasing sort keys among siblings (requests first, then folders).
func flattenTree(rootID string, requests []collection.Request, folders []collection.Folder, newID func(prefix string) string) []flatNode {
	var nodes []flatNode
	var walk func(parentID string, path []string, requests []collection.Request, folders []collection.Folder)
	walk = func(parentID string, path []string, requests []collection.Request, folders []collection.Folder) {
		pos := 0
		for i := range requests {
			nodes = append(nodes, flatNode{
				ID:       newID(id.PrefixRequest),
				ParentID: parentID,
				SortKey:  float64(pos * insomniaSortKeyStep),
				Path:     path,
				Request:  &requests[i],
			})
			pos++
		}
		for i := range folders {
			f := &folders[i]
			node := flatNode{
				ID:       newID(id.PrefixRequestGroup),
				ParentID: parentID,
				SortKey:  float64(pos * insomniaSortKeyStep),
				Path:     path,
				Folder:   f,
			}
			nodes = append(nodes, node)
			pos++
			sub := append(append([]string(nil), path...), f.Name)
			walk(node.ID, sub, f.Requests, f.Folders)
		}
	}
	walk(rootID, nil, requests, folders)
	return nodes
}
