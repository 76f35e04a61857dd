package collection

// PathSeparator joins folder and request names in human-readable locations.
const PathSeparator = " / "

// Visitor is called for each node visited by Walk. path holds the names of the
// enclosing folders, outermost first. Exactly one of folder or request is non-nil.
// The pointers address the live tree, so visitors may mutate in place.
// Returning false stops the walk.
type Visitor func(path []string, folder *Folder, request *Request) bool

// Walk visits the collection depth-first in document order: top-level requests,
// then each top-level folder followed by its requests and subfolders.
func Walk(c *Collection, fn Visitor) {
	if c == nil {
		return
	}
	for i := range c.Requests {
		if !fn(nil, nil, &c.Requests[i]) {
			return
		}
	}
	for i := range c.Folders {
		if !walkFolder(nil, &c.Folders[i], fn) {
			return
		}
	}
}

func walkFolder(parent []string, f *Folder, fn Visitor) bool {
	if !fn(parent, f, nil) {
		return false
	}
	path := make([]string, len(parent)+1)
	copy(path, parent)
	path[len(parent)] = f.Name

	for i := range f.Requests {
		if !fn(path, nil, &f.Requests[i]) {
			return false
		}
	}
	for i := range f.Folders {
		if !walkFolder(path, &f.Folders[i], fn) {
			return false
		}
	}
	return true
}

// RequestCount returns the number of requests anywhere in the tree.
func (c *Collection) RequestCount() int {
	n := 0
	Walk(c, func(_ []string, _ *Folder, r *Request) bool {
		if r != nil {
			n++
		}
		return true
	})
	return n
}

// FolderCount returns the number of folders anywhere in the tree.
func (c *Collection) FolderCount() int {
	n := 0
	Walk(c, func(_ []string, f *Folder, _ *Request) bool {
		if f != nil {
			n++
		}
		return true
	})
	return n
}
