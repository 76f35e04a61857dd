package collection

// Clone returns a deep copy of the collection. Nil receivers return nil.
func (c *Collection) Clone() *Collection {
	if c == nil {
		return nil
	}
	out := *c
	out.Variables = cloneVariables(c.Variables)
	out.Requests = cloneRequests(c.Requests)
	out.Folders = cloneFolders(c.Folders)
	return &out
}

// Clone returns a deep copy of the folder and its subtree.
func (f Folder) Clone() Folder {
	out := f
	out.Requests = cloneRequests(f.Requests)
	out.Folders = cloneFolders(f.Folders)
	return out
}

// Clone returns a deep copy of the request.
func (r Request) Clone() Request {
	out := r
	if r.Headers != nil {
		out.Headers = make([]Header, len(r.Headers))
		copy(out.Headers, r.Headers)
	}
	return out
}

func cloneVariables(vars []Variable) []Variable {
	if vars == nil {
		return nil
	}
	out := make([]Variable, len(vars))
	copy(out, vars)
	return out
}

func cloneRequests(reqs []Request) []Request {
	if reqs == nil {
		return nil
	}
	out := make([]Request, len(reqs))
	for i, r := range reqs {
		out[i] = r.Clone()
	}
	return out
}

func cloneFolders(folders []Folder) []Folder {
	if folders == nil {
		return nil
	}
	out := make([]Folder, len(folders))
	for i, f := range folders {
		out[i] = f.Clone()
	}
	return out
}
