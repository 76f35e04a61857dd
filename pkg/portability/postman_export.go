package portability

import (
	"encoding/json"
	"strings"

	"github.com/getmockd/apiconv/internal/id"
	"github.com/getmockd/apiconv/internal/jsonutil"
	"github.com/getmockd/apiconv/pkg/collection"
)

// PostmanExporter exports collections as Postman Collection v2.1.
type PostmanExporter struct{}

// Export renders c as a Postman collection with a fresh _postman_id.
func (e *PostmanExporter) Export(c *collection.Collection, opts *ExportOptions) ([]byte, []string, error) {
	pass := newScriptPass(c, FormatPostman)

	pc := PostmanCollection{
		Info: PostmanInfo{
			PostmanID:   id.UUID(),
			Name:        c.Name,
			Description: PostmanDescription(c.Description),
			Schema:      PostmanSchemaV21,
		},
		Event: postmanEvents(
			pass.run(c.PreRequestScript, collectionLabel, "pre-request"),
			pass.run(c.TestScript, collectionLabel, "test"),
		),
		Item: e.items(pass, nil, c.Requests, c.Folders),
	}
	for _, v := range c.Variables {
		pc.Variable = append(pc.Variable, PostmanVariable{
			Key:         v.Key,
			Value:       PostmanValue(v.Value),
			Type:        string(exportVariableType(v.Type)),
			Description: PostmanDescription(v.Description),
			Disabled:    !v.Enabled,
		})
	}

	data, err := jsonutil.Marshal(pc, opts.indent())
	if err != nil {
		return nil, nil, &MalformedCollectionError{Format: FormatPostman, Message: "failed to encode collection", Cause: err}
	}
	return data, pass.warnings, nil
}

// items renders one tree level, requests before folders. The result is never
// nil so empty folders keep an "item" array.
func (e *PostmanExporter) items(pass *scriptPass, path []string, requests []collection.Request, folders []collection.Folder) []PostmanItem {
	items := make([]PostmanItem, 0, len(requests)+len(folders))
	for i := range requests {
		items = append(items, e.request(pass, path, &requests[i]))
	}
	for i := range folders {
		f := &folders[i]
		where := itemPath(path, f.Name)
		sub := append(append([]string(nil), path...), f.Name)
		children := e.items(pass, sub, f.Requests, f.Folders)
		items = append(items, PostmanItem{
			ID:          id.UUID(),
			Name:        f.Name,
			Description: PostmanDescription(f.Description),
			Event: postmanEvents(
				pass.run(f.PreRequestScript, where, "pre-request"),
				pass.run(f.TestScript, where, "test"),
			),
			Item: &children,
		})
	}
	return items
}

func (e *PostmanExporter) request(pass *scriptPass, path []string, r *collection.Request) PostmanItem {
	where := itemPath(path, r.Name)
	method := r.Method
	if method == "" {
		method = collection.MethodGet
	}

	pr := &PostmanRequest{
		Method: method,
		Header: make(PostmanHeaders, 0, len(r.Headers)),
		URL:    postmanURLFromRaw(r.URL),
	}
	for _, h := range r.Headers {
		pr.Header = append(pr.Header, PostmanHeader{Key: h.Key, Value: h.Value, Disabled: !h.Enabled})
	}
	if r.Body != "" {
		body := &PostmanBody{Mode: "raw", Raw: r.Body}
		if json.Valid([]byte(r.Body)) {
			body.Options = &PostmanBodyOptions{}
			body.Options.Raw.Language = "json"
		}
		pr.Body = body
	}

	return PostmanItem{
		ID:          id.UUID(),
		Name:        r.Name,
		Description: PostmanDescription(r.Description),
		Event: postmanEvents(
			pass.run(r.PreRequestScript, where, "pre-request"),
			pass.run(r.TestScript, where, "test"),
		),
		Request: pr,
	}
}

// postmanEvents builds the event list; empty scripts produce no entry.
func postmanEvents(pre, test string) []PostmanEvent {
	var events []PostmanEvent
	if pre != "" {
		events = append(events, PostmanEvent{
			Listen: postmanListenPreRequest,
			Script: PostmanScript{Type: "text/javascript", Exec: splitScript(pre)},
		})
	}
	if test != "" {
		events = append(events, PostmanEvent{
			Listen: postmanListenTest,
			Script: PostmanScript{Type: "text/javascript", Exec: splitScript(test)},
		})
	}
	return events
}

// postmanURLFromRaw splits a URL string into Postman's structured form. Raw is
// always kept, so templated URLs that are not valid URLs survive unchanged.
func postmanURLFromRaw(raw string) PostmanURL {
	u := PostmanURL{Raw: raw}
	rest := raw
	if i := strings.Index(rest, "://"); i > 0 && !strings.Contains(rest[:i], "{{") {
		u.Protocol = rest[:i]
		rest = rest[i+3:]
	}
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest = rest[:i]
	}
	var query string
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		query = rest[i+1:]
		rest = rest[:i]
	}

	host, path, _ := strings.Cut(rest, "/")
	if i := strings.LastIndexByte(host, ':'); i >= 0 && isDigits(host[i+1:]) {
		u.Port = host[i+1:]
		host = host[:i]
	}
	if host != "" {
		u.Host = strings.Split(host, ".")
	}
	if path != "" {
		u.Path = strings.Split(path, "/")
	}
	if query != "" {
		for _, part := range strings.Split(query, "&") {
			if part == "" {
				continue
			}
			key, value, _ := strings.Cut(part, "=")
			u.Query = append(u.Query, PostmanQuery{Key: key, Value: value})
		}
	}
	return u
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// exportVariableType maps empty or unknown types to default.
func exportVariableType(t collection.VariableType) collection.VariableType {
	if t == collection.VariableSecret {
		return t
	}
	return collection.VariableDefault
}

// Format returns FormatPostman.
func (e *PostmanExporter) Format() Format {
	return FormatPostman
}
