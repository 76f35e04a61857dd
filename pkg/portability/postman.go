package portability

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/getmockd/apiconv/internal/id"
	"github.com/getmockd/apiconv/internal/jsonutil"
	"github.com/getmockd/apiconv/pkg/collection"
	"github.com/getmockd/apiconv/pkg/script"
)

// PostmanSchemaV21 is the schema URL written to exported collections.
const PostmanSchemaV21 = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// Postman event names.
const (
	postmanListenPreRequest = "prerequest"
	postmanListenTest       = "test"
)

// Postman Collection v2.x types

// PostmanCollection represents a Postman Collection v2.x.
type PostmanCollection struct {
	Info     PostmanInfo       `json:"info"`
	Item     []PostmanItem     `json:"item"`
	Event    []PostmanEvent    `json:"event,omitempty"`
	Variable []PostmanVariable `json:"variable,omitempty"`
}

// PostmanInfo contains collection metadata.
type PostmanInfo struct {
	PostmanID   string             `json:"_postman_id,omitempty"`
	Name        string             `json:"name"`
	Description PostmanDescription `json:"description,omitempty"`
	Schema      string             `json:"schema"`
}

// PostmanItem represents an item in the collection (request or folder).
type PostmanItem struct {
	ID          string             `json:"id,omitempty"`
	Name        string             `json:"name"`
	Description PostmanDescription `json:"description,omitempty"`
	Event       []PostmanEvent     `json:"event,omitempty"`
	Request     *PostmanRequest    `json:"request,omitempty"`
	// Item is nil for requests and non-nil, possibly empty, for folders.
	Item *[]PostmanItem `json:"item,omitempty"`
}

// IsFolder reports whether the item is a folder.
func (p *PostmanItem) IsFolder() bool {
	return p.Item != nil
}

// PostmanRequest represents a Postman request. The v2.1 shorthand of a bare
// URL string is accepted on input.
type PostmanRequest struct {
	Method      string             `json:"method"`
	Header      PostmanHeaders     `json:"header"`
	Body        *PostmanBody       `json:"body,omitempty"`
	URL         PostmanURL         `json:"url"`
	Description PostmanDescription `json:"description,omitempty"`
}

// UnmarshalJSON accepts either a request object or a URL string.
func (r *PostmanRequest) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*r = PostmanRequest{Method: collection.MethodGet, URL: PostmanURL{Raw: raw}}
		return nil
	}
	type plain PostmanRequest
	var p plain
	if err := decodeVendor(data, &p); err != nil {
		return err
	}
	*r = PostmanRequest(p)
	return nil
}

// PostmanURL represents a URL in Postman format.
type PostmanURL struct {
	Raw      string         `json:"raw"`
	Protocol string         `json:"protocol,omitempty"`
	Host     PostmanStrings `json:"host,omitempty"`
	Port     string         `json:"port,omitempty"`
	Path     PostmanStrings `json:"path,omitempty"`
	Query    []PostmanQuery `json:"query,omitempty"`
}

// UnmarshalJSON accepts either a URL object or a URL string.
func (u *PostmanURL) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*u = PostmanURL{Raw: raw}
		return nil
	}
	type plain PostmanURL
	var p plain
	if err := decodeVendor(data, &p); err != nil {
		return err
	}
	*u = PostmanURL(p)
	return nil
}

// String returns the raw URL, rebuilding it from its parts when raw is absent.
func (u PostmanURL) String() string {
	if u.Raw != "" {
		return u.Raw
	}
	var b strings.Builder
	if u.Protocol != "" {
		b.WriteString(u.Protocol)
		b.WriteString("://")
	}
	b.WriteString(strings.Join(u.Host, "."))
	if u.Port != "" {
		b.WriteByte(':')
		b.WriteString(u.Port)
	}
	if len(u.Path) > 0 {
		b.WriteByte('/')
		b.WriteString(strings.Join(u.Path, "/"))
	}
	first := true
	for _, q := range u.Query {
		if q.Disabled {
			continue
		}
		if first {
			b.WriteByte('?')
			first = false
		} else {
			b.WriteByte('&')
		}
		b.WriteString(q.Key)
		b.WriteByte('=')
		b.WriteString(q.Value)
	}
	return b.String()
}

// PostmanStrings is a string list that also accepts a single string, as used by
// url.host and url.path.
type PostmanStrings []string

// UnmarshalJSON accepts a string array or a single string.
func (s *PostmanStrings) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*s = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = PostmanStrings{one}
		return nil
	}
	var many []string
	if err := decodeVendor(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// PostmanQuery represents a query parameter.
type PostmanQuery struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled,omitempty"`
}

// PostmanHeader represents a request header.
type PostmanHeader struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled,omitempty"`
}

// PostmanHeaders is a header list that also accepts the "Key: Value" lines
// string form.
type PostmanHeaders []PostmanHeader

// UnmarshalJSON accepts a header array or a newline separated string.
func (h *PostmanHeaders) UnmarshalJSON(data []byte) error {
	var lines string
	if err := json.Unmarshal(data, &lines); err == nil {
		var out PostmanHeaders
		for _, line := range strings.Split(lines, "\n") {
			key, value, ok := strings.Cut(line, ":")
			key = strings.TrimSpace(key)
			if !ok || key == "" {
				continue
			}
			out = append(out, PostmanHeader{Key: key, Value: strings.TrimSpace(value)})
		}
		*h = out
		return nil
	}
	var list []PostmanHeader
	if err := decodeVendor(data, &list); err != nil {
		return err
	}
	*h = list
	return nil
}

// PostmanBody represents a request body.
type PostmanBody struct {
	Mode       string              `json:"mode"`
	Raw        string              `json:"raw,omitempty"`
	URLEncoded []PostmanFormData   `json:"urlencoded,omitempty"`
	FormData   []PostmanFormData   `json:"formdata,omitempty"`
	GraphQL    *PostmanGraphQL     `json:"graphql,omitempty"`
	Options    *PostmanBodyOptions `json:"options,omitempty"`
	Disabled   bool                `json:"disabled,omitempty"`
}

// PostmanFormData represents form data.
type PostmanFormData struct {
	Key      string `json:"key"`
	Value    string `json:"value,omitempty"`
	Type     string `json:"type,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// PostmanGraphQL is the body of graphql mode requests.
type PostmanGraphQL struct {
	Query     string `json:"query"`
	Variables string `json:"variables,omitempty"`
}

// PostmanBodyOptions carries the raw body language hint.
type PostmanBodyOptions struct {
	Raw struct {
		Language string `json:"language"`
	} `json:"raw"`
}

// PostmanEvent is a script hook on a collection, folder, or request.
type PostmanEvent struct {
	Listen string        `json:"listen"`
	Script PostmanScript `json:"script"`
}

// PostmanScript holds the script source lines.
type PostmanScript struct {
	ID   string       `json:"id,omitempty"`
	Type string       `json:"type,omitempty"`
	Exec PostmanLines `json:"exec"`
}

// PostmanLines is a line list that also accepts a single string.
type PostmanLines []string

// UnmarshalJSON accepts a string array or a single string.
func (l *PostmanLines) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*l = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = splitScript(one)
		return nil
	}
	var many []string
	if err := decodeVendor(data, &many); err != nil {
		return err
	}
	*l = many
	return nil
}

// PostmanDescription is a description given either as a string or as a
// {"content": "...", "type": "text/markdown"} object. It is written as a string.
type PostmanDescription string

// UnmarshalJSON accepts a string, a description object, or null.
func (d *PostmanDescription) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = PostmanDescription(s)
		return nil
	}
	var obj struct {
		Content string `json:"content"`
	}
	if err := decodeVendor(data, &obj); err != nil {
		return err
	}
	*d = PostmanDescription(obj.Content)
	return nil
}

// PostmanVariable represents a collection variable.
type PostmanVariable struct {
	ID          string             `json:"id,omitempty"`
	Key         string             `json:"key"`
	Value       PostmanValue       `json:"value"`
	Type        string             `json:"type,omitempty"`
	Description PostmanDescription `json:"description,omitempty"`
	Disabled    bool               `json:"disabled,omitempty"`
}

// PostmanValue is a variable value. Non-string JSON values are kept as their
// JSON text.
type PostmanValue string

// UnmarshalJSON stores any JSON value as text.
func (v *PostmanValue) UnmarshalJSON(data []byte) error {
	*v = PostmanValue(jsonutil.ScalarString(data))
	return nil
}

// PostmanImporter imports Postman Collection v2.x format.
type PostmanImporter struct{}

// Import parses a Postman Collection into the unified model.
func (i *PostmanImporter) Import(doc *Document) (*ImportResult, error) {
	if err := validateStructure(FormatPostman, schemaPostman, doc.Tree); err != nil {
		return nil, err
	}

	var pc PostmanCollection
	if err := decodeVendor(doc.Raw, &pc); err != nil {
		return nil, &MalformedCollectionError{
			Format:  FormatPostman,
			Message: "failed to parse Postman Collection",
			Cause:   err,
		}
	}

	ids := &id.Allocator{}
	c := collection.New(pc.Info.Name, collection.SourcePostman)
	c.Description = string(pc.Info.Description)
	c.PreRequestScript, c.TestScript = postmanScripts(pc.Event)

	for _, v := range pc.Variable {
		c.Variables = append(c.Variables, collection.Variable{
			ID:          ids.Take(v.ID),
			Key:         v.Key,
			Value:       string(v.Value),
			Type:        collection.ParseVariableType(v.Type),
			Description: string(v.Description),
			Enabled:     !v.Disabled,
		})
	}

	c.Requests, c.Folders = i.items(pc.Item, ids)
	return &ImportResult{Collection: c}, nil
}

// items splits one level of the item tree into requests and folders, keeping
// the relative order of each.
func (i *PostmanImporter) items(items []PostmanItem, ids *id.Allocator) ([]collection.Request, []collection.Folder) {
	var (
		requests []collection.Request
		folders  []collection.Folder
	)
	for idx := range items {
		item := &items[idx]
		if item.IsFolder() {
			folder := collection.Folder{
				ID:          ids.Take(item.ID),
				Name:        item.Name,
				Description: string(item.Description),
			}
			folder.PreRequestScript, folder.TestScript = postmanScripts(item.Event)
			folder.Requests, folder.Folders = i.items(*item.Item, ids)
			folders = append(folders, folder)
			continue
		}
		if item.Request == nil {
			continue
		}
		requests = append(requests, i.request(item, ids))
	}
	return requests, folders
}

func (i *PostmanImporter) request(item *PostmanItem, ids *id.Allocator) collection.Request {
	pr := item.Request
	method := strings.ToUpper(strings.TrimSpace(pr.Method))
	if method == "" {
		method = collection.MethodGet
	}

	description := string(item.Description)
	if description == "" {
		description = string(pr.Description)
	}

	req := collection.Request{
		ID:          ids.Take(item.ID),
		Name:        item.Name,
		Method:      method,
		URL:         pr.URL.String(),
		Description: description,
		Body:        postmanBodyText(pr.Body),
	}
	for _, h := range pr.Header {
		req.Headers = append(req.Headers, collection.Header{Key: h.Key, Value: h.Value, Enabled: !h.Disabled})
	}
	req.PreRequestScript, req.TestScript = postmanScripts(item.Event)
	return req
}

// postmanScripts joins the prerequest and test events. Several events with
// the same listen value are concatenated in order.
func postmanScripts(events []PostmanEvent) (pre, test string) {
	var preParts, testParts []string
	for _, e := range events {
		text := joinScript(e.Script.Exec)
		switch strings.ToLower(e.Listen) {
		case postmanListenPreRequest:
			preParts = append(preParts, text)
		case postmanListenTest:
			testParts = append(testParts, text)
		}
	}
	pre = importScript(strings.Join(preParts, "\n"), script.DialectPostman)
	test = importScript(strings.Join(testParts, "\n"), script.DialectPostman)
	return pre, test
}

// postmanBodyText flattens any body mode into text. Form modes become
// key=value pairs joined by "&"; file parts are skipped.
func postmanBodyText(b *PostmanBody) string {
	if b == nil || b.Disabled {
		return ""
	}
	switch b.Mode {
	case "raw":
		return b.Raw
	case "urlencoded":
		return formPairs(b.URLEncoded)
	case "formdata":
		return formPairs(b.FormData)
	case "graphql":
		if b.GraphQL == nil {
			return ""
		}
		payload := struct {
			Query     string          `json:"query"`
			Variables json.RawMessage `json:"variables,omitempty"`
		}{Query: b.GraphQL.Query}
		if vars := strings.TrimSpace(b.GraphQL.Variables); vars != "" && json.Valid([]byte(vars)) {
			payload.Variables = json.RawMessage(vars)
		}
		data, err := jsonutil.Marshal(payload, "")
		if err != nil {
			return b.GraphQL.Query
		}
		return string(data)
	default:
		return b.Raw
	}
}

func formPairs(fields []PostmanFormData) string {
	var parts []string
	for _, f := range fields {
		if f.Disabled || f.Type == "file" || f.Key == "" {
			continue
		}
		parts = append(parts, f.Key+"="+f.Value)
	}
	return strings.Join(parts, "&")
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// Format returns FormatPostman.
func (i *PostmanImporter) Format() Format {
	return FormatPostman
}

// init registers the Postman importer and exporter.
func init() {
	RegisterImporter(&PostmanImporter{})
	RegisterExporter(&PostmanExporter{})
}
