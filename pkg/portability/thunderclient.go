package portability

import (
	"sort"
	"strconv"
	"strings"

	"github.com/getmockd/apiconv/internal/id"
	"github.com/getmockd/apiconv/pkg/collection"
	"github.com/getmockd/apiconv/pkg/script"
)

// Thunder Client collection types

// ThunderCollection is a Thunder Client collection export.
type ThunderCollection struct {
	ClientName     string              `json:"clientName,omitempty"`
	CollectionName string              `json:"collectionName,omitempty"`
	CollectionID   string              `json:"collectionId,omitempty"`
	ID             string              `json:"_id,omitempty"`
	ColName        string              `json:"colName"`
	Created        string              `json:"created,omitempty"`
	SortNum        float64             `json:"sortNum,omitempty"`
	DateExported   string              `json:"dateExported,omitempty"`
	Version        string              `json:"version,omitempty"`
	Folders        []ThunderFolder     `json:"folders"`
	Requests       []ThunderRequest    `json:"requests"`
	Settings       *ThunderSettings    `json:"settings,omitempty"`
	Environment    *ThunderEnvironment `json:"environment,omitempty"`
	Docs           string              `json:"docs,omitempty"`
}

// name returns the collection name from either naming field.
func (t *ThunderCollection) name() string {
	if t.ColName != "" {
		return t.ColName
	}
	return t.CollectionName
}

// ThunderFolder groups requests through their containerId.
type ThunderFolder struct {
	ID          string           `json:"_id"`
	Name        string           `json:"name"`
	ContainerID string           `json:"containerId"`
	Created     string           `json:"created,omitempty"`
	SortNum     float64          `json:"sortNum,omitempty"`
	Settings    *ThunderSettings `json:"settings,omitempty"`
}

// ThunderSettings holds collection or folder level hooks.
type ThunderSettings struct {
	Tests   []ThunderTest   `json:"tests,omitempty"`
	PreReq  *ThunderScripts `json:"preReq,omitempty"`
	PostReq *ThunderScripts `json:"postReq,omitempty"`
	Docs    string          `json:"docs,omitempty"`
}

// ThunderRequest is one request of the flat request list.
type ThunderRequest struct {
	ID          string          `json:"_id"`
	ColID       string          `json:"colId"`
	ContainerID string          `json:"containerId"`
	Name        string          `json:"name"`
	URL         string          `json:"url"`
	Method      string          `json:"method"`
	SortNum     float64         `json:"sortNum"`
	Created     string          `json:"created,omitempty"`
	Modified    string          `json:"modified,omitempty"`
	Headers     []ThunderHeader `json:"headers"`
	Body        *ThunderBody    `json:"body,omitempty"`
	Tests       []ThunderTest   `json:"tests"`
	PreReq      *ThunderScripts `json:"preReq,omitempty"`
	PostReq     *ThunderScripts `json:"postReq,omitempty"`
	Docs        string          `json:"docs,omitempty"`
}

// ThunderHeader is a request header.
type ThunderHeader struct {
	Name       string `json:"name"`
	Value      string `json:"value"`
	IsDisabled bool   `json:"isDisabled,omitempty"`
}

// ThunderBody is a request body. Type is json, text, xml, formencoded,
// graphql or none.
type ThunderBody struct {
	Type    string             `json:"type"`
	Raw     string             `json:"raw"`
	Form    []ThunderFormField `json:"form"`
	GraphQL *ThunderGraphQL    `json:"graphql,omitempty"`
}

// ThunderGraphQL is the body of graphql requests.
type ThunderGraphQL struct {
	Query     string `json:"query"`
	Variables string `json:"variables,omitempty"`
}

// ThunderFormField is a formencoded body field.
type ThunderFormField struct {
	Name       string `json:"name"`
	Value      string `json:"value"`
	IsDisabled bool   `json:"isDisabled,omitempty"`
}

// ThunderTest is a declarative assertion, for example
// {"type": "res-code", "custom": "", "action": "equal", "value": "200"}.
type ThunderTest struct {
	Type   string `json:"type"`
	Custom string `json:"custom"`
	Action string `json:"action"`
	Value  string `json:"value"`
}

// ThunderScripts holds inline scripts of a hook.
type ThunderScripts struct {
	InlineScripts []ThunderInlineScript `json:"inlineScripts,omitempty"`
}

// ThunderInlineScript is one inline script, stored as lines.
type ThunderInlineScript struct {
	Script PostmanLines `json:"script"`
}

// ThunderEnvironment carries collection variables as a Thunder Client
// environment.
type ThunderEnvironment struct {
	Name string               `json:"name"`
	Data []ThunderEnvVariable `json:"data"`
}

// ThunderEnvVariable is one environment entry.
type ThunderEnvVariable struct {
	Name       string `json:"name"`
	Value      string `json:"value"`
	IsSecret   bool   `json:"isSecret,omitempty"`
	IsDisabled bool   `json:"isDisabled,omitempty"`
}

// ThunderClientImporter imports Thunder Client collection exports.
type ThunderClientImporter struct{}

// Import parses a Thunder Client collection into the unified model. Folders
// are rebuilt from containerId links; requests whose container is unknown are
// kept at the top level.
func (i *ThunderClientImporter) Import(doc *Document) (*ImportResult, error) {
	if err := validateStructure(FormatThunderClient, schemaThunderClient, doc.Tree); err != nil {
		return nil, err
	}
	var tc ThunderCollection
	if err := decodeVendor(doc.Raw, &tc); err != nil {
		return nil, &MalformedCollectionError{
			Format:  FormatThunderClient,
			Message: "failed to parse Thunder Client collection",
			Cause:   err,
		}
	}

	ids := &id.Allocator{}
	c := collection.New(tc.name(), collection.SourceThunderClient)
	c.Description = tc.Docs
	if tc.Settings != nil {
		c.PreRequestScript, c.TestScript = thunderHooks(tc.Settings.PreReq, tc.Settings.PostReq, tc.Settings.Tests)
		if c.Description == "" {
			c.Description = tc.Settings.Docs
		}
	}
	if env := tc.Environment; env != nil {
		for _, v := range env.Data {
			typ := collection.VariableDefault
			if v.IsSecret {
				typ = collection.VariableSecret
			}
			c.Variables = append(c.Variables, collection.Variable{
				ID:      ids.Take(""),
				Key:     v.Name,
				Value:   v.Value,
				Type:    typ,
				Enabled: !v.IsDisabled,
			})
		}
	}

	folderIDs := make(map[string]bool, len(tc.Folders))
	for _, f := range tc.Folders {
		folderIDs[f.ID] = true
	}
	folderChildren := make(map[string][]*ThunderFolder)
	for idx := range tc.Folders {
		f := &tc.Folders[idx]
		parent := f.ContainerID
		if !folderIDs[parent] || parent == f.ID {
			parent = ""
		}
		folderChildren[parent] = append(folderChildren[parent], f)
	}
	requestChildren := make(map[string][]*ThunderRequest)
	for idx := range tc.Requests {
		r := &tc.Requests[idx]
		parent := r.ContainerID
		if !folderIDs[parent] {
			parent = ""
		}
		requestChildren[parent] = append(requestChildren[parent], r)
	}

	visited := make(map[string]bool)
	var build func(parent string) ([]collection.Request, []collection.Folder)
	build = func(parent string) ([]collection.Request, []collection.Folder) {
		reqs := requestChildren[parent]
		sort.SliceStable(reqs, func(a, b int) bool { return reqs[a].SortNum < reqs[b].SortNum })
		var requests []collection.Request
		for _, r := range reqs {
			requests = append(requests, thunderRequest(r, ids))
		}

		subs := folderChildren[parent]
		sort.SliceStable(subs, func(a, b int) bool { return subs[a].SortNum < subs[b].SortNum })
		var folders []collection.Folder
		for _, f := range subs {
			if visited[f.ID] {
				continue
			}
			visited[f.ID] = true
			folder := collection.Folder{ID: ids.Take(f.ID), Name: f.Name}
			if f.Settings != nil {
				folder.Description = f.Settings.Docs
				folder.PreRequestScript, folder.TestScript = thunderHooks(f.Settings.PreReq, f.Settings.PostReq, f.Settings.Tests)
			}
			folder.Requests, folder.Folders = build(f.ID)
			folders = append(folders, folder)
		}
		return requests, folders
	}
	c.Requests, c.Folders = build("")

	return &ImportResult{Collection: c}, nil
}

func thunderRequest(r *ThunderRequest, ids *id.Allocator) collection.Request {
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method == "" {
		method = collection.MethodGet
	}
	req := collection.Request{
		ID:          ids.Take(r.ID),
		Name:        r.Name,
		Method:      method,
		URL:         r.URL,
		Description: r.Docs,
		Body:        thunderBodyText(r.Body),
	}
	for _, h := range r.Headers {
		req.Headers = append(req.Headers, collection.Header{Key: h.Name, Value: h.Value, Enabled: !h.IsDisabled})
	}
	req.PreRequestScript, req.TestScript = thunderHooks(r.PreReq, r.PostReq, r.Tests)
	return req
}

func thunderBodyText(b *ThunderBody) string {
	if b == nil {
		return ""
	}
	switch b.Type {
	case "formencoded":
		var parts []string
		for _, f := range b.Form {
			if f.IsDisabled || f.Name == "" {
				continue
			}
			parts = append(parts, f.Name+"="+f.Value)
		}
		return strings.Join(parts, "&")
	case "graphql":
		if b.GraphQL == nil {
			return b.Raw
		}
		return b.GraphQL.Query
	default:
		return b.Raw
	}
}

// thunderHooks assembles the pre-request and test scripts of one item. The
// test script is the post-request inline scripts followed by the declarative
// tests rendered as script lines; tests whose assertion already appears in an
// inline script are not repeated.
func thunderHooks(pre, post *ThunderScripts, tests []ThunderTest) (string, string) {
	preText := inlineScriptText(pre)
	testText := inlineScriptText(post)

	var lines []string
	for _, t := range tests {
		expr, line := renderThunderTest(t)
		if expr != "" && strings.Contains(testText, expr) {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) > 0 {
		if testText != "" {
			testText += "\n"
		}
		testText += strings.Join(lines, "\n")
	}
	return importScript(preText, script.DialectThunderClient), importScript(testText, script.DialectThunderClient)
}

func inlineScriptText(s *ThunderScripts) string {
	if s == nil {
		return ""
	}
	parts := make([]string, 0, len(s.InlineScripts))
	for _, in := range s.InlineScripts {
		if text := joinScript(in.Script); strings.TrimSpace(text) != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, "\n")
}

// thunderMatchers maps test actions to chai matcher suffixes.
var thunderMatchers = map[string]string{
	"equal":       ".to.equal(%s)",
	"notequal":    ".to.not.equal(%s)",
	"contains":    ".to.include(%s)",
	"notcontains": ".to.not.include(%s)",
	"lessthan":    ".to.be.below(%s)",
	"<":           ".to.be.below(%s)",
	"greaterthan": ".to.be.above(%s)",
	">":           ".to.be.above(%s)",
	"istype":      ".to.be.a(%s)",
	"count":       ".to.have.lengthOf(%s)",
}

// renderThunderTest renders a declarative test as a Thunder Client script
// line. expr is the bare assertion used for de-duplication; it is empty for
// tests that are rendered as comments.
func renderThunderTest(t ThunderTest) (expr, line string) {
	var parts []string
	for _, p := range []string{t.Type, t.Custom, t.Action, t.Value} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	label := strings.Join(parts, " ")

	if t.Type == "set-env-var" {
		name := strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(t.Value), "{{"), "}}")
		expr = "tc.setVar(" + strconv.Quote(name) + ", tc.response." + strings.TrimPrefix(t.Custom, ".") + ")"
		return expr, expr + ";"
	}

	subject := thunderSubject(t)
	matcher, ok := thunderMatchers[strings.ToLower(t.Action)]
	if subject == "" || !ok {
		return "", "// thunder client test: " + label
	}
	value := t.Value
	if _, err := strconv.ParseFloat(value, 64); err != nil {
		value = strconv.Quote(value)
	}
	expr = "expect(" + subject + ")" + strings.Replace(matcher, "%s", value, 1)
	return expr, "tc.test(" + strconv.Quote(label) + ", () => " + expr + ");"
}

func thunderSubject(t ThunderTest) string {
	switch t.Type {
	case "res-code":
		return "tc.response.status"
	case "res-time":
		return "tc.response.time"
	case "res-body":
		return "tc.response.text"
	case "Content-Type":
		return `tc.response.headers["content-type"]`
	case "header":
		return "tc.response.headers[" + strconv.Quote(strings.ToLower(t.Custom)) + "]"
	case "json-query":
		return "tc.response." + strings.TrimPrefix(t.Custom, ".")
	default:
		return ""
	}
}

// Format returns FormatThunderClient.
func (i *ThunderClientImporter) Format() Format {
	return FormatThunderClient
}

// init registers the Thunder Client importer and exporter.
func init() {
	RegisterImporter(&ThunderClientImporter{})
	RegisterExporter(&ThunderClientExporter{})
}
