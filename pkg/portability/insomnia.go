package portability

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getmockd/apiconv/internal/id"
	"github.com/getmockd/apiconv/internal/jsonutil"
	"github.com/getmockd/apiconv/pkg/collection"
	"github.com/getmockd/apiconv/pkg/script"
)

// Insomnia resource types.
const (
	insomniaTypeExport       = "export"
	insomniaTypeWorkspace    = "workspace"
	insomniaTypeEnvironment  = "environment"
	insomniaTypeRequestGroup = "request_group"
	insomniaTypeRequest      = "request"
)

// insomniaPropertyOrderRoot keys the top-level entry of dataPropertyOrder.
const insomniaPropertyOrderRoot = "&"

// Insomnia export v4 types

// InsomniaExport is an Insomnia v4 export document.
type InsomniaExport struct {
	Type         string             `json:"_type"`
	ExportFormat int                `json:"__export_format,omitempty"`
	ExportDate   string             `json:"__export_date,omitempty"`
	ExportSource string             `json:"__export_source,omitempty"`
	Resources    []InsomniaResource `json:"resources"`
}

// InsomniaResource is one entry of the flat resource list. Which fields are
// used depends on Type.
type InsomniaResource struct {
	ID          string   `json:"_id"`
	Type        string   `json:"_type"`
	ParentID    *string  `json:"parentId"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MetaSortKey *float64 `json:"metaSortKey,omitempty"`

	// workspace
	Scope string `json:"scope,omitempty"`

	// request
	Method  string           `json:"method,omitempty"`
	URL     string           `json:"url,omitempty"`
	Body    *InsomniaBody    `json:"body,omitempty"`
	Headers []InsomniaHeader `json:"headers,omitempty"`

	// request, request_group, workspace
	PreRequestScript    string `json:"preRequestScript,omitempty"`
	AfterResponseScript string `json:"afterResponseScript,omitempty"`

	// environment
	Data              json.RawMessage     `json:"data,omitempty"`
	DataPropertyOrder map[string][]string `json:"dataPropertyOrder,omitempty"`
	KVPairData        []InsomniaKVPair    `json:"kvPairData,omitempty"`
	EnvironmentType   string              `json:"environmentType,omitempty"`
	IsPrivate         bool                `json:"isPrivate,omitempty"`
}

func (r *InsomniaResource) parent() string {
	if r.ParentID == nil {
		return ""
	}
	return *r.ParentID
}

// InsomniaBody is a request body.
type InsomniaBody struct {
	MimeType string          `json:"mimeType,omitempty"`
	Text     string          `json:"text,omitempty"`
	Params   []InsomniaParam `json:"params,omitempty"`
}

// InsomniaParam is a form body parameter.
type InsomniaParam struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Type     string `json:"type,omitempty"`
	Disabled bool   `json:"disabled,omitempty"`
}

// InsomniaHeader is a request header.
type InsomniaHeader struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
}

// InsomniaKVPair is one row of a key/value environment.
type InsomniaKVPair struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Value   string `json:"value"`
	Type    string `json:"type"`
	Enabled *bool  `json:"enabled,omitempty"`
}

// InsomniaImporter imports Insomnia v4 JSON and v5 YAML exports.
type InsomniaImporter struct{}

// Import parses an Insomnia export into the unified model.
func (i *InsomniaImporter) Import(doc *Document) (*ImportResult, error) {
	if isInsomniaV5Document(doc) {
		return importInsomniaV5(doc)
	}

	if err := validateStructure(FormatInsomnia, schemaInsomniaV4, doc.Tree); err != nil {
		return nil, err
	}
	var export InsomniaExport
	if err := decodeVendor(doc.Raw, &export); err != nil {
		return nil, &MalformedCollectionError{
			Format:  FormatInsomnia,
			Message: "failed to parse Insomnia export",
			Cause:   err,
		}
	}

	result := &ImportResult{}
	roots, workspace := insomniaRoots(export.Resources)
	if n := countType(export.Resources, insomniaTypeWorkspace); n > 1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("export holds %d workspaces; only %q was imported", n, workspace.Name))
	}

	name := ""
	if workspace != nil {
		name = workspace.Name
	}
	c := collection.New(name, collection.SourceInsomnia)
	if workspace != nil {
		c.Description = workspace.Description
		c.PreRequestScript = importScript(workspace.PreRequestScript, script.DialectInsomnia)
		c.TestScript = importScript(workspace.AfterResponseScript, script.DialectInsomnia)
	}

	ids := &id.Allocator{}
	vars, warnings, err := insomniaVariables(export.Resources, roots, ids)
	if err != nil {
		return nil, err
	}
	c.Variables = vars
	result.Warnings = append(result.Warnings, warnings...)

	tree := buildTree(export.Resources, roots, ids)
	c.Requests, c.Folders = tree.Requests, tree.Folders
	if tree.Orphans > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d request(s) or folder(s) outside the workspace were skipped", tree.Orphans))
	}

	result.Collection = c
	return result, nil
}

// insomniaRoots returns the ids whose children form the top level. That is the
// first workspace when there is one; otherwise every parentId that names no
// resource (older exports use a "__WORKSPACE_ID__" placeholder).
func insomniaRoots(resources []InsomniaResource) (map[string]bool, *InsomniaResource) {
	for idx := range resources {
		if resources[idx].Type == insomniaTypeWorkspace {
			return map[string]bool{resources[idx].ID: true}, &resources[idx]
		}
	}
	known := make(map[string]bool, len(resources))
	for _, r := range resources {
		known[r.ID] = true
	}
	roots := make(map[string]bool)
	for _, r := range resources {
		if p := r.parent(); !known[p] {
			roots[p] = true
		}
	}
	return roots, nil
}

func countType(resources []InsomniaResource, typ string) int {
	n := 0
	for _, r := range resources {
		if r.Type == typ {
			n++
		}
	}
	return n
}

// insomniaVariables reads the base environment, the environment whose parent
// is a root. Sub-environments cannot be represented and are reported.
func insomniaVariables(resources []InsomniaResource, roots map[string]bool, ids *id.Allocator) ([]collection.Variable, []string, error) {
	var base *InsomniaResource
	for idx := range resources {
		r := &resources[idx]
		if r.Type == insomniaTypeEnvironment && roots[r.parent()] {
			base = r
			break
		}
	}
	if base == nil {
		return nil, nil, nil
	}

	var warnings []string
	for _, r := range resources {
		if r.Type == insomniaTypeEnvironment && r.parent() == base.ID {
			warnings = append(warnings, fmt.Sprintf("sub-environment %q was not imported", r.Name))
		}
	}

	if len(base.KVPairData) > 0 {
		vars := make([]collection.Variable, 0, len(base.KVPairData))
		for _, kv := range base.KVPairData {
			typ := collection.VariableDefault
			if kv.Type == "secret" {
				typ = collection.VariableSecret
			}
			vars = append(vars, collection.Variable{
				ID:      ids.Take(kv.ID),
				Key:     kv.Name,
				Value:   kv.Value,
				Type:    typ,
				Enabled: kv.Enabled == nil || *kv.Enabled,
			})
		}
		return vars, warnings, nil
	}

	if len(base.Data) == 0 || isNull(base.Data) {
		return nil, warnings, nil
	}
	members, err := jsonutil.ObjectMembers(base.Data)
	if err != nil {
		return nil, nil, &MalformedCollectionError{
			Format:   FormatInsomnia,
			Location: "/resources",
			Message:  fmt.Sprintf("environment %q data is not an object", base.Name),
			Cause:    err,
		}
	}
	members = orderMembers(members, base.DataPropertyOrder[insomniaPropertyOrderRoot])

	vars := make([]collection.Variable, 0, len(members))
	for _, m := range members {
		vars = append(vars, collection.Variable{
			ID:      ids.Take(""),
			Key:     m.Key,
			Value:   jsonutil.ScalarString(m.Value),
			Type:    collection.VariableDefault,
			Enabled: true,
		})
	}
	return vars, warnings, nil
}

// orderMembers puts members listed in order first, in that order, followed by
// the rest in document order.
func orderMembers(members []jsonutil.Member, order []string) []jsonutil.Member {
	if len(order) == 0 {
		return members
	}
	byKey := make(map[string]int, len(members))
	for idx, m := range members {
		if _, dup := byKey[m.Key]; !dup {
			byKey[m.Key] = idx
		}
	}
	used := make([]bool, len(members))
	out := make([]jsonutil.Member, 0, len(members))
	for _, key := range order {
		if idx, ok := byKey[key]; ok && !used[idx] {
			used[idx] = true
			out = append(out, members[idx])
		}
	}
	for idx, m := range members {
		if !used[idx] {
			out = append(out, m)
		}
	}
	return out
}

// insomniaRequest converts a request resource.
func insomniaRequest(r *InsomniaResource, ids *id.Allocator) collection.Request {
	method := strings.ToUpper(strings.TrimSpace(r.Method))
	if method == "" {
		method = collection.MethodGet
	}
	req := collection.Request{
		ID:               ids.Take(r.ID),
		Name:             r.Name,
		Method:           method,
		URL:              r.URL,
		Description:      r.Description,
		Body:             insomniaBodyText(r.Body),
		PreRequestScript: importScript(r.PreRequestScript, script.DialectInsomnia),
		TestScript:       importScript(r.AfterResponseScript, script.DialectInsomnia),
	}
	for _, h := range r.Headers {
		req.Headers = append(req.Headers, collection.Header{Key: h.Name, Value: h.Value, Enabled: !h.Disabled})
	}
	return req
}

func insomniaBodyText(b *InsomniaBody) string {
	if b == nil {
		return ""
	}
	if b.Text != "" || len(b.Params) == 0 {
		return b.Text
	}
	var parts []string
	for _, p := range b.Params {
		if p.Disabled || p.Type == "file" || p.Name == "" {
			continue
		}
		parts = append(parts, p.Name+"="+p.Value)
	}
	return strings.Join(parts, "&")
}

// Format returns FormatInsomnia.
func (i *InsomniaImporter) Format() Format {
	return FormatInsomnia
}

// init registers the Insomnia importer and exporter.
func init() {
	RegisterImporter(&InsomniaImporter{})
	RegisterExporter(&InsomniaExporter{})
}
