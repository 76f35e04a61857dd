package portability

import (
	"encoding/json"
	"strings"

	"github.com/getmockd/apiconv/internal/id"
	"github.com/getmockd/apiconv/internal/jsonutil"
	"github.com/getmockd/apiconv/pkg/collection"
)

// insomniaExportSource is written to __export_source.
const insomniaExportSource = "apiconv"

// Mime types chosen for exported bodies.
const (
	mimeJSON  = "application/json"
	mimePlain = "text/plain"
)

// InsomniaExporter exports collections as Insomnia v4 JSON.
type InsomniaExporter struct{}

// Export renders c as an Insomnia export with a synthetic workspace root.
func (e *InsomniaExporter) Export(c *collection.Collection, opts *ExportOptions) ([]byte, []string, error) {
	pass := newScriptPass(c, FormatInsomnia)

	workspaceID := id.Prefixed(id.PrefixWorkspace)
	resources := []InsomniaResource{
		{
			ID:                  workspaceID,
			Type:                insomniaTypeWorkspace,
			Name:                c.Name,
			Description:         c.Description,
			Scope:               "collection",
			PreRequestScript:    pass.run(c.PreRequestScript, collectionLabel, "pre-request"),
			AfterResponseScript: pass.run(c.TestScript, collectionLabel, "after-response"),
		},
	}

	env, err := insomniaBaseEnvironment(workspaceID, c.Variables)
	if err != nil {
		return nil, nil, err
	}
	resources = append(resources, env)

	for _, node := range flattenTree(workspaceID, c.Requests, c.Folders, id.Prefixed) {
		resources = append(resources, e.resource(pass, node))
	}

	export := InsomniaExport{
		Type:         insomniaTypeExport,
		ExportFormat: 4,
		ExportSource: insomniaExportSource,
		Resources:    resources,
	}
	data, err := jsonutil.Marshal(export, opts.indent())
	if err != nil {
		return nil, nil, &MalformedCollectionError{Format: FormatInsomnia, Message: "failed to encode export", Cause: err}
	}
	return data, pass.warnings, nil
}

func (e *InsomniaExporter) resource(pass *scriptPass, node flatNode) InsomniaResource {
	parentID := node.ParentID
	sortKey := node.SortKey

	if f := node.Folder; f != nil {
		where := itemPath(node.Path, f.Name)
		return InsomniaResource{
			ID:                  node.ID,
			Type:                insomniaTypeRequestGroup,
			ParentID:            &parentID,
			Name:                f.Name,
			Description:         f.Description,
			MetaSortKey:         &sortKey,
			PreRequestScript:    pass.run(f.PreRequestScript, where, "pre-request"),
			AfterResponseScript: pass.run(f.TestScript, where, "after-response"),
		}
	}

	r := node.Request
	where := itemPath(node.Path, r.Name)
	method := r.Method
	if method == "" {
		method = collection.MethodGet
	}
	res := InsomniaResource{
		ID:                  node.ID,
		Type:                insomniaTypeRequest,
		ParentID:            &parentID,
		Name:                r.Name,
		Description:         r.Description,
		MetaSortKey:         &sortKey,
		Method:              method,
		URL:                 r.URL,
		Headers:             make([]InsomniaHeader, 0, len(r.Headers)),
		PreRequestScript:    pass.run(r.PreRequestScript, where, "pre-request"),
		AfterResponseScript: pass.run(r.TestScript, where, "after-response"),
	}
	for _, h := range r.Headers {
		res.Headers = append(res.Headers, InsomniaHeader{Name: h.Key, Value: h.Value, Disabled: !h.Enabled})
	}
	if r.Body != "" {
		res.Body = &InsomniaBody{MimeType: bodyMimeType(r), Text: r.Body}
	}
	return res
}

// insomniaBaseEnvironment carries every variable: data and dataPropertyOrder
// hold the enabled ones, kvPairData holds all of them with their flags.
func insomniaBaseEnvironment(workspaceID string, vars []collection.Variable) (InsomniaResource, error) {
	env := InsomniaResource{
		ID:                id.Prefixed(id.PrefixEnvironment),
		Type:              insomniaTypeEnvironment,
		ParentID:          &workspaceID,
		Name:              "Base Environment",
		DataPropertyOrder: map[string][]string{insomniaPropertyOrderRoot: {}},
		KVPairData:        make([]InsomniaKVPair, 0, len(vars)),
		EnvironmentType:   "kv",
	}

	index := make(map[string]int)
	var members []jsonutil.Member
	for _, v := range vars {
		enabled := v.Enabled
		typ := "str"
		if v.Type == collection.VariableSecret {
			typ = "secret"
		}
		env.KVPairData = append(env.KVPairData, InsomniaKVPair{
			ID:      id.Prefixed(id.PrefixPair),
			Name:    v.Key,
			Value:   v.Value,
			Type:    typ,
			Enabled: &enabled,
		})
		if !v.Enabled {
			continue
		}
		m := jsonutil.StringMember(v.Key, v.Value)
		if i, ok := index[v.Key]; ok {
			members[i] = m
			continue
		}
		index[v.Key] = len(members)
		members = append(members, m)
		env.DataPropertyOrder[insomniaPropertyOrderRoot] = append(env.DataPropertyOrder[insomniaPropertyOrderRoot], v.Key)
	}

	data, err := jsonutil.WriteObject(members, "")
	if err != nil {
		return InsomniaResource{}, &MalformedCollectionError{Format: FormatInsomnia, Message: "failed to encode environment", Cause: err}
	}
	env.Data = data
	return env, nil
}

// bodyMimeType uses the request's Content-Type header when set, application/json
// for JSON bodies, and text/plain otherwise.
func bodyMimeType(r *collection.Request) string {
	if ct, ok := r.HeaderValue("Content-Type"); ok && strings.TrimSpace(ct) != "" {
		mime, _, _ := strings.Cut(ct, ";")
		return strings.TrimSpace(mime)
	}
	if json.Valid([]byte(r.Body)) {
		return mimeJSON
	}
	return mimePlain
}

// Format returns FormatInsomnia.
func (e *InsomniaExporter) Format() Format {
	return FormatInsomnia
}
