package portability

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/getmockd/apiconv/internal/id"
	"github.com/getmockd/apiconv/internal/jsonutil"
	"github.com/getmockd/apiconv/pkg/collection"
	"github.com/getmockd/apiconv/pkg/script"
)

// Insomnia v5 (YAML) types. The document is converted to JSON by
// DecodeDocument before it reaches these.

// InsomniaV5Collection is an Insomnia v5 collection export.
type InsomniaV5Collection struct {
	Type         string                 `json:"type"`
	Name         string                 `json:"name"`
	Meta         InsomniaV5Meta         `json:"meta"`
	Collection   []InsomniaV5Item       `json:"collection"`
	Environments *InsomniaV5Environment `json:"environments,omitempty"`
	Scripts      *InsomniaV5Scripts     `json:"scripts,omitempty"`
}

// InsomniaV5Meta carries item identity and ordering.
type InsomniaV5Meta struct {
	ID          string   `json:"id"`
	SortKey     *float64 `json:"sortKey,omitempty"`
	Description string   `json:"description,omitempty"`
}

// InsomniaV5Item is a request, or a folder when Children is non-nil.
type InsomniaV5Item struct {
	Name     string             `json:"name"`
	Meta     InsomniaV5Meta     `json:"meta"`
	URL      string             `json:"url,omitempty"`
	Method   string             `json:"method,omitempty"`
	Body     *InsomniaBody      `json:"body,omitempty"`
	Headers  []InsomniaHeader   `json:"headers,omitempty"`
	Scripts  *InsomniaV5Scripts `json:"scripts,omitempty"`
	Children *[]InsomniaV5Item  `json:"children,omitempty"`
}

// InsomniaV5Scripts holds the hooks of an item.
type InsomniaV5Scripts struct {
	PreRequest    string `json:"preRequest,omitempty"`
	AfterResponse string `json:"afterResponse,omitempty"`
}

func (s *InsomniaV5Scripts) hooks() (pre, test string) {
	if s == nil {
		return "", ""
	}
	return importScript(s.PreRequest, script.DialectInsomnia), importScript(s.AfterResponse, script.DialectInsomnia)
}

// InsomniaV5Environment is the base environment with its children.
type InsomniaV5Environment struct {
	Name            string                  `json:"name"`
	Meta            InsomniaV5Meta          `json:"meta"`
	Data            json.RawMessage         `json:"data,omitempty"`
	SubEnvironments []InsomniaV5Environment `json:"subEnvironments,omitempty"`
}

// importInsomniaV5 converts a v5 document. Items are already nested, so no
// tree building is needed.
func importInsomniaV5(doc *Document) (*ImportResult, error) {
	if err := validateStructure(FormatInsomnia, schemaInsomniaV5, doc.Tree); err != nil {
		return nil, err
	}
	var v5 InsomniaV5Collection
	if err := decodeVendor(doc.Raw, &v5); err != nil {
		return nil, &MalformedCollectionError{
			Format:  FormatInsomnia,
			Message: "failed to parse Insomnia v5 collection",
			Cause:   err,
		}
	}

	result := &ImportResult{}
	ids := &id.Allocator{}
	c := collection.New(v5.Name, collection.SourceInsomnia)
	c.Description = v5.Meta.Description
	c.PreRequestScript, c.TestScript = v5.Scripts.hooks()

	if env := v5.Environments; env != nil {
		if len(env.Data) > 0 && !isNull(env.Data) {
			members, err := jsonutil.ObjectMembers(env.Data)
			if err != nil {
				return nil, &MalformedCollectionError{
					Format:   FormatInsomnia,
					Location: "/environments/data",
					Message:  "environment data is not an object",
					Cause:    err,
				}
			}
			for _, m := range members {
				c.Variables = append(c.Variables, collection.Variable{
					ID:      ids.Take(""),
					Key:     m.Key,
					Value:   jsonutil.ScalarString(m.Value),
					Type:    collection.VariableDefault,
					Enabled: true,
				})
			}
		}
		for _, sub := range env.SubEnvironments {
			result.Warnings = append(result.Warnings, fmt.Sprintf("sub-environment %q was not imported", sub.Name))
		}
	}

	c.Requests, c.Folders = insomniaV5Items(v5.Collection, ids)
	result.Collection = c
	return result, nil
}

func insomniaV5Items(items []InsomniaV5Item, ids *id.Allocator) ([]collection.Request, []collection.Folder) {
	ordered := make([]*InsomniaV5Item, len(items))
	allKeyed := true
	for i := range items {
		ordered[i] = &items[i]
		if items[i].Meta.SortKey == nil {
			allKeyed = false
		}
	}
	if allKeyed {
		sort.SliceStable(ordered, func(a, b int) bool {
			return *ordered[a].Meta.SortKey < *ordered[b].Meta.SortKey
		})
	}

	var (
		requests []collection.Request
		folders  []collection.Folder
	)
	for _, item := range ordered {
		if item.Children != nil {
			folder := collection.Folder{
				ID:          ids.Take(item.Meta.ID),
				Name:        item.Name,
				Description: item.Meta.Description,
			}
			folder.PreRequestScript, folder.TestScript = item.Scripts.hooks()
			folder.Requests, folder.Folders = insomniaV5Items(*item.Children, ids)
			folders = append(folders, folder)
			continue
		}

		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" {
			method = collection.MethodGet
		}
		req := collection.Request{
			ID:          ids.Take(item.Meta.ID),
			Name:        item.Name,
			Method:      method,
			URL:         item.URL,
			Description: item.Meta.Description,
			Body:        insomniaBodyText(item.Body),
		}
		req.PreRequestScript, req.TestScript = item.Scripts.hooks()
		for _, h := range item.Headers {
			req.Headers = append(req.Headers, collection.Header{Key: h.Name, Value: h.Value, Enabled: !h.Disabled})
		}
		requests = append(requests, req)
	}
	return requests, folders
}
