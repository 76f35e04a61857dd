package portability

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/getmockd/apiconv/internal/id"
	"github.com/getmockd/apiconv/internal/jsonutil"
	"github.com/getmockd/apiconv/pkg/collection"
)

// thunderSortStep spaces sortNum values of exported requests.
const thunderSortStep = 10000

// Assertions that have a declarative Thunder Client equivalent.
var (
	thunderStatusAssertion = regexp.MustCompile(`expect\(tc\.response\.status\)\.to\.equal\((\d+)\)`)
	thunderTimeAssertion   = regexp.MustCompile(`expect\(tc\.response\.time\)\.to\.be\.below\((\d+)\)`)
)

// ThunderClientExporter exports collections as a Thunder Client collection.
// Thunder Client requests are a flat list, so folders are flattened: their
// requests are emitted in tree order. Folder scripts have no place in the
// flat list and are dropped with a warning. No timestamps are written, so
// exports differ only in ids.
type ThunderClientExporter struct{}

// Export renders c as a Thunder Client collection.
func (e *ThunderClientExporter) Export(c *collection.Collection, opts *ExportOptions) ([]byte, []string, error) {
	pass := newScriptPass(c, FormatThunderClient)
	colID := id.UUID()

	tc := ThunderCollection{
		ID:       colID,
		ColName:  c.Name,
		SortNum:  thunderSortStep,
		Folders:  []ThunderFolder{},
		Requests: []ThunderRequest{},
		Docs:     c.Description,
	}

	pre := pass.run(c.PreRequestScript, collectionLabel, "pre-request")
	test := pass.run(c.TestScript, collectionLabel, "test")
	if pre != "" || test != "" {
		tc.Settings = &ThunderSettings{
			PreReq:  thunderInline(pre),
			PostReq: thunderInline(test),
			Tests:   deriveThunderTests(test),
		}
	}

	var flatten func(path []string, requests []collection.Request, folders []collection.Folder)
	flatten = func(path []string, requests []collection.Request, folders []collection.Folder) {
		for i := range requests {
			r := &requests[i]
			where := itemPath(path, r.Name)
			reqPre := pass.run(r.PreRequestScript, where, "pre-request")
			reqTest := pass.run(r.TestScript, where, "test")
			tc.Requests = append(tc.Requests, thunderRequestFrom(r, colID, len(tc.Requests), reqPre, reqTest))
		}
		for i := range folders {
			f := &folders[i]
			where := itemPath(path, f.Name)
			if collection.NormalizeScript(f.PreRequestScript) != "" {
				pass.warn("%s: folder pre-request script dropped, Thunder Client output has no folders", where)
			}
			if collection.NormalizeScript(f.TestScript) != "" {
				pass.warn("%s: folder test script dropped, Thunder Client output has no folders", where)
			}
			flatten(append(append([]string(nil), path...), f.Name), f.Requests, f.Folders)
		}
	}
	flatten(nil, c.Requests, c.Folders)

	if n := c.FolderCount(); n > 0 {
		pass.warn("%d folder(s) flattened: Thunder Client output keeps requests but not folder structure", n)
	}

	if len(c.Variables) > 0 {
		env := &ThunderEnvironment{Name: c.Name, Data: make([]ThunderEnvVariable, 0, len(c.Variables))}
		for _, v := range c.Variables {
			env.Data = append(env.Data, ThunderEnvVariable{
				Name:       v.Key,
				Value:      v.Value,
				IsSecret:   v.Type == collection.VariableSecret,
				IsDisabled: !v.Enabled,
			})
		}
		tc.Environment = env
	}

	data, err := jsonutil.Marshal(tc, opts.indent())
	if err != nil {
		return nil, nil, &MalformedCollectionError{Format: FormatThunderClient, Message: "failed to encode collection", Cause: err}
	}
	return data, pass.warnings, nil
}

func thunderRequestFrom(r *collection.Request, colID string, pos int, pre, test string) ThunderRequest {
	method := r.Method
	if method == "" {
		method = collection.MethodGet
	}
	tr := ThunderRequest{
		ID:      id.UUID(),
		ColID:   colID,
		Name:    r.Name,
		URL:     r.URL,
		Method:  method,
		SortNum: float64((pos + 1) * thunderSortStep),
		Headers: make([]ThunderHeader, 0, len(r.Headers)),
		Body:    thunderBodyFrom(r),
		Tests:   deriveThunderTests(test),
		PreReq:  thunderInline(pre),
		PostReq: thunderInline(test),
		Docs:    r.Description,
	}
	for _, h := range r.Headers {
		tr.Headers = append(tr.Headers, ThunderHeader{Name: h.Key, Value: h.Value, IsDisabled: !h.Enabled})
	}
	return tr
}

func thunderBodyFrom(r *collection.Request) *ThunderBody {
	if r.Body == "" {
		return nil
	}
	ct, _ := r.HeaderValue("Content-Type")
	ct = strings.ToLower(ct)
	switch {
	case strings.Contains(ct, "x-www-form-urlencoded"):
		body := &ThunderBody{Type: "formencoded", Form: []ThunderFormField{}}
		for _, part := range strings.Split(r.Body, "&") {
			if part == "" {
				continue
			}
			name, value, _ := strings.Cut(part, "=")
			body.Form = append(body.Form, ThunderFormField{Name: name, Value: value})
		}
		return body
	case json.Valid([]byte(r.Body)):
		return &ThunderBody{Type: "json", Raw: r.Body, Form: []ThunderFormField{}}
	case strings.Contains(ct, "xml"):
		return &ThunderBody{Type: "xml", Raw: r.Body, Form: []ThunderFormField{}}
	default:
		return &ThunderBody{Type: "text", Raw: r.Body, Form: []ThunderFormField{}}
	}
}

func thunderInline(text string) *ThunderScripts {
	if text == "" {
		return nil
	}
	return &ThunderScripts{InlineScripts: []ThunderInlineScript{{Script: splitScript(text)}}}
}

// deriveThunderTests finds assertions with a declarative equivalent. The
// result is never nil so "tests" is always an array.
func deriveThunderTests(text string) []ThunderTest {
	tests := []ThunderTest{}
	for _, m := range thunderStatusAssertion.FindAllStringSubmatch(text, -1) {
		tests = append(tests, ThunderTest{Type: "res-code", Action: "equal", Value: m[1]})
	}
	for _, m := range thunderTimeAssertion.FindAllStringSubmatch(text, -1) {
		tests = append(tests, ThunderTest{Type: "res-time", Action: "lessthan", Value: m[1]})
	}
	return tests
}

// Format returns FormatThunderClient.
func (e *ThunderClientExporter) Format() Format {
	return FormatThunderClient
}
