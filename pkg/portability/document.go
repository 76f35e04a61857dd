package portability

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/apiconv/internal/jsonutil"
)

// Document is a decoded source document. Raw is its JSON encoding, with object
// member order preserved, which importers unmarshal into vendor structs. Tree is
// the generic form (maps, slices, strings, json.Number, bools, nil) that
// detection and schema validation run against.
type Document struct {
	Raw  []byte
	Tree any
}

// decodeVendor unmarshals a vendor document into v. A value whose JSON type
// does not fit its field is skipped and leaves the field at its zero value;
// any other error is returned.
func decodeVendor(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return nil
	}
	return err
}

// maxYAMLDepth bounds nesting (aliases included) when converting YAML to JSON.
const maxYAMLDepth = 256

// DecodeDocument decodes JSON, falling back to YAML for Insomnia v5 exports.
func DecodeDocument(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &FormatDetectionError{Message: "document is empty"}
	}

	raw := trimmed
	if !json.Valid(trimmed) {
		var node yaml.Node
		if err := yaml.Unmarshal(trimmed, &node); err != nil {
			return nil, &FormatDetectionError{Message: "document is neither JSON nor YAML", Cause: err}
		}
		converted, err := yamlToJSON(&node, 0)
		if err != nil {
			return nil, &FormatDetectionError{Message: "unsupported YAML document", Cause: err}
		}
		raw = converted
	}

	tree, err := decodeTree(raw)
	if err != nil {
		return nil, &FormatDetectionError{Message: "document could not be decoded", Cause: err}
	}
	return &Document{Raw: raw, Tree: tree}, nil
}

// NewDocument wraps an already-decoded value. Byte slices and strings are
// decoded with DecodeDocument; other values must be JSON-encodable. Maps lose
// their key order on encoding, so pass bytes where member order matters.
func NewDocument(v any) (*Document, error) {
	switch doc := v.(type) {
	case nil:
		return nil, &FormatDetectionError{Message: "document is empty"}
	case *Document:
		return doc, nil
	case []byte:
		return DecodeDocument(doc)
	case json.RawMessage:
		return DecodeDocument(doc)
	case string:
		return DecodeDocument([]byte(doc))
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, &FormatDetectionError{Message: "document is not JSON-encodable", Cause: err}
	}
	tree, err := decodeTree(raw)
	if err != nil {
		return nil, &FormatDetectionError{Message: "document could not be decoded", Cause: err}
	}
	return &Document{Raw: raw, Tree: tree}, nil
}

func decodeTree(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// yamlToJSON converts a YAML node to JSON, keeping mapping order.
func yamlToJSON(n *yaml.Node, depth int) ([]byte, error) {
	if depth > maxYAMLDepth {
		return nil, errors.New("yaml nesting too deep")
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return []byte("null"), nil
		}
		return yamlToJSON(n.Content[0], depth+1)
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unresolved alias", n.Line)
		}
		return yamlToJSON(n.Alias, depth+1)
	case yaml.MappingNode:
		members := make([]jsonutil.Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if key.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping keys must be scalars", key.Line)
			}
			value, err := yamlToJSON(n.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			members = append(members, jsonutil.Member{Key: key.Value, Value: value})
		}
		return jsonutil.WriteObject(members, "")
	case yaml.SequenceNode:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			value, err := yamlToJSON(item, depth+1)
			if err != nil {
				return nil, err
			}
			buf.Write(value)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return []byte("null"), nil
		case "!!bool", "!!int", "!!float":
			var v any
			if err := n.Decode(&v); err == nil {
				if b, err := json.Marshal(v); err == nil {
					return b, nil
				}
			}
		}
		return jsonutil.Marshal(n.Value, "")
	default:
		return nil, fmt.Errorf("line %d: unsupported yaml node", n.Line)
	}
}
