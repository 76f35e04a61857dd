// Package jsonutil holds small JSON helpers that encoding/json does not provide,
// mainly decoding objects without losing member order.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Member is one key/value pair of a JSON object.
type Member struct {
	Key   string
	Value json.RawMessage
}

// ErrNotObject is returned when the input is not a JSON object.
var ErrNotObject = errors.New("json value is not an object")

// ObjectMembers decodes a JSON object into its members in document order.
// Duplicate keys are kept as separate members.
func ObjectMembers(data []byte) ([]Member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	var members []Member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key token %v", keyTok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("decode value of %q: %w", key, err)
		}
		members = append(members, Member{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return members, nil
}

// ScalarString renders a decoded JSON value as a variable value: strings are
// returned unquoted, null becomes "", and everything else keeps its JSON text.
func ScalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
	}
	return string(raw)
}

// WriteObject writes members as a JSON object, preserving order. Values are
// marshaled with encoding/json. indent follows json.MarshalIndent semantics;
// an empty indent produces compact output.
func WriteObject(members []Member, indent string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range members {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := Marshal(m.Key, "")
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(m.Value)
	}
	buf.WriteByte('}')

	if indent == "" {
		return buf.Bytes(), nil
	}
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// StringMember builds a member whose value is a JSON string.
func StringMember(key, value string) Member {
	b, _ := Marshal(value, "")
	return Member{Key: key, Value: b}
}

// Marshal encodes v without HTML escaping, so scripts keep their <, > and &
// characters readable. indent follows json.MarshalIndent; "" is compact. The
// trailing newline written by json.Encoder is removed.
func Marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
