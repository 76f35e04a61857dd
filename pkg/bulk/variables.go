package bulk

import (
	"fmt"

	"github.com/getmockd/apiconv/internal/id"
	"github.com/getmockd/apiconv/pkg/collection"
	"github.com/getmockd/apiconv/pkg/varfile"
)

// VariableUpdate changes the variable with the given ID. Nil fields are left
// as they are.
type VariableUpdate struct {
	ID          string
	Key         *string
	Value       *string
	Type        *collection.VariableType
	Description *string
	Enabled     *bool
}

// BulkEditVariables applies updates to a copy of c. Updates naming an unknown
// id are ignored; when several updates name the same id they apply in order.
func BulkEditVariables(c *collection.Collection, updates []VariableUpdate) *collection.Collection {
	out := c.Clone()
	if out == nil {
		return nil
	}
	index := make(map[string]int, len(out.Variables))
	for i, v := range out.Variables {
		index[v.ID] = i
	}
	for _, u := range updates {
		i, ok := index[u.ID]
		if !ok {
			continue
		}
		v := &out.Variables[i]
		if u.Key != nil {
			v.Key = *u.Key
		}
		if u.Value != nil {
			v.Value = *u.Value
		}
		if u.Type != nil {
			v.Type = *u.Type
		}
		if u.Description != nil {
			v.Description = *u.Description
		}
		if u.Enabled != nil {
			v.Enabled = *u.Enabled
		}
	}
	return out
}

// DeleteVariables returns a copy of c without the variables whose id is in
// ids, and the number removed.
func DeleteVariables(c *collection.Collection, ids []string) (*collection.Collection, int) {
	out := c.Clone()
	if out == nil {
		return nil, 0
	}
	drop := toSet(ids)
	kept := out.Variables[:0]
	for _, v := range out.Variables {
		if !drop[v.ID] {
			kept = append(kept, v)
		}
	}
	removed := len(out.Variables) - len(kept)
	out.Variables = kept
	return out, removed
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, s := range ids {
		set[s] = true
	}
	return set
}

// ExportVariables encodes the variable list of c. CSV and JSON carry every
// variable with all fields; .env carries enabled variables only.
func ExportVariables(c *collection.Collection, format varfile.Format) ([]byte, error) {
	if c == nil {
		return nil, ErrNilCollection
	}
	switch format {
	case varfile.FormatCSV:
		return []byte(varfile.EncodeCSV(c.Variables)), nil
	case varfile.FormatJSON:
		return varfile.EncodeJSONList(c.Variables, "  ")
	case varfile.FormatEnv:
		return []byte(varfile.EncodeEnv(c.Variables)), nil
	default:
		return nil, fmt.Errorf("unsupported variable format %q", format)
	}
}

// ImportVariables decodes a variable list. Every variable gets a fresh id;
// ids present in the input are ignored.
func ImportVariables(data []byte, format varfile.Format) ([]collection.Variable, error) {
	vars, err := varfile.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("import variables: %w", err)
	}
	for i := range vars {
		vars[i].ID = id.UUID()
	}
	return vars, nil
}

// MergeVariables returns a copy of c with vars merged in. With replace the
// variable list is swapped for vars. Otherwise a variable whose key already
// exists overwrites that variable's fields but keeps its id, and new keys are
// appended. Ids are made unique within the result.
func MergeVariables(c *collection.Collection, vars []collection.Variable, replace bool) *collection.Collection {
	out := c.Clone()
	if out == nil {
		return nil
	}

	ids := &id.Allocator{}
	if replace {
		out.Variables = make([]collection.Variable, 0, len(vars))
		for _, v := range vars {
			v.ID = ids.Take(v.ID)
			out.Variables = append(out.Variables, v)
		}
		return out
	}

	byKey := make(map[string]int, len(out.Variables))
	for i := range out.Variables {
		out.Variables[i].ID = ids.Take(out.Variables[i].ID)
		if _, dup := byKey[out.Variables[i].Key]; !dup {
			byKey[out.Variables[i].Key] = i
		}
	}
	for _, v := range vars {
		if i, ok := byKey[v.Key]; ok {
			v.ID = out.Variables[i].ID
			out.Variables[i] = v
			continue
		}
		v.ID = ids.Take(v.ID)
		byKey[v.Key] = len(out.Variables)
		out.Variables = append(out.Variables, v)
	}
	return out
}
