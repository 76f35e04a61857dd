package bulk

import (
	"errors"
	"regexp/syntax"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/apiconv/pkg/collection"
	"github.com/getmockd/apiconv/pkg/varfile"
)

func sample() *collection.Collection {
	c := collection.New("Shop", collection.SourcePostman)
	c.Variables = []collection.Variable{
		{ID: "v1", Key: "host", Value: "shop.local", Type: collection.VariableDefault, Enabled: true},
		{ID: "v2", Key: "token", Value: "Example-Token", Type: collection.VariableSecret, Enabled: true},
	}
	c.Requests = []collection.Request{
		{ID: "r1", Name: "Home", Method: "GET", URL: "https://example.com/"},
	}
	c.Folders = []collection.Folder{{
		ID:   "f1",
		Name: "Orders",
		Requests: []collection.Request{{
			ID:      "r2",
			Name:    "List",
			Method:  "GET",
			URL:     "https://api.example.com/orders",
			Headers: []collection.Header{{Key: "X-Origin", Value: "app.local", Enabled: true}},
		}},
		Folders: []collection.Folder{{
			ID:   "f2",
			Name: "Admin",
			Requests: []collection.Request{{
				ID:     "r3",
				Name:   "Purge",
				Method: "DELETE",
				URL:    "https://EXAMPLE.COM/orders",
				Body:   `{"reason": "cleanup"}`,
			}},
		}},
	}}
	return c
}

func TestReplace_AcrossRequests(t *testing.T) {
	c := sample()
	before := c.Clone()

	result, err := Replace(c, ReplaceOptions{Find: "example.com", Replace: "test.local", Scope: ScopeAll})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Count)

	urls := []string{}
	collection.Walk(result.Collection, func(_ []string, _ *collection.Folder, r *collection.Request) bool {
		if r != nil {
			urls = append(urls, r.URL)
		}
		return true
	})
	assert.Equal(t, []string{"https://test.local/", "https://api.test.local/orders", "https://test.local/orders"}, urls)

	found, err := Find(result.Collection, SearchOptions{Term: "example.com"})
	require.NoError(t, err)
	assert.Empty(t, found)

	assert.Equal(t, before, c, "the input collection is unchanged")
}

func TestReplace_Options(t *testing.T) {
	tests := []struct {
		name  string
		opts  ReplaceOptions
		count int
		check func(t *testing.T, c *collection.Collection)
	}{
		{
			name:  "case sensitive",
			opts:  ReplaceOptions{Find: "example.com", Replace: "x", CaseSensitive: true},
			count: 2,
			check: func(t *testing.T, c *collection.Collection) {
				assert.Equal(t, "https://EXAMPLE.COM/orders", c.Folders[0].Folders[0].Requests[0].URL)
			},
		},
		{
			name:  "plain mode is literal",
			opts:  ReplaceOptions{Find: ".", Replace: "$1"},
			count: 6,
			check: func(t *testing.T, c *collection.Collection) {
				assert.Equal(t, "shop$1local", c.Variables[0].Value)
			},
		},
		{
			name:  "regex groups expand",
			opts:  ReplaceOptions{Find: `(\w+)\.local`, Replace: "${1}.dev", Regex: true},
			count: 2,
			check: func(t *testing.T, c *collection.Collection) {
				assert.Equal(t, "shop.dev", c.Variables[0].Value)
				assert.Equal(t, "app.dev", c.Folders[0].Requests[0].Headers[0].Value)
			},
		},
		{
			name:  "variables scope",
			opts:  ReplaceOptions{Find: "example", Replace: "sample", Scope: ScopeVariables},
			count: 1,
			check: func(t *testing.T, c *collection.Collection) {
				assert.Equal(t, "sample-Token", c.Variables[1].Value)
				assert.Equal(t, "https://example.com/", c.Requests[0].URL)
			},
		},
		{
			name:  "path glob",
			opts:  ReplaceOptions{Find: "example.com", Replace: "x", Scope: ScopeRequests, PathGlob: "Orders/**"},
			count: 2,
			check: func(t *testing.T, c *collection.Collection) {
				assert.Equal(t, "https://example.com/", c.Requests[0].URL)
				assert.Equal(t, "https://x/orders", c.Folders[0].Folders[0].Requests[0].URL)
			},
		},
		{
			name:  "body",
			opts:  ReplaceOptions{Find: "cleanup", Replace: "audit", Scope: ScopeRequests},
			count: 1,
			check: func(t *testing.T, c *collection.Collection) {
				assert.Equal(t, `{"reason": "audit"}`, c.Folders[0].Folders[0].Requests[0].Body)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Replace(sample(), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.count, result.Count)
			tt.check(t, result.Collection)
		})
	}
}

func TestReplace_InvalidRegex(t *testing.T) {
	c := sample()
	_, err := Replace(c, ReplaceOptions{Find: "([a-z", Replace: "x", Regex: true})
	require.Error(t, err)

	var patternErr *PatternError
	require.ErrorAs(t, err, &patternErr)
	assert.Equal(t, "([a-z", patternErr.Pattern)
	var syntaxErr *syntax.Error
	assert.True(t, errors.As(err, &syntaxErr), "the regexp compile error is wrapped")
}

func TestReplace_InvalidInput(t *testing.T) {
	_, err := Replace(sample(), ReplaceOptions{Find: ""})
	assert.ErrorIs(t, err, ErrEmptyTerm)

	_, err = Replace(nil, ReplaceOptions{Find: "a"})
	assert.ErrorIs(t, err, ErrNilCollection)

	_, err = Replace(sample(), ReplaceOptions{Find: "a", PathGlob: "Orders/[a"})
	var patternErr *PatternError
	assert.ErrorAs(t, err, &patternErr)
}

func TestFind(t *testing.T) {
	c := sample()

	results, err := Find(c, SearchOptions{Term: "example"})
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, SearchResult{
		Location: "Variables / token",
		Field:    FieldVariableValue,
		ItemID:   "v2",
		Key:      "token",
		Value:    "Example-Token",
		Matches:  1,
	}, results[0])
	assert.Equal(t, "Home", results[1].Location)
	assert.Equal(t, FieldURL, results[1].Field)
	assert.Equal(t, "Orders / List", results[2].Location)
	assert.Equal(t, "Orders / Admin / Purge", results[3].Location)
	assert.Equal(t, "r3", results[3].ItemID)
}

func TestFind_Scopes(t *testing.T) {
	tests := []struct {
		name string
		opts SearchOptions
		want []Field
	}{
		{"variables only", SearchOptions{Term: "o", Scope: ScopeVariables, CaseSensitive: true}, []Field{FieldVariableKey, FieldVariableValue, FieldVariableKey, FieldVariableValue}},
		{"header key and value", SearchOptions{Term: "origin|app", Regex: true, Scope: ScopeRequests}, []Field{FieldHeaderKey, FieldHeaderValue}},
		{"case sensitive miss", SearchOptions{Term: "EXAMPLE", CaseSensitive: true, Scope: ScopeRequests}, []Field{FieldURL}},
		{"glob on request name", SearchOptions{Term: "orders", Scope: ScopeRequests, PathGlob: "**/Purge"}, []Field{FieldURL}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Find(sample(), tt.opts)
			require.NoError(t, err)
			got := make([]Field, len(results))
			for i, r := range results {
				got[i] = r.Field
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFind_MatchCount(t *testing.T) {
	c := collection.New("c", collection.SourceRaw)
	c.Requests = []collection.Request{{ID: "r", Name: "R", URL: "https://a.example/a/a?x=a"}}

	results, err := Find(c, SearchOptions{Term: "a", CaseSensitive: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 5, results[0].Matches)
}

func TestParseScope(t *testing.T) {
	tests := []struct {
		in      string
		want    Scope
		wantErr bool
	}{
		{"", ScopeAll, false},
		{"ALL", ScopeAll, false},
		{"vars", ScopeVariables, false},
		{"requests", ScopeRequests, false},
		{"folders", "", true},
	}
	for _, tt := range tests {
		got, err := ParseScope(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseScope(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseScope(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBulkEditVariables(t *testing.T) {
	c := sample()
	before := c.Clone()

	value := "shop.prod"
	disabled := false
	secret := collection.VariableSecret
	out := BulkEditVariables(c, []VariableUpdate{
		{ID: "v1", Value: &value, Type: &secret},
		{ID: "v2", Enabled: &disabled},
		{ID: "missing", Value: &value},
	})

	require.Len(t, out.Variables, 2)
	assert.Equal(t, "shop.prod", out.Variables[0].Value)
	assert.Equal(t, "host", out.Variables[0].Key, "unset fields are kept")
	assert.Equal(t, collection.VariableSecret, out.Variables[0].Type)
	assert.False(t, out.Variables[1].Enabled)
	assert.Equal(t, before, c)

	assert.Nil(t, BulkEditVariables(nil, nil))
}

func TestDeleteVariablesAndRequests(t *testing.T) {
	c := sample()
	before := c.Clone()

	vars, n := DeleteVariables(c, []string{"v1", "nope"})
	assert.Equal(t, 1, n)
	require.Len(t, vars.Variables, 1)
	assert.Equal(t, "token", vars.Variables[0].Key)

	reqs, n := DeleteRequests(c, []string{"r1", "r3"})
	assert.Equal(t, 2, n)
	assert.Empty(t, reqs.Requests)
	require.Len(t, reqs.Folders[0].Requests, 1)
	assert.Empty(t, reqs.Folders[0].Folders[0].Requests)
	assert.Equal(t, "Admin", reqs.Folders[0].Folders[0].Name, "emptied folders stay")

	assert.Equal(t, before, c)
}

func TestRequestIDs(t *testing.T) {
	c := sample()
	tests := []struct {
		sel  string
		want []string
	}{
		{"r2", []string{"r2"}},
		{"Orders/List", []string{"r2"}},
		{"Orders/**", []string{"r2", "r3"}},
		{"*", []string{"r1"}},
		{"**/Purge", []string{"r3"}},
		{"Missing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			ids, err := RequestIDs(c, tt.sel)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids)
		})
	}

	_, err := RequestIDs(c, "Orders/[")
	var pe *PatternError
	assert.True(t, errors.As(err, &pe))
}

func TestExportImportVariables(t *testing.T) {
	c := sample()
	c.Variables = append(c.Variables, collection.Variable{
		ID: "v3", Key: "off", Value: "1", Type: collection.VariableDefault, Description: "unused", Enabled: false,
	})

	for _, format := range []varfile.Format{varfile.FormatCSV, varfile.FormatJSON} {
		t.Run(string(format), func(t *testing.T) {
			data, err := ExportVariables(c, format)
			require.NoError(t, err)
			vars, err := ImportVariables(data, format)
			require.NoError(t, err)
			require.Len(t, vars, len(c.Variables))
			for i, v := range vars {
				want := c.Variables[i]
				assert.NotEqual(t, want.ID, v.ID, "ids are always fresh")
				assert.NotEmpty(t, v.ID)
				want.ID = v.ID
				assert.Equal(t, want, v)
			}
		})
	}

	env, err := ExportVariables(c, varfile.FormatEnv)
	require.NoError(t, err)
	assert.NotContains(t, string(env), "off=")

	_, err = ExportVariables(c, varfile.Format("xml"))
	assert.Error(t, err)
	_, err = ImportVariables([]byte("{"), varfile.FormatJSON)
	assert.Error(t, err)
}

func TestImportVariables_EnabledDefault(t *testing.T) {
	data := []byte("key,value,enabled\na,1,\nb,2,FALSE\nc,3,no\n")
	vars, err := ImportVariables(data, varfile.FormatCSV)
	require.NoError(t, err)
	require.Len(t, vars, 3)
	assert.True(t, vars[0].Enabled)
	assert.False(t, vars[1].Enabled)
	assert.True(t, vars[2].Enabled, "only an explicit false disables")
}

func TestMergeVariables(t *testing.T) {
	c := sample()
	incoming := []collection.Variable{
		{ID: "x1", Key: "token", Value: "new", Type: collection.VariableSecret, Enabled: true},
		{ID: "v1", Key: "region", Value: "eu", Type: collection.VariableDefault, Enabled: true},
	}

	merged := MergeVariables(c, incoming, false)
	require.Len(t, merged.Variables, 3)
	assert.Equal(t, "v2", merged.Variables[1].ID, "existing key keeps its id")
	assert.Equal(t, "new", merged.Variables[1].Value)
	assert.Equal(t, "region", merged.Variables[2].Key)
	assert.NotEqual(t, "v1", merged.Variables[2].ID, "colliding ids are replaced")
	assert.NoError(t, merged.Validate())

	replaced := MergeVariables(c, incoming, true)
	require.Len(t, replaced.Variables, 2)
	assert.Equal(t, "x1", replaced.Variables[0].ID)

	assert.Len(t, c.Variables, 2)
	assert.Equal(t, "Example-Token", c.Variables[1].Value)
}
