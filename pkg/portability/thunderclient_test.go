package portability

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/apiconv/pkg/collection"
)

const thunderFixture = `{
  "clientName": "Thunder Client",
  "collectionName": "Weather",
  "collectionId": "col-1",
  "dateExported": "2024-03-01T10:00:00.000Z",
  "version": "1.2",
  "settings": {
    "docs": "Forecast service",
    "preReq": {"inlineScripts": [{"script": ["tc.setVar(\"started\", Date.now());"]}]}
  },
  "environment": {
    "name": "Weather",
    "data": [
      {"name": "base", "value": "https://weather.local"},
      {"name": "key", "value": "k", "isSecret": true},
      {"name": "old", "value": "o", "isDisabled": true},
      {"name": " ", "value": "blank"}
    ]
  },
  "folders": [
    {"_id": "f-forecast", "name": "Forecast", "containerId": "", "sortNum": 2000},
    {"_id": "f-daily", "name": "Daily", "containerId": "f-forecast", "sortNum": 1000,
     "settings": {"tests": [{"type": "res-code", "custom": "", "action": "equal", "value": "200"}]}},
    {"_id": "f-alerts", "name": "Alerts", "containerId": "", "sortNum": 1000}
  ],
  "requests": [
    {"_id": "r-today", "colId": "col-1", "containerId": "f-forecast", "name": "Today", "url": "{{base}}/today", "method": "GET", "sortNum": 1000,
     "headers": [{"name": "Accept", "value": "application/json"}, {"name": "X-Off", "value": "1", "isDisabled": true}],
     "tests": [
       {"type": "res-code", "custom": "", "action": "equal", "value": "200"},
       {"type": "res-time", "custom": "", "action": "lessthan", "value": "500"},
       {"type": "json-query", "custom": "json.city", "action": "equal", "value": "Oslo"},
       {"type": "set-env-var", "custom": "json.token", "action": "setto", "value": "{{token}}"},
       {"type": "res-cookie", "custom": "sid", "action": "notequal", "value": ""}
     ],
     "postReq": {"inlineScripts": [{"script": ["tc.test(\"ok\", () => {", "  expect(tc.response.status).to.equal(200);", "});"]}]}},
    {"_id": "r-ping", "colId": "col-1", "containerId": "", "name": "Ping", "url": "{{base}}/ping", "method": "head", "sortNum": 1000},
    {"_id": "r-week", "colId": "col-1", "containerId": "f-daily", "name": "Week", "url": "{{base}}/week", "method": "POST", "sortNum": 1000,
     "body": {"type": "formencoded", "raw": "", "form": [{"name": "days", "value": "7"}, {"name": "tz", "value": "utc", "isDisabled": true}]}},
    {"_id": "r-lost", "colId": "col-1", "containerId": "f-gone", "name": "Lost", "url": "{{base}}/lost", "method": "GET", "sortNum": 3000,
     "body": {"type": "graphql", "raw": "", "form": [], "graphql": {"query": "{ lost }"}}}
  ]
}`

func TestThunderClientImporter_Import(t *testing.T) {
	result, err := Import([]byte(thunderFixture), nil)
	require.NoError(t, err)
	c := result.Collection

	assert.Equal(t, FormatThunderClient, result.Format)
	assert.Equal(t, "Weather", c.Name)
	assert.Equal(t, "Forecast service", c.Description)
	assert.Equal(t, collection.SourceThunderClient, c.SourceFormat)
	assert.Equal(t, `tc.setVar("started", Date.now());`, c.PreRequestScript)

	t.Run("variables", func(t *testing.T) {
		require.Len(t, c.Variables, 4)
		assert.Equal(t, collection.VariableSecret, c.Variables[1].Type)
		assert.False(t, c.Variables[2].Enabled)
		assert.Equal(t, " ", c.Variables[3].Key, "blank names are kept")
	})

	t.Run("tree from containerId", func(t *testing.T) {
		require.Len(t, c.Requests, 2)
		assert.Equal(t, "Ping", c.Requests[0].Name)
		assert.Equal(t, "HEAD", c.Requests[0].Method)
		assert.Equal(t, "Lost", c.Requests[1].Name, "unknown container falls back to the top level")
		assert.Equal(t, "{ lost }", c.Requests[1].Body)

		require.Len(t, c.Folders, 2)
		assert.Equal(t, "Alerts", c.Folders[0].Name)
		forecast := c.Folders[1]
		assert.Equal(t, "Forecast", forecast.Name)
		require.Len(t, forecast.Requests, 1)
		require.Len(t, forecast.Folders, 1)

		daily := forecast.Folders[0]
		assert.Equal(t, "f-daily", daily.ID)
		assert.Contains(t, daily.TestScript, "expect(tc.response.status).to.equal(200)")
		require.Len(t, daily.Requests, 1)
		assert.Equal(t, "days=7", daily.Requests[0].Body)
	})

	t.Run("declarative tests", func(t *testing.T) {
		today := c.Folders[1].Requests[0]
		script := today.TestScript

		assert.True(t, strings.HasPrefix(script, `tc.test("ok", () => {`), "inline scripts come first")
		assert.Equal(t, 1, strings.Count(script, "expect(tc.response.status).to.equal(200)"),
			"a test already asserted inline is not repeated")
		assert.Contains(t, script, `tc.test("res-time lessthan 500", () => expect(tc.response.time).to.be.below(500));`)
		assert.Contains(t, script, `expect(tc.response.json.city).to.equal("Oslo")`)
		assert.Contains(t, script, `tc.setVar("token", tc.response.json.token);`)
		assert.Contains(t, script, "// thunder client test: res-cookie sid notequal")
	})

	assert.Equal(t, 4, result.RequestCount)
	assert.Equal(t, 3, result.FolderCount)
	assert.NoError(t, c.Validate())
}

func TestThunderClientImporter_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		location string
	}{
		{
			name:     "request without url",
			doc:      `{"colName": "A", "requests": [{"name": "x", "method": "GET"}]}`,
			location: "/requests/0",
		},
		{
			name:     "folder without id",
			doc:      `{"colName": "A", "requests": [], "folders": [{"name": "F"}]}`,
			location: "/folders/0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			var malformed *MalformedCollectionError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, FormatThunderClient, malformed.Format)
			assert.Equal(t, tt.location, malformed.Location)
		})
	}
}

func TestRenderThunderTest(t *testing.T) {
	tests := []struct {
		test ThunderTest
		expr string
	}{
		{ThunderTest{Type: "res-code", Action: "equal", Value: "404"}, "expect(tc.response.status).to.equal(404)"},
		{ThunderTest{Type: "res-body", Action: "contains", Value: "ok"}, `expect(tc.response.text).to.include("ok")`},
		{ThunderTest{Type: "Content-Type", Action: "equal", Value: "application/json"}, `expect(tc.response.headers["content-type"]).to.equal("application/json")`},
		{ThunderTest{Type: "header", Custom: "X-Rate", Action: ">", Value: "0"}, `expect(tc.response.headers["x-rate"]).to.be.above(0)`},
		{ThunderTest{Type: "json-query", Custom: "json.items", Action: "count", Value: "3"}, "expect(tc.response.json.items).to.have.lengthOf(3)"},
		{ThunderTest{Type: "res-code", Action: "regex", Value: "2.."}, ""},
	}
	for _, tt := range tests {
		expr, line := renderThunderTest(tt.test)
		assert.Equal(t, tt.expr, expr)
		if tt.expr == "" {
			assert.True(t, strings.HasPrefix(line, "//"), "unrenderable tests become comments: %s", line)
		} else {
			assert.Contains(t, line, tt.expr)
		}
	}
}

func TestThunderClientExporter_Export(t *testing.T) {
	c := collection.New("Flights", collection.SourceThunderClient)
	c.Description = "Flight search"
	c.Variables = []collection.Variable{
		{ID: "1", Key: "host", Value: "flights.local", Type: collection.VariableDefault, Enabled: true},
		{ID: "2", Key: "secret", Value: "s", Type: collection.VariableSecret, Enabled: false},
	}
	c.Requests = []collection.Request{{ID: "top", Name: "Root", Method: "GET", URL: "https://flights.local"}}
	c.Folders = []collection.Folder{{
		ID:               "fa",
		Name:             "Search",
		PreRequestScript: `tc.setVar("q", "OSL");`,
		Requests: []collection.Request{{
			ID:         "s1",
			Name:       "Find",
			Method:     "POST",
			URL:        "https://flights.local/search",
			Headers:    []collection.Header{{Key: "Content-Type", Value: "application/x-www-form-urlencoded", Enabled: true}},
			Body:       "from=OSL&to=LHR",
			TestScript: "expect(tc.response.status).to.equal(201);",
		}},
		Folders: []collection.Folder{{
			ID:         "fb",
			Name:       "Cached",
			TestScript: "expect(tc.response.time).to.be.below(300);",
			Requests:   []collection.Request{{ID: "s2", Name: "Recent", Method: "GET", URL: "https://flights.local/recent"}},
		}},
	}}

	result, err := Export(c, &ExportOptions{Format: FormatThunderClient})
	require.NoError(t, err)
	warnings := strings.Join(result.Warnings, "\n")
	assert.Contains(t, warnings, "2 folder(s) flattened")
	assert.Contains(t, warnings, "Search: folder pre-request script dropped")
	assert.Contains(t, warnings, "Search / Cached: folder test script dropped")

	m := decodeMap(t, string(result.Data))
	assert.Equal(t, "Flights", m["colName"])
	assert.Equal(t, "Flight search", m["docs"])
	assert.Equal(t, []any{}, m["folders"])
	assert.NotContains(t, m, "settings", "no collection hooks")

	requests := m["requests"].([]any)
	require.Len(t, requests, 3)
	names := make([]string, len(requests))
	for i, r := range requests {
		names[i] = r.(map[string]any)["name"].(string)
	}
	assert.Equal(t, []string{"Root", "Find", "Recent"}, names)

	root := requests[0].(map[string]any)
	assert.NotContains(t, root, "body")
	assert.Equal(t, []any{}, root["tests"])
	assert.Equal(t, m["_id"], root["colId"])

	find := requests[1].(map[string]any)
	assert.Equal(t, "formencoded", find["body"].(map[string]any)["type"])
	assert.Len(t, find["body"].(map[string]any)["form"], 2)
	assert.NotContains(t, find, "preReq", "folder scripts stay out of requests")
	assert.NotContains(t, find, "created")
	assert.Equal(t, []any{map[string]any{"type": "res-code", "custom": "", "action": "equal", "value": "201"}}, find["tests"])

	recent := requests[2].(map[string]any)
	assert.Equal(t, []any{}, recent["tests"])
	assert.NotContains(t, recent, "postReq")
	assert.Less(t, find["sortNum"].(float64), recent["sortNum"].(float64))

	env := m["environment"].(map[string]any)
	data := env["data"].([]any)
	require.Len(t, data, 2)
	assert.Equal(t, true, data[1].(map[string]any)["isSecret"])
	assert.Equal(t, true, data[1].(map[string]any)["isDisabled"])
}

func TestThunderClientExporter_CollectionSettings(t *testing.T) {
	c := collection.New("S", collection.SourceThunderClient)
	c.TestScript = "expect(tc.response.status).to.equal(200);"

	out, err := Convert(c, FormatThunderClient)
	require.NoError(t, err)
	m := decodeMap(t, out)
	settings := m["settings"].(map[string]any)
	assert.NotContains(t, settings, "preReq")
	assert.Len(t, settings["tests"], 1)
	assert.NotContains(t, m, "environment")

	back, err := Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(back.TestScript, "expect(tc.response.status).to.equal(200)"))
}

func TestThunderClientExporter_UnnamedCollection(t *testing.T) {
	c := collection.New("", collection.SourcePostman)
	c.Requests = []collection.Request{{ID: "r", Name: "Ping", Method: "GET", URL: "https://ping.local"}}

	out, err := Convert(c, FormatThunderClient)
	require.NoError(t, err)
	m := decodeMap(t, out)
	assert.Contains(t, m, "colName")

	back, err := Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, collection.SourceThunderClient, back.SourceFormat)
	require.Len(t, back.Requests, 1)
	assert.Equal(t, "Ping", back.Requests[0].Name)
}
