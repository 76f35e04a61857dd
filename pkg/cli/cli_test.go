package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/apiconv/pkg/cliconfig"
	"github.com/getmockd/apiconv/pkg/collection"
	"github.com/getmockd/apiconv/pkg/portability"
)

const accountCollection = `{
  "info": {"name": "Account", "schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"},
  "variable": [{"key": "token", "value": "abc"}],
  "item": [
    {
      "name": "Auth",
      "item": [
        {
          "name": "Me",
          "event": [{"listen": "test", "script": {"exec": ["pm.test(\"status 200\", () => pm.response.to.have.status(200));"]}}],
          "request": {
            "method": "GET",
            "header": [{"key": "Authorization", "value": "Bearer {{token}}"}],
            "url": "https://api.example.com/me"
          }
        }
      ]
    }
  ]
}`

// testApp is an app wired to in-memory streams, with config lookups
// confined to temporary directories.
type testApp struct {
	*app
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	dir    string
}

func newTestApp(t *testing.T, stdin string) *testApp {
	t.Helper()
	for _, name := range []string{
		cliconfig.EnvTarget, cliconfig.EnvPretty, cliconfig.EnvLogLevel, cliconfig.EnvLogFormat,
		cliconfig.EnvLogFile, cliconfig.EnvConfig, cliconfig.EnvVerbose,
	} {
		t.Setenv(name, "")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	var stdout, stderr bytes.Buffer
	return &testApp{
		app:    newApp(strings.NewReader(stdin), &stdout, &stderr),
		stdout: &stdout,
		stderr: &stderr,
		dir:    dir,
	}
}

func (ta *testApp) run(args ...string) error {
	ta.stdout.Reset()
	ta.stderr.Reset()
	return ta.execute(args)
}

func (ta *testApp) write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(ta.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (ta *testApp) read(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(ta.dir, name))
	require.NoError(t, err)
	return string(data)
}

func detected(t *testing.T, doc string) portability.Format {
	t.Helper()
	f, err := portability.DetectFormat([]byte(doc))
	require.NoError(t, err, doc)
	return f
}

func TestConvertCmd_ToFile(t *testing.T) {
	ta := newTestApp(t, "")
	in := ta.write(t, "account.json", accountCollection)

	require.NoError(t, ta.run("convert", in, "--to", "insomnia", "-o", "out/insomnia.json"))

	out := ta.read(t, "out/insomnia.json")
	assert.Equal(t, portability.FormatInsomnia, detected(t, out))
	assert.Contains(t, out, `"request_group"`)
	assert.Empty(t, ta.stdout.String())
	assert.Contains(t, ta.stderr.String(), `Converted "Account" from Postman to Insomnia: 1 requests, 1 folders, 1 variables`)
}

func TestConvertCmd_StdinToEnv(t *testing.T) {
	ta := newTestApp(t, accountCollection)

	require.NoError(t, ta.run("convert", "--to", "env"))
	assert.Equal(t, "token=abc\n", ta.stdout.String())
}

func TestConvertCmd_TargetResolution(t *testing.T) {
	t.Run("no target without terminal", func(t *testing.T) {
		ta := newTestApp(t, accountCollection)
		err := ta.run("convert")
		assert.ErrorIs(t, err, ErrNoTarget)
	})

	t.Run("local config default", func(t *testing.T) {
		ta := newTestApp(t, accountCollection)
		ta.write(t, ".apiconvrc.yaml", "defaultTarget: thunderclient\n")
		require.NoError(t, ta.run("convert"))
		assert.Equal(t, portability.FormatThunderClient, detected(t, ta.stdout.String()))
	})

	t.Run("env beats local config", func(t *testing.T) {
		ta := newTestApp(t, accountCollection)
		ta.write(t, ".apiconvrc.yaml", "defaultTarget: thunderclient\n")
		t.Setenv(cliconfig.EnvTarget, "insomnia")
		require.NoError(t, ta.run("convert"))
		assert.Equal(t, portability.FormatInsomnia, detected(t, ta.stdout.String()))
	})

	t.Run("flag beats config", func(t *testing.T) {
		ta := newTestApp(t, accountCollection)
		t.Setenv(cliconfig.EnvTarget, "insomnia")
		require.NoError(t, ta.run("convert", "--to", "postman"))
		assert.Equal(t, portability.FormatPostman, detected(t, ta.stdout.String()))
	})

	t.Run("prompt in terminal", func(t *testing.T) {
		ta := newTestApp(t, "")
		in := ta.write(t, "account.json", accountCollection)
		var asked portability.Format
		ta.isTerminal = func() bool { return true }
		ta.selectTarget = func(source portability.Format) (portability.Format, error) {
			asked = source
			return portability.FormatInsomnia, nil
		}

		require.NoError(t, ta.run("convert", in))
		assert.Equal(t, portability.FormatPostman, asked)
		assert.Equal(t, portability.FormatInsomnia, detected(t, ta.stdout.String()))
	})

	t.Run("prompt aborted", func(t *testing.T) {
		ta := newTestApp(t, accountCollection)
		aborted := errors.New("user aborted")
		ta.isTerminal = func() bool { return true }
		ta.selectTarget = func(portability.Format) (portability.Format, error) {
			return portability.FormatUnknown, aborted
		}
		assert.ErrorIs(t, ta.run("convert"), aborted)
	})
}

func TestConvertCmd_JSONReport(t *testing.T) {
	ta := newTestApp(t, accountCollection)

	require.NoError(t, ta.run("convert", "--to", "csv", "--json"))

	var report ConvertReport
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &report))
	assert.Equal(t, "stdin", report.Input)
	assert.Equal(t, portability.FormatPostman, report.Source)
	assert.Equal(t, portability.FormatCSV, report.Target)
	assert.Equal(t, "Account", report.Name)
	assert.Equal(t, 1, report.Requests)
	assert.Equal(t, 1, report.Folders)
	assert.Equal(t, 1, report.Variables)
	assert.NotNil(t, report.Warnings)
	assert.True(t, strings.HasPrefix(report.Document, "key,value,type,description,enabled\n"), report.Document)
}

func TestConvertCmd_Compact(t *testing.T) {
	ta := newTestApp(t, accountCollection)
	t.Setenv(cliconfig.EnvPretty, "false")

	require.NoError(t, ta.run("convert", "--to", "postman"))
	assert.NotContains(t, ta.stdout.String(), "\n  ")

	ta.in = strings.NewReader(accountCollection)
	require.NoError(t, ta.run("convert", "--to", "postman", "--compact=false"))
	assert.Contains(t, ta.stdout.String(), "\n  ")
}

func TestConvertCmd_Name(t *testing.T) {
	ta := newTestApp(t, accountCollection)

	require.NoError(t, ta.run("convert", "--to", "postman", "--name", "Renamed"))
	c, err := portability.Parse(ta.stdout.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "Renamed", c.Name)
}

func TestConvertCmd_Errors(t *testing.T) {
	t.Run("unknown target", func(t *testing.T) {
		ta := newTestApp(t, accountCollection)
		err := ta.run("convert", "--to", "bruno")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `--to: unknown format "bruno"`)
	})

	t.Run("missing file", func(t *testing.T) {
		ta := newTestApp(t, "")
		err := ta.run("convert", "nope.json", "--to", "postman")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "file not found: nope.json")
	})

	t.Run("unrecognized document", func(t *testing.T) {
		ta := newTestApp(t, `{"hello": "world"}`)
		err := ta.run("convert", "--to", "postman")
		var detectErr *portability.FormatDetectionError
		assert.ErrorAs(t, err, &detectErr)
	})

	t.Run("invalid configuration", func(t *testing.T) {
		ta := newTestApp(t, accountCollection)
		ta.write(t, ".apiconvrc.yaml", "defaultTarget: bruno\n")
		err := ta.run("convert", "--to", "postman")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
	})

	t.Run("too many args", func(t *testing.T) {
		ta := newTestApp(t, "")
		assert.Error(t, ta.run("convert", "a.json", "b.json"))
	})
}

func TestDetectCmd(t *testing.T) {
	ta := newTestApp(t, "")
	good := ta.write(t, "account.json", accountCollection)
	bad := ta.write(t, "other.json", `{"openapi": "3.0.0"}`)

	err := ta.run("detect", good, bad)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 document(s) could not be recognized", err.Error())

	out := ta.stdout.String()
	assert.Contains(t, out, "FORMAT")
	assert.Contains(t, out, "Postman")
	assert.Contains(t, out, "Account")
	assert.Contains(t, ta.stderr.String(), "Warning: "+bad)

	require.NoError(t, ta.run("detect", good, "--json"))
	var results []DetectResult
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, DetectResult{
		File:      good,
		Format:    portability.FormatPostman,
		Name:      "Account",
		Requests:  1,
		Folders:   1,
		Variables: 1,
	}, results[0])
}

func TestFindCmd(t *testing.T) {
	ta := newTestApp(t, "")
	in := ta.write(t, "account.json", accountCollection)

	require.NoError(t, ta.run("find", in, "token", "--json"))
	var results []struct {
		Location string `json:"location"`
		Field    string `json:"field"`
		Matches  int    `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "Variables / token", results[0].Location)
	assert.Equal(t, "variable.key", results[0].Field)
	assert.Equal(t, "Auth / Me", results[1].Location)
	assert.Equal(t, "header.value", results[1].Field)

	require.NoError(t, ta.run("find", in, "token", "--scope", "variables"))
	assert.Contains(t, ta.stdout.String(), "Variables / token")
	assert.NotContains(t, ta.stdout.String(), "Auth / Me")
	assert.Contains(t, ta.stderr.String(), "1 match(es) in 1 field(s)")

	require.NoError(t, ta.run("find", in, "nothing-here"))
	assert.Empty(t, ta.stdout.String())
	assert.Contains(t, ta.stderr.String(), `No matches for "nothing-here"`)

	err := ta.run("find", in, "x", "--scope", "everything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--scope")

	assert.Error(t, ta.run("find", in, "(", "--regex"))
}

func TestReplaceCmd(t *testing.T) {
	ta := newTestApp(t, "")
	in := ta.write(t, "account.json", accountCollection)

	require.NoError(t, ta.run("replace", in, "api.example.com", "api.test.dev"))
	assert.Equal(t, portability.FormatPostman, detected(t, ta.stdout.String()))
	assert.Contains(t, ta.stdout.String(), "https://api.test.dev/me")
	assert.Contains(t, ta.stderr.String(), "Replaced 1 occurrence(s)")

	require.NoError(t, ta.run("replace", in, `api\.(\w+)\.com`, "$1.api.local", "--regex", "--dry-run", "--json"))
	var report CollectionReport
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &report))
	assert.Equal(t, 1, report.Count)
	assert.True(t, report.DryRun)
	assert.Empty(t, report.Document)

	require.NoError(t, ta.run("replace", in, "ME", "whoami", "--to", "thunderclient", "-o", "tc.json"))
	tc := ta.read(t, "tc.json")
	assert.Equal(t, portability.FormatThunderClient, detected(t, tc))
	assert.Contains(t, tc, "https://api.example.com/whoami")
}

func TestVarsCmd(t *testing.T) {
	ta := newTestApp(t, "")
	in := ta.write(t, "account.json", accountCollection)

	t.Run("export", func(t *testing.T) {
		require.NoError(t, ta.run("vars", "export", in, "-o", "vars.csv"))
		assert.Equal(t, "key,value,type,description,enabled\n\"token\",\"abc\",\"default\",\"\",\"true\"\n", ta.read(t, "vars.csv"))
		assert.Contains(t, ta.stderr.String(), "Exported 1 variable(s) to vars.csv")

		require.NoError(t, ta.run("vars", "export", in))
		assert.Equal(t, "token=abc\n", ta.stdout.String())
	})

	t.Run("import", func(t *testing.T) {
		env := ta.write(t, "prod.env", "token=xyz\nNEW=1\n")
		require.NoError(t, ta.run("vars", "import", in, env))

		c, err := portability.Parse(ta.stdout.Bytes())
		require.NoError(t, err)
		require.Len(t, c.Variables, 2)
		assert.Equal(t, "token", c.Variables[0].Key)
		assert.Equal(t, "xyz", c.Variables[0].Value)
		assert.Equal(t, "NEW", c.Variables[1].Key)
		assert.Contains(t, ta.stderr.String(), "Imported 2 variable(s); collection now has 2")

		require.NoError(t, ta.run("vars", "import", in, env, "--replace", "--to", "env"))
		assert.Equal(t, "token=xyz\nNEW=1\n", ta.stdout.String())
	})

	t.Run("unknown variable file", func(t *testing.T) {
		other := ta.write(t, "vars.txt", "token=1\n")
		err := ta.run("vars", "import", in, other)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pass --format")
	})

	t.Run("set and list", func(t *testing.T) {
		require.NoError(t, ta.run("vars", "set", in, "token", "--value", "s3cret", "--type", "secret", "-o", "secret.json"))
		secretPath := filepath.Join(ta.dir, "secret.json")

		require.NoError(t, ta.run("vars", "list", secretPath))
		assert.Contains(t, ta.stdout.String(), "********")
		assert.Contains(t, ta.stdout.String(), "Secret")
		assert.NotContains(t, ta.stdout.String(), "s3cret")

		require.NoError(t, ta.run("vars", "list", secretPath, "--json"))
		var vars []collection.Variable
		require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &vars))
		require.Len(t, vars, 1)
		assert.Equal(t, "s3cret", vars[0].Value)
		assert.Equal(t, collection.VariableSecret, vars[0].Type)

		err := ta.run("vars", "set", in, "missing", "--value", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `variable "missing" not found`)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, ta.run("vars", "delete", in, "token", "--json", "-o", "none.json"))
		var report CollectionReport
		require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &report))
		assert.Equal(t, 1, report.Count)

		c, err := portability.Parse([]byte(ta.read(t, "none.json")))
		require.NoError(t, err)
		assert.Empty(t, c.Variables)
	})
}

func TestVarsExport_EnvCountsEnabledVariables(t *testing.T) {
	ta := newTestApp(t, "")
	in := ta.write(t, "vars.json", `{
  "info": {"name": "Vars", "schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"},
  "variable": [{"key": "on", "value": "1"}, {"key": "off", "value": "0", "disabled": true}],
  "item": []
}`)

	require.NoError(t, ta.run("vars", "export", in, "-o", ".env"))
	assert.Equal(t, "on=1\n", ta.read(t, ".env"))
	assert.Contains(t, ta.stderr.String(), "Exported 1 variable(s) to .env")

	require.NoError(t, ta.run("vars", "export", in, "-o", "vars.csv"))
	assert.Contains(t, ta.stderr.String(), "Exported 2 variable(s) to vars.csv")
}

func TestRequestsCmd(t *testing.T) {
	ta := newTestApp(t, "")
	in := ta.write(t, "account.json", accountCollection)

	t.Run("list", func(t *testing.T) {
		require.NoError(t, ta.run("requests", "list", in))
		assert.Contains(t, ta.stdout.String(), "METHOD")
		assert.Contains(t, ta.stdout.String(), "Auth / Me")

		require.NoError(t, ta.run("requests", "list", in, "--json"))
		var rows []RequestSummary
		require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Auth / Me", rows[0].Path)
		assert.Equal(t, "GET", rows[0].Method)
		assert.Equal(t, "https://api.example.com/me", rows[0].URL)
		assert.Equal(t, 1, rows[0].Headers)
		assert.NotEmpty(t, rows[0].ID)

		require.NoError(t, ta.run("requests", "list", in, "--path", "Billing/**"))
		assert.Empty(t, ta.stdout.String())
		assert.Contains(t, ta.stderr.String(), "No requests")
	})

	t.Run("delete by path", func(t *testing.T) {
		require.NoError(t, ta.run("requests", "delete", in, "Auth/Me", "-o", "empty.json"))
		assert.Contains(t, ta.stderr.String(), "Removed 1 request(s)")

		c, err := portability.Parse([]byte(ta.read(t, "empty.json")))
		require.NoError(t, err)
		assert.Equal(t, 0, c.RequestCount())
		assert.Equal(t, 1, c.FolderCount(), "emptied folders stay")
		assert.Len(t, c.Variables, 1)
	})

	t.Run("delete by id", func(t *testing.T) {
		require.NoError(t, ta.run("convert", in, "--to", "thunderclient", "-o", "tc.json"))
		tc := filepath.Join(ta.dir, "tc.json")
		require.NoError(t, ta.run("requests", "list", tc, "--json"))
		var rows []RequestSummary
		require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &rows))
		require.Len(t, rows, 1)

		require.NoError(t, ta.run("requests", "delete", tc, rows[0].ID, "--json"))
		var report CollectionReport
		require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &report))
		assert.Equal(t, 1, report.Count)
		assert.Equal(t, portability.FormatThunderClient, report.Target)
		assert.NotContains(t, report.Document, rows[0].ID)
	})

	t.Run("errors", func(t *testing.T) {
		err := ta.run("requests", "delete", in, "Auth/Me", "Nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `no request matches "Nope"`)

		err = ta.run("requests", "delete", in, "Auth/[")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid pattern")

		assert.Error(t, ta.run("requests", "delete", in))
	})
}

func TestVariableFormat(t *testing.T) {
	tests := []struct {
		name, format, path string
		want               string
		wantErr            bool
	}{
		{name: "explicit", format: "csv", path: "x.env", want: "csv"},
		{name: "stdin", path: "-", want: "env"},
		{name: "dotenv", path: "dir/.env.local", want: "env"},
		{name: "extension", path: "vars.json", want: "json"},
		{name: "no extension", path: "vars", want: "env"},
		{name: "unknown extension", path: "vars.txt", wantErr: true},
		{name: "unknown format", format: "toml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := variableFormat(tt.format, tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfigCmd(t *testing.T) {
	t.Run("show sources", func(t *testing.T) {
		ta := newTestApp(t, "")
		t.Setenv(cliconfig.EnvLogFormat, "json")

		require.NoError(t, ta.run("config", "show", "--json", "--log-level", "error"))
		var entries []ConfigEntry
		require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &entries))

		byKey := make(map[string]ConfigEntry)
		for _, e := range entries {
			byKey[e.Key] = e
		}
		assert.Equal(t, ConfigEntry{Key: "logLevel", Value: "error", Source: cliconfig.SourceFlag}, byKey["logLevel"])
		assert.Equal(t, ConfigEntry{Key: "logFormat", Value: "json", Source: cliconfig.SourceEnv}, byKey["logFormat"])
		assert.Equal(t, ConfigEntry{Key: "pretty", Value: "true", Source: cliconfig.SourceDefault}, byKey["pretty"])
		assert.Equal(t, ConfigEntry{Key: "json", Value: "true", Source: cliconfig.SourceFlag}, byKey["json"])
	})

	t.Run("show table", func(t *testing.T) {
		ta := newTestApp(t, "")
		require.NoError(t, ta.run("config", "show"))
		assert.Contains(t, ta.stdout.String(), "SOURCE")
		assert.Contains(t, ta.stdout.String(), "Default")
	})

	t.Run("init then use", func(t *testing.T) {
		ta := newTestApp(t, "")
		require.NoError(t, ta.run("config", "init", "--target", "insomnia"))
		assert.Contains(t, ta.read(t, ".apiconvrc.yaml"), "defaultTarget: insomnia")

		err := ta.run("config", "init")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
		require.NoError(t, ta.run("config", "init", "--force", "--target", "thunderclient"))

		ta.in = strings.NewReader(accountCollection)
		require.NoError(t, ta.run("convert"))
		assert.Equal(t, portability.FormatThunderClient, detected(t, ta.stdout.String()))

		require.NoError(t, ta.run("config", "path", "--json"))
		var paths ConfigPaths
		require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &paths))
		assert.Equal(t, ".apiconvrc.yaml", filepath.Base(paths.Local))
		assert.Empty(t, paths.Global)
	})

	t.Run("init rejects unknown target", func(t *testing.T) {
		ta := newTestApp(t, "")
		assert.Error(t, ta.run("config", "init", "--target", "bruno"))
	})

	t.Run("explicit config file", func(t *testing.T) {
		ta := newTestApp(t, accountCollection)
		cfg := ta.write(t, "ci.yaml", "defaultTarget: env\n")
		require.NoError(t, ta.run("convert", "--config", cfg))
		assert.Equal(t, "token=abc\n", ta.stdout.String())

		assert.Error(t, ta.run("convert", "--config", filepath.Join(ta.dir, "missing.yaml")))
	})
}

func TestLogging(t *testing.T) {
	ta := newTestApp(t, accountCollection)
	logPath := filepath.Join(ta.dir, "apiconv.log")

	require.NoError(t, ta.run("convert", "--to", "env", "--verbose", "--log-file", logPath))
	assert.Contains(t, ta.stderr.String(), "parsed collection")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	var parsed map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec), line)
		if rec["msg"] == "parsed collection" {
			parsed = rec
		}
	}
	require.NotNil(t, parsed, string(data))
	assert.Equal(t, "DEBUG", parsed["level"])
	assert.Equal(t, "postman", parsed["format"])
	assert.Equal(t, "Account", parsed["name"])
}

func TestLogging_QuietByDefault(t *testing.T) {
	ta := newTestApp(t, accountCollection)

	require.NoError(t, ta.run("convert", "--to", "env"))
	assert.NotContains(t, ta.stderr.String(), "parsed collection")
}

func TestVersionCmd(t *testing.T) {
	ta := newTestApp(t, "")

	require.NoError(t, ta.run("version", "--json"))
	var v VersionOutput
	require.NoError(t, json.Unmarshal(ta.stdout.Bytes(), &v))
	assert.Equal(t, runtime.Version(), v.Go)
	assert.Equal(t, runtime.GOOS, v.OS)

	require.NoError(t, ta.run("version"))
	assert.True(t, strings.HasPrefix(ta.stdout.String(), "apiconv "), ta.stdout.String())
}
