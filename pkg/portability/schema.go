package portability

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// schemaName keys the embedded structural schemas. Insomnia has two layouts.
type schemaName string

const (
	schemaPostman       schemaName = "postman.json"
	schemaInsomniaV4    schemaName = "insomnia_v4.json"
	schemaInsomniaV5    schemaName = "insomnia_v5.json"
	schemaThunderClient schemaName = "thunderclient.json"
)

var (
	schemaOnce     sync.Once
	compiledSchema map[schemaName]*jsonschema.Schema
	schemaErr      error
)

func loadSchemas() {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	names := []schemaName{schemaPostman, schemaInsomniaV4, schemaInsomniaV5, schemaThunderClient}
	for _, name := range names {
		data, err := schemaFS.ReadFile("schemas/" + string(name))
		if err != nil {
			schemaErr = fmt.Errorf("read schema %s: %w", name, err)
			return
		}
		if err := compiler.AddResource(string(name), bytes.NewReader(data)); err != nil {
			schemaErr = fmt.Errorf("add schema %s: %w", name, err)
			return
		}
	}

	compiled := make(map[schemaName]*jsonschema.Schema, len(names))
	for _, name := range names {
		s, err := compiler.Compile(string(name))
		if err != nil {
			schemaErr = fmt.Errorf("compile schema %s: %w", name, err)
			return
		}
		compiled[name] = s
	}
	compiledSchema = compiled
}

// validateStructure checks a document tree against the named schema and
// reports the first violation as a MalformedCollectionError.
func validateStructure(format Format, name schemaName, tree any) error {
	schemaOnce.Do(loadSchemas)
	if schemaErr != nil {
		return schemaErr
	}

	err := compiledSchema[name].Validate(tree)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &MalformedCollectionError{Format: format, Message: "schema validation failed", Cause: err}
	}
	leaf := firstLeaf(verr)
	location := leaf.InstanceLocation
	if location == "/" {
		location = ""
	}
	return &MalformedCollectionError{
		Format:   format,
		Location: location,
		Message:  leaf.Message,
		Cause:    err,
	}
}

// firstLeaf follows the first cause down to the most specific violation.
func firstLeaf(err *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(err.Causes) > 0 {
		err = err.Causes[0]
	}
	return err
}
