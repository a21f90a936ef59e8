package contracts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	PropertyFixtureV1     = "PropertyFixture/1.0.0"
	PropertyViewedEventV1 = "PropertyViewedEvent/1.0.0"
)

//go:embed schemas
var schemasFS embed.FS

var compiledSchemas map[string]*jsonschema.Schema

func init() {
	schemas, err := compileSchemas(schemasFS, "schemas")
	if err != nil {
		panic(err)
	}
	compiledSchemas = schemas
}

func compileSchemas(fsys fs.FS, root string) (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	var paths []string

	// all resources first, so schemas can $ref each other
	err := fs.WalkDir(fsys, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		file, err := fsys.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := compiler.AddResource(path, file); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking schema resources: %w", err)
	}

	compiled := make(map[string]*jsonschema.Schema, len(paths))
	for _, path := range paths {
		schema, err := compiler.Compile(path)
		if err != nil {
			return nil, fmt.Errorf("could not compile schema %s: %w", path, err)
		}
		key := generateKeyFromPath(strings.TrimPrefix(path, root+"/"))
		if key == "" {
			return nil, fmt.Errorf("schema path %s does not follow <name>/v<N>.json", path)
		}
		compiled[key] = schema
	}
	return compiled, nil
}

// generateKeyFromPath converts "property-viewed-event/v1.json" into "PropertyViewedEvent/1.0.0".
func generateKeyFromPath(path string) string {
	trimmedPath := strings.TrimSuffix(path, ".json")

	parts := strings.Split(trimmedPath, "/")
	if len(parts) != 2 || !strings.HasPrefix(parts[1], "v") {
		return ""
	}

	caser := cases.Title(language.English)

	var nameBuilder strings.Builder
	for _, p := range strings.Split(parts[0], "-") {
		nameBuilder.WriteString(caser.String(p))
	}

	version := strings.TrimPrefix(parts[1], "v") + ".0.0"

	return fmt.Sprintf("%s/%s", nameBuilder.String(), version)
}

// Validate checks a raw JSON document against a registered schema.
func Validate(key string, body []byte) error {
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema '%s' not found", key)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("document is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}

	return nil
}

func ValidateFixture(body []byte) error {
	return Validate(PropertyFixtureV1, body)
}

func ValidateViewedEvent(body []byte) error {
	return Validate(PropertyViewedEventV1, body)
}
