package schemaloader

import (
	"embed"
	"fmt"
	"net/http"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is an interface that defines methods for validating data against a JSON schema.
type Schema interface {
	// ValidateBytes validates the contents of a JSON document against the schema.
	ValidateBytes(b []byte) (*gojsonschema.Result, error)

	// ValidateGo validates an already decoded Go value against the schema.
	ValidateGo(v any) (*gojsonschema.Result, error)
}

// NewEmbeddedSchema returns a Schema implementation that uses an embedded filesystem to contain a JSON schema.
func NewEmbeddedSchema(fs embed.FS, root string) (Schema, error) {
	schema, err := SchemaLoader(fs, root)
	if err != nil {
		return nil, err
	}
	return &compiledSchema{
		schema: schema,
	}, nil
}

// NewBytesSchema compiles a JSON schema held in memory, e.g. one produced by reflection.
func NewBytesSchema(b []byte) (Schema, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &compiledSchema{
		schema: schema,
	}, nil
}

// compiledSchema is an implementation of the Schema interface that uses a compiled JSON schema for validation.
// A compiled schema is read-only and safe for concurrent use.
type compiledSchema struct {
	schema *gojsonschema.Schema
}

// ValidateBytes validates the contents of a byte slice against the schema.
func (e *compiledSchema) ValidateBytes(b []byte) (*gojsonschema.Result, error) {
	return e.schema.Validate(gojsonschema.NewBytesLoader(b))
}

// ValidateGo validates a Go value against the schema.
func (e *compiledSchema) ValidateGo(v any) (*gojsonschema.Result, error) {
	return e.schema.Validate(gojsonschema.NewGoLoader(v))
}

// newEmbedFS creates an http.FileSystem from the embedded filesystem.
func newEmbedFS(fs embed.FS) http.FileSystem {
	return http.FS(fs)
}

// SchemaLoader loads and compiles the main schema along with its dependencies from the embedded filesystem.
func SchemaLoader(fs embed.FS, mainSchemaFile string) (*gojsonschema.Schema, error) {
	embedFS := newEmbedFS(fs)

	// Load and compile the main schema using NewReferenceLoaderFileSystem
	mainSchemaLoader := gojsonschema.NewReferenceLoaderFileSystem("file:///"+mainSchemaFile, embedFS)

	// Compile the schema
	schema, err := gojsonschema.NewSchema(mainSchemaLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to compile main schema: %w", err)
	}

	return schema, nil
}
