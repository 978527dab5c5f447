// Package schemas validates JSON documents against the embedded JSON Schemas.
package schemas

import (
	"fmt"
	"path"
	"strings"
	"sync"

	embedded "github.com/jonathan/swiftblocks/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// Schema names one of the embedded schemas.
type Schema string

// Embedded schemas.
const (
	AssetCatalog  Schema = "asset_catalog.schema.json"
	ColorSet      Schema = "color_set.schema.json"
	AppIconSet    Schema = "app_icon_set.schema.json"
	ExportRequest Schema = "export_request.schema.json"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Schema Schema
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed")
	if ve.Schema != "" {
		sb.WriteString(fmt.Sprintf(" against %s", ve.Schema))
	}
	sb.WriteString(":\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	compiledMu sync.Mutex
	compiled   = map[Schema]*gojsonschema.Schema{}
)

// load compiles an embedded schema once and caches it.
func load(name Schema) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if s, ok := compiled[name]; ok {
		return s, nil
	}
	data, err := embedded.FS.ReadFile(string(name))
	if err != nil {
		return nil, &SchemaLoadError{Path: string(name), Message: "schema not embedded", Cause: err}
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, &SchemaLoadError{Path: string(name), Message: "invalid schema", Cause: err}
	}
	compiled[name] = s
	return s, nil
}

// Validate checks a JSON document against one of the embedded schemas.
func Validate(name Schema, document []byte) error {
	s, err := load(name)
	if err != nil {
		return err
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return fmt.Errorf("failed to read document for %s: %w", name, err)
	}
	return toValidationError(name, result)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return toValidationError("", result)
}

func toValidationError(name Schema, result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Schema: name,
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}

// SchemaForAsset picks the schema for an asset-catalog Contents.json by the
// directory that holds it. ok is false for paths that are not asset
// descriptors.
func SchemaForAsset(filePath string) (Schema, bool) {
	if path.Base(filePath) != "Contents.json" {
		return "", false
	}
	switch dir := path.Dir(filePath); {
	case strings.HasSuffix(dir, ".colorset"):
		return ColorSet, true
	case strings.HasSuffix(dir, ".appiconset"):
		return AppIconSet, true
	case strings.HasSuffix(dir, ".xcassets"):
		return AssetCatalog, true
	default:
		return "", false
	}
}

// ValidateAsset validates an asset-catalog descriptor found at filePath.
// Paths that are not asset descriptors are accepted unchecked.
func ValidateAsset(filePath string, content []byte) error {
	name, ok := SchemaForAsset(filePath)
	if !ok {
		return nil
	}
	if err := Validate(name, content); err != nil {
		return fmt.Errorf("%s: %w", filePath, err)
	}
	return nil
}
