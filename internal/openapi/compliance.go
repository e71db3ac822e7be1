package openapi

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ValidationError represents an OpenAPI spec compliance error.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateDocument checks an OpenAPI document for spec compliance.
// Returns a list of validation errors, or nil if the document is valid.
func ValidateDocument(doc *Document) []ValidationError {
	var errors []ValidationError

	// Required: openapi version
	if doc.OpenAPI == "" {
		errors = append(errors, ValidationError{Path: "openapi", Message: "required field missing"})
	} else if !strings.HasPrefix(doc.OpenAPI, "3.0") && !strings.HasPrefix(doc.OpenAPI, "3.1") && !strings.HasPrefix(doc.OpenAPI, "3.2") {
		errors = append(errors, ValidationError{Path: "openapi", Message: fmt.Sprintf("expected 3.0.x, 3.1.x, or 3.2.x, got %q", doc.OpenAPI)})
	}

	// Required: info
	if doc.Info.Title == "" {
		errors = append(errors, ValidationError{Path: "info.title", Message: "required field missing"})
	}
	if doc.Info.Version == "" {
		errors = append(errors, ValidationError{Path: "info.version", Message: "required field missing"})
	}

	// Required: paths
	if doc.Paths == nil {
		errors = append(errors, ValidationError{Path: "paths", Message: "required field missing"})
	}

	// Validate paths
	for path, item := range doc.Paths {
		if !strings.HasPrefix(path, "/") {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("paths[%q]", path),
				Message: "path must begin with /",
			})
		}
		errors = append(errors, validatePathItem(path, item)...)
	}

	// Validate components/schemas
	if doc.Components != nil {
		for name, schema := range doc.Components.Schemas {
			errors = append(errors, validateSchema(fmt.Sprintf("components.schemas.%s", name), schema)...)
		}
	}

	// Validate servers
	for i, server := range doc.Servers {
		if server.URL == "" {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("servers[%d].url", i),
				Message: "required field missing",
			})
		}
	}

	return errors
}

func validatePathItem(path string, item *PathItem) []ValidationError {
	var errors []ValidationError
	prefix := fmt.Sprintf("paths[%q]", path)

	ops := map[string]*Operation{
		"get": item.Get, "post": item.Post, "put": item.Put,
		"delete": item.Delete, "patch": item.Patch,
		"head": item.Head, "options": item.Options,
	}

	for method, op := range ops {
		if op == nil {
			continue
		}
		errors = append(errors, validateOperation(fmt.Sprintf("%s.%s", prefix, method), op)...)
	}

	return errors
}

func validateOperation(prefix string, op *Operation) []ValidationError {
	var errors []ValidationError

	// Responses is required
	if op.Responses == nil || len(op.Responses) == 0 {
		errors = append(errors, ValidationError{
			Path:    prefix + ".responses",
			Message: "at least one response is required",
		})
	}

	// Validate parameters
	for i, param := range op.Parameters {
		paramPath := fmt.Sprintf("%s.parameters[%d]", prefix, i)
		if param.Name == "" {
			errors = append(errors, ValidationError{Path: paramPath + ".name", Message: "required field missing"})
		}
		if param.In == "" {
			errors = append(errors, ValidationError{Path: paramPath + ".in", Message: "required field missing"})
		} else if param.In != "query" && param.In != "path" && param.In != "header" && param.In != "cookie" {
			errors = append(errors, ValidationError{
				Path:    paramPath + ".in",
				Message: fmt.Sprintf("invalid value %q, must be query/path/header/cookie", param.In),
			})
		}
		if param.In == "path" && !param.Required {
			errors = append(errors, ValidationError{
				Path:    paramPath + ".required",
				Message: "path parameters must be required",
			})
		}
	}

	// Validate responses
	for code, resp := range op.Responses {
		respPath := fmt.Sprintf("%s.responses[%s]", prefix, code)
		if resp.Description == "" {
			errors = append(errors, ValidationError{Path: respPath + ".description", Message: "required field missing"})
		}
	}

	return errors
}

func validateSchema(prefix string, schema *Schema) []ValidationError {
	var errors []ValidationError

	// A schema with $ref should not have other properties (simplified check)
	if schema.Ref != "" {
		if schema.Type != "" {
			errors = append(errors, ValidationError{
				Path:    prefix,
				Message: "$ref should not be combined with type",
			})
		}
	}

	return errors
}

// schemaRefPrefix is the only $ref form FindBrokenRefs resolves against
// components.schemas; refs outside this prefix (e.g. to securitySchemes)
// are out of scope for this walk.
const schemaRefPrefix = "#/components/schemas/"

// RefCategory buckets a BrokenRef by probable root cause, mirroring the
// heuristics a reviewer would apply reading a diff full of dangling $refs.
type RefCategory string

const (
	// CategoryPrimitiveLeak means the missing name looks like a bare
	// primitive (string, number, boolean, ...): the type compiler (C5)
	// emitted a $ref where it should have inlined a scalar schema.
	CategoryPrimitiveLeak RefCategory = "primitive-leak"
	// CategoryUnexpandedUnion means the name contains "|": a TypeScript
	// union type string reached the schema tree without being expanded
	// into anyOf members.
	CategoryUnexpandedUnion RefCategory = "unexpanded-union"
	// CategoryMissingDTOCoverage means the name ends in QueryParams,
	// PathParams, or Params: a synthetic parameter-object type the
	// registry never got a chance to register.
	CategoryMissingDTOCoverage RefCategory = "missing-dto-coverage"
	// CategoryUnknown is the fallback bucket for anything else.
	CategoryUnknown RefCategory = "unknown"
)

var primitiveLikeNames = map[string]bool{
	"string": true, "number": true, "integer": true, "boolean": true,
	"null": true, "any": true, "unknown": true, "void": true, "object": true,
	"array": true, "undefined": true,
}

// BrokenRef is a $ref that points at a components.schemas entry the
// document never defines.
type BrokenRef struct {
	Ref      string
	Path     string
	Missing  string
	Category RefCategory
}

// categorizeMissingSchema buckets a missing schema name per spec C11's
// heuristics: primitive-like names, names carrying an unexpanded union
// ("|"), names that look like a synthesized parameters DTO, else unknown.
func categorizeMissingSchema(name string) RefCategory {
	switch {
	case primitiveLikeNames[name]:
		return CategoryPrimitiveLeak
	case strings.Contains(name, "|"):
		return CategoryUnexpandedUnion
	case strings.HasSuffix(name, "QueryParams"), strings.HasSuffix(name, "PathParams"), strings.HasSuffix(name, "Params"):
		return CategoryMissingDTOCoverage
	default:
		return CategoryUnknown
	}
}

// FindBrokenRefs walks every $ref reachable from the document — components
// schemas, path parameters, request bodies, and responses — and reports
// each one that names a components.schemas entry the document never
// defines. The driver (C12) decides whether these are warnings or a hard
// failure; this function only collects and categorizes them.
func FindBrokenRefs(doc *Document) []BrokenRef {
	known := map[string]bool{}
	if doc.Components != nil {
		for name := range doc.Components.Schemas {
			known[name] = true
		}
	}

	var broken []BrokenRef
	record := func(path, ref string) {
		if !strings.HasPrefix(ref, schemaRefPrefix) {
			return
		}
		name := strings.TrimPrefix(ref, schemaRefPrefix)
		if known[name] {
			return
		}
		broken = append(broken, BrokenRef{
			Ref:      ref,
			Path:     path,
			Missing:  name,
			Category: categorizeMissingSchema(name),
		})
	}

	var walkSchema func(path string, s *Schema)
	walkSchema = func(path string, s *Schema) {
		if s == nil {
			return
		}
		if s.Ref != "" {
			record(path, s.Ref)
		}
		for name, prop := range s.Properties {
			walkSchema(path+".properties."+name, prop)
		}
		walkSchema(path+".items", s.Items)
		for i, item := range s.PrefixItems {
			walkSchema(fmt.Sprintf("%s.prefixItems[%d]", path, i), item)
		}
		for i, sub := range s.AnyOf {
			walkSchema(fmt.Sprintf("%s.anyOf[%d]", path, i), sub)
		}
		for i, sub := range s.OneOf {
			walkSchema(fmt.Sprintf("%s.oneOf[%d]", path, i), sub)
		}
		for i, sub := range s.AllOf {
			walkSchema(fmt.Sprintf("%s.allOf[%d]", path, i), sub)
		}
		walkSchema(path+".contentSchema", s.ContentSchema)
		if s.AdditionalProperties != nil {
			walkSchema(path+".additionalProperties", s.AdditionalProperties.Schema)
		}
	}

	if doc.Components != nil {
		for name, schema := range doc.Components.Schemas {
			walkSchema(fmt.Sprintf("components.schemas.%s", name), schema)
		}
	}

	for routePath, item := range doc.Paths {
		for method, op := range map[string]*Operation{
			"get": item.Get, "post": item.Post, "put": item.Put, "delete": item.Delete,
			"patch": item.Patch, "head": item.Head, "options": item.Options,
		} {
			if op == nil {
				continue
			}
			prefix := fmt.Sprintf("paths[%q].%s", routePath, method)
			for i, param := range op.Parameters {
				walkSchema(fmt.Sprintf("%s.parameters[%d]", prefix, i), param.Schema)
			}
			if op.RequestBody != nil {
				for ct, mt := range op.RequestBody.Content {
					walkSchema(fmt.Sprintf("%s.requestBody.content[%s]", prefix, ct), mt.Schema)
				}
			}
			for code, resp := range op.Responses {
				if resp == nil {
					continue
				}
				for ct, mt := range resp.Content {
					walkSchema(fmt.Sprintf("%s.responses[%s].content[%s]", prefix, code, ct), mt.Schema)
				}
			}
		}
	}

	return broken
}

// ValidateJSON validates raw JSON against OAS 3.1 structural requirements.
func ValidateJSON(jsonData []byte) ([]ValidationError, error) {
	var doc Document
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return ValidateDocument(&doc), nil
}
