// Package version rewrites a generated OpenAPI document between the two
// null-handling dialects the specification supports: the 3.0.3 native form
// (`nullable: true` beside `type`) and the 3.1.0/3.2.0 form (`type: [X,
// "null"]`, following JSON Schema 2020-12). The schema generator always
// produces 3.0.3-native output; Transform mutates it in place for any other
// target, the way Talav-openapi's per-dialect adapters each produce their
// own view of a shared in-memory spec rather than re-walking the source.
package version

import (
	"fmt"

	"github.com/nestdoc/openapi-gen/internal/openapi"
)

// Supported target dialects.
const (
	V303 = "3.0.3"
	V310 = "3.1.0"
	V320 = "3.2.0"
)

// Valid reports whether target is a dialect this package knows how to produce.
func Valid(target string) bool {
	switch target {
	case V303, V310, V320:
		return true
	}
	return false
}

// Transform rewrites doc in place to match target's null-handling and
// example/examples conventions, and sets doc.OpenAPI to target. target
// defaults to V303 when empty. Returns an error for an unrecognized target.
func Transform(doc *openapi.Document, target string) error {
	if target == "" {
		target = V303
	}
	if !Valid(target) {
		return fmt.Errorf("version: unsupported target %q (want one of %q, %q, %q)", target, V303, V310, V320)
	}

	doc.OpenAPI = target
	if target == V303 {
		// Already the generator's native dialect.
		return nil
	}

	if doc.Components != nil {
		for _, schema := range doc.Components.Schemas {
			walkSchema(schema, toNullUnion)
		}
	}
	for _, path := range doc.Paths {
		for _, op := range pathOperations(path) {
			walkOperation(op, toNullUnion)
		}
	}
	return nil
}

// pathOperations returns every non-nil operation on a path item.
func pathOperations(p *openapi.PathItem) []*openapi.Operation {
	if p == nil {
		return nil
	}
	var ops []*openapi.Operation
	for _, op := range []*openapi.Operation{p.Get, p.Post, p.Put, p.Delete, p.Patch, p.Head, p.Options} {
		if op != nil {
			ops = append(ops, op)
		}
	}
	return ops
}

// nullFixup mutates a single schema node's null-representation in place.
type nullFixup func(*openapi.Schema)

// toNullUnion converts a 3.0.3-native nullable schema to the 3.1+
// `type: [X, "null"]` array, and a singular `example` to an `examples` list.
func toNullUnion(s *openapi.Schema) {
	if s == nil {
		return
	}
	if s.Nullable {
		if s.Type != "" {
			s.TypeUnion = []string{s.Type, "null"}
			s.Type = ""
		} else if len(s.AllOf) == 1 && s.AllOf[0].Ref != "" {
			// The 3.0.3 nullable-$ref workaround (`allOf: [$ref], nullable:
			// true`) becomes an anyOf with a null member; 3.1+ schemas can't
			// attach `type` directly beside `$ref` either, since a $ref
			// sibling is only honored from 3.1 onward but the ref itself
			// carries no type to union with.
			s.AnyOf = []*openapi.Schema{s.AllOf[0], {Type: "null"}}
			s.AllOf = nil
		}
		s.Nullable = false
	}
	if s.Example != nil {
		s.ExampleList = []any{*s.Example}
		s.Example = nil
	}
}

// walkSchema applies fixup to s and recurses through every nested schema
// position: properties, items, prefixItems, composition keywords, and
// additionalProperties.
func walkSchema(s *openapi.Schema, fixup nullFixup) {
	if s == nil {
		return
	}
	fixup(s)

	for _, prop := range s.Properties {
		walkSchema(prop, fixup)
	}
	walkSchema(s.Items, fixup)
	for _, item := range s.PrefixItems {
		walkSchema(item, fixup)
	}
	for _, sub := range s.AnyOf {
		walkSchema(sub, fixup)
	}
	for _, sub := range s.OneOf {
		walkSchema(sub, fixup)
	}
	for _, sub := range s.AllOf {
		walkSchema(sub, fixup)
	}
	walkSchema(s.ContentSchema, fixup)
	if s.AdditionalProperties != nil && s.AdditionalProperties.Schema != nil {
		walkSchema(s.AdditionalProperties.Schema, fixup)
	}
}

// walkOperation applies fixup to every schema reachable from an operation:
// parameters, request body content, and response content/headers.
func walkOperation(op *openapi.Operation, fixup nullFixup) {
	if op == nil {
		return
	}
	for i := range op.Parameters {
		walkSchema(op.Parameters[i].Schema, fixup)
	}
	if op.RequestBody != nil {
		walkMediaTypes(op.RequestBody.Content, fixup)
	}
	for _, resp := range op.Responses {
		if resp == nil {
			continue
		}
		walkMediaTypes(resp.Content, fixup)
		for _, hdr := range resp.Headers {
			if hdr != nil {
				walkSchema(hdr.Schema, fixup)
			}
		}
	}
}

func walkMediaTypes(content map[string]openapi.MediaType, fixup nullFixup) {
	for k, mt := range content {
		walkSchema(mt.Schema, fixup)
		walkSchema(mt.ItemSchema, fixup)
		content[k] = mt
	}
}
