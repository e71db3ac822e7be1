package openapi

import "github.com/nestdoc/openapi-gen/internal/analyzer"

// mergeSecurityLayer merges every scheme declared at one annotation layer
// (a controller's, or a method's) into a single requirement object, per
// spec C7 rule 3: multiple schemes on the same layer are AND-ed together,
// not offered as OR alternatives.
func mergeSecurityLayer(requirements []analyzer.SecurityRequirement) map[string][]string {
	merged := make(map[string][]string, len(requirements))
	for _, req := range requirements {
		scopes := req.Scopes
		if scopes == nil {
			scopes = []string{}
		}
		merged[req.Name] = scopes
	}
	return merged
}

// applyGlobalSecurityCrossProduct implements spec C7 rule 4: once a global
// `security` requirement is known, every operation that already carries its
// own (non-public) requirement is rewritten to the cross-product of each
// global OR-alternative with the operation's AND-merged requirement —
// preserving the global alternatives while folding in the operation's own
// schemes. Operations with no requirement of their own (op.Security == nil)
// are left alone; they inherit global implicitly. @public operations
// (op.Security non-nil but empty) are left alone too — that's an explicit
// opt-out, not a requirement to cross with anything.
func applyGlobalSecurityCrossProduct(doc *Document, global []map[string][]string) {
	for _, item := range doc.Paths {
		for _, op := range []*Operation{item.Get, item.Post, item.Put, item.Delete, item.Patch, item.Head, item.Options} {
			if op == nil || len(op.Security) == 0 {
				continue
			}
			op.Security = crossProductSecurity(op.Security, global)
		}
	}
}

// crossProductSecurity combines an operation's own AND-merged requirement
// (ownReqs holds exactly one object, as produced by mergeSecurityLayer)
// with each of global's OR-alternatives, returning one combined requirement
// object per global alternative.
func crossProductSecurity(ownReqs []map[string][]string, global []map[string][]string) []map[string][]string {
	if len(ownReqs) == 0 || len(global) == 0 {
		return ownReqs
	}
	own := ownReqs[0]

	result := make([]map[string][]string, 0, len(global))
	for _, alt := range global {
		combined := make(map[string][]string, len(alt)+len(own))
		for k, v := range alt {
			combined[k] = v
		}
		for k, v := range own {
			combined[k] = v
		}
		result = append(result, combined)
	}
	return result
}
