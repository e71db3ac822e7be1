package analyzer

import "github.com/dlclark/regexp2"

// defaultExcludedAnnotations are always dropped even with no user-supplied
// exclude list, matching the framework's own "exclude from docs" decorator.
var defaultExcludedAnnotations = []string{"ApiExcludeEndpoint"}

// RouteFilter is a predicate over an already-extracted Route, used by the
// C8 filter pipeline to drop operations before they reach OpenAPI
// generation. A nil RouteFilter is the identity filter (every route kept).
type RouteFilter func(route *Route) bool

// ExcludeByAnnotation drops any route carrying one of the given annotation
// names, in addition to the framework's own exclude-from-docs annotation.
func ExcludeByAnnotation(names []string) RouteFilter {
	excluded := make(map[string]bool, len(names)+len(defaultExcludedAnnotations))
	for _, n := range defaultExcludedAnnotations {
		excluded[n] = true
	}
	for _, n := range names {
		excluded[n] = true
	}
	return func(route *Route) bool {
		for _, name := range route.AnnotationNames {
			if excluded[name] {
				return false
			}
		}
		return true
	}
}

// IncludePath keeps only routes whose full path matches pattern. A nil
// pattern is the identity filter. pattern uses JS RegExp semantics (via
// regexp2) so config authors can write lookahead/lookbehind assertions,
// which stdlib RE2 cannot parse.
func IncludePath(pattern *regexp2.Regexp) RouteFilter {
	if pattern == nil {
		return nil
	}
	return func(route *Route) bool {
		matched, err := pattern.MatchString(route.Path)
		return err == nil && matched
	}
}

// AndFilters composes filters with AND: a route survives only if every
// non-nil filter keeps it. Spec C8: "filters compose with AND; empty
// filter set is identity."
func AndFilters(filters ...RouteFilter) RouteFilter {
	active := make([]RouteFilter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			active = append(active, f)
		}
	}
	if len(active) == 0 {
		return nil
	}
	return func(route *Route) bool {
		for _, f := range active {
			if !f(route) {
				return false
			}
		}
		return true
	}
}

// ApplyFilter drops every route that filter rejects, and drops any
// controller left with no surviving routes. A nil filter returns
// controllers unchanged.
func ApplyFilter(controllers []ControllerInfo, filter RouteFilter) []ControllerInfo {
	if filter == nil {
		return controllers
	}
	out := make([]ControllerInfo, 0, len(controllers))
	for _, ctrl := range controllers {
		kept := make([]Route, 0, len(ctrl.Routes))
		for _, route := range ctrl.Routes {
			if filter(&route) {
				kept = append(kept, route)
			}
		}
		if len(kept) == 0 {
			continue
		}
		ctrl.Routes = kept
		out = append(out, ctrl)
	}
	return out
}
