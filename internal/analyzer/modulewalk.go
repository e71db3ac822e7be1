package analyzer

import (
	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"
)

// ModuleInfo is a parsed @Module() class: its controllers and the modules
// it imports, by class identity.
type ModuleInfo struct {
	// Name is the module class name.
	Name string
	// ClassNode is the module's class declaration node.
	ClassNode *ast.Node
	// Controllers holds the controller class declaration nodes listed in
	// this module's own `controllers` array (not those of imported modules).
	Controllers []*ast.Node
	// Imports holds the resolved module class declaration nodes listed in
	// this module's `imports` array. Unresolved entries are omitted and
	// reported as a warning instead.
	Imports []*ast.Node
}

// ModuleWalker performs a breadth-first walk of the @Module import graph,
// starting from a root module class, collecting every reachable controller
// class exactly once (deduplicated by declaration identity, not by name).
type ModuleWalker struct {
	checker  *shimchecker.Checker
	warnings *WarningCollector
}

// NewModuleWalker creates a walker bound to a type checker, used to resolve
// identifiers and property accesses inside `imports`/`controllers` arrays
// back to class declarations across files.
func NewModuleWalker(checker *shimchecker.Checker, warnings *WarningCollector) *ModuleWalker {
	return &ModuleWalker{checker: checker, warnings: warnings}
}

// Walk performs the BFS described in spec C3: starting from rootModule,
// follow `imports` edges (through identifiers, property access, and
// forwardRef(() => X) wrappers), collecting every module's `controllers`
// in source order, deduplicated by class declaration identity. Cycles in
// the import graph (two modules importing each other) terminate safely.
func (w *ModuleWalker) Walk(rootModule *ast.Node) []*ast.Node {
	visited := make(map[*ast.Node]bool)
	var controllersOut []*ast.Node
	controllerSeen := make(map[*ast.Node]bool)

	queue := []*ast.Node{rootModule}
	for len(queue) > 0 {
		moduleNode := queue[0]
		queue = queue[1:]

		if moduleNode == nil || visited[moduleNode] {
			continue
		}
		visited[moduleNode] = true

		info := w.parseModule(moduleNode)
		if info == nil {
			continue
		}

		for _, ctrl := range info.Controllers {
			if ctrl == nil || controllerSeen[ctrl] {
				continue
			}
			controllerSeen[ctrl] = true
			controllersOut = append(controllersOut, ctrl)
		}

		for _, imp := range info.Imports {
			if imp != nil && !visited[imp] {
				queue = append(queue, imp)
			}
		}
	}

	return controllersOut
}

// parseModule reads a class's @Module({ controllers: [...], imports: [...] })
// decorator argument and resolves each array element to a class declaration.
// Returns nil if the class carries no @Module decorator.
func (w *ModuleWalker) parseModule(classNode *ast.Node) *ModuleInfo {
	classDecl := classNode.AsClassDeclaration()

	var moduleDecoratorInfo *DecoratorInfo
	for _, dec := range classNode.Decorators() {
		info := ParseDecorator(dec)
		if info != nil && info.Name == "Module" {
			moduleDecoratorInfo = info
			break
		}
	}
	if moduleDecoratorInfo == nil {
		return nil
	}

	name := ""
	if classDecl.Name() != nil {
		name = classDecl.Name().Text()
	}

	info := &ModuleInfo{Name: name, ClassNode: classNode}

	if arr := moduleDecoratorInfo.ObjectLiteralArg["controllers"]; arr != nil {
		info.Controllers = w.resolveClassArray(arr, classNode, "controllers")
	}
	if arr := moduleDecoratorInfo.ObjectLiteralArg["imports"]; arr != nil {
		info.Imports = w.resolveClassArray(arr, classNode, "imports")
	}

	return info
}

// resolveClassArray walks an array-literal decorator property (e.g. the
// `controllers` or `imports` value of @Module({...})), resolving every
// element to its class declaration node. Elements that don't resolve are
// skipped with a warning rather than failing the whole walk (spec C3:
// "diagnostics only; never fatal").
func (w *ModuleWalker) resolveClassArray(arrNode *ast.Node, owner *ast.Node, fieldName string) []*ast.Node {
	if arrNode.Kind != ast.KindArrayLiteralExpression {
		return nil
	}
	elements := arrNode.AsArrayLiteralExpression().Elements
	if elements == nil {
		return nil
	}

	var out []*ast.Node
	for _, el := range elements.Nodes {
		decl := w.resolveClassExpr(el)
		if decl == nil {
			if w.warnings != nil {
				sf := ast.GetSourceFileOfNode(owner)
				file := ""
				if sf != nil {
					file = sf.FileName()
				}
				w.warnings.Add(file, "module-unresolved-"+fieldName, "could not resolve an entry in "+fieldName+"() to a class declaration")
			}
			continue
		}
		out = append(out, decl)
	}
	return out
}

// resolveClassExpr resolves a single `imports`/`controllers` array element
// to its class declaration node. Handles:
//   - bare identifiers:           UserModule
//   - namespace property access:  ns.UserModule
//   - forwardRef(() => UserModule) wrappers, unwrapping to the arrow body
func (w *ModuleWalker) resolveClassExpr(expr *ast.Node) *ast.Node {
	if expr == nil {
		return nil
	}

	if expr.Kind == ast.KindCallExpression {
		call := expr.AsCallExpression()
		calleeName := getDecoratorExprName(call.Expression)
		if calleeName == "forwardRef" && call.Arguments != nil && len(call.Arguments.Nodes) > 0 {
			arrow := call.Arguments.Nodes[0]
			if arrow.Kind == ast.KindArrowFunction {
				body := arrow.AsArrowFunction().Body
				return w.resolveClassExpr(body)
			}
		}
		return nil
	}

	var sym *ast.Symbol
	switch expr.Kind {
	case ast.KindIdentifier:
		sym = w.checker.GetSymbolAtLocation(expr)
	case ast.KindPropertyAccessExpression:
		sym = w.checker.GetSymbolAtLocation(expr.AsPropertyAccessExpression().Name())
	default:
		return nil
	}
	if sym == nil {
		return nil
	}

	// Follow import aliases to the original exported symbol.
	if sym.Flags&ast.SymbolFlagsAlias != 0 {
		if original := w.checker.GetAliasedSymbol(sym); original != nil {
			sym = original
		}
	}

	if sym.ValueDeclaration != nil && sym.ValueDeclaration.Kind == ast.KindClassDeclaration {
		return sym.ValueDeclaration
	}
	for _, decl := range sym.Declarations {
		if decl.Kind == ast.KindClassDeclaration {
			return decl
		}
	}
	return nil
}
