package analyzer_test

import (
	"testing"

	"github.com/microsoft/typescript-go/shim/ast"
	"github.com/nestdoc/openapi-gen/internal/analyzer"
)

// findClassByName scans every file in the walkerEnv's program for a class
// declaration with the given name.
func (env *walkerEnv) findClassByName(name string) *ast.Node {
	for _, sf := range env.program.GetSourceFiles() {
		for _, stmt := range sf.Statements.Nodes {
			if stmt.Kind != ast.KindClassDeclaration {
				continue
			}
			decl := stmt.AsClassDeclaration()
			if decl.Name() != nil && decl.Name().Text() == name {
				return stmt
			}
		}
	}
	return nil
}

func TestModuleWalker_CollectsControllersFromSingleModule(t *testing.T) {
	src := `
function Module(opts: any) { return (target: any) => target; }
function Controller(path?: string) { return (target: any) => target; }

@Controller('users')
class UserController {}

@Module({ controllers: [UserController] })
class AppModule {}
`
	env := setupWalker(t, src)
	defer env.release()

	root := env.findClassByName("AppModule")
	if root == nil {
		t.Fatal("AppModule class not found")
	}

	walker := analyzer.NewModuleWalker(env.checker, analyzer.NewWarningCollector())
	controllers := walker.Walk(root)

	if len(controllers) != 1 {
		t.Fatalf("expected 1 controller, got %d", len(controllers))
	}
	name := controllers[0].AsClassDeclaration().Name().Text()
	if name != "UserController" {
		t.Errorf("expected UserController, got %q", name)
	}
}

func TestModuleWalker_FollowsImportsBFS(t *testing.T) {
	src := `
function Module(opts: any) { return (target: any) => target; }
function Controller(path?: string) { return (target: any) => target; }

@Controller('users')
class UserController {}

@Controller('posts')
class PostController {}

@Module({ controllers: [PostController] })
class PostModule {}

@Module({ controllers: [UserController], imports: [PostModule] })
class AppModule {}
`
	env := setupWalker(t, src)
	defer env.release()

	root := env.findClassByName("AppModule")
	if root == nil {
		t.Fatal("AppModule class not found")
	}

	walker := analyzer.NewModuleWalker(env.checker, analyzer.NewWarningCollector())
	controllers := walker.Walk(root)

	if len(controllers) != 2 {
		t.Fatalf("expected 2 controllers reachable via import graph, got %d", len(controllers))
	}
	names := map[string]bool{}
	for _, c := range controllers {
		names[c.AsClassDeclaration().Name().Text()] = true
	}
	if !names["UserController"] || !names["PostController"] {
		t.Errorf("expected both UserController and PostController, got %v", names)
	}
}

func TestModuleWalker_HandlesImportCycleWithoutHanging(t *testing.T) {
	src := `
function Module(opts: any) { return (target: any) => target; }
function Controller(path?: string) { return (target: any) => target; }
function forwardRef(fn: any) { return fn(); }

@Controller('a')
class AController {}

@Module({ controllers: [AController], imports: [forwardRef(() => BModule)] })
class AModule {}

@Module({ imports: [forwardRef(() => AModule)] })
class BModule {}
`
	env := setupWalker(t, src)
	defer env.release()

	root := env.findClassByName("AModule")
	if root == nil {
		t.Fatal("AModule class not found")
	}

	walker := analyzer.NewModuleWalker(env.checker, analyzer.NewWarningCollector())
	controllers := walker.Walk(root)

	if len(controllers) != 1 || controllers[0].AsClassDeclaration().Name().Text() != "AController" {
		t.Fatalf("expected the cycle to terminate with 1 controller (AController), got %d", len(controllers))
	}
}

func TestModuleWalker_NonModuleClassReturnsNil(t *testing.T) {
	src := `
class PlainClass {}
`
	env := setupWalker(t, src)
	defer env.release()

	root := env.findClassByName("PlainClass")
	if root == nil {
		t.Fatal("PlainClass not found")
	}

	walker := analyzer.NewModuleWalker(env.checker, analyzer.NewWarningCollector())
	controllers := walker.Walk(root)

	if len(controllers) != 0 {
		t.Errorf("expected no controllers for a class without @Module, got %d", len(controllers))
	}
}
