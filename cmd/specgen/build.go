package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/microsoft/typescript-go/shim/ast"
	shimchecker "github.com/microsoft/typescript-go/shim/checker"
	shimcompiler "github.com/microsoft/typescript-go/shim/compiler"
	"github.com/microsoft/typescript-go/shim/core"
	shimincremental "github.com/microsoft/typescript-go/shim/execute/incremental"
	shimtsoptions "github.com/microsoft/typescript-go/shim/tsoptions"
	"github.com/nestdoc/openapi-gen/internal/analyzer"
	"github.com/nestdoc/openapi-gen/internal/buildcache"
	"github.com/nestdoc/openapi-gen/internal/compiler"
	"github.com/nestdoc/openapi-gen/internal/config"
	"github.com/nestdoc/openapi-gen/internal/metadata"
	"github.com/nestdoc/openapi-gen/internal/openapi"
	"github.com/nestdoc/openapi-gen/internal/openapi/version"
	"github.com/nestdoc/openapi-gen/internal/pathalias"
)

// buildFlags holds the parsed flags from the build command line.
// Specgen-specific flags are separated from tsgo compiler flags.
type buildFlags struct {
	ConfigPath   string
	TsconfigPath string
	DumpMetadata bool
	Clean        bool
	Assets       string
	NoCheck      bool
	TsgoArgs     []string // flags to forward to tsgo's ParseCommandLine
}

// parseBuildArgs separates specgen-specific flags from tsgo compiler flags.
// Specgen flags (--config, --project, --clean, etc.) are consumed and stored
// in the returned buildFlags. Everything else is collected in TsgoArgs for
// forwarding to tsgo's ParseCommandLine.
func parseBuildArgs(args []string) buildFlags {
	f := buildFlags{
		TsconfigPath: "tsconfig.json",
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "--config":
			if i+1 < len(args) {
				i++
				f.ConfigPath = args[i]
			}
		case "--project", "-p":
			if i+1 < len(args) {
				i++
				f.TsconfigPath = args[i]
			}
		case "--dump-metadata":
			f.DumpMetadata = true
		case "--clean":
			f.Clean = true
		case "--assets":
			if i+1 < len(args) {
				i++
				f.Assets = args[i]
			}
		case "--no-check":
			f.NoCheck = true
		default:
			// Not a specgen flag — pass through to tsgo
			f.TsgoArgs = append(f.TsgoArgs, arg)
		}
	}

	return f
}

// parseTsgoFlags parses tsgo compiler flags via tsgo's own ParseCommandLine.
// Returns the parsed CompilerOptions overrides, or errors if any flag is invalid.
func parseTsgoFlags(tsgoArgs []string) (*core.CompilerOptions, []string) {
	if len(tsgoArgs) == 0 {
		return nil, nil
	}

	cliFS := compiler.CreateDefaultFS()
	cliHost := compiler.CreateDefaultHost("", cliFS)
	parsedCLI := shimtsoptions.ParseCommandLine(tsgoArgs, cliHost)
	if parsedCLI != nil && len(parsedCLI.Errors) > 0 {
		var errs []string
		for _, d := range parsedCLI.Errors {
			errs = append(errs, d.String())
		}
		return nil, errs
	}
	if parsedCLI != nil {
		return parsedCLI.CompilerOptions(), nil
	}
	return nil, nil
}

// runBuild executes the full build pipeline:
// diagnostics -> controller analysis -> compile (with path alias resolution) -> OpenAPI -> assets.
//
// Exit codes (matching tsgo):
//
//	0 = success, no errors
//	1 = diagnostics present, outputs generated
//	2 = diagnostics present, outputs skipped (e.g. noEmitOnError)
func runBuild(args []string) int {
	flags := parseBuildArgs(args)

	configPath := flags.ConfigPath
	tsconfigPath := flags.TsconfigPath
	dumpMetadata := flags.DumpMetadata
	clean := flags.Clean
	assets := flags.Assets
	noCheck := flags.NoCheck

	// Parse tsgo flags via tsgo's own command-line parser.
	// This handles --strict, --noEmit, --target, --module, etc.
	// Any flag not recognized by specgen above is treated as a tsgo compiler flag.
	var cliOverrides *core.CompilerOptions
	if len(flags.TsgoArgs) > 0 {
		overrides, errs := parseTsgoFlags(flags.TsgoArgs)
		if len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "error: %s\n", e)
			}
			return 1
		}
		cliOverrides = overrides
	}

	buildStart := time.Now()
	timing := &TimingReport{}

	// Resolve working directory
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: could not get working directory: %v\n", err)
		return 1
	}

	// Load config if specified, or auto-discover in CWD.
	cfgResult, err := loadOrDiscoverConfig(configPath, cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	cfg := cfgResult.Config
	resolvedConfigPath := cfgResult.Path
	configDir := cfgResult.Dir
	if resolvedConfigPath != "" {
		fmt.Fprintf(os.Stderr, "loaded config from %s\n", filepath.Base(resolvedConfigPath))
	}

	// Step 1: Parse tsconfig using tsgo's native JSONC parser (handles comments, trailing commas, extends).
	tsconfigStart := time.Now()
	tsFS := compiler.CreateDefaultFS()
	host := compiler.CreateDefaultHost(cwd, tsFS)

	fmt.Fprintf(os.Stderr, "compiling with tsconfig: %s\n", tsconfigPath)

	parsedConfig, diags, err := compiler.ParseTSConfig(tsFS, cwd, tsconfigPath, host, cliOverrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if len(diags) > 0 {
		fmt.Fprint(os.Stderr, compiler.FormatDiagnostics(diags))
		return 1
	}

	opts := parsedConfig.CompilerOptions()

	// Auto-infer rootDir if not set, so users get flat dist/ output without configuring it.
	// Computes common prefix of all source files (like tsc does).
	if opts.RootDir == "" && opts.OutDir != "" {
		inferredRootDir := pathalias.InferRootDir(parsedConfig.FileNames())
		if inferredRootDir != "" {
			fmt.Fprintf(os.Stderr, "inferred rootDir: %s\n", inferredRootDir)
			opts.RootDir = inferredRootDir
		}
	}

	// Resolve tsconfig path for cache file derivation
	resolvedTsconfigPath := tsconfigPath
	if !filepath.IsAbs(resolvedTsconfigPath) {
		resolvedTsconfigPath = filepath.Join(cwd, resolvedTsconfigPath)
	}
	postCachePath := buildcache.CachePath(opts.OutDir, resolvedTsconfigPath)

	// Clean output directory if requested (using parsed OutDir, no re-parsing needed)
	if clean && opts.OutDir != "" {
		if cleanErr := cleanDir(opts.OutDir); cleanErr != nil {
			fmt.Fprintf(os.Stderr, "warning: clean: %v\n", cleanErr)
		}
		// Also delete the .tsbuildinfo file — otherwise the incremental program
		// thinks nothing changed and won't re-emit the JS files we just deleted.
		tsbuildInfoPath := strings.TrimSuffix(resolvedTsconfigPath, ".json") + ".tsbuildinfo"
		if _, err := os.Stat(tsbuildInfoPath); err == nil {
			os.Remove(tsbuildInfoPath)
			fmt.Fprintf(os.Stderr, "removed %s\n", filepath.Base(tsbuildInfoPath))
		}
		// Also delete the post-processing cache — ensures full rebuild
		buildcache.Delete(postCachePath)
	}
	timing.TSConfig = time.Since(tsconfigStart)

	// Step 2: Create program with the (possibly modified) config.
	programStart := time.Now()
	program, programDiags, err := compiler.CreateProgramFromConfig(true, parsedConfig, host)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	if len(programDiags) > 0 {
		fmt.Fprint(os.Stderr, compiler.FormatDiagnostics(programDiags))
		return 1
	}
	timing.Program = time.Since(programStart)

	// Handle --dump-metadata: skip emit, just analyze types
	if dumpMetadata {
		return runDumpMetadata(program, opts)
	}

	// Step 3: Gather diagnostics (forces type checking).
	// If tsconfig has "incremental: true" or "composite: true", use the incremental
	// pipeline — only checks/emits changed files, persists state to .tsbuildinfo.
	pretty := compiler.IsPrettyOutput()
	reportDiag := compiler.CreateDiagnosticReporter(os.Stderr, cwd, pretty)

	isIncremental := opts.IsIncremental()

	var allDiagnostics []*ast.Diagnostic
	var incrProgram *shimincremental.Program

	if isIncremental {
		// Incremental mode: wrap program with incremental state.
		// ReadBuildInfoProgram reads prior state from .tsbuildinfo (if it exists).
		incrProgram = compiler.CreateIncrementalProgram(program, nil, host, parsedConfig)
		fmt.Fprintln(os.Stderr, "incremental build enabled")

		diagStart := time.Now()
		allDiagnostics = compiler.GatherIncrementalDiagnostics(incrProgram, noCheck)
		timing.Diagnostics = time.Since(diagStart)
	} else {
		diagStart := time.Now()
		allDiagnostics = compiler.GatherDiagnostics(program, noCheck)
		timing.Diagnostics = time.Since(diagStart)
	}

	// Check for errors before proceeding to analysis
	hasPreEmitErrors := compiler.CountErrors(allDiagnostics) > 0

	// ── Pre-emit analysis ────────────────────────────────────────────────
	// Run controller discovery (C3/C4), constraint folding (C6), security
	// extraction (C7), and the filter pipeline (C8) before emit, using the
	// checker made available by GatherDiagnostics.

	needControllers := cfg != nil && (len(cfg.Controllers.Include) > 0 || cfg.Controllers.RootModule != "")

	// Build path alias resolver (used in the WriteFile callback below)
	var pathResolver *pathalias.PathResolver
	if opts.Paths != nil && opts.Paths.Size() > 0 {
		pathsMap := make(map[string][]string)
		for k, v := range opts.Paths.Entries() {
			pathsMap[k] = v
		}
		pathResolver = pathalias.NewPathResolver(pathalias.Config{
			PathsBaseDir: opts.GetPathsBasePath(cwd),
			OutDir:       opts.OutDir,
			RootDir:      opts.RootDir,
			Paths:        pathsMap,
		})
	}

	var sharedChecker *shimchecker.Checker
	var checkerRelease func()
	var controllers []analyzer.ControllerInfo
	var controllerRegistry *metadata.TypeRegistry
	var controllerWarnings []analyzer.Warning

	// Only do pre-emit analysis if no errors (type checker data may be unreliable)
	if !hasPreEmitErrors && needControllers {
		checkerStart := time.Now()
		sharedChecker, checkerRelease = shimcompiler.Program_GetTypeChecker(program, context.Background())
		if sharedChecker == nil {
			fmt.Fprintln(os.Stderr, "error: could not get type checker")
			return 1
		}
		defer checkerRelease()
		sharedWalker := analyzer.NewTypeWalker(sharedChecker)
		if opts.ExactOptionalPropertyTypes == core.TSTrue {
			sharedWalker.SetExactOptionalPropertyTypes(true)
		}
		timing.Checker = time.Since(checkerStart)

		controllerStart := time.Now()
		ca := analyzer.NewControllerAnalyzerWithWalker(program, sharedChecker, sharedWalker)
		if cfg.Controllers.RootModule != "" {
			controllers = ca.AnalyzeFromRootModule(cfg.Controllers.RootModule)
		} else {
			controllers = ca.AnalyzeProgram(cfg.Controllers.Include, cfg.Controllers.Exclude)
		}
		controllerRegistry = ca.Registry()
		controllerWarnings = ca.Warnings()

		var pathFilter *regexp2.Regexp
		if cfg.Controllers.PathFilter != "" {
			pathFilter = regexp2.MustCompile(cfg.Controllers.PathFilter, regexp2.None)
		}
		if routeFilter := analyzer.AndFilters(
			analyzer.ExcludeByAnnotation(cfg.Controllers.ExcludeAnnotations),
			analyzer.IncludePath(pathFilter),
		); routeFilter != nil {
			controllers = analyzer.ApplyFilter(controllers, routeFilter)
		}
		timing.Controllers = time.Since(controllerStart)
	}

	// ── Emit with a WriteFile callback that resolves tsconfig path aliases ──
	var emitResult *compiler.EmitResult
	var writeFile shimcompiler.WriteFile
	if pathResolver != nil && pathResolver.HasAliases() {
		writeFile = makePathAliasWriteFile(pathResolver)
	}

	if isIncremental {
		emitStart := time.Now()
		emitResult = compiler.EmitIncrementalProgram(incrProgram, writeFile)
		timing.Emit = time.Since(emitStart)
	} else {
		emitStart := time.Now()
		emitResult = compiler.EmitProgram(program, writeFile)
		timing.Emit = time.Since(emitStart)
	}

	// Append emit diagnostics (declaration transform errors, write errors)
	allDiagnostics = append(allDiagnostics, emitResult.Diagnostics...)
	allDiagnostics = shimcompiler.SortAndDeduplicateDiagnostics(allDiagnostics)

	// Report all diagnostics
	for _, d := range allDiagnostics {
		reportDiag(d)
	}

	// Error summary (pretty mode only)
	if pretty {
		compiler.WriteErrorSummary(os.Stderr, allDiagnostics, cwd)
	}

	// Determine exit status (matching tsgo):
	// - EmitSkipped + errors → exit 2
	// - Errors present → exit 1
	// - No errors → continue to post-emit steps
	hasErrors := compiler.CountErrors(allDiagnostics) > 0
	if emitResult.EmitSkipped && hasErrors {
		// noEmitOnError triggered — no files written
		fmt.Fprintln(os.Stderr, "no files emitted (noEmitOnError)")
		timing.Total = time.Since(buildStart)
		timing.Print()
		return 2
	}

	emittedFiles := emitResult.EmittedFiles
	if len(emittedFiles) > 0 {
		fmt.Fprintf(os.Stderr, "emitted %d file(s)\n", len(emittedFiles))
	} else if !emitResult.EmitSkipped {
		fmt.Fprintln(os.Stderr, "no files emitted")
	}

	// ── Early exit on diagnostic errors ──────────────────────────────────
	// Path aliases were already resolved in the WriteFile callback.
	if hasErrors {
		timing.Total = time.Since(buildStart)
		timing.Print()
		return 1
	}

	// ── Post-processing cache check ──────────────────────────────────────
	var configHash string
	if resolvedConfigPath != "" {
		configHash = buildcache.HashFile(resolvedConfigPath)
	}

	noFilesEmitted := len(emittedFiles) == 0 && !emitResult.EmitSkipped
	if noFilesEmitted && !clean {
		existingCache := buildcache.Load(postCachePath)
		if existingCache != nil && existingCache.IsValid(configHash) {
			fmt.Fprintln(os.Stderr, "no changes detected, outputs up to date")
			timing.Total = time.Since(buildStart)
			timing.Print()
			return 0
		}
	}

	// Print deferred status messages (only when we're past the cache check)
	if len(controllers) > 0 {
		totalRoutes := 0
		for _, ctrl := range controllers {
			totalRoutes += len(ctrl.Routes)
		}
		fmt.Fprintf(os.Stderr, "found %d controller(s) with %d route(s)\n", len(controllers), totalRoutes)
	}

	// Print controller analyzer warnings (stored during pre-emit analysis),
	// even when zero controllers were extracted.
	for _, w := range controllerWarnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.Message)
	}

	// Generate OpenAPI document (using pre-analyzed controllers)
	openapiStart := time.Now()
	if cfg != nil && cfg.OpenAPI.Output != "" && len(controllers) > 0 {
		openapiErr := generateOpenAPIFromControllers(controllers, controllerRegistry, cfg, configDir)
		if openapiErr != nil {
			fmt.Fprintf(os.Stderr, "error generating OpenAPI: %v\n", openapiErr)
			return 1
		}
	}
	timing.OpenAPI = time.Since(openapiStart)

	// Copy static assets if configured
	if assets != "" {
		outDir := determineOutputDir(emittedFiles, cwd)
		count, assetErr := copyAssets(cwd, outDir, assets)
		if assetErr != nil {
			fmt.Fprintf(os.Stderr, "warning: copying assets: %v\n", assetErr)
		} else if count > 0 {
			fmt.Fprintf(os.Stderr, "copied %d asset(s)\n", count)
		}
	}

	// ── Save post-processing cache ─────────────────────────────────────
	// Record what we just built so the next incremental warm build can skip
	// post-processing when nothing changed.
	var cacheOutputs []string
	if cfg != nil && cfg.OpenAPI.Output != "" {
		openapiOutput := cfg.OpenAPI.Output
		if !filepath.IsAbs(openapiOutput) {
			openapiOutput = filepath.Join(configDir, openapiOutput)
		}
		cacheOutputs = append(cacheOutputs, openapiOutput)
	}
	postCache := buildcache.New(configHash, cacheOutputs)
	if saveErr := buildcache.Save(postCachePath, postCache); saveErr != nil {
		fmt.Fprintf(os.Stderr, "warning: saving post-processing cache: %v\n", saveErr)
	}

	timing.Total = time.Since(buildStart)
	timing.Print()

	return 0
}

// makePathAliasWriteFile returns a WriteFile callback that resolves tsconfig
// path aliases in emitted JS before writing it to disk.
func makePathAliasWriteFile(resolver *pathalias.PathResolver) shimcompiler.WriteFile {
	return func(fileName string, text string, bom bool, data *shimcompiler.WriteFileData) error {
		if strings.HasSuffix(fileName, ".js") {
			text = resolver.ResolveImports(text, fileName)
		}
		return writeEmittedFile(fileName, text, bom)
	}
}

// writeEmittedFile writes a file to disk, creating parent directories as
// needed. This replicates the default behavior of tsgo's host.WriteFile.
func writeEmittedFile(fileName, text string, bom bool) error {
	dir := filepath.Dir(fileName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	content := text
	if bom {
		content = "\xEF\xBB\xBF" + content
	}
	return os.WriteFile(fileName, []byte(content), 0644)
}

// cleanDir removes a directory after safety checks.
func cleanDir(outDir string) error {
	if outDir == "/" || outDir == "." || outDir == ".." {
		return fmt.Errorf("refusing to clean dangerous path: %s", outDir)
	}

	if _, err := os.Stat(outDir); os.IsNotExist(err) {
		return nil
	}

	fmt.Fprintf(os.Stderr, "cleaning output directory: %s\n", outDir)
	return os.RemoveAll(outDir)
}

// generateOpenAPIFromControllers generates an OpenAPI document from pre-analyzed controllers,
// in the dialect set by cfg.OpenAPI.TargetVersion (3.0.3 by default).
// This avoids creating a duplicate type checker and re-analyzing controllers.
func generateOpenAPIFromControllers(controllers []analyzer.ControllerInfo, registry *metadata.TypeRegistry, cfg *config.Config, configDir string) error {
	// Generate OpenAPI document with versioning and prefix options
	gen := openapi.NewGenerator(registry)

	var genOpts *openapi.GenerateOptions
	if cfg.NestJS.Versioning != nil || cfg.NestJS.GlobalPrefix != "" {
		genOpts = &openapi.GenerateOptions{
			GlobalPrefix: cfg.NestJS.GlobalPrefix,
		}
		if cfg.NestJS.Versioning != nil {
			genOpts.VersioningType = cfg.NestJS.Versioning.Type
			genOpts.DefaultVersion = cfg.NestJS.Versioning.DefaultVersion
			genOpts.VersionPrefix = cfg.NestJS.Versioning.Prefix
		}
	}
	doc := gen.GenerateWithOptions(controllers, genOpts)

	// Apply document-level config (title, description, servers, security schemes)
	docCfg := openapi.DocumentConfig{
		Title:       cfg.OpenAPI.Title,
		Description: cfg.OpenAPI.Description,
		Version:     cfg.OpenAPI.Version,
	}
	if cfg.OpenAPI.Contact != nil {
		docCfg.Contact = &openapi.Contact{
			Name:  cfg.OpenAPI.Contact.Name,
			URL:   cfg.OpenAPI.Contact.URL,
			Email: cfg.OpenAPI.Contact.Email,
		}
	}
	if cfg.OpenAPI.License != nil {
		docCfg.License = &openapi.License{
			Name: cfg.OpenAPI.License.Name,
			URL:  cfg.OpenAPI.License.URL,
		}
	}
	for _, s := range cfg.OpenAPI.Servers {
		docCfg.Servers = append(docCfg.Servers, openapi.Server{
			URL:         s.URL,
			Description: s.Description,
		})
	}
	if len(cfg.OpenAPI.SecuritySchemes) > 0 {
		docCfg.SecuritySchemes = make(map[string]*openapi.SecurityScheme)
		for name, s := range cfg.OpenAPI.SecuritySchemes {
			docCfg.SecuritySchemes[name] = &openapi.SecurityScheme{
				Type:         s.Type,
				Scheme:       s.Scheme,
				BearerFormat: s.BearerFormat,
				In:           s.In,
				Name:         s.Name,
				Description:  s.Description,
			}
		}
	}
	doc.ApplyConfig(docCfg)

	// Rewrite the nullable/examples shape for the configured dialect. The
	// generator always builds the 3.0.3-native document; this is a no-op
	// for that target and a recursive rewrite for 3.1.0/3.2.0.
	if err := version.Transform(doc, cfg.OpenAPI.TargetVersion); err != nil {
		return fmt.Errorf("transforming OpenAPI document: %w", err)
	}

	if err := reportBrokenRefs(doc, cfg.Validation.AllowMissingSchemas); err != nil {
		return err
	}

	// Serialize to JSON
	jsonBytes, err := doc.ToJSON()
	if err != nil {
		return fmt.Errorf("serializing OpenAPI document: %w", err)
	}

	// Resolve output path relative to config file directory
	outputPath := cfg.OpenAPI.Output
	if !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(configDir, outputPath)
	}

	// Create output directory if needed
	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	// Write the file
	if err := os.WriteFile(outputPath, jsonBytes, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}

	fmt.Fprintf(os.Stderr, "generated OpenAPI document: %s\n", cfg.OpenAPI.Output)
	return nil
}

// reportBrokenRefs runs the spec-compliance $ref-closure walk, logging any
// broken ref whose missing schema name is in allowMissingSchemas and
// failing the build on anything else. An empty allow-list (the default)
// means every broken ref is fatal.
func reportBrokenRefs(doc *openapi.Document, allowMissingSchemas []string) error {
	broken := openapi.FindBrokenRefs(doc)
	if len(broken) == 0 {
		return nil
	}

	allowed := make(map[string]bool, len(allowMissingSchemas))
	for _, name := range allowMissingSchemas {
		allowed[name] = true
	}

	var fatal []openapi.BrokenRef
	for _, ref := range broken {
		if allowed[ref.Missing] {
			fmt.Fprintf(os.Stderr, "warning: %s references missing schema %q (%s), allowed by config\n", ref.Path, ref.Missing, ref.Category)
			continue
		}
		fatal = append(fatal, ref)
	}
	if len(fatal) == 0 {
		return nil
	}

	var msgs []string
	for _, ref := range fatal {
		msgs = append(msgs, fmt.Sprintf("%s: missing schema %q (%s)", ref.Path, ref.Missing, ref.Category))
	}
	return fmt.Errorf("broken $ref in generated OpenAPI document:\n  %s", strings.Join(msgs, "\n  "))
}

// determineOutputDir figures out the output directory from emitted files.
func determineOutputDir(emittedFiles []string, cwd string) string {
	for _, f := range emittedFiles {
		if strings.HasSuffix(f, ".js") {
			return filepath.Dir(f)
		}
	}

	// Last resort: cwd/dist
	return filepath.Join(cwd, "dist")
}

// metadataDump is the JSON output structure for --dump-metadata.
type metadataDump struct {
	Files    []fileDump                    `json:"files"`
	Registry map[string]*metadata.Metadata `json:"registry"`
}

type fileDump struct {
	FileName string                       `json:"fileName"`
	Types    map[string]metadata.Metadata `json:"types"`
}

// runDumpMetadata extracts type metadata from all non-declaration source files
// and outputs it as JSON to stdout.
func runDumpMetadata(program *shimcompiler.Program, opts *core.CompilerOptions) int {
	checker, release := shimcompiler.Program_GetTypeChecker(program, context.Background())
	if checker == nil {
		fmt.Fprintln(os.Stderr, "error: could not get type checker")
		return 1
	}
	defer release()

	walker := analyzer.NewTypeWalker(checker)
	if opts.ExactOptionalPropertyTypes == core.TSTrue {
		walker.SetExactOptionalPropertyTypes(true)
	}

	var files []fileDump
	for _, sf := range program.GetSourceFiles() {
		if sf.IsDeclarationFile {
			continue
		}

		types := make(map[string]metadata.Metadata)

		for _, stmt := range sf.Statements.Nodes {
			switch stmt.Kind {
			case ast.KindTypeAliasDeclaration:
				decl := stmt.AsTypeAliasDeclaration()
				name := decl.Name().Text()
				resolvedType := shimchecker.Checker_getTypeFromTypeNode(checker, decl.Type)
				m := walker.WalkNamedType(name, resolvedType)
				types[name] = m

			case ast.KindInterfaceDeclaration:
				decl := stmt.AsInterfaceDeclaration()
				name := decl.Name().Text()
				sym := checker.GetSymbolAtLocation(decl.Name())
				if sym != nil {
					resolvedType := shimchecker.Checker_getDeclaredTypeOfSymbol(checker, sym)
					types[name] = walker.WalkType(resolvedType)
				}

			case ast.KindClassDeclaration:
				decl := stmt.AsClassDeclaration()
				if decl.Name() != nil {
					name := decl.Name().Text()
					sym := checker.GetSymbolAtLocation(decl.Name())
					if sym != nil {
						resolvedType := shimchecker.Checker_getDeclaredTypeOfSymbol(checker, sym)
						types[name] = walker.WalkType(resolvedType)
					}
				}

			case ast.KindEnumDeclaration:
				decl := stmt.AsEnumDeclaration()
				name := decl.Name().Text()
				sym := checker.GetSymbolAtLocation(decl.Name())
				if sym != nil {
					resolvedType := shimchecker.Checker_getDeclaredTypeOfSymbol(checker, sym)
					types[name] = walker.WalkType(resolvedType)
				}
			}
		}

		if len(types) > 0 {
			files = append(files, fileDump{
				FileName: sf.FileName(),
				Types:    types,
			})
		}
	}

	dump := metadataDump{
		Files:    files,
		Registry: walker.Registry().Types,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(dump); err != nil {
		fmt.Fprintf(os.Stderr, "error encoding JSON: %v\n", err)
		return 1
	}
	return 0
}
