package gen

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dave/jennifer/jen"
)

// Dialect is the emission surface the orchestrator drives. The ddb package
// implements it for the DynamoDB object-mapping convention.
type Dialect interface {
	// GenEntity renders the entity file: struct, enum declarations,
	// constructors, builder, equality.
	GenEntity(e *Entity) *jen.File
	// GenModelType renders one nested structural type.
	GenModelType(e *Entity, gt *GeneratedType) *jen.File
	// GenKeys renders the per-entity key constants and key constructor.
	GenKeys(e *Entity) *jen.File
	// GenValidator renders the per-entity validator.
	GenValidator(e *Entity) *jen.File
	// GenValidationErrors renders the shared validation error type.
	GenValidationErrors() *jen.File
	// GenRepository renders the per-entity repository.
	GenRepository(e *Entity) *jen.File
	// GenClient renders the shared client wrapper.
	GenClient() *jen.File
	// GenConfig renders the shared facility class.
	GenConfig() *jen.File
	// GenConverter renders the conditional converter types.
	GenConverter() *jen.File
}

// GeneratorHelper is the surface dialect packages use to stay decoupled
// from the orchestrator.
type GeneratorHelper interface {
	NewFile(pkgPath string) *jen.File
	Graph() *Graph
	// Pkg returns the base package name of the generated tree.
	Pkg() string
	// BasePkgPath returns the import path of the generated base package.
	BasePkgPath() string
	// SubPkgPath returns the import path of a generated subpackage.
	SubPkgPath(sub string) string
	// GoType returns the field's Go type, pointer-wrapped for optional
	// scalars.
	GoType(a *Attr) jen.Code
	// BaseType returns the field's Go type without pointer wrapping.
	BaseType(a *Attr) jen.Code
	// DefaultLit returns the literal initializer for the attribute's
	// schema default, and whether one exists. The bool instantHelper
	// return reports that the literal calls the per-file mustTime helper.
	DefaultLit(a *Attr) (code jen.Code, ok bool, instantHelper bool)
	// MarkEmitted records a shared component for the current run and
	// reports whether it was already emitted. The guard is per-run state,
	// never global.
	MarkEmitted(name string) bool
}

// Generator orchestrates one generation batch. It is single-threaded by
// design: the ordering guarantees (collision detection before the first
// write, shared components exactly once) fall out of the sequential loop.
type Generator struct {
	graph   *Graph
	dialect Dialect
	pkg     string
	outDir  string

	// emitted guards once-per-batch components for this run only.
	emitted map[string]bool
}

// NewGenerator creates a generator for the graph. Call WithDialect before
// Generate.
func NewGenerator(g *Graph) *Generator {
	return &Generator{
		graph:   g,
		pkg:     path.Base(g.Config.Package),
		outDir:  g.Config.Target,
		emitted: make(map[string]bool),
	}
}

// WithDialect sets the dialect implementation.
func (g *Generator) WithDialect(d Dialect) *Generator {
	g.dialect = d
	return g
}

// Generate runs the batch. Collision detection covers every entity and
// nested type before any file is written; a collision aborts the run with
// nothing on disk. Failures after files have been written are not rolled
// back. Shared components (validation error type, client wrapper, config
// facility, converters) are emitted exactly once per run regardless of
// entity count. Absent table metadata suppresses repositories, the client
// wrapper, and the config facility.
func (g *Generator) Generate() error {
	if g.dialect == nil {
		return NewConfigError("Dialect", "no dialect set: call WithDialect() before Generate()")
	}
	if err := g.graph.detectCollisions(); err != nil {
		return err
	}
	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return NewGenerationError("setup", g.outDir, "create output directory", err)
	}

	if !g.MarkEmitted("validation/errors") {
		if err := g.writeFile("validation", "validation", "errors.go", g.dialect.GenValidationErrors()); err != nil {
			return err
		}
	}
	if g.graph.NeedsConverters() && !g.MarkEmitted("converter") {
		if err := g.writeFile("converter", "converter", "converter.go", g.dialect.GenConverter()); err != nil {
			return err
		}
	}

	for _, e := range g.graph.Nodes {
		base := strings.ToLower(e.Name) + ".go"
		if err := g.writeFile("entity", "", base, g.dialect.GenEntity(e)); err != nil {
			return err
		}
		for _, gt := range e.Types {
			if err := g.writeFile("model", "model", strings.ToLower(gt.QualifiedName)+".go", g.dialect.GenModelType(e, gt)); err != nil {
				return err
			}
		}
		if err := g.writeFile("keys", "keys", base, g.dialect.GenKeys(e)); err != nil {
			return err
		}
		if err := g.writeFile("validator", "validation", base, g.dialect.GenValidator(e)); err != nil {
			return err
		}
		if g.graph.Table != nil {
			if err := g.writeFile("repository", "repository", base, g.dialect.GenRepository(e)); err != nil {
				return err
			}
		}
	}

	if g.graph.Table != nil {
		if !g.MarkEmitted("client") {
			if err := g.writeFile("client", "client", "client.go", g.dialect.GenClient()); err != nil {
				return err
			}
		}
		if !g.MarkEmitted("config") {
			if err := g.writeFile("config", "config", "config.go", g.dialect.GenConfig()); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeFile renders a jennifer file to disk. Filesystem failures are fatal
// and carry the offending path.
func (g *Generator) writeFile(phase, subdir, filename string, f *jen.File) error {
	dir := g.outDir
	if subdir != "" {
		dir = filepath.Join(g.outDir, subdir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return NewGenerationError(phase, dir, "create directory", err)
	}
	p := filepath.Join(dir, filename)
	out, err := os.Create(p)
	if err != nil {
		return NewGenerationError(phase, p, "create file", err)
	}
	defer out.Close()
	if err := f.Render(out); err != nil {
		return NewGenerationError(phase, p, "render", err)
	}
	return nil
}

// =============================================================================
// GeneratorHelper implementation
// =============================================================================

// NewFile creates a jennifer file for the given import path with the
// standard header comment. Every generated package is hinted so imports
// across the generated tree render without aliases.
func (g *Generator) NewFile(pkgPath string) *jen.File {
	f := jen.NewFilePathName(pkgPath, path.Base(pkgPath))
	f.HeaderComment("Code generated by dynagen. DO NOT EDIT.")
	f.ImportName(g.BasePkgPath(), g.pkg)
	for _, sub := range []string{"model", "keys", "validation", "repository", "client", "config", "converter"} {
		f.ImportName(g.SubPkgPath(sub), sub)
	}
	return f
}

// Graph returns the batch graph.
func (g *Generator) Graph() *Graph { return g.graph }

// Pkg returns the base package name.
func (g *Generator) Pkg() string { return g.pkg }

// BasePkgPath returns the import path of the generated base package.
func (g *Generator) BasePkgPath() string { return g.graph.Config.Package }

// SubPkgPath returns the import path of a generated subpackage.
func (g *Generator) SubPkgPath(sub string) string {
	return g.graph.Config.Package + "/" + sub
}

// MarkEmitted records a shared component for this run and reports whether
// it had already been emitted.
func (g *Generator) MarkEmitted(name string) bool {
	if g.emitted[name] {
		return true
	}
	g.emitted[name] = true
	return false
}

// GoType returns the Go type of an attribute, pointer-wrapped when the
// attribute is optional.
func (g *Generator) GoType(a *Attr) jen.Code {
	if a.Optional() {
		return jen.Op("*").Add(g.BaseType(a))
	}
	return g.BaseType(a)
}

// BaseType returns the Go type of an attribute without pointer wrapping.
func (g *Generator) BaseType(a *Attr) jen.Code {
	switch a.Type.Class {
	case ClassEnum:
		return jen.Qual(g.enumPkgPath(a.Type.Enum), a.Type.Enum.Name)
	case ClassGenerated:
		return jen.Op("*").Qual(g.SubPkgPath("model"), a.Type.Ref.QualifiedName)
	case ClassListGenerated:
		return jen.Index().Op("*").Qual(g.SubPkgPath("model"), a.Type.Ref.QualifiedName)
	case ClassListScalar:
		return jen.Index().Add(g.scalarType(a.Type.Kind))
	case ClassSetScalar:
		return jen.Qual(g.SubPkgPath("converter"), SetTypeName(a.Type.Kind))
	default:
		return g.scalarType(a.Type.Kind)
	}
}

// enumPkgPath places entity-level enums in the base package and enums of
// nested types in the model package, matching where their owning struct
// lives.
func (g *Generator) enumPkgPath(et *EnumType) string {
	for _, e := range g.graph.Nodes {
		for _, a := range e.Attrs {
			if a.Type.Enum == et {
				return g.BasePkgPath()
			}
		}
	}
	return g.SubPkgPath("model")
}

func (g *Generator) scalarType(k Kind) jen.Code {
	switch k {
	case KindString:
		return jen.String()
	case KindInt:
		return jen.Int()
	case KindLong, KindEpoch:
		return jen.Int64()
	case KindFloat:
		return jen.Float32()
	case KindDouble:
		return jen.Float64()
	case KindDecimal:
		return jen.Qual(g.SubPkgPath("converter"), "Decimal")
	case KindBool:
		return jen.Bool()
	case KindBytes:
		return jen.Index().Byte()
	case KindInstant:
		return jen.Qual("time", "Time")
	case KindDate:
		return jen.Qual(g.SubPkgPath("converter"), "Date")
	default:
		return jen.Any()
	}
}

// SetTypeName names the emitted converter set type for an element kind.
func SetTypeName(k Kind) string {
	switch k {
	case KindString:
		return "StringSet"
	case KindInt:
		return "IntSet"
	case KindLong, KindEpoch:
		return "Int64Set"
	case KindFloat:
		return "Float32Set"
	case KindDouble:
		return "Float64Set"
	default:
		return "StringSet"
	}
}

// DefaultLit formats the literal initializer for an attribute's schema
// default so that it parses back, under the resolved representation, to the
// schema value: fixed-point through the string constructor, date and
// instant through parse calls, 64-bit integers through a width conversion.
func (g *Generator) DefaultLit(a *Attr) (jen.Code, bool, bool) {
	if a.Default == nil {
		return nil, false, false
	}
	conv := g.SubPkgPath("converter")
	switch a.Type.Kind {
	case KindString:
		if a.Type.Class == ClassEnum {
			return jen.Qual(g.enumPkgPath(a.Type.Enum), EnumConstName(a.Type.Enum, fmt.Sprint(a.Default))), true, false
		}
		return jen.Lit(fmt.Sprint(a.Default)), true, false
	case KindInt:
		return jen.Lit(toInt(a.Default)), true, false
	case KindLong:
		return jen.Id("int64").Call(jen.Lit(toInt(a.Default))), true, false
	case KindEpoch:
		return jen.Id("int64").Call(jen.Lit(toInt(a.Default))), true, false
	case KindFloat:
		return jen.Id("float32").Call(jen.Lit(toFloat(a.Default))), true, false
	case KindDouble:
		return jen.Lit(toFloat(a.Default)), true, false
	case KindDecimal:
		return jen.Qual(conv, "NewDecimal").Call(jen.Lit(fmt.Sprint(a.Default))), true, false
	case KindBool:
		if b, ok := a.Default.(bool); ok && b {
			return jen.True(), true, false
		}
		return jen.False(), true, false
	case KindDate:
		return jen.Qual(conv, "MustDate").Call(jen.Lit(fmt.Sprint(a.Default))), true, false
	case KindInstant:
		return jen.Id("mustTime").Call(jen.Lit(fmt.Sprint(a.Default))), true, true
	case KindBytes:
		return jen.Index().Byte().Parens(jen.Lit(fmt.Sprint(a.Default))), true, false
	default:
		return nil, false, false
	}
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// Verify Generator implements GeneratorHelper at compile time.
var _ GeneratorHelper = (*Generator)(nil)
