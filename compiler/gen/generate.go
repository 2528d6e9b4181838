package gen

import (
	"bytes"
	"context"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/esassoc/SqlCodeGen/internal/logger"
)

// PackageFile is the shared Go file of the entity package.
const PackageFile = "entities.go"

// FileKind is the target of a generated file.
type FileKind int

const (
	// GoFile is an entity package file.
	GoFile FileKind = iota
	// ScriptFile is a TypeScript module.
	ScriptFile
)

func (k FileKind) String() string {
	if k == ScriptFile {
		return "typescript"
	}
	return "go"
}

// File is one generated file. Generation never touches the disk; Dir is
// the configured output directory and is empty when the target is not
// written.
type File struct {
	Kind    FileKind
	Dir     string
	Name    string
	Table   string
	Content []byte
}

// Path returns the slash-separated output path of the file.
func (f *File) Path() string {
	return path.Join(f.Dir, f.Name)
}

// Output is the result of one generation run. Files are sorted by kind and
// name so identical input always yields identical output.
type Output struct {
	Files       []*File
	Diagnostics []error
}

// Generator renders a Graph with the configured target generators.
//
// Example:
//
//	g := gen.NewGenerator(graph)
//	g.WithEntity(golang.New(g)).WithScript(typescript.New(g))
//	out, err := g.Generate(ctx)
type Generator struct {
	graph  *Graph
	entity EntityGenerator
	script ScriptGenerator
	log    *logger.Logger

	mu  sync.Mutex
	out *Output
}

// NewGenerator creates a generator of g. Call WithEntity and WithScript to
// select the targets before Generate.
func NewGenerator(g *Graph) *Generator {
	return &Generator{graph: g, log: logger.Nop()}
}

// WithEntity sets the Go entity generator.
func (g *Generator) WithEntity(e EntityGenerator) *Generator {
	g.entity = e
	return g
}

// WithScript sets the TypeScript enum generator.
func (g *Generator) WithScript(s ScriptGenerator) *Generator {
	g.script = s
	return g
}

// WithLogger sets the logger reporting skipped files.
func (g *Generator) WithLogger(l *logger.Logger) *Generator {
	g.log = logger.OrNop(l)
	return g
}

// NewFile creates a new Jennifer file with the standard header comment.
func (g *Generator) NewFile() *jen.File {
	f := jen.NewFile(g.Pkg())
	f.HeaderComment(g.Header())
	return f
}

// Graph returns the schema graph.
func (g *Generator) Graph() *Graph { return g.graph }

// Pkg returns the output package name.
func (g *Generator) Pkg() string { return g.graph.PackageName() }

// Header returns the generated-file header line.
func (g *Generator) Header() string {
	if h := g.graph.Header; h != "" {
		return h
	}
	return DefaultHeader
}

// Generate renders every type in parallel. A type that fails to render is
// recorded as a GenerationError diagnostic and does not stop the others.
// The returned error is only set when no generator was configured or ctx
// is done.
func (g *Generator) Generate(ctx context.Context) (*Output, error) {
	if g.entity == nil && g.script == nil {
		return nil, NewConfigError("Generator", nil, "no target set: call WithEntity or WithScript before Generate")
	}
	g.out = &Output{}
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(max(g.graph.Workers, 1))
	for _, t := range g.graph.Types {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if g.entity != nil {
				g.goFile(t.Table.Name, "primary key", t.FileStem()+"_primary_key.go", g.entity.GenPrimaryKey(t))
				g.goFile(t.Table.Name, "entity", t.FileStem()+".go", g.entity.GenEntity(t))
			}
			if g.script != nil && t.IsLookup() {
				buf, err := g.script.GenEnum(t)
				g.scriptFile(t.Table.Name, g.script.EnumFileName(t), buf, err)
			}
			return nil
		})
	}
	if g.entity != nil {
		errg.Go(func() error {
			g.goFile("", "package", PackageFile, g.entity.GenPackage())
			return nil
		})
	}
	if g.script != nil {
		errg.Go(func() error {
			buf, err := g.script.GenShared()
			g.scriptFile("", g.script.SharedFileName(), buf, err)
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}
	return g.finish(), nil
}

// goFile renders and formats f.
func (g *Generator) goFile(table, phase, name string, f *jen.File) {
	if f == nil {
		return
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		g.fail(NewGenerationError(phase, table, name, err))
		return
	}
	formatted, err := imports.Process(name, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		g.fail(NewGenerationError(phase, table, "format "+name, err))
		return
	}
	g.add(&File{Kind: GoFile, Dir: g.graph.Target, Name: name, Table: table, Content: formatted})
}

func (g *Generator) scriptFile(table, name string, buf []byte, err error) {
	if err != nil {
		g.fail(NewGenerationError("enum", table, name, err))
		return
	}
	g.add(&File{Kind: ScriptFile, Dir: g.graph.ScriptTarget, Name: name, Table: table, Content: buf})
}

func (g *Generator) add(f *File) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.out.Files = append(g.out.Files, f)
}

func (g *Generator) fail(err error) {
	g.log.With().Err(err).Logger().Warn("skipping generated file")
	g.mu.Lock()
	defer g.mu.Unlock()
	g.out.Diagnostics = append(g.out.Diagnostics, err)
}

// finish orders the output and drops files whose name is already taken,
// keeping the shared files.
func (g *Generator) finish() *Output {
	out := g.out
	slices.SortFunc(out.Files, func(a, b *File) int {
		if a.Kind != b.Kind {
			return int(a.Kind) - int(b.Kind)
		}
		if shared(a) != shared(b) {
			if shared(a) {
				return -1
			}
			return 1
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Table, b.Table)
	})
	seen := make(map[string]struct{}, len(out.Files))
	files := out.Files[:0]
	for _, f := range out.Files {
		key := f.Kind.String() + ":" + strings.ToLower(f.Name)
		if _, dup := seen[key]; dup {
			out.Diagnostics = append(out.Diagnostics, NewGenerationError(f.Kind.String(), f.Table, "file name "+f.Name+" is already generated", nil))
			continue
		}
		seen[key] = struct{}{}
		files = append(files, f)
	}
	out.Files = files
	slices.SortStableFunc(out.Diagnostics, func(a, b error) int {
		return strings.Compare(a.Error(), b.Error())
	})
	return out
}

func shared(f *File) bool { return f.Table == "" }
