package generator

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/glextl/emitter"
	"github.com/ardanlabs/glextl/parser"
)

// Logical names of the generated files, used as keys by Generate.
const (
	FileHeader  = "glextl.h"
	FileExample = "glextl_impl.cpp"
)

// resolverType is the callback type the caller hands to the load functions.
const resolverType = "PFNGLGETPROC"

// Options controls the names used in the generated code.
type Options struct {
	// Prefix starts every public function name, e.g. glExt gives glExtLoadAll.
	Prefix string

	// HeaderGuard is the inclusion guard of the public header.
	HeaderGuard string

	// ImplementationMacro must be defined by exactly one includer to get
	// the loader definitions.
	ImplementationMacro string

	// ImplementationGuard stops the definitions from being emitted twice
	// when the header is included again in the same translation unit.
	ImplementationGuard string

	// HeaderInclude is the include path of the header as used by the
	// example translation unit.
	HeaderInclude string
}

// DefaultOptions returns the names the glextl header has always used.
func DefaultOptions() Options {
	return Options{
		Prefix:              "glExt",
		HeaderGuard:         "GLEXTL_H",
		ImplementationMacro: "GLEXTL_IMPLEMENTATION",
		ImplementationGuard: "_GLEXTL_IMPLEMENTATION_GUARD_",
		HeaderInclude:       "GL/glextl.h",
	}
}

// withDefaults fills empty fields from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Prefix == "" {
		o.Prefix = d.Prefix
	}
	if o.HeaderGuard == "" {
		o.HeaderGuard = d.HeaderGuard
	}
	if o.ImplementationMacro == "" {
		o.ImplementationMacro = d.ImplementationMacro
	}
	if o.ImplementationGuard == "" {
		o.ImplementationGuard = d.ImplementationGuard
	}
	if o.HeaderInclude == "" {
		o.HeaderInclude = d.HeaderInclude
	}
	return o
}

type Generator struct {
	opts     Options
	features []parser.Feature
}

// New returns a generator for features, which are emitted in the given order.
func New(opts Options, features []parser.Feature) *Generator {
	return &Generator{
		opts:     opts.withDefaults(),
		features: features,
	}
}

// Generate renders every output file, keyed by FileHeader and FileExample.
func (g *Generator) Generate() map[string]string {
	return map[string]string{
		FileHeader:  g.HeaderTree().Render(0),
		FileExample: g.ExampleTree().Render(0),
	}
}

// PublicHeader returns the declarations part of the header.
func (g *Generator) PublicHeader() string {
	return g.declarations().Render(0)
}

// Implementation returns the loader definitions.
func (g *Generator) Implementation() string {
	return g.implementation().Render(0)
}

// HeaderTree returns the complete header file: the public declarations,
// followed by the loader definitions behind the implementation macro.
func (g *Generator) HeaderTree() *emitter.Tree {
	return emitter.New().
		IfNotDef(g.opts.HeaderGuard, g.declarations()).
		EmptyLine().
		IfDef(g.opts.ImplementationMacro, emitter.New().
			IfNotDef(g.opts.ImplementationGuard, emitter.New().
				Statement("#define "+g.opts.ImplementationGuard).
				Inline(g.implementation())))
}

// ExampleTree returns a translation unit that holds the loader definitions.
func (g *Generator) ExampleTree() *emitter.Tree {
	return emitter.New().
		EmptyLine().
		Statement("#define " + g.opts.ImplementationMacro).
		Statement(fmt.Sprintf("#include <%s>", g.opts.HeaderInclude)).
		EmptyLine()
}

func (g *Generator) declarations() *emitter.Tree {
	return emitter.New().
		Statement("#define "+g.opts.HeaderGuard).
		Statements(
			"#include <GL/gl.h>",
			"#define GL_GLEXT_PROTOTYPES",
			"#include <GL/glext.h>",
		).
		EmptyLine().
		Statement(fmt.Sprintf("typedef void* (%s)(const GLubyte* name);", resolverType)).
		EmptyLine().
		Statements(
			g.loadAllSignature()+";",
			g.loadCoreSignature()+";",
			g.loadOneSignature()+";",
			g.isLoadedSignature()+";",
		).
		EmptyLine()
}

func (g *Generator) implementation() *emitter.Tree {
	tree := emitter.New().
		Statement("#include <string.h>").
		EmptyLine().
		Statement(fmt.Sprintf("%s* %s = 0;", resolverType, g.resolverVar())).
		Statement(fmt.Sprintf("void* %s(const GLubyte* name)", g.resolveFunc())).
		Scope(emitter.New().
			Statement(fmt.Sprintf("if(%s != 0) return (*%s)(name);", g.resolverVar(), g.resolverVar())).
			Statement("return 0;")).
		EmptyLine()

	for _, f := range g.features {
		g.writeFeature(tree, f)
		tree.EmptyLine()
	}

	return tree.
		Statement(g.loadAllSignature()).
		Scope(emitter.New().
			Statement(g.resolverVar() + " = proc;").
			Statements(g.loadAllCalls()...).
			Statement("return GL_TRUE;")).
		EmptyLine().
		Statement(g.loadCoreSignature()).
		Scope(emitter.New().
			Statement(g.resolverVar() + " = proc;").
			Statement("return GL_FALSE;")).
		EmptyLine().
		Statement(g.loadOneSignature()).
		Scope(emitter.New().
			Statement(g.resolverVar() + " = proc;").
			Statements(g.loadOneBranches()...).
			Statement("return GL_FALSE;")).
		EmptyLine().
		Statement(g.isLoadedSignature()).
		Scope(emitter.New().
			Statements(g.isLoadedBranches()...).
			Statement("return GL_FALSE;"))
}

// writeFeature appends the function pointers, thunks, loader and loaded
// flag of a single feature.
func (g *Generator) writeFeature(tree *emitter.Tree, f parser.Feature) {
	tree.Statement(fmt.Sprintf("/* %s */", f.Name))

	for _, e := range f.Entries {
		ptr := pointerVar(e.Prototype)

		call := fmt.Sprintf("(%s)(%s);", ptr, strings.Join(e.TypeDefinition.Params, ", "))
		body := emitter.New()
		if e.TypeDefinition.ReturnsValue() {
			body.
				Statement(fmt.Sprintf("if (%s != 0) return %s", ptr, call)).
				Statement("return 0;")
		} else {
			body.Statement(fmt.Sprintf("if (%s != 0) %s", ptr, call))
		}

		tree.
			Statement(fmt.Sprintf("%s %s = 0;", e.TypeDefinition.Name, ptr)).
			Statement(e.Prototype.Decl).
			Scope(body)
	}

	// r ends up true when any entry point failed to resolve.
	loader := emitter.New().Statement("GLboolean r = GL_FALSE;")
	for _, e := range f.Entries {
		loader.Statement(fmt.Sprintf("r = ((%s = (%s)%s((const GLubyte*)%q)) == NULL) || r;",
			pointerVar(e.Prototype), e.TypeDefinition.Name, g.resolveFunc(), e.Prototype.Name))
	}
	loader.Statement("return r;")

	tree.
		Statement(fmt.Sprintf("GLboolean %s()", loaderFunc(f))).
		Scope(loader).
		Statement(fmt.Sprintf("static GLboolean %s = GL_FALSE;", loadedFlag(f)))
}

func (g *Generator) loadAllCalls() []string {
	out := make([]string, 0, len(g.features))
	for _, f := range g.features {
		out = append(out, fmt.Sprintf("%s = %s();", loadedFlag(f), loaderFunc(f)))
	}
	return out
}

func (g *Generator) loadOneBranches() []string {
	out := make([]string, 0, len(g.features))
	for _, f := range g.features {
		out = append(out, fmt.Sprintf("if(strcmp(name,%q) == 0) return %s = %s();", f.Name, loadedFlag(f), loaderFunc(f)))
	}
	return out
}

func (g *Generator) isLoadedBranches() []string {
	out := make([]string, 0, len(g.features))
	for _, f := range g.features {
		out = append(out, fmt.Sprintf("if(strcmp(name,%q) == 0) return %s;", f.Name, loadedFlag(f)))
	}
	return out
}

func (g *Generator) loadAllSignature() string {
	return fmt.Sprintf("GLboolean %sLoadAll(%s* proc)", g.opts.Prefix, resolverType)
}

func (g *Generator) loadCoreSignature() string {
	return fmt.Sprintf("GLboolean %sLoadCore(%s* proc)", g.opts.Prefix, resolverType)
}

func (g *Generator) loadOneSignature() string {
	return fmt.Sprintf("GLboolean %sLoadOne(%s* proc, const char* name)", g.opts.Prefix, resolverType)
}

func (g *Generator) isLoadedSignature() string {
	return fmt.Sprintf("GLboolean %sIsLoaded(const char* name)", g.opts.Prefix)
}

func (g *Generator) resolveFunc() string {
	return g.opts.Prefix + "_GetProcAddress"
}

func (g *Generator) resolverVar() string {
	return "__" + g.resolveFunc()
}

func pointerVar(p parser.Prototype) string {
	return "__" + p.Name
}

func loaderFunc(f parser.Feature) string {
	return "__load" + f.Name
}

func loadedFlag(f parser.Feature) string {
	return "__isLoaded" + f.Name
}
