// Package slice is the top-level orchestrator: it wires
// internal/typeprovider, internal/collector, internal/synth and
// internal/layout together into a single Extract operation.
package slice

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/printer"
	"go/types"
	"path"
	"sort"

	"go.uber.org/zap"

	"goslice/internal/collector"
	"goslice/internal/depnode"
	"goslice/internal/errs"
	"goslice/internal/initializer"
	"goslice/internal/layout"
	"goslice/internal/synth"
	"goslice/internal/typeprint"
	"goslice/internal/typeprovider"
)

// Extract runs the full pipeline for one entry point, returning the
// rendered Go source of the resulting slice.
func Extract(log *zap.SugaredLogger, provider *typeprovider.Provider, entrySpec, selector string) (string, error) {
	entry, err := depnode.ParseEntryPoint(entrySpec, selector)
	if err != nil {
		return "", err
	}

	log.Infow("collecting dependencies", "entry", entry.String())
	res, err := collector.New(provider).Collect(entry)
	if err != nil {
		return "", err
	}
	log.Infow("collection complete", "types", len(res.Types), "globals", len(res.Globals), "packages", len(res.TouchedPackages))

	slicePkgs := shortNames(res.TouchedPackages)

	synthFor := newSynthFactory(provider, slicePkgs)

	decls := map[string]string{}
	for _, fqn := range collector.SortedTypeFQNs(res.Types) {
		tf := res.Types[fqn]
		if tf.Named == nil {
			return "", errs.DependencyNotFound(fqn)
		}
		text, err := synthesizeType(synthFor.For(tf.Named.Obj().Pkg().Path()), tf)
		if err != nil {
			return "", err
		}
		decls[fqn] = text
	}

	for _, g := range res.Globals {
		text, err := synthesizeGlobal(provider, synthFor.For(g.PkgPath), g)
		if err != nil {
			return "", err
		}
		decls[g.PkgPath+"."+g.Name+":"+g.Kind.String()] = text
	}
	decls["__helper__"] = synth.DefaultFactoryHelper

	entryBody := renderEntryBody(provider, res)

	imports := synthFor.Imports()
	mergeEntryBodyImports(imports, res.EntryPkg, entryBodyImports(provider, res))

	log.Infow("emitting slice", "files", len(res.TouchedPackages))
	return layout.Emit(provider, res, decls, entryBody, imports)
}

func synthesizeType(s *synth.Synthesizer, tf *collector.TypeFacts) (string, error) {
	members := synth.MemberSet{
		Methods:  tf.Members.Methods,
		SMethods: tf.Members.SMethods,
		Fields:   tf.Members.Fields,
		Consts:   tf.Members.Consts,
		HasCstr:  tf.Members.HasCstr,
	}
	switch under := tf.Named.Underlying().(type) {
	case *types.Struct, *types.Interface:
		return s.TypeDecl(tf.Named, members)
	case *types.Basic:
		if under.Info()&(types.IsInteger|types.IsString) != 0 && len(members.Consts) > 0 {
			return s.EnumDecl(tf.Named, members)
		}
		return s.PlainTypeDecl(tf.Named)
	default:
		return s.PlainTypeDecl(tf.Named)
	}
}

func synthesizeGlobal(provider *typeprovider.Provider, s *synth.Synthesizer, g depnode.Node) (string, error) {
	switch g.Kind {
	case depnode.KindFunc:
		fn, ok := provider.LookupFunc(g.PkgPath, g.Name)
		if !ok {
			return "", errs.DependencyNotFound(depnode.GlobalName(g))
		}
		return s.Func(fn)
	case depnode.KindGConst:
		obj, ok := provider.LookupConstOrVar(g.PkgPath, g.Name)
		if !ok {
			return "", errs.DependencyNotFound(depnode.GlobalName(g))
		}
		return s.GConst(g.Name, obj.Type())
	case depnode.KindGVar:
		obj, ok := provider.LookupConstOrVar(g.PkgPath, g.Name)
		if !ok {
			return "", errs.DependencyNotFound(depnode.GlobalName(g))
		}
		return s.GVar(g.Name, obj.Type())
	default:
		return "", errs.UnexpectedDependency("synthesizeGlobal called on non-global node kind %s", g.Kind)
	}
}

// renderEntryBody prints the entry point's own declaration verbatim:
// the entry point's real body, not a stub, anchors the slice.
func renderEntryBody(provider *typeprovider.Provider, res *collector.Result) string {
	if res.EntryDecl == nil {
		return ""
	}
	pkg, ok := provider.Package(res.EntryPkg)
	if !ok {
		return ""
	}
	var buf bytes.Buffer
	cfg := printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}
	if err := cfg.Fprint(&buf, pkg.Fset, res.EntryDecl); err != nil {
		return ""
	}
	return buf.String() + "\n"
}

// entryBodyImports walks the entry declaration's recorded go/types.Info
// to find every package the verbatim-printed body itself qualifies an
// identifier through (the "pkg" in "pkg.Foo"), returned under the
// local name the original source wrote it under. The entry body is
// printed as-is rather than re-synthesized, so it needs its own import
// accounting: typeprint.Printer never sees it.
func entryBodyImports(provider *typeprovider.Provider, res *collector.Result) map[string]string {
	if res.EntryDecl == nil {
		return nil
	}
	pkg, ok := provider.Package(res.EntryPkg)
	if !ok || pkg.TypesInfo == nil {
		return nil
	}
	out := map[string]string{}
	ast.Inspect(res.EntryDecl, func(n ast.Node) bool {
		id, ok := n.(*ast.Ident)
		if !ok {
			return true
		}
		pn, ok := pkg.TypesInfo.Uses[id].(*types.PkgName)
		if !ok {
			return true
		}
		if imported := pn.Imported(); imported.Path() != res.EntryPkg {
			out[imported.Path()] = pn.Name()
		}
		return true
	})
	return out
}

// mergeEntryBodyImports folds eb into imports[entryPkg], without
// overriding an alias a synthesized declaration in the same package
// already picked for that path.
func mergeEntryBodyImports(imports map[string]map[string]string, entryPkg string, eb map[string]string) {
	if len(eb) == 0 {
		return
	}
	m := imports[entryPkg]
	if m == nil {
		m = map[string]string{}
	}
	for pkgPath, alias := range eb {
		if _, ok := m[pkgPath]; !ok {
			m[pkgPath] = alias
		}
	}
	imports[entryPkg] = m
}

// synthFactory hands out a memoized, per-package Synthesizer. Type
// printing must be scoped to the package being emitted into so
// same-package references print unqualified (see internal/typeprint);
// keeping one Synthesizer (and its Printer) per package also lets the
// factory report, after synthesis, exactly which other packages each
// package's declarations ended up referencing.
type synthFactory struct {
	provider  *typeprovider.Provider
	slicePkgs map[string]string
	cache     map[string]*synth.Synthesizer
}

func newSynthFactory(provider *typeprovider.Provider, slicePkgs map[string]string) *synthFactory {
	return &synthFactory{provider: provider, slicePkgs: slicePkgs, cache: map[string]*synth.Synthesizer{}}
}

// For returns the Synthesizer scoped to pkgPath, creating it on first use.
func (f *synthFactory) For(pkgPath string) *synth.Synthesizer {
	if s, ok := f.cache[pkgPath]; ok {
		return s
	}
	printerForPkg := typeprint.New(f.slicePkgs, pkgPath)
	gen := initializer.New(printerForPkg, func(named *types.Named) []initializer.EnumConst {
		return enumConstsOf(f.provider, printerForPkg, named)
	})
	s := synth.New(printerForPkg, gen)
	f.cache[pkgPath] = s
	return s
}

// Imports reports, for every package a Synthesizer was created for, the
// set of other packages its rendered declarations referenced.
func (f *synthFactory) Imports() map[string]map[string]string {
	out := make(map[string]map[string]string, len(f.cache))
	for pkgPath, s := range f.cache {
		out[pkgPath] = s.Printer().Used()
	}
	return out
}

// enumConstsOf enumerates a named type's package-level constants in
// declaration order, feeding the initializer's representative-choice
// rule.
func enumConstsOf(provider *typeprovider.Provider, printer *typeprint.Printer, named *types.Named) []initializer.EnumConst {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return nil
	}
	pkg, ok := provider.Package(obj.Pkg().Path())
	if !ok || pkg.Types == nil {
		return nil
	}
	scope := pkg.Types.Scope()
	type found struct {
		pos  int
		name string
	}
	var matches []found
	for _, name := range scope.Names() {
		cst, ok := scope.Lookup(name).(*types.Const)
		if !ok {
			continue
		}
		n, ok := cst.Type().(*types.Named)
		if !ok || n.Obj() != obj {
			continue
		}
		matches = append(matches, found{pos: int(cst.Pos()), name: cst.Name()})
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })
	out := make([]initializer.EnumConst, 0, len(matches))
	for _, m := range matches {
		out = append(out, initializer.EnumConst{QualifiedName: printer.Qualify(obj.Pkg(), m.name)})
	}
	return out
}

// shortNames assigns a short, unique import alias to every touched
// package path, derived from its last path segment with numeric
// suffixes breaking collisions.
func shortNames(pkgPaths []string) map[string]string {
	sorted := append([]string(nil), pkgPaths...)
	sort.Strings(sorted)
	used := map[string]bool{}
	out := map[string]string{}
	for _, p := range sorted {
		base := path.Base(p)
		name := base
		for i := 2; used[name]; i++ {
			name = fmt.Sprintf("%s%d", base, i)
		}
		used[name] = true
		out[p] = name
	}
	return out
}
