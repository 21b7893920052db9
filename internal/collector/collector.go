// Package collector implements the dependency collector: it type-checks
// the entry point (via internal/typeprovider), captures the dependency
// edges that checking produces, and closes the resulting set under
// signature walks.
//
// Go's type-checker has no edge-callback hook, so the collection phase
// here walks the already-type-checked go/types.Info for the entry's own
// AST subtree directly, producing the same edge set a callback would
// have reported.
package collector

import (
	"go/ast"
	"go/types"
	"sort"

	"goslice/internal/depnode"
	"goslice/internal/errs"
	"goslice/internal/typeprovider"
)

// Result is the closed, grouped dependency set ready for synthesis.
type Result struct {
	// Types maps a type's FQN ("pkgPath.Name") to its *types.Named and
	// the origin-filtered members collected for it.
	Types map[string]*TypeFacts

	// Globals holds every collected global node (Func/GConst/GVar; FuncVal
	// references are folded into Func), AllMembers and Embeds already
	// dropped by the grouping pass.
	Globals []depnode.Node

	// EntryPkg is the package path the entry point's literal body lives
	// in; EntryOwnerType is set for method entries.
	EntryPkg       string
	EntryOwnerType string
	EntryName      string
	EntryIsMethod  bool
	EntryFunc      *types.Func
	EntryDecl      *ast.FuncDecl

	// TouchedPackages lists every package path a synthesized declaration
	// or the entry body itself belongs to, the set the Namespace Layout
	// module groups stub files by.
	TouchedPackages []string
}

// TypeFacts bundles a named type with the origin-filtered member names
// collected for it.
type TypeFacts struct {
	Named   *types.Named
	Members MemberSet
}

// MemberSet mirrors synth.MemberSet; duplicated here (rather than
// imported) to keep collector free of a dependency on the synthesizer.
// internal/slice converts between the two when wiring collector's
// output into the synthesizer.
type MemberSet struct {
	Methods  map[string]bool
	SMethods map[string]bool
	Fields   map[string]bool
	Consts   map[string]bool
	HasCstr  bool
}

func newMemberSet() MemberSet {
	return MemberSet{
		Methods:  map[string]bool{},
		SMethods: map[string]bool{},
		Fields:   map[string]bool{},
		Consts:   map[string]bool{},
	}
}

// Collector drives collection and closure over a loaded Provider.
type Collector struct {
	provider *typeprovider.Provider

	set      map[depnode.Node]bool
	order    []depnode.Node // insertion order, for deterministic iteration in tests
	worklist []depnode.Node

	// banned holds the entry point's own node(s), permanently excluded
	// from the set: the entry's body is inlined verbatim, so it must
	// never also be resurrected as a synthesized stub. Unlike set,
	// membership here is never reverted.
	banned map[depnode.Node]bool
}

// New creates a Collector over provider.
func New(provider *typeprovider.Provider) *Collector {
	return &Collector{
		provider: provider,
		set:      map[depnode.Node]bool{},
		banned:   map[depnode.Node]bool{},
	}
}

// Collect runs the full collection + closure + grouping pipeline for entry.
func (c *Collector) Collect(entry depnode.EntryPoint) (*Result, error) {
	res := &Result{Types: map[string]*TypeFacts{}}

	switch entry.Kind {
	case depnode.EntryFunction:
		fn, ok := c.provider.LookupFunc(entry.PkgPath, entry.Name)
		if !ok {
			return nil, errs.NotFound("function %s not found", entry.String())
		}
		res.EntryPkg = entry.PkgPath
		res.EntryName = entry.Name
		res.EntryFunc = fn
		if pkg, ok := c.provider.Package(entry.PkgPath); ok {
			res.EntryDecl = findFuncDecl(pkg.Syntax, fn)
		}
		if err := c.collectFromFunc(entry.PkgPath, fn); err != nil {
			return nil, err
		}
		// Ban the entry point itself: the entry function's own body is
		// emitted verbatim, not synthesized as a stub, and must never be
		// re-added later by forceInterfaces or any other closure step.
		c.ban(depnode.Global(depnode.KindFunc, entry.PkgPath, entry.Name))
		c.ban(depnode.Global(depnode.KindFuncVal, entry.PkgPath, entry.Name))

	case depnode.EntryMember:
		tn, ok := c.provider.LookupType(entry.PkgPath, entry.TypeName)
		if !ok {
			return nil, errs.NotFound("type %s.%s not found", entry.PkgPath, entry.TypeName)
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			return nil, errs.UnexpectedDependency("entry type %s.%s is not a named type", entry.PkgPath, entry.TypeName)
		}
		target := typeprovider.Method(tn, entry.Method)
		if target == nil {
			return nil, errs.NotFound("method %s not found", entry.String())
		}
		res.EntryPkg = entry.PkgPath
		res.EntryOwnerType = entry.TypeName
		res.EntryName = entry.Method
		res.EntryIsMethod = true
		res.EntryFunc = target
		if pkg, ok := c.provider.Package(entry.PkgPath); ok {
			res.EntryDecl = findFuncDecl(pkg.Syntax, target)
		}

		// The owning type itself must exist in the slice to host the
		// inlined entry method, even if nothing else references it.
		c.add(depnode.TypeOnly(depnode.KindTypeDecl, entry.PkgPath, entry.TypeName))

		// "type-check the whole owning class": walk every method body.
		for i := 0; i < named.NumMethods(); i++ {
			m := named.Method(i)
			if err := c.collectFromFunc(entry.PkgPath, m); err != nil {
				return nil, err
			}
		}
		// Ban the entry point itself (Method/SMethod pair).
		c.ban(depnode.ClassBound(depnode.KindMethod, entry.PkgPath, entry.TypeName, entry.Method))
		c.ban(depnode.ClassBound(depnode.KindSMethod, entry.PkgPath, entry.TypeName, entry.Method))

	default:
		return nil, errs.InvalidInput("unrecognized entry point kind")
	}

	if err := c.closure(); err != nil {
		return nil, err
	}
	c.group(res)
	return res, nil
}

// ban permanently excludes n from the set: unlike a plain removal, a
// banned node can never be re-added by add, so it cannot be resurrected
// by a later closure pass.
func (c *Collector) ban(n depnode.Node) {
	c.banned[n] = true
	delete(c.set, n)
}

// add inserts n into the worklist, reporting whether it was newly
// added (false if n is banned or already present), so callers driving
// a fixed-point loop can tell real progress from a no-op.
func (c *Collector) add(n depnode.Node) bool {
	if c.banned[n] || c.set[n] {
		return false
	}
	c.set[n] = true
	c.order = append(c.order, n)
	c.worklist = append(c.worklist, n)
	return true
}

// collectFromFunc walks fn's syntax body, recording every package-level
// or class-bound object it references as a dependency edge target.
func (c *Collector) collectFromFunc(pkgPath string, fn *types.Func) error {
	pkg, ok := c.provider.Package(pkgPath)
	if !ok {
		return errs.UnexpectedDependency("package %s not loaded", pkgPath)
	}
	decl := findFuncDecl(pkg.Syntax, fn)
	if decl == nil || decl.Body == nil {
		return nil // no body to walk (e.g. assembly stub); nothing to collect
	}
	w := &edgeWalker{collector: c, info: pkg.TypesInfo, pkgPath: pkgPath}
	ast.Inspect(decl.Body, w.visit)
	return nil
}

// findFuncDecl locates the *ast.FuncDecl for fn by matching declared
// object identity against its recorded source position.
func findFuncDecl(files []*ast.File, fn *types.Func) *ast.FuncDecl {
	for _, f := range files {
		for _, decl := range f.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			if fd.Name.Pos() == fn.Pos() {
				return fd
			}
		}
	}
	return nil
}

// SortedTypeFQNs returns res.Types' keys sorted, used by the
// orchestrator and layout modules to emit deterministic output.
func SortedTypeFQNs(types map[string]*TypeFacts) []string {
	keys := make([]string, 0, len(types))
	for k := range types {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
