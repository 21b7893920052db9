// Package typeprovider wraps golang.org/x/tools/go/packages + go/types
// into a single load that produces both the fully type-checked packages
// and the scope lookups the rest of the pipeline needs, generalized into
// a reusable, queryable object instead of a one-shot collector pass.
package typeprovider

import (
	"fmt"
	"go/types"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/tools/go/packages"

	"goslice/internal/errs"
)

const providerLoadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedDeps | packages.NeedTypes |
	packages.NeedSyntax | packages.NeedTypesInfo | packages.NeedTypesSizes | packages.NeedModule

// Provider answers type-decl and builtin-classification queries against
// a loaded set of packages, scoped to a single module root.
type Provider struct {
	ModulePath string
	Dir        string

	pkgs    []*packages.Package
	byPath  map[string]*packages.Package
	builtin *lru.Cache[string, bool]
}

// Load resolves the module at dir and type-checks every package under
// it via a single packages.Load(cfg, "./...") call.
func Load(dir, modulePath string) (*Provider, error) {
	cfg := &packages.Config{
		Mode: providerLoadMode,
		Dir:  dir,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, errs.NotFound("failed to load packages under %s: %v", dir, err)
	}
	if n := packages.PrintErrors(pkgs); n > 0 {
		// Non-fatal: a handful of unrelated packages failing to build
		// should not prevent extracting an entry point that does build.
	}

	cache, _ := lru.New[string, bool](4096)
	p := &Provider{
		ModulePath: modulePath,
		Dir:        dir,
		pkgs:       pkgs,
		byPath:     make(map[string]*packages.Package),
		builtin:    cache,
	}
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		p.byPath[pkg.PkgPath] = pkg
	})
	return p, nil
}

// Package returns the loaded *packages.Package for pkgPath, if any.
func (p *Provider) Package(pkgPath string) (*packages.Package, bool) {
	pkg, ok := p.byPath[pkgPath]
	return pkg, ok
}

// IsProjectPackage reports whether pkgPath belongs to the analyzed
// module.
func (p *Provider) IsProjectPackage(pkgPath string) bool {
	return pkgPath == p.ModulePath || strings.HasPrefix(pkgPath, p.ModulePath+"/")
}

// IsBuiltin reports whether pkgPath is outside the analyzed module.
// Results are memoized since the same package path is asked about
// repeatedly during a single extraction's closure walk.
func (p *Provider) IsBuiltin(pkgPath string) bool {
	if v, ok := p.builtin.Get(pkgPath); ok {
		return v
	}
	v := !p.IsProjectPackage(pkgPath)
	p.builtin.Add(pkgPath, v)
	return v
}

// LookupType returns the *types.TypeName for a named type declared
// directly in pkgPath.
func (p *Provider) LookupType(pkgPath, name string) (*types.TypeName, bool) {
	pkg, ok := p.byPath[pkgPath]
	if !ok || pkg.Types == nil {
		return nil, false
	}
	obj := pkg.Types.Scope().Lookup(name)
	tn, ok := obj.(*types.TypeName)
	return tn, ok
}

// LookupFunc returns the *types.Func for a package-level function.
func (p *Provider) LookupFunc(pkgPath, name string) (*types.Func, bool) {
	pkg, ok := p.byPath[pkgPath]
	if !ok || pkg.Types == nil {
		return nil, false
	}
	obj := pkg.Types.Scope().Lookup(name)
	fn, ok := obj.(*types.Func)
	return fn, ok
}

// LookupConstOrVar returns the *types.Const or *types.Var for a
// package-level const/var.
func (p *Provider) LookupConstOrVar(pkgPath, name string) (types.Object, bool) {
	pkg, ok := p.byPath[pkgPath]
	if !ok || pkg.Types == nil {
		return nil, false
	}
	obj := pkg.Types.Scope().Lookup(name)
	switch obj.(type) {
	case *types.Const, *types.Var:
		return obj, true
	default:
		return nil, false
	}
}

// Method looks up a method declared directly on the named type tn
// (searching tn's method set, not a promoted embedded one), returning
// nil if tn declares no such method itself.
func Method(tn *types.TypeName, name string) *types.Func {
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil
	}
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// Origin reports the FQN of the type that first declared member among
// ownerType's ancestors. A class-bound node whose origin differs from
// its owning class is omitted from the closure: for Go, the origin of a
// directly-declared method or field is the type itself; for a promoted
// (embedded) method it is the embedded ancestor. Promoted fields are not
// resolved: Origin returns a DependencyNotFound error for them.
// ownerPkgPath/ownerType name the type being asked about, member the
// method or field name.
func Origin(p *Provider, ownerPkgPath, ownerType, member string) (string, error) {
	tn, ok := p.LookupType(ownerPkgPath, ownerType)
	if !ok {
		return "", errs.DependencyNotFound(fmt.Sprintf("%s.%s", ownerPkgPath, ownerType))
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return "", errs.UnexpectedDependency("origin lookup on non-named type %s.%s", ownerPkgPath, ownerType)
	}

	// Directly declared method?
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if m.Name() == member {
			recv := m.Type().(*types.Signature).Recv()
			if recv != nil {
				return fqnOfReceiver(recv), nil
			}
			return fmt.Sprintf("%s.%s", ownerPkgPath, ownerType), nil
		}
	}

	// Directly declared field?
	if st, ok := named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if f.Name() == member && !f.Embedded() {
				return fmt.Sprintf("%s.%s", ownerPkgPath, ownerType), nil
			}
		}
	}

	// Fall back: resolve via the pointer method set, which walks
	// embeddings and reports the promoted method's real owner.
	if mset := types.NewMethodSet(types.NewPointer(named)); mset != nil {
		for i := 0; i < mset.Len(); i++ {
			sel := mset.At(i)
			if sel.Obj().Name() == member {
				recv := sel.Obj().Type().(*types.Signature).Recv()
				if recv != nil {
					return fqnOfReceiver(recv), nil
				}
			}
		}
	}

	return "", errs.DependencyNotFound(fmt.Sprintf("%s.%s.%s", ownerPkgPath, ownerType, member))
}

func fqnOfReceiver(recv *types.Var) string {
	t := recv.Type()
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	if named, ok := t.(*types.Named); ok {
		obj := named.Obj()
		if pkg := obj.Pkg(); pkg != nil {
			return fmt.Sprintf("%s.%s", pkg.Path(), obj.Name())
		}
	}
	return t.String()
}
