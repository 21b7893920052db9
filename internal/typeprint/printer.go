// Package typeprint is a thin, memoized wrapper over go/types' own
// stringifier, used by the synthesizer to render declared types into
// source text.
package typeprint

import (
	"go/types"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Printer renders types.Type values to Go source text, qualifying
// package-external names by their package's short name. A Printer is
// scoped to one emitted file's package (currentPkg): references to
// that package print unqualified, everything else gets its short name.
// Every package a Printer ends up qualifying is recorded in used, so a
// caller can later ask exactly which imports the rendered file needs.
type Printer struct {
	slicePkgs  map[string]string // pkgPath -> short name, for packages in the slice
	currentPkg string
	cache      *lru.Cache[types.Type, string]
	used       map[string]string // pkgPath -> the import name it was qualified under
}

// New creates a Printer scoped to currentPkg. slicePkgs maps every
// package path touched by the current extraction to the short
// identifier it will be imported under in the emitted stub files.
func New(slicePkgs map[string]string, currentPkg string) *Printer {
	cache, _ := lru.New[types.Type, string](4096)
	return &Printer{slicePkgs: slicePkgs, currentPkg: currentPkg, cache: cache, used: map[string]string{}}
}

func (p *Printer) qualifier(pkg *types.Package) string {
	if pkg == nil || pkg.Path() == p.currentPkg {
		return ""
	}
	if short, ok := p.slicePkgs[pkg.Path()]; ok {
		p.Use(pkg.Path(), short)
		return short
	}
	p.Use(pkg.Path(), pkg.Name())
	return pkg.Name()
}

// Use records that rendered output references pkgPath under the given
// import name, for callers that emit a qualified reference without
// going through FullDecl or Qualify (e.g. the initializer's
// reflect.TypeOf fallback).
func (p *Printer) Use(pkgPath, name string) {
	p.used[pkgPath] = name
}

// Used returns every package path this Printer has qualified a type or
// identifier reference into, mapped to the import name it was
// qualified under.
func (p *Printer) Used() map[string]string {
	return p.used
}

// Qualify renders a package-level identifier (a constant or variable
// name) the way FullDecl renders a type from the same package:
// unqualified within its own package, prefixed with its short name
// otherwise.
func (p *Printer) Qualify(pkg *types.Package, name string) string {
	if q := p.qualifier(pkg); q != "" {
		return q + "." + name
	}
	return name
}

// FullDecl renders t as a complete, self-contained type expression.
func (p *Printer) FullDecl(t types.Type) string {
	if t == nil {
		return ""
	}
	if s, ok := p.cache.Get(t); ok {
		return s
	}
	s := types.TypeString(t, p.qualifier)
	p.cache.Add(t, s)
	return s
}

// IsUnknown reports whether t is the untyped/invalid placeholder Go's
// checker uses for unresolved expressions; callers use this to suppress
// an explicit return-type annotation.
func IsUnknown(t types.Type) bool {
	basic, ok := t.(*types.Basic)
	return ok && basic.Kind() == types.Invalid
}
