package collector

import (
	"go/ast"
	"go/types"

	"goslice/internal/depnode"
)

// edgeWalker implements the collection phase's edge recording: for every
// identifier or selector in a function body that resolves to a
// package-level or class-bound object, it records a dependency node
// target.
type edgeWalker struct {
	collector *Collector
	info      *types.Info
	pkgPath   string

	handled map[*ast.Ident]bool
}

func (w *edgeWalker) visit(n ast.Node) bool {
	switch expr := n.(type) {
	case *ast.CallExpr:
		switch fun := expr.Fun.(type) {
		case *ast.Ident:
			w.mark(fun)
			w.visitIdent(fun, true)
		case *ast.SelectorExpr:
			if _, isSel := w.info.Selections[fun]; !isSel {
				// Qualified call pkg.F(...): a direct call, not a value.
				w.mark(fun.Sel)
				w.visitIdent(fun.Sel, true)
			}
		}
	case *ast.SelectorExpr:
		w.visitSelector(expr)
	case *ast.Ident:
		if w.handled != nil && w.handled[expr] {
			return true
		}
		w.visitIdent(expr, false)
	}
	return true
}

func (w *edgeWalker) mark(id *ast.Ident) {
	if w.handled == nil {
		w.handled = map[*ast.Ident]bool{}
	}
	w.handled[id] = true
}

func (w *edgeWalker) visitSelector(sel *ast.SelectorExpr) {
	selection, ok := w.info.Selections[sel]
	if !ok {
		// Qualified identifier (pkg.Name), not a value selection; let the
		// plain *ast.Ident visit of sel.Sel handle it via info.Uses.
		return
	}

	recvType := selection.Recv()
	owner, ownerPkg := namedOwnerOf(recvType)
	if owner == "" {
		return // receiver is not a named type we can track (e.g. a map, a builtin)
	}
	if w.collector.provider.IsBuiltin(ownerPkg) {
		return // outside the module: already available, nothing to synthesize
	}

	switch selection.Kind() {
	case types.MethodVal, types.MethodExpr:
		fn, ok := selection.Obj().(*types.Func)
		if !ok {
			return
		}
		if isPointerReceiver(fn) {
			w.collector.add(depnode.ClassBound(depnode.KindMethod, ownerPkg, owner, fn.Name()))
		} else {
			w.collector.add(depnode.ClassBound(depnode.KindSMethod, ownerPkg, owner, fn.Name()))
		}
	case types.FieldVal:
		f, ok := selection.Obj().(*types.Var)
		if !ok {
			return
		}
		w.collector.add(depnode.ClassBound(depnode.KindField, ownerPkg, owner, f.Name()))
	}

	// Mark sel.Sel as already handled so the plain *ast.Ident visitor
	// does not double-record it as a package-level reference.
	w.mark(sel.Sel)
}

func (w *edgeWalker) visitIdent(id *ast.Ident, fromCall bool) {
	obj := w.info.Uses[id]
	if obj == nil || obj.Pkg() == nil {
		return // predeclared identifier (builtin, nil, true/false, ...)
	}
	if w.collector.provider.IsBuiltin(obj.Pkg().Path()) {
		return // outside the module: already available, nothing to synthesize
	}

	switch o := obj.(type) {
	case *types.Func:
		if o.Type().(*types.Signature).Recv() != nil {
			return // method reached via a bound method value; handled elsewhere
		}
		if fromCall {
			w.collector.add(depnode.Global(depnode.KindFunc, o.Pkg().Path(), o.Name()))
		} else {
			w.collector.add(depnode.Global(depnode.KindFuncVal, o.Pkg().Path(), o.Name()))
		}

	case *types.TypeName:
		w.addTypeRef(o)

	case *types.Const:
		w.addConstRef(o)

	case *types.Var:
		if o.IsField() {
			return // field access without a known struct selector context; ignore
		}
		if isPkgLevel(o) {
			w.collector.add(depnode.Global(depnode.KindGVar, o.Pkg().Path(), o.Name()))
		}
	}
}

// addTypeRef records a reference to a named type used directly as a
// type expression (var declarations, type assertions, composite
// literals, generic instantiation arguments).
func (w *edgeWalker) addTypeRef(tn *types.TypeName) {
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return // builtin/predeclared type name
	}
	if tn.Pkg() == nil {
		return
	}
	if w.collector.provider.IsBuiltin(tn.Pkg().Path()) {
		return // outside the module: already available, nothing to synthesize
	}
	w.collector.add(depnode.TypeOnly(depnode.KindTypeDecl, tn.Pkg().Path(), named.Obj().Name()))
}

// addConstRef records a reference to a constant, splitting between
// package-level (GConst) and enum-member (Const) so a global constant
// is distinguished from a class constant.
func (w *edgeWalker) addConstRef(c *types.Const) {
	if c.Pkg() == nil {
		return
	}
	if w.collector.provider.IsBuiltin(c.Pkg().Path()) {
		return // outside the module: already available, nothing to synthesize
	}
	if named, ok := c.Type().(*types.Named); ok && isEnumLikeBasic(named.Underlying()) {
		w.collector.add(depnode.ClassBound(depnode.KindConst, named.Obj().Pkg().Path(), named.Obj().Name(), c.Name()))
		return
	}
	w.collector.add(depnode.Global(depnode.KindGConst, c.Pkg().Path(), c.Name()))
}

func isEnumLikeBasic(t types.Type) bool {
	b, ok := t.(*types.Basic)
	if !ok {
		return false
	}
	return b.Info()&(types.IsInteger|types.IsString) != 0
}

func isPkgLevel(v *types.Var) bool {
	return v.Pkg() != nil && !v.IsField() && v.Parent() == v.Pkg().Scope()
}

func isPointerReceiver(fn *types.Func) bool {
	recv := fn.Type().(*types.Signature).Recv()
	if recv == nil {
		return false
	}
	_, ok := recv.Type().(*types.Pointer)
	return ok
}

// namedOwnerOf strips one layer of pointer indirection and reports the
// receiver's named-type owner, if any.
func namedOwnerOf(t types.Type) (name, pkgPath string) {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	if !ok {
		return "", ""
	}
	obj := named.Obj()
	if obj.Pkg() == nil {
		return "", ""
	}
	return obj.Name(), obj.Pkg().Path()
}
