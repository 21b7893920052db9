package collector

import (
	"go/types"
	"sort"

	"goslice/internal/depnode"
	"goslice/internal/errs"
	"goslice/internal/typeprovider"
)

// closure drains the worklist, walking each node's go/types signature to
// discover further nodes, then runs interface-forcing to a fixed point
// over Go's structural interfaces.
func (c *Collector) closure() error {
	for pass := 0; pass < maxClosurePasses; pass++ {
		if err := c.drainWorklist(); err != nil {
			return err
		}
		added, err := c.forceInterfaces()
		if err != nil {
			return err
		}
		if !added {
			return nil
		}
	}
	return errs.Unsupported("dependency closure did not converge after %d passes", maxClosurePasses)
}

const maxClosurePasses = 64

func (c *Collector) drainWorklist() error {
	for len(c.worklist) > 0 {
		n := c.worklist[0]
		c.worklist = c.worklist[1:]
		if !c.set[n] {
			continue // removed (e.g. the entry point itself) since being queued
		}
		if err := c.visitNode(n); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) visitNode(n depnode.Node) error {
	switch n.Kind {
	case depnode.KindFunc, depnode.KindFuncVal:
		fn, ok := c.provider.LookupFunc(n.PkgPath, n.Name)
		if !ok {
			return errs.DependencyNotFound(depnode.GlobalName(n))
		}
		c.visitSignature(fn.Type().(*types.Signature))

	case depnode.KindGConst:
		obj, ok := c.provider.LookupConstOrVar(n.PkgPath, n.Name)
		if !ok {
			return errs.DependencyNotFound(depnode.GlobalName(n))
		}
		c.visitType(obj.Type(), true)

	case depnode.KindGVar:
		obj, ok := c.provider.LookupConstOrVar(n.PkgPath, n.Name)
		if !ok {
			return errs.DependencyNotFound(depnode.GlobalName(n))
		}
		c.visitType(obj.Type(), false)

	case depnode.KindTypeDecl:
		return c.visitTypeDecl(n.OwnerPkg, n.OwnerType)

	case depnode.KindMethod, depnode.KindSMethod:
		return c.visitMethod(n)

	case depnode.KindField:
		return c.visitField(n)

	case depnode.KindConst:
		return c.visitConst(n)

	case depnode.KindCstr:
		return c.visitCstr(n)

	case depnode.KindAllMembers, depnode.KindEmbeds:
		// Closure drivers only, folded into the KindTypeDecl walk above in
		// this implementation (see DESIGN.md); never queued directly.
	}
	return nil
}

func (c *Collector) visitTypeDecl(pkgPath, name string) error {
	tn, ok := c.provider.LookupType(pkgPath, name)
	if !ok {
		return errs.DependencyNotFound(depnode.FQN(pkgPath, name))
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return errs.UnexpectedDependency("type %s is not named", depnode.FQN(pkgPath, name))
	}

	for i := 0; i < named.TypeParams().Len(); i++ {
		c.visitType(named.TypeParams().At(i).Constraint(), false)
	}

	switch u := named.Underlying().(type) {
	case *types.Struct:
		for i := 0; i < u.NumFields(); i++ {
			f := u.Field(i)
			if f.Embedded() {
				c.visitType(f.Type(), false) // ancestor
			}
		}
	case *types.Interface:
		for i := 0; i < u.NumEmbeddeds(); i++ {
			c.visitType(u.EmbeddedType(i), false)
		}
	}
	return nil
}

func (c *Collector) visitMethod(n depnode.Node) error {
	origin, err := typeprovider.Origin(c.provider, n.OwnerPkg, n.OwnerType, n.Member)
	if err != nil {
		return err
	}
	if origin != depnode.FQN(n.OwnerPkg, n.OwnerType) {
		// Promoted method: rewrite to the declaring ancestor, the
		// same rewrite applied to every method reached through
		// embedding.
		pkgPath, typeName := splitFQN(origin)
		delete(c.set, n)
		c.add(depnode.ClassBound(n.Kind, pkgPath, typeName, n.Member))
		return nil
	}

	c.add(depnode.TypeOnly(depnode.KindTypeDecl, n.OwnerPkg, n.OwnerType))
	tn, ok := c.provider.LookupType(n.OwnerPkg, n.OwnerType)
	if !ok {
		return errs.DependencyNotFound(depnode.TypeFQN(n))
	}
	fn := typeprovider.Method(tn, n.Member)
	if fn == nil {
		return errs.DependencyNotFound(depnode.TypeFQN(n) + "." + n.Member)
	}
	c.visitSignature(fn.Type().(*types.Signature))
	return nil
}

func (c *Collector) visitField(n depnode.Node) error {
	c.add(depnode.TypeOnly(depnode.KindTypeDecl, n.OwnerPkg, n.OwnerType))
	c.add(depnode.ClassBound(depnode.KindCstr, n.OwnerPkg, n.OwnerType, "New"+n.OwnerType))

	tn, ok := c.provider.LookupType(n.OwnerPkg, n.OwnerType)
	if !ok {
		return errs.DependencyNotFound(depnode.TypeFQN(n))
	}
	named := tn.Type().(*types.Named)
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return errs.UnexpectedDependency("field dependency on non-struct type %s", depnode.TypeFQN(n))
	}
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Name() == n.Member {
			c.visitType(f.Type(), false)
			return nil
		}
	}
	return errs.DependencyNotFound(depnode.TypeFQN(n) + "." + n.Member)
}

func (c *Collector) visitConst(n depnode.Node) error {
	c.add(depnode.TypeOnly(depnode.KindTypeDecl, n.OwnerPkg, n.OwnerType))
	pkg, ok := c.provider.Package(n.OwnerPkg)
	if !ok || pkg.Types == nil {
		return errs.DependencyNotFound(depnode.TypeFQN(n))
	}
	obj := pkg.Types.Scope().Lookup(n.Member)
	cst, ok := obj.(*types.Const)
	if !ok {
		return errs.DependencyNotFound(depnode.TypeFQN(n) + "." + n.Member)
	}
	c.visitType(cst.Type(), true)
	return nil
}

func (c *Collector) visitCstr(n depnode.Node) error {
	pkg, ok := c.provider.Package(n.OwnerPkg)
	if !ok || pkg.Types == nil {
		return errs.DependencyNotFound(depnode.TypeFQN(n))
	}
	obj := pkg.Types.Scope().Lookup(n.Member)
	fn, ok := obj.(*types.Func)
	if !ok {
		return nil // no existing constructor; the synthesized one takes no params
	}
	c.visitSignature(fn.Type().(*types.Signature))
	return nil
}

func (c *Collector) visitSignature(sig *types.Signature) {
	for i := 0; i < sig.Params().Len(); i++ {
		c.visitType(sig.Params().At(i).Type(), false)
	}
	for i := 0; i < sig.Results().Len(); i++ {
		c.visitType(sig.Results().At(i).Type(), false)
	}
	if tp := sig.TypeParams(); tp != nil {
		for i := 0; i < tp.Len(); i++ {
			c.visitType(tp.At(i).Constraint(), false)
		}
	}
}

// visitType is the general signature-walk visitor: it recurses through
// every composite type kind, adding a TypeDecl node for each in-project
// named type it encounters. constCtx requests also adding an enum
// representative, restricted to this call only: it never propagates
// into recursive sub-calls.
func (c *Collector) visitType(t types.Type, constCtx bool) {
	switch tt := t.(type) {
	case *types.Named:
		obj := tt.Obj()
		if obj.Pkg() == nil {
			return // universe type (error, comparable, ...)
		}
		if c.provider.IsBuiltin(obj.Pkg().Path()) {
			return // outside the module: already available, nothing to synthesize
		}
		c.add(depnode.TypeOnly(depnode.KindTypeDecl, obj.Pkg().Path(), obj.Name()))
		if constCtx && isEnumLikeBasic(tt.Underlying()) {
			if rep := c.firstEnumConst(obj.Pkg().Path(), obj.Name()); rep != "" {
				c.add(depnode.ClassBound(depnode.KindConst, obj.Pkg().Path(), obj.Name(), rep))
			}
		}
		for i := 0; i < tt.TypeArgs().Len(); i++ {
			c.visitType(tt.TypeArgs().At(i), false)
		}
		switch tt.Underlying().(type) {
		case *types.Struct, *types.Interface:
			// Ancestor walk happens when the TypeDecl node itself is
			// processed, not here.
		default:
			c.visitType(tt.Underlying(), false)
		}

	case *types.Pointer:
		c.visitType(tt.Elem(), false)
	case *types.Slice:
		c.visitType(tt.Elem(), false)
	case *types.Array:
		c.visitType(tt.Elem(), false)
	case *types.Map:
		c.visitType(tt.Key(), false)
		c.visitType(tt.Elem(), false)
	case *types.Chan:
		c.visitType(tt.Elem(), false)
	case *types.Struct:
		for i := 0; i < tt.NumFields(); i++ {
			c.visitType(tt.Field(i).Type(), false)
		}
	case *types.Interface:
		for i := 0; i < tt.NumExplicitMethods(); i++ {
			c.visitSignature(tt.ExplicitMethod(i).Type().(*types.Signature))
		}
		for i := 0; i < tt.NumEmbeddeds(); i++ {
			c.visitType(tt.EmbeddedType(i), false)
		}
	case *types.Signature:
		c.visitSignature(tt)
	case *types.TypeParam:
		c.visitType(tt.Constraint(), false)
	}
}

// firstEnumConst finds the declaration-order-first package-level
// constant of the named enum-like type ownerType, mirroring the
// initializer's own representative-choice rule.
func (c *Collector) firstEnumConst(pkgPath, ownerType string) string {
	pkg, ok := c.provider.Package(pkgPath)
	if !ok || pkg.Types == nil {
		return ""
	}
	scope := pkg.Types.Scope()
	var best *types.Const
	for _, name := range scope.Names() {
		cst, ok := scope.Lookup(name).(*types.Const)
		if !ok {
			continue
		}
		named, ok := cst.Type().(*types.Named)
		if !ok || named.Obj().Name() != ownerType {
			continue
		}
		if best == nil || cst.Pos() < best.Pos() {
			best = cst
		}
	}
	if best == nil {
		return ""
	}
	return best.Name()
}

// forceInterfaces implements the Ancestor Partitioning module's
// interface-forcing rule: every collected struct that structurally
// satisfies a collected interface must carry the methods it uses to
// satisfy it, even if nothing in the entry's body called them directly.
func (c *Collector) forceInterfaces() (bool, error) {
	structs, ifaces := c.collectedStructsAndInterfaces()
	added := false
	for _, st := range structs {
		for _, iface := range ifaces {
			if iface.Obj() == st.Obj() {
				continue
			}
			if !(types.Implements(st, iface.Underlying().(*types.Interface)) ||
				types.Implements(types.NewPointer(st), iface.Underlying().(*types.Interface))) {
				continue
			}
			im := iface.Underlying().(*types.Interface)
			for i := 0; i < im.NumMethods(); i++ {
				mname := im.Method(i).Name()
				origin, err := typeprovider.Origin(c.provider, st.Obj().Pkg().Path(), st.Obj().Name(), mname)
				if err != nil || origin != depnode.FQN(st.Obj().Pkg().Path(), st.Obj().Name()) {
					continue // not provided directly by st itself
				}
				fn := typeprovider.Method(st.Obj(), mname)
				if fn == nil {
					continue
				}
				kind := depnode.KindSMethod
				if isPointerReceiver(fn) {
					kind = depnode.KindMethod
				}
				node := depnode.ClassBound(kind, st.Obj().Pkg().Path(), st.Obj().Name(), mname)
				if c.add(node) {
					added = true
				}
			}
		}
	}
	return added, nil
}

func (c *Collector) collectedStructsAndInterfaces() (structs, ifaces []*types.Named) {
	for n := range c.set {
		if n.Kind != depnode.KindTypeDecl {
			continue
		}
		tn, ok := c.provider.LookupType(n.OwnerPkg, n.OwnerType)
		if !ok {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}
		switch named.Underlying().(type) {
		case *types.Struct:
			structs = append(structs, named)
		case *types.Interface:
			ifaces = append(ifaces, named)
		}
	}
	namedKey := func(n *types.Named) string { return depnode.FQN(n.Obj().Pkg().Path(), n.Obj().Name()) }
	sort.Slice(structs, func(i, j int) bool { return namedKey(structs[i]) < namedKey(structs[j]) })
	sort.Slice(ifaces, func(i, j int) bool { return namedKey(ifaces[i]) < namedKey(ifaces[j]) })
	return structs, ifaces
}

func splitFQN(fqn string) (pkgPath, name string) {
	idx := lastDot(fqn)
	if idx < 0 {
		return "", fqn
	}
	return fqn[:idx], fqn[idx+1:]
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}
