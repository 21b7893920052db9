package collector

import (
	"go/types"
	"sort"

	"goslice/internal/depnode"
)

// group performs the grouping phase: class-bound nodes fold into
// per-type MemberSets, AllMembers/Embeds (never constructed by this
// collection phase) are dropped, and every touched package is recorded
// for the namespace-layout stage.
func (c *Collector) group(res *Result) {
	pkgSeen := map[string]bool{}
	funcSeen := map[string]bool{} // dedupes Func/FuncVal referring to the same function
	touch := func(pkgPath string) {
		if pkgPath != "" && !pkgSeen[pkgPath] {
			pkgSeen[pkgPath] = true
			res.TouchedPackages = append(res.TouchedPackages, pkgPath)
		}
	}
	touch(res.EntryPkg)

	for _, n := range c.order {
		if !c.set[n] {
			continue // rewritten or removed during closure
		}
		switch n.Kind {
		case depnode.KindTypeDecl:
			c.typeFacts(res, n.OwnerPkg, n.OwnerType)
			touch(n.OwnerPkg)

		case depnode.KindMethod:
			tf := c.typeFacts(res, n.OwnerPkg, n.OwnerType)
			tf.Members.Methods[n.Member] = true
			touch(n.OwnerPkg)

		case depnode.KindSMethod:
			tf := c.typeFacts(res, n.OwnerPkg, n.OwnerType)
			tf.Members.SMethods[n.Member] = true
			touch(n.OwnerPkg)

		case depnode.KindField:
			tf := c.typeFacts(res, n.OwnerPkg, n.OwnerType)
			tf.Members.Fields[n.Member] = true
			touch(n.OwnerPkg)

		case depnode.KindConst:
			tf := c.typeFacts(res, n.OwnerPkg, n.OwnerType)
			tf.Members.Consts[n.Member] = true
			touch(n.OwnerPkg)

		case depnode.KindCstr:
			tf := c.typeFacts(res, n.OwnerPkg, n.OwnerType)
			tf.Members.HasCstr = true
			touch(n.OwnerPkg)

		case depnode.KindFunc, depnode.KindFuncVal:
			key := depnode.FQN(n.PkgPath, n.Name)
			if funcSeen[key] {
				continue
			}
			funcSeen[key] = true
			res.Globals = append(res.Globals, depnode.Global(depnode.KindFunc, n.PkgPath, n.Name))
			touch(n.PkgPath)

		case depnode.KindGConst, depnode.KindGVar:
			res.Globals = append(res.Globals, n)
			touch(n.PkgPath)

		case depnode.KindAllMembers, depnode.KindEmbeds, depnode.KindRecordDef, depnode.KindSField:
			// Dropped; never populated by this collector.
		}
	}

	sort.Strings(res.TouchedPackages)
}

func (c *Collector) typeFacts(res *Result, pkgPath, typeName string) *TypeFacts {
	key := depnode.FQN(pkgPath, typeName)
	if tf, ok := res.Types[key]; ok {
		return tf
	}
	tn, ok := c.provider.LookupType(pkgPath, typeName)
	var named *types.Named
	if ok {
		named, _ = tn.Type().(*types.Named)
	}
	tf := &TypeFacts{Named: named, Members: newMemberSet()}
	res.Types[key] = tf
	return tf
}
