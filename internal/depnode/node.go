// Package depnode defines the dependency graph's node shapes and the
// pure classification helpers over them.
//
// A Node is a tagged variant carrying a Kind discriminator rather than
// being split across several named struct types. Global nodes are
// identified by package path + name; class-bound nodes additionally
// carry the owning named type.
package depnode

import "fmt"

// Kind discriminates the variants of Node.
type Kind int

const (
	// Global nodes, identified by package path + name.
	KindTypeDecl Kind = iota // named struct/interface type
	KindFunc                 // function called directly
	KindFuncVal              // function referenced as a value
	KindGConst               // package-level const
	KindGVar                 // package-level var
	KindRecordDef            // reserved; never synthesized (see spec)

	// Class-bound nodes, additionally carrying OwnerType.
	KindMethod     // pointer-receiver method
	KindSMethod    // value-receiver method ("static" analogue)
	KindField      // struct field
	KindSField     // reserved; never constructed in Go (see spec)
	KindConst      // member of an enum-like const block
	KindCstr       // conventional NewX constructor function
	KindAllMembers // closure driver only, dropped after grouping
	KindEmbeds     // closure driver only, dropped after grouping
)

var kindNames = map[Kind]string{
	KindTypeDecl:   "TypeDecl",
	KindFunc:       "Func",
	KindFuncVal:    "FuncVal",
	KindGConst:     "GConst",
	KindGVar:       "GVar",
	KindRecordDef:  "RecordDef",
	KindMethod:     "Method",
	KindSMethod:    "SMethod",
	KindField:      "Field",
	KindSField:     "SField",
	KindConst:      "Const",
	KindCstr:       "Cstr",
	KindAllMembers: "AllMembers",
	KindEmbeds:     "Embeds",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is a single element of the program's dependency graph. Global
// variants populate PkgPath+Name; class-bound variants, and TypeDecl,
// populate OwnerPkg+OwnerType instead (and leave PkgPath empty: the
// owner type is the identity that matters for them).
type Node struct {
	Kind Kind

	// Global identity.
	PkgPath string
	Name    string

	// Class-bound identity. OwnerType is the bare type name; OwnerPkg is
	// the package declaring it.
	OwnerPkg  string
	OwnerType string
	Member    string
}

// Global constructs a global Node.
func Global(kind Kind, pkgPath, name string) Node {
	return Node{Kind: kind, PkgPath: pkgPath, Name: name}
}

// ClassBound constructs a class-bound Node.
func ClassBound(kind Kind, ownerPkg, ownerType, member string) Node {
	return Node{Kind: kind, OwnerPkg: ownerPkg, OwnerType: ownerType, Member: member}
}

// TypeOnly constructs a TypeDecl/AllMembers/Embeds node, which is
// identified by the type alone (Member is unused).
func TypeOnly(kind Kind, pkgPath, name string) Node {
	return Node{Kind: kind, OwnerPkg: pkgPath, OwnerType: name}
}

// IsClassDependency reports whether n carries an owning class.
func IsClassDependency(n Node) bool {
	switch n.Kind {
	case KindMethod, KindSMethod, KindField, KindSField, KindConst, KindCstr,
		KindAllMembers, KindEmbeds, KindTypeDecl:
		return n.OwnerType != "" || n.Kind == KindTypeDecl
	}
	return false
}

// OwnerClass returns the class-bound node's owning type's fully
// qualified name ("pkgPath.TypeName"). It panics on a non-class-bound
// node.
func OwnerClass(n Node) string {
	if !IsClassDependency(n) {
		panic(fmt.Sprintf("depnode: OwnerClass called on non-class-bound node %s", n.Kind))
	}
	return FQN(n.OwnerPkg, n.OwnerType)
}

// GlobalName returns the global node's fully qualified name. It panics
// on a class-bound node.
func GlobalName(n Node) string {
	if IsClassDependency(n) {
		panic(fmt.Sprintf("depnode: GlobalName called on class-bound node %s", n.Kind))
	}
	return FQN(n.PkgPath, n.Name)
}

// FQN joins a package path and a bare name into the dotted key every
// lookup table in this package uses.
func FQN(pkgPath, name string) string {
	return pkgPath + "." + name
}

// TypeFQN returns the fully qualified name of the class-bound node's
// owning type.
func TypeFQN(n Node) string {
	return FQN(n.OwnerPkg, n.OwnerType)
}

// Key returns the string the decl table and the grouping maps use to
// key this node: the owning type's FQN for class-bound nodes, the
// node's own FQN for globals.
func Key(n Node) string {
	if IsClassDependency(n) {
		return TypeFQN(n)
	}
	return GlobalName(n)
}
