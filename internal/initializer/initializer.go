// Package initializer generates default-value expressions: given a
// declared go/types.Type, produce a source-level expression the Go
// type-checker accepts as a value of that type.
package initializer

import (
	"fmt"
	"go/types"
	"strings"

	"goslice/internal/errs"
	"goslice/internal/typeprint"
)

// Generator produces default-value expressions, recursing through
// composite types and picking the first declared constant as an enum's
// representative.
type Generator struct {
	printer *typeprint.Printer

	// enumConstsOf returns, for a named type, its associated
	// package-level constants in declaration order. Supplied by the
	// collector, which already has every package's constant scope
	// enumerated.
	enumConstsOf func(named *types.Named) []EnumConst
}

// EnumConst names one constant associated with an enum-like named type.
type EnumConst struct {
	QualifiedName string // e.g. "pkg.Red"
}

// New creates a Generator.
func New(printer *typeprint.Printer, enumConstsOf func(*types.Named) []EnumConst) *Generator {
	return &Generator{printer: printer, enumConstsOf: enumConstsOf}
}

// Default returns a Go expression evaluating to a valid value of t, or
// an Unsupported error for type kinds with no safe default (channels,
// complex numbers, unresolved type parameters).
func (g *Generator) Default(t types.Type) (string, error) {
	return g.def(t, 0)
}

const maxRecursionDepth = 64

func (g *Generator) def(t types.Type, depth int) (string, error) {
	if depth > maxRecursionDepth {
		return "", errs.Unsupported("type %s recurses too deeply to default", g.printer.FullDecl(t))
	}

	switch tt := t.(type) {
	case *types.Pointer:
		return "nil", nil

	case *types.Basic:
		return g.defaultBasic(tt)

	case *types.Slice:
		return fmt.Sprintf("%s{}", g.printer.FullDecl(t)), nil

	case *types.Map:
		return fmt.Sprintf("%s{}", g.printer.FullDecl(t)), nil

	case *types.Array:
		return fmt.Sprintf("%s{}", g.printer.FullDecl(t)), nil

	case *types.Chan:
		return "", errs.Unsupported("channel type %s has no safe default (resource kind, rejected)", g.printer.FullDecl(t))

	case *types.Interface:
		return "nil", nil

	case *types.TypeParam:
		return "", errs.Unsupported("unresolved type parameter %s (abstract kind, rejected)", tt.String())

	case *types.Named:
		return g.defaultNamed(tt, depth)

	case *types.Struct:
		return g.defaultAnonymousStruct(tt, depth)

	case *types.Signature:
		return "nil", nil

	default:
		return "", errs.Unsupported("no initializer rule for type kind %T (%s)", t, t.String())
	}
}

func (g *Generator) defaultBasic(b *types.Basic) (string, error) {
	switch b.Kind() {
	case types.Bool:
		return "false", nil
	case types.String:
		return `""`, nil
	case types.Complex64, types.Complex128:
		return "", errs.Unsupported("complex numeric kind %s is rejected (obscure primitive kind)", b.String())
	case types.Invalid:
		return "", errs.Unsupported("invalid/unknown type has no default")
	case types.UnsafePointer:
		return "", errs.Unsupported("unsafe.Pointer has no safe default (resource kind, rejected)")
	default:
		if b.Info()&types.IsFloat != 0 {
			return "0.0", nil
		}
		if b.Info()&types.IsInteger != 0 {
			return "0", nil
		}
		return "", errs.Unsupported("no initializer rule for basic kind %s", b.String())
	}
}

func (g *Generator) defaultNamed(named *types.Named, depth int) (string, error) {
	// reflect.Type (the classname<C> analogue).
	if isReflectType(named) {
		g.printer.Use("reflect", "reflect")
		return "reflect.TypeOf(nil)", nil
	}

	// Enum-like: underlying is integer/string and has associated
	// package-level constants.
	if isEnumUnderlying(named.Underlying()) {
		// enumConstsOf returns its constants in declaration order; the
		// first one is the chosen representative.
		if consts := g.enumConstsOf(named); len(consts) > 0 {
			return consts[0].QualifiedName, nil
		}
		// No associated constants: fall through to a literal zero of
		// the base type, since an enum-shaped type with nothing
		// declared on it is still just its underlying kind.
	}

	switch under := named.Underlying().(type) {
	case *types.Struct:
		return g.defaultStructLiteral(g.printer.FullDecl(named), under, depth)
	case *types.Basic:
		return g.defaultBasic(under)
	case *types.Slice, *types.Map, *types.Array, *types.Pointer, *types.Interface, *types.Signature, *types.Chan:
		return g.def(under, depth+1)
	default:
		return "", errs.Unsupported("no initializer rule for named type %s", named.String())
	}
}

func (g *Generator) defaultAnonymousStruct(st *types.Struct, depth int) (string, error) {
	return g.defaultStructLiteral(g.printer.FullDecl(st), st, depth)
}

// defaultStructLiteral builds "TypeText{Field: default, ...}", omitting
// pointer-typed fields entirely (they are already nil, so an optional
// field is simply left out) and skipping embedded fields (their zero
// value is implied by the outer literal).
func (g *Generator) defaultStructLiteral(typeText string, st *types.Struct, depth int) (string, error) {
	var parts []string
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Embedded() {
			continue
		}
		if _, isPtr := f.Type().(*types.Pointer); isPtr {
			continue // optional field: nil zero value, omit it
		}
		val, err := g.def(f.Type(), depth+1)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%s: %s", f.Name(), val))
	}
	return fmt.Sprintf("%s{%s}", typeText, strings.Join(parts, ", ")), nil
}

func isEnumUnderlying(t types.Type) bool {
	b, ok := t.(*types.Basic)
	if !ok {
		return false
	}
	return b.Info()&(types.IsInteger|types.IsString) != 0
}

func isReflectType(named *types.Named) bool {
	obj := named.Obj()
	pkg := obj.Pkg()
	return pkg != nil && pkg.Path() == "reflect" && obj.Name() == "Type"
}
