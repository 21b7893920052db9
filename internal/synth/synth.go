// Package synth implements the declaration synthesizer: for every
// dependency kind collected by internal/collector, emit a syntactically
// valid Go declaration whose body panics with an Unimplemented value
// rather than doing real work.
package synth

import (
	"fmt"
	"go/types"
	"sort"
	"strings"

	"goslice/internal/errs"
	"goslice/internal/initializer"
	"goslice/internal/typeprint"
)

// DefaultFactoryHelper is emitted into every touched package whose
// rendered body actually calls Unimplemented or DefaultFactory, giving
// each package its own self-contained synthetic default-value helper
// rather than an import into a shared one.
const DefaultFactoryHelper = `// DefaultFactory stands in for any value the synthesized stubs need but
// cannot construct for real; every call panics.
func DefaultFactory[T any]() T {
	panic(Unimplemented("synthesized default value"))
}

// Unimplemented marks a call into a stub body that was never meant to run.
type Unimplemented string

func (u Unimplemented) Error() string { return "unimplemented: " + string(u) }
`

// Synthesizer emits declaration text for dependency nodes, using printer
// to render types and gen to produce default-value expressions.
type Synthesizer struct {
	printer *typeprint.Printer
	gen     *initializer.Generator
}

// New creates a Synthesizer.
func New(printer *typeprint.Printer, gen *initializer.Generator) *Synthesizer {
	return &Synthesizer{printer: printer, gen: gen}
}

// Printer returns the type printer this Synthesizer renders through, so
// a caller can collect which packages it ended up qualifying and build
// an accurate import list for the file it wrote into.
func (s *Synthesizer) Printer() *typeprint.Printer {
	return s.printer
}

// MemberSet names the class-bound members of a type that survived
// collection and origin-filtering; the Synthesizer only emits what is
// named here (plus the type's real embedded ancestors, which are
// structural facts rather than collected nodes).
type MemberSet struct {
	Methods  map[string]bool // pointer-receiver
	SMethods map[string]bool // value-receiver
	Fields   map[string]bool
	Consts   map[string]bool
	HasCstr  bool
}

func NewMemberSet() MemberSet {
	return MemberSet{
		Methods:  map[string]bool{},
		SMethods: map[string]bool{},
		Fields:   map[string]bool{},
		Consts:   map[string]bool{},
	}
}

// Func synthesizes a package-level function or "referenced as a value"
// function declaration.
func (s *Synthesizer) Func(fn *types.Func) (string, error) {
	sig := fn.Type().(*types.Signature)
	if sig.Recv() != nil {
		return "", errs.UnexpectedDependency("Func synthesis called on method %s", fn.FullName())
	}
	params, err := s.paramList(sig)
	if err != nil {
		return "", err
	}
	rets := s.resultList(sig)
	tparams := ""
	if tp := sig.TypeParams(); tp != nil && tp.Len() > 0 {
		var ps []string
		for i := 0; i < tp.Len(); i++ {
			ps = append(ps, tp.At(i).Obj().Name()+" "+s.printer.FullDecl(tp.At(i).Constraint()))
		}
		tparams = "[" + strings.Join(ps, ", ") + "]"
	}
	body := fmt.Sprintf("panic(Unimplemented(%q))", fn.Pkg().Path()+"."+fn.Name())
	return fmt.Sprintf("func %s%s(%s)%s {\n\t%s\n}\n", fn.Name(), tparams, params, rets, body), nil
}

// Method synthesizes a method declaration. pointerRecv selects between
// the Method (pointer receiver) and SMethod (value receiver) spelling.
func (s *Synthesizer) Method(fn *types.Func, recvTypeText, recvVar string, pointerRecv bool) (string, error) {
	sig := fn.Type().(*types.Signature)
	params, err := s.paramList(sig)
	if err != nil {
		return "", err
	}
	rets := s.resultList(sig)
	recv := recvTypeText
	if pointerRecv {
		recv = "*" + recvTypeText
	}
	body := fmt.Sprintf("panic(Unimplemented(%q))", recvTypeText+"."+fn.Name())
	return fmt.Sprintf("func (%s %s) %s(%s)%s {\n\t%s\n}\n", recvVar, recv, fn.Name(), params, rets, body), nil
}

func (s *Synthesizer) paramList(sig *types.Signature) (string, error) {
	var parts []string
	n := sig.Params().Len()
	for i := 0; i < n; i++ {
		p := sig.Params().At(i)
		name := p.Name()
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		typ := p.Type()
		if sig.Variadic() && i == n-1 {
			if sl, ok := typ.(*types.Slice); ok {
				parts = append(parts, fmt.Sprintf("%s ...%s", name, s.printer.FullDecl(sl.Elem())))
				continue
			}
		}
		parts = append(parts, fmt.Sprintf("%s %s", name, s.printer.FullDecl(typ)))
	}
	return strings.Join(parts, ", "), nil
}

func (s *Synthesizer) resultList(sig *types.Signature) string {
	n := sig.Results().Len()
	if n == 0 {
		return ""
	}
	if n == 1 && sig.Results().At(0).Name() == "" {
		t := sig.Results().At(0).Type()
		if typeprint.IsUnknown(t) {
			return ""
		}
		return " " + s.printer.FullDecl(t)
	}
	var parts []string
	for i := 0; i < n; i++ {
		r := sig.Results().At(i)
		if r.Name() != "" {
			parts = append(parts, fmt.Sprintf("%s %s", r.Name(), s.printer.FullDecl(r.Type())))
		} else {
			parts = append(parts, s.printer.FullDecl(r.Type()))
		}
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// GConst synthesizes a package-level const declaration. An untyped
// constant is declared with its default type (untyped string as string).
func (s *Synthesizer) GConst(name string, t types.Type) (string, error) {
	t = types.Default(t)
	val, err := s.gen.Default(t)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("const %s %s = %s\n", name, s.printer.FullDecl(t), val), nil
}

// GVar synthesizes a package-level var declaration.
func (s *Synthesizer) GVar(name string, t types.Type) (string, error) {
	val, err := s.gen.Default(t)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("var %s %s = %s\n", name, s.printer.FullDecl(t), val), nil
}

// EnumDecl synthesizes an enum-like named type plus its const block, one
// entry per collected Const member, each initialized with the base
// type's own default rather than a self-reference, followed by any
// methods collected on it (e.g. forced by forceInterfaces when the
// enum satisfies a sliced interface).
func (s *Synthesizer) EnumDecl(named *types.Named, members MemberSet) (string, error) {
	base, ok := named.Underlying().(*types.Basic)
	if !ok {
		return "", errs.UnexpectedDependency("EnumDecl called on non-basic-underlying type %s", named.String())
	}
	baseDefault, err := s.gen.Default(base)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "type %s %s\n\nconst (\n", named.Obj().Name(), base.String())
	names := sortedKeys(members.Consts)
	for _, name := range names {
		fmt.Fprintf(&sb, "\t%s %s = %s\n", name, named.Obj().Name(), baseDefault)
	}
	sb.WriteString(")\n")

	methodText, err := s.methodsFor(named, members)
	if err != nil {
		return "", err
	}
	sb.WriteString(methodText)

	return sb.String(), nil
}

// TypeDecl synthesizes a struct or interface declaration, including the
// type's real embedded ancestors (a structural fact, always present)
// plus only the collected, origin-filtered members.
func (s *Synthesizer) TypeDecl(named *types.Named, members MemberSet) (string, error) {
	switch under := named.Underlying().(type) {
	case *types.Struct:
		return s.structDecl(named, under, members)
	case *types.Interface:
		return s.interfaceDecl(named, under, members)
	default:
		return "", errs.Unsupported("type %s has unsupported underlying kind %T for declaration synthesis", named.String(), under)
	}
}

// PlainTypeDecl synthesizes a bare newtype declaration ("type Name
// Underlying") for a named type whose underlying kind is neither
// struct nor interface and which is not emitted as an enum: e.g. a
// defined slice, map, or function type, or a basic type with no
// collected constants. Go's transparent aliases (type A = B) never reach
// here; go/types resolves them away before this package ever sees them.
func (s *Synthesizer) PlainTypeDecl(named *types.Named) (string, error) {
	return fmt.Sprintf("type %s %s\n", named.Obj().Name(), s.printer.FullDecl(named.Underlying())), nil
}

func (s *Synthesizer) structDecl(named *types.Named, st *types.Struct, members MemberSet) (string, error) {
	name := named.Obj().Name()
	var body strings.Builder

	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Embedded() {
			fmt.Fprintf(&body, "\t%s\n", s.printer.FullDecl(f.Type()))
			continue
		}
		if !members.Fields[f.Name()] {
			continue
		}
		fmt.Fprintf(&body, "\t%s %s\n", f.Name(), s.printer.FullDecl(f.Type()))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "type %s struct {\n%s}\n", name, body.String())

	methodText, err := s.methodsFor(named, members)
	if err != nil {
		return "", err
	}
	sb.WriteString(methodText)

	cstrText, err := s.constructorFor(named, st, members)
	if err != nil {
		return "", err
	}
	sb.WriteString(cstrText)

	return sb.String(), nil
}

func (s *Synthesizer) interfaceDecl(named *types.Named, iface *types.Interface, members MemberSet) (string, error) {
	name := named.Obj().Name()
	var body strings.Builder

	for i := 0; i < iface.NumEmbeddeds(); i++ {
		fmt.Fprintf(&body, "\t%s\n", s.printer.FullDecl(iface.EmbeddedType(i)))
	}

	names := append(sortedKeys(members.Methods), sortedKeys(members.SMethods)...)
	sort.Strings(names)
	seen := map[string]bool{}
	for _, mname := range names {
		if seen[mname] {
			continue
		}
		seen[mname] = true
		m := lookupInterfaceMethod(iface, mname)
		if m == nil {
			continue
		}
		sig := m.Type().(*types.Signature)
		params, err := s.paramList(sig)
		if err != nil {
			return "", err
		}
		rets := s.resultList(sig)
		fmt.Fprintf(&body, "\t%s(%s)%s\n", mname, params, rets)
	}

	return fmt.Sprintf("type %s interface {\n%s}\n", name, body.String()), nil
}

func (s *Synthesizer) methodsFor(named *types.Named, members MemberSet) (string, error) {
	name := named.Obj().Name()
	var sb strings.Builder
	for _, mname := range sortedKeys(members.Methods) {
		fn := lookupMethod(named, mname)
		if fn == nil {
			return "", errs.DependencyNotFound(fmt.Sprintf("%s.%s", name, mname))
		}
		text, err := s.Method(fn, name, receiverVar(name), true)
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}
	for _, mname := range sortedKeys(members.SMethods) {
		fn := lookupMethod(named, mname)
		if fn == nil {
			return "", errs.DependencyNotFound(fmt.Sprintf("%s.%s", name, mname))
		}
		text, err := s.Method(fn, name, receiverVar(name), false)
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// constructorFor synthesizes NewX when the type has any Field in the
// dependency set, assigning each via DefaultFactory.
func (s *Synthesizer) constructorFor(named *types.Named, st *types.Struct, members MemberSet) (string, error) {
	if !members.HasCstr || len(members.Fields) == 0 {
		return "", nil
	}
	name := named.Obj().Name()
	var assigns []string
	for i := 0; i < st.NumFields(); i++ {
		f := st.Field(i)
		if f.Embedded() || !members.Fields[f.Name()] {
			continue
		}
		assigns = append(assigns, fmt.Sprintf("%s: DefaultFactory[%s]()", f.Name(), s.printer.FullDecl(f.Type())))
	}
	sort.Strings(assigns)
	return fmt.Sprintf("func New%s() *%s {\n\treturn &%s{%s}\n}\n", name, name, name, strings.Join(assigns, ", ")), nil
}

func lookupMethod(named *types.Named, name string) *types.Func {
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		if m.Name() == name {
			return m
		}
	}
	return nil
}

func lookupInterfaceMethod(iface *types.Interface, name string) *types.Func {
	for i := 0; i < iface.NumMethods(); i++ {
		m := iface.Method(i)
		if m.Name() == name {
			return m
		}
	}
	return nil
}

func receiverVar(typeName string) string {
	if typeName == "" {
		return "r"
	}
	return strings.ToLower(typeName[:1])
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
