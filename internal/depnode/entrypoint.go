package depnode

import (
	"strings"

	"goslice/internal/errs"
)

// EntryKind discriminates the two entry-point shapes: a bare function
// or a type's method.
type EntryKind int

const (
	EntryFunction EntryKind = iota
	EntryMember
)

// EntryPoint identifies the single function or method an extraction is
// rooted at.
type EntryPoint struct {
	Kind EntryKind

	// EntryFunction
	PkgPath string
	Name    string

	// EntryMember
	TypeName string
	Method   string
}

// ParseEntryPoint builds an EntryPoint from a package path and a
// selector: "<Name>" for a function, "<TypeName>.<MethodName>" for a
// method. The package path is taken as given and never split, so paths
// containing dots (e.g. "example.com/foo") work; any other selector
// shape is rejected with InvalidInput.
func ParseEntryPoint(pkgPath string, selector string) (EntryPoint, error) {
	pkgPath = strings.TrimSpace(pkgPath)
	selector = strings.TrimSpace(selector)
	if pkgPath == "" || selector == "" {
		return EntryPoint{}, errs.InvalidInput("entry point requires a package path and a function or Type.Method selector")
	}

	parts := strings.Split(selector, ".")
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return EntryPoint{}, errs.InvalidInput("empty selector")
		}
		return EntryPoint{Kind: EntryFunction, PkgPath: pkgPath, Name: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return EntryPoint{}, errs.InvalidInput("empty type or method name in selector " + selector)
		}
		return EntryPoint{Kind: EntryMember, PkgPath: pkgPath, TypeName: parts[0], Method: parts[1]}, nil
	default:
		return EntryPoint{}, errs.InvalidInput("unrecognized selector shape: " + selector)
	}
}

// String renders the entry point back into its canonical dotted form.
func (e EntryPoint) String() string {
	switch e.Kind {
	case EntryFunction:
		return e.PkgPath + "." + e.Name
	case EntryMember:
		return e.PkgPath + "." + e.TypeName + "." + e.Method
	default:
		return "<invalid entry point>"
	}
}
