// Package layout groups synthesized declarations by the Go package
// that owns them, inlines the entry point's own literal body into its
// package's file, and formats the result.
package layout

import (
	"fmt"
	"go/format"
	"path"
	"sort"
	"strings"

	"goslice/internal/collector"
	"goslice/internal/typeprovider"
)

// PackageSource is one package's worth of synthesized text.
type PackageSource struct {
	PkgPath string
	Name    string
	Body    string
}

// Emit renders res into one or more formatted Go source files, one per
// touched package, joined by marker comments when more than one
// package is involved. imports maps each touched package path to the
// set of other packages its synthesized declarations ended up
// referencing (collected by the typeprint.Printer that rendered them),
// keyed by package path, each mapped to the import name to emit it
// under.
func Emit(provider *typeprovider.Provider, res *collector.Result, decls map[string]string, entryBody string, imports map[string]map[string]string) (string, error) {
	bodies := map[string]*strings.Builder{}

	ensure := func(pkgPath string) *strings.Builder {
		if b, ok := bodies[pkgPath]; ok {
			return b
		}
		b := &strings.Builder{}
		bodies[pkgPath] = b
		return b
	}

	if entryBody != "" {
		ensure(res.EntryPkg).WriteString(entryBody)
		ensure(res.EntryPkg).WriteString("\n")
	}

	for _, fqn := range collector.SortedTypeFQNs(res.Types) {
		tf := res.Types[fqn]
		if tf.Named == nil || tf.Named.Obj().Pkg() == nil {
			continue
		}
		pkgPath := tf.Named.Obj().Pkg().Path()
		text, ok := decls[fqn]
		if !ok {
			continue
		}
		ensure(pkgPath).WriteString(text)
		ensure(pkgPath).WriteString("\n")
	}

	for _, g := range res.Globals {
		key := g.PkgPath + "." + g.Name + ":" + g.Kind.String()
		text, ok := decls[key]
		if !ok {
			continue
		}
		ensure(g.PkgPath).WriteString(text)
		ensure(g.PkgPath).WriteString("\n")
	}

	var pkgPaths []string
	for p := range bodies {
		pkgPaths = append(pkgPaths, p)
	}
	sort.Strings(pkgPaths)

	// The default-value helper belongs in every package whose body
	// actually calls into it, not just the entry package: a slice that
	// touches more than one package needs its own copy in each.
	if helper, ok := decls["__helper__"]; ok {
		for _, pkgPath := range pkgPaths {
			b := bodies[pkgPath]
			if strings.Contains(b.String(), "Unimplemented(") || strings.Contains(b.String(), "DefaultFactory[") {
				b.WriteString(helper)
				b.WriteString("\n")
			}
		}
	}

	var files []PackageSource
	for _, pkgPath := range pkgPaths {
		name := packageName(provider, pkgPath)
		body := bodies[pkgPath].String()
		files = append(files, PackageSource{
			PkgPath: pkgPath,
			Name:    name,
			Body:    renderFile(name, pkgPath, body, imports[pkgPath]),
		})
	}

	if len(files) == 0 {
		return "", nil
	}
	if len(files) == 1 {
		return formatOrRaw(files[0].Body), nil
	}

	var sb strings.Builder
	for i, f := range files {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "//// %s/%s.go\n", f.PkgPath, path.Base(f.PkgPath))
		sb.WriteString(formatOrRaw(f.Body))
	}
	return sb.String(), nil
}

func packageName(provider *typeprovider.Provider, pkgPath string) string {
	if pkg, ok := provider.Package(pkgPath); ok && pkg.Name != "" {
		return pkg.Name
	}
	return path.Base(pkgPath)
}

func renderFile(pkgName, pkgPath, body string, used map[string]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "package %s\n\n", pkgName)

	var imports []string
	for otherPath, alias := range used {
		if otherPath == pkgPath {
			continue
		}
		imports = append(imports, importLine(otherPath, alias))
	}
	sort.Strings(imports)
	if len(imports) > 0 {
		sb.WriteString("import (\n")
		for _, imp := range imports {
			sb.WriteString(imp)
			sb.WriteString("\n")
		}
		sb.WriteString(")\n\n")
	}

	sb.WriteString(body)
	return sb.String()
}

// importLine renders one import spec, aliasing only when the package's
// import name differs from its path's last element.
func importLine(pkgPath, alias string) string {
	if path.Base(pkgPath) == alias {
		return fmt.Sprintf("\t%q", pkgPath)
	}
	return fmt.Sprintf("\t%s %q", alias, pkgPath)
}

func formatOrRaw(src string) string {
	formatted, err := format.Source([]byte(src))
	if err != nil {
		return src // best-effort: an unformattable stub still ships as raw text
	}
	return string(formatted)
}
