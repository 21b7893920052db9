// Package fixture builds small on-disk Go modules for tests that need
// a real go/packages load. internal/typeprovider and everything built
// on it cannot be exercised against mocks; the whole point is
// exercising the real type-checker.
package fixture

import (
	"os"
	"path/filepath"
	"testing"
)

// ModulePath is the module path every fixture module uses.
const ModulePath = "sliceexample"

// Write lays out a small module with two packages: "shapes", containing
// a struct with a method and a constructor, an enum-like named type,
// a package-level function and const/var, and an interface the struct
// satisfies; and "labels", a second project package "shapes" reaches
// into. Report additionally calls a stdlib function directly, so the
// module has enough surface to exercise every dependency kind plus
// entry-body import collection (stdlib and cross-package).
func Write(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write(t, dir, "go.mod", "module "+ModulePath+"\n\ngo 1.22\n")

	write(t, dir, filepath.Join("labels", "labels.go"), `package labels

type Tag struct {
	Name string
}

func Format(name string) string {
	return "[" + name + "]"
}
`)

	write(t, dir, filepath.Join("shapes", "shapes.go"), `package shapes

import (
	"fmt"

	"sliceexample/labels"
)

type Color int

const (
	Red Color = iota
	Green
	Blue
)

type Describer interface {
	Describe() string
}

type Shape struct {
	Name  string
	Color Color
}

func (s *Shape) Describe() string {
	return s.Name
}

func NewShape(name string) *Shape {
	return &Shape{Name: name}
}

const DefaultName = "box"

var Count int

func Area(s *Shape) float64 {
	return 0
}

func Compute() float64 {
	s := NewShape(DefaultName)
	_ = s.Color
	return Area(s)
}

func ComputeVia(d Describer) string {
	return d.Describe()
}

func Report(s *Shape) string {
	return fmt.Sprintf("%s: %s", labels.Format(s.Name), s.Describe())
}
`)
	return dir
}

func write(t *testing.T, dir, rel, content string) {
	t.Helper()
	full := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", full, err)
	}
}
