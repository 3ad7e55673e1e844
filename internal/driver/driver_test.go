package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ace/internal/driver"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestCompileCleanUnitHasNoDiagnostics(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.ace", `
Point: struct {
	pub x: i32,
	pub y: i32,
}

sum(p: Point): i32 {
	ret p.x + p.y;
}

add(a: i32, b: i32): i32 {
	ret a + b;
}
`)

	unit, err := driver.Compile(context.Background(), []string{path}, driver.Options{})
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if unit.Bag.HasErrors() {
		t.Fatalf("expected no diagnostics, got %+v", unit.Bag.Items())
	}
}

func TestCompileFlagsMissingReturnPath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.ace", `
pick(n: i32): i32 {
	if n > 0 {
		ret 1;
	}
}
`)

	unit, err := driver.Compile(context.Background(), []string{path}, driver.Options{})
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if !unit.Bag.HasErrors() {
		t.Fatal("expected NotAllControlPathsReturn to surface through the full pipeline")
	}
}

func TestCompileAcrossMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.ace", `
Point: struct {
	pub x: i32,
	pub y: i32,
}
`)
	b := writeFile(t, dir, "b.ace", `
sum(p: Point): i32 {
	ret p.x + p.y;
}
`)

	unit, err := driver.Compile(context.Background(), []string{a, b}, driver.Options{})
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if unit.Bag.HasErrors() {
		t.Fatalf("expected cross-file struct resolution to succeed, got %+v", unit.Bag.Items())
	}
	if len(unit.Files) != 2 {
		t.Fatalf("expected 2 file results, got %d", len(unit.Files))
	}
}
