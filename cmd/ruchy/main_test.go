package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTranspileFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "hello.ruchy")
	out := filepath.Join(dir, "hello.rs")
	program := `fun double(x: i32) -> i32 { x * 2 }
println!("{}", double(21))
`
	if err := os.WriteFile(src, []byte(program), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := transpileFile(src, out); err != nil {
		t.Fatalf("transpileFile: %v", err)
	}
	code, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(code), "fn double(x: i32) -> i32") {
		t.Errorf("missing function in output:\n%s", code)
	}
	if !strings.Contains(string(code), "fn main() {") {
		t.Errorf("missing main in output:\n%s", code)
	}
}

func TestTranspileFileParseError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.ruchy")
	if err := os.WriteFile(src, []byte("let = 5"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := transpileFile(src, ""); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "ok.ruchy")
	if err := os.WriteFile(src, []byte("let x = 1 + 1\nassert(x == 2)"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runFile(src); err != nil {
		t.Errorf("runFile: %v", err)
	}

	if err := runFile(filepath.Join(dir, "missing.ruchy")); err == nil {
		t.Error("missing files should error")
	}

	bad := filepath.Join(dir, "bad.ruchy")
	if err := os.WriteFile(bad, []byte("undefined_name"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runFile(bad); err == nil {
		t.Error("runtime errors should surface")
	}
}

func TestNewCommandScaffold(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	newCommand([]string{"demo"})

	for _, rel := range []string{"Cargo.toml", "build.rs", "src/main.ruchy", ".ruchy.yaml"} {
		path := filepath.Join(dir, "demo", rel)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}

	manifest, err := os.ReadFile(filepath.Join(dir, "demo", "Cargo.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(manifest), `name = "demo"`) {
		t.Errorf("manifest should carry the project name:\n%s", manifest)
	}

	// the generated entry file must parse and run
	if err := runFile(filepath.Join(dir, "demo", "src", "main.ruchy")); err != nil {
		t.Errorf("generated entry file should run: %v", err)
	}
}
