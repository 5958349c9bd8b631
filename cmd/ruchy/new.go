package main

import (
	"fmt"
	"os"
	"path/filepath"
)

const manifestTemplate = `[package]
name = "%s"
version = "0.1.0"
edition = "2021"
build = "build.rs"

[dependencies]
`

const buildScript = `// Transpiles every .ruchy source under src/ before compiling.
fn main() {
    println!("cargo:rerun-if-changed=src");
    let status = std::process::Command::new("ruchy")
        .args(["transpile", "src/main.ruchy", "-o", "src/main.rs"])
        .status()
        .expect("failed to run ruchy");
    if !status.success() {
        panic!("ruchy transpile failed");
    }
}
`

const mainTemplate = `fun main() {
    println("Hello from %s!")
}

main()
`

// newCommand generates a project skeleton: a host manifest, a build
// script that transpiles before the host build, and an entry file.
func newCommand(args []string) {
	if len(args) == 0 {
		fail("usage: ruchy new <name>")
	}
	name := args[0]
	if err := os.MkdirAll(filepath.Join(name, "src"), 0o755); err != nil {
		fail("ruchy new: %v", err)
	}

	files := map[string]string{
		"Cargo.toml":     fmt.Sprintf(manifestTemplate, name),
		"build.rs":       buildScript,
		"src/main.ruchy": fmt.Sprintf(mainTemplate, name),
		".ruchy.yaml":    "score:\n  threshold: 0.8\n",
	}
	for rel, content := range files {
		path := filepath.Join(name, rel)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			fail("ruchy new: %v", err)
		}
	}
	fmt.Printf("created project %s\n", name)
	fmt.Printf("  cd %s && ruchy run src/main.ruchy\n", name)
}
