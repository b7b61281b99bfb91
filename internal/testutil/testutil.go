// Package testutil provides shell-stub helpers that stand in for the tool
// under test.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

// ToolScript describes the behavior of a stub tool binary.
type ToolScript struct {
	// Stdout and Stderr are emitted verbatim, each with a trailing newline.
	Stdout string
	Stderr string
	// Files maps working-directory-relative paths to content the stub
	// creates before exiting, simulating generated artifacts.
	Files map[string]string
	// EchoEnv, when set, prints NAME=VALUE for the named variable.
	EchoEnv string
	// SleepSeconds delays exit, for timeout tests.
	SleepSeconds int
	ExitCode     int
}

// WriteTool writes an executable shell stub behaving per script.
// t is the active test; dir is the output directory; name is the executable
// file name. Returns the absolute stub path.
func WriteTool(t *testing.T, dir string, name string, script ToolScript) string {
	t.Helper()
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	if script.Stdout != "" {
		fmt.Fprintf(&b, "printf '%%s\\n' %s\n", shellQuote(script.Stdout))
	}
	if script.Stderr != "" {
		fmt.Fprintf(&b, "printf '%%s\\n' %s >&2\n", shellQuote(script.Stderr))
	}
	if script.EchoEnv != "" {
		fmt.Fprintf(&b, "printf '%s=%%s\\n' \"$%s\"\n", script.EchoEnv, script.EchoEnv)
	}
	for _, rel := range sortedKeys(script.Files) {
		if parent := filepath.Dir(rel); parent != "." {
			fmt.Fprintf(&b, "mkdir -p %s\n", shellQuote(parent))
		}
		fmt.Fprintf(&b, "printf '%%s' %s > %s\n", shellQuote(script.Files[rel]), shellQuote(rel))
	}
	if script.SleepSeconds > 0 {
		fmt.Fprintf(&b, "sleep %d\n", script.SleepSeconds)
	}
	fmt.Fprintf(&b, "exit %d\n", script.ExitCode)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o755); err != nil {
		t.Fatalf("write tool stub: %v", err)
	}
	return path
}

// WriteFile writes content to a path, creating parent directories.
// t is the active test; path is the absolute destination.
func WriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
