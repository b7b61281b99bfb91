// Package treediff recursively compares a golden install tree against the
// tree the tool under test actually produced.
package treediff

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/snap-harness/internal/messages"
	"github.com/conn-castle/snap-harness/internal/normalize"
)

// Kind classifies a single comparison entry.
type Kind string

// Entry kinds.
const (
	// KindContentMismatch marks a file present in both trees whose
	// normalized content still differs.
	KindContentMismatch Kind = "content-mismatch"
	// KindMissingGenerated marks a file the golden tree has but the tool
	// failed to generate.
	KindMissingGenerated Kind = "missing-generated"
	// KindExtraneous marks a generated file with no golden counterpart.
	KindExtraneous Kind = "extraneous"
	// KindSkipped marks an excluded or non-regular entry that was not
	// content-compared.
	KindSkipped Kind = "skipped"
)

// Entry is one comparison outcome. Expected and Actual hold normalized
// content for mismatch entries only.
type Entry struct {
	RelPath  string
	Kind     Kind
	Expected string
	Actual   string
}

// Describe renders the entry as a failure message.
func (e Entry) Describe() string {
	switch e.Kind {
	case KindMissingGenerated:
		return fmt.Sprintf(messages.TreeMissingGeneratedFmt, e.RelPath)
	case KindExtraneous:
		return fmt.Sprintf(messages.TreeExtraneousFmt, e.RelPath)
	case KindContentMismatch:
		diff := udiff.Unified("golden "+e.RelPath, "generated "+e.RelPath, e.Expected, e.Actual)
		return fmt.Sprintf(messages.TreeContentMismatchFmt, e.RelPath, diff)
	default:
		return string(e.Kind) + ": " + e.RelPath
	}
}

// Result is the full set of comparison entries for one fixture tree.
type Result struct {
	Entries []Entry
}

// Failures returns the entries that should fail the fixture, in path order.
func (r Result) Failures() []Entry {
	var failures []Entry
	for _, entry := range r.Entries {
		if entry.Kind != KindSkipped {
			failures = append(failures, entry)
		}
	}
	return failures
}

// Options controls which paths are excluded from comparison.
type Options struct {
	// Exclude skips any path containing one of these substrings. Shared
	// chunk artifacts hash differently per platform and cannot be diffed.
	Exclude []string
	// ExcludePaths skips exact slash-separated relative paths.
	ExcludePaths []string
}

func (o Options) excluded(rel string) bool {
	for _, exact := range o.ExcludePaths {
		if rel == exact {
			return true
		}
	}
	for _, sub := range o.Exclude {
		if strings.Contains(rel, sub) {
			return true
		}
	}
	return false
}

// Compare walks expectedDir and actualDir and classifies every file found in
// either tree. Only regular files are content-compared; content goes through
// the tree-file normalization pipeline before the equality check.
func Compare(expectedDir string, actualDir string, opts Options) (Result, error) {
	expected, skippedExpected, err := collectFiles(expectedDir, opts)
	if err != nil {
		return Result{}, err
	}
	actual, skippedActual, err := collectFiles(actualDir, opts)
	if err != nil {
		return Result{}, err
	}

	seen := map[string]bool{}
	var entries []Entry
	for _, rel := range skippedExpected {
		seen[rel] = true
		entries = append(entries, Entry{RelPath: rel, Kind: KindSkipped})
	}
	for _, rel := range skippedActual {
		if !seen[rel] {
			seen[rel] = true
			entries = append(entries, Entry{RelPath: rel, Kind: KindSkipped})
		}
	}

	pipeline := normalize.TreeFile()
	for norm, expectedRel := range expected {
		actualRel, ok := actual[norm]
		if !ok {
			entries = append(entries, Entry{RelPath: expectedRel, Kind: KindMissingGenerated})
			continue
		}
		expectedContent, err := os.ReadFile(filepath.Join(expectedDir, filepath.FromSlash(expectedRel)))
		if err != nil {
			return Result{}, fmt.Errorf(messages.TreeReadExpectedFmt, expectedRel, err)
		}
		actualContent, err := os.ReadFile(filepath.Join(actualDir, filepath.FromSlash(actualRel)))
		if err != nil {
			return Result{}, fmt.Errorf(messages.TreeReadActualFmt, actualRel, err)
		}
		want := pipeline.Apply(string(expectedContent))
		got := pipeline.Apply(string(actualContent))
		if want != got {
			entries = append(entries, Entry{
				RelPath:  expectedRel,
				Kind:     KindContentMismatch,
				Expected: want,
				Actual:   got,
			})
		}
	}
	for norm, actualRel := range actual {
		if _, ok := expected[norm]; !ok {
			entries = append(entries, Entry{RelPath: actualRel, Kind: KindExtraneous})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].RelPath < entries[j].RelPath })
	return Result{Entries: entries}, nil
}

// collectFiles walks root and returns its regular files keyed by
// hash-normalized relative path (so "app-a1b2c3d4.js" and "app-XXXXXXXX.js"
// pair up across trees), plus the paths the options excluded.
func collectFiles(root string, opts Options) (map[string]string, []string, error) {
	files := map[string]string{}
	var skipped []string
	if _, err := os.Stat(root); os.IsNotExist(err) {
		// A tree that was never produced compares as empty; the caller
		// decides whether that is a failure.
		return files, nil, nil
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if opts.excluded(rel) {
			skipped = append(skipped, rel)
			return nil
		}
		if !d.Type().IsRegular() {
			skipped = append(skipped, rel)
			return nil
		}
		files[normalize.MaskFileHashes.Apply(rel)] = rel
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf(messages.TreeWalkFmt, root, err)
	}
	return files, skipped, nil
}
