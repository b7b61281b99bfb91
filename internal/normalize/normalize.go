// Package normalize rewrites captured tool output and generated file content
// into a canonical form so it can be compared against golden artifacts.
// Every transform is a pure, idempotent rewrite; ordering is significant and
// owned by the pipelines at the bottom of this file.
package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

// Transform is a single named rewrite. Transforms are applied in the order a
// Pipeline lists them; each must be idempotent on its own output.
type Transform struct {
	Name    string
	rewrite func(string) string
}

// Apply returns the transformed text.
func (t Transform) Apply(s string) string {
	return t.rewrite(s)
}

// Pipeline is an ordered list of transforms applied first to last.
type Pipeline []Transform

// Apply runs every transform in order and returns the canonical text.
func (p Pipeline) Apply(s string) string {
	for _, t := range p {
		s = t.Apply(s)
	}
	return s
}

var (
	ansiPattern       = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)
	timingPattern     = regexp.MustCompile(`\[[0-9]+(?:\.[0-9]+)?s\]`)
	sizePattern       = regexp.MustCompile(`\b[0-9]+(?:\.[0-9]+)?\s*KB\b`)
	fileHashPattern   = regexp.MustCompile(`-[a-z0-9]{8}\.`)
	urlHashPattern    = regexp.MustCompile(`/[a-z0-9]{20}\b`)
	configPathPattern = regexp.MustCompile(`"(?:[A-Za-z]:)?[/\\][^"]*[/\\]([^/\\"]+)"`)
	viaPattern        = regexp.MustCompile(` via "[^"]*"`)
	builtinPattern    = regexp.MustCompile(`"[^"<][^"]*"(?:, "[^"]+")* (?:is a built-in module|are built-in modules)`)
	stackLinePattern  = regexp.MustCompile(`(?m)^[ \t]+at .*\n?`)
	revQueryPattern   = regexp.MustCompile(`\?rev=[A-Za-z0-9]+`)
	trailingWSPattern = regexp.MustCompile(`(?m)[ \t]+$`)
)

// StripANSI removes terminal escape sequences. It runs first so later
// patterns see plain text.
var StripANSI = Transform{
	Name: "strip-ansi",
	rewrite: func(s string) string {
		return ansiPattern.ReplaceAllString(s, "")
	},
}

// StripTimings removes build-duration annotations of the form "[1.2s]",
// which vary run to run.
var StripTimings = Transform{
	Name: "strip-timings",
	rewrite: func(s string) string {
		return timingPattern.ReplaceAllString(s, "")
	},
}

// MaskSizes replaces reported file sizes ("123 KB") with a placeholder.
// Sizes legitimately differ across environments.
var MaskSizes = Transform{
	Name: "mask-sizes",
	rewrite: func(s string) string {
		return sizePattern.ReplaceAllString(s, "XX KB")
	},
}

// MaskFileHashes canonicalizes eight-character content hashes embedded in
// generated filenames ("app-a1b2c3d4.js" -> "app-XXXXXXXX.js").
var MaskFileHashes = Transform{
	Name: "mask-file-hashes",
	rewrite: func(s string) string {
		return fileHashPattern.ReplaceAllString(s, "-XXXXXXXX.")
	},
}

// MaskURLHashes canonicalizes twenty-character hashes that appear as URL
// path segments.
var MaskURLHashes = Transform{
	Name: "mask-url-hashes",
	rewrite: func(s string) string {
		return urlHashPattern.ReplaceAllString(s, "/XXXXXXXXXXXXXXXXXXXX")
	},
}

// RelativizeConfigPaths rewrites quoted absolute filesystem paths in error
// messages down to "./<basename>" so messages compare across machines.
var RelativizeConfigPaths = Transform{
	Name: "relativize-config-paths",
	rewrite: func(s string) string {
		return configPathPattern.ReplaceAllString(s, `"./$1"`)
	},
}

// MaskResolutionContext collapses `via "<path>"` module-resolution context.
// Resolution order for simultaneous errors is not guaranteed.
var MaskResolutionContext = Transform{
	Name: "mask-resolution-context",
	rewrite: func(s string) string {
		return viaPattern.ReplaceAllString(s, ` via "..."`)
	},
}

// CountBuiltinModules replaces a group of quoted built-in module names plus
// its explanatory suffix with a count placeholder. The tool reports these
// errors concurrently, so the count is the signal, not the order.
var CountBuiltinModules = Transform{
	Name: "count-builtin-modules",
	rewrite: func(s string) string {
		return builtinPattern.ReplaceAllStringFunc(s, func(match string) string {
			n := strings.Count(match, `", "`) + 1
			return fmt.Sprintf("<%d built-in module(s)>", n)
		})
	},
}

// StripStackFrames drops indented "at ..." stack-trace lines. Useful for a
// human, useless as a regression signal.
var StripStackFrames = Transform{
	Name: "strip-stack-frames",
	rewrite: func(s string) string {
		return stackLinePattern.ReplaceAllString(s, "")
	},
}

// MaskRevisionQueries pins "?rev=<token>" query suffixes in emitted code to
// a fixed-width placeholder.
var MaskRevisionQueries = Transform{
	Name: "mask-revision-queries",
	rewrite: func(s string) string {
		return revQueryPattern.ReplaceAllString(s, "?rev=xxxxxxxx")
	},
}

// NormalizeWhitespace converts CRLF to LF, strips trailing whitespace per
// line, and settles the text on a single trailing newline. It must run last:
// it discards spacing the earlier transforms rely on for precise matching.
var NormalizeWhitespace = Transform{
	Name: "normalize-whitespace",
	rewrite: func(s string) string {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
		s = trailingWSPattern.ReplaceAllString(s, "")
		s = strings.TrimRight(s, "\n")
		if s == "" {
			return ""
		}
		return s + "\n"
	},
}

// Output is the full pipeline for captured stdout/stderr text.
func Output() Pipeline {
	return Pipeline{
		StripANSI,
		StripTimings,
		MaskSizes,
		MaskFileHashes,
		MaskURLHashes,
		RelativizeConfigPaths,
		MaskResolutionContext,
		CountBuiltinModules,
		StripStackFrames,
		MaskRevisionQueries,
		NormalizeWhitespace,
	}
}

// TreeFile is the pipeline for generated file content compared against a
// golden install tree.
func TreeFile() Pipeline {
	return Pipeline{
		MaskFileHashes,
		MaskRevisionQueries,
		NormalizeWhitespace,
	}
}

// Lockfile is the pipeline for generated lockfiles. Retained fixtures assert
// the exact lockfile shape, so only whitespace is settled; default fixtures
// additionally mask environment-dependent URL hashes.
func Lockfile(retainExact bool) Pipeline {
	if retainExact {
		return Pipeline{NormalizeWhitespace}
	}
	return Pipeline{MaskURLHashes, NormalizeWhitespace}
}
