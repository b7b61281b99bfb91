package normalize

import (
	"strings"
	"testing"
)

func TestStripTimings(t *testing.T) {
	got := StripTimings.Apply("Installed 3 dependencies.\n[1.2s]\n")
	if got != "Installed 3 dependencies.\n\n" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestMaskSizes(t *testing.T) {
	got := MaskSizes.Apply("dist/app.js  102.4 KB\ndist/vendor.js  7 KB\n")
	want := "dist/app.js  XX KB\ndist/vendor.js  XX KB\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMaskFileHashes(t *testing.T) {
	got := MaskFileHashes.Apply("wrote dist/app-a1b2c3d4.js\n")
	if got != "wrote dist/app-XXXXXXXX.js\n" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestMaskFileHashesLeavesPlainNames(t *testing.T) {
	input := "wrote dist/app-config.json\n"
	if got := MaskFileHashes.Apply(input); got != input {
		t.Fatalf("expected %q untouched, got %q", input, got)
	}
}

func TestMaskURLHashes(t *testing.T) {
	got := MaskURLHashes.Apply("fetch https://registry.example/pkg/abcdef0123456789abcd/tarball\n")
	want := "fetch https://registry.example/pkg/XXXXXXXXXXXXXXXXXXXX/tarball\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRelativizeConfigPaths(t *testing.T) {
	got := RelativizeConfigPaths.Apply(`error: cannot load "/home/ci/work/fixture/tool.config.json"` + "\n")
	if got != `error: cannot load "./tool.config.json"`+"\n" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestRelativizeConfigPathsWindows(t *testing.T) {
	got := RelativizeConfigPaths.Apply(`error: cannot load "C:\work\fixture\tool.config.json"` + "\n")
	if got != `error: cannot load "./tool.config.json"`+"\n" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestMaskResolutionContext(t *testing.T) {
	got := MaskResolutionContext.Apply(`cannot resolve "left-pad" via "src/deep/entry.js"` + "\n")
	if got != `cannot resolve "left-pad" via "..."`+"\n" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestCountBuiltinModules(t *testing.T) {
	got := CountBuiltinModules.Apply(`"fs", "path", "os" are built-in modules` + "\n")
	if got != "<3 built-in module(s)>\n" {
		t.Fatalf("unexpected result: %q", got)
	}
	got = CountBuiltinModules.Apply(`"fs" is a built-in module` + "\n")
	if got != "<1 built-in module(s)>\n" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestStripStackFrames(t *testing.T) {
	input := "error: boom\n    at install (tool.js:10)\n    at main (tool.js:2)\ndone\n"
	got := StripStackFrames.Apply(input)
	if got != "error: boom\ndone\n" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestStripANSI(t *testing.T) {
	got := StripANSI.Apply("\x1b[32mok\x1b[0m\x1b[2K\n")
	if got != "ok\n" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestMaskRevisionQueries(t *testing.T) {
	got := MaskRevisionQueries.Apply(`import "./chunk.js?rev=9f8e7d6c5b"` + "\n")
	if got != `import "./chunk.js?rev=xxxxxxxx"`+"\n" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	got := NormalizeWhitespace.Apply("a  \r\nb\t\n\n\n")
	if got != "a\nb\n" {
		t.Fatalf("unexpected result: %q", got)
	}
	if NormalizeWhitespace.Apply("  \n\t\n") != "" {
		t.Fatalf("expected blank input to normalize to empty string")
	}
}

// Applying any transform twice must equal applying it once; the pipeline
// relies on this to stay deterministic.
func TestTransformIdempotence(t *testing.T) {
	samples := []string{
		"",
		"Installed 3 dependencies.\n[1.2s]\n",
		"dist/app-a1b2c3d4.js  102.4 KB [0.3s]\n",
		"fetch https://registry.example/pkg/abcdef0123456789abcd/tarball?rev=9f8e7d6c\n",
		`error: cannot load "/ci/fixture/tool.config.json" via "src/entry.js"` + "\n",
		`"fs", "node:path" are built-in modules` + "\n",
		"error: boom\n    at install (tool.js:10)\n",
		"\x1b[1mbold\x1b[0m  \r\ntrailing  \n",
	}
	for _, tr := range Output() {
		for _, sample := range samples {
			once := tr.Apply(sample)
			twice := tr.Apply(once)
			if once != twice {
				t.Fatalf("transform %s not idempotent on %q: %q != %q", tr.Name, sample, once, twice)
			}
		}
	}
}

func TestOutputPipelineIdempotence(t *testing.T) {
	pipeline := Output()
	sample := "\x1b[32mInstalled\x1b[0m dist/app-a1b2c3d4.js  7 KB [0.4s]\n    at run (tool.js:1)\n"
	once := pipeline.Apply(sample)
	if pipeline.Apply(once) != once {
		t.Fatalf("pipeline not idempotent: %q", once)
	}
}

func TestOutputPipelineScenario(t *testing.T) {
	got := Output().Apply("Installed 3 dependencies.\n[1.2s]\n")
	if got != "Installed 3 dependencies.\n" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestTreeFilePipeline(t *testing.T) {
	actual := TreeFile().Apply(`import "./shared.js?rev=a1b2c3d4"; // app-deadbeef.js` + "\r\n")
	golden := TreeFile().Apply(`import "./shared.js?rev=xxxxxxxx"; // app-XXXXXXXX.js` + "\n")
	if actual != golden {
		t.Fatalf("normalized tree content differs:\n%q\n%q", actual, golden)
	}
}

func TestLockfilePipelines(t *testing.T) {
	raw := `{"resolved": "https://registry.example/pkg/abcdef0123456789abcd/pkg.tgz"}` + "\n"
	def := Lockfile(false).Apply(raw)
	if !strings.Contains(def, "/XXXXXXXXXXXXXXXXXXXX/") {
		t.Fatalf("default lockfile pipeline should mask URL hashes: %q", def)
	}
	exact := Lockfile(true).Apply(raw)
	if exact != raw {
		t.Fatalf("retained lockfile pipeline must not mask hashes: %q", exact)
	}
}
