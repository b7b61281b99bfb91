package harness

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/snap-harness/internal/lockgate"
	"github.com/conn-castle/snap-harness/internal/messages"
	"github.com/conn-castle/snap-harness/internal/normalize"
	"github.com/conn-castle/snap-harness/internal/runner"
	"github.com/conn-castle/snap-harness/internal/treediff"
)

// runProcess is a seam for tests.
var runProcess = runner.Run

// FailureKind classifies a fixture failure per the harness taxonomy.
type FailureKind string

// Failure kinds.
const (
	FailOutputMismatch    FailureKind = "output-mismatch"
	FailLockfileMismatch  FailureKind = "lockfile-mismatch"
	FailTreeMismatch      FailureKind = "tree-mismatch"
	FailMissingGenerated  FailureKind = "missing-generated"
	FailExtraneous        FailureKind = "extraneous"
	FailMissingGoldenTree FailureKind = "missing-golden-tree"
	FailTimedOut          FailureKind = "timed-out"
	// FailHarness marks test-infrastructure problems (golden file missing
	// from disk, tool failed to spawn), never tool-under-test regressions.
	FailHarness FailureKind = "harness-error"
)

// Failure is one classified fixture failure with its diagnostic message.
type Failure struct {
	Kind    FailureKind
	Message string
}

// FixtureResult is the single pass/fail unit for one fixture.
type FixtureResult struct {
	Fixture  Fixture
	Failures []Failure
}

// Passed reports whether every comparison stage succeeded.
func (r FixtureResult) Passed() bool {
	return len(r.Failures) == 0
}

// HarnessError reports whether any failure was a harness/config problem.
func (r FixtureResult) HarnessError() bool {
	for _, f := range r.Failures {
		if f.Kind == FailHarness {
			return true
		}
	}
	return false
}

// Orchestrator drives the suite, one fixture at a time, each run to
// completion before the next begins.
type Orchestrator struct {
	Suite *Suite
	// Update rewrites golden output and lockfile artifacts from the
	// current run instead of comparing against them.
	Update bool
	// Updated collects the golden paths rewritten in update mode.
	Updated []string

	goos string
}

// NewOrchestrator returns an orchestrator for suite on the current platform.
func NewOrchestrator(suite *Suite) *Orchestrator {
	return &Orchestrator{Suite: suite, goos: runtime.GOOS}
}

// Run processes every fixture sequentially and returns one result each.
func (o *Orchestrator) Run(ctx context.Context) []FixtureResult {
	results := make([]FixtureResult, 0, len(o.Suite.Fixtures))
	for _, fixture := range o.Suite.Fixtures {
		results = append(results, o.RunFixture(ctx, fixture))
	}
	return results
}

// RunFixture drives a single fixture through every stage. Later stages still
// run after an earlier comparison fails, to maximize diagnostic output;
// structural failures (spawn failure, timeout, golden output missing from
// disk) end the fixture early. Artifact cleanup runs on every exit path.
func (o *Orchestrator) RunFixture(ctx context.Context, fixture Fixture) (result FixtureResult) {
	result.Fixture = fixture
	cfg := o.Suite.Config
	gate := lockgate.Gate{Filename: cfg.Lockfile}
	actualInstall := filepath.Join(fixture.Dir, cfg.InstallDir)

	fail := func(kind FailureKind, message string) {
		result.Failures = append(result.Failures, Failure{Kind: kind, Message: message})
	}

	if err := o.resetArtifacts(gate, fixture, actualInstall); err != nil {
		fail(FailHarness, messages.HarnessErrorPrefix+err.Error())
		return result
	}
	defer func() {
		// Unconditional cleanup; a retained lockfile is the one artifact
		// that survives until the next reset.
		_ = os.RemoveAll(actualInstall)
		if !fixture.RetainLockfile {
			_ = gate.Reset(fixture.Dir)
		}
	}()

	output, err := runProcess(ctx, runner.Invocation{
		Command: cfg.Command,
		Dir:     fixture.Dir,
		Env:     cfg.Env,
		Timeout: cfg.Timeout,
	})
	if errors.Is(err, runner.ErrTimedOut) {
		fail(FailTimedOut, err.Error())
		return result
	}
	if err != nil {
		fail(FailHarness, messages.HarnessErrorPrefix+err.Error())
		return result
	}

	if !o.compareOutput(fixture, output, fail) {
		// Structural: the golden output itself is gone, nothing else to
		// diagnose.
		return result
	}
	o.compareLockfile(gate, fixture, fail)
	o.compareTree(fixture, actualInstall, fail)
	return result
}

// resetArtifacts removes any generated state left over from a previous run.
func (o *Orchestrator) resetArtifacts(gate lockgate.Gate, fixture Fixture, actualInstall string) error {
	if err := gate.Reset(fixture.Dir); err != nil {
		return err
	}
	return os.RemoveAll(actualInstall)
}

// compareOutput reports false when the golden output file itself is missing
// from disk, a harness/config error that makes the later stages pointless.
func (o *Orchestrator) compareOutput(fixture Fixture, output string, fail func(FailureKind, string)) bool {
	goldenPath := fixture.GoldenOutputPath(o.goos)
	pipeline := normalize.Output()
	got := pipeline.Apply(output)

	if o.Update {
		if err := os.WriteFile(goldenPath, []byte(got), 0o644); err != nil {
			fail(FailHarness, messages.HarnessErrorPrefix+err.Error())
			return false
		}
		o.Updated = append(o.Updated, goldenPath)
		return true
	}

	golden, err := os.ReadFile(goldenPath)
	if err != nil {
		fail(FailHarness, messages.HarnessErrorPrefix+fmt.Sprintf(messages.FixtureGoldenOutputMissingFmt, goldenPath))
		return false
	}
	want := pipeline.Apply(string(golden))
	if got != want {
		diff := udiff.Unified("golden output", "captured output", want, got)
		fail(FailOutputMismatch, fmt.Sprintf(messages.OutputMismatchFmt, diff))
	}
	return true
}

func (o *Orchestrator) compareLockfile(gate lockgate.Gate, fixture Fixture, fail func(FailureKind, string)) {
	goldenPath := fixture.GoldenLockPath()
	if _, err := os.Stat(goldenPath); os.IsNotExist(err) {
		return
	}
	generatedPath := filepath.Join(fixture.Dir, o.Suite.Config.Lockfile)

	if o.Update {
		generated, err := os.ReadFile(generatedPath)
		if err != nil {
			fail(FailMissingGenerated, fmt.Sprintf(messages.TreeMissingGeneratedFmt, o.Suite.Config.Lockfile))
			return
		}
		if err := os.WriteFile(goldenPath, generated, 0o644); err != nil {
			fail(FailHarness, messages.HarnessErrorPrefix+err.Error())
			return
		}
		o.Updated = append(o.Updated, goldenPath)
		return
	}

	err := gate.Compare(fixture.Dir, goldenPath, fixture.RetainLockfile)
	var mismatch *lockgate.MismatchError
	switch {
	case err == nil:
	case errors.As(err, &mismatch):
		fail(FailLockfileMismatch, err.Error())
	case errors.Is(err, os.ErrNotExist):
		// The golden lockfile exists (checked above), so the missing side
		// is the generated one: a generation regression, not harness config.
		fail(FailMissingGenerated, fmt.Sprintf(messages.TreeMissingGeneratedFmt, o.Suite.Config.Lockfile))
	default:
		fail(FailHarness, messages.HarnessErrorPrefix+err.Error())
	}
}

func (o *Orchestrator) compareTree(fixture Fixture, actualInstall string, fail func(FailureKind, string)) {
	if fixture.SkipTree {
		return
	}
	expectedDir := fixture.GoldenInstallDir()
	if _, err := os.Stat(expectedDir); os.IsNotExist(err) {
		// Expected-failure fixtures produce no output by design.
		if strings.HasPrefix(fixture.Name, "error-") {
			return
		}
		if _, err := os.Stat(actualInstall); err == nil {
			fail(FailMissingGoldenTree, fmt.Sprintf(messages.TreeMissingGoldenDirFmt, o.Suite.Config.InstallDir, fixture.Name))
		}
		return
	}

	result, err := treediff.Compare(expectedDir, actualInstall, treediff.Options{
		Exclude:      o.Suite.Config.Exclude,
		ExcludePaths: o.Suite.Config.ExcludePaths,
	})
	if err != nil {
		fail(FailHarness, messages.HarnessErrorPrefix+err.Error())
		return
	}
	for _, entry := range result.Failures() {
		switch entry.Kind {
		case treediff.KindMissingGenerated:
			fail(FailMissingGenerated, entry.Describe())
		case treediff.KindExtraneous:
			fail(FailExtraneous, entry.Describe())
		default:
			fail(FailTreeMismatch, entry.Describe())
		}
	}
}
