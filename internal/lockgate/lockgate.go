// Package lockgate manages the lifecycle of the lockfile the tool under test
// generates inside a fixture directory: removal before and after a run, and
// comparison against the fixture's golden lockfile when one is checked in.
package lockgate

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/snap-harness/internal/messages"
	"github.com/conn-castle/snap-harness/internal/normalize"
)

// Gate owns lockfile lifecycle for fixtures. Filename is the fixed name the
// tool writes into the fixture working directory.
type Gate struct {
	Filename string
}

// MismatchError reports a normalized lockfile that differs from its golden
// counterpart. Got and Want carry the normalized texts for diffing.
type MismatchError struct {
	Got  string
	Want string
}

func (e *MismatchError) Error() string {
	diff := udiff.Unified("golden lockfile", "generated lockfile", e.Want, e.Got)
	return fmt.Sprintf(messages.LockfileMismatchFmt, diff)
}

// Reset deletes any generated lockfile in fixtureDir. A missing file is not
// an error; reset must be safe to call before the first run and after every
// run.
func (g Gate) Reset(fixtureDir string) error {
	path := filepath.Join(fixtureDir, g.Filename)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf(messages.LockfileRemoveFmt, path, err)
	}
	return nil
}

// Compare reads the generated lockfile and compares it, normalized, against
// the golden file at goldenPath. Retained fixtures assert the exact lockfile
// shape; all others get environment-dependent URL hashes masked first.
// Unless the fixture is retained, the generated lockfile is deleted before
// Compare returns, on both the pass and fail paths.
func (g Gate) Compare(fixtureDir string, goldenPath string, retainExact bool) error {
	path := filepath.Join(fixtureDir, g.Filename)
	if !retainExact {
		defer func() {
			_ = os.Remove(path)
		}()
	}

	generated, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf(messages.LockfileReadFmt, path, err)
	}
	golden, err := os.ReadFile(goldenPath)
	if err != nil {
		return fmt.Errorf(messages.GoldenLockReadFmt, goldenPath, err)
	}

	pipeline := normalize.Lockfile(retainExact)
	got := pipeline.Apply(string(generated))
	want := pipeline.Apply(string(golden))
	if got != want {
		return &MismatchError{Got: got, Want: want}
	}
	return nil
}
