// Package runner invokes the tool under test inside a fixture directory and
// captures its merged output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/conn-castle/snap-harness/internal/messages"
)

// execCommandContext is a seam for tests.
var execCommandContext = exec.CommandContext

// ErrTimedOut reports that the tool under test exceeded the per-fixture
// timeout. Callers classify it separately from both tool failures and
// harness errors.
var ErrTimedOut = errors.New("tool under test timed out")

// Invocation describes a single run of the tool under test. Env is the
// complete child environment; the non-interactive flag travels here rather
// than through process-wide environment mutation.
type Invocation struct {
	Command []string
	Dir     string
	Env     []string
	Timeout time.Duration
}

// Run spawns the tool, waits for exit, and returns the interleaved
// stdout+stderr text. A nonzero exit is not an error: fixtures that document
// intentional tool failures rely on capturing that output. Failing to spawn
// at all is a harness error; exceeding the timeout returns ErrTimedOut
// wrapped with the configured duration.
func Run(ctx context.Context, inv Invocation) (string, error) {
	runCtx := ctx
	cancel := context.CancelFunc(func() {})
	if inv.Timeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, inv.Timeout)
	}
	defer cancel()

	cmd := execCommandContext(runCtx, inv.Command[0], inv.Command[1:]...)
	cmd.Dir = inv.Dir
	cmd.Env = append(os.Environ(), inv.Env...)

	var combined bytes.Buffer
	cmd.Stdout = &combined
	cmd.Stderr = &combined

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf(messages.FixtureSpawnFmt, err)
	}
	err := cmd.Wait()
	if runCtx.Err() == context.DeadlineExceeded {
		return combined.String(), fmt.Errorf(messages.FixtureTimedOutFmt, ErrTimedOut, inv.Timeout)
	}
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return combined.String(), fmt.Errorf(messages.FixtureSpawnFmt, err)
	}
	return combined.String(), nil
}
