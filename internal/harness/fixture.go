package harness

import (
	"os"
	"path/filepath"
)

// Golden artifact names inside a fixture directory.
const (
	goldenOutputName    = "expected-output.txt"
	goldenOutputWinName = "expected-output.win.txt"
	goldenLockName      = "expected-lock.json"
	goldenInstallName   = "expected-install"
)

// GoldenOutputPath returns the golden output file for the given GOOS. The
// Windows-specific override is used only when running on Windows and the
// file is present.
func (f Fixture) GoldenOutputPath(goos string) string {
	if goos == "windows" {
		win := filepath.Join(f.Dir, goldenOutputWinName)
		if _, err := os.Stat(win); err == nil {
			return win
		}
	}
	return filepath.Join(f.Dir, goldenOutputName)
}

// GoldenLockPath returns the golden lockfile path, which may not exist.
func (f Fixture) GoldenLockPath() string {
	return filepath.Join(f.Dir, goldenLockName)
}

// GoldenInstallDir returns the golden install tree path, which may not exist.
func (f Fixture) GoldenInstallDir() string {
	return filepath.Join(f.Dir, goldenInstallName)
}
