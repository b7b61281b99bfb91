// Package harness discovers fixtures, drives each one through the tool under
// test, and decides pass/fail per fixture.
package harness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/snap-harness/internal/messages"
)

// ManifestName is the registry file expected at the fixtures root.
const ManifestName = "fixtures.toml"

// ErrManifestValidation is a sentinel that wraps manifest validation
// failures (as opposed to TOML syntax or filesystem errors). Callers can use
// errors.Is(err, ErrManifestValidation) to tell the two apart.
var ErrManifestValidation = errors.New("manifest validation failed")

// Config carries the suite-wide settings from the [harness] table.
type Config struct {
	// Command is the tool-under-test invocation, argv form.
	Command []string
	// Timeout bounds each fixture run. Required: a hung tool must not
	// stall the whole suite.
	Timeout time.Duration
	// Lockfile is the filename the tool generates in each fixture dir.
	Lockfile string
	// InstallDir is the directory name the tool generates output into.
	InstallDir string
	// Env is appended to the child environment per invocation; the
	// non-interactive flag for the tool under test lives here.
	Env []string
	// Exclude and ExcludePaths filter tree comparison.
	Exclude      []string
	ExcludePaths []string
}

// Fixture is one statically enumerated test case.
type Fixture struct {
	Name string
	Dir  string
	// RetainLockfile keeps the generated lockfile for exact comparison;
	// it is removed again only on the next reset.
	RetainLockfile bool
	// SkipTree disables tree comparison outright (platform-incompatible
	// comparisons).
	SkipTree bool
}

// Suite is the loaded registry: config plus every fixture, in run order.
type Suite struct {
	Root     string
	Config   Config
	Fixtures []Fixture
}

// manifestFile mirrors the TOML layout of fixtures.toml.
type manifestFile struct {
	Harness struct {
		Command        []string `toml:"command"`
		Timeout        string   `toml:"timeout"`
		Lockfile       string   `toml:"lockfile"`
		InstallDir     string   `toml:"install_dir"`
		Env            []string `toml:"env"`
		RetainLockfile []string `toml:"retain_lockfile"`
		SkipTree       []string `toml:"skip_tree"`
		Exclude        []string `toml:"exclude"`
		ExcludePaths   []string `toml:"exclude_paths"`
	} `toml:"harness"`
	Fixtures []struct {
		Name string `toml:"name"`
	} `toml:"fixture"`
}

// Load reads fixtures.toml under root and materializes the fixture registry.
// When the manifest lists no [[fixture]] blocks the registry is built by
// discovering fixture directories under root.
func Load(root string) (*Suite, error) {
	expanded, err := homedir.Expand(root)
	if err != nil {
		return nil, err
	}
	root = expanded

	path := filepath.Join(root, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ManifestMissingFileFmt, path, err)
	}
	var raw manifestFile
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf(messages.ManifestParseFmt, path, err)
	}

	cfg, err := validateConfig(raw)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(raw.Fixtures))
	seen := map[string]bool{}
	for _, entry := range raw.Fixtures {
		if entry.Name == "" {
			return nil, validationError(messages.ManifestFixtureNameEmpty)
		}
		if seen[entry.Name] {
			return nil, validationError(fmt.Sprintf(messages.ManifestFixtureDupFmt, entry.Name))
		}
		seen[entry.Name] = true
		names = append(names, entry.Name)
	}
	if len(names) == 0 {
		names, err = Discover(root)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			seen[name] = true
		}
	}

	retain := map[string]bool{}
	for _, name := range raw.Harness.RetainLockfile {
		if !seen[name] {
			return nil, validationError(fmt.Sprintf(messages.ManifestUnknownRetainFmt, name))
		}
		retain[name] = true
	}
	skip := map[string]bool{}
	for _, name := range raw.Harness.SkipTree {
		if !seen[name] {
			return nil, validationError(fmt.Sprintf(messages.ManifestUnknownSkipFmt, name))
		}
		skip[name] = true
	}

	fixtures := make([]Fixture, 0, len(names))
	for _, name := range names {
		fixtures = append(fixtures, Fixture{
			Name:           name,
			Dir:            filepath.Join(root, name),
			RetainLockfile: retain[name],
			SkipTree:       skip[name],
		})
	}
	return &Suite{Root: root, Config: cfg, Fixtures: fixtures}, nil
}

// Discover enumerates fixture directories under root: plain subdirectories
// whose names contain no literal dot.
func Discover(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf(messages.DiscoverReadRootFmt, root, err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if strings.Contains(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

func validateConfig(raw manifestFile) (Config, error) {
	if len(raw.Harness.Command) == 0 {
		return Config{}, validationError(messages.ManifestCommandRequired)
	}
	if raw.Harness.Timeout == "" {
		return Config{}, validationError(messages.ManifestTimeoutRequired)
	}
	timeout, err := time.ParseDuration(raw.Harness.Timeout)
	if err != nil || timeout <= 0 {
		if err == nil {
			err = errors.New("must be positive")
		}
		return Config{}, validationError(fmt.Sprintf(messages.ManifestTimeoutInvalidFmt, raw.Harness.Timeout, err))
	}
	if raw.Harness.Lockfile == "" {
		return Config{}, validationError(messages.ManifestLockfileRequired)
	}
	if raw.Harness.InstallDir == "" {
		return Config{}, validationError(messages.ManifestInstallRequired)
	}
	return Config{
		Command:      raw.Harness.Command,
		Timeout:      timeout,
		Lockfile:     raw.Harness.Lockfile,
		InstallDir:   raw.Harness.InstallDir,
		Env:          raw.Harness.Env,
		Exclude:      raw.Harness.Exclude,
		ExcludePaths: raw.Harness.ExcludePaths,
	}, nil
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrManifestValidation, msg)
}
