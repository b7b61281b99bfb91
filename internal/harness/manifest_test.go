package harness

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/conn-castle/snap-harness/internal/testutil"
)

const minimalManifest = `
[harness]
command = ["/bin/sh", "./run.sh"]
timeout = "10s"
lockfile = "tool-lock.json"
install_dir = "install"
`

func TestLoadExplicitRegistry(t *testing.T) {
	root := t.TempDir()
	manifest := minimalManifest + `
env = ["TOOL_NONINTERACTIVE=1"]
retain_lockfile = ["lockfile-format"]
skip_tree = ["platform-spinner"]
exclude = ["common-"]

[[fixture]]
name = "basic"

[[fixture]]
name = "lockfile-format"

[[fixture]]
name = "platform-spinner"
`
	testutil.WriteFile(t, filepath.Join(root, ManifestName), manifest)

	suite, err := Load(root)
	require.NoError(t, err)
	require.Equal(t, []string{"/bin/sh", "./run.sh"}, suite.Config.Command)
	require.Equal(t, 10*time.Second, suite.Config.Timeout)
	require.Equal(t, "tool-lock.json", suite.Config.Lockfile)
	require.Equal(t, []string{"TOOL_NONINTERACTIVE=1"}, suite.Config.Env)
	require.Len(t, suite.Fixtures, 3)

	byName := map[string]Fixture{}
	for _, fixture := range suite.Fixtures {
		byName[fixture.Name] = fixture
	}
	require.True(t, byName["lockfile-format"].RetainLockfile)
	require.False(t, byName["basic"].RetainLockfile)
	require.True(t, byName["platform-spinner"].SkipTree)
	require.Equal(t, filepath.Join(root, "basic"), byName["basic"].Dir)
}

func TestLoadDiscoversWhenRegistryEmpty(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, filepath.Join(root, ManifestName), minimalManifest)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "basic"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "error-missing-pkg"), 0o755))
	// Dotted names and plain files are not fixtures.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "v1.skip"), 0o755))
	testutil.WriteFile(t, filepath.Join(root, "notes"), "not a fixture\n")

	suite, err := Load(root)
	require.NoError(t, err)
	require.Len(t, suite.Fixtures, 2)
	names := []string{suite.Fixtures[0].Name, suite.Fixtures[1].Name}
	require.ElementsMatch(t, []string{"basic", "error-missing-pkg"}, names)
}

func TestLoadValidationErrors(t *testing.T) {
	cases := []struct {
		name     string
		manifest string
	}{
		{"missing command", "[harness]\ntimeout = \"10s\"\nlockfile = \"l\"\ninstall_dir = \"i\"\n"},
		{"missing timeout", "[harness]\ncommand = [\"tool\"]\nlockfile = \"l\"\ninstall_dir = \"i\"\n"},
		{"bad timeout", "[harness]\ncommand = [\"tool\"]\ntimeout = \"soon\"\nlockfile = \"l\"\ninstall_dir = \"i\"\n"},
		{"missing lockfile", "[harness]\ncommand = [\"tool\"]\ntimeout = \"10s\"\ninstall_dir = \"i\"\n"},
		{"missing install dir", "[harness]\ncommand = [\"tool\"]\ntimeout = \"10s\"\nlockfile = \"l\"\n"},
		{"unnamed fixture", minimalManifest + "[[fixture]]\n"},
		{"duplicate fixture", minimalManifest + "[[fixture]]\nname = \"a\"\n[[fixture]]\nname = \"a\"\n"},
		{"unknown retain", minimalManifest + "retain_lockfile = [\"ghost\"]\n[[fixture]]\nname = \"a\"\n"},
		{"unknown skip", minimalManifest + "skip_tree = [\"ghost\"]\n[[fixture]]\nname = \"a\"\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			root := t.TempDir()
			testutil.WriteFile(t, filepath.Join(root, ManifestName), tc.manifest)
			_, err := Load(root)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrManifestValidation), "want validation error, got %v", err)
		})
	}
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrManifestValidation))
}

func TestGoldenOutputPathPlatformOverride(t *testing.T) {
	dir := t.TempDir()
	fixture := Fixture{Name: "basic", Dir: dir}

	require.Equal(t, filepath.Join(dir, "expected-output.txt"), fixture.GoldenOutputPath("linux"))
	// Without the override file, Windows falls back to the default.
	require.Equal(t, filepath.Join(dir, "expected-output.txt"), fixture.GoldenOutputPath("windows"))

	testutil.WriteFile(t, filepath.Join(dir, "expected-output.win.txt"), "x\n")
	require.Equal(t, filepath.Join(dir, "expected-output.win.txt"), fixture.GoldenOutputPath("windows"))
	require.Equal(t, filepath.Join(dir, "expected-output.txt"), fixture.GoldenOutputPath("linux"))
}
