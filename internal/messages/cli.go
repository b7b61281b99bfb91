package messages

// CLI messages for user-facing commands and flags.
const (
	// RootUse is the CLI command name.
	RootUse = "snaph"
	// RootShort is the short description for the root command.
	RootShort = "Snapshot harness for the installer CLI"
	RootLong  = "snaph runs each fixture through the tool under test and compares the\nnormalized output, lockfile, and install tree against golden artifacts."

	VersionTemplate = "{{.Version}}\n"

	RunUse   = "run"
	RunShort = "Run every fixture and report pass/fail"

	ListUse   = "list"
	ListShort = "Print the effective fixture registry"

	FlagFixturesRoot = "Path to the fixtures root (directory containing fixtures.toml)"
	FlagOnly         = "Run only the named fixture"
	FlagUpdate       = "Rewrite golden output and lockfile artifacts from this run"
	FlagNoColor      = "Disable colored output"

	RunOnlyUnknownFmt = "no fixture named %q in the registry"

	ListEntryFmt = "%-24s retain-lockfile=%-5v skip-tree=%v\n"

	SummaryPassedFmt = "%d passed"
	SummaryFailedFmt = ", %d failed"
	SummaryLineFmt   = "\n%s (%d fixtures)\n"
)
