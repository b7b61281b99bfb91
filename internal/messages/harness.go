package messages

// Harness messages for manifest loading and fixture orchestration.
const (
	ManifestMissingFileFmt    = "missing manifest file %s: %w"
	ManifestParseFmt          = "parse manifest %s: %w"
	ManifestCommandRequired   = "harness.command must name the tool under test"
	ManifestTimeoutRequired   = "harness.timeout is required; a hung tool must not stall the suite"
	ManifestTimeoutInvalidFmt = "harness.timeout %q: %v"
	ManifestLockfileRequired  = "harness.lockfile is required"
	ManifestInstallRequired   = "harness.install_dir is required"
	ManifestFixtureNameEmpty  = "fixture entries must have a name"
	ManifestFixtureDupFmt     = "duplicate fixture entry %q"
	ManifestUnknownRetainFmt  = "retain_lockfile names unknown fixture %q"
	ManifestUnknownSkipFmt    = "skip_tree names unknown fixture %q"

	DiscoverReadRootFmt = "read fixtures root %s: %w"

	FixtureGoldenOutputMissingFmt = "golden output %s is missing from disk"
	FixtureSpawnFmt               = "spawn tool under test: %w"
	FixtureTimedOutFmt            = "%w after %s"

	HarnessErrorPrefix = "test harness: "

	ReportPass       = "PASS"
	ReportFail       = "FAIL"
	ReportFixtureFmt = "%s  %s\n"
	ReportDetailFmt  = "      %s: %s\n"
	ReportUpdatedFmt = "updated %s\n"
)
