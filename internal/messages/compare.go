package messages

// Comparison messages shared by the output, lockfile, and tree stages.
const (
	OutputMismatchFmt   = "output mismatch:\n%s"
	LockfileMismatchFmt = "lockfile mismatch:\n%s"
	LockfileReadFmt     = "read generated lockfile %s: %w"
	LockfileRemoveFmt   = "remove generated lockfile %s: %w"
	GoldenLockReadFmt   = "read golden lockfile %s: %w"

	TreeMissingGeneratedFmt = "failed to generate: %s"
	TreeExtraneousFmt       = "not found in golden snapshot: %s"
	TreeContentMismatchFmt  = "content mismatch: %s\n%s"
	TreeMissingGoldenDirFmt = "tool produced %s but no golden tree is checked in for %q"
	TreeWalkFmt             = "walk %s: %w"
	TreeReadExpectedFmt     = "read golden file %s: %w"
	TreeReadActualFmt       = "read generated file %s: %w"
)
