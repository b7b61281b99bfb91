package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conn-castle/snap-harness/internal/harness"
	"github.com/conn-castle/snap-harness/internal/messages"
	"github.com/conn-castle/snap-harness/internal/terminal"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(messages.VersionTemplate)
	root.AddCommand(newRunCmd())
	root.AddCommand(newListCmd())
	return root
}

func newRunCmd() *cobra.Command {
	var fixturesRoot string
	var only string
	var update bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   messages.RunUse,
		Short: messages.RunShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := harness.Load(fixturesRoot)
			if err != nil {
				return err
			}
			if only != "" {
				if err := filterSuite(suite, only); err != nil {
					return err
				}
			}

			orch := harness.NewOrchestrator(suite)
			orch.Update = update
			results := orch.Run(cmd.Context())

			out := cmd.OutOrStdout()
			reporter := harness.Reporter{
				Out:   out,
				Color: !noColor && terminal.IsInteractive(out),
			}
			reporter.Print(results)
			for _, path := range orch.Updated {
				fmt.Fprintf(out, messages.ReportUpdatedFmt, path)
			}

			return exitError(results)
		},
	}
	cmd.Flags().StringVarP(&fixturesRoot, "fixtures", "f", ".", messages.FlagFixturesRoot)
	cmd.Flags().StringVar(&only, "only", "", messages.FlagOnly)
	cmd.Flags().BoolVar(&update, "update", false, messages.FlagUpdate)
	cmd.Flags().BoolVar(&noColor, "no-color", false, messages.FlagNoColor)
	return cmd
}

func newListCmd() *cobra.Command {
	var fixturesRoot string

	cmd := &cobra.Command{
		Use:   messages.ListUse,
		Short: messages.ListShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			suite, err := harness.Load(fixturesRoot)
			if err != nil {
				return err
			}
			for _, fixture := range suite.Fixtures {
				fmt.Fprintf(cmd.OutOrStdout(), messages.ListEntryFmt,
					fixture.Name, fixture.RetainLockfile, fixture.SkipTree)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&fixturesRoot, "fixtures", "f", ".", messages.FlagFixturesRoot)
	return cmd
}

// filterSuite narrows the registry to the named fixture.
func filterSuite(suite *harness.Suite, name string) error {
	for _, fixture := range suite.Fixtures {
		if fixture.Name == name {
			suite.Fixtures = []harness.Fixture{fixture}
			return nil
		}
	}
	return fmt.Errorf(messages.RunOnlyUnknownFmt, name)
}

// exitError maps suite results to the process exit code: 2 for harness
// errors, 1 for tool-under-test regressions, nil when everything passed.
func exitError(results []harness.FixtureResult) error {
	harnessErr := false
	failed := false
	for _, result := range results {
		if result.HarnessError() {
			harnessErr = true
		}
		if !result.Passed() {
			failed = true
		}
	}
	if harnessErr {
		return &SilentExitError{Code: 2}
	}
	if failed {
		return &SilentExitError{Code: 1}
	}
	return nil
}
