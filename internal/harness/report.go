package harness

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/conn-castle/snap-harness/internal/messages"
)

// Reporter renders per-fixture results and the suite summary.
type Reporter struct {
	Out io.Writer
	// Color enables ANSI-colored PASS/FAIL markers.
	Color bool
}

// Print writes one line per fixture plus failure details and a summary line.
func (r Reporter) Print(results []FixtureResult) {
	for _, result := range results {
		marker := r.marker(result.Passed())
		fmt.Fprintf(r.Out, messages.ReportFixtureFmt, marker, result.Fixture.Name)
		for _, failure := range result.Failures {
			message := strings.ReplaceAll(failure.Message, "\n", "\n      ")
			fmt.Fprintf(r.Out, messages.ReportDetailFmt, failure.Kind, message)
		}
	}

	passed, failed := Summary(results)
	line := fmt.Sprintf(messages.SummaryPassedFmt, passed)
	if failed > 0 {
		line += fmt.Sprintf(messages.SummaryFailedFmt, failed)
	}
	fmt.Fprintf(r.Out, messages.SummaryLineFmt, line, len(results))
}

func (r Reporter) marker(passed bool) string {
	if !r.Color {
		if passed {
			return messages.ReportPass
		}
		return messages.ReportFail
	}
	if passed {
		return color.GreenString(messages.ReportPass)
	}
	return color.RedString(messages.ReportFail)
}

// Summary counts passed and failed fixtures.
func Summary(results []FixtureResult) (passed int, failed int) {
	for _, result := range results {
		if result.Passed() {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}
