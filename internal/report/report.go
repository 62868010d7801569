// report.go -- aggregate batch summary / failure-list formatting
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package report

import (
	"fmt"
	"io"
	"time"

	"github.com/opencoff/go-tap/tap"
)

// Counters are the Batch Driver's running aggregate totals (spec
// §4.6). Total, Passed, Skipped, and Failed all count individual
// tests (summed across every testset's plan), not testsets; Aborted
// counts testsets, and the file/testset count is passed to Aggregate
// separately as nfiles.
type Counters struct {
	Total   int
	Passed  int
	Skipped int
	Failed  int
	Aborted int
}

// Failure records one testset that did not end in a success verdict,
// for the closing "Failed Set" trailer.
type Failure struct {
	Name    string
	Summary string

	Aborted     bool
	FailedCount int
	Skipped     int
	Total       int
	FailedNums  []int // 1-based, post-promotion; rendered via PrintRange
}

// PrintRange renders a sorted list of 1-based test numbers as
// compressed ranges ("3-5, 9") rather than one number per entry,
// matching the original's test_print_range(). Delegates to
// tap.FormatRanges, the same range compressor the Analyzer uses for
// its own per-testset MISSED/FAILED summary text.
func PrintRange(nums []int) string {
	return tap.FormatRanges(nums)
}

// FailSummary prints the closing "Failed Set" trailer across the
// whole batch, matching test_fail_summary(): one line per failed
// testset with its Fail/Total percentage and skip count, followed by
// either "aborted" or the compressed range of failing test numbers
// (PrintRange, the Go equivalent of test_print_range()).
func FailSummary(w io.Writer, failures []Failure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintln(w, "\nFailed Set\t\t\tFail/Total\t(%)\tSkip\tFailing")
	for _, f := range failures {
		total := f.Total - f.Skipped
		pct := 0.0
		if total > 0 {
			pct = 100.0 * float64(f.FailedCount) / float64(total)
		}
		fmt.Fprintf(w, "%-24s\t%4d/%-4d\t%3.0f%%\t%4d\t", f.Name, f.FailedCount, total, pct, f.Skipped)
		if f.Aborted {
			fmt.Fprintln(w, "aborted")
			continue
		}
		fmt.Fprintln(w, PrintRange(f.FailedNums))
	}
}

// Aggregate prints the two-line closing summary from test_batch(),
// plus a Files/Tests/timing trailer, and reports whether the whole
// batch succeeded.
func Aggregate(w io.Writer, c Counters, start time.Time, nfiles int, user, sys time.Duration) bool {
	if c.Aborted > 0 {
		fmt.Fprintf(w, "Aborted %d test set(s), passed %d/%d tests\n", c.Aborted, c.Passed, c.Total)
	}

	pct := 100.0
	if c.Total > 0 {
		pct = 100.0 * float64(c.Total-c.Failed) / float64(c.Total)
	}
	if c.Failed > 0 {
		fmt.Fprintf(w, "Failed %d/%d tests, %.2f%% okay\n", c.Failed, c.Total, pct)
	}

	wall := time.Since(start).Seconds()
	cpu := user.Seconds() + sys.Seconds()
	fmt.Fprintf(w, "Files=%d,  Tests=%d,  %.2f seconds (%.2f usr + %.2f sys = %.2f CPU)\n",
		nfiles, c.Total, wall, user.Seconds(), sys.Seconds(), cpu)

	return c.Failed == 0 && c.Aborted == 0
}
