// range.go -- compressed test-number range formatting
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package tap

import (
	"fmt"
	"sort"
	"strings"
)

// FormatRanges renders a sorted list of 1-based test numbers as
// compressed ranges ("3-5, 9" rather than "3, 4, 5, 9"), matching the
// original's test_print_range(). Shared by the Analyzer's per-testset
// summary text and the external report formatter's failure trailer.
func FormatRanges(nums []int) string {
	if len(nums) == 0 {
		return ""
	}
	sorted := append([]int(nil), nums...)
	sort.Ints(sorted)

	var parts []string
	start := sorted[0]
	prev := sorted[0]
	flush := func(end int) {
		if start == end {
			parts = append(parts, fmt.Sprintf("%d", start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start, end))
		}
	}
	for _, n := range sorted[1:] {
		if n == prev+1 {
			prev = n
			continue
		}
		flush(prev)
		start, prev = n, n
	}
	flush(prev)
	return strings.Join(parts, ", ")
}

// missingNumbers returns the 1-based indices still Invalid in ts,
// below Count. Call before Analyze's missing-to-failed promotion.
func missingNumbers(ts *Testset) []int {
	var nums []int
	for i := 1; i <= ts.Count; i++ {
		if ts.Result(i) == Invalid {
			nums = append(nums, i)
		}
	}
	return nums
}

// failedNumbers returns the 1-based indices recorded as Fail in ts.
func failedNumbers(ts *Testset) []int {
	var nums []int
	for i := 1; i <= ts.Count && i <= ts.Allocated(); i++ {
		if ts.results[i-1] == Fail {
			nums = append(nums, i)
		}
	}
	return nums
}

// FailedNumbers is the exported form of failedNumbers, for external
// reporting (e.g. the "Failing" column of the Batch Driver's closing
// failure trailer, test_fail_summary()'s equivalent). Call it after
// Analyze so that promoted-missing tests are included, matching the
// original's ordering (test_run() promotes missing to failed before
// the testset is added to the fail list).
func FailedNumbers(ts *Testset) []int {
	return failedNumbers(ts)
}
