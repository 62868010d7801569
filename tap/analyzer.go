// analyzer.go -- reconciles final testset state with child exit disposition
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
	"strings"
)

// Verdict is the Analyzer's classification of one completed testset.
type Verdict struct {
	Success bool
	Summary string // human-readable terminal line for this testset
}

// Analyze implements spec §4.5's verdict precedence. It must be
// called exactly once, after the child has been reaped and its
// Disposition recorded on ts.Status; it performs the
// missing-to-failed promotion as its last step.
func Analyze(ts *Testset) Verdict {
	v := analyzeBeforePromotion(ts)

	missing := ts.promoteMissing()
	if missing > 0 {
		v.Success = false
	}
	return v
}

func analyzeBeforePromotion(ts *Testset) Verdict {
	// 1. Already reported a terminal diagnostic (bail-out, bad
	// plan, bad pragma, duplicate/out-of-range result number).
	if ts.Reported {
		err := &AbortError{Reason: ts.Reason}
		return Verdict{Success: false, Summary: err.Error()}
	}

	// 2. Whole-set skip.
	if ts.AllSkipped {
		if ts.Reason != "" {
			return Verdict{Success: true, Summary: fmt.Sprintf("skipped (%s)", ts.Reason)}
		}
		return Verdict{Success: true, Summary: "skipped"}
	}

	d := ts.Status

	// 3. Reserved child-setup exit code.
	if d.Exited && IsChildSetupCode(d.ExitCode) {
		err := &ChildSetupError{Code: d.ExitCode}
		return Verdict{Success: false, Summary: err.Error()}
	}

	// 4. Any other non-zero exit.
	if d.Exited && d.ExitCode != 0 {
		return Verdict{
			Success: ts.Failed == 0 && !hasMissing(ts),
			Summary: fmt.Sprintf("%s -- exited with status %d", summaryCore(ts), d.ExitCode),
		}
	}

	// 5. Killed by signal.
	if d.Signaled {
		core := ""
		if d.CoreDumped {
			core = " (core dumped)"
		}
		return Verdict{
			Success: false,
			Summary: fmt.Sprintf("%s -- killed by signal %d%s", summaryCore(ts), d.Signal, core),
		}
	}

	// 6. No valid plan ever seen.
	if ts.Plan != First && ts.Plan != Final {
		err := &AbortError{Reason: "no valid test plan"}
		return Verdict{Success: false, Summary: err.Error()}
	}

	// 7. Clean summary.
	ok := ts.Failed == 0 && !hasMissing(ts)
	return Verdict{Success: ok, Summary: summaryCore(ts)}
}

func hasMissing(ts *Testset) bool {
	for i := 0; i < ts.Count && i < ts.Allocated(); i++ {
		if ts.results[i] == Invalid {
			return true
		}
	}
	return ts.Count > ts.Allocated()
}

// summaryCore renders the clean/dubious body of a per-testset summary
// line, matching test_summarize()'s "MISSED x-y; FAILED a-b" framing:
// missing test numbers and failed test numbers are each rendered as
// compressed ranges (FormatRanges), reported before the
// missing-to-failed promotion a caller performs afterward.
func summaryCore(ts *Testset) string {
	missing := missingNumbers(ts)
	failed := failedNumbers(ts)

	if len(missing) == 0 && len(failed) == 0 {
		if ts.Skipped > 0 {
			return fmt.Sprintf("ok, %d/%d skipped", ts.Skipped, ts.Count)
		}
		return "ok"
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("MISSED %s", FormatRanges(missing)))
	}
	if len(failed) > 0 {
		parts = append(parts, fmt.Sprintf("FAILED %s", FormatRanges(failed)))
	}
	return strings.Join(parts, "; ")
}
