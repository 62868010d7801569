// testset.go -- per-test-executable parser state
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

import "golang.org/x/exp/constraints"

const initialResultsCap = 32

// Testset is the complete parser state for one test executable. It
// is constructed empty from a logical test name, mutated exclusively
// by an Interpreter while the test's output is being consumed, and
// finally handed to an Analyzer once the child has been reaped.
type Testset struct {
	File string // caller-supplied logical name
	Path string // resolved executable path, filled by the locator

	Plan    PlanStatus
	Count   int // expected number of tests; 0 until a plan is seen
	Current int // last test number observed

	results []TestStatus // indexed by test-number - 1

	Passed  int
	Failed  int
	Skipped int

	Aborted    bool
	Reported   bool
	AllSkipped bool
	Reason     string

	TapVersion int // 0 until the first line is inspected

	Status Disposition // raw child exit disposition, filled by the Supervisor

	Length int // cosmetic cursor width for the progress printer
}

// NewTestset constructs an empty Testset for the given logical test
// name. Every invariant-bearing field starts at its zero value:
// Plan == Init, Count == 0, no results allocated yet.
func NewTestset(name string) *Testset {
	return &Testset{File: name}
}

// Allocated reports the current capacity of the results table.
func (ts *Testset) Allocated() int {
	return len(ts.results)
}

// Result returns the status recorded for test number n (1-based), or
// Invalid if n falls outside the allocated range.
func (ts *Testset) Result(n int) TestStatus {
	if n < 1 || n > len(ts.results) {
		return Invalid
	}
	return ts.results[n-1]
}

// grow ensures the results table has capacity for at least n slots,
// doubling geometrically from an initial capacity of 32, with new
// slots initialized to Invalid.
func (ts *Testset) grow(n int) {
	if n <= len(ts.results) {
		return
	}
	newCap := growCap(len(ts.results), n)
	grown := make([]TestStatus, newCap)
	copy(grown, ts.results)
	ts.results = grown
}

// growCap computes the next capacity for a slice currently at cur
// that must hold at least need elements: double from an initial
// floor, but never less than need itself.
func growCap[T constraints.Integer](cur, need T) T {
	if cur == 0 {
		cur = initialResultsCap
	}
	for cur < need {
		cur *= 2
	}
	return cur
}

// setResult records status at test number n, updating the running
// counters. The caller is responsible for verifying n is in-range
// and that the slot was previously Invalid (duplicate check lives in
// the Interpreter, per the line-dispatch priority order in §4.4).
func (ts *Testset) setResult(n int, status TestStatus) {
	ts.grow(n)
	ts.results[n-1] = status
	switch status {
	case Pass:
		ts.Passed++
	case Fail:
		ts.Failed++
	case Skip:
		ts.Skipped++
	}
	ts.Current = n
	if n > ts.Count {
		ts.Count = n
	}
}

// promoteMissing converts every still-Invalid slot below Count to
// Fail, incrementing the failure counter for each. Called by the
// Analyzer as the terminal step of every run, per spec §4.5's
// missing-to-failed conversion.
func (ts *Testset) promoteMissing() int {
	n := 0
	for i := 0; i < ts.Count && i < len(ts.results); i++ {
		if ts.results[i] == Invalid {
			ts.results[i] = Fail
			ts.Failed++
			n++
		}
	}
	// Slots beyond Allocated() but below Count are counted as
	// missing too. The Interpreter grows the table before raising
	// Count, so this loop only matters for a Count set directly.
	for i := len(ts.results); i < ts.Count; i++ {
		ts.Failed++
		n++
	}
	return n
}
