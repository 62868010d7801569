// report_test.go
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package report

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintRangeCompressesConsecutive(t *testing.T) {
	got := PrintRange([]int{9, 3, 4, 5})
	want := "3-5, 9"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPrintRangeSingletons(t *testing.T) {
	got := PrintRange([]int{1, 3, 5})
	want := "1, 3, 5"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFailSummaryRendersFailingRanges(t *testing.T) {
	var buf bytes.Buffer
	FailSummary(&buf, []Failure{
		{Name: "t1", FailedCount: 2, Skipped: 0, Total: 5, FailedNums: []int{2, 3}},
	})
	out := buf.String()
	if !strings.Contains(out, "t1") || !strings.Contains(out, "2-3") {
		t.Fatalf("output missing name or range: %q", out)
	}
}

func TestFailSummaryRendersAborted(t *testing.T) {
	var buf bytes.Buffer
	FailSummary(&buf, []Failure{{Name: "t2", Aborted: true}})
	out := buf.String()
	if !strings.Contains(out, "aborted") {
		t.Fatalf("output missing aborted marker: %q", out)
	}
}
