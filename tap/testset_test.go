// testset_test.go
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package tap

import "testing"

func TestGrowCapDoublesFromFloor(t *testing.T) {
	cases := []struct {
		cur, need, want int
	}{
		{0, 1, 32},
		{0, 40, 64},
		{32, 33, 64},
		{64, 200, 256},
	}
	for _, c := range cases {
		got := growCap(c.cur, c.need)
		if got != c.want {
			t.Fatalf("growCap(%d,%d) = %d, want %d", c.cur, c.need, got, c.want)
		}
	}
}

func TestSetResultUpdatesCountersAndCurrent(t *testing.T) {
	ts := NewTestset("x")
	ts.setResult(1, Pass)
	ts.setResult(3, Fail)

	if ts.Passed != 1 || ts.Failed != 1 {
		t.Fatalf("passed=%d failed=%d", ts.Passed, ts.Failed)
	}
	if ts.Current != 3 {
		t.Fatalf("current = %d, want 3", ts.Current)
	}
	if ts.Result(2) != Invalid {
		t.Fatalf("result(2) = %v, want Invalid", ts.Result(2))
	}
}
