// interpreter_test.go -- TAP Interpreter and Analyzer scenarios
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package tap

import (
	"strings"
	"testing"
)

func feedAll(p *Interpreter, ts *Testset, stream string) {
	lines := strings.Split(stream, "\n")
	for i, l := range lines {
		if l == "" && i == len(lines)-1 {
			// trailing split artifact from a final "\n"
			continue
		}
		p.Feed(ts, l, true)
	}
}

func newTestInterpreter() (*Interpreter, *Context) {
	ctx := NewContext()
	return NewInterpreter(ctx, nil), ctx
}

func TestScenarioSimplePlanFirst(t *testing.T) {
	p, _ := newTestInterpreter()
	ts := NewTestset("t1")
	feedAll(p, ts, "1..2\nok 1\nok 2\n")

	if ts.Plan != First {
		t.Fatalf("plan = %v, want First", ts.Plan)
	}
	if ts.Passed != 2 || ts.Failed != 0 {
		t.Fatalf("passed=%d failed=%d, want 2/0", ts.Passed, ts.Failed)
	}
	v := Analyze(ts)
	if !v.Success {
		t.Fatalf("verdict = %+v, want success", v)
	}
}

func TestScenarioWholeSetSkip(t *testing.T) {
	p, _ := newTestInterpreter()
	ts := NewTestset("t2")
	feedAll(p, ts, "1..0 # skip no platform\n")

	if !ts.AllSkipped {
		t.Fatalf("expected AllSkipped")
	}
	v := Analyze(ts)
	if !v.Success || v.Summary != "skipped (no platform)" {
		t.Fatalf("verdict = %+v, want success skipped (no platform)", v)
	}
}

func TestScenarioLazyPlan(t *testing.T) {
	p, _ := newTestInterpreter()
	ts := NewTestset("t3")
	feedAll(p, ts, "ok 1\nok 2\n1..2\n")

	if ts.Plan != Final {
		t.Fatalf("plan = %v, want Final", ts.Plan)
	}
	v := Analyze(ts)
	if !v.Success || ts.Passed != 2 {
		t.Fatalf("verdict = %+v passed=%d, want success passed=2", v, ts.Passed)
	}
}

func TestScenarioFailAndSkipDirective(t *testing.T) {
	p, _ := newTestInterpreter()
	ts := NewTestset("t4")
	feedAll(p, ts, "1..3\nok 1\nnot ok 2\nok 3 # skip flaky\n")

	if ts.Passed != 1 || ts.Failed != 1 || ts.Skipped != 1 {
		t.Fatalf("passed=%d failed=%d skipped=%d, want 1/1/1", ts.Passed, ts.Failed, ts.Skipped)
	}
	v := Analyze(ts)
	if v.Success {
		t.Fatalf("expected failure verdict, got %+v", v)
	}
}

func TestScenarioBailOut(t *testing.T) {
	p, _ := newTestInterpreter()
	ts := NewTestset("t5")
	feedAll(p, ts, "1..2\nok 1\nBail out! db down\n")

	if !ts.Aborted || !ts.Reported {
		t.Fatalf("expected aborted+reported")
	}
	v := Analyze(ts)
	if v.Success || v.Summary != "ABORTED (db down)" {
		t.Fatalf("verdict = %+v, want failure ABORTED (db down)", v)
	}
}

func TestScenarioPragmaStrictResetBetweenTestsets(t *testing.T) {
	ctx := NewContext()
	p := NewInterpreter(ctx, nil)

	ts1 := NewTestset("t6a")
	feedAll(p, ts1, "TAP version 13\npragma +strict\n1..1\nok 1\n")
	if !ctx.Strict {
		t.Fatalf("expected strict enabled mid-stream")
	}

	ctx.Pragmas.ResetAll()
	if ctx.Strict {
		t.Fatalf("expected strict restored to CLI default after reset")
	}

	ts2 := NewTestset("t6b")
	feedAll(p, ts2, "TAP version 12\n1..1\nok 1\n")
	if ctx.Strict {
		t.Fatalf("strict leaked into second testset")
	}
}

func TestScenarioChildSetupExecFailure(t *testing.T) {
	p, _ := newTestInterpreter()
	ts := NewTestset("t7")
	feedAll(p, ts, "TAP version 13\n1..1\n")
	ts.Status = Disposition{Exited: true, ExitCode: 101}

	v := Analyze(ts)
	if v.Success {
		t.Fatalf("expected failure")
	}
	if v.Summary != "ABORTED (execution failed -- not found?)" {
		t.Fatalf("summary = %q", v.Summary)
	}
}

func TestBoundaryLonePlanZeroWithoutSkipAborts(t *testing.T) {
	p, _ := newTestInterpreter()
	ts := NewTestset("b1")
	feedAll(p, ts, "1..0\n")

	if !ts.Aborted || ts.Reason != "invalid test count" {
		t.Fatalf("ts = %+v, want aborted invalid test count", ts)
	}
}

func TestBoundaryZeroResultNumberAborts(t *testing.T) {
	p, _ := newTestInterpreter()
	ts := NewTestset("b2")
	feedAll(p, ts, "1..1\nok 0\n")

	if !ts.Aborted {
		t.Fatalf("expected abort on test number 0")
	}
}

func TestBoundaryTooLongLineIgnored(t *testing.T) {
	p, _ := newTestInterpreter()
	ts := NewTestset("b3")
	p.Feed(ts, "1..1", true)
	p.Feed(ts, "some partial line with no newline", false)
	p.Feed(ts, "ok 1", true)

	if ts.Aborted {
		t.Fatalf("too-long line should not abort")
	}
	if ts.Passed != 1 {
		t.Fatalf("passed = %d, want 1", ts.Passed)
	}
}

func TestBoundaryBailOutEmptyTrailer(t *testing.T) {
	p, _ := newTestInterpreter()
	ts := NewTestset("b4")
	feedAll(p, ts, "1..1\nBail out!\n")

	if !ts.Aborted || ts.Reason != "" {
		t.Fatalf("ts = %+v, want aborted with empty reason", ts)
	}
}

func TestTodoPassRemainsFail(t *testing.T) {
	p, _ := newTestInterpreter()
	ts := NewTestset("b5")
	feedAll(p, ts, "1..1\nok 1 # todo not implemented yet\n")

	if ts.Result(1) != Fail {
		t.Fatalf("result = %v, want Fail (todo pass stays Fail per policy)", ts.Result(1))
	}
}

func TestDuplicateResultNumberAborts(t *testing.T) {
	p, _ := newTestInterpreter()
	ts := NewTestset("b6")
	feedAll(p, ts, "1..2\nok 1\nok 1\n")

	if !ts.Aborted || ts.Reason != "duplicate test number 1" {
		t.Fatalf("ts = %+v", ts)
	}
}

func TestMultiplePlansAborts(t *testing.T) {
	p, _ := newTestInterpreter()
	ts := NewTestset("b7")
	feedAll(p, ts, "1..1\nok 1\n1..2\n")

	if !ts.Aborted || ts.Reason != "multiple plans" {
		t.Fatalf("ts = %+v", ts)
	}
}

func TestMissingResultPromotedToFail(t *testing.T) {
	p, _ := newTestInterpreter()
	ts := NewTestset("b8")
	feedAll(p, ts, "1..3\nok 1\nok 2\n")

	v := Analyze(ts)
	if v.Success {
		t.Fatalf("expected failure due to missing test 3")
	}
	if ts.Result(3) != Fail {
		t.Fatalf("result(3) = %v, want promoted Fail", ts.Result(3))
	}
}
