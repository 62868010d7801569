// batch.go -- Batch Driver: runs each testset through the Supervisor
// and Interpreter, accumulates aggregate counters

package main

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/opencoff/go-logger"

	"github.com/opencoff/go-tap/internal/locator"
	"github.com/opencoff/go-tap/internal/report"
	"github.com/opencoff/go-tap/proc"
	"github.com/opencoff/go-tap/reader"
	"github.com/opencoff/go-tap/tap"
)

func runBatch(cfg *config, names []string, log logger.Logger) (bool, error) {
	start := time.Now()

	env := os.Environ()
	if cfg.source != "" {
		env = append(env, "SOURCE="+cfg.source)
		env = append(env, "BUILD="+cfg.source)
	}

	sup := proc.NewSupervisor(env)
	sup.CaptureStderr = cfg.captureStderr

	ctx := tap.NewContext()
	ctx.BlockingTime = cfg.blockingTime
	ctx.CaptureStderr = cfg.captureStderr
	ctx.Verbose = cfg.verbose

	interp := tap.NewInterpreter(ctx, log)

	progress := cfg.showProgress && term.IsTerminal(int(os.Stdout.Fd()))
	width := longestName(names)

	var (
		counters report.Counters
		failures []report.Failure
	)

	for _, name := range names {
		ts := tap.NewTestset(name)
		ts.Path = locator.Resolve(name, cfg.source, cfg.source)
		ts.Length = width

		ctx.Pragmas.ResetAll()

		if progress {
			fmt.Printf("%-*s  ", width, name)
		}

		verdict, err := runOne(sup, interp, ts)
		if err != nil {
			return false, err
		}

		// Total tracks individual tests, not testsets, matching
		// test_batch()'s "total" (and Passed/Skipped/Failed, which
		// are already per-test sums) -- the file count is reported
		// separately as nfiles in the Files= trailer below.
		counters.Total += ts.Count
		counters.Passed += ts.Passed
		counters.Skipped += ts.Skipped
		counters.Failed += ts.Failed
		if ts.Aborted {
			counters.Aborted++
		}

		if progress {
			fmt.Println(verdict.Summary)
		}
		if !verdict.Success {
			failures = append(failures, report.Failure{
				Name:        name,
				Summary:     verdict.Summary,
				Aborted:     ts.Aborted,
				FailedCount: ts.Failed,
				Skipped:     ts.Skipped,
				Total:       ts.Count,
				FailedNums:  tap.FailedNumbers(ts),
			})
		}

		log.Debug("%s: %s", name, verdict.Summary)
	}

	var usage unix.Rusage
	unix.Getrusage(unix.RUSAGE_CHILDREN, &usage)
	user := time.Duration(usage.Utime.Sec)*time.Second + time.Duration(usage.Utime.Usec)*time.Microsecond
	sys := time.Duration(usage.Stime.Sec)*time.Second + time.Duration(usage.Stime.Usec)*time.Microsecond

	report.FailSummary(os.Stdout, failures)
	ok := report.Aggregate(os.Stdout, counters, start, len(names), user, sys)
	return ok, nil
}

// runOne spawns one test, feeds its output through the Interpreter
// until EOF/abort, drains any remainder, reaps the child, and
// analyzes the result. This is the per-testset body of spec §4.6.
func runOne(sup *proc.Supervisor, interp *tap.Interpreter, ts *tap.Testset) (tap.Verdict, error) {
	child, err := sup.Spawn(ts.Path)
	if err != nil {
		return tap.Verdict{}, err
	}

	if child.SetupFailed() {
		ts.Status = child.SetupDisposition()
		return tap.Analyze(ts), nil
	}

	rd := reader.New(child.FD(), 4096)
	rd.BlockingTime = interp.Context().BlockingTime

	for {
		rd.Blocking = interp.Context().ReadBlock
		line, terminated, outcome := rd.ReadLine()
		if outcome == reader.IoError {
			break
		}
		if len(line) > 0 || terminated {
			if !ts.Aborted {
				interp.Feed(ts, string(line), terminated)
			}
		}
		if outcome == reader.EndOfStream {
			break
		}
	}

	child.Close()
	ts.Status = child.Reap()

	return tap.Analyze(ts), nil
}

func longestName(names []string) int {
	n := 0
	for _, s := range names {
		if len(s) > n {
			n = len(s)
		}
	}
	return n
}
