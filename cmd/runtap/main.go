// main.go -- CLI entrypoint: parses flags and drives the batch

package main

import (
	"fmt"
	"os"

	flag "github.com/opencoff/pflag"
	"github.com/opencoff/go-logger"

	"github.com/opencoff/go-tap/internal/testlist"
)

// config mirrors the original getopt flags documented in
// SPEC_FULL.md §A ("b:hl:os:L:avep").
type config struct {
	blockingTime  int
	testList      string
	single        bool
	source        string
	logFile       string
	logAppend     bool
	verbose       int
	captureStderr bool
	showProgress  bool
}

func main() {
	var cfg config

	flag.IntVarP(&cfg.blockingTime, "blocking-time", "b", 60, "seconds to retry a would-block read")
	flag.StringVarP(&cfg.testList, "test-list", "l", "", "path to a newline-delimited test-list file")
	flag.BoolVarP(&cfg.single, "single", "o", false, "run a single named test")
	flag.StringVarP(&cfg.source, "source", "s", "", "source root, exported as SOURCE")
	flag.StringVarP(&cfg.logFile, "log", "L", "stdout", "log-file path (stdout/stderr special-cased)")
	flag.BoolVarP(&cfg.logAppend, "log-append", "a", false, "open the log file for append")
	flag.CountVarP(&cfg.verbose, "verbose", "v", "increase verbosity (repeatable)")
	flag.BoolVarP(&cfg.captureStderr, "capture-stderr", "e", false, "merge child stderr into the captured pipe")
	flag.BoolVarP(&cfg.showProgress, "show-progress", "p", false, "show an isatty-gated progress line")

	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 && cfg.testList == "" {
		usage()
		os.Exit(2)
	}

	log, err := openLogger(cfg.logFile, cfg.logAppend)
	if err != nil {
		fatalf("runtap: %s", err)
	}

	names, err := testNames(&cfg, args)
	if err != nil {
		fatalf("runtap: %s", err)
	}

	ok, err := runBatch(&cfg, names, log)
	if err != nil {
		fatalf("runtap: %s", err)
	}
	if !ok {
		os.Exit(1)
	}
}

// openLogger builds the Logger collaborator (SPEC_FULL.md §A). Names
// "stdout"/"stderr" bind to the corresponding stream, per the
// log_open/log_close contract in the original's log.c, and are never
// truncated. Any other name is opened via go-logger's NewLogger, which
// appends to an existing file; when append is false we truncate first
// so a fresh run starts from an empty log, honoring the two-parameter
// open(name, append) contract spec.md §6 documents.
func openLogger(name string, append bool) (logger.Logger, error) {
	flags := logger.Ldate | logger.Ltime | logger.Lmicroseconds | logger.Lfileloc
	if !append && name != "stdout" && name != "stderr" {
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return nil, fmt.Errorf("log: %w", err)
		}
		f.Close()
	}
	return logger.NewLogger(name, logger.LOG_DEBUG, "runtap", flags)
}

func testNames(cfg *config, args []string) ([]string, error) {
	if cfg.single || cfg.testList == "" {
		return args, nil
	}
	f, err := os.Open(cfg.testList)
	if err != nil {
		return nil, fmt.Errorf("test-list: %w", err)
	}
	defer f.Close()
	return testlist.Read(f)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] test...\n\n", os.Args[0])
	flag.PrintDefaults()
}

func fatalf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", v...)
	os.Exit(1)
}
