// supervisor.go -- child-process supervisor: fork/exec, pipe ownership, exit classification
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

package proc

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/opencoff/go-tap/tap"
)

// Reserved child-setup exit codes, collide-free with plausible test
// exit codes (spec §4.2).
const (
	ExitDupFailed   = 100
	ExitExecFailed  = 101
	ExitNullFailed  = 102
)

// Child is a spawned test executable: the Supervisor owns its read
// FD and PID until Reap releases them.
type Child struct {
	cmd    *exec.Cmd
	readFd int
	readFh *os.File

	// spawnSetupCode is set when the Supervisor itself detected a
	// setup-phase failure before/during Start (e.g. could not open
	// the null sink) and wants the Analyzer to see it as though the
	// child had raised the reserved exit code itself.
	spawnSetupCode int
}

// Supervisor launches test executables with stdout (and optionally
// stderr) redirected to a pipe it owns until handed to a Line
// Reader.
type Supervisor struct {
	CaptureStderr bool
	Env           []string
}

// NewSupervisor builds a Supervisor with the given environment
// (typically os.Environ() plus SOURCE/BUILD, per spec §6).
func NewSupervisor(env []string) *Supervisor {
	return &Supervisor{Env: env}
}

// Spawn starts path with no arguments beyond its own name, per the
// child-process contract in spec §6. It returns the Child with its
// read FD already set non-blocking, or a fatal error if the harness
// itself could not set up the pipe (parent-side failure, fatal to
// the whole process per spec §4.2/§7).
func (s *Supervisor) Spawn(path string) (*Child, error) {
	rf, wf, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("proc: pipe: %w", err)
	}

	cmd := exec.Command(path)
	cmd.Env = s.Env
	cmd.Stdout = wf

	var nullFh *os.File
	if s.CaptureStderr {
		cmd.Stderr = wf
	} else {
		nullFh, err = os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			rf.Close()
			wf.Close()
			return &Child{spawnSetupCode: ExitNullFailed}, nil
		}
		cmd.Stderr = nullFh
	}

	startErr := cmd.Start()

	// The parent's copies of the child-side fds must be closed
	// immediately once the child has its own duplicates (or failed
	// to start at all).
	wf.Close()
	if nullFh != nil {
		nullFh.Close()
	}

	if startErr != nil {
		rf.Close()
		if isExecNotFound(startErr) {
			return &Child{spawnSetupCode: ExitExecFailed}, nil
		}
		return nil, fmt.Errorf("proc: start %s: %w", path, startErr)
	}

	// rf.Fd() puts the file into blocking mode each time it is called,
	// so take the descriptor once and set it non-blocking afterwards.
	fd := int(rf.Fd())
	if err := unix.SetNonblock(fd, true); err != nil {
		rf.Close()
		return &Child{spawnSetupCode: ExitDupFailed}, nil
	}

	return &Child{cmd: cmd, readFd: fd, readFh: rf}, nil
}

// SetupFailed reports whether Spawn detected a setup-phase failure;
// when true, FD() is meaningless and the caller should skip
// straight to building the canned Disposition via SetupDisposition.
func (c *Child) SetupFailed() bool {
	return c.spawnSetupCode != 0
}

// SetupDisposition returns the canned Disposition corresponding to a
// setup-phase failure detected by Spawn.
func (c *Child) SetupDisposition() tap.Disposition {
	return tap.Disposition{Exited: true, ExitCode: c.spawnSetupCode}
}

// FD returns the read end of the child's output pipe. The Line
// Reader owns it until EOF; ownership then returns to the
// Supervisor, which must Close it.
func (c *Child) FD() int {
	return c.readFd
}

// Close releases the Supervisor's ownership of the read FD.
func (c *Child) Close() error {
	if c.readFh == nil {
		return nil
	}
	return c.readFh.Close()
}

// Reap waits for the child and classifies its exit disposition.
func (c *Child) Reap() tap.Disposition {
	if c.cmd == nil {
		return c.SetupDisposition()
	}

	err := c.cmd.Wait()
	ws, _ := c.cmd.ProcessState.Sys().(syscall.WaitStatus)

	d := tap.Disposition{}
	switch {
	case ws.Exited():
		d.Exited = true
		d.ExitCode = ws.ExitStatus()
	case ws.Signaled():
		d.Signaled = true
		d.Signal = int(ws.Signal())
		d.CoreDumped = ws.CoreDump()
	case err != nil:
		d.SpawnErr = err
	}
	return d
}

func isExecNotFound(err error) bool {
	var perr *os.PathError
	if errors.As(err, &perr) {
		return errors.Is(perr.Err, os.ErrNotExist) || errors.Is(perr.Err, os.ErrPermission)
	}
	var eerr *exec.Error
	return errors.As(err, &eerr)
}
