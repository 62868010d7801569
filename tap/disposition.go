// disposition.go -- child exit disposition, filled in by the Child Supervisor
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

// Disposition is the classified outcome of reaping a test
// executable's child process. The Child Supervisor (package proc)
// fills this in; the Analyzer reads it.
type Disposition struct {
	Exited     bool // process called exit() or returned from main
	ExitCode   int  // valid iff Exited
	Signaled   bool // process was terminated by a signal
	Signal     int  // valid iff Signaled
	CoreDumped bool // valid iff Signaled

	// SpawnErr holds the error from waiting on the child when the
	// wait status shows neither an exit nor a signal. The Analyzer
	// does not consult it.
	SpawnErr error
}

// Clean reports whether the child exited with status 0.
func (d Disposition) Clean() bool {
	return d.Exited && d.ExitCode == 0
}
