// context.go -- harness-wide mutable knobs, threaded explicitly
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

// Context bundles the process-wide mutable toggles spec §5 and §9
// call out: blocking_time, strict, capture_stderr, and the pragma
// registry that may adjust some of them mid-stream. It is threaded
// explicitly through the Interpreter and Line Reader rather than
// kept as package-level globals, per §9's "avoid actual module-level
// globals" guidance.
type Context struct {
	// BlockingTime is the retry budget (seconds) a non-blocking
	// Line Reader spends on EAGAIN before giving up.
	BlockingTime int

	// Strict enables strict TAP enforcement; toggled by the
	// "strict" pragma.
	Strict bool

	// ReadBlock, when true, tells the Line Reader to treat the
	// child pipe as blocking (unbounded retry); toggled by the
	// "readblock" pragma.
	ReadBlock bool

	// CaptureStderr merges the child's stderr into the same pipe
	// as stdout instead of redirecting it to the null sink.
	CaptureStderr bool

	// Verbose is the repeat count of -v; level 1+ additionally
	// logs the text of each diagnostic line. Every consumed line is
	// logged whatever the level.
	Verbose int

	Pragmas *PragmaRegistry
}

// NewContext builds a Context with its Pragma Registry populated
// with the built-in pragmas, bound to this context's own knobs.
func NewContext() *Context {
	ctx := &Context{
		BlockingTime: 60,
		Pragmas:      NewPragmaRegistry(),
	}
	ctx.Pragmas.RegisterBuiltins(ctx)
	return ctx
}
