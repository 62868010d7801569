// errors.go - descriptive errors for tap
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
)

// AbortError is the "ABORTED (reason)" summary of an aborted
// testset. The Analyzer builds it from Testset.Reason for an abort
// the Interpreter recorded mid-stream, and for a stream that ended
// without a valid plan; it is not stored on the Testset.
type AbortError struct {
	Reason string
}

// Error returns a string representation of AbortError
func (e *AbortError) Error() string {
	return fmt.Sprintf("ABORTED (%s)", e.Reason)
}

// ChildSetupError represents a failure to set up or start the test
// program: a reserved exit code that the Child Supervisor records
// on the Disposition when its own setup steps fail.
type ChildSetupError struct {
	Code int
}

var childSetupReasons = map[int]string{
	100: "could not duplicate file descriptors",
	101: "execution failed -- not found?",
	102: "could not open /dev/null",
}

// Error returns the canned abort message for a reserved child-setup
// exit code.
func (e *ChildSetupError) Error() string {
	reason, ok := childSetupReasons[e.Code]
	if !ok {
		reason = fmt.Sprintf("child setup failed (%d)", e.Code)
	}
	return fmt.Sprintf("ABORTED (%s)", reason)
}

// IsChildSetupCode reports whether code is one of the reserved
// child-setup exit codes (100-102).
func IsChildSetupCode(code int) bool {
	_, ok := childSetupReasons[code]
	return ok
}

var _ error = &AbortError{}
var _ error = &ChildSetupError{}
