// reader.go -- byte-at-a-time line reader with bounded blocking retry
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

package reader

import (
	"errors"
	"time"

	"golang.org/x/sys/unix"
)

// Outcome is the result of one Reader.ReadLine call.
type Outcome int

const (
	// MoreAvailable: a complete line was read; more input may follow.
	MoreAvailable Outcome = iota
	// EndOfStream: clean EOF, or the blocking-retry budget was
	// exhausted. The returned line may hold a partial trailing
	// fragment with no newline.
	EndOfStream
	// IoError: an unrecoverable read error.
	IoError
)

// Reader pulls newline-terminated lines off a file descriptor one
// byte at a time, honoring a blocking/non-blocking retry policy
// (spec §4.1). The descriptor is expected to already be open
// non-blocking when Blocking is false; Reader never changes the
// descriptor's own flags.
type Reader struct {
	fd int

	// Blocking, when true, makes EAGAIN/EWOULDBLOCK retry
	// indefinitely (the "readblock" pragma's On state) instead of
	// counting against BlockingTime.
	Blocking bool

	// BlockingTime is the number of one-second retries spent on a
	// would-block condition before giving up, when Blocking is
	// false.
	BlockingTime int

	buf     []byte
	bufSize int
}

// New constructs a Reader over fd with the given line-buffer
// capacity (one byte of which is reserved for the newline
// terminator).
func New(fd int, bufSize int) *Reader {
	if bufSize < 2 {
		bufSize = 2
	}
	return &Reader{fd: fd, bufSize: bufSize, BlockingTime: 60}
}

// ReadLine reads the next line into a fresh []byte (without the
// trailing newline). terminated reports whether a newline was seen;
// false means the buffer filled first (the "too long" case) or the
// stream ended mid-line.
func (r *Reader) ReadLine() (line []byte, terminated bool, outcome Outcome) {
	buf := make([]byte, 0, r.bufSize)
	retries := 0
	var b [1]byte

	for len(buf) < r.bufSize-1 {
		n, err := unix.Read(r.fd, b[:])
		switch {
		case n == 1:
			retries = 0
			if b[0] == '\n' {
				return buf, true, MoreAvailable
			}
			buf = append(buf, b[0])
			continue
		case n == 0 && err == nil:
			// clean EOF
			return buf, false, EndOfStream
		case errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK):
			if r.Blocking {
				time.Sleep(time.Second)
				continue
			}
			retries++
			if retries > r.BlockingTime {
				return buf, false, EndOfStream
			}
			time.Sleep(time.Second)
			continue
		case err != nil:
			return buf, false, IoError
		default:
			// n < 0 with no error: treat as EOF defensively.
			return buf, false, EndOfStream
		}
	}

	// Buffer filled without a newline: the "too long" case.
	return buf, false, MoreAvailable
}
