// interpreter.go -- stateful per-testset TAP stream parser
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
	"strconv"
	"strings"
)

const bailOutMarker = "Bail out!"

// Logger is the minimal sink the Interpreter forwards consumed lines
// to. github.com/opencoff/go-logger's *Logger satisfies this.
type Logger interface {
	Debug(format string, v ...interface{})
}

// Interpreter drives the TAP state machine one line at a time
// against a Testset, consulting a Context's Pragma Registry when it
// encounters a pragma directive. It holds no per-testset state of
// its own -- all mutation lands on the Testset passed to Feed -- so
// one Interpreter can be reused across an entire batch.
type Interpreter struct {
	ctx *Context
	log Logger
}

// NewInterpreter builds an Interpreter bound to ctx. log may be nil,
// in which case consumed lines are not echoed anywhere.
func NewInterpreter(ctx *Context, log Logger) *Interpreter {
	return &Interpreter{ctx: ctx, log: log}
}

// Context returns the harness context this Interpreter is bound to,
// so callers driving the Line Reader can observe pragma-mutated
// knobs (e.g. ReadBlock) between lines.
func (p *Interpreter) Context() *Context {
	return p.ctx
}

// Feed consumes one line of child output against ts. terminated is
// false when the Line Reader returned a line that filled its buffer
// without finding a newline (spec §4.1's "too long" case). Feed
// never returns an error: stream-abort conditions are recorded on ts
// via Testset.Aborted/Reported/Reason, per spec §7's "parsing errors
// never throw" policy.
func (p *Interpreter) Feed(ts *Testset, line string, terminated bool) {
	if p.log != nil {
		p.log.Debug("%s: %s", ts.File, line)
	}

	if ts.Aborted {
		// Interpreter stops consuming meaningful input after an
		// abort; the Batch Driver keeps draining the pipe but
		// nothing further should mutate ts.
		return
	}

	// 1. Bail-out: substring match anywhere on the line.
	if idx := strings.Index(line, bailOutMarker); idx >= 0 {
		reason := strings.TrimSpace(line[idx+len(bailOutMarker):])
		ts.Aborted = true
		ts.Reported = true
		ts.Reason = reason
		return
	}

	// 2. Incomplete line: buffer filled before a newline appeared.
	// Logged (above) but otherwise discarded.
	if !terminated {
		return
	}

	// 3. TAP version header, first line only.
	if ts.TapVersion == 0 {
		if v, ok := parseTapVersion(line); ok {
			if v < 13 {
				p.abort(ts, "Invalid TAP version: "+strconv.Itoa(v))
				return
			}
			ts.TapVersion = v
			return
		}
		ts.TapVersion = 12
		// falls through: this line is still eligible for the
		// remaining checks below.
	}

	// 4. Pragma lines, only once version >= 13.
	if ts.TapVersion >= 13 {
		if tok, rest, ok := firstToken(line); ok && tok == "pragma" {
			p.handlePragma(ts, line, rest)
			return
		}
	}

	// 5. Diagnostic.
	if isDiagnostic(line) {
		if p.ctx.Verbose >= 1 && p.log != nil {
			p.log.Debug("# %s", strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "#")))
		}
		return
	}

	// 6. Plan.
	if strings.HasPrefix(strings.TrimSpace(line), "1..") {
		p.handlePlan(ts, strings.TrimSpace(line))
		return
	}

	// 7. Test result.
	if ok, isFail, rest := matchResultPrefix(line); ok {
		p.handleResult(ts, isFail, rest)
		return
	}

	// 8. Anything else: ignored.
}

func (p *Interpreter) abort(ts *Testset, reason string) {
	ts.Aborted = true
	ts.Reported = true
	ts.Reason = reason
}

func parseTapVersion(line string) (int, bool) {
	const prefix = "TAP version "
	if !strings.HasPrefix(line, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(line[len(prefix):]))
	if err != nil {
		return 0, false
	}
	return n, true
}

// firstToken returns the first whitespace-delimited token on line
// and everything after it (not including the separating whitespace).
func firstToken(line string) (tok string, rest string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return "", "", false
	}
	i := strings.IndexAny(trimmed, " \t")
	if i < 0 {
		return trimmed, "", true
	}
	return trimmed[:i], trimmed[i:], true
}

func isDiagnostic(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "#")
}

// handlePlan implements spec §4.4 item 6.
func (p *Interpreter) handlePlan(ts *Testset, line string) {
	if ts.Plan == First || ts.Plan == Final {
		p.abort(ts, "multiple plans")
		return
	}

	body := strings.TrimPrefix(line, "1..")
	numPart := body
	var skipReason string
	isSkipForm := false
	if idx := strings.Index(body, "#"); idx >= 0 {
		directive := strings.TrimSpace(body[idx+1:])
		numPart = strings.TrimSpace(body[:idx])
		lower := strings.ToLower(directive)
		if strings.HasPrefix(lower, "skip") {
			isSkipForm = true
			skipReason = strings.TrimSpace(strings.TrimRight(directive[len("skip"):], "\n"))
		}
	} else {
		numPart = strings.TrimSpace(numPart)
	}

	n, err := strconv.Atoi(numPart)
	if err != nil {
		p.abort(ts, "invalid test count")
		return
	}

	if n == 0 && isSkipForm {
		ts.AllSkipped = true
		ts.Aborted = true
		ts.Count = 0
		ts.Passed = 0
		ts.Failed = 0
		ts.Skipped = 0
		ts.Reason = skipReason
		ts.Plan = First
		return
	}

	if n <= 0 {
		p.abort(ts, "invalid test count")
		return
	}

	switch ts.Plan {
	case Init:
		ts.grow(n)
		ts.Count = n
		ts.Plan = First
	case Pending:
		if n < ts.Count {
			p.abort(ts, "invalid test number "+strconv.Itoa(n))
			return
		}
		ts.grow(n)
		ts.Count = n
		ts.Plan = Final
	default:
		p.abort(ts, "multiple plans")
	}
}

// matchResultPrefix recognizes a line of the form
// ["not "] "ok" [WS number] [WS "#" WS directive], returning whether
// it matched, whether it was "not ok", and the text following the
// "ok"/"not ok" token.
func matchResultPrefix(line string) (ok bool, isFail bool, rest string) {
	trimmed := strings.TrimLeft(line, " \t")
	switch {
	case strings.HasPrefix(trimmed, "not ok"):
		return true, true, trimmed[len("not ok"):]
	case strings.HasPrefix(trimmed, "ok"):
		return true, false, trimmed[len("ok"):]
	default:
		return false, false, ""
	}
}

// handleResult implements spec §4.4 item 7.
func (p *Interpreter) handleResult(ts *Testset, isFail bool, rest string) {
	status := Pass
	if isFail {
		status = Fail
	}

	numStr, directive := splitResultTail(rest)

	n := ts.Current + 1
	if numStr != "" {
		if parsed, err := strconv.Atoi(numStr); err == nil {
			n = parsed
		}
	}

	if n < 1 {
		p.abort(ts, "invalid test number "+strconv.Itoa(n))
		return
	}
	if ts.Plan == First && n > ts.Count {
		p.abort(ts, "invalid test number "+strconv.Itoa(n))
		return
	}

	if ts.Plan == Init || ts.Plan == Pending {
		ts.Plan = Pending
		if n > ts.Count {
			ts.Count = n
		}
	}

	if n <= ts.Allocated() && ts.results[n-1] != Invalid {
		p.abort(ts, "duplicate test number "+strconv.Itoa(n))
		return
	}

	if directiveName, _, ok := parseDirective(directive); ok {
		switch strings.ToLower(directiveName) {
		case "skip":
			status = Skip
		case "todo":
			// Policy (spec §9, preserved as-is): a todo-directed
			// pass remains Fail; only a Fail is inverted to Skip.
			if status == Fail {
				status = Skip
			} else {
				status = Fail
			}
		}
	}

	ts.setResult(n, status)
}

// splitResultTail separates the optional leading test number from an
// optional trailing "# directive ..." on the remainder of a result
// line (everything after "ok"/"not ok").
func splitResultTail(rest string) (numStr string, directive string) {
	rest = strings.TrimLeft(rest, " \t")
	if idx := strings.Index(rest, "#"); idx >= 0 {
		numStr = strings.TrimSpace(rest[:idx])
		directive = strings.TrimSpace(rest[idx+1:])
		return
	}
	return strings.TrimSpace(rest), ""
}

// parseDirective splits a "skip ..."/"todo ..." directive body into
// its keyword and free-text reason.
func parseDirective(directive string) (name string, reason string, ok bool) {
	if directive == "" {
		return "", "", false
	}
	fields := strings.Fields(directive)
	if len(fields) == 0 {
		return "", "", false
	}
	return fields[0], strings.TrimSpace(strings.TrimPrefix(directive, fields[0])), true
}

// handlePragma implements spec §4.3's grammar and dispatch, fixing
// the original's token-advance bug (see DESIGN.md): this
// implementation always advances past the actual matched token
// ([A-Za-z0-9_]+), never carries a stale length from a previous
// registry lookup.
func (p *Interpreter) handlePragma(ts *Testset, line, rest string) {
	rest = strings.TrimLeft(rest, " \t")
	if rest == "" {
		p.abort(ts, "invalid pragma")
		return
	}

	for rest != "" {
		var sign byte
		switch rest[0] {
		case '+':
			sign = '+'
		case '-':
			sign = '-'
		default:
			p.abort(ts, "invalid pragma")
			return
		}
		rest = rest[1:]

		name, tail, ok := takeIdent(rest)
		if !ok {
			p.abort(ts, "invalid pragma")
			return
		}
		rest = tail

		state := On
		if sign == '-' {
			state = Off
		}
		p.ctx.Pragmas.Toggle(name, state)

		rest = strings.TrimLeft(rest, " \t")
		if rest == "" {
			break
		}
		if rest[0] != ',' {
			p.abort(ts, "invalid pragma")
			return
		}
		rest = strings.TrimLeft(rest[1:], " \t")
	}

	// After built-in pragma dispatch, offer the whole line to any
	// registered per-line check hooks.
	p.ctx.Pragmas.CheckLine(line)
}

// takeIdent consumes the longest [A-Za-z0-9_]+ prefix of s.
func takeIdent(s string) (ident string, rest string, ok bool) {
	i := 0
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	if i == 0 {
		return "", s, false
	}
	return s[:i], s[i:], true
}

func isIdentByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '_'
}
