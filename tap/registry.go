// registry.go -- open-set table of pragma toggle hooks
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

import "fmt"

// ToggleState is the operation dispatched to a registered pragma's
// toggle function.
type ToggleState int

const (
	Off ToggleState = iota
	On
	Reset
)

// CheckFunc is an optional per-line hook offered each pragma line
// after its toggles have been dispatched; it returns true if it
// claimed (and fully handled) the line, which ends dispatch for that
// line.
type CheckFunc func(line string) bool

// ToggleFunc implements the effect of a pragma's On/Off/Reset states.
// Implementations remember the value in effect at the first call so
// that Reset can restore it; see boolToggle for the canonical
// pattern.
type ToggleFunc func(state ToggleState)

// pragmaEntry is one named row of the registry: {name, toggle, check?}.
type pragmaEntry struct {
	name   string
	toggle ToggleFunc
	check  CheckFunc
}

// PragmaRegistry is the harness-wide, ordered table of pragma hooks.
// New pragmas are added by registering an entry; the Interpreter
// never needs to know the set of names in advance (§9: "Pragma
// dispatch as open set").
type PragmaRegistry struct {
	entries []*pragmaEntry
	byName  map[string]*pragmaEntry
}

// NewPragmaRegistry builds an empty registry. Built-in pragmas are
// registered separately by RegisterBuiltins so that a harness
// context can own its defaults independently of any package-level
// state.
func NewPragmaRegistry() *PragmaRegistry {
	return &PragmaRegistry{byName: make(map[string]*pragmaEntry)}
}

// Register adds a named pragma hook. Registering the same name twice
// replaces the earlier entry in place (position preserved) so that a
// harness context can override a built-in's toggle behavior.
func (r *PragmaRegistry) Register(name string, toggle ToggleFunc, check CheckFunc) {
	if e, ok := r.byName[name]; ok {
		e.toggle = toggle
		e.check = check
		return
	}
	e := &pragmaEntry{name: name, toggle: toggle, check: check}
	r.entries = append(r.entries, e)
	r.byName[name] = e
}

// Toggle dispatches state to the named pragma, if registered.
// Unknown names are silently ignored per spec §4.3 ("they may be
// meaningful to a future harness version").
func (r *PragmaRegistry) Toggle(name string, state ToggleState) {
	if e, ok := r.byName[name]; ok {
		e.toggle(state)
	}
}

// ResetAll issues Reset to every registered pragma. The Batch Driver
// calls this at the start of every testset run so that toggles from
// one test never leak into the next (spec invariant 6).
func (r *PragmaRegistry) ResetAll() {
	for _, e := range r.entries {
		e.toggle(Reset)
	}
}

// CheckLine offers line to every registered check hook in
// registration order; the first that claims it ends the search. It
// reports whether any hook claimed the line.
func (r *PragmaRegistry) CheckLine(line string) bool {
	for _, e := range r.entries {
		if e.check != nil && e.check(line) {
			return true
		}
	}
	return false
}

// boolToggle is the shared implementation backing both built-in
// pragmas: a toggle over a single *bool, remembering the CLI default
// at first invocation.
func boolToggle(target *bool) ToggleFunc {
	var (
		haveDefault bool
		dflt        bool
	)
	return func(state ToggleState) {
		if !haveDefault {
			dflt = *target
			haveDefault = true
		}
		switch state {
		case On:
			*target = true
		case Off:
			*target = false
		case Reset:
			*target = dflt
		}
	}
}

// RegisterBuiltins wires the two built-in pragmas documented in
// spec §4.3: strict and readblock. Both are bound to the mutable
// knobs on ctx so that toggling them mid-stream takes effect on the
// very next line consumed.
func (r *PragmaRegistry) RegisterBuiltins(ctx *Context) {
	r.Register("strict", boolToggle(&ctx.Strict), nil)
	r.Register("readblock", boolToggle(&ctx.ReadBlock), nil)
}

func (e *pragmaEntry) String() string {
	return fmt.Sprintf("pragma(%s)", e.name)
}
