// registry_test.go
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package tap

import "testing"

func TestPragmaResetRestoresCLIDefault(t *testing.T) {
	var v bool
	r := NewPragmaRegistry()
	r.Register("x", boolToggle(&v), nil)

	r.Toggle("x", On)
	if !v {
		t.Fatalf("expected On to set true")
	}
	r.Toggle("x", Reset)
	if v {
		t.Fatalf("expected Reset to restore default (false)")
	}

	v = true // simulate CLI default of "on"
	r2 := NewPragmaRegistry()
	r2.Register("y", boolToggle(&v), nil)
	r2.Toggle("y", Off)
	if v {
		t.Fatalf("expected Off to set false")
	}
	r2.Toggle("y", Reset)
	if !v {
		t.Fatalf("expected Reset to restore CLI default (true)")
	}
}

func TestUnknownPragmaSilentlyIgnored(t *testing.T) {
	r := NewPragmaRegistry()
	// Should not panic even though "mystery" was never registered.
	r.Toggle("mystery", On)
}

func TestCheckLineClaimFirstMatch(t *testing.T) {
	r := NewPragmaRegistry()
	var calls []string
	r.Register("a", func(ToggleState) {}, func(line string) bool {
		calls = append(calls, "a")
		return false
	})
	r.Register("b", func(ToggleState) {}, func(line string) bool {
		calls = append(calls, "b")
		return true
	})
	r.Register("c", func(ToggleState) {}, func(line string) bool {
		calls = append(calls, "c")
		return true
	})

	claimed := r.CheckLine("pragma +a")
	if !claimed {
		t.Fatalf("expected a hook to claim the line")
	}
	if len(calls) != 2 || calls[0] != "a" || calls[1] != "b" {
		t.Fatalf("calls = %v, want [a b]", calls)
	}
}
