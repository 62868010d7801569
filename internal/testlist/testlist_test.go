// testlist_test.go
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package testlist

import (
	"strings"
	"testing"
)

func TestReadIgnoresCommentsAndBlankLines(t *testing.T) {
	in := "basic/one\n# a comment\n\n  basic/two  \n"
	names, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []string{"basic/one", "basic/two"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}
