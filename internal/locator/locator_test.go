// locator_test.go
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package locator

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveFindsSuffixedExecutable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foo.t")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := Resolve("foo", "", dir)
	if got != filepath.Join(dir, "foo.t") {
		t.Fatalf("got %q", got)
	}
}

func TestResolveFallsBackToRawName(t *testing.T) {
	got := Resolve("does-not-exist-anywhere", "", "")
	if got != "does-not-exist-anywhere" {
		t.Fatalf("got %q", got)
	}
}
