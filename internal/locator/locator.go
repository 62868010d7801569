// locator.go -- resolves a logical test name to an executable path
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package locator

import (
	"os"
	"path/filepath"
)

var suffixes = []string{"-t", ".t", ""}
var bases = []string{".", "build", "source"}

// Resolve searches ., build, source (source/build may be empty to
// skip), each with suffixes -t, .t, "", and returns the first path
// that exists and is a regular, executable file. It falls back to
// the raw name if nothing matched, matching spec §6's locator
// contract.
func Resolve(name, source, build string) string {
	roots := make([]string, 0, len(bases))
	for _, b := range bases {
		switch b {
		case "build":
			if build != "" {
				roots = append(roots, build)
			}
		case "source":
			if source != "" {
				roots = append(roots, source)
			}
		default:
			roots = append(roots, b)
		}
	}

	for _, root := range roots {
		for _, sfx := range suffixes {
			candidate := filepath.Join(root, name+sfx)
			if isExecutableFile(candidate) {
				return candidate
			}
		}
	}
	return name
}

// isExecutableFile reports whether path exists, is a regular file,
// and has at least one executable bit set. Grounded on the
// os.Lstat + errors.Is(fs.ErrNotExist) idiom used for existence
// checks in the teacher's testsuite/exists.go.
func isExecutableFile(path string) bool {
	st, err := os.Stat(path)
	if err != nil {
		return false
	}
	if !st.Mode().IsRegular() {
		return false
	}
	return st.Mode().Perm()&0111 != 0
}
