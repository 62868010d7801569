// testlist.go -- newline-delimited test-list file reader
//
// (c) 2024 Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2

package testlist

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const maxLineLength = 4096

// Read parses a newline-delimited test-list file, ignoring blank
// lines and lines whose first non-whitespace character is '#'. It
// returns one logical test name per remaining line, trimmed of
// leading/trailing whitespace, per spec §6's test-list reader
// contract.
func Read(r io.Reader) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, maxLineLength), maxLineLength)

	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("testlist: line %d: %w", lineno, err)
	}
	return names, nil
}
