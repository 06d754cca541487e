package gameimport

import (
	"regexp"
	"strings"
)

var listNumberPrefix = regexp.MustCompile(`^\d+[.)]\s*`)

// ParseList extracts candidate game titles from a pasted block of text.
//
// Lines are trimmed; blank lines and "#" comments are dropped. If the
// first surviving line contains a comma the whole block is treated as
// CSV and each line contributes its first field, with surrounding quote
// characters stripped. Otherwise the block is a plain or numbered list
// and a leading "1." or "1)" prefix is removed per line.
//
// Duplicates are kept; the caller decides how to handle them. An input
// with nothing usable yields an empty slice, not an error.
func ParseList(content string) []string {
	var lines []string
	for line := range strings.Lines(content) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil
	}

	isCSV := strings.Contains(lines[0], ",")

	names := make([]string, 0, len(lines))
	for _, line := range lines {
		var name string
		if isCSV {
			name, _, _ = strings.Cut(line, ",")
			name = strings.Trim(strings.TrimSpace(name), `"'`)
		} else {
			name = listNumberPrefix.ReplaceAllString(line, "")
		}
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
