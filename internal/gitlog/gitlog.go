// Package gitlog extracts identifiers from lines previously rendered by the
// picker: decorated `git log --graph` output and action menu rows.
package gitlog

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// MinHashLength is the shortest hexadecimal run accepted as a commit id.
const MinHashLength = 7


// The run must not touch other alphanumerics, otherwise words such as
// "defaced1" would yield a bogus identifier.
var hashPattern = regexp.MustCompile(`(?:^|[^0-9A-Za-z])([0-9a-fA-F]{7,})(?:[^0-9A-Za-z]|$)`)

// ExtractCommit returns the first hexadecimal run of at least MinHashLength
// characters found in line once ANSI escape sequences are removed.
func ExtractCommit(line string) (string, bool) {
	plain := ansi.Strip(line)
	match := hashPattern.FindStringSubmatch(plain)
	if len(match) < 2 {
		return "", false
	}
	return match[1], true
}

// ExtractAction returns the leading token of a menu row.
func ExtractAction(line string) (string, bool) {
	fields := strings.Fields(ansi.Strip(line))
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// FirstLine trims input down to its first line, which is all the helper
// protocol ever sends on stdin.
func FirstLine(input string) string {
	if idx := strings.IndexAny(input, "\r\n"); idx >= 0 {
		return input[:idx]
	}
	return input
}
