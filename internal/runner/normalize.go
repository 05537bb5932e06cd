package runner

import "strings"

// NormalizeTestData turns escape sequences stored as literal text into real
// control characters. Test data imported through CSV or copied between
// storage layers may arrive double-escaped, so doubled backslashes are
// collapsed first, then single-escaped sequences, then the result is
// trimmed.
func NormalizeTestData(s string) string {
	s = strings.ReplaceAll(s, `\\`, `\`)
	s = strings.ReplaceAll(s, `\r\n`, "\n")
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\t`, "\t")
	s = strings.ReplaceAll(s, `\r`, "\n")
	return strings.TrimSpace(s)
}

// NormalizeOutput prepares program output for comparison: line endings are
// unified, each line is trimmed, blank lines are dropped, and the remainder
// is rejoined. Content stays case-sensitive; only whitespace at line edges
// is forgiven.
func NormalizeOutput(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// OutputsMatch compares expected and actual program output after
// normalization.
func OutputsMatch(expected, actual string) bool {
	return NormalizeOutput(expected) == NormalizeOutput(actual)
}
