package search

import "strings"

// ftsOperators are the reserved FTS5 constructs that switch the translator
// into pass-through mode so advanced boolean and phrase queries work
// unaltered.
var ftsOperators = []string{" AND ", " OR ", " NOT "}

// FTSQuery converts raw user input into an FTS5 MATCH expression. Plain
// input gets a prefix wildcard on every token, combined by FTS5's implicit
// AND; input that already uses boolean operators or quotes passes through
// verbatim.
func FTSQuery(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	upper := strings.ToUpper(input)
	for _, op := range ftsOperators {
		if strings.Contains(upper, op) {
			return input
		}
	}
	if strings.ContainsRune(input, '"') {
		return input
	}

	tokens := strings.Fields(input)
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		parts = append(parts, t+"*")
	}
	return strings.Join(parts, " ")
}
