package search

import "strings"

// scopedFields is the set of filter names addressable with field:value
// syntax in the free-text box.
var scopedFields = func() map[string]bool {
	set := make(map[string]bool, len(fieldOrder))
	for _, name := range fieldOrder {
		set[name] = true
	}
	return set
}()

// ExtractScoped pulls field:value tokens out of raw free-text input and
// records them on the query as filter selections; whatever remains is
// returned for the full-text path. Tokens for the same field OR together
// unless explicitly joined with AND, which starts a new AND-combined group:
//
//	class:wizard class:cleric        -> one group {wizard, cleric}
//	category:buff AND category:fire  -> two groups, both must match
//
// Values may be quoted to include spaces (school:"mind affecting").
func ExtractScoped(q *Query, raw string) (remainder string) {
	tokens := splitTokens(raw)
	var rest []string
	groups := make(map[string][]string)

	flush := func(field string) {
		if vals := groups[field]; len(vals) > 0 {
			q.AddValues(field, vals)
			groups[field] = nil
		}
	}
	flushAll := func() {
		for _, name := range fieldOrder {
			flush(name)
		}
	}

	for i := 0; i < len(tokens); i++ {
		field, value, ok := splitScoped(tokens[i])
		if !ok {
			rest = append(rest, tokens[i])
			continue
		}
		groups[field] = append(groups[field], value)

		// An AND between two scoped tokens belongs to the scoped syntax,
		// not to the full-text query. For the same field it closes the
		// current OR-group.
		if i+2 < len(tokens) && strings.EqualFold(tokens[i+1], "AND") {
			if next, _, nextOK := splitScoped(tokens[i+2]); nextOK {
				if next == field {
					flush(field)
				}
				i++ // consume the AND
			}
		}
	}
	flushAll()
	return strings.Join(rest, " ")
}

// splitScoped splits one token of the form field:value, accepting only
// known filter names. Surrounding quotes on the value are stripped.
func splitScoped(token string) (field, value string, ok bool) {
	idx := strings.IndexByte(token, ':')
	if idx <= 0 || idx == len(token)-1 {
		return "", "", false
	}
	field = strings.ToLower(token[:idx])
	if !scopedFields[field] {
		return "", "", false
	}
	value = strings.Trim(token[idx+1:], `"`)
	if value == "" {
		return "", "", false
	}
	return field, value, true
}

// splitTokens splits on whitespace but keeps double-quoted spans intact so
// a scoped value can contain spaces.
func splitTokens(raw string) []string {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	for _, r := range raw {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case !inQuote && (r == ' ' || r == '\t' || r == '\n'):
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}
