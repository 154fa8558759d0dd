package search

import (
	"sort"
	"strconv"
	"strings"
)

const (
	// DefaultPageSize applies when the caller gives no page size.
	DefaultPageSize = 20
	// MaxPageSize is the clamp for an explicit page size.
	MaxPageSize = 100
	// AllResultsCap bounds the "all" page-size sentinel.
	AllResultsCap = 2000
)

// Query is one fully-resolved search request. Fields holds, per filter name,
// one or more groups of selected values: groups combine with AND, values
// within a group with OR. Plain query parameters always form a single group;
// extra groups only arise from field-scoped text tokens joined with AND.
type Query struct {
	Text       string
	Fields     map[string][][]string
	Flags      []string
	Exclusions []string
	IDs        []int
	Sort       string
	Page       int
	PerPage    int // 0 means the "all" sentinel
}

// AddValues appends one OR-group of values for a filter name, dropping
// blanks. Empty groups are not recorded.
func (q *Query) AddValues(name string, values []string) {
	group := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			group = append(group, v)
		}
	}
	if len(group) == 0 {
		return
	}
	if q.Fields == nil {
		q.Fields = make(map[string][][]string)
	}
	q.Fields[name] = append(q.Fields[name], group)
}

// Limit returns the effective page size.
func (q Query) Limit() int {
	if q.PerPage <= 0 {
		return AllResultsCap
	}
	if q.PerPage > MaxPageSize {
		return MaxPageSize
	}
	return q.PerPage
}

// Offset returns the row offset for the requested page.
func (q Query) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.Limit()
}

var sortClauses = map[string]string{
	"name":        "s.name",
	"name_desc":   "s.name DESC",
	"level":       "(SELECT MIN(level) FROM spell_classes WHERE spell_id = s.id), s.name",
	"level_desc":  "(SELECT MIN(level) FROM spell_classes WHERE spell_id = s.id) DESC, s.name",
	"school":      "s.school, s.name",
	"school_desc": "s.school DESC, s.name",
}

// Build compiles the query into a counting statement and a page-slice
// statement with their argument lists. Unknown filter names, unknown grouped
// option labels, and non-integer level values are ignored rather than
// rejected.
func Build(q Query) (countSQL, selectSQL string, countArgs, selectArgs []any) {
	var where []string
	var args []any

	join := ""
	if strings.TrimSpace(q.Text) != "" {
		join = " JOIN spells_fts ON spells_fts.rowid = s.id"
		where = append(where, "spells_fts MATCH ?")
		args = append(args, FTSQuery(q.Text))
	}

	classGroups := q.Fields["class"]
	levelGroups := intGroups(q.Fields["level"])
	if len(classGroups) == 1 && len(levelGroups) == 1 {
		// A single class group and a single level group constrain the same
		// association row: "wizard at level 2", not "wizard somewhere and
		// level 2 somewhere".
		clause, a := classLevelExists(classGroups[0], levelGroups[0])
		where = append(where, clause)
		args = append(args, a...)
	} else {
		for _, g := range classGroups {
			clause, a := classLevelExists(g, nil)
			where = append(where, clause)
			args = append(args, a...)
		}
		for _, g := range levelGroups {
			clause, a := classLevelExists(nil, g)
			where = append(where, clause)
			args = append(args, a...)
		}
	}

	for _, name := range fieldOrder {
		if name == "class" || name == "level" {
			continue
		}
		for _, group := range q.Fields[name] {
			clause, a := compileGroup(name, group)
			if clause == "" {
				continue
			}
			where = append(where, clause)
			args = append(args, a...)
		}
	}

	if clause, a := flagClause(q.Flags); clause != "" {
		where = append(where, clause)
		args = append(args, a...)
	}
	for _, name := range q.Exclusions {
		col, ok := exclusionColumns[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		where = append(where, "s."+col+" = 0")
	}

	if len(q.IDs) > 0 {
		where = append(where, "s.id IN ("+placeholders(len(q.IDs))+")")
		for _, id := range q.IDs {
			args = append(args, id)
		}
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = " WHERE " + strings.Join(where, " AND ")
	}

	order := "ORDER BY s.name"
	if clause, ok := sortClauses[q.Sort]; ok {
		order = "ORDER BY " + clause
	} else if join != "" {
		order = "ORDER BY spells_fts.rank"
	}

	countSQL = "SELECT COUNT(*) FROM spells s" + join + whereSQL
	selectSQL = "SELECT s.* FROM spells s" + join + whereSQL + " " + order + " LIMIT ? OFFSET ?"

	countArgs = args
	selectArgs = append(append([]any{}, args...), q.Limit(), q.Offset())
	return countSQL, selectSQL, countArgs, selectArgs
}

// compileGroup compiles one OR-group for a non-class filter name.
func compileGroup(name string, values []string) (string, []any) {
	if col, ok := exactColumns[name]; ok {
		args := make([]any, 0, len(values))
		for _, v := range values {
			args = append(args, strings.ToLower(v))
		}
		return "LOWER(s." + col + ") IN (" + placeholders(len(args)) + ")", args
	}
	if name == "category" {
		args := make([]any, 0, len(values))
		for _, v := range values {
			args = append(args, strings.ToLower(v))
		}
		clause := "EXISTS (SELECT 1 FROM spell_categories cat WHERE cat.spell_id = s.id" +
			" AND LOWER(cat.category) IN (" + placeholders(len(args)) + "))"
		return clause, args
	}
	if options, ok := groupedOptions[name]; ok {
		var parts []string
		var args []any
		for _, v := range values {
			expansions := lookupOption(options, v)
			if expansions == nil {
				continue
			}
			var sub []string
			for _, e := range expansions {
				sub = append(sub, "LOWER(s."+e.Column+") LIKE ?")
				args = append(args, "%"+strings.ToLower(e.Keyword)+"%")
			}
			parts = append(parts, "("+strings.Join(sub, " OR ")+")")
		}
		if len(parts) == 0 {
			return "", nil
		}
		return "(" + strings.Join(parts, " OR ") + ")", args
	}
	return "", nil
}

// classLevelExists builds one EXISTS over spell_classes constraining class
// names and/or levels on the same association row. Either slice may be nil.
func classLevelExists(classes []string, levels []int) (string, []any) {
	conds := []string{"sc.spell_id = s.id"}
	var args []any
	if len(classes) > 0 {
		conds = append(conds, "LOWER(sc.class_name) IN ("+placeholders(len(classes))+")")
		for _, c := range classes {
			args = append(args, strings.ToLower(c))
		}
	}
	if len(levels) > 0 {
		conds = append(conds, "sc.level IN ("+placeholders(len(levels))+")")
		for _, l := range levels {
			args = append(args, l)
		}
	}
	return "EXISTS (SELECT 1 FROM spell_classes sc WHERE " + strings.Join(conds, " AND ") + ")", args
}

func flagClause(flags []string) (string, []any) {
	var parts []string
	for _, name := range flags {
		col, ok := flagColumns[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			continue
		}
		parts = append(parts, "s."+col+" = 1")
	}
	if len(parts) == 0 {
		return "", nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", nil
}

// intGroups parses level value groups, silently dropping non-integers.
func intGroups(groups [][]string) [][]int {
	var out [][]int
	for _, g := range groups {
		var parsed []int
		for _, v := range g {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				continue
			}
			parsed = append(parsed, n)
		}
		if len(parsed) > 0 {
			out = append(out, parsed)
		}
	}
	return out
}

// lookupOption resolves an option label case-insensitively.
func lookupOption(options map[string][]Expansion, label string) []Expansion {
	if e, ok := options[label]; ok {
		return e
	}
	for k, e := range options {
		if strings.EqualFold(k, label) {
			return e
		}
	}
	return nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
