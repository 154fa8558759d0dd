// Package search translates UI filter selections and free-text input into a
// single parameterized SQL statement against the spell dataset.
package search

// Expansion is one (column, keyword) pair a grouped filter option expands to.
// A record matches the option if any expansion is satisfied as a
// case-insensitive substring of that column.
type Expansion struct {
	Column  string
	Keyword string
}

// exactColumns are the scalar fields selectable by exact (set-membership)
// match. Keys are the public filter names, values the spells columns.
var exactColumns = map[string]string{
	"school":       "school",
	"subschool":    "subschool",
	"descriptor":   "descriptor",
	"source":       "source",
	"casting_time": "casting_time",
	"range":        "range",
	"effect":       "effect",
	"targets":      "targets",
	"duration":     "duration",
}

// groupedOptions maps a grouped filter name to its static option taxonomy.
// The dataset encodes areas ambiguously across the area and effect columns,
// so every area option is tested against both.
var groupedOptions = map[string]map[string][]Expansion{
	"saving_throw": {
		"Will":      {{"saving_throw", "will"}},
		"Fortitude": {{"saving_throw", "fortitude"}},
		"Reflex":    {{"saving_throw", "reflex"}},
		"None":      {{"saving_throw", "none"}},
	},
	"spell_resistance": {
		"Yes": {{"spell_resistance", "yes"}},
		"No":  {{"spell_resistance", "no"}},
	},
	"area": {
		"Line":     {{"area", "line"}, {"effect", "line"}},
		"Radius":   {{"area", "radius"}, {"effect", "radius"}},
		"Cone":     {{"area", "cone"}, {"effect", "cone"}},
		"Cube":     {{"area", "cube"}, {"effect", "cube"}},
		"Sphere":   {{"area", "sphere"}, {"effect", "sphere"}},
		"Cylinder": {{"area", "cylinder"}, {"effect", "cylinder"}},
	},
}

// groupedOptionOrder fixes the option ordering the catalog reports.
var groupedOptionOrder = map[string][]string{
	"saving_throw":     {"Will", "Fortitude", "Reflex", "None"},
	"spell_resistance": {"Yes", "No"},
	"area":             {"Line", "Radius", "Cone", "Cube", "Sphere", "Cylinder"},
}

// flagColumns are the 0/1 columns selectable by the boolean-flag filter.
var flagColumns = map[string]string{
	"acid":               "acid",
	"air":                "air",
	"chaotic":            "chaotic",
	"cold":               "cold",
	"curse":              "curse",
	"darkness":           "darkness",
	"death":              "death",
	"disease":            "disease",
	"earth":              "earth",
	"electricity":        "electricity",
	"emotion":            "emotion",
	"evil":               "evil",
	"fear":               "fear",
	"fire":               "fire",
	"force":              "force",
	"good":               "good",
	"language_dependent": "language_dependent",
	"lawful":             "lawful",
	"light":              "light",
	"mind_affecting":     "mind_affecting",
	"pain":               "pain",
	"poison":             "poison",
	"shadow":             "shadow",
	"sonic":              "sonic",
	"water":              "water",
	"dismissible":        "dismissible",
	"shapeable":          "shapeable",
	"mythic":             "mythic",
}

// exclusionColumns are the component flags selectable by the exclusion
// filter: a spell survives only if every selected column is 0.
var exclusionColumns = map[string]string{
	"verbal":            "verbal",
	"somatic":           "somatic",
	"material":          "material",
	"focus":             "focus",
	"divine_focus":      "divine_focus",
	"costly_components": "costly_components",
}

// fieldOrder is the deterministic order filter names are compiled in.
var fieldOrder = []string{
	"class", "level", "category",
	"school", "subschool", "descriptor", "source",
	"casting_time", "range", "effect", "targets", "duration",
	"saving_throw", "spell_resistance", "area",
}

// FilterNames returns every filter name the translator accepts as a
// repeatable query parameter.
func FilterNames() []string {
	out := make([]string, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// GroupedOptions returns the static option list for a grouped filter, in
// presentation order, or nil if the name is not a grouped filter.
func GroupedOptions(name string) []string {
	order, ok := groupedOptionOrder[name]
	if !ok {
		return nil
	}
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// FlagNames returns the boolean-flag option names in sorted order.
func FlagNames() []string {
	return sortedKeys(flagColumns)
}

// ExclusionNames returns the exclusion option names in sorted order.
func ExclusionNames() []string {
	return sortedKeys(exclusionColumns)
}

// AttributeFields returns the exact-match scalar filter names whose catalog
// options come from live data ordered by frequency.
func AttributeFields() []string {
	return []string{"casting_time", "range", "effect", "targets", "duration", "subschool", "descriptor"}
}

// ExactColumn resolves a filter name to its spells column, reporting whether
// the name is an exact scalar filter.
func ExactColumn(name string) (string, bool) {
	col, ok := exactColumns[name]
	return col, ok
}
