package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryLimitOffset(t *testing.T) {
	t.Parallel()

	t.Run("explicit size within bounds", func(t *testing.T) {
		q := Query{Page: 3, PerPage: 50}
		assert.Equal(t, 50, q.Limit())
		assert.Equal(t, 100, q.Offset())
	})

	t.Run("size clamps at maximum", func(t *testing.T) {
		q := Query{Page: 1, PerPage: 500}
		assert.Equal(t, MaxPageSize, q.Limit())
	})

	t.Run("all sentinel uses the cap", func(t *testing.T) {
		q := Query{Page: 1, PerPage: 0}
		assert.Equal(t, AllResultsCap, q.Limit())
		assert.Equal(t, 0, q.Offset())
	})

	t.Run("page below one behaves as page one", func(t *testing.T) {
		q := Query{Page: 0, PerPage: 20}
		assert.Equal(t, 0, q.Offset())
	})
}

func TestAddValues(t *testing.T) {
	t.Parallel()

	var q Query
	q.AddValues("school", []string{" evocation ", "", "necromancy"})
	q.AddValues("school", []string{"   "})

	require.Len(t, q.Fields["school"], 1)
	assert.Equal(t, []string{"evocation", "necromancy"}, q.Fields["school"][0])
}

func TestBuildPlain(t *testing.T) {
	t.Parallel()

	countSQL, selectSQL, countArgs, selectArgs := Build(Query{Page: 1, PerPage: 20})

	assert.Equal(t, "SELECT COUNT(*) FROM spells s", countSQL)
	assert.Equal(t, "SELECT s.* FROM spells s ORDER BY s.name LIMIT ? OFFSET ?", selectSQL)
	assert.Empty(t, countArgs)
	assert.Equal(t, []any{20, 0}, selectArgs)
}

func TestBuildFullText(t *testing.T) {
	t.Parallel()

	t.Run("joins the index and ranks by relevance", func(t *testing.T) {
		_, selectSQL, countArgs, _ := Build(Query{Text: "fireball", Page: 1, PerPage: 20})

		assert.Contains(t, selectSQL, "JOIN spells_fts ON spells_fts.rowid = s.id")
		assert.Contains(t, selectSQL, "spells_fts MATCH ?")
		assert.Contains(t, selectSQL, "ORDER BY spells_fts.rank")
		assert.Equal(t, []any{"fireball*"}, countArgs)
	})

	t.Run("explicit sort wins over relevance", func(t *testing.T) {
		_, selectSQL, _, _ := Build(Query{Text: "fireball", Sort: "name", Page: 1, PerPage: 20})
		assert.Contains(t, selectSQL, "ORDER BY s.name")
		assert.NotContains(t, selectSQL, "spells_fts.rank")
	})
}

func TestBuildExactColumns(t *testing.T) {
	t.Parallel()

	var q Query
	q.AddValues("school", []string{"Evocation", "Necromancy"})
	q.Page, q.PerPage = 1, 20

	countSQL, _, countArgs, _ := Build(q)

	assert.Contains(t, countSQL, "LOWER(s.school) IN (?,?)")
	assert.Equal(t, []any{"evocation", "necromancy"}, countArgs)
}

func TestBuildClassAndLevel(t *testing.T) {
	t.Parallel()

	t.Run("single class and level groups share one association row", func(t *testing.T) {
		var q Query
		q.AddValues("class", []string{"wizard"})
		q.AddValues("level", []string{"2"})

		countSQL, _, countArgs, _ := Build(q)

		assert.Contains(t, countSQL,
			"EXISTS (SELECT 1 FROM spell_classes sc WHERE sc.spell_id = s.id"+
				" AND LOWER(sc.class_name) IN (?) AND sc.level IN (?))")
		assert.Equal(t, []any{"wizard", 2}, countArgs)
	})

	t.Run("multiple class groups AND together", func(t *testing.T) {
		var q Query
		q.AddValues("class", []string{"wizard"})
		q.AddValues("class", []string{"cleric"})

		countSQL, _, countArgs, _ := Build(q)

		assert.Equal(t, 2, strings.Count(countSQL, "EXISTS (SELECT 1 FROM spell_classes"))
		assert.Equal(t, []any{"wizard", "cleric"}, countArgs)
	})

	t.Run("non-integer level values are dropped", func(t *testing.T) {
		var q Query
		q.AddValues("level", []string{"two"})

		countSQL, _, _, _ := Build(q)
		assert.Equal(t, "SELECT COUNT(*) FROM spells s", countSQL)
	})
}

func TestBuildCategory(t *testing.T) {
	t.Parallel()

	var q Query
	q.AddValues("category", []string{"Buff"})

	countSQL, _, countArgs, _ := Build(q)

	assert.Contains(t, countSQL, "EXISTS (SELECT 1 FROM spell_categories cat")
	assert.Contains(t, countSQL, "LOWER(cat.category) IN (?)")
	assert.Equal(t, []any{"buff"}, countArgs)
}

func TestBuildGroupedOptions(t *testing.T) {
	t.Parallel()

	t.Run("saving throw expands to substring match", func(t *testing.T) {
		var q Query
		q.AddValues("saving_throw", []string{"Will"})

		countSQL, _, countArgs, _ := Build(q)

		assert.Contains(t, countSQL, "LOWER(s.saving_throw) LIKE ?")
		assert.Equal(t, []any{"%will%"}, countArgs)
	})

	t.Run("area options also match the effect column", func(t *testing.T) {
		var q Query
		q.AddValues("area", []string{"Cone"})

		countSQL, _, countArgs, _ := Build(q)

		assert.Contains(t, countSQL, "LOWER(s.area) LIKE ?")
		assert.Contains(t, countSQL, "LOWER(s.effect) LIKE ?")
		assert.Equal(t, []any{"%cone%", "%cone%"}, countArgs)
	})

	t.Run("unknown option labels are ignored", func(t *testing.T) {
		var q Query
		q.AddValues("saving_throw", []string{"Charisma"})

		countSQL, _, _, _ := Build(q)
		assert.Equal(t, "SELECT COUNT(*) FROM spells s", countSQL)
	})
}

func TestBuildFlags(t *testing.T) {
	t.Parallel()

	countSQL, _, _, _ := Build(Query{Flags: []string{"fire", "cold", "bogus"}})
	assert.Contains(t, countSQL, "(s.fire = 1 OR s.cold = 1)")
}

func TestBuildExclusions(t *testing.T) {
	t.Parallel()

	countSQL, _, _, _ := Build(Query{Exclusions: []string{"verbal", "somatic", "bogus"}})

	assert.Contains(t, countSQL, "s.verbal = 0 AND s.somatic = 0")
	assert.NotContains(t, countSQL, "bogus")
}

func TestBuildIDs(t *testing.T) {
	t.Parallel()

	countSQL, _, countArgs, _ := Build(Query{IDs: []int{3, 7}})

	assert.Contains(t, countSQL, "s.id IN (?,?)")
	assert.Equal(t, []any{3, 7}, countArgs)
}

func TestBuildSort(t *testing.T) {
	t.Parallel()

	t.Run("level sorts by minimum class level with name tiebreak", func(t *testing.T) {
		_, selectSQL, _, _ := Build(Query{Sort: "level"})
		assert.Contains(t, selectSQL,
			"ORDER BY (SELECT MIN(level) FROM spell_classes WHERE spell_id = s.id), s.name")
	})

	t.Run("unknown sort falls back to name", func(t *testing.T) {
		_, selectSQL, _, _ := Build(Query{Sort: "charisma"})
		assert.Contains(t, selectSQL, "ORDER BY s.name")
	})
}

func TestFilterDefinitions(t *testing.T) {
	t.Parallel()

	assert.Contains(t, FilterNames(), "class")
	assert.Contains(t, FilterNames(), "saving_throw")
	assert.Contains(t, FlagNames(), "mind_affecting")
	assert.Contains(t, ExclusionNames(), "costly_components")

	col, ok := ExactColumn("casting_time")
	require.True(t, ok)
	assert.Equal(t, "casting_time", col)

	_, ok = ExactColumn("id")
	assert.False(t, ok)

	assert.Equal(t, []string{"Will", "Fortitude", "Reflex", "None"}, GroupedOptions("saving_throw"))
	assert.Nil(t, GroupedOptions("school"))
}
