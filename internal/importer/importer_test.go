package importer

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/model"
	sqliteClient "github.com/BubbleCoding/Spellfinder-PF1E/internal/platform/sqlite"
)

func TestParseSpellLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []classLevel
	}{
		{"empty", "", nil},
		{"single entry", "wizard 2", []classLevel{{"wizard", 2}}},
		{
			"multiple entries",
			"sorcerer/wizard 3, magus 3",
			[]classLevel{{"sorcerer/wizard", 3}, {"magus", 3}},
		},
		{"names normalize to lowercase", "Cleric 1", []classLevel{{"cleric", 1}}},
		{"entry without a level is skipped", "see text, druid 4", []classLevel{{"druid", 4}}},
		{"double digit levels", "wizard 10", []classLevel{{"wizard", 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSpellLevel(tt.raw))
		})
	}
}

func TestClean(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "fire", clean("  fire  "))
	assert.Equal(t, "", clean("NULL"))
	assert.Equal(t, "", clean("null"))
	assert.Equal(t, 3, cleanInt(" 3 "))
	assert.Equal(t, 0, cleanInt("NULL"))
	assert.Equal(t, 0, cleanInt("abc"))
}

const sampleCSV = `id,name,school,spell_level,saving_throw,description,fire,verbal,linktext,source
1,Burning Hands,evocation,"sorcerer/wizard 1, magus 1",Reflex half,A cone of flame.,1,1,Burning Hands,PFRPG Core
2,Adjuring Step,abjuration,wizard 1,none,You move carefully.,0,1,Adjuring Step,APG
3,Chant,divination,cleric 1,none,NULL,0,1,Chant,Rappan Athuk
`

func TestParseCSV(t *testing.T) {
	t.Parallel()

	spells, classes, err := parseCSV(sampleCSV)
	require.NoError(t, err)

	require.Len(t, spells, 3)
	assert.Equal(t, 1, spells[0].ID)
	assert.Equal(t, "Burning Hands", spells[0].Name)
	assert.Equal(t, 1, spells[0].Fire)
	assert.Equal(t, 1, spells[0].Verbal)
	assert.Equal(t, "", spells[2].Description, "NULL becomes empty")

	require.Len(t, classes, 4)
	assert.Equal(t, "sorcerer/wizard", classes[0].ClassName)
	assert.Equal(t, 1, classes[0].Level)
	assert.Equal(t, "magus", classes[1].ClassName)
}

func TestRunBuildsDatabase(t *testing.T) {
	t.Parallel()

	db, err := sqliteClient.New(context.Background(), ":memory:")
	require.NoError(t, err)

	stats, err := New(db).Run(context.Background(), sampleCSV, "")
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Spells)
	assert.Equal(t, 4, stats.Classes)

	t.Run("fixups rename and remove rows", func(t *testing.T) {
		var count int64
		require.NoError(t, db.Model(&model.Spell{}).
			Where("name = ?", "Chant").Count(&count).Error)
		assert.Zero(t, count, "phantom source rows are removed")

		var renamed model.Spell
		require.NoError(t, db.Where("name = ?", "Abjuring Step").First(&renamed).Error)
		assert.Equal(t, "Abjuring Step", renamed.Linktext)
	})

	t.Run("search index covers surviving rows", func(t *testing.T) {
		var names []string
		require.NoError(t, db.Raw(
			"SELECT s.name FROM spells s JOIN spells_fts ON spells_fts.rowid = s.id WHERE spells_fts MATCH ?",
			"cone*",
		).Scan(&names).Error)
		assert.Equal(t, []string{"Burning Hands"}, names)
	})

	t.Run("rerun replaces instead of duplicating", func(t *testing.T) {
		stats, err := New(db).Run(context.Background(), sampleCSV, "")
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Spells)

		var count int64
		require.NoError(t, db.Model(&model.Spell{}).Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})
}

func TestImportCategories(t *testing.T) {
	t.Parallel()

	db, err := sqliteClient.New(context.Background(), ":memory:")
	require.NoError(t, err)
	_, err = New(db).Run(context.Background(), sampleCSV, "")
	require.NoError(t, err)

	path := t.TempDir() + "/categories.json"
	payload := `[
		{"id": 1, "name": "Burning Hands", "categories": ["AoE", "Damage"]},
		{"id": 2, "name": "Adjuring Step", "categories": ["None"]}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	n, err := New(db).ImportCategories(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var rows []model.SpellCategory
	require.NoError(t, db.Order("category").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "AoE", rows[0].Category)
	assert.Equal(t, "Damage", rows[1].Category)
}
