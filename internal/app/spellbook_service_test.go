package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/model"
	sqliteClient "github.com/BubbleCoding/Spellfinder-PF1E/internal/platform/sqlite"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/repository"
)

func setupBookService(t *testing.T) (*SpellbookService, *gorm.DB) {
	t.Helper()
	db, err := sqliteClient.New(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Spell{},
		&model.SpellClass{},
		&model.SpellCategory{},
		&model.Spellbook{},
		&model.SpellbookSpell{},
	))
	require.NoError(t, sqliteClient.EnsureSearchIndex(db))

	spells := []model.Spell{
		{ID: 1, Name: "Burning Hands"},
		{ID: 2, Name: "Wall of Fire"},
		{ID: 3, Name: "Detect Magic"},
	}
	require.NoError(t, db.Create(&spells).Error)
	classes := []model.SpellClass{
		{SpellID: 1, ClassName: "wizard", Level: 1},
		{SpellID: 2, ClassName: "wizard", Level: 4},
		{SpellID: 3, ClassName: "wizard", Level: 0},
	}
	require.NoError(t, db.Create(&classes).Error)

	svc := NewSpellbookService(
		repository.NewSpellbookRepository(db),
		repository.NewSpellRepository(db),
	)
	return svc, db
}

func TestSpellbookLifecycle(t *testing.T) {
	t.Parallel()

	svc, _ := setupBookService(t)
	ctx := context.Background()

	book, err := svc.Create(ctx, "  Mage's Primer  ")
	require.NoError(t, err)
	assert.Equal(t, "Mage's Primer", book.Name)
	assert.NotZero(t, book.ID)

	_, err = svc.Create(ctx, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svc.Rename(ctx, book.ID, "Primer"))
	detail, err := svc.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Primer", detail.Name)
	assert.Empty(t, detail.Spells)

	assert.ErrorIs(t, svc.Rename(ctx, 999, "Nothing"), ErrSpellbookNotFound)

	require.NoError(t, svc.Delete(ctx, book.ID))
	_, err = svc.Get(ctx, book.ID)
	assert.ErrorIs(t, err, ErrSpellbookNotFound)
}

func TestSpellbookMembership(t *testing.T) {
	t.Parallel()

	svc, _ := setupBookService(t)
	ctx := context.Background()

	book, err := svc.Create(ctx, "Travel Book")
	require.NoError(t, err)

	require.NoError(t, svc.AddSpell(ctx, book.ID, 1))
	require.NoError(t, svc.AddSpell(ctx, book.ID, 2))

	t.Run("adding twice does not grow the book", func(t *testing.T) {
		require.NoError(t, svc.AddSpell(ctx, book.ID, 1))
		detail, err := svc.Get(ctx, book.ID)
		require.NoError(t, err)
		assert.Len(t, detail.Spells, 2)
	})

	t.Run("unknown spell is rejected", func(t *testing.T) {
		assert.ErrorIs(t, svc.AddSpell(ctx, book.ID, 999), ErrSpellNotFound)
	})

	t.Run("prepared toggles per membership", func(t *testing.T) {
		require.NoError(t, svc.SetPrepared(ctx, book.ID, 1, true))
		detail, err := svc.Get(ctx, book.ID)
		require.NoError(t, err)
		assert.True(t, detail.Spells[0].Prepared)
		assert.False(t, detail.Spells[1].Prepared)

		assert.ErrorIs(t, svc.SetPrepared(ctx, book.ID, 3, true), ErrNotInSpellbook)
	})

	t.Run("reset clears every prepared mark", func(t *testing.T) {
		require.NoError(t, svc.ResetPrepared(ctx, book.ID))
		detail, err := svc.Get(ctx, book.ID)
		require.NoError(t, err)
		for _, m := range detail.Spells {
			assert.False(t, m.Prepared)
		}
	})

	t.Run("removing a spell not in the book errors", func(t *testing.T) {
		assert.ErrorIs(t, svc.RemoveSpell(ctx, book.ID, 3), ErrNotInSpellbook)
	})

	t.Run("remove shrinks the book", func(t *testing.T) {
		require.NoError(t, svc.RemoveSpell(ctx, book.ID, 2))
		detail, err := svc.Get(ctx, book.ID)
		require.NoError(t, err)
		assert.Len(t, detail.Spells, 1)
	})
}

func TestSpellbookDeleteCascades(t *testing.T) {
	t.Parallel()

	svc, db := setupBookService(t)
	ctx := context.Background()

	book, err := svc.Create(ctx, "Doomed")
	require.NoError(t, err)
	require.NoError(t, svc.AddSpell(ctx, book.ID, 1))

	require.NoError(t, svc.Delete(ctx, book.ID))

	var count int64
	require.NoError(t, db.Model(&model.SpellbookSpell{}).
		Where("spellbook_id = ?", book.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSpellbookSummary(t *testing.T) {
	t.Parallel()

	svc, _ := setupBookService(t)
	ctx := context.Background()

	book, err := svc.Create(ctx, "Field Kit")
	require.NoError(t, err)
	require.NoError(t, svc.AddSpell(ctx, book.ID, 1)) // level 1
	require.NoError(t, svc.AddSpell(ctx, book.ID, 2)) // level 4
	require.NoError(t, svc.AddSpell(ctx, book.ID, 3)) // cantrip
	require.NoError(t, svc.SetPrepared(ctx, book.ID, 2, true))

	summary, err := svc.Summarize(ctx, book.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.SpellCount)
	assert.Equal(t, 1, summary.PreparedCount)
	// pages: 1 + 4 + 1 (cantrips still take a page)
	assert.Equal(t, 6, summary.TotalPages)
	// cost: 10 + 40 + 5
	assert.Equal(t, 55, summary.ScribingCostGP)

	_, err = svc.Summarize(ctx, 999)
	assert.ErrorIs(t, err, ErrSpellbookNotFound)
}
