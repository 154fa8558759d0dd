package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/model"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/search"
)

type SpellRepository struct {
	db *gorm.DB
}

func NewSpellRepository(db *gorm.DB) *SpellRepository {
	return &SpellRepository{db: db}
}

// Search runs the compiled query and returns the page slice plus the total
// match count.
func (r *SpellRepository) Search(ctx context.Context, q search.Query) ([]model.Spell, int64, error) {
	countSQL, selectSQL, countArgs, selectArgs := search.Build(q)

	var total int64
	if err := r.db.WithContext(ctx).Raw(countSQL, countArgs...).Scan(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count spells failed: %w", err)
	}

	var spells []model.Spell
	if err := r.db.WithContext(ctx).Raw(selectSQL, selectArgs...).Scan(&spells).Error; err != nil {
		return nil, 0, fmt.Errorf("search spells failed: %w", err)
	}
	return spells, total, nil
}

func (r *SpellRepository) GetByID(ctx context.Context, id int) (*model.Spell, error) {
	var spell model.Spell
	if err := r.db.WithContext(ctx).First(&spell, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get spell failed: %w", err)
	}
	return &spell, nil
}

// ClassesBySpellIDs batch-loads class associations for a result page,
// keyed by spell ID and ordered by class name.
func (r *SpellRepository) ClassesBySpellIDs(ctx context.Context, ids []int) (map[int][]model.SpellClass, error) {
	out := make(map[int][]model.SpellClass, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.SpellClass
	if err := r.db.WithContext(ctx).
		Where("spell_id IN ?", ids).
		Order("class_name").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list spell classes failed: %w", err)
	}
	for _, row := range rows {
		out[row.SpellID] = append(out[row.SpellID], row)
	}
	return out, nil
}

// CategoriesBySpellIDs batch-loads category labels for a result page.
func (r *SpellRepository) CategoriesBySpellIDs(ctx context.Context, ids []int) (map[int][]string, error) {
	out := make(map[int][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.SpellCategory
	if err := r.db.WithContext(ctx).
		Where("spell_id IN ?", ids).
		Order("category").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list spell categories failed: %w", err)
	}
	for _, row := range rows {
		out[row.SpellID] = append(out[row.SpellID], row.Category)
	}
	return out, nil
}

// MinLevelsBySpellIDs returns, per spell, the minimum level across all of
// its class associations. Spells with no associations are absent from the
// result.
func (r *SpellRepository) MinLevelsBySpellIDs(ctx context.Context, ids []int) (map[int]int, error) {
	out := make(map[int]int, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	type row struct {
		SpellID int
		Level   int
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&model.SpellClass{}).
		Select("spell_id, MIN(level) AS level").
		Where("spell_id IN ?", ids).
		Group("spell_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("min levels failed: %w", err)
	}
	for _, r := range rows {
		out[r.SpellID] = r.Level
	}
	return out, nil
}
