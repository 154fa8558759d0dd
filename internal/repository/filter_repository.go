package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/search"
)

type FilterRepository struct {
	db *gorm.DB
}

func NewFilterRepository(db *gorm.DB) *FilterRepository {
	return &FilterRepository{db: db}
}

func (r *FilterRepository) DistinctClasses(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).
		Raw("SELECT DISTINCT class_name FROM spell_classes ORDER BY class_name").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("distinct classes failed: %w", err)
	}
	return out, nil
}

func (r *FilterRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).
		Raw("SELECT DISTINCT category FROM spell_categories ORDER BY category").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("distinct categories failed: %w", err)
	}
	return out, nil
}

// DistinctColumn returns the distinct non-empty values of an exact-match
// spells column, alphabetically. The name must be a known filter name; the
// column identifier never comes from user input.
func (r *FilterRepository) DistinctColumn(ctx context.Context, name string) ([]string, error) {
	col, ok := search.ExactColumn(name)
	if !ok {
		return nil, fmt.Errorf("unknown filter column %q", name)
	}
	var out []string
	q := fmt.Sprintf("SELECT DISTINCT %s FROM spells WHERE %s != '' ORDER BY %s", col, col, col)
	if err := r.db.WithContext(ctx).Raw(q).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("distinct %s failed: %w", col, err)
	}
	return out, nil
}

// DistinctColumnByFrequency returns distinct values ordered by descending
// occurrence count, so pickers surface common values first.
func (r *FilterRepository) DistinctColumnByFrequency(ctx context.Context, name string) ([]string, error) {
	col, ok := search.ExactColumn(name)
	if !ok {
		return nil, fmt.Errorf("unknown filter column %q", name)
	}
	var out []string
	q := fmt.Sprintf(
		"SELECT %s FROM spells WHERE %s IS NOT NULL AND %s != '' GROUP BY %s ORDER BY COUNT(*) DESC, %s",
		col, col, col, col, col,
	)
	if err := r.db.WithContext(ctx).Raw(q).Scan(&out).Error; err != nil {
		return nil, fmt.Errorf("distinct %s by frequency failed: %w", col, err)
	}
	return out, nil
}
