package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/model"
)

type SpellbookRepository struct {
	db *gorm.DB
}

func NewSpellbookRepository(db *gorm.DB) *SpellbookRepository {
	return &SpellbookRepository{db: db}
}

// SpellbookInfo is a listing row: identity plus membership size.
type SpellbookInfo struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Size int    `json:"size"`
}

func (r *SpellbookRepository) List(ctx context.Context) ([]SpellbookInfo, error) {
	var out []SpellbookInfo
	err := r.db.WithContext(ctx).Raw(`
		SELECT b.id, b.name, COUNT(ss.id) AS size
		FROM spellbooks b
		LEFT JOIN spellbook_spells ss ON ss.spellbook_id = b.id
		GROUP BY b.id, b.name
		ORDER BY b.name`).Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list spellbooks failed: %w", err)
	}
	return out, nil
}

func (r *SpellbookRepository) Create(ctx context.Context, book *model.Spellbook) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("create spellbook failed: %w", err)
	}
	return nil
}

func (r *SpellbookRepository) GetByID(ctx context.Context, id uint) (*model.Spellbook, error) {
	var book model.Spellbook
	if err := r.db.WithContext(ctx).First(&book, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get spellbook failed: %w", err)
	}
	return &book, nil
}

func (r *SpellbookRepository) GetByName(ctx context.Context, name string) (*model.Spellbook, error) {
	var book model.Spellbook
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&book).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get spellbook by name failed: %w", err)
	}
	return &book, nil
}

func (r *SpellbookRepository) Rename(ctx context.Context, id uint, name string) error {
	if err := r.db.WithContext(ctx).
		Model(&model.Spellbook{}).
		Where("id = ?", id).
		Update("name", name).Error; err != nil {
		return fmt.Errorf("rename spellbook failed: %w", err)
	}
	return nil
}

// Delete removes the spellbook and its membership rows in one transaction
// so orphaned memberships cannot outlive their spellbook.
func (r *SpellbookRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("spellbook_id = ?", id).Delete(&model.SpellbookSpell{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Spellbook{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete spellbook failed: %w", err)
	}
	return nil
}

// AddSpell inserts a membership row, a no-op when the spell is already
// present.
func (r *SpellbookRepository) AddSpell(ctx context.Context, bookID uint, spellID int) error {
	row := model.SpellbookSpell{SpellbookID: bookID, SpellID: spellID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error; err != nil {
		return fmt.Errorf("add spell to spellbook failed: %w", err)
	}
	return nil
}

func (r *SpellbookRepository) RemoveSpell(ctx context.Context, bookID uint, spellID int) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("spellbook_id = ? AND spell_id = ?", bookID, spellID).
		Delete(&model.SpellbookSpell{})
	if result.Error != nil {
		return false, fmt.Errorf("remove spell from spellbook failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *SpellbookRepository) SetPrepared(ctx context.Context, bookID uint, spellID int, prepared bool) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.SpellbookSpell{}).
		Where("spellbook_id = ? AND spell_id = ?", bookID, spellID).
		Update("prepared", prepared)
	if result.Error != nil {
		return false, fmt.Errorf("set prepared failed: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *SpellbookRepository) ResetPrepared(ctx context.Context, bookID uint) error {
	if err := r.db.WithContext(ctx).
		Model(&model.SpellbookSpell{}).
		Where("spellbook_id = ?", bookID).
		Update("prepared", false).Error; err != nil {
		return fmt.Errorf("reset prepared failed: %w", err)
	}
	return nil
}

// Memberships returns the membership rows in insertion order.
func (r *SpellbookRepository) Memberships(ctx context.Context, bookID uint) ([]model.SpellbookSpell, error) {
	var rows []model.SpellbookSpell
	if err := r.db.WithContext(ctx).
		Where("spellbook_id = ?", bookID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list memberships failed: %w", err)
	}
	return rows, nil
}

// CreateWithSpells creates a spellbook and all of its membership rows as
// one transaction; used by token import so a bad payload never lands
// half-applied.
func (r *SpellbookRepository) CreateWithSpells(ctx context.Context, book *model.Spellbook, spells []model.SpellbookSpell) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(book).Error; err != nil {
			return err
		}
		for i := range spells {
			spells[i].SpellbookID = book.ID
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&spells[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import spellbook failed: %w", err)
	}
	return nil
}
