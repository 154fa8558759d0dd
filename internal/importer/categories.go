package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"gorm.io/gorm/clause"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/model"
)

type categoryEntry struct {
	ID         int      `json:"id"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// ImportCategories loads a reviewed category assignment file and rebuilds
// the spell_categories table from it. "None" marks an uncategorized spell;
// no row is stored for it. Returns the number of assignments written.
func (im *Importer) ImportCategories(ctx context.Context, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read categories file failed: %w", err)
	}
	var entries []categoryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return 0, fmt.Errorf("parse categories file failed: %w", err)
	}

	db := im.db.WithContext(ctx)
	if err := db.Exec("DELETE FROM spell_categories").Error; err != nil {
		return 0, fmt.Errorf("clear spell_categories failed: %w", err)
	}

	var rows []model.SpellCategory
	for _, entry := range entries {
		for _, cat := range entry.Categories {
			if cat == "None" {
				continue
			}
			rows = append(rows, model.SpellCategory{SpellID: entry.ID, Category: cat})
		}
	}
	if len(rows) == 0 {
		return 0, nil
	}

	err = db.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, 500).Error
	if err != nil {
		return 0, fmt.Errorf("insert spell categories failed: %w", err)
	}
	return len(rows), nil
}
