package model

// SpellCategory is a curated category label for a spell, produced by the
// offline categorization job and loaded by the importer. Uncategorized
// spells simply have no rows.
type SpellCategory struct {
	SpellID  int    `gorm:"primaryKey" json:"-"`
	Category string `gorm:"primaryKey;size:64" json:"category"`
}

func (SpellCategory) TableName() string {
	return "spell_categories"
}
