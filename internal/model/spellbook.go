package model

import "time"

// Spellbook is a user-named collection of spells.
type Spellbook struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Spells []SpellbookSpell `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Spellbook) TableName() string {
	return "spellbooks"
}

// SpellbookSpell is one membership row. A spell appears at most once per
// spellbook; Prepared is the per-item marked flag.
type SpellbookSpell struct {
	ID          uint `gorm:"primaryKey" json:"-"`
	SpellbookID uint `gorm:"not null;uniqueIndex:idx_spellbook_spell" json:"-"`
	SpellID     int  `gorm:"not null;uniqueIndex:idx_spellbook_spell" json:"spell_id"`
	Prepared    bool `gorm:"not null;default:false" json:"prepared"`
}

func (SpellbookSpell) TableName() string {
	return "spellbook_spells"
}
