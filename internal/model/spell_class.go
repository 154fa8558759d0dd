package model

// SpellClass links a spell to a character class at the level the class casts
// it. One spell may appear for many classes at different levels.
type SpellClass struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	SpellID   int    `gorm:"not null;index" json:"-"`
	ClassName string `gorm:"size:64;not null;index" json:"class_name"`
	Level     int    `gorm:"not null;index" json:"level"`
}

func (SpellClass) TableName() string {
	return "spell_classes"
}
