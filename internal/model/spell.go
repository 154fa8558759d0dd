package model

// Spell is one row of the imported PF1E spell dataset. Rows are written only
// by the importer and are read-only at query time.
type Spell struct {
	ID               int    `gorm:"primaryKey" json:"id"`
	Name             string `gorm:"size:128;not null;index" json:"name"`
	School           string `gorm:"size:64;index" json:"school"`
	Subschool        string `gorm:"size:64" json:"subschool"`
	Descriptor       string `gorm:"size:128" json:"descriptor"`
	SpellLevel       string `gorm:"size:512" json:"spell_level"`
	CastingTime      string `gorm:"size:128" json:"casting_time"`
	Components       string `gorm:"size:512" json:"components"`
	CostlyComponents int    `json:"costly_components"`
	Range            string `gorm:"column:range;size:128" json:"range"`
	Area             string `gorm:"size:256" json:"area"`
	Effect           string `gorm:"size:256" json:"effect"`
	Targets          string `gorm:"size:256" json:"targets"`
	Duration         string `gorm:"size:128" json:"duration"`
	Dismissible      int    `json:"dismissible"`
	Shapeable        int    `json:"shapeable"`
	SavingThrow      string `gorm:"size:128" json:"saving_throw"`
	SpellResistance  string `gorm:"size:128" json:"spell_resistance"`
	Description      string `gorm:"type:text" json:"description"`
	ShortDescription string `gorm:"type:text" json:"short_description"`
	Source           string `gorm:"size:128" json:"source"`
	Verbal           int    `json:"verbal"`
	Somatic          int    `json:"somatic"`
	Material         int    `json:"material"`
	Focus            int    `json:"focus"`
	DivineFocus      int    `json:"divine_focus"`
	MythicText       string `gorm:"type:text" json:"mythic_text"`
	Mythic           int    `json:"mythic"`
	Linktext         string `gorm:"size:128" json:"linktext"`

	// Descriptor flag columns, 0/1. The boolean-flag filters match these
	// statically by column name.
	Acid              int `json:"acid"`
	Air               int `json:"air"`
	Chaotic           int `json:"chaotic"`
	Cold              int `json:"cold"`
	Curse             int `json:"curse"`
	Darkness          int `json:"darkness"`
	Death             int `json:"death"`
	Disease           int `json:"disease"`
	Earth             int `json:"earth"`
	Electricity       int `json:"electricity"`
	Emotion           int `json:"emotion"`
	Evil              int `json:"evil"`
	Fear              int `json:"fear"`
	Fire              int `json:"fire"`
	Force             int `json:"force"`
	Good              int `json:"good"`
	LanguageDependent int `gorm:"column:language_dependent" json:"language_dependent"`
	Lawful            int `json:"lawful"`
	Light             int `json:"light"`
	MindAffecting     int `gorm:"column:mind_affecting" json:"mind_affecting"`
	Pain              int `json:"pain"`
	Poison            int `json:"poison"`
	Shadow            int `json:"shadow"`
	Sonic             int `json:"sonic"`
	Water             int `json:"water"`
}

func (Spell) TableName() string {
	return "spells"
}
