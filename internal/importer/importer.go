// Package importer performs the one-shot dataset build: it downloads the
// spells CSV, loads it into SQLite, derives class/level associations,
// applies data fixups and populates the full-text index. It runs from the
// importer command, never on the query path, and fails loudly.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/model"
	sqliteClient "github.com/BubbleCoding/Spellfinder-PF1E/internal/platform/sqlite"
)

type Importer struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Importer {
	return &Importer{db: db}
}

type Stats struct {
	Spells     int
	Classes    int
	Categories int
}

// FetchCSV downloads the dataset CSV, tolerating a UTF-8 BOM.
func FetchCSV(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build csv request failed: %w", err)
	}
	req.Header.Set("User-Agent", "Spellfinder/1.0")

	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download csv failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download csv failed: unexpected status %s", resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read csv body failed: %w", err)
	}
	return strings.TrimPrefix(string(raw), "\ufeff"), nil
}

// ReadCSVFile loads the dataset from a local file, tolerating a UTF-8 BOM.
func ReadCSVFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read csv file failed: %w", err)
	}
	return strings.TrimPrefix(string(raw), "\ufeff"), nil
}

// Run rebuilds the dataset tables from csvText and optionally loads the
// categorization checkpoint. Existing rows are dropped first; spellbooks
// are left untouched.
func (im *Importer) Run(ctx context.Context, csvText, categoriesPath string) (*Stats, error) {
	if err := im.db.WithContext(ctx).AutoMigrate(
		&model.Spell{},
		&model.SpellClass{},
		&model.SpellCategory{},
		&model.Spellbook{},
		&model.SpellbookSpell{},
	); err != nil {
		return nil, fmt.Errorf("migrate tables failed: %w", err)
	}
	if err := sqliteClient.EnsureSearchIndex(im.db); err != nil {
		return nil, err
	}

	if err := im.db.WithContext(ctx).Exec("DELETE FROM spell_classes").Error; err != nil {
		return nil, fmt.Errorf("clear spell_classes failed: %w", err)
	}
	if err := im.db.WithContext(ctx).Exec("DELETE FROM spells").Error; err != nil {
		return nil, fmt.Errorf("clear spells failed: %w", err)
	}

	stats := &Stats{}
	spells, classes, err := parseCSV(csvText)
	if err != nil {
		return nil, err
	}

	const batchSize = 200
	if err := im.db.WithContext(ctx).CreateInBatches(spells, batchSize).Error; err != nil {
		return nil, fmt.Errorf("insert spells failed: %w", err)
	}
	if err := im.db.WithContext(ctx).CreateInBatches(classes, batchSize).Error; err != nil {
		return nil, fmt.Errorf("insert spell classes failed: %w", err)
	}
	stats.Spells = len(spells)
	stats.Classes = len(classes)

	// Fixups run before the FTS build so the index always reflects
	// cleaned data.
	if err := applyFixups(im.db.WithContext(ctx)); err != nil {
		return nil, err
	}
	if err := im.RebuildSearchIndex(ctx); err != nil {
		return nil, err
	}

	if categoriesPath != "" {
		n, err := im.ImportCategories(ctx, categoriesPath)
		if err != nil {
			return nil, err
		}
		stats.Categories = n
	}
	return stats, nil
}

// RebuildSearchIndex repopulates spells_fts from the spells table.
func (im *Importer) RebuildSearchIndex(ctx context.Context) error {
	db := im.db.WithContext(ctx)
	// External-content FTS5 tables are cleared with the delete-all command,
	// not a plain DELETE.
	if err := db.Exec("INSERT INTO spells_fts(spells_fts) VALUES('delete-all')").Error; err != nil {
		return fmt.Errorf("clear fts table failed: %w", err)
	}
	cols := strings.Join(sqliteClient.FTSColumns, ", ")
	stmt := fmt.Sprintf(
		"INSERT INTO spells_fts(rowid, %s) SELECT id, %s FROM spells",
		cols, cols,
	)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("populate fts table failed: %w", err)
	}
	return nil
}

// parseCSV turns the raw CSV into spell rows plus the class/level
// associations derived from the spell_level text column.
func parseCSV(csvText string) ([]model.Spell, []model.SpellClass, error) {
	reader := csv.NewReader(strings.NewReader(csvText))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header failed: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	var spells []model.Spell
	var classes []model.SpellClass
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv record failed: %w", err)
		}

		get := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(record) {
				return ""
			}
			return clean(record[i])
		}
		getInt := func(col string) int { return cleanInt(get(col)) }

		spell := model.Spell{
			ID:               getInt("id"),
			Name:             get("name"),
			School:           get("school"),
			Subschool:        get("subschool"),
			Descriptor:       get("descriptor"),
			SpellLevel:       get("spell_level"),
			CastingTime:      get("casting_time"),
			Components:       get("components"),
			CostlyComponents: getInt("costly_components"),
			Range:            get("range"),
			Area:             get("area"),
			Effect:           get("effect"),
			Targets:          get("targets"),
			Duration:         get("duration"),
			Dismissible:      getInt("dismissible"),
			Shapeable:        getInt("shapeable"),
			SavingThrow:      get("saving_throw"),
			SpellResistance:  get("spell_resistance"),
			Description:      get("description"),
			ShortDescription: get("short_description"),
			Source:           get("source"),
			Verbal:           getInt("verbal"),
			Somatic:          getInt("somatic"),
			Material:         getInt("material"),
			Focus:            getInt("focus"),
			DivineFocus:      getInt("divine_focus"),
			MythicText:       get("mythic_text"),
			Mythic:           getInt("mythic"),
			Linktext:         get("linktext"),

			Acid:              getInt("acid"),
			Air:               getInt("air"),
			Chaotic:           getInt("chaotic"),
			Cold:              getInt("cold"),
			Curse:             getInt("curse"),
			Darkness:          getInt("darkness"),
			Death:             getInt("death"),
			Disease:           getInt("disease"),
			Earth:             getInt("earth"),
			Electricity:       getInt("electricity"),
			Emotion:           getInt("emotion"),
			Evil:              getInt("evil"),
			Fear:              getInt("fear"),
			Fire:              getInt("fire"),
			Force:             getInt("force"),
			Good:              getInt("good"),
			LanguageDependent: getInt("language-dependent"),
			Lawful:            getInt("lawful"),
			Light:             getInt("light"),
			MindAffecting:     getInt("mind-affecting"),
			Pain:              getInt("pain"),
			Poison:            getInt("poison"),
			Shadow:            getInt("shadow"),
			Sonic:             getInt("sonic"),
			Water:             getInt("water"),
		}
		if spell.Name == "" {
			continue
		}
		spells = append(spells, spell)

		for _, assoc := range parseSpellLevel(spell.SpellLevel) {
			classes = append(classes, model.SpellClass{
				SpellID:   spell.ID,
				ClassName: assoc.ClassName,
				Level:     assoc.Level,
			})
		}
	}
	return spells, classes, nil
}

type classLevel struct {
	ClassName string
	Level     int
}

var classLevelRe = regexp.MustCompile(`^(.+?)\s+(\d+)$`)

// parseSpellLevel parses "sorcerer/wizard 2, magus 2" into class/level
// pairs; entries that don't match the pattern are skipped.
func parseSpellLevel(raw string) []classLevel {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []classLevel
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		m := classLevelRe.FindStringSubmatch(entry)
		if m == nil {
			continue
		}
		level, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		out = append(out, classLevel{
			ClassName: strings.ToLower(strings.TrimSpace(m[1])),
			Level:     level,
		})
	}
	return out
}

// clean normalizes a CSV value: the literal NULL becomes an empty string.
func clean(val string) string {
	val = strings.TrimSpace(val)
	if strings.EqualFold(val, "NULL") {
		return ""
	}
	return val
}

func cleanInt(val string) int {
	n, err := strconv.Atoi(clean(val))
	if err != nil {
		return 0
	}
	return n
}
