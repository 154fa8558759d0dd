package importer

import (
	"fmt"

	"gorm.io/gorm"
)

// Spells present in the CSV that do not exist on Archives of Nethys:
// third-party or adventure entries outside PF1e canon, or duplicates.
var phantomSpells = []struct {
	Name   string
	Source string
}{
	{"Mage's Evasion", "Rappan Athuk"},
	{"Chant", "Rappan Athuk"},
	{"Grand Curse", "Rappan Athuk"},
	{"Cone Of Slime", "Sword of Air"},
	{"Steal Book", "PFS S3-09"},
	{"Corpse Hammer", "Inner Sea Magic"},     // duplicate of Geb's Hammer
	{"Winter's Grasp", "People Of The North"}, // renamed to Winter Grasp
}

// Linktexts garbled in the CSV, keyed by spell name.
var linktextFixes = map[string]string{
	"Unfetter":                "Unfetter",                // was "Unfett er"
	"Evolution Surge, Lesser": "Evolution Surge, Lesser", // was "Evolution Surge, Leser"
	"Planar Adaptation, Mass": "Planar Adaptation, Mass", // was "Planar Adaptation< Mass"
}

// CSV names that do not match the canonical Archives of Nethys name.
var nameRenames = map[string]struct {
	Name     string
	Linktext string
}{
	"Adjuring Step":           {"Abjuring Step", "Abjuring Step"},
	"Companion Transposition": {"Companion Transportation", "Companion Transportation"},
	"Dead Eye's Arrow":        {"Deadeye's Arrow", "Deadeye's Arrow"},
	"Phantasmal Asphyxiation": {"Phantasmal Asphixiation", "Phantasmal Asphixiation"},

	"Ablative Sphere":       {"Ablative Sphere (Garundi)", "Ablative Sphere (Garundi)"},
	"Burning Arc":           {"Burning Arc (Keleshite)", "Burning Arc (Keleshite)"},
	"Fleshwarping Swarm":    {"Fleshwarping Swarm (Drow)", "Fleshwarping Swarm (Drow)"},
	"Fool's Gold":           {"Fool's Gold (VC)", "Fool's Gold (VC)"},
	"Shield Companion":      {"Shield Companion (ACG)", "Shield Companion (ACG)"},
	"Snow Shape":            {"Snow Shape (Ulfen)", "Snow Shape (Ulfen)"},
	"Summon Totem Creature": {"Summon Totem Creature (Shoanti)", "Summon Totem Creature (Shoanti)"},

	"Summon Monster I":          {"Summon Monster 1", "Summon Monster 1"},
	"Summon Monster II":         {"Summon Monster 2", "Summon Monster 2"},
	"Summon Monster III":        {"Summon Monster 3", "Summon Monster 3"},
	"Summon Monster IV":         {"Summon Monster 4", "Summon Monster 4"},
	"Summon Monster V":          {"Summon Monster 5", "Summon Monster 5"},
	"Summon Monster VI":         {"Summon Monster 6", "Summon Monster 6"},
	"Summon Monster VII":        {"Summon Monster 7", "Summon Monster 7"},
	"Summon Monster VIII":       {"Summon Monster 8", "Summon Monster 8"},
	"Summon Monster IX":         {"Summon Monster 9", "Summon Monster 9"},
	"Summon Nature's Ally I":    {"Summon Nature's Ally 1", "Summon Nature's Ally 1"},
	"Summon Nature's Ally II":   {"Summon Nature's Ally 2", "Summon Nature's Ally 2"},
	"Summon Nature's Ally III":  {"Summon Nature's Ally 3", "Summon Nature's Ally 3"},
	"Summon Nature's Ally IV":   {"Summon Nature's Ally 4", "Summon Nature's Ally 4"},
	"Summon Nature's Ally V":    {"Summon Nature's Ally 5", "Summon Nature's Ally 5"},
	"Summon Nature's Ally VI":   {"Summon Nature's Ally 6", "Summon Nature's Ally 6"},
	"Summon Nature's Ally VII":  {"Summon Nature's Ally 7", "Summon Nature's Ally 7"},
	"Summon Nature's Ally VIII": {"Summon Nature's Ally 8", "Summon Nature's Ally 8"},
	"Summon Nature's Ally IX":   {"Summon Nature's Ally 9", "Summon Nature's Ally 9"},
}

// applyFixups removes phantom spells, renames mismatched names and repairs
// broken linktexts. It runs before the search index is built.
func applyFixups(db *gorm.DB) error {
	for _, p := range phantomSpells {
		err := db.Exec(
			"DELETE FROM spell_classes WHERE spell_id IN (SELECT id FROM spells WHERE name = ? AND source = ?)",
			p.Name, p.Source,
		).Error
		if err != nil {
			return fmt.Errorf("remove phantom spell classes failed: %w", err)
		}
		err = db.Exec("DELETE FROM spells WHERE name = ? AND source = ?", p.Name, p.Source).Error
		if err != nil {
			return fmt.Errorf("remove phantom spell failed: %w", err)
		}
	}

	for oldName, fix := range nameRenames {
		err := db.Exec(
			"UPDATE spells SET name = ?, linktext = ? WHERE name = ?",
			fix.Name, fix.Linktext, oldName,
		).Error
		if err != nil {
			return fmt.Errorf("rename spell failed: %w", err)
		}
	}

	for name, linktext := range linktextFixes {
		err := db.Exec("UPDATE spells SET linktext = ? WHERE name = ?", linktext, name).Error
		if err != nil {
			return fmt.Errorf("fix linktext failed: %w", err)
		}
	}
	return nil
}
