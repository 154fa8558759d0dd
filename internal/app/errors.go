package app

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrSpellNotFound     = errors.New("spell not found")
	ErrSpellbookNotFound = errors.New("spellbook not found")
	ErrNotInSpellbook    = errors.New("spell not in spellbook")
	ErrInvalidToken      = errors.New("invalid spellbook token")
	ErrNameConflict      = errors.New("spellbook name already exists")
)
