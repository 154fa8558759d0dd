package app

import (
	"context"
	"strings"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/model"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/repository"
)

type SpellbookService struct {
	bookRepo  *repository.SpellbookRepository
	spellRepo *repository.SpellRepository
}

func NewSpellbookService(bookRepo *repository.SpellbookRepository, spellRepo *repository.SpellRepository) *SpellbookService {
	return &SpellbookService{bookRepo: bookRepo, spellRepo: spellRepo}
}

func (s *SpellbookService) List(ctx context.Context) ([]repository.SpellbookInfo, error) {
	return s.bookRepo.List(ctx)
}

// BookDetail is the membership view of a single spellbook.
type BookDetail struct {
	ID     uint                   `json:"id"`
	Name   string                 `json:"name"`
	Spells []model.SpellbookSpell `json:"spells"`
}

func (s *SpellbookService) Get(ctx context.Context, id uint) (*BookDetail, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrSpellbookNotFound
	}
	rows, err := s.bookRepo.Memberships(ctx, id)
	if err != nil {
		return nil, err
	}
	return &BookDetail{ID: book.ID, Name: book.Name, Spells: rows}, nil
}

func (s *SpellbookService) Create(ctx context.Context, name string) (*model.Spellbook, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}
	book := &model.Spellbook{Name: name}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *SpellbookService) Rename(ctx context.Context, id uint, name string) error {
	name = strings.TrimSpace(name)
	if id == 0 || name == "" {
		return ErrInvalidInput
	}
	if err := s.requireBook(ctx, id); err != nil {
		return err
	}
	return s.bookRepo.Rename(ctx, id, name)
}

func (s *SpellbookService) Delete(ctx context.Context, id uint) error {
	if id == 0 {
		return ErrInvalidInput
	}
	if err := s.requireBook(ctx, id); err != nil {
		return err
	}
	return s.bookRepo.Delete(ctx, id)
}

// AddSpell is idempotent: adding a spell already in the book succeeds
// without growing it.
func (s *SpellbookService) AddSpell(ctx context.Context, bookID uint, spellID int) error {
	if bookID == 0 || spellID <= 0 {
		return ErrInvalidInput
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return err
	}
	spell, err := s.spellRepo.GetByID(ctx, spellID)
	if err != nil {
		return err
	}
	if spell == nil {
		return ErrSpellNotFound
	}
	return s.bookRepo.AddSpell(ctx, bookID, spellID)
}

func (s *SpellbookService) RemoveSpell(ctx context.Context, bookID uint, spellID int) error {
	if bookID == 0 || spellID <= 0 {
		return ErrInvalidInput
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return err
	}
	removed, err := s.bookRepo.RemoveSpell(ctx, bookID, spellID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotInSpellbook
	}
	return nil
}

func (s *SpellbookService) SetPrepared(ctx context.Context, bookID uint, spellID int, prepared bool) error {
	if bookID == 0 || spellID <= 0 {
		return ErrInvalidInput
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return err
	}
	updated, err := s.bookRepo.SetPrepared(ctx, bookID, spellID, prepared)
	if err != nil {
		return err
	}
	if !updated {
		return ErrNotInSpellbook
	}
	return nil
}

func (s *SpellbookService) ResetPrepared(ctx context.Context, bookID uint) error {
	if bookID == 0 {
		return ErrInvalidInput
	}
	if err := s.requireBook(ctx, bookID); err != nil {
		return err
	}
	return s.bookRepo.ResetPrepared(ctx, bookID)
}

// Summary aggregates a spellbook. Page and cost totals derive from each
// spell's minimum class level: a spell needs max(1, level) pages and costs
// 10 gp per level to scribe, 5 gp for cantrips.
type Summary struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	SpellCount     int    `json:"spell_count"`
	PreparedCount  int    `json:"prepared_count"`
	TotalPages     int    `json:"total_pages"`
	ScribingCostGP int    `json:"scribing_cost_gp"`
}

func (s *SpellbookService) Summarize(ctx context.Context, bookID uint) (*Summary, error) {
	if bookID == 0 {
		return nil, ErrInvalidInput
	}
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrSpellbookNotFound
	}

	rows, err := s.bookRepo.Memberships(ctx, bookID)
	if err != nil {
		return nil, err
	}
	ids := make([]int, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.SpellID)
	}
	levels, err := s.spellRepo.MinLevelsBySpellIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	summary := &Summary{ID: book.ID, Name: book.Name, SpellCount: len(rows)}
	for _, row := range rows {
		level := levels[row.SpellID]
		summary.TotalPages += scribePages(level)
		summary.ScribingCostGP += scribeCost(level)
		if row.Prepared {
			summary.PreparedCount++
		}
	}
	return summary, nil
}

func scribePages(level int) int {
	if level < 1 {
		return 1
	}
	return level
}

func scribeCost(level int) int {
	if level < 1 {
		return 5
	}
	return level * 10
}

func (s *SpellbookService) requireBook(ctx context.Context, id uint) error {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if book == nil {
		return ErrSpellbookNotFound
	}
	return nil
}
