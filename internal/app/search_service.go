package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/model"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/repository"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/search"
)

type SearchService struct {
	spellRepo *repository.SpellRepository
}

func NewSearchService(spellRepo *repository.SpellRepository) *SearchService {
	return &SearchService{spellRepo: spellRepo}
}

// SearchInput carries the raw request values. Filters maps filter name to
// the repeated parameter values; malformed entries are ignored rather than
// rejected.
type SearchInput struct {
	Text       string
	Filters    map[string][]string
	Flags      []string
	Exclusions []string
	IDs        []string
	Sort       string
	Page       int
	PerPage    string // number, empty, or the "all" sentinel
}

// SpellView is one result record: every scalar field plus the nested
// association lists.
type SpellView struct {
	model.Spell
	Classes    []model.SpellClass `json:"classes"`
	Categories []string           `json:"categories"`
}

type SearchResult struct {
	Spells  []SpellView `json:"spells"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
	Pages   int         `json:"pages"`
}

func (s *SearchService) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
	q := s.translate(input)

	spells, total, err := s.spellRepo.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(spells))
	for _, sp := range spells {
		ids = append(ids, sp.ID)
	}
	classes, err := s.spellRepo.ClassesBySpellIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	categories, err := s.spellRepo.CategoriesBySpellIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]SpellView, 0, len(spells))
	for _, sp := range spells {
		views = append(views, SpellView{
			Spell:      sp,
			Classes:    classes[sp.ID],
			Categories: categories[sp.ID],
		})
	}

	limit := q.Limit()
	return &SearchResult{
		Spells:  views,
		Total:   total,
		Page:    q.Page,
		PerPage: limit,
		Pages:   int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// Get returns one spell with its associations.
func (s *SearchService) Get(ctx context.Context, id int) (*SpellView, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	spell, err := s.spellRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if spell == nil {
		return nil, ErrSpellNotFound
	}
	classes, err := s.spellRepo.ClassesBySpellIDs(ctx, []int{id})
	if err != nil {
		return nil, err
	}
	categories, err := s.spellRepo.CategoriesBySpellIDs(ctx, []int{id})
	if err != nil {
		return nil, err
	}
	return &SpellView{Spell: *spell, Classes: classes[id], Categories: categories[id]}, nil
}

// translate resolves raw input into a search.Query: scoped field:value
// tokens come out of the text first, then the repeated filter parameters
// are layered on.
func (s *SearchService) translate(input SearchInput) search.Query {
	var q search.Query

	q.Text = search.ExtractScoped(&q, input.Text)
	for _, name := range search.FilterNames() {
		if values, ok := input.Filters[name]; ok {
			q.AddValues(name, values)
		}
	}
	q.Flags = input.Flags
	q.Exclusions = input.Exclusions

	for _, raw := range input.IDs {
		if id, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && id > 0 {
			q.IDs = append(q.IDs, id)
		}
	}

	q.Sort = input.Sort
	q.Page = input.Page
	if q.Page < 1 {
		q.Page = 1
	}
	q.PerPage = resolvePerPage(input.PerPage)
	return q
}

// resolvePerPage maps the raw page-size parameter onto the translator's
// conventions: 0 is the capped "all" sentinel, everything else clamps to
// [1, MaxPageSize]; garbage falls back to the default.
func resolvePerPage(raw string) int {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "all" {
		return 0
	}
	if raw == "" {
		return search.DefaultPageSize
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return search.DefaultPageSize
	}
	if n <= 0 {
		return 0
	}
	return n
}
