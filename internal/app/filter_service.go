package app

import (
	"context"
	"log"

	"github.com/BubbleCoding/Spellfinder-PF1E/internal/repository"
	"github.com/BubbleCoding/Spellfinder-PF1E/internal/search"
)

// FilterOptionsCache caches the derived option catalog. The cache is a
// read-through convenience; misses and cache errors fall back to live
// derivation.
type FilterOptionsCache interface {
	Get(ctx context.Context) (*FilterOptions, bool, error)
	Set(ctx context.Context, options *FilterOptions) error
}

// FilterOptions is the full option catalog for the filter UI. Attribute
// fields are frequency-ordered; the grouped/flag/exclusion lists are the
// static taxonomies.
type FilterOptions struct {
	Classes    []string `json:"classes"`
	Schools    []string `json:"schools"`
	Sources    []string `json:"sources"`
	Categories []string `json:"categories"`

	CastingTime []string `json:"casting_time"`
	Range       []string `json:"range"`
	Effect      []string `json:"effect"`
	Targets     []string `json:"targets"`
	Duration    []string `json:"duration"`
	Subschool   []string `json:"subschool"`
	Descriptor  []string `json:"descriptor"`

	SavingThrow     []string `json:"saving_throw"`
	SpellResistance []string `json:"spell_resistance"`
	Area            []string `json:"area"`
	Flags           []string `json:"flags"`
	Exclusions      []string `json:"exclusions"`
}

type FilterService struct {
	filterRepo *repository.FilterRepository
	cache      FilterOptionsCache
}

// NewFilterService builds the catalog service; cache may be nil.
func NewFilterService(filterRepo *repository.FilterRepository, cache FilterOptionsCache) *FilterService {
	return &FilterService{filterRepo: filterRepo, cache: cache}
}

func (s *FilterService) Options(ctx context.Context) (*FilterOptions, error) {
	if s.cache != nil {
		if cached, hit, err := s.cache.Get(ctx); err == nil && hit {
			return cached, nil
		}
	}

	options, err := s.derive(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, options); err != nil {
			log.Printf("cache filter options failed: %v", err)
		}
	}
	return options, nil
}

func (s *FilterService) derive(ctx context.Context) (*FilterOptions, error) {
	classes, err := s.filterRepo.DistinctClasses(ctx)
	if err != nil {
		return nil, err
	}
	schools, err := s.filterRepo.DistinctColumn(ctx, "school")
	if err != nil {
		return nil, err
	}
	sources, err := s.filterRepo.DistinctColumn(ctx, "source")
	if err != nil {
		return nil, err
	}
	categories, err := s.filterRepo.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}

	attrs := make(map[string][]string)
	for _, field := range search.AttributeFields() {
		values, err := s.filterRepo.DistinctColumnByFrequency(ctx, field)
		if err != nil {
			return nil, err
		}
		attrs[field] = values
	}

	return &FilterOptions{
		Classes:         classes,
		Schools:         schools,
		Sources:         sources,
		Categories:      categories,
		CastingTime:     attrs["casting_time"],
		Range:           attrs["range"],
		Effect:          attrs["effect"],
		Targets:         attrs["targets"],
		Duration:        attrs["duration"],
		Subschool:       attrs["subschool"],
		Descriptor:      attrs["descriptor"],
		SavingThrow:     search.GroupedOptions("saving_throw"),
		SpellResistance: search.GroupedOptions("spell_resistance"),
		Area:            search.GroupedOptions("area"),
		Flags:           search.FlagNames(),
		Exclusions:      search.ExclusionNames(),
	}, nil
}
