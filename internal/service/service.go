package service

import (
	"context"
	"errors"
	"strings"

	"precios/catalog/internal/domain"
	"precios/catalog/internal/search"
)

var ErrUnknownCategory = errors.New("unknown category")

// CatalogSource yields the catalog snapshot for one read.
type CatalogSource interface {
	Catalog(ctx context.Context) *domain.Catalog
}

type Service struct {
	source CatalogSource
}

func NewService(source CatalogSource) *Service {
	return &Service{
		source: source,
	}
}

// Categories lists category names in catalog order.
func (s *Service) Categories(ctx context.Context) []string {
	return s.source.Catalog(ctx).Names()
}

// Items returns the records of one category. The name is trimmed; an empty
// or absent name is ErrUnknownCategory.
func (s *Service) Items(ctx context.Context, category string) ([]*domain.Record, error) {
	name := strings.TrimSpace(category)
	if name == "" {
		return nil, ErrUnknownCategory
	}

	records, ok := s.source.Catalog(ctx).Get(name)
	if !ok {
		return nil, ErrUnknownCategory
	}
	return records, nil
}

// Search runs a free-text search. An empty query returns no records without
// building the catalog.
func (s *Service) Search(ctx context.Context, query string) []*domain.Record {
	if search.Normalize(query) == "" {
		return make([]*domain.Record, 0)
	}
	return search.Search(s.source.Catalog(ctx), query)
}
