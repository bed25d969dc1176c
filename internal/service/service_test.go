package service

import (
	"context"
	"testing"

	"precios/catalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	cat   *domain.Catalog
	calls int
}

func (s *countingSource) Catalog(ctx context.Context) *domain.Catalog {
	s.calls++
	return s.cat
}

func newSource() *countingSource {
	name := domain.NewObject()
	name.Set("name", "Cola")

	cat := domain.NewCatalog()
	cat.Put("bebidas", []*domain.Record{domain.NewRecord(name, "bebidas", 0, nil)})
	cat.Put("vacia", nil)
	return &countingSource{cat: cat}
}

func TestCategories(t *testing.T) {
	src := newSource()
	assert.Equal(t, []string{"bebidas", "vacia"}, NewService(src).Categories(context.Background()))
	assert.Equal(t, 1, src.calls)
}

func TestItems(t *testing.T) {
	src := newSource()
	svc := NewService(src)

	records, err := svc.Items(context.Background(), "  bebidas ")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "bebidas:0", records[0].ID)

	records, err = svc.Items(context.Background(), "vacia")
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = svc.Items(context.Background(), "unknown")
	assert.ErrorIs(t, err, ErrUnknownCategory)

	calls := src.calls
	_, err = svc.Items(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.Equal(t, calls, src.calls)
}

func TestSearch(t *testing.T) {
	src := newSource()
	svc := NewService(src)

	got := svc.Search(context.Background(), " COLA ")
	require.Len(t, got, 1)
	assert.Equal(t, "bebidas:0", got[0].ID)

	src.calls = 0
	got = svc.Search(context.Background(), "  ")
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, 0, src.calls, "empty query must not build the catalog")
}
