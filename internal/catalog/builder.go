// Package catalog assembles the category map from a source directory.
package catalog

import (
	"context"

	"precios/catalog/internal/domain"
	"precios/catalog/internal/loader"
	"precios/catalog/internal/repository"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Builder holds no state between builds; every call re-reads and re-parses
// every source file.
type Builder struct {
	loader  *loader.Loader
	workers int
}

func NewBuilder(l *loader.Loader, workers int) *Builder {
	if workers < 1 {
		workers = 1
	}
	return &Builder{
		loader:  l,
		workers: workers,
	}
}

// Build returns a fresh catalog for dir. A missing directory yields an empty
// catalog.
func (b *Builder) Build(ctx context.Context, dir string) *domain.Catalog {
	return b.BuildFrom(ctx, repository.NewSourceRepository(dir))
}

// BuildFrom lists repo and loads every source in name order. On name
// collisions the later source replaces the earlier categories whole.
func (b *Builder) BuildFrom(ctx context.Context, repo repository.SourceRepository) *domain.Catalog {
	sources, exists, err := repo.List(ctx)
	if err != nil {
		log.Errorf("❌ Failed to list catalog sources: %v", err)
		return domain.NewCatalog()
	}
	if !exists {
		log.Debugf("Catalog source directory does not exist, serving empty catalog")
		return domain.NewCatalog()
	}

	cat, _ := b.buildSources(ctx, repo, sources)
	return cat
}

// buildSources parses up to b.workers files at once and merges them in the
// given order. complete is false when ctx ended before every file was
// loaded; the catalog then holds the loaded prefix.
func (b *Builder) buildSources(ctx context.Context, repo repository.SourceRepository, sources []repository.Source) (cat *domain.Catalog, complete bool) {
	parts := make([]*domain.Catalog, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, src := range sources {
		if gctx.Err() != nil {
			break
		}
		i, src := i, src
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			part := b.loader.LoadSource(gctx, repo, src)
			if err := gctx.Err(); err != nil {
				return err
			}
			parts[i] = part
			return nil
		})
	}

	err := g.Wait()

	cat = domain.NewCatalog()
	merged := 0
	for _, part := range parts {
		if part == nil {
			break
		}
		cat.Merge(part)
		merged++
	}

	complete = err == nil && ctx.Err() == nil && merged == len(sources)
	if !complete {
		log.Warnf("⚠️ Catalog build interrupted after %d of %d files: %v", merged, len(sources), context.Cause(ctx))
	}

	log.Debugf("Built catalog from %d files into %d categories", merged, cat.Len())
	return cat, complete
}
