package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sync"
	"time"

	"precios/catalog/internal/domain"
	"precios/catalog/internal/repository"

	gocache "github.com/patrickmn/go-cache"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// DirSource rebuilds the catalog from its directory on every call.
type DirSource struct {
	builder *Builder
	dir     string
}

func NewDirSource(builder *Builder, dir string) *DirSource {
	return &DirSource{
		builder: builder,
		dir:     dir,
	}
}

func (s *DirSource) Catalog(ctx context.Context) *domain.Catalog {
	return s.builder.Build(ctx, s.dir)
}

// CachedSource reuses a built catalog while the directory listing is
// unchanged. The listing (name, size and mod time of every source) is read on
// every call; any difference is a miss and drops the previous snapshot.
// Returned catalogs are shared and must not be mutated.
type CachedSource struct {
	builder *Builder
	repo    repository.SourceRepository
	cache   *gocache.Cache
	group   singleflight.Group

	mu      sync.Mutex
	lastKey string
}

func NewCachedSource(builder *Builder, repo repository.SourceRepository, ttl time.Duration) *CachedSource {
	return &CachedSource{
		builder: builder,
		repo:    repo,
		cache:   gocache.New(ttl, 2*ttl),
	}
}

func (s *CachedSource) Catalog(ctx context.Context) *domain.Catalog {
	sources, exists, err := s.repo.List(ctx)
	if err != nil {
		log.Errorf("❌ Failed to list catalog sources: %v", err)
		return domain.NewCatalog()
	}
	if !exists {
		return domain.NewCatalog()
	}

	key := Fingerprint(sources)
	if v, found := s.cache.Get(key); found {
		return v.(*domain.Catalog)
	}

	s.invalidate(key)

	// The shared build outlives any one caller; a caller that gives up
	// only stops waiting for it.
	buildCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		cat, complete := s.builder.buildSources(buildCtx, s.repo, sources)
		if complete {
			s.cache.SetDefault(key, cat)
		}
		return cat, nil
	})

	select {
	case res := <-ch:
		return res.Val.(*domain.Catalog)
	case <-ctx.Done():
		log.Debugf("Caller left before catalog build finished: %v", context.Cause(ctx))
		return domain.NewCatalog()
	}
}

// invalidate drops the snapshot of the previous listing once a new one is seen.
func (s *CachedSource) invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastKey != "" && s.lastKey != key {
		log.Debugf("Catalog sources changed, dropping cached snapshot")
		s.cache.Delete(s.lastKey)
	}
	s.lastKey = key
}

// Fingerprint hashes a source listing into a cache key.
func Fingerprint(sources []repository.Source) string {
	h := sha256.New()
	var buf [8]byte
	for _, src := range sources {
		h.Write([]byte(src.Name))
		h.Write([]byte{0})
		binary.BigEndian.PutUint64(buf[:], uint64(src.Size))
		h.Write(buf[:])
		binary.BigEndian.PutUint64(buf[:], uint64(src.ModTime.UnixNano()))
		h.Write(buf[:])
	}
	return "catalog:v1:" + hex.EncodeToString(h.Sum(nil))
}
