// Package loader turns catalog source files into enriched category records.
package loader

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"precios/catalog/internal/domain"
	"precios/catalog/internal/repository"
	"precios/catalog/internal/tax"

	log "github.com/sirupsen/logrus"
)

// whitespaceRun matches ASCII whitespace plus the Unicode space separators,
// line/paragraph separators and the BOM.
var whitespaceRun = regexp.MustCompile(`[\t\n\v\f\r \x{00a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}\x{feff}]+`)

type Loader struct {
	calc *tax.Calculator
}

func New(calc *tax.Calculator) *Loader {
	return &Loader{
		calc: calc,
	}
}

// BucketCategory derives the category name of a bucket: the lowercased
// "<base>_<key>" with every whitespace run replaced by one underscore.
func BucketCategory(base, key string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(base+"_"+key), "_")
}

// LoadFile reads one source file and returns its categories. Failures are
// logged; an unreadable file still yields its base category, empty.
func (l *Loader) LoadFile(path string) *domain.Catalog {
	return l.LoadDocument(filepath.Base(path), ReadDocument(path))
}

// LoadSource reads one source through repo and returns its categories.
func (l *Loader) LoadSource(ctx context.Context, repo repository.SourceRepository, src repository.Source) *domain.Catalog {
	data, err := repo.Read(ctx, src)
	if err != nil {
		log.Errorf("❌ Failed to read catalog file %s: %v", src.Path, err)
		return l.LoadDocument(src.Name, emptyList())
	}
	return l.LoadDocument(src.Name, ParseDocument(src.Path, data))
}

// LoadDocument enriches the records of an already classified document.
// fileName is the source file name; its .json extension is stripped to
// form the base category name.
func (l *Loader) LoadDocument(fileName string, doc Document) *domain.Catalog {
	base := repository.BaseName(fileName)
	cat := domain.NewCatalog()

	switch doc.Kind {
	case KindBuckets:
		for _, bucket := range doc.Buckets {
			name := BucketCategory(base, bucket.Key)
			cat.Put(name, l.enrich(name, bucket.Items))
		}
	default:
		cat.Put(base, l.enrich(base, doc.Items))
	}

	log.Debugf("Loaded %s as %s into %d categories", fileName, doc.Kind, cat.Len())
	return cat
}

func (l *Loader) enrich(category string, items []any) []*domain.Record {
	records := make([]*domain.Record, 0, len(items))
	for idx, item := range items {
		var (
			fields *domain.Object
			price  any
		)
		// Non-object items carry no fields of their own.
		if obj, ok := item.(*domain.Object); ok {
			fields = obj
			price, _ = obj.Get(domain.FieldPrice)
		}
		records = append(records, domain.NewRecord(fields, category, idx, l.calc.WithTax(price)))
	}
	return records
}
