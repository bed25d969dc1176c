// Package search scans a catalog for records matching free text.
package search

import (
	"strings"

	"precios/catalog/internal/domain"

	log "github.com/sirupsen/logrus"
)

// MaxResults caps a single search. Results favour earlier categories.
const MaxResults = 1000

// Normalize lowercases and trims a query.
func Normalize(query string) string {
	return strings.TrimSpace(strings.ToLower(query))
}

// Search returns the records whose lowercased JSON text contains the
// normalized query, in catalog order, up to MaxResults. An empty query
// matches nothing and scans nothing.
func Search(cat *domain.Catalog, query string) []*domain.Record {
	q := Normalize(query)
	results := make([]*domain.Record, 0)
	if q == "" {
		return results
	}

	cat.Each(func(name string, records []*domain.Record) bool {
		for _, rec := range records {
			text, err := Text(rec)
			if err != nil {
				log.Debugf("Skipping record %s in search: %v", rec.ID, err)
				continue
			}
			if !strings.Contains(text, q) {
				continue
			}
			results = append(results, rec)
			if len(results) >= MaxResults {
				return false
			}
		}
		return true
	})

	return results
}

// Text renders a record as the lowercased JSON searched by Search.
func Text(rec *domain.Record) (string, error) {
	raw, err := rec.MarshalJSON()
	if err != nil {
		return "", err
	}
	return strings.ToLower(string(raw)), nil
}
