package loader

import (
	"os"

	"precios/catalog/internal/domain"

	log "github.com/sirupsen/logrus"
)

type Kind int

const (
	KindList Kind = iota
	KindBuckets
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindBuckets:
		return "buckets"
	default:
		return "unknown"
	}
}

// Bucket is a list-valued entry of an object-shaped document.
type Bucket struct {
	Key   string
	Items []any
}

// Document is the classified shape of one parsed source file.
type Document struct {
	Kind    Kind
	Items   []any
	Buckets []Bucket
}

func emptyList() Document {
	return Document{Kind: KindList, Items: []any{}}
}

// Detect classifies a decoded JSON value. Lists stay lists; objects with
// list-valued entries become buckets in key order, dropping the other
// entries; objects without any list fall back to their values as the list.
// Any other value is an empty list.
func Detect(parsed any) Document {
	switch v := parsed.(type) {
	case []any:
		return Document{Kind: KindList, Items: v}

	case *domain.Object:
		buckets := make([]Bucket, 0)
		for _, key := range v.Keys() {
			value, _ := v.Get(key)
			if items, ok := value.([]any); ok {
				buckets = append(buckets, Bucket{Key: key, Items: items})
			}
		}
		if len(buckets) > 0 {
			return Document{Kind: KindBuckets, Buckets: buckets}
		}
		return Document{Kind: KindList, Items: v.Values()}
	}

	return emptyList()
}

// ParseDocument decodes and classifies raw file content. Invalid JSON is
// logged and yields an empty list.
func ParseDocument(name string, data []byte) Document {
	parsed, err := domain.Decode(data)
	if err != nil {
		log.Errorf("❌ Failed to parse catalog file %s: %v", name, err)
		return emptyList()
	}
	return Detect(parsed)
}

// ReadDocument reads, decodes and classifies the file at path. Read and
// parse failures are logged and yield an empty list.
func ReadDocument(path string) Document {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Errorf("❌ Failed to read catalog file %s: %v", path, err)
		return emptyList()
	}
	return ParseDocument(path, data)
}
