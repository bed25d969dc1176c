package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const SourceExt = ".json"

// Source is one catalog file in the source directory.
type Source struct {
	Name    string    `json:"name"`
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// SourceRepository gives read-only access to the catalog source files.
type SourceRepository interface {
	// List returns eligible sources sorted by name and whether the
	// directory exists. A missing directory is not an error.
	List(ctx context.Context) ([]Source, bool, error)
	Read(ctx context.Context, src Source) ([]byte, error)
}

type sourceRepository struct {
	dir string
}

func NewSourceRepository(dir string) SourceRepository {
	return &sourceRepository{
		dir: dir,
	}
}

// IsSourceName reports whether a file name carries the .json extension,
// compared case-insensitively.
func IsSourceName(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), SourceExt)
}

// BaseName strips a trailing .json extension, matched case-insensitively.
func BaseName(name string) string {
	if IsSourceName(name) {
		return name[:len(name)-len(SourceExt)]
	}
	return name
}

func (r *sourceRepository) List(ctx context.Context) ([]Source, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, true, fmt.Errorf("failed to list source directory %s: %w", r.dir, err)
	}

	sources := make([]Source, 0, len(entries))
	for _, entry := range entries {
		if !IsSourceName(entry.Name()) {
			continue
		}

		src := Source{
			Name: entry.Name(),
			Path: filepath.Join(r.dir, entry.Name()),
		}
		// Entries that vanish between listing and stat still get listed;
		// reading them fails later and is handled there.
		if info, err := entry.Info(); err == nil {
			src.Size = info.Size()
			src.ModTime = info.ModTime()
		}
		sources = append(sources, src)
	}

	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Name < sources[j].Name
	})

	return sources, true, nil
}

func (r *sourceRepository) Read(ctx context.Context, src Source) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source %s: %w", src.Name, err)
	}
	return data, nil
}
