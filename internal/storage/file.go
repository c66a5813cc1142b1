package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// dirSource reads seed documents from a directory on disk.
type dirSource struct {
	dir string
}

// NewDirSource creates a SeedSource rooted at dir.
func NewDirSource(dir string) SeedSource {
	return &dirSource{dir: dir}
}

func (s *dirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Only plain file names are served, never paths outside dir.
	path := filepath.Join(s.dir, filepath.Base(filepath.Clean("/"+name)))
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSeedNotFound, name)
		}
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(io.LimitReader(f, maxSeedSize))
}
