package localecat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// fsBackend reads resources from <root>/<pathComponent>/<file>.
type fsBackend struct {
	root string
}

func (b *fsBackend) Fetch(ctx context.Context, pathComponent string, files []string) ([]Resource, error) {
	out := make([]Resource, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fullPath := filepath.Join(b.root, pathComponent, name)
		data, err := os.ReadFile(fullPath)
		if err != nil {
			return nil, fmt.Errorf("read resource %s: %w", fullPath, err)
		}
		out = append(out, Resource{Name: name, Data: data})
	}
	return out, nil
}
