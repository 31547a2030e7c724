package localecat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"
)

// httpBackend fetches resources with GET <base>/<pathComponent>/<file>.
// Files of one locale are fetched concurrently; the first failure fails the
// whole fetch.
type httpBackend struct {
	base   string
	client *http.Client
}

func (b *httpBackend) Fetch(ctx context.Context, pathComponent string, files []string) ([]Resource, error) {
	out := make([]Resource, len(files))
	group, ctx := errgroup.WithContext(ctx)
	for i, name := range files {
		i, name := i, name
		group.Go(func() error {
			data, err := b.fetchOne(ctx, pathComponent, name)
			if err != nil {
				return err
			}
			out[i] = Resource{Name: name, Data: data}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *httpBackend) fetchOne(ctx context.Context, pathComponent string, name string) ([]byte, error) {
	resourceURL := strings.TrimRight(b.base, "/") + "/" + url.PathEscape(pathComponent) + "/" + url.PathEscape(name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", resourceURL, err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", resourceURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", resourceURL, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", resourceURL, err)
	}
	return data, nil
}
