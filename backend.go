package localecat

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

//go:generate mockgen -source=$GOFILE -package mock_localecat -destination=test/mock/$GOFILE

// ResourceBackend fetches the raw resource files for one locale, identified
// by its path component. A missing or unreadable file fails the whole fetch
// for that locale; partial results are never returned.
type ResourceBackend interface {
	Fetch(ctx context.Context, pathComponent string, files []string) ([]Resource, error)
}

const defaultHTTPTimeout = 15 * time.Second

func newResourceBackend(cfg Config) (ResourceBackend, error) {
	if cfg.Transport != nil {
		return cfg.Transport, nil
	}
	switch cfg.Backend {
	case BackendFS, "":
		return &fsBackend{root: cfg.Source}, nil
	case BackendHTTP:
		client := cfg.HTTPClient
		if client == nil {
			client = &http.Client{Timeout: defaultHTTPTimeout}
		}
		return &httpBackend{base: cfg.Source, client: client}, nil
	default:
		return nil, newConfigError("Backend", fmt.Sprintf("unknown backend kind %q", cfg.Backend), nil)
	}
}
