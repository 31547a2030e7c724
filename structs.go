package localecat

import "net/http"

// Backend kinds selectable through Config.Backend.
const (
	BackendFS   = "fs"
	BackendHTTP = "http"
)

// Resource is one raw resource file fetched for a locale, before parsing.
type Resource struct {
	Name string
	Data []byte
}

// BundleInitializer is invoked once per successful Load with the requested
// locale and its bundle. Use it to register custom template functions or to
// run side effects against the freshly loaded bundle. It is not invoked for
// the fallback bundles loaded in the same batch.
type BundleInitializer func(locale string, bundle *Bundle)

type Config struct {
	// Locales declares the supported locales. The raw spelling of each entry
	// is kept as the resource path component for that locale; lookups always
	// use the canonical form. Spellings that canonicalize to the same locale
	// collapse into one entry (first declaration wins).
	Locales []string

	// DefaultLocale is the terminal fallback of every lookup chain and the
	// locale substituted when Load is called without one. Required, and must
	// canonicalize to one of the declared locales.
	DefaultLocale string

	// Fallbacks maps a locale to its direct fallbacks in consultation order.
	// Chains are expanded recursively; the graph is not checked for cycles.
	Fallbacks map[string][]string

	// Source is the backend root: a directory for the fs backend, a base URL
	// for the http backend.
	Source string

	// Files lists the resource file names fetched for every locale
	// (e.g. "messages.yaml"). The extension selects the parse format.
	Files []string

	// Clean discards previously loaded bundles on every successful Load.
	// Leave false to accumulate bundles across loads, which suits long-lived
	// servers keeping many locales resident.
	Clean bool

	// Backend selects a shipped backend kind (BackendFS, BackendHTTP).
	// Empty defaults to BackendFS. Ignored when Transport is set.
	Backend string

	// Transport overrides the shipped backends with a custom one.
	Transport ResourceBackend

	// HTTPClient is used by the http backend. Defaults to a client with a
	// bounded timeout.
	HTTPClient *http.Client

	// Observer receives catalog events (load failures, lookup fallbacks,
	// missing messages, format issues) on a background worker.
	Observer CatalogObserver

	// ObserverBuffer caps the observer event queue. Default 1024.
	ObserverBuffer int

	// StatsMaxKeys bounds the cardinality of each stats counter map.
	// Default 512.
	StatsMaxKeys int
}
