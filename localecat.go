package localecat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// LocaleCatalog resolves fallback chains, loads per-locale message bundles
// through a resource backend and serves cascading message lookup against the
// loaded bundles.
type LocaleCatalog interface {
	// Load fetches and adopts the bundles for the locale and its whole
	// fallback closure. An empty locale loads the default locale. The batch
	// is all-or-nothing: on any fetch or parse failure nothing is adopted
	// and Load reports (false, nil). Configuration and unsupported-locale
	// problems are returned as errors before any fetch starts.
	Load(ctx context.Context, locale string) (bool, error)

	// GetMessage resolves the message id against the current locale's
	// cascade: the locale itself, its fallbacks depth-first, then the
	// default locale. Formatting errors are appended to sink when supplied;
	// a message that fails to format still counts as found.
	GetMessage(id string, args map[string]any, sink *[]error) (string, bool)

	// HasMessage runs the same cascade without formatting.
	HasMessage(id string) bool

	SupportedLocales() []string
	SupportsLocale(locale string) bool

	// CurrentLocale is the most recently loaded requested locale, empty
	// until the first successful Load.
	CurrentLocale() string

	// LocaleAndFallbacks returns the current locale followed by its fallback
	// chain; empty when nothing is loaded.
	LocaleAndFallbacks() []string

	// Fallbacks returns the current locale's chain without the locale
	// itself.
	Fallbacks() []string

	// BundleFor returns the loaded bundle for a locale, bypassing the
	// cascade, or nil when the locale is not loaded.
	BundleFor(locale string) *Bundle

	RegisterInitializer(init BundleInitializer)

	// Clone returns a new handle aliasing the same live state: loads through
	// either handle are visible through the other. It is not an isolated
	// copy.
	Clone() LocaleCatalog
}

// catalogState is the shared ownership unit behind every handle of one
// catalog: clones point at the same state rather than copying it.
type catalogState struct {
	mu           sync.RWMutex
	table        *localeTable
	files        []string
	clean        bool
	backend      ResourceBackend
	assets       map[string]*Bundle
	current      string
	initializers []BundleInitializer

	// loadMu serializes commit plus initializer runs so racing loads stay
	// last-writer-wins without interleaving.
	loadMu sync.Mutex

	observer     CatalogObserver
	stats        catalogStats
	observerCh   chan observerEvent
	observerDone chan struct{}
}

type DefaultLocaleCatalog struct {
	state *catalogState
}

// NewLocaleCatalog validates the configuration and returns a catalog with an
// empty asset table; call Load to populate it. Configuration problems are
// returned immediately.
func NewLocaleCatalog(cfg Config) (LocaleCatalog, error) {
	if cfg.ObserverBuffer <= 0 {
		cfg.ObserverBuffer = 1024
	}
	if cfg.StatsMaxKeys <= 0 {
		cfg.StatsMaxKeys = 512
	}
	if len(cfg.Files) == 0 {
		return nil, newConfigError("Files", "at least one resource file name is required", nil)
	}

	table, err := newLocaleTable(cfg)
	if err != nil {
		return nil, err
	}
	backend, err := newResourceBackend(cfg)
	if err != nil {
		return nil, err
	}

	state := &catalogState{
		table:    table,
		files:    append([]string(nil), cfg.Files...),
		clean:    cfg.Clean,
		backend:  backend,
		assets:   map[string]*Bundle{},
		observer: cfg.Observer,
		stats:    newCatalogStats(cfg.StatsMaxKeys),
	}
	catalog := &DefaultLocaleCatalog{state: state}
	catalog.startObserverWorker(cfg.ObserverBuffer)
	return catalog, nil
}

func (c *DefaultLocaleCatalog) Load(ctx context.Context, locale string) (bool, error) {
	s := c.state

	if locale == "" {
		locale = s.table.defaultLocale
		if locale == "" {
			return false, newConfigError("DefaultLocale", "no default locale configured", nil)
		}
	}
	canonical, err := canonicalLocale(locale)
	if err != nil {
		return false, &UnsupportedLocaleError{Locale: locale}
	}
	if !s.table.supports(canonical) {
		return false, &UnsupportedLocaleError{Locale: locale}
	}

	batch := s.table.closure(canonical)
	// The default locale is the terminal fallback of every cascade; load it
	// with the batch so the cascade never consults an absent bundle.
	if !containsLocale(batch, s.table.defaultLocale) {
		batch = append(batch, s.table.defaultLocale)
	}
	staged := make([]*Bundle, len(batch))

	group := new(errgroup.Group)
	for i, batchLocale := range batch {
		i, batchLocale := i, batchLocale
		group.Go(func() error {
			component, declared := s.table.paths[batchLocale]
			if !declared {
				return fmt.Errorf("locale %q is reachable through the fallback graph but has no declared resource path", batchLocale)
			}
			resources, err := s.backend.Fetch(ctx, component, s.files)
			if err != nil {
				return fmt.Errorf("fetch resources for locale %q: %w", batchLocale, err)
			}
			bundle, err := buildBundle(batchLocale, resources)
			if err != nil {
				return err
			}
			staged[i] = bundle
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		c.onLoadFailure(canonical, err)
		return false, nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.Lock()
	if s.clean {
		s.assets = make(map[string]*Bundle, len(batch))
	}
	for i, batchLocale := range batch {
		s.assets[batchLocale] = staged[i]
	}
	s.current = canonical
	requested := s.assets[canonical]
	initializers := append([]BundleInitializer(nil), s.initializers...)
	s.mu.Unlock()

	for _, initialize := range initializers {
		initialize(canonical, requested)
	}
	s.stats.setLastLoadAt(time.Now())

	return true, nil
}

func containsLocale(locales []string, locale string) bool {
	for _, candidate := range locales {
		if candidate == locale {
			return true
		}
	}
	return false
}

func (c *DefaultLocaleCatalog) GetMessage(id string, args map[string]any, sink *[]error) (string, bool) {
	s := c.state
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current == "" {
		return "", false
	}
	return c.resolveMessage(current, current, id, args, sink)
}

// resolveMessage walks the cascade: the locale's own bundle, then its direct
// fallbacks recursively in declared order, then the default locale unless it
// is the locale already being resolved. Like the fallback chain itself the
// recursion is unguarded against cyclic graphs.
func (c *DefaultLocaleCatalog) resolveMessage(origin string, locale string, id string, args map[string]any, sink *[]error) (string, bool) {
	s := c.state

	s.mu.RLock()
	bundle := s.assets[locale]
	s.mu.RUnlock()

	if bundle != nil && bundle.Has(id) {
		if locale != origin {
			c.onLookupFallback(origin, locale, id)
		}
		return c.formatCounted(bundle, id, args, sink), true
	}

	for _, fallback := range s.table.fallbacks[locale] {
		if out, found := c.resolveMessage(origin, fallback, id, args, sink); found {
			return out, true
		}
	}

	// EqualFold keeps a current locale that only differs from the default in
	// casing from recursing into the default forever.
	if defaultLocale := s.table.defaultLocale; defaultLocale != "" && !strings.EqualFold(defaultLocale, locale) {
		if out, found := c.resolveMessage(origin, defaultLocale, id, args, sink); found {
			return out, true
		}
	}

	if locale == origin {
		c.onMessageMissing(origin, id)
	}
	return "", false
}

// formatCounted renders through the bundle and records format issues even
// when the caller did not supply a sink.
func (c *DefaultLocaleCatalog) formatCounted(bundle *Bundle, id string, args map[string]any, sink *[]error) string {
	local := sink
	var scratch []error
	if local == nil {
		local = &scratch
	}
	before := len(*local)
	out := bundle.Format(id, args, local)
	if len(*local) > before {
		c.onFormatIssue(bundle.Locale(), id, (*local)[len(*local)-1].Error())
	}
	return out
}

func (c *DefaultLocaleCatalog) HasMessage(id string) bool {
	s := c.state
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current == "" {
		return false
	}
	return c.resolveHas(current, id)
}

func (c *DefaultLocaleCatalog) resolveHas(locale string, id string) bool {
	s := c.state

	s.mu.RLock()
	bundle := s.assets[locale]
	s.mu.RUnlock()

	if bundle != nil && bundle.Has(id) {
		return true
	}
	for _, fallback := range s.table.fallbacks[locale] {
		if c.resolveHas(fallback, id) {
			return true
		}
	}
	if defaultLocale := s.table.defaultLocale; defaultLocale != "" && !strings.EqualFold(defaultLocale, locale) {
		return c.resolveHas(defaultLocale, id)
	}
	return false
}

func (c *DefaultLocaleCatalog) SupportedLocales() []string {
	return append([]string(nil), c.state.table.order...)
}

func (c *DefaultLocaleCatalog) SupportsLocale(locale string) bool {
	canonical, err := canonicalLocale(locale)
	if err != nil {
		return false
	}
	return c.state.table.supports(canonical)
}

func (c *DefaultLocaleCatalog) CurrentLocale() string {
	s := c.state
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (c *DefaultLocaleCatalog) LocaleAndFallbacks() []string {
	s := c.state
	s.mu.RLock()
	current := s.current
	s.mu.RUnlock()
	if current == "" {
		return nil
	}
	return s.table.chain(current)
}

func (c *DefaultLocaleCatalog) Fallbacks() []string {
	chain := c.LocaleAndFallbacks()
	if len(chain) == 0 {
		return nil
	}
	return chain[1:]
}

// ChainOf returns the full fallback chain for any supported locale, loaded
// or not. Used by tooling; regular lookups go through LocaleAndFallbacks.
func (c *DefaultLocaleCatalog) ChainOf(locale string) ([]string, error) {
	canonical, err := canonicalLocale(locale)
	if err != nil {
		return nil, &UnsupportedLocaleError{Locale: locale}
	}
	if !c.state.table.supports(canonical) {
		return nil, &UnsupportedLocaleError{Locale: locale}
	}
	return c.state.table.chain(canonical), nil
}

func (c *DefaultLocaleCatalog) BundleFor(locale string) *Bundle {
	canonical, err := canonicalLocale(locale)
	if err != nil {
		return nil
	}
	s := c.state
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assets[canonical]
}

func (c *DefaultLocaleCatalog) RegisterInitializer(init BundleInitializer) {
	if init == nil {
		return
	}
	s := c.state
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initializers = append(s.initializers, init)
}

func (c *DefaultLocaleCatalog) Clone() LocaleCatalog {
	return &DefaultLocaleCatalog{state: c.state}
}

func (c *DefaultLocaleCatalog) SnapshotStats() CatalogStats {
	return c.state.stats.snapshot()
}

func (c *DefaultLocaleCatalog) ResetStats() {
	c.state.stats.reset()
}

func (c *DefaultLocaleCatalog) Close() {
	c.stopObserverWorker()
}

func (c *DefaultLocaleCatalog) startObserverWorker(buffer int) {
	s := c.state
	if s.observer == nil || s.observerCh != nil {
		return
	}
	s.observerCh = make(chan observerEvent, buffer)
	s.observerDone = make(chan struct{})
	go func() {
		defer close(s.observerDone)
		for evt := range s.observerCh {
			switch evt.kind {
			case observerEventLoadFailure:
				safeObserverCall(func() {
					s.observer.OnLoadFailure(evt.locale, evt.err)
				})
			case observerEventLookupFallback:
				safeObserverCall(func() {
					s.observer.OnLookupFallback(evt.fromLocale, evt.locale, evt.id)
				})
			case observerEventMessageMissing:
				safeObserverCall(func() {
					s.observer.OnMessageMissing(evt.locale, evt.id)
				})
			case observerEventFormatIssue:
				safeObserverCall(func() {
					s.observer.OnFormatIssue(evt.locale, evt.id, evt.issue)
				})
			}
		}
	}()
}

func (c *DefaultLocaleCatalog) stopObserverWorker() {
	s := c.state
	if s.observerCh == nil {
		return
	}
	close(s.observerCh)
	<-s.observerDone
	s.observerCh = nil
	s.observerDone = nil
}

func (c *DefaultLocaleCatalog) publishObserverEvent(evt observerEvent) {
	s := c.state
	if s.observer == nil || s.observerCh == nil {
		return
	}
	defer func() {
		if recover() != nil {
			s.stats.incrementDroppedEvent("observer_closed")
		}
	}()
	select {
	case s.observerCh <- evt:
	default:
		s.stats.incrementDroppedEvent("observer_queue_full")
	}
}

func (c *DefaultLocaleCatalog) onLoadFailure(locale string, err error) {
	c.state.stats.incrementLoadFailure(locale)
	c.publishObserverEvent(observerEvent{
		kind:   observerEventLoadFailure,
		locale: locale,
		err:    err,
	})
}

func (c *DefaultLocaleCatalog) onLookupFallback(fromLocale string, atLocale string, id string) {
	c.state.stats.incrementLookupFallback(fromLocale, atLocale)
	c.publishObserverEvent(observerEvent{
		kind:       observerEventLookupFallback,
		fromLocale: fromLocale,
		locale:     atLocale,
		id:         id,
	})
}

func (c *DefaultLocaleCatalog) onMessageMissing(locale string, id string) {
	c.state.stats.incrementMissingMessage(locale, id)
	c.publishObserverEvent(observerEvent{
		kind:   observerEventMessageMissing,
		locale: locale,
		id:     id,
	})
}

func (c *DefaultLocaleCatalog) onFormatIssue(locale string, id string, issue string) {
	c.state.stats.incrementFormatIssue(locale, id)
	c.publishObserverEvent(observerEvent{
		kind:   observerEventFormatIssue,
		locale: locale,
		id:     id,
		issue:  issue,
	})
}

// SnapshotStats returns the catalog's counters when the implementation keeps
// them.
func SnapshotStats(catalog LocaleCatalog) (CatalogStats, error) {
	statsProvider, supported := catalog.(interface{ SnapshotStats() CatalogStats })
	if !supported {
		return CatalogStats{}, fmt.Errorf("catalog does not support stats snapshots")
	}
	return statsProvider.SnapshotStats(), nil
}

// ResetStats clears the catalog's counters when the implementation keeps
// them.
func ResetStats(catalog LocaleCatalog) error {
	statsProvider, supported := catalog.(interface{ ResetStats() })
	if !supported {
		return fmt.Errorf("catalog does not support stats reset")
	}
	statsProvider.ResetStats()
	return nil
}

// ChainOf returns the fallback chain of any supported locale when the
// implementation exposes one.
func ChainOf(catalog LocaleCatalog, locale string) ([]string, error) {
	chainProvider, supported := catalog.(interface{ ChainOf(string) ([]string, error) })
	if !supported {
		return nil, fmt.Errorf("catalog does not support chain inspection")
	}
	return chainProvider.ChainOf(locale)
}

// Close stops the catalog's observer worker when one is running.
func Close(catalog LocaleCatalog) error {
	closer, supported := catalog.(interface{ Close() })
	if !supported {
		return fmt.Errorf("catalog does not support close")
	}
	closer.Close()
	return nil
}
