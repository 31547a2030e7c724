package localecat

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const overflowStatKey = "__overflow__"

// CatalogObserver receives catalog events on a background worker. Callbacks
// must not block for long; the event queue is bounded and full-queue events
// are dropped (counted in DroppedEvents).
type CatalogObserver interface {
	OnLoadFailure(locale string, err error)
	OnLookupFallback(fromLocale string, atLocale string, id string)
	OnMessageMissing(locale string, id string)
	OnFormatIssue(locale string, id string, issue string)
}

// CatalogStats is a point-in-time copy of the catalog counters.
type CatalogStats struct {
	LoadFailures    map[string]int // locale -> failed load batches
	LookupFallbacks map[string]int // "from->at" -> lookups answered by a fallback locale
	MissingMessages map[string]int // "locale:id" -> cascade misses
	FormatIssues    map[string]int // "locale:id" -> formatting errors
	DroppedEvents   map[string]int
	LastLoadAt      time.Time
}

type observerEventType int

const (
	observerEventLoadFailure observerEventType = iota
	observerEventLookupFallback
	observerEventMessageMissing
	observerEventFormatIssue
)

type observerEvent struct {
	kind       observerEventType
	locale     string
	fromLocale string
	id         string
	issue      string
	err        error
}

type catalogStats struct {
	mu              sync.Mutex
	loadFailures    map[string]int
	lookupFallbacks map[string]int
	missingMessages map[string]int
	formatIssues    map[string]int
	droppedEvents   map[string]int
	maxKeys         int
	lastLoadAt      time.Time
}

func newCatalogStats(maxKeys int) catalogStats {
	return catalogStats{
		loadFailures:    map[string]int{},
		lookupFallbacks: map[string]int{},
		missingMessages: map[string]int{},
		formatIssues:    map[string]int{},
		droppedEvents:   map[string]int{},
		maxKeys:         maxKeys,
	}
}

func sanitizeStatKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "unknown"
	}
	if len(key) > 120 {
		return key[:120]
	}
	return key
}

func (s *catalogStats) increment(target map[string]int, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if target == nil {
		return
	}
	key = sanitizeStatKey(key)
	if s.maxKeys > 0 {
		if _, exists := target[key]; !exists {
			if _, hasOverflow := target[overflowStatKey]; hasOverflow {
				if len(target) >= s.maxKeys {
					key = overflowStatKey
				}
			} else if len(target) >= s.maxKeys-1 {
				key = overflowStatKey
			}
		}
	}
	target[key]++
}

func (s *catalogStats) incrementLoadFailure(locale string) {
	s.increment(s.loadFailures, locale)
}

func (s *catalogStats) incrementLookupFallback(fromLocale string, atLocale string) {
	s.increment(s.lookupFallbacks, fmt.Sprintf("%s->%s", fromLocale, atLocale))
}

func (s *catalogStats) incrementMissingMessage(locale string, id string) {
	s.increment(s.missingMessages, fmt.Sprintf("%s:%s", locale, id))
}

func (s *catalogStats) incrementFormatIssue(locale string, id string) {
	s.increment(s.formatIssues, fmt.Sprintf("%s:%s", locale, id))
}

func (s *catalogStats) incrementDroppedEvent(reason string) {
	s.increment(s.droppedEvents, reason)
}

func (s *catalogStats) setLastLoadAt(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastLoadAt = t
}

func (s *catalogStats) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadFailures = map[string]int{}
	s.lookupFallbacks = map[string]int{}
	s.missingMessages = map[string]int{}
	s.formatIssues = map[string]int{}
	s.droppedEvents = map[string]int{}
	s.lastLoadAt = time.Time{}
}

func (s *catalogStats) snapshot() CatalogStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	copyMap := func(input map[string]int) map[string]int {
		output := make(map[string]int, len(input))
		for k, v := range input {
			output[k] = v
		}
		return output
	}

	return CatalogStats{
		LoadFailures:    copyMap(s.loadFailures),
		LookupFallbacks: copyMap(s.lookupFallbacks),
		MissingMessages: copyMap(s.missingMessages),
		FormatIssues:    copyMap(s.formatIssues),
		DroppedEvents:   copyMap(s.droppedEvents),
		LastLoadAt:      s.lastLoadAt,
	}
}

func safeObserverCall(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}
