package localecat

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// localeTable is the static locale configuration: supported locales with
// their resource path components, the default locale and the fallback graph.
// Built once at construction and never mutated afterwards, so it can be read
// without locking.
type localeTable struct {
	paths         map[string]string   // canonical id -> path component
	order         []string            // canonical ids in declaration order
	fallbacks     map[string][]string // canonical id -> direct fallbacks
	defaultLocale string
}

// canonicalLocale normalizes a raw locale spelling to its canonical tag form.
// Underscores are accepted as separators ("es_AR" and "es-AR" are the same
// locale).
func canonicalLocale(raw string) (string, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), "_", "-")
	if cleaned == "" {
		return "", fmt.Errorf("empty locale")
	}
	tag, err := language.Parse(cleaned)
	if err != nil {
		return "", err
	}
	return tag.String(), nil
}

func newLocaleTable(cfg Config) (*localeTable, error) {
	if len(cfg.Locales) == 0 {
		return nil, newConfigError("Locales", "at least one locale is required", nil)
	}
	if cfg.DefaultLocale == "" {
		return nil, newConfigError("DefaultLocale", "a default locale is required", nil)
	}

	t := &localeTable{
		paths:     make(map[string]string, len(cfg.Locales)),
		fallbacks: make(map[string][]string, len(cfg.Fallbacks)),
	}

	for _, raw := range cfg.Locales {
		canonical, err := canonicalLocale(raw)
		if err != nil {
			return nil, newConfigError("Locales", fmt.Sprintf("malformed locale %q", raw), err)
		}
		if _, exists := t.paths[canonical]; exists {
			continue
		}
		t.paths[canonical] = strings.TrimSpace(raw)
		t.order = append(t.order, canonical)
	}

	defaultLocale, err := canonicalLocale(cfg.DefaultLocale)
	if err != nil {
		return nil, newConfigError("DefaultLocale", fmt.Sprintf("malformed locale %q", cfg.DefaultLocale), err)
	}
	if _, exists := t.paths[defaultLocale]; !exists {
		return nil, newConfigError("DefaultLocale", fmt.Sprintf("default locale %q is not among the declared locales", cfg.DefaultLocale), nil)
	}
	t.defaultLocale = defaultLocale

	for key, values := range cfg.Fallbacks {
		canonicalKey, err := canonicalLocale(key)
		if err != nil {
			return nil, newConfigError("Fallbacks", fmt.Sprintf("malformed locale key %q", key), err)
		}
		chain := make([]string, 0, len(values))
		for _, value := range values {
			canonicalValue, err := canonicalLocale(value)
			if err != nil {
				return nil, newConfigError("Fallbacks", fmt.Sprintf("malformed fallback %q for locale %q", value, key), err)
			}
			chain = append(chain, canonicalValue)
		}
		t.fallbacks[canonicalKey] = chain
	}

	return t, nil
}

func (t *localeTable) supports(canonical string) bool {
	_, exists := t.paths[canonical]
	return exists
}

// chain returns the locale followed by its fallbacks in depth-first,
// left-to-right declaration order, each fallback expanded recursively before
// its next sibling. The traversal does not guard against cycles: a cyclic
// fallback graph is the caller's configuration bug and recurses without
// bound.
func (t *localeTable) chain(locale string) []string {
	out := []string{locale}
	for _, fallback := range t.fallbacks[locale] {
		out = append(out, t.chain(fallback)...)
	}
	return out
}

// closure returns the deduplicated set of locales reachable from the given
// locale through the fallback graph, the locale itself first, in chain order.
// A locale reachable through two fallback paths appears exactly once.
func (t *localeTable) closure(locale string) []string {
	seen := make(map[string]struct{})
	var out []string
	t.collectClosure(locale, seen, &out)
	return out
}

func (t *localeTable) collectClosure(locale string, seen map[string]struct{}, out *[]string) {
	if _, visited := seen[locale]; visited {
		return
	}
	seen[locale] = struct{}{}
	*out = append(*out, locale)
	for _, fallback := range t.fallbacks[locale] {
		t.collectClosure(fallback, seen, out)
	}
}
