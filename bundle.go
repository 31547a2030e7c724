package localecat

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

// Bundle is the parsed message set for one locale together with its
// formatter. Parsing, pluralization and template rendering are delegated to
// go-i18n; the bundle only tracks which ids are defined and which of those
// carry a renderable value.
type Bundle struct {
	locale    string
	localizer *i18n.Localizer
	ids       map[string]bool // id -> has renderable value
	funcs     template.FuncMap
}

// buildBundle parses the fetched resources into a locale-bound bundle.
// The parse format of each resource is selected by its file extension:
// yaml/yml, json or toml.
func buildBundle(locale string, resources []Resource) (*Bundle, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("bundle locale %q: %w", locale, err)
	}

	engine := i18n.NewBundle(tag)
	engine.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	engine.RegisterUnmarshalFunc("yml", yaml.Unmarshal)
	engine.RegisterUnmarshalFunc("json", json.Unmarshal)
	engine.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	ids := make(map[string]bool)
	for _, resource := range resources {
		format := strings.TrimPrefix(path.Ext(resource.Name), ".")
		if format == "" {
			return nil, fmt.Errorf("resource %q for locale %q has no format extension", resource.Name, locale)
		}
		// The synthetic name pins both the language tag and the format,
		// whatever the resource was actually called.
		messageFile, err := engine.ParseMessageFileBytes(resource.Data, fmt.Sprintf("%s.%s", locale, format))
		if err != nil {
			return nil, fmt.Errorf("parse resource %q for locale %q: %w", resource.Name, locale, err)
		}
		for _, message := range messageFile.Messages {
			ids[message.ID] = ids[message.ID] || messageHasValue(message)
		}
	}

	return &Bundle{
		locale:    locale,
		localizer: i18n.NewLocalizer(engine, locale),
		ids:       ids,
	}, nil
}

func messageHasValue(m *i18n.Message) bool {
	return m.Zero != "" || m.One != "" || m.Two != "" || m.Few != "" || m.Many != "" || m.Other != ""
}

// Locale returns the canonical locale this bundle was built for.
func (b *Bundle) Locale() string {
	return b.locale
}

// Has reports whether the bundle defines the message id, with or without a
// renderable value.
func (b *Bundle) Has(id string) bool {
	_, defined := b.ids[id]
	return defined
}

// IDs returns the defined message ids in sorted order.
func (b *Bundle) IDs() []string {
	out := make([]string, 0, len(b.ids))
	for id := range b.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// SetFunc registers a custom template function on the bundle. Meant to be
// called from a BundleInitializer.
func (b *Bundle) SetFunc(name string, fn any) {
	if b.funcs == nil {
		b.funcs = template.FuncMap{}
	}
	b.funcs[name] = fn
}

// Format renders the message id with the given named arguments. A defined
// message without a renderable value formats to the empty string. When
// args["Count"] is present it is also used as the plural count. Formatting
// errors are appended to sink when one is supplied; the best-effort output is
// returned either way.
func (b *Bundle) Format(id string, args map[string]any, sink *[]error) string {
	hasValue, defined := b.ids[id]
	if !defined || !hasValue {
		return ""
	}

	cfg := &i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: args,
	}
	if len(b.funcs) > 0 {
		cfg.Funcs = b.funcs
	}
	if args != nil {
		if count, exists := args["Count"]; exists {
			cfg.PluralCount = count
		}
	}

	out, err := b.localizer.Localize(cfg)
	if err != nil && sink != nil {
		*sink = append(*sink, err)
	}
	return out
}
