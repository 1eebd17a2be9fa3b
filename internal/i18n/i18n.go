// Package i18n resolves message keys to localized text from embedded
// bundles. Resolution never fails the caller: unknown locales fall back to
// the default bundle, and a missing key resolves to the key itself.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed messages/*.yaml
var bundleFS embed.FS

// DefaultLocale is used when a locale is empty or has no bundle.
const DefaultLocale = "en"

// Bundle holds all loaded locale message tables.
type Bundle struct {
	locales map[string]map[string]string
}

// Load parses every embedded bundle. The default locale must be present.
func Load() (*Bundle, error) {
	entries, err := fs.ReadDir(bundleFS, "messages")
	if err != nil {
		return nil, fmt.Errorf("i18n: read bundles: %w", err)
	}
	b := &Bundle{locales: make(map[string]map[string]string, len(entries))}
	for _, e := range entries {
		name := e.Name()
		locale := strings.TrimSuffix(name, path.Ext(name))
		data, err := bundleFS.ReadFile(path.Join("messages", name))
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", name, err)
		}
		table := make(map[string]string)
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", name, err)
		}
		b.locales[locale] = table
	}
	if _, ok := b.locales[DefaultLocale]; !ok {
		return nil, fmt.Errorf("i18n: default locale %q bundle missing", DefaultLocale)
	}
	return b, nil
}

// Resolve returns the text for key in the given locale, falling back to the
// default locale and finally to the key itself.
func (b *Bundle) Resolve(key, locale string) string {
	if table, ok := b.locales[strings.ToLower(strings.TrimSpace(locale))]; ok {
		if text, ok := table[key]; ok {
			return text
		}
	}
	if text, ok := b.locales[DefaultLocale][key]; ok {
		return text
	}
	return key
}

// Has reports whether the locale has its own bundle.
func (b *Bundle) Has(locale string) bool {
	_, ok := b.locales[strings.ToLower(strings.TrimSpace(locale))]
	return ok
}
