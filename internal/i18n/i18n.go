package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// FallbackLanguage receives lookups for unknown languages and missing keys.
const FallbackLanguage = "pt"

// Catalog holds the localized message templates, keyed by (language, key).
// Templates use {name} placeholders.
type Catalog struct {
	texts map[string]map[string]string
}

func Load() (*Catalog, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	c := &Catalog{texts: make(map[string]map[string]string)}
	for _, e := range entries {
		name := e.Name()
		lang := strings.TrimSuffix(name, path.Ext(name))
		raw, err := localeFS.ReadFile(path.Join("locales", name))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", name, err)
		}
		pack := make(map[string]string)
		if err := yaml.Unmarshal(raw, &pack); err != nil {
			return nil, fmt.Errorf("decode locale %s: %w", name, err)
		}
		c.texts[lang] = pack
	}

	if _, ok := c.texts[FallbackLanguage]; !ok {
		return nil, fmt.Errorf("fallback locale %q missing", FallbackLanguage)
	}
	return c, nil
}

// Languages lists the loaded language codes.
func (c *Catalog) Languages() []string {
	out := make([]string, 0, len(c.texts))
	for lang := range c.texts {
		out = append(out, lang)
	}
	return out
}

// T resolves a template and substitutes {key} placeholders from kv pairs.
// Unknown languages fall back to the default pack, and so do missing keys —
// a gap in a translation must never fail a response. A key absent from every
// catalog degrades to the key name itself.
func (c *Catalog) T(lang, key string, kv ...string) string {
	msg, ok := c.lookup(lang, key)
	if !ok {
		return key
	}
	if len(kv) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{"+kv[i]+"}", kv[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

func (c *Catalog) lookup(lang, key string) (string, bool) {
	if pack, ok := c.texts[lang]; ok {
		if msg, ok := pack[key]; ok {
			return msg, true
		}
	}
	if lang != FallbackLanguage {
		if msg, ok := c.texts[FallbackLanguage][key]; ok {
			return msg, true
		}
	}
	return "", false
}
