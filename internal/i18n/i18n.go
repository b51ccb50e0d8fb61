// Package i18n holds the UI message catalogues and picks one per request.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

var Default = language.English

type Catalog struct {
	tags     []language.Tag
	messages map[language.Tag]map[string]string
	matcher  language.Matcher
}

func Load() (*Catalog, error) {
	return LoadFS(localesFS, "locales")
}

func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	c := &Catalog{messages: make(map[language.Tag]map[string]string)}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".yaml") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		tag, err := language.Parse(strings.TrimSuffix(name, ".yaml"))
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", name, err)
		}
		content, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, err
		}
		var tree map[string]interface{}
		if err := yaml.Unmarshal(content, &tree); err != nil {
			return nil, fmt.Errorf("decode locale %s: %w", name, err)
		}
		flat := make(map[string]string)
		flatten("", tree, flat)
		c.messages[tag] = flat
		c.tags = append(c.tags, tag)
	}
	if _, ok := c.messages[Default]; !ok {
		return nil, fmt.Errorf("default locale %s missing", Default)
	}
	// the matcher falls back to its first tag
	ordered := append([]language.Tag{Default}, withoutTag(c.tags, Default)...)
	c.tags = ordered
	c.matcher = language.NewMatcher(ordered)
	return c, nil
}

func flatten(prefix string, node map[string]interface{}, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

func withoutTag(tags []language.Tag, drop language.Tag) []language.Tag {
	out := make([]language.Tag, 0, len(tags))
	for _, t := range tags {
		if t != drop {
			out = append(out, t)
		}
	}
	return out
}

func (c *Catalog) Languages() []language.Tag {
	return append([]language.Tag(nil), c.tags...)
}

// Localizer picks the best catalogue for an Accept-Language header.
func (c *Catalog) Localizer(acceptLanguage string) *Localizer {
	tag := Default
	if acceptLanguage != "" {
		prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(prefs) > 0 {
			_, idx, conf := c.matcher.Match(prefs...)
			if conf != language.No {
				tag = c.tags[idx]
			}
		}
	}
	return &Localizer{tag: tag, messages: c.messages[tag], fallback: c.messages[Default]}
}

func (c *Catalog) DefaultLocalizer() *Localizer {
	return &Localizer{tag: Default, messages: c.messages[Default], fallback: c.messages[Default]}
}

type Localizer struct {
	tag      language.Tag
	messages map[string]string
	fallback map[string]string
}

func (l *Localizer) Language() language.Tag {
	return l.tag
}

// T looks key up in the chosen catalogue, then in English, and finally
// returns the key itself.
func (l *Localizer) T(key string) string {
	if v, ok := l.messages[key]; ok {
		return v
	}
	if v, ok := l.fallback[key]; ok {
		return v
	}
	return key
}
