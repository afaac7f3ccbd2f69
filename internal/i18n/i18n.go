package i18n

import (
	"embed"
	"fmt"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"goaround-bot/internal/models"
)

//go:embed locales/*.yaml
var localeFS embed.FS

const fallbackCode = "en"

// Bundle holds the interface strings of every supported language
type Bundle struct {
	messages map[string]map[string]string
}

// Load reads the embedded locale files
func Load() (*Bundle, error) {
	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}

	bundle := &Bundle{messages: make(map[string]map[string]string, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".yaml" {
			continue
		}
		data, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", entry.Name(), err)
		}
		var messages map[string]string
		if err := yaml.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", entry.Name(), err)
		}
		bundle.messages[strings.TrimSuffix(entry.Name(), ".yaml")] = messages
	}

	if _, ok := bundle.messages[fallbackCode]; !ok {
		return nil, fmt.Errorf("fallback locale %s is missing", fallbackCode)
	}
	return bundle, nil
}

// Get returns the string for key in lang, falling back to English and then to the key
func (b *Bundle) Get(lang models.Language, key string) string {
	if text, ok := b.messages[lang.Code()][key]; ok {
		return text
	}
	if text, ok := b.messages[fallbackCode][key]; ok {
		return text
	}
	return key
}

// Format returns the string for key in lang with fmt verbs filled in
func (b *Bundle) Format(lang models.Language, key string, args ...interface{}) string {
	return fmt.Sprintf(b.Get(lang, key), args...)
}

// Category returns the display name of a place category
func (b *Bundle) Category(lang models.Language, key string) string {
	text := b.Get(lang, "Category_"+key)
	if text == "Category_"+key {
		return key
	}
	return text
}
