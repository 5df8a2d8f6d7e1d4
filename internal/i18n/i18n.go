// Package i18n loads the JSON translation catalog and resolves message keys
// with English fallback. The catalog file is required at startup: the
// program has no usable prompts without it.
package i18n

import (
	"encoding/json"
	"fmt"
	"os"
)

const fallbackLang = "en"

// Languages supported by the catalog, in menu order.
var Languages = []string{"en", "fr", "ar"}

// Supported reports whether lang is one of the catalog languages.
func Supported(lang string) bool {
	for _, l := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// Catalog maps language code -> message key -> text.
type Catalog struct {
	messages map[string]map[string]string
}

// Load reads the translation file. A missing or malformed file is an error;
// callers treat it as fatal.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("translation file: %w", err)
	}
	var messages map[string]map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("translation file %s: %w", path, err)
	}
	if _, ok := messages[fallbackLang]; !ok {
		return nil, fmt.Errorf("translation file %s: missing %q section", path, fallbackLang)
	}
	return &Catalog{messages: messages}, nil
}

// T resolves key in lang, falling back to English and finally to the key
// itself so a missing entry never blanks a prompt.
func (c *Catalog) T(lang, key string) string {
	if m, ok := c.messages[lang]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := c.messages[fallbackLang][key]; ok {
		return s
	}
	return key
}

// Tf resolves key and applies fmt formatting.
func (c *Catalog) Tf(lang, key string, args ...any) string {
	return fmt.Sprintf(c.T(lang, key), args...)
}

// HasLang reports whether the catalog carries the language at all.
func (c *Catalog) HasLang(lang string) bool {
	_, ok := c.messages[lang]
	return ok
}

// Sentinel tokens are language-specific: the word that ends the free-form
// testing loop and the token that accepts the yes/no prompt.
var (
	doneWords = map[string]string{"en": "done", "fr": "fini", "ar": "انتهى"}
	yesTokens = map[string]string{"en": "y", "fr": "o", "ar": "ن"}
)

func DoneWord(lang string) string {
	if w, ok := doneWords[lang]; ok {
		return w
	}
	return doneWords[fallbackLang]
}

func YesToken(lang string) string {
	if t, ok := yesTokens[lang]; ok {
		return t
	}
	return yesTokens[fallbackLang]
}
