// Package locales resolves user-facing message IDs through an embedded
// go-i18n bundle.
package locales

import (
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed *.json
var localeFS embed.FS

var (
	mu              sync.RWMutex
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
)

// Init builds the bundle from the embedded message files. An unparseable
// language code falls back to English.
func Init(defaultLangCode string) error {
	tag, err := language.Parse(defaultLangCode)
	if err != nil {
		log.Printf("WARN: Failed to parse default language code '%s': %v. Falling back to English.", defaultLangCode, err)
		tag = language.English
	}

	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(".")
	if err != nil {
		return fmt.Errorf("failed to read embedded locales: %w", err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if _, err := b.LoadMessageFileFS(localeFS, entry.Name()); err != nil {
			log.Printf("WARN: Failed to load message file '%s': %v", entry.Name(), err)
			continue
		}
		loaded++
	}
	if loaded == 0 {
		return fmt.Errorf("no message files loaded")
	}

	mu.Lock()
	bundle = b
	defaultLanguage = tag
	mu.Unlock()
	log.Printf("i18n bundle initialized with %d file(s). Default language: %s", loaded, tag)
	return nil
}

// DefaultLanguageTag returns the configured default language.
func DefaultLanguageTag() language.Tag {
	mu.RLock()
	defer mu.RUnlock()
	if bundle == nil {
		log.Panicln("Attempted to get default language tag before i18n bundle initialization.")
	}
	return defaultLanguage
}

// NewLocalizer creates a localizer for the given language preferences,
// falling back to the default language.
func NewLocalizer(langPrefs ...string) *i18n.Localizer {
	mu.RLock()
	defer mu.RUnlock()
	if bundle == nil {
		log.Panicln("Attempted to create localizer before i18n bundle initialization.")
	}
	return i18n.NewLocalizer(bundle, append(langPrefs, defaultLanguage.String())...)
}

// GetMessage localizes msgID. It falls back to English and finally to the
// message ID itself.
func GetMessage(localizer *i18n.Localizer, msgID string, templateData map[string]interface{}, pluralCount *int) string {
	cfg := &i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: templateData,
	}
	if pluralCount != nil {
		cfg.PluralCount = *pluralCount
	}

	msg, err := localizer.Localize(cfg)
	if err == nil {
		return msg
	}
	log.Printf("ERROR: Failed to localize message ID '%s': %v. Falling back to English.", msgID, err)

	mu.RLock()
	b := bundle
	mu.RUnlock()
	if fallback, ferr := i18n.NewLocalizer(b, language.English.String()).Localize(cfg); ferr == nil {
		return fallback
	}
	return msgID
}

// Translator resolves message IDs for one language.
type Translator struct {
	localizer *i18n.Localizer
}

// NewTranslator returns a Translator for lang (empty means the default).
func NewTranslator(lang string) *Translator {
	if lang == "" {
		return &Translator{localizer: NewLocalizer()}
	}
	return &Translator{localizer: NewLocalizer(lang)}
}

// T localizes msgID with optional template data.
func (t *Translator) T(msgID string, data map[string]interface{}) string {
	return GetMessage(t.localizer, msgID, data, nil)
}

// Plural localizes a message with a Count template field and plural rules.
func (t *Translator) Plural(msgID string, count int) string {
	return GetMessage(t.localizer, msgID, map[string]interface{}{"Count": count}, &count)
}
