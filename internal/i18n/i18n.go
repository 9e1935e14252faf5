package i18n

import (
	"embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// LangEnv selects the interface language when --lang and the config are silent
const LangEnv = "WEARHUB_LANG"

var supported = []language.Tag{
	language.English,
	language.Chinese,
}

var (
	mu              sync.RWMutex
	localizer       *goi18n.Localizer
	currentLanguage = language.English
	matcher         = language.NewMatcher(supported)
)

//go:embed locales/*.toml
var localeFS embed.FS

// Init loads the message catalogs and picks a language from, in order:
//  1. langOverride (--lang or the lang config key)
//  2. the WEARHUB_LANG environment variable
//  3. LC_ALL / LC_MESSAGES / LANG
//  4. the platform's preferred UI languages
//
// English is used when nothing matches.
func Init(langOverride string) error {
	b := goi18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales: %w", err)
	}
	for _, entry := range entries {
		if _, err := b.LoadMessageFileFS(localeFS, "locales/"+entry.Name()); err != nil {
			return fmt.Errorf("load %s: %w", entry.Name(), err)
		}
	}

	chosen := selectLanguage(langOverride)

	mu.Lock()
	defer mu.Unlock()
	localizer = goi18n.NewLocalizer(b, chosen.String(), language.English.String())
	currentLanguage = chosen
	return nil
}

// T translates a message by ID with optional template data. Unknown IDs and
// failed lookups return the ID itself.
func T(id string, data ...map[string]interface{}) string {
	mu.RLock()
	l := localizer
	mu.RUnlock()

	if l == nil {
		if err := Init(""); err != nil {
			fmt.Fprintf(os.Stderr, "i18n init failed: %v\n", err)
			return id
		}
		mu.RLock()
		l = localizer
		mu.RUnlock()
	}

	var templateData map[string]interface{}
	if len(data) > 0 {
		templateData = data[0]
	}

	msg, err := l.Localize(&goi18n.LocalizeConfig{
		MessageID:      id,
		TemplateData:   templateData,
		PluralCount:    pluralCount(templateData),
		DefaultMessage: &goi18n.Message{ID: id, Other: id},
	})
	if err != nil || msg == "" {
		return id
	}
	return msg
}

// CurrentLanguage returns the chosen language tag.
func CurrentLanguage() language.Tag {
	mu.RLock()
	defer mu.RUnlock()
	return currentLanguage
}

func selectLanguage(langOverride string) language.Tag {
	var candidates []string
	if s := strings.TrimSpace(langOverride); s != "" {
		candidates = append(candidates, s)
	}
	for _, key := range []string{LangEnv, "LC_ALL", "LC_MESSAGES", "LANG"} {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			candidates = append(candidates, val)
		}
	}
	// Windows rarely sets the locale variables
	if len(candidates) == 0 {
		candidates = getPlatformLocales()
	}

	// the first parsable candidate wins, so --lang beats the environment
	for _, cand := range candidates {
		tag, ok := parseLocale(cand)
		if !ok {
			continue
		}
		_, idx, conf := matcher.Match(tag)
		if conf == language.No {
			return language.English
		}
		return supported[idx]
	}
	return language.English
}

// parseLocale accepts BCP 47 tags and POSIX locales such as zh_CN.UTF-8
func parseLocale(s string) (language.Tag, bool) {
	clean := strings.TrimSpace(s)
	if idx := strings.IndexAny(clean, ".@"); idx >= 0 {
		clean = clean[:idx]
	}
	clean = strings.ReplaceAll(clean, "_", "-")
	if clean == "" || clean == "C" || clean == "POSIX" {
		return language.Tag{}, false
	}

	tag, err := language.Parse(clean)
	if err == nil {
		return tag, true
	}
	lower := strings.ToLower(clean)
	switch {
	case strings.HasPrefix(lower, "zh"):
		return language.Chinese, true
	case strings.HasPrefix(lower, "en"):
		return language.English, true
	}
	return language.Tag{}, false
}

func pluralCount(data map[string]interface{}) interface{} {
	for _, key := range []string{"Count", "count", "Total", "total"} {
		if val, ok := data[key]; ok {
			return val
		}
	}
	return nil
}
