package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

type Translations map[string]string

const fallbackLocale = "es"

var (
	locales = make(map[string]Translations)
	mu      sync.RWMutex
)

func LoadTranslations(localePath string) error {
	mu.Lock()
	defer mu.Unlock()

	entries, err := os.ReadDir(localePath)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			locale := entry.Name()
			filePath := filepath.Join(localePath, locale, "notifications.yaml")

			data, err := os.ReadFile(filePath)
			if err != nil {
				continue
			}

			var config struct {
				Notifications Translations `yaml:"NOTIFICATIONS"`
			}

			if err := yaml.Unmarshal(data, &config); err != nil {
				return fmt.Errorf("failed to parse %s: %w", filePath, err)
			}

			locales[locale] = config.Notifications
		}
	}

	return nil
}

func Translate(locale, key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if trans, ok := locales[locale]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	if locale != fallbackLocale {
		if trans, ok := locales[fallbackLocale]; ok {
			if val, ok := trans[key]; ok {
				return val
			}
		}
	}

	return key
}

// Supported reports whether translations were loaded for locale.
func Supported(locale string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := locales[locale]
	return ok
}

// RelativeTime renders how long ago t was, in whole minutes, hours or days.
// Anything under a minute (including timestamps in the future) is "now".
func RelativeTime(locale string, t, now time.Time) string {
	seconds := int(now.Sub(t) / time.Second)
	if seconds < 60 {
		return Translate(locale, "REL_NOW")
	}

	minutes := seconds / 60
	if minutes < 60 {
		return format(Translate(locale, "REL_MINUTES"), minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return format(Translate(locale, "REL_HOURS"), hours)
	}

	return format(Translate(locale, "REL_DAYS"), hours/24)
}

func format(template string, n int) string {
	return strings.ReplaceAll(template, "{n}", fmt.Sprint(n))
}
