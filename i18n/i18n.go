// Package i18n localizes cursor-translator's own CLI messages.
//
// It wraps gotext; translations are embedded via go:embed and selected
// from the environment at startup. The tool that translates an IDE should
// speak the user's language itself.
package i18n

import (
	"embed"
	"io/fs"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the compiled .po translation files.
// Layout: locales/{lang}/LC_MESSAGES/cursor-translator.po
//
//go:embed all:locales
var locales embed.FS

const domain = "cursor-translator"

var locale *gotext.Locale

// Init loads translations for lang, auto-detecting from LANGUAGE, LC_ALL,
// LC_MESSAGES and LANG (GNU gettext order) when lang is empty. Call once
// at startup before T or N.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}

	sub, err := fs.Sub(locales, "locales")
	if err != nil {
		return
	}
	locale = gotext.NewLocaleFS(lang, sub)
	locale.AddDomain(domain)
	locale.SetDomain(domain)
}

// T translates a message, returning it unchanged when no translation
// exists (gettext passthrough).
func T(msgid string) string {
	if locale == nil {
		return msgid
	}
	return locale.Get(msgid)
}

// N translates a message with plural forms.
func N(singular, plural string, n int) string {
	if locale == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return locale.GetN(singular, plural, n)
}

// detectLanguage follows GNU gettext environment conventions.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if val == "" {
			continue
		}
		if env == "LANGUAGE" {
			val = strings.SplitN(val, ":", 2)[0]
		}
		if idx := strings.IndexByte(val, '.'); idx >= 0 {
			val = val[:idx]
		}
		if val == "C" || val == "POSIX" || val == "" {
			continue
		}
		return val
	}
	return "en"
}
