// Package langmeta provides the registry of target languages the
// translator supports, with display metadata for CLI output.
package langmeta

import (
	"sort"
	"strings"
)

// Meta describes language display metadata.
type Meta struct {
	// Name is the native display name.
	Name string
	// Flag is the emoji flag shown next to the code.
	Flag string
}

// Registry contains the supported target languages. These are the codes
// the translation provider accepts and the bundled dictionary may cover.
var Registry = map[string]Meta{
	"ko": {Name: "한국어", Flag: "🇰🇷"},
	"ja": {Name: "日本語", Flag: "🇯🇵"},
	"zh": {Name: "中文", Flag: "🇨🇳"},
	"fr": {Name: "Français", Flag: "🇫🇷"},
	"de": {Name: "Deutsch", Flag: "🇩🇪"},
	"es": {Name: "Español", Flag: "🇪🇸"},
	"it": {Name: "Italiano", Flag: "🇮🇹"},
	"pt": {Name: "Português", Flag: "🇵🇹"},
	"ru": {Name: "Русский", Flag: "🇷🇺"},
}

// Normalize canonicalizes a language code: lower-cased base language,
// region variants collapsed ("KO", "ko_KR", "ko-KR" -> "ko").
func Normalize(lang string) string {
	lang = strings.TrimSpace(strings.ToLower(lang))
	lang = strings.ReplaceAll(lang, "_", "-")
	if i := strings.IndexByte(lang, '-'); i > 0 {
		lang = lang[:i]
	}
	return lang
}

// Supported reports whether a language code (after normalization) is a
// known translation target.
func Supported(lang string) bool {
	_, ok := Registry[Normalize(lang)]
	return ok
}

// Resolve returns metadata for a language code. Unknown codes fall back
// to the code itself as the name, with no flag.
func Resolve(lang string) Meta {
	if m, ok := Registry[Normalize(lang)]; ok {
		return m
	}
	return Meta{Name: lang}
}

// Codes returns the supported language codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(Registry))
	for c := range Registry {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
