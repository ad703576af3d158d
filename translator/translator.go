// Package translator maps a string catalog to translated text for one
// target language.
//
// Resolution order per entry: persisted translation memory first (user
// edits are authoritative and never clobbered), then the configured
// provider in batches, then the bundled dictionary, and finally
// "untranslated". Provider failures degrade a batch to the dictionary
// path instead of aborting the run; each successful batch is committed
// to the memory file independently.
package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/junyjeon/cursor-translator/catalog"
	"github.com/junyjeon/cursor-translator/dictionary"
)

// Provider errors. Implementations wrap these so the mapper can treat
// every provider failure as recoverable.
var (
	ErrRateLimited  = errors.New("translation provider rate limited")
	ErrUnauthorized = errors.New("translation provider rejected credentials")
	ErrUnreachable  = errors.New("translation provider unreachable")
)

// Translation sources, recorded per entry.
const (
	SourceMemory       = "memory"
	SourceAPI          = "api"
	SourceFallback     = "fallback"
	SourceUntranslated = "untranslated"
)

// chunkSize is the number of texts sent per provider request.
const chunkSize = 50

// Provider is the external translation service contract.
type Provider interface {
	// TranslateBatch translates texts into targetLang, returning results
	// in input order. Errors wrap ErrRateLimited, ErrUnauthorized or
	// ErrUnreachable.
	TranslateBatch(ctx context.Context, texts []string, targetLang string) ([]string, error)
}

// Entry is one translated catalog entry for a target language.
type Entry struct {
	Key            string `json:"key"`
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	// Source is one of memory, api, fallback, untranslated.
	Source string `json:"source"`
}

// Options controls a mapping run.
type Options struct {
	// Provider is the external translation service; nil means no API.
	Provider Provider
	// WorkDir is where translation memory files live.
	WorkDir string
	// OnLog emits progress messages.
	OnLog func(format string, args ...any)
}

func (o *Options) log(format string, args ...any) {
	if o.OnLog != nil {
		o.OnLog(format, args...)
	}
}

// MemoryPath returns the translation memory file for a language.
func MemoryPath(workDir, lang string) string {
	return filepath.Join(workDir, fmt.Sprintf("cursor_translations_%s.json", lang))
}

// ---------------------------------------------------------------------------
// Translation memory file
// ---------------------------------------------------------------------------

// memoryFile is the persisted per-language translation file. Users edit
// translated_text in place; entries are kept in catalog order.
type memoryFile struct {
	Language string  `json:"language"`
	Entries  []Entry `json:"entries"`
}

// LoadMemory reads the translation memory for a language. A missing file
// yields an empty memory.
func LoadMemory(workDir, lang string) (map[string]Entry, error) {
	path := MemoryPath(workDir, lang)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]Entry), nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var mf memoryFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	mem := make(map[string]Entry, len(mf.Entries))
	for _, e := range mf.Entries {
		mem[e.Key] = e
	}
	return mem, nil
}

// SaveMemory writes the translation file for a language, in the given
// entry order.
func SaveMemory(workDir, lang string, entries []Entry) error {
	mf := memoryFile{Language: lang, Entries: entries}
	data, err := json.MarshalIndent(&mf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling translations: %w", err)
	}
	data = append(data, '\n')

	path := MemoryPath(workDir, lang)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating work directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

// Map resolves a translation for every catalog entry and persists the
// updated memory file. The returned entries follow catalog order.
func Map(ctx context.Context, cat *catalog.Catalog, lang string, opts Options) ([]Entry, error) {
	memory, err := LoadMemory(opts.WorkDir, lang)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, len(cat.Entries))
	// pending collects entries that need the provider, keyed by position.
	var pending []int
	// runCache keeps provider results consistent within one run: the same
	// original text always maps to the same translation.
	runCache := make(map[string]string)

	for i, ce := range cat.Entries {
		if prev, ok := memory[ce.Key]; ok && prev.OriginalText == ce.OriginalText && prev.TranslatedText != "" {
			entries[i] = Entry{
				Key:            ce.Key,
				OriginalText:   ce.OriginalText,
				TranslatedText: prev.TranslatedText,
				Source:         SourceMemory,
			}
			continue
		}
		entries[i] = Entry{Key: ce.Key, OriginalText: ce.OriginalText}
		pending = append(pending, i)
	}

	if opts.Provider != nil && len(pending) > 0 {
		translateWithProvider(ctx, entries, pending, lang, runCache, opts)
	}

	// Dictionary and untranslated passes for whatever the provider did
	// not resolve.
	for _, i := range pending {
		if entries[i].Source == SourceAPI {
			continue
		}
		if text, ok := dictionary.Lookup(lang, entries[i].OriginalText); ok {
			entries[i].TranslatedText = text
			entries[i].Source = SourceFallback
		} else {
			entries[i].TranslatedText = ""
			entries[i].Source = SourceUntranslated
		}
	}

	if err := SaveMemory(opts.WorkDir, lang, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// translateWithProvider fills pending entries from the provider in chunks.
// A failed chunk is logged and left for the dictionary pass; successful
// chunks are committed to the memory file immediately so a later failure
// cannot lose them.
func translateWithProvider(ctx context.Context, entries []Entry, pending []int, lang string, runCache map[string]string, opts Options) {
	// Distinct texts still needing the provider.
	var texts []string
	seen := make(map[string]bool)
	for _, i := range pending {
		t := entries[i].OriginalText
		if _, cached := runCache[t]; cached || seen[t] {
			continue
		}
		seen[t] = true
		texts = append(texts, t)
	}

	total := len(texts)
	for start := 0; start < total; start += chunkSize {
		end := start + chunkSize
		if end > total {
			end = total
		}
		chunk := texts[start:end]

		results, err := opts.Provider.TranslateBatch(ctx, chunk, lang)
		if err != nil {
			opts.log("provider failed for %d strings (%v); falling back to dictionary", len(chunk), err)
			continue
		}
		if len(results) != len(chunk) {
			opts.log("provider returned %d translations for %d strings; batch discarded", len(results), len(chunk))
			continue
		}
		for j, t := range chunk {
			runCache[t] = results[j]
		}
		opts.log("translated %d/%d strings", end, total)

		// Commit what we have so far.
		applyRunCache(entries, pending, runCache)
		if err := SaveMemory(opts.WorkDir, lang, entries); err != nil {
			opts.log("saving partial translations: %v", err)
		}
	}

	applyRunCache(entries, pending, runCache)
}

func applyRunCache(entries []Entry, pending []int, runCache map[string]string) {
	for _, i := range pending {
		if text, ok := runCache[entries[i].OriginalText]; ok && text != "" {
			entries[i].TranslatedText = text
			entries[i].Source = SourceAPI
		}
	}
}

// Stats summarizes a translation set by source.
func Stats(entries []Entry) map[string]int {
	stats := make(map[string]int)
	for _, e := range entries {
		stats[e.Source]++
	}
	return stats
}
