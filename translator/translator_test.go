package translator

import (
	"context"
	"fmt"
	"testing"

	"github.com/junyjeon/cursor-translator/catalog"
)

// fakeProvider translates by prefixing, and can fail on command.
type fakeProvider struct {
	prefix string
	fail   bool
	calls  int
}

func (f *fakeProvider) TranslateBatch(ctx context.Context, texts []string, lang string) ([]string, error) {
	f.calls++
	if f.fail {
		return nil, fmt.Errorf("boom: %w", ErrUnreachable)
	}
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = f.prefix + t
	}
	return out, nil
}

func testCatalog(texts ...string) *catalog.Catalog {
	cat := &catalog.Catalog{Root: "/r"}
	for i, t := range texts {
		cat.Entries = append(cat.Entries, catalog.Entry{
			Key:          fmt.Sprintf("key-%d", i),
			OriginalText: t,
			SourceFile:   "/r/resources/app/package.nls.json",
			KeyPath:      fmt.Sprintf("menu.item%d", i),
		})
	}
	return cat
}

func TestMap_DictionaryFallbackWithoutProvider(t *testing.T) {
	work := t.TempDir()
	cat := testCatalog("File", "Something nobody translated")

	entries, err := Map(context.Background(), cat, "ko", Options{WorkDir: work})
	if err != nil {
		t.Fatalf("Map error: %v", err)
	}

	if entries[0].Source != SourceFallback || entries[0].TranslatedText != "파일" {
		t.Fatalf("entry 0 = %#v, want fallback 파일", entries[0])
	}
	if entries[1].Source != SourceUntranslated || entries[1].TranslatedText != "" {
		t.Fatalf("entry 1 = %#v, want untranslated with empty text", entries[1])
	}
}

func TestMap_ProviderPath(t *testing.T) {
	work := t.TempDir()
	cat := testCatalog("Open Recent", "Close Editor")
	prov := &fakeProvider{prefix: "ko:"}

	entries, err := Map(context.Background(), cat, "ko", Options{WorkDir: work, Provider: prov})
	if err != nil {
		t.Fatalf("Map error: %v", err)
	}
	for i, e := range entries {
		if e.Source != SourceAPI {
			t.Fatalf("entry %d source = %q, want api", i, e.Source)
		}
		if e.TranslatedText != "ko:"+e.OriginalText {
			t.Fatalf("entry %d text = %q", i, e.TranslatedText)
		}
	}
}

func TestMap_ProviderFailureDegradesToDictionary(t *testing.T) {
	work := t.TempDir()
	cat := testCatalog("File", "Mystery phrase")
	prov := &fakeProvider{fail: true}

	entries, err := Map(context.Background(), cat, "ko", Options{WorkDir: work, Provider: prov})
	if err != nil {
		t.Fatalf("Map error: %v (provider failures must not abort)", err)
	}
	if entries[0].Source != SourceFallback {
		t.Fatalf("entry 0 source = %q, want fallback", entries[0].Source)
	}
	if entries[1].Source != SourceUntranslated {
		t.Fatalf("entry 1 source = %q, want untranslated", entries[1].Source)
	}
}

func TestMap_MemoryIsAuthoritative(t *testing.T) {
	work := t.TempDir()
	cat := testCatalog("File")

	// User-edited memory entry; a provider is configured but must not
	// clobber it.
	err := SaveMemory(work, "ko", []Entry{{
		Key:            cat.Entries[0].Key,
		OriginalText:   "File",
		TranslatedText: "내가 고친 번역",
		Source:         SourceAPI,
	}})
	if err != nil {
		t.Fatalf("SaveMemory: %v", err)
	}

	prov := &fakeProvider{prefix: "ko:"}
	entries, err := Map(context.Background(), cat, "ko", Options{WorkDir: work, Provider: prov})
	if err != nil {
		t.Fatalf("Map error: %v", err)
	}
	if entries[0].Source != SourceMemory || entries[0].TranslatedText != "내가 고친 번역" {
		t.Fatalf("entry = %#v, want memory reuse", entries[0])
	}
	if prov.calls != 0 {
		t.Fatalf("provider called %d times for fully-remembered catalog", prov.calls)
	}
}

func TestMap_ChangedOriginalInvalidatesMemory(t *testing.T) {
	work := t.TempDir()
	cat := testCatalog("New wording")

	err := SaveMemory(work, "ko", []Entry{{
		Key:            cat.Entries[0].Key,
		OriginalText:   "Old wording",
		TranslatedText: "예전 번역",
		Source:         SourceAPI,
	}})
	if err != nil {
		t.Fatalf("SaveMemory: %v", err)
	}

	prov := &fakeProvider{prefix: "ko:"}
	entries, err := Map(context.Background(), cat, "ko", Options{WorkDir: work, Provider: prov})
	if err != nil {
		t.Fatalf("Map error: %v", err)
	}
	if entries[0].Source != SourceAPI || entries[0].TranslatedText != "ko:New wording" {
		t.Fatalf("entry = %#v, want fresh api translation", entries[0])
	}
}

func TestMap_ConsistentWithinRun(t *testing.T) {
	work := t.TempDir()
	// Same text at two positions: one provider call, identical results.
	cat := &catalog.Catalog{Root: "/r", Entries: []catalog.Entry{
		{Key: "k1", OriginalText: "Close Editor", KeyPath: "menu.close"},
		{Key: "k2", OriginalText: "Close Editor", KeyPath: "command.close.title"},
	}}
	prov := &fakeProvider{prefix: "ko:"}

	entries, err := Map(context.Background(), cat, "ko", Options{WorkDir: work, Provider: prov})
	if err != nil {
		t.Fatalf("Map error: %v", err)
	}
	if entries[0].TranslatedText != entries[1].TranslatedText {
		t.Fatalf("same text translated differently: %q vs %q",
			entries[0].TranslatedText, entries[1].TranslatedText)
	}
	if prov.calls != 1 {
		t.Fatalf("provider called %d times, want 1 (deduplicated batch)", prov.calls)
	}
}

func TestMap_PersistsMemoryFile(t *testing.T) {
	work := t.TempDir()
	cat := testCatalog("File")

	if _, err := Map(context.Background(), cat, "ko", Options{WorkDir: work}); err != nil {
		t.Fatalf("Map error: %v", err)
	}

	mem, err := LoadMemory(work, "ko")
	if err != nil {
		t.Fatalf("LoadMemory error: %v", err)
	}
	e, ok := mem[cat.Entries[0].Key]
	if !ok {
		t.Fatalf("memory missing key %s", cat.Entries[0].Key)
	}
	if e.TranslatedText != "파일" || e.Source != SourceFallback {
		t.Fatalf("persisted entry = %#v", e)
	}
}

func TestStats(t *testing.T) {
	entries := []Entry{
		{Source: SourceAPI},
		{Source: SourceAPI},
		{Source: SourceFallback},
		{Source: SourceUntranslated},
	}
	s := Stats(entries)
	if s[SourceAPI] != 2 || s[SourceFallback] != 1 || s[SourceUntranslated] != 1 {
		t.Fatalf("Stats = %v", s)
	}
}
