package patch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/junyjeon/cursor-translator/catalog"
	"github.com/junyjeon/cursor-translator/translator"
)

func setupBundle(t *testing.T, content string) (string, *catalog.Catalog) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "package.nls.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cat, err := catalog.Extract(dir, []string{path})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return path, cat
}

func translationsFor(cat *catalog.Catalog, m map[string]string) map[string]translator.Entry {
	out := make(map[string]translator.Entry)
	for _, ce := range cat.Entries {
		if text, ok := m[ce.OriginalText]; ok {
			out[ce.Key] = translator.Entry{
				Key:            ce.Key,
				OriginalText:   ce.OriginalText,
				TranslatedText: text,
				Source:         translator.SourceFallback,
			}
		} else {
			out[ce.Key] = translator.Entry{
				Key:          ce.Key,
				OriginalText: ce.OriginalText,
				Source:       translator.SourceUntranslated,
			}
		}
	}
	return out
}

func TestApply_SubstitutesAndCounts(t *testing.T) {
	path, cat := setupBundle(t, `{
  "menu.file": "File",
  "command.save.title": "Save",
  "internal.id": "x1"
}`)

	report, err := Apply(cat, translationsFor(cat, map[string]string{
		"File": "파일",
		"Save": "저장",
	}))
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if report.EntriesApplied != 2 || report.FilesChanged != 1 {
		t.Fatalf("report = %+v, want 2 applied in 1 file", report)
	}

	data, _ := os.ReadFile(path)
	out := string(data)
	if !strings.Contains(out, `"menu.file": "파일"`) || !strings.Contains(out, `"command.save.title": "저장"`) {
		t.Fatalf("substitutions missing:\n%s", out)
	}
	if !strings.Contains(out, `"internal.id": "x1"`) {
		t.Fatalf("non-extractable entry altered:\n%s", out)
	}
}

func TestApply_UntranslatedLeftUnchanged(t *testing.T) {
	path, cat := setupBundle(t, `{"menu.file": "File", "menu.edit": "Edit"}`)

	report, err := Apply(cat, translationsFor(cat, map[string]string{"File": "파일"}))
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if report.EntriesApplied != 1 || report.EntriesSkipped != 1 {
		t.Fatalf("report = %+v, want 1 applied 1 skipped", report)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"menu.edit": "Edit"`) {
		t.Fatalf("untranslated entry changed:\n%s", data)
	}
}

func TestApply_NoCrossContamination(t *testing.T) {
	// "File" appears both at an extractable position and as an internal
	// value; only the extractable occurrence may change.
	path, cat := setupBundle(t, `{"menu.file": "File", "internal.defaultView": "File"}`)

	if _, err := Apply(cat, translationsFor(cat, map[string]string{"File": "파일"})); err != nil {
		t.Fatalf("Apply error: %v", err)
	}

	data, _ := os.ReadFile(path)
	out := string(data)
	if !strings.Contains(out, `"menu.file": "파일"`) {
		t.Fatalf("extractable occurrence not translated:\n%s", out)
	}
	if !strings.Contains(out, `"internal.defaultView": "File"`) {
		t.Fatalf("internal occurrence was altered:\n%s", out)
	}
}

func TestApply_Idempotent(t *testing.T) {
	path, cat := setupBundle(t, `{"menu.file": "File"}`)
	translations := translationsFor(cat, map[string]string{"File": "파일"})

	first, err := Apply(cat, translations)
	if err != nil {
		t.Fatalf("first Apply error: %v", err)
	}
	afterFirst, _ := os.ReadFile(path)

	second, err := Apply(cat, translations)
	if err != nil {
		t.Fatalf("second Apply error: %v", err)
	}
	afterSecond, _ := os.ReadFile(path)

	if string(afterFirst) != string(afterSecond) {
		t.Fatalf("second apply changed content:\n%s\n---\n%s", afterFirst, afterSecond)
	}
	if first.EntriesApplied != 1 {
		t.Fatalf("first report = %+v", first)
	}
	if second.EntriesApplied != 0 || second.AlreadyApplied != 1 || second.FilesChanged != 0 {
		t.Fatalf("second report = %+v, want all already-applied", second)
	}
}

func TestApply_DriftedContentSkipped(t *testing.T) {
	path, cat := setupBundle(t, `{"menu.file": "File"}`)

	// Simulate an app update rewriting the string after extraction.
	if err := os.WriteFile(path, []byte(`{"menu.file": "Files"}`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	report, err := Apply(cat, translationsFor(cat, map[string]string{"File": "파일"}))
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if report.EntriesApplied != 0 || report.EntriesSkipped != 1 {
		t.Fatalf("report = %+v, want drifted entry skipped", report)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"menu.file": "Files"`) {
		t.Fatalf("drifted content overwritten:\n%s", data)
	}
}

func TestApply_MissingBundleIsolated(t *testing.T) {
	path, cat := setupBundle(t, `{"menu.file": "File"}`)

	// Add a second, now-missing bundle to the catalog.
	missing := filepath.Join(filepath.Dir(path), "gone.nls.json")
	cat.Entries = append(cat.Entries, catalog.Entry{
		Key:          "missing-key",
		OriginalText: "Edit",
		SourceFile:   missing,
		KeyPath:      "menu.edit",
	})
	translations := translationsFor(cat, map[string]string{"File": "파일", "Edit": "편집"})

	report, err := Apply(cat, translations)
	if err != nil {
		t.Fatalf("Apply error (failures must be isolated): %v", err)
	}
	if !report.PartialFailure() {
		t.Fatal("expected partial failure for missing bundle")
	}
	if _, ok := report.Failures[missing]; !ok {
		t.Fatalf("Failures = %v, want entry for %s", report.Failures, missing)
	}
	if report.EntriesApplied != 1 {
		t.Fatalf("report = %+v, want healthy file still patched", report)
	}
}
