// Package patch rewrites resource bundles in place, substituting each
// catalog entry's original string with its translation.
//
// Replacement targets the structural position recorded at extraction time
// (a key path into the parsed tree), never a text search, so identical
// strings at non-extractable positions are never altered. Writes are
// atomic per file; re-applying a translation set is idempotent: positions
// already holding the translated value are reported as already applied.
package patch

import (
	"fmt"
	"sort"

	"github.com/junyjeon/cursor-translator/catalog"
	"github.com/junyjeon/cursor-translator/nlsfile"
	"github.com/junyjeon/cursor-translator/translator"
)

// Report summarizes one apply run.
type Report struct {
	// FilesChanged counts files whose content was rewritten.
	FilesChanged int
	// EntriesApplied counts newly substituted strings.
	EntriesApplied int
	// EntriesSkipped counts entries left as-is: untranslated ones, and
	// positions whose current content matches neither the original nor
	// the translated text (drifted since extraction).
	EntriesSkipped int
	// AlreadyApplied counts positions already holding the translation.
	AlreadyApplied int
	// Failures records per-file errors; other files still proceed. A
	// failed file contributes nothing to the counters above.
	Failures map[string]error
}

// PartialFailure reports whether some files could not be written.
func (r *Report) PartialFailure() bool {
	return len(r.Failures) > 0
}

// fileCounts accumulates one file's outcome before it is known whether
// the write succeeded.
type fileCounts struct {
	applied, skipped, already int
}

// Apply substitutes translations into the resource bundles referenced by
// the catalog. Translations are looked up by catalog key; entries without
// a usable translation are skipped and counted.
func Apply(cat *catalog.Catalog, translations map[string]translator.Entry) (*Report, error) {
	report := &Report{Failures: make(map[string]error)}

	grouped := cat.ByFile()
	files := make([]string, 0, len(grouped))
	for f := range grouped {
		files = append(files, f)
	}
	sort.Strings(files)

	for _, path := range files {
		counts, changed, err := applyFile(path, grouped[path], translations)
		if err != nil {
			report.Failures[path] = err
			continue
		}
		report.EntriesApplied += counts.applied
		report.EntriesSkipped += counts.skipped
		report.AlreadyApplied += counts.already
		if changed {
			report.FilesChanged++
		}
	}

	if len(files) > 0 && len(report.Failures) == len(files) {
		return report, fmt.Errorf("no file could be patched")
	}
	return report, nil
}

// applyFile patches one bundle. The content is fully rendered in memory
// and swapped in with an atomic rename; on any error the original file is
// untouched and its counts are discarded.
func applyFile(path string, entries []catalog.Entry, translations map[string]translator.Entry) (fileCounts, bool, error) {
	var counts fileCounts

	f, err := nlsfile.ParseFile(path)
	if err != nil {
		return counts, false, fmt.Errorf("parsing bundle: %w", err)
	}

	changed := false
	for _, ce := range entries {
		tr, ok := translations[ce.Key]
		if !ok || tr.Source == translator.SourceUntranslated || tr.TranslatedText == "" {
			counts.skipped++
			continue
		}

		current, ok := f.StringAt(ce.KeyPath)
		if !ok {
			// Position vanished since extraction; the catalog is stale.
			counts.skipped++
			continue
		}

		switch current {
		case tr.TranslatedText:
			counts.already++
		case ce.OriginalText:
			f.SetString(ce.KeyPath, tr.TranslatedText)
			counts.applied++
			changed = true
		default:
			// Content drifted (app update changed the string); do not
			// overwrite what we did not extract.
			counts.skipped++
		}
	}

	if !changed {
		return counts, false, nil
	}
	if err := f.WriteFileAtomic(path); err != nil {
		return fileCounts{}, false, err
	}
	return counts, true, nil
}
