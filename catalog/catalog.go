// Package catalog extracts translatable UI strings from Cursor's NLS
// resource bundles into a stable, deduplicated catalog.
//
// A string leaf is extractable when it sits at a user-facing key position
// (menu/command/view/settings namespaces, or a label/title/message-style
// key) and its content passes the identifier filters. Extraction is
// idempotent: unmodified bundles always yield byte-identical catalogs —
// first-seen traversal order, keys hashed from (file, key path).
//
// Identical texts at different key paths stay separate entries; each
// occurrence is tracked and patched independently.
package catalog

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/junyjeon/cursor-translator/nlsfile"
)

// ErrUnreadableResource is returned when a resource bundle cannot be
// parsed as JSON.
var ErrUnreadableResource = errors.New("unreadable resource bundle")

// DefaultFileName is the catalog file written next to the translation files.
const DefaultFileName = "cursor_catalog.json"

// Entry is one extractable string occurrence.
type Entry struct {
	// Key is a stable identifier: md5 of the bundle path (relative to the
	// install root) and the structural key path.
	Key string `json:"key"`
	// OriginalText is the English UI string as found in the bundle.
	OriginalText string `json:"original_text"`
	// SourceFile is the absolute path of the bundle the string came from.
	SourceFile string `json:"source_file"`
	// KeyPath is the structural position inside the bundle ("menu.file",
	// "items[2].label"). Patching targets this position, never raw text.
	KeyPath string `json:"key_path"`
	// OccurrenceIndex numbers entries sharing the same OriginalText,
	// in catalog order.
	OccurrenceIndex int `json:"occurrence_index"`
}

// Catalog is the ordered set of extractable strings for one installation.
type Catalog struct {
	Root    string  `json:"root"`
	Entries []Entry `json:"entries"`
}

// ---------------------------------------------------------------------------
// Extraction
// ---------------------------------------------------------------------------

// Extract scans the installation's resource bundles and builds the catalog.
func Extract(root string, resourceFiles []string) (*Catalog, error) {
	cat := &Catalog{Root: root}
	occurrences := make(map[string]int)

	for _, path := range resourceFiles {
		f, err := nlsfile.ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnreadableResource, err)
		}

		rel := relKey(root, path)
		f.Walk(func(keyPath, value string) {
			if !userFacingPath(keyPath) || !translatableText(value) {
				return
			}
			idx := occurrences[value]
			occurrences[value] = idx + 1
			cat.Entries = append(cat.Entries, Entry{
				Key:             entryKey(rel, keyPath),
				OriginalText:    value,
				SourceFile:      path,
				KeyPath:         keyPath,
				OccurrenceIndex: idx,
			})
		})
	}

	return cat, nil
}

// relKey normalizes a bundle path for key hashing so catalogs are stable
// across machines and OS path separators.
func relKey(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

// entryKey derives the stable catalog key for a string position.
func entryKey(relFile, keyPath string) string {
	return fmt.Sprintf("%x", md5.Sum([]byte(relFile+"\x00"+keyPath)))
}

// ---------------------------------------------------------------------------
// Extractability rules
// ---------------------------------------------------------------------------

// userFacingNamespaces are flat-bundle top-level namespaces whose strings
// are UI text by convention.
var userFacingNamespaces = map[string]bool{
	"menu":     true,
	"menus":    true,
	"command":  true,
	"commands": true,
	"view":     true,
	"views":    true,
	"settings": true,
	"dialog":   true,
	"welcome":  true,
}

// userFacingSuffixes match the final key segment, case-insensitively.
// Covers label, buttonLabel, categoryLabel, aria-label, failureMessage, etc.
var userFacingSuffixes = []string{
	"label",
	"title",
	"message",
	"placeholder",
	"detail",
	"tooltip",
	"description",
	"name",
	"value",
}

// userFacingPath reports whether a key path is an allow-listed UI position.
func userFacingPath(keyPath string) bool {
	first := keyPath
	if i := strings.IndexAny(first, ".["); i >= 0 {
		first = first[:i]
	}
	if userFacingNamespaces[strings.ToLower(first)] {
		return true
	}

	last := keyPath
	if i := strings.LastIndexAny(last, ".]"); i >= 0 {
		last = last[i+1:]
	}
	last = strings.ToLower(last)
	for _, suffix := range userFacingSuffixes {
		if strings.HasSuffix(last, suffix) {
			return true
		}
	}
	return false
}

var (
	urlRe   = regexp.MustCompile(`^(https?://|www\.)`)
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	colorRe = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
)

// translatableText filters out identifiers, flags, URLs and other
// non-prose values that happen to sit at UI key positions.
func translatableText(s string) bool {
	if len(s) < 2 || len(s) > 500 {
		return false
	}

	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return false // purely numeric or symbolic
	}

	if urlRe.MatchString(s) || emailRe.MatchString(s) || colorRe.MatchString(s) {
		return false
	}

	// Single-token values that look like identifiers: contain digits,
	// underscores, path separators, or internal camelCase humps.
	if !strings.ContainsAny(s, " \t") {
		if strings.ContainsAny(s, "_/\\") {
			return false
		}
		prevLower := false
		for _, r := range s {
			if unicode.IsDigit(r) {
				return false
			}
			if prevLower && unicode.IsUpper(r) {
				return false
			}
			prevLower = unicode.IsLower(r)
		}
	}

	return true
}

// ---------------------------------------------------------------------------
// Persistence (regenerable cache — safe to delete)
// ---------------------------------------------------------------------------

// Save writes the catalog as indented JSON.
func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating catalog directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Load reads a previously saved catalog.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cat Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cat, nil
}

// ByFile groups entries by their source bundle, preserving catalog order.
func (c *Catalog) ByFile() map[string][]Entry {
	grouped := make(map[string][]Entry)
	for _, e := range c.Entries {
		grouped[e.SourceFile] = append(grouped[e.SourceFile], e)
	}
	return grouped
}

// Texts returns the distinct original texts in first-seen order.
func (c *Catalog) Texts() []string {
	seen := make(map[string]bool, len(c.Entries))
	var texts []string
	for _, e := range c.Entries {
		if !seen[e.OriginalText] {
			seen[e.OriginalText] = true
			texts = append(texts, e.OriginalText)
		}
	}
	return texts
}
