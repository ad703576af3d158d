// Package backup manages snapshots of resource files taken before any
// patch touches them.
//
// The backup store is an append-only log: one subdirectory per set, named
// backup_<index>_<timestamp>, holding verbatim copies of every file plus a
// manifest.yaml. Sets are immutable once created; restore copies bytes
// back without affecting other sets. The manager exclusively owns its
// store directory.
package backup

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrBackupNotFound is returned by Restore for an unknown index.
	ErrBackupNotFound = errors.New("backup set not found")
	// ErrRestoreConflict is returned when a backed-up file can no longer
	// be restored to its original path.
	ErrRestoreConflict = errors.New("backup target path no longer restorable")
)

// DefaultDirName is the backup store directory under the work dir.
const DefaultDirName = "cursor_backups"

const (
	manifestName    = "manifest.yaml"
	timestampLayout = "20060102_150405"
)

// FilePair records one backed-up file.
type FilePair struct {
	// Original is the absolute path the file was copied from (and will be
	// restored to).
	Original string `yaml:"original"`
	// Stored is the copy's path inside the set directory.
	Stored string `yaml:"stored"`
}

// Set is one immutable snapshot.
type Set struct {
	Index     int        `yaml:"index"`
	CreatedAt time.Time  `yaml:"created_at"`
	Files     []FilePair `yaml:"files"`

	// Dir is the set directory; derived, not part of the manifest.
	Dir string `yaml:"-"`
}

// Manager owns one backup store directory.
type Manager struct {
	// Root is the backup store directory.
	Root string
}

// NewManager returns a manager for the store under workDir.
func NewManager(workDir string) *Manager {
	return &Manager{Root: filepath.Join(workDir, DefaultDirName)}
}

// ---------------------------------------------------------------------------
// Snapshot
// ---------------------------------------------------------------------------

// Snapshot copies files into a new set and returns it. Fail-closed: any
// error removes the partial set directory and nothing is recorded, so a
// failed snapshot can never be mistaken for a usable one.
func (m *Manager) Snapshot(files []string) (*Set, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("nothing to snapshot")
	}

	sets, err := m.List()
	if err != nil {
		return nil, err
	}
	index := 1
	if n := len(sets); n > 0 {
		index = sets[n-1].Index + 1
	}

	now := time.Now()
	set := &Set{
		Index:     index,
		CreatedAt: now,
		Dir:       filepath.Join(m.Root, fmt.Sprintf("backup_%d_%s", index, now.Format(timestampLayout))),
	}

	if err := os.MkdirAll(set.Dir, 0755); err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}

	cleanup := func(err error) (*Set, error) {
		os.RemoveAll(set.Dir)
		return nil, err
	}

	for i, original := range files {
		abs, err := filepath.Abs(original)
		if err != nil {
			return cleanup(fmt.Errorf("resolving %s: %w", original, err))
		}
		// Index prefix keeps stored names unique when files from
		// different directories share a base name.
		stored := filepath.Join(set.Dir, fmt.Sprintf("%03d_%s.backup", i, filepath.Base(abs)))
		if err := copyFile(abs, stored); err != nil {
			return cleanup(fmt.Errorf("backing up %s: %w", abs, err))
		}
		set.Files = append(set.Files, FilePair{Original: abs, Stored: stored})
	}

	if err := set.writeManifest(); err != nil {
		return cleanup(err)
	}
	if err := set.writeReadme(); err != nil {
		return cleanup(err)
	}
	return set, nil
}

func (s *Set) writeManifest() error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	path := filepath.Join(s.Dir, manifestName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// writeReadme leaves a human-readable note so a user browsing the backup
// directory can restore by hand if the tool is gone.
func (s *Set) writeReadme() error {
	var b strings.Builder
	fmt.Fprintf(&b, "Cursor resource backup #%d (%s)\n\n", s.Index, s.CreatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("These files were copied before translated strings were applied.\n")
	b.WriteString("To undo by hand, copy each stored file back over its original path:\n\n")
	for _, f := range s.Files {
		fmt.Fprintf(&b, "- %s\n  -> %s\n", filepath.Base(f.Stored), f.Original)
	}
	path := filepath.Join(s.Dir, "README.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// List / Restore
// ---------------------------------------------------------------------------

// List returns all sets in the store, ascending by index. A missing store
// directory means no backups yet.
func (m *Manager) List() ([]*Set, error) {
	entries, err := os.ReadDir(m.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backup store: %w", err)
	}

	var sets []*Set
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), "backup_") {
			continue
		}
		dir := filepath.Join(m.Root, e.Name())
		set, err := readManifest(dir)
		if err != nil {
			// A directory without a readable manifest is an aborted
			// snapshot; skip it rather than failing the listing.
			continue
		}
		set.Dir = dir
		sets = append(sets, set)
	}

	sort.Slice(sets, func(i, j int) bool { return sets[i].Index < sets[j].Index })
	return sets, nil
}

func readManifest(dir string) (*Set, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return nil, err
	}
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing manifest in %s: %w", dir, err)
	}
	return &set, nil
}

// Get returns the set with the given index.
func (m *Manager) Get(index int) (*Set, error) {
	sets, err := m.List()
	if err != nil {
		return nil, err
	}
	for _, s := range sets {
		if s.Index == index {
			return s, nil
		}
	}
	return nil, fmt.Errorf("index %d: %w", index, ErrBackupNotFound)
}

// Restore copies every file of the given set back to its original path,
// overwriting current content. Other sets are untouched. All target
// directories are checked before the first byte is written, so a conflict
// never leaves a half-restored installation.
func (m *Manager) Restore(index int) error {
	set, err := m.Get(index)
	if err != nil {
		return err
	}

	for _, f := range set.Files {
		if _, err := os.Stat(f.Stored); err != nil {
			return fmt.Errorf("stored copy %s: %w", f.Stored, ErrRestoreConflict)
		}
		if info, err := os.Stat(filepath.Dir(f.Original)); err != nil || !info.IsDir() {
			return fmt.Errorf("original directory for %s is gone: %w", f.Original, ErrRestoreConflict)
		}
	}

	for _, f := range set.Files {
		if err := copyFile(f.Stored, f.Original); err != nil {
			return fmt.Errorf("restoring %s: %w", f.Original, err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// copyFile copies src to dst verbatim, preserving the source mode.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
