// cursor-translator — localizes the Cursor IDE UI by extracting its NLS
// strings, translating them (DeepL, translation memory, or the bundled
// dictionary) and patching the resource bundles with automatic backups.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/junyjeon/cursor-translator/backup"
	"github.com/junyjeon/cursor-translator/catalog"
	"github.com/junyjeon/cursor-translator/deepl"
	"github.com/junyjeon/cursor-translator/finder"
	"github.com/junyjeon/cursor-translator/i18n"
	"github.com/junyjeon/cursor-translator/langmeta"
	"github.com/junyjeon/cursor-translator/patch"
	"github.com/junyjeon/cursor-translator/settings"
	"github.com/junyjeon/cursor-translator/translator"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	workDir    string
	cursorPath string
	testMode   bool
)

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cursor-translator",
		Short: "Translate the Cursor IDE UI into your language",
		Long: `cursor-translator — localize the Cursor IDE UI.

Locates the Cursor installation (Windows, macOS, Linux, WSL), extracts
the UI strings from its NLS resource bundles into an editable catalog,
translates them via DeepL with translation-memory and bundled-dictionary
fallbacks, and patches the bundles in place — always taking a backup
first so every change can be undone.

Commands:
  status      Show installation, catalog and backup state
  extract     Extract UI strings into the catalog
  translate   Build translation files for target languages
  apply       Back up and patch the resource bundles
  backups     List backup sets
  restore     Restore a backup set by index
  auth        Manage the DeepL API key

Supported languages: ` + strings.Join(langmeta.Codes(), ", "),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&workDir, "work-dir", ".", "Directory for catalog, translation and backup files")
	root.PersistentFlags().StringVar(&cursorPath, "cursor-path", "", "Cursor install directory (skips auto-detection)")
	root.PersistentFlags().BoolVar(&testMode, "test-mode", false, "Use a generated sample installation instead of a real one")

	root.AddCommand(
		newStatusCmd(),
		newExtractCmd(),
		newTranslateCmd(),
		newApplyCmd(),
		newBackupsCmd(),
		newRestoreCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init("")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("cursor-translator version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// status (read-only)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show installation, catalog and backup state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	inst, err := finder.Resolve(cursorPath, testMode, workDir)
	if err != nil {
		logWarning("%v", err)
	} else {
		logInfo(i18n.T("Cursor installation found: %s"), inst.Root)
		logInfo("resource bundles: %d", len(inst.ResourceFiles))
	}

	catPath := catalogPath()
	if fileExists(catPath) {
		cat, err := catalog.Load(catPath)
		if err != nil {
			return err
		}
		logInfo("catalog: %d entries (%s)", len(cat.Entries), catPath)
	} else {
		logInfo("catalog: none — run 'cursor-translator extract'")
	}

	for _, lang := range langmeta.Codes() {
		path := translator.MemoryPath(workDir, lang)
		if !fileExists(path) {
			continue
		}
		mem, err := translator.LoadMemory(workDir, lang)
		if err != nil {
			logWarning("translation file %s: %v", path, err)
			continue
		}
		translated := 0
		for _, e := range mem {
			if e.TranslatedText != "" {
				translated++
			}
		}
		meta := langmeta.Resolve(lang)
		logInfo("%s %s: %d/%d translated", meta.Flag, lang, translated, len(mem))
	}

	sets, err := backup.NewManager(workDir).List()
	if err != nil {
		return err
	}
	logInfo("backups: %d", len(sets))
	return nil
}

// ---------------------------------------------------------------------------
// extract
// ---------------------------------------------------------------------------

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Extract UI strings into the catalog",
		Long: `Extract translatable UI strings from the Cursor resource bundles
into ` + catalog.DefaultFileName + `. Extraction is read-only and repeatable;
the catalog is a regenerable cache, safe to delete.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runExtract()
			return err
		},
	}
}

func runExtract() (*catalog.Catalog, error) {
	inst, err := finder.Resolve(cursorPath, testMode, workDir)
	if err != nil {
		return nil, err
	}
	logInfo(i18n.T("Cursor installation found: %s"), inst.Root)

	cat, err := catalog.Extract(inst.Root, inst.ResourceFiles)
	if err != nil {
		return nil, err
	}
	if len(cat.Entries) == 0 {
		logWarning("no translatable strings found")
	}

	path := catalogPath()
	if err := cat.Save(path); err != nil {
		return nil, err
	}
	logSuccess(i18n.T("Extracted %d strings from %d resource files"), len(cat.Entries), len(inst.ResourceFiles))
	logSuccess(i18n.T("Catalog saved: %s"), path)
	return cat, nil
}

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

func newTranslateCmd() *cobra.Command {
	var langs string
	var apiKey string

	cmd := &cobra.Command{
		Use:   "translate",
		Short: "Build translation files for target languages",
		Long: `Translate the extracted catalog. Per string, resolution order is:
existing translation memory (your edits win), the DeepL API when a key
is configured, the bundled dictionary, and finally untranslated.

Extracts the catalog first when none exists yet.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd.Context(), langs, apiKey)
		},
	}

	cmd.Flags().StringVar(&langs, "lang", "ko", "Target language codes, comma-separated (e.g. ko,ja)")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "DeepL API key (falls back to "+settings.EnvAPIKey+" or the auth store)")
	return cmd
}

func runTranslate(ctx context.Context, langs, apiKeyFlag string) error {
	cat, err := loadOrExtractCatalog()
	if err != nil {
		return err
	}

	var provider translator.Provider
	if key := settings.ResolveAPIKey(apiKeyFlag); key != "" {
		provider = deepl.New(key)
	} else {
		logWarning(i18n.T("No API key configured; using translation memory and bundled dictionary only"))
	}

	targets, err := parseLangs(langs)
	if err != nil {
		return err
	}

	for _, lang := range targets {
		meta := langmeta.Resolve(lang)
		logInfo("translating to %s (%s)...", meta.Name, lang)

		entries, err := translator.Map(ctx, cat, lang, translator.Options{
			Provider: provider,
			WorkDir:  workDir,
			OnLog:    logInfo,
		})
		if err != nil {
			return err
		}

		stats := translator.Stats(entries)
		logInfo("  memory: %d, api: %d, fallback: %d, untranslated: %d",
			stats[translator.SourceMemory], stats[translator.SourceAPI],
			stats[translator.SourceFallback], stats[translator.SourceUntranslated])
		logSuccess(i18n.T("Translation file saved: %s"), translator.MemoryPath(workDir, lang))
	}
	return nil
}

// ---------------------------------------------------------------------------
// apply
// ---------------------------------------------------------------------------

func newApplyCmd() *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Back up and patch the resource bundles",
		Long: `Apply a language's translation file to the Cursor resource bundles.

A backup set of every affected file is always taken first; if the backup
fails, nothing is patched. Untranslated entries are left untouched.
Re-running is safe: already-translated positions are recognized and
reported instead of translated twice.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(lang)
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "ko", "Target language code")
	return cmd
}

func runApply(lang string) error {
	lang = langmeta.Normalize(lang)
	if !langmeta.Supported(lang) {
		return fmt.Errorf("unsupported language %q (supported: %s)", lang, strings.Join(langmeta.Codes(), ", "))
	}

	cat, err := loadOrExtractCatalog()
	if err != nil {
		return err
	}
	if len(cat.Entries) == 0 {
		return fmt.Errorf("catalog is empty; nothing to apply")
	}

	memPath := translator.MemoryPath(workDir, lang)
	if !fileExists(memPath) {
		return fmt.Errorf("no translation file for %s; run 'cursor-translator translate --lang %s' first", lang, lang)
	}
	memory, err := translator.LoadMemory(workDir, lang)
	if err != nil {
		return err
	}

	// Snapshot every file the patch will touch. No backup, no patch.
	var files []string
	seen := make(map[string]bool)
	for _, e := range cat.Entries {
		if !seen[e.SourceFile] {
			seen[e.SourceFile] = true
			files = append(files, e.SourceFile)
		}
	}
	set, err := backup.NewManager(workDir).Snapshot(files)
	if err != nil {
		return fmt.Errorf("backup failed, aborting before any change: %w", err)
	}
	logSuccess(i18n.T("Backup created: #%d (%s)"), set.Index, set.Dir)

	report, err := patch.Apply(cat, memory)
	if err != nil {
		return err
	}

	logSuccess(i18n.T("Patched %d strings in %d files (%d already applied, %d skipped)"),
		report.EntriesApplied, report.FilesChanged, report.AlreadyApplied, report.EntriesSkipped)

	if report.PartialFailure() {
		for file, ferr := range report.Failures {
			logError("%s: %v", file, ferr)
		}
		return fmt.Errorf("%d file(s) could not be patched; restore with 'cursor-translator restore %d' if needed",
			len(report.Failures), set.Index)
	}
	return nil
}

// ---------------------------------------------------------------------------
// backups / restore
// ---------------------------------------------------------------------------

func newBackupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List backup sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, err := backup.NewManager(workDir).List()
			if err != nil {
				return err
			}
			if len(sets) == 0 {
				logInfo(i18n.T("No backups found"))
				return nil
			}
			for _, s := range sets {
				fmt.Printf("#%-3d %s  %d file(s)  %s\n",
					s.Index, s.CreatedAt.Format("2006-01-02 15:04:05"), len(s.Files), s.Dir)
			}
			return nil
		},
	}
}

func newRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <index>",
		Short: "Restore a backup set by index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid backup index %q", args[0])
			}
			if err := backup.NewManager(workDir).Restore(index); err != nil {
				return err
			}
			logSuccess(i18n.T("Restored backup #%d"), index)
			return nil
		},
	}
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the DeepL API key",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set-key <key>",
			Short: "Store the DeepL API key",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := settings.SetAPIKey(args[0]); err != nil {
					return err
				}
				logSuccess("API key stored in %s", settings.FilePath())
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the stored API key (masked)",
			Run: func(cmd *cobra.Command, args []string) {
				if key := settings.StoredAPIKey(); key != "" {
					logInfo("DeepL key: %s (%s)", settings.MaskKey(key), settings.FilePath())
				} else {
					logInfo("no API key stored; set one with 'cursor-translator auth set-key'")
				}
			},
		},
		&cobra.Command{
			Use:   "remove",
			Short: "Delete the stored API key",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := settings.Remove(); err != nil {
					return err
				}
				logSuccess("credentials removed")
				return nil
			},
		},
	)
	return cmd
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func catalogPath() string {
	return filepath.Join(workDir, catalog.DefaultFileName)
}

// loadOrExtractCatalog loads the persisted catalog, extracting it first
// when missing (the catalog is a regenerable cache).
func loadOrExtractCatalog() (*catalog.Catalog, error) {
	path := catalogPath()
	if fileExists(path) {
		return catalog.Load(path)
	}
	logInfo("no catalog yet; extracting first")
	cat, err := runExtract()
	if err != nil {
		if errors.Is(err, finder.ErrInstallationNotFound) {
			return nil, fmt.Errorf("%w (use --cursor-path, or --test-mode to try without an install)", err)
		}
		return nil, err
	}
	return cat, nil
}

// parseLangs validates a comma-separated language list.
func parseLangs(s string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(s, ",") {
		lang := langmeta.Normalize(part)
		if lang == "" {
			continue
		}
		if !langmeta.Supported(lang) {
			return nil, fmt.Errorf("unsupported language %q (supported: %s)", part, strings.Join(langmeta.Codes(), ", "))
		}
		out = append(out, lang)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no target languages given")
	}
	return out, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
