// Package finder locates the Cursor IDE installation and its translatable
// NLS resource bundles on the host machine.
//
// Detection runs an ordered chain of independent probes: WSL paths first
// (a Linux userland looking at the Windows filesystem through /mnt/c),
// then the native per-OS install location, then well-known fallbacks.
// The first probe that yields a directory containing at least one
// well-formed resource bundle wins.
package finder

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/adrg/xdg"

	"github.com/junyjeon/cursor-translator/nlsfile"
)

// ErrInstallationNotFound is returned when no probe locates a usable
// Cursor installation.
var ErrInstallationNotFound = errors.New("cursor installation not found")

// Installation describes a resolved Cursor install: its root directory
// and the NLS resource bundles holding translatable UI strings.
type Installation struct {
	Root          string
	ResourceFiles []string
}

// probe returns a candidate install root, or "" when it does not apply
// on this host. Probes never fail hard; an inapplicable probe is skipped.
type probe func() string

// Resolve locates the Cursor installation.
//
// If explicitPath is non-empty it is used verbatim and must contain the
// expected resource bundle shape. Otherwise the probe chain runs. With
// testMode set, a synthetic installation seeded with sample UI strings is
// generated under workDir, so the rest of the pipeline can run without a
// real install.
func Resolve(explicitPath string, testMode bool, workDir string) (*Installation, error) {
	if testMode {
		return generateTestInstall(workDir)
	}

	if explicitPath != "" {
		inst := installAt(explicitPath)
		if inst == nil {
			return nil, fmt.Errorf("no resource bundles under %s: %w", explicitPath, ErrInstallationNotFound)
		}
		return inst, nil
	}

	for _, p := range probes() {
		root := p()
		if root == "" {
			continue
		}
		if inst := installAt(root); inst != nil {
			return inst, nil
		}
	}

	return nil, ErrInstallationNotFound
}

// probes returns the detection chain for this host, highest priority first.
func probes() []probe {
	return []probe{
		probeWSLUserEnv,
		probeWSLWindowsUser,
		probeNative,
		probeOptCursor,
		probeXDGData,
	}
}

// ---------------------------------------------------------------------------
// Probe implementations
// ---------------------------------------------------------------------------

// isWSL reports whether this Linux userland runs under Windows.
func isWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), "microsoft")
}

// wslInstallPath maps a Windows username to the per-user install location
// as seen from the WSL side.
func wslInstallPath(username string) string {
	if username == "" {
		return ""
	}
	return filepath.Join("/mnt/c/Users", username, "AppData", "Local", "Programs", "cursor")
}

// probeWSLUserEnv assumes the WSL username matches the Windows one.
func probeWSLUserEnv() string {
	if !isWSL() {
		return ""
	}
	return wslInstallPath(os.Getenv("USER"))
}

// probeWSLWindowsUser asks Windows directly for the username; slower but
// correct when the WSL and Windows usernames differ.
func probeWSLWindowsUser() string {
	if !isWSL() {
		return ""
	}
	out, err := exec.Command("cmd.exe", "/c", "echo %USERNAME%").Output()
	if err != nil {
		return ""
	}
	return wslInstallPath(strings.TrimSpace(string(out)))
}

// probeNative checks the conventional per-OS install location.
func probeNative() string {
	switch runtime.GOOS {
	case "windows":
		appdata := os.Getenv("LOCALAPPDATA")
		if appdata == "" {
			return ""
		}
		return filepath.Join(appdata, "Programs", "cursor")
	case "darwin":
		return "/Applications/Cursor.app"
	case "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, ".local", "share", "cursor")
	}
	return ""
}

func probeOptCursor() string {
	if runtime.GOOS != "linux" {
		return ""
	}
	return "/opt/cursor"
}

func probeXDGData() string {
	return filepath.Join(xdg.DataHome, "cursor")
}

// ---------------------------------------------------------------------------
// Resource bundle discovery
// ---------------------------------------------------------------------------

// appDirs lists the application payload directories to search under an
// install root. macOS app bundles nest the payload under Contents/Resources.
var appDirs = []string{
	filepath.Join("resources", "app"),
	filepath.Join("Contents", "Resources", "app"),
}

// installAt validates root and collects its resource bundles.
// Returns nil when root holds no well-formed bundle.
func installAt(root string) *Installation {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil
	}

	var files []string
	for _, sub := range appDirs {
		dir := filepath.Join(root, sub)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		files = append(files, findBundles(dir)...)
	}

	if len(files) == 0 {
		return nil
	}
	sort.Strings(files)
	return &Installation{Root: root, ResourceFiles: files}
}

// findBundles walks dir collecting well-formed *.nls.json bundles.
// Malformed JSON files are skipped here; extraction reports them when an
// explicit path names them directly.
func findBundles(dir string) []string {
	var found []string
	filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if info.IsDir() {
			if info.Name() == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(info.Name(), ".nls.json") {
			return nil
		}
		if _, err := nlsfile.ParseFile(path); err != nil {
			return nil
		}
		found = append(found, path)
		return nil
	})
	return found
}

// ---------------------------------------------------------------------------
// Test mode
// ---------------------------------------------------------------------------

// sampleBundle holds the synthetic UI strings used in test mode. Keys under
// recognized namespaces carry translatable text; internal.* entries exist to
// prove non-extractable positions survive the pipeline untouched.
const sampleBundle = `{
  "menu.file": "File",
  "menu.edit": "Edit",
  "menu.selection": "Selection",
  "menu.view": "View",
  "menu.help": "Help",
  "command.openFile.title": "Open File",
  "command.save.title": "Save",
  "command.saveAs.title": "Save As...",
  "command.close.title": "Close",
  "command.find.title": "Find",
  "command.replace.title": "Replace",
  "command.gotoLine.title": "Go to Line",
  "command.formatDocument.title": "Format Document",
  "command.toggleTerminal.title": "Toggle Terminal",
  "command.commandPalette.title": "Command Palette",
  "view.explorer.name": "Explorer",
  "view.search.name": "Search",
  "view.sourceControl.name": "Source Control",
  "view.extensions.name": "Extensions",
  "settings.privacyMode.description": "If on, none of your code will be stored by us.",
  "settings.autoRun.label": "Enable auto-run mode",
  "settings.autoScroll.label": "Auto-scroll to bottom",
  "internal.id": "x1",
  "internal.buildHash": "f3a91c",
  "internal.updateUrl": "https://download.example.com/cursor"
}`

// generateTestInstall writes a synthetic install layout under workDir and
// resolves it like a real one.
func generateTestInstall(workDir string) (*Installation, error) {
	root := filepath.Join(workDir, "test-install")
	appDir := filepath.Join(root, "resources", "app")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return nil, fmt.Errorf("creating test install: %w", err)
	}

	bundle := filepath.Join(appDir, "package.nls.json")
	if err := os.WriteFile(bundle, []byte(sampleBundle+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("writing sample bundle: %w", err)
	}

	inst := installAt(root)
	if inst == nil {
		return nil, fmt.Errorf("test install at %s did not validate: %w", root, ErrInstallationNotFound)
	}
	return inst, nil
}
