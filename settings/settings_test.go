package settings

import (
	"os"
	"testing"
)

// adrg/xdg resolves ConfigHome at init, so these tests exercise the
// lookup order through the flag and env levels rather than the store.
func TestResolveAPIKey_Order(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	if got := ResolveAPIKey("flag-key"); got != "flag-key" {
		t.Fatalf("flag should win, got %q", got)
	}

	t.Setenv(EnvAPIKey, "env-key")
	if got := ResolveAPIKey(""); got != "env-key" {
		t.Fatalf("env should win over store, got %q", got)
	}
	if got := ResolveAPIKey("flag-key"); got != "flag-key" {
		t.Fatalf("flag should win over env, got %q", got)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "****"},
		{"short", "****"},
		{"abcd1234efgh5678", "abcd...5678"},
	}
	for _, tc := range tests {
		if got := MaskKey(tc.in); got != tc.want {
			t.Fatalf("MaskKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStoredAPIKey_MissingFile(t *testing.T) {
	// With no auth file the store contributes nothing.
	if _, err := os.Stat(FilePath()); err == nil {
		t.Skip("auth file exists on this host; skipping missing-file check")
	}
	if got := StoredAPIKey(); got != "" {
		t.Fatalf("StoredAPIKey() = %q, want empty", got)
	}
}
