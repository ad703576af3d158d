package i18n

import "testing"

func TestT_PassthroughWithoutInit(t *testing.T) {
	locale = nil
	if got := T("Catalog saved: %s"); got != "Catalog saved: %s" {
		t.Fatalf("T() = %q, want passthrough", got)
	}
}

func TestT_KoreanLocale(t *testing.T) {
	Init("ko")
	got := T("No backups found")
	if got != "백업이 없습니다" {
		t.Fatalf("T() = %q, want Korean translation", got)
	}
}

func TestT_UnknownLocaleFallsBack(t *testing.T) {
	Init("tlh")
	if got := T("No backups found"); got != "No backups found" {
		t.Fatalf("T() = %q, want msgid passthrough", got)
	}
}

func TestN_WithoutInit(t *testing.T) {
	locale = nil
	if got := N("one file", "%d files", 1); got != "one file" {
		t.Fatalf("N(1) = %q", got)
	}
	if got := N("one file", "%d files", 3); got != "%d files" {
		t.Fatalf("N(3) = %q", got)
	}
}

func TestDetectLanguage(t *testing.T) {
	t.Setenv("LANGUAGE", "ko:en")
	if got := detectLanguage(); got != "ko" {
		t.Fatalf("detectLanguage() = %q, want ko", got)
	}

	t.Setenv("LANGUAGE", "")
	t.Setenv("LC_ALL", "ru_RU.UTF-8")
	if got := detectLanguage(); got != "ru_RU" {
		t.Fatalf("detectLanguage() = %q, want ru_RU", got)
	}

	t.Setenv("LC_ALL", "C")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "")
	if got := detectLanguage(); got != "en" {
		t.Fatalf("detectLanguage() = %q, want en default", got)
	}
}
