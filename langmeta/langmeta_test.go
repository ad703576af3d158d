package langmeta

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"KO", "ko"},
		{"ko_KR", "ko"},
		{"pt-BR", "pt"},
		{" ja ", "ja"},
		{"zh-Hant", "zh"},
	}
	for _, tc := range tests {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSupported(t *testing.T) {
	if !Supported("ko") || !Supported("PT-br") {
		t.Fatal("expected ko and PT-br to be supported")
	}
	if Supported("tlh") {
		t.Fatal("tlh should not be supported")
	}
}

func TestResolve_Fallback(t *testing.T) {
	if m := Resolve("ko"); m.Name != "한국어" || m.Flag == "" {
		t.Fatalf("Resolve(ko) = %#v", m)
	}
	if m := Resolve("tlh"); m.Name != "tlh" || m.Flag != "" {
		t.Fatalf("Resolve(tlh) = %#v, want code fallback", m)
	}
}

func TestCodes_SortedAndComplete(t *testing.T) {
	codes := Codes()
	if len(codes) != len(Registry) {
		t.Fatalf("Codes() has %d entries, want %d", len(codes), len(Registry))
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("Codes() not sorted: %v", codes)
		}
	}
}
