package i18n

import (
	"strings"
	"testing"
)

func TestLoad_HasBothLanguages(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	langs := c.Languages()
	found := map[string]bool{}
	for _, l := range langs {
		found[l] = true
	}
	if !found["pt"] || !found["en"] {
		t.Fatalf("expected pt and en, got %v", langs)
	}
}

func TestT_PlaceholderSubstitution(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	msg := c.T("pt", "not_found", "id", "CCBJJ-1", "mode", "LOCAL")
	if !strings.Contains(msg, "CCBJJ-1") || !strings.Contains(msg, "LOCAL") {
		t.Fatalf("placeholders not substituted: %q", msg)
	}
}

func TestT_UnknownLanguageFallsBack(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	got := c.T("fr", "processing")
	want := c.T(FallbackLanguage, "processing")
	if got != want {
		t.Fatalf("expected fallback text %q, got %q", want, got)
	}
}

func TestT_MissingKey(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// last resort: the key itself, never an error or an English marker
	if got := c.T("pt", "does_not_exist"); got != "does_not_exist" {
		t.Fatalf("expected key as fallback, got %q", got)
	}
}
