package prefs

import "testing"

func TestLogoLifecycle(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, ok := s.LogoURL(); ok {
		t.Fatal("expected no override initially")
	}

	if err := s.SetLogoURL("https://example.com/logo.png"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	url, ok := s.LogoURL()
	if !ok || url != "https://example.com/logo.png" {
		t.Fatalf("unexpected value %q ok=%v", url, ok)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, ok := s.LogoURL(); ok {
		t.Fatal("expected override cleared")
	}
}

func TestClearIsIdempotent(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clearing an empty store must succeed: %v", err)
	}
}
