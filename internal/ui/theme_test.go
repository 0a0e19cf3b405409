package ui

import (
	"testing"

	"github.com/five82/drova-launcher/internal/prefs"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Slate", "Nightfox", "Kanagawa"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	tests := []struct{ current, want string }{
		{"Slate", "Nightfox"},
		{"Nightfox", "Kanagawa"},
		{"Kanagawa", "Slate"},
		{"Unknown", "Slate"},
	}
	for _, tt := range tests {
		if got := NextTheme(tt.current); got != tt.want {
			t.Fatalf("NextTheme(%s) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%s).Name = %q", name, got)
		}
	}
	if got := GetTheme("Unknown").Name; got != "Slate" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Slate (fallback)", got)
	}
}

func TestDefaultPrefsThemeExists(t *testing.T) {
	name := prefs.Defaults().Theme
	if _, ok := themes[name]; !ok {
		t.Fatalf("default prefs theme %q is not a known theme", name)
	}
}

func TestBadgeColorsDefined(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, kind := range []string{BadgeFree, BadgeAccount, BadgeDesktop} {
			if th.BadgeColors[kind] == "" {
				t.Fatalf("theme %s has no %s badge color", name, kind)
			}
		}
	}
}
