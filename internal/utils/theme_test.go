package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/baalimago/go_away_boilerplate/pkg/testboil"
)

func resetTheme(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		globalTheme = *darkTheme()
	})
}

func Test_SetThemeMode(t *testing.T) {
	testCases := []struct {
		desc     string
		startsAt string
		given    string
		want     string
	}{
		{
			desc:     "it should switch to light",
			startsAt: ModeDark,
			given:    ModeLight,
			want:     ModeLight,
		},
		{
			desc:     "it should switch to dark",
			startsAt: ModeLight,
			given:    ModeDark,
			want:     ModeDark,
		},
		{
			desc:     "it should toggle dark to light",
			startsAt: ModeDark,
			given:    "toggle",
			want:     ModeLight,
		},
		{
			desc:     "it should toggle light to dark",
			startsAt: ModeLight,
			given:    "toggle",
			want:     ModeDark,
		},
		{
			desc:     "it should apply unknown modes verbatim",
			startsAt: ModeDark,
			given:    "solarized",
			want:     "solarized",
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			resetTheme(t)
			SetThemeMode(tC.startsAt)
			got := SetThemeMode(tC.given)
			testboil.FailTestIfDiff(t, got, tC.want)
			testboil.FailTestIfDiff(t, ThemeMode(), tC.want)
		})
	}
}

func Test_SetThemeMode_unknownKeepsPalette(t *testing.T) {
	resetTheme(t)
	SetThemeMode(ModeDark)
	wantPrimary := ThemePrimaryColor()
	SetThemeMode("solarized")
	testboil.FailTestIfDiff(t, ThemePrimaryColor(), wantPrimary)
}

func Test_LoadAndSaveTheme(t *testing.T) {
	resetTheme(t)
	confDir := t.TempDir()

	if err := LoadTheme(confDir); err != nil {
		t.Fatalf("failed to load theme: %v", err)
	}
	testboil.FailTestIfDiff(t, ThemeMode(), ModeDark)
	if _, err := os.Stat(ThemeConfigPath(confDir)); err != nil {
		t.Fatalf("expected theme.json to be created: %v", err)
	}

	SetThemeMode(ModeLight)
	if err := SaveTheme(confDir); err != nil {
		t.Fatalf("failed to save theme: %v", err)
	}
	globalTheme = *darkTheme()
	if err := LoadTheme(confDir); err != nil {
		t.Fatalf("failed to reload theme: %v", err)
	}
	testboil.FailTestIfDiff(t, ThemeMode(), ModeLight)
}

func Test_Colorize(t *testing.T) {
	t.Run("it should wrap with color and reset", func(t *testing.T) {
		t.Setenv("NO_COLOR", "0")
		want := "\u001b[34mhello\u001b[0m"
		testboil.FailTestIfDiff(t, Colorize("\u001b[34m", "hello"), want)
	})
	t.Run("it should pass through on NO_COLOR", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		testboil.FailTestIfDiff(t, Colorize("\u001b[34m", "hello"), "hello")
	})
	t.Run("it should pass through on empty color", func(t *testing.T) {
		t.Setenv("NO_COLOR", "0")
		testboil.FailTestIfDiff(t, Colorize("", "hello"), "hello")
	})
}

func Test_RoleColor(t *testing.T) {
	resetTheme(t)
	SetThemeMode(ModeDark)
	testboil.FailTestIfDiff(t, RoleColor("user"), globalTheme.RoleUser)
	testboil.FailTestIfDiff(t, RoleColor("action"), globalTheme.RoleAction)
	testboil.FailTestIfDiff(t, RoleColor("assistant"), globalTheme.RoleAssistant)
	testboil.FailTestIfDiff(t, RoleColor("anything-else"), globalTheme.RoleAssistant)
}

func Test_ThemeConfigPath(t *testing.T) {
	got := ThemeConfigPath("/some/dir")
	want := filepath.Join("/some/dir", "theme.json")
	testboil.FailTestIfDiff(t, got, want)
}
