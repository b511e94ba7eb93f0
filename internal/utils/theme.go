package utils

import (
	"fmt"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

// Theme holds ANSI color configuration for terminal output plus the active
// mode. Color values are raw ANSI escape sequences.
//
// This file is loaded from <lui-config-dir>/theme.json on startup. If
// NO_COLOR is set truthy, all colorization is disabled.
type Theme struct {
	Mode string `json:"mode"`

	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Breadtext string `json:"breadtext"`

	RoleAssistant string `json:"roleAssistant"`
	RoleUser      string `json:"roleUser"`
	RoleAction    string `json:"roleAction"`
}

const (
	ModeDark   = "dark"
	ModeLight  = "light"
	modeToggle = "toggle"
)

func darkTheme() *Theme {
	// Muted gray-blue palette for dark terminals.
	return &Theme{
		Mode:      ModeDark,
		Primary:   "\u001b[38;2;110;130;150m",
		Secondary: "\u001b[38;2;140;165;190m",
		Breadtext: "\u001b[38;2;200;210;220m",

		RoleAssistant: "\u001b[34m",
		RoleUser:      "\u001b[36m",
		RoleAction:    "\u001b[35m",
	}
}

func lightTheme() *Theme {
	return &Theme{
		Mode:      ModeLight,
		Primary:   "\u001b[38;2;60;80;110m",
		Secondary: "\u001b[38;2;40;60;90m",
		Breadtext: "\u001b[38;2;30;30;40m",

		RoleAssistant: "\u001b[94m",
		RoleUser:      "\u001b[96m",
		RoleAction:    "\u001b[95m",
	}
}

var globalTheme = *darkTheme()

// LoadTheme loads (and possibly creates) the theme.json file within the
// config dir. Safe to call multiple times.
func LoadTheme(configDirPath string) error {
	conf, err := LoadConfigFromFile(configDirPath, "theme.json", darkTheme())
	if err != nil {
		return fmt.Errorf("failed to load theme config: %w", err)
	}
	globalTheme = conf
	return nil
}

// SetThemeMode switches the active palette. value is 'light', 'dark' or
// 'toggle'; anything else is applied verbatim as a mode with the current
// palette untouched, the model is trusted to stay within its enum. Returns
// the resulting mode.
func SetThemeMode(value string) string {
	mode := value
	if value == modeToggle {
		if globalTheme.Mode == ModeDark {
			mode = ModeLight
		} else {
			mode = ModeDark
		}
	}
	switch mode {
	case ModeLight:
		globalTheme = *lightTheme()
	case ModeDark:
		globalTheme = *darkTheme()
	default:
		globalTheme.Mode = mode
	}
	return globalTheme.Mode
}

// SaveTheme persists the active theme to theme.json in the config dir.
func SaveTheme(configDirPath string) error {
	return CreateFile(ThemeConfigPath(configDirPath), &globalTheme)
}

// ThemeConfigPath returns the fully qualified theme.json path.
func ThemeConfigPath(configDirPath string) string {
	return configDirPath + "/theme.json"
}

// ThemeMode returns the active mode.
func ThemeMode() string {
	return globalTheme.Mode
}

// NoColor reports whether color output should be disabled.
func NoColor() bool {
	return misc.Truthy(os.Getenv("NO_COLOR"))
}

const ansiReset = "\u001b[0m"

// Colorize wraps s with the given ANSI color code unless NO_COLOR is set or
// color is empty.
func Colorize(color, s string) string {
	if NoColor() || color == "" {
		return s
	}
	return color + s + ansiReset
}

// RoleColor returns the theme color for a chat role.
func RoleColor(role string) string {
	switch role {
	case "user":
		return globalTheme.RoleUser
	case "action":
		return globalTheme.RoleAction
	default:
		return globalTheme.RoleAssistant
	}
}

func ThemePrimaryColor() string   { return globalTheme.Primary }
func ThemeSecondaryColor() string { return globalTheme.Secondary }
func ThemeBreadtextColor() string { return globalTheme.Breadtext }
