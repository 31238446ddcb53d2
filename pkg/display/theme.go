package display

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme is the palette used to render the menu. Colors are ANSI 256 codes
// understood by lipgloss; an empty color leaves the terminal default.
//
// Names accepted by LoadTheme:
//
//	auto   dark, unless NO_COLOR is set or TERM is empty or dumb
//	dark   palette for dark terminals
//	light  palette for light terminals
//	none   no styling at all (borders are still drawn)
type Theme struct {
	Name    string
	Enabled bool

	Header    lipgloss.Color
	Accent    lipgloss.Color
	Selected  lipgloss.Color
	Dim       lipgloss.Color
	Separator lipgloss.Color
	Help      lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warn      lipgloss.Color
}

// LoadTheme returns the named theme. Unknown names resolve like "auto".
func LoadTheme(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "off", "disabled":
		return NoTheme()
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return AutoTheme()
	}
}

// NoTheme disables all styling.
func NoTheme() Theme {
	return Theme{Name: "none", Enabled: false}
}

// AutoTheme enables theming whenever the terminal likely supports color.
func AutoTheme() Theme {
	if !terminalSupportsColor() {
		return NoTheme()
	}
	return DarkTheme()
}

// DarkTheme provides a sane default palette for dark terminals.
func DarkTheme() Theme {
	return Theme{
		Name:      "dark",
		Enabled:   true,
		Header:    lipgloss.Color("183"), // mauve
		Accent:    lipgloss.Color("44"),  // teal
		Selected:  lipgloss.Color("216"), // peach
		Dim:       lipgloss.Color("245"),
		Separator: lipgloss.Color("240"),
		Help:      lipgloss.Color("44"),
		Error:     lipgloss.Color("203"),
		Success:   lipgloss.Color("114"),
		Warn:      lipgloss.Color("215"),
	}
}

// LightTheme provides a default palette for light terminals.
func LightTheme() Theme {
	return Theme{
		Name:      "light",
		Enabled:   true,
		Header:    lipgloss.Color("90"),
		Accent:    lipgloss.Color("25"), // blue
		Selected:  lipgloss.Color("16"),
		Dim:       lipgloss.Color("244"),
		Separator: lipgloss.Color("250"),
		Help:      lipgloss.Color("25"),
		Error:     lipgloss.Color("160"),
		Success:   lipgloss.Color("28"),
		Warn:      lipgloss.Color("130"),
	}
}

func terminalSupportsColor() bool {
	// Respect NO_COLOR https://no-color.org/
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	return term != "" && term != "dumb"
}
