package theme

// thRegisterBuiltins registers all built-in themes in the registry.
func thRegisterBuiltins() {
	for _, t := range []Theme{
		thDefaultTheme(),
		thGruvboxTheme(),
		thNordTheme(),
		thCatppuccinTheme(),
		thDraculaTheme(),
		thTokyoNightTheme(),
	} {
		Register(t)
	}
}

// thDefaultTheme returns the dark neutral theme with purple accent.
func thDefaultTheme() Theme {
	return Theme{
		Name:       "default",
		Background: "#1e1e1e",
		Foreground: "#d4d4d4",
		Dim:        "#6b6b6b",
		Accent:     "#7C3AED",
		OK:         "#4ec970",
		Warn:       "#e5c07b",
		Critical:   "#e06c75",
		GaugeEmpty: "#3e3e3e",
		Confirm:    "#5c1f24",
	}
}

func thGruvboxTheme() Theme {
	return Theme{
		Name:       "gruvbox",
		Background: "#282828",
		Foreground: "#ebdbb2",
		Dim:        "#928374",
		Accent:     "#fe8019",
		OK:         "#b8bb26",
		Warn:       "#fabd2f",
		Critical:   "#fb4934",
		GaugeEmpty: "#504945",
		Confirm:    "#9d0006",
	}
}

func thNordTheme() Theme {
	return Theme{
		Name:       "nord",
		Background: "#2e3440",
		Foreground: "#eceff4",
		Dim:        "#4c566a",
		Accent:     "#88c0d0",
		OK:         "#a3be8c",
		Warn:       "#ebcb8b",
		Critical:   "#bf616a",
		GaugeEmpty: "#3b4252",
		Confirm:    "#6e3a40",
	}
}

func thCatppuccinTheme() Theme {
	return Theme{
		Name:       "catppuccin",
		Background: "#1e1e2e",
		Foreground: "#cdd6f4",
		Dim:        "#6c7086",
		Accent:     "#cba6f7",
		OK:         "#a6e3a1",
		Warn:       "#f9e2af",
		Critical:   "#f38ba8",
		GaugeEmpty: "#313244",
		Confirm:    "#5a3145",
	}
}

func thDraculaTheme() Theme {
	return Theme{
		Name:       "dracula",
		Background: "#282a36",
		Foreground: "#f8f8f2",
		Dim:        "#6272a4",
		Accent:     "#bd93f9",
		OK:         "#50fa7b",
		Warn:       "#f1fa8c",
		Critical:   "#ff5555",
		GaugeEmpty: "#44475a",
		Confirm:    "#6b2430",
	}
}

func thTokyoNightTheme() Theme {
	return Theme{
		Name:       "tokyo-night",
		Background: "#1a1b26",
		Foreground: "#c0caf5",
		Dim:        "#565f89",
		Accent:     "#7aa2f7",
		OK:         "#9ece6a",
		Warn:       "#e0af68",
		Critical:   "#f7768e",
		GaugeEmpty: "#292e42",
		Confirm:    "#5b2a3a",
	}
}
