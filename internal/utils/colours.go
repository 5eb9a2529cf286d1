package utils

// ColourScheme holds the Catppuccin Mocha colours the views draw with
type ColourScheme struct {
	Red      string
	Yellow   string
	Green    string
	Sky      string
	Blue     string
	Text     string
	Subtext0 string
	Surface0 string
}

var Colours = ColourScheme{
	Red:      "#f38ba8",
	Yellow:   "#f9e2af",
	Green:    "#a6e3a1",
	Sky:      "#89dceb",
	Blue:     "#89b4fa",
	Text:     "#cdd6f4",
	Subtext0: "#a6adc8",
	Surface0: "#313244",
}
