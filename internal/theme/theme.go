// Package theme holds the colour and typography settings used by the HTML and PDF renderers.
package theme

import "fmt"

// Theme is a set of colours (CSS hex strings) and font settings
type Theme struct {
	Name string

	PageBackground string
	AssistantLabel string
	UserLabel      string
	AssistantText  string
	UserText       string
	SystemText     string
	Title          string
	Rule           string
	Subtitle       string

	FontBody           string
	FontCode           string
	FontSizeBody       int // Points
	FontSizeMobileBody int // Points
	LineHeight         float64
}

// BodySize returns the body font size for the given layout
func (t Theme) BodySize(mobile bool) int {
	if mobile {
		return t.FontSizeMobileBody
	}
	return t.FontSizeBody
}

var Dark = Theme{
	Name:               "dark",
	PageBackground:     "#0d0d1a",
	AssistantLabel:     "#e94560",
	UserLabel:          "#f5a623",
	AssistantText:      "#e0e0e0",
	UserText:           "#f0f0f0",
	SystemText:         "#555566",
	Title:              "#f5a623",
	Rule:               "#e94560",
	Subtitle:           "#888888",
	FontBody:           "Helvetica",
	FontCode:           "Courier",
	FontSizeBody:       10,
	FontSizeMobileBody: 11,
	LineHeight:         1.5,
}

var Light = Theme{
	Name:               "light",
	PageBackground:     "#ffffff",
	AssistantLabel:     "#c0392b",
	UserLabel:          "#e67e22",
	AssistantText:      "#2c3e50",
	UserText:           "#1a252f",
	SystemText:         "#95a5a6",
	Title:              "#2c3e50",
	Rule:               "#c0392b",
	Subtitle:           "#7f8c8d",
	FontBody:           "Helvetica",
	FontCode:           "Courier",
	FontSizeBody:       10,
	FontSizeMobileBody: 11,
	LineHeight:         1.5,
}

// Names lists the selectable theme names
var Names = []string{"dark", "light"}

// Lookup returns the theme with the given name
func Lookup(name string) (Theme, error) {
	switch name {
	case "", "dark":
		return Dark, nil
	case "light":
		return Light, nil
	default:
		return Theme{}, fmt.Errorf("unknown theme '%s', expected one of %v", name, Names)
	}
}
