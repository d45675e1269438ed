package main

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// theme wrapper forcing a fixed variant regardless of the OS setting
type scopeTheme struct {
	variant fyne.ThemeVariant
}

func newScopeTheme(name string) *scopeTheme {
	v := theme.VariantDark
	if name == "light" {
		v = theme.VariantLight
	}
	return &scopeTheme{variant: v}
}

func (t *scopeTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, t.variant)
}
func (t *scopeTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}
func (t *scopeTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (t *scopeTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

// cursorColorByName maps the configurable cursor color names onto concrete
// colors; unknown names fall back to the A/B defaults.
func cursorColorByName(name string, fallback color.NRGBA) color.NRGBA {
	switch name {
	case "red":
		return color.NRGBA{R: 235, G: 80, B: 80, A: 255}
	case "cyan":
		return color.NRGBA{R: 80, G: 200, B: 235, A: 255}
	case "yellow":
		return color.NRGBA{R: 230, G: 220, B: 60, A: 255}
	case "magenta":
		return color.NRGBA{R: 225, G: 80, B: 225, A: 255}
	case "white":
		return color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	default:
		return fallback
	}
}
