package main

import (
	"os"
	"strings"

	"fyne.io/fyne/v2/widget"
)

// recent files helpers
func recentFiles(state *viewerState) []string {
	prefs := state.app.Preferences()
	raw := prefs.StringWithFallback("recentFiles", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func addRecentFile(state *viewerState, path string) {
	prefs := state.app.Preferences()
	list := recentFiles(state)
	filtered := []string{path}
	for _, f := range list {
		if f != path && len(filtered) < 10 {
			filtered = append(filtered, f)
		}
	}
	prefs.SetString("recentFiles", strings.Join(filtered, "\n"))
}

func clearRecentFiles(state *viewerState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentFiles", "")
}

// prefs
func savePrefs(state *viewerState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastFile", state.filePath)
	prefs.SetBool("cursorsEnabled", state.cursorsEnabled)
	prefs.SetBool("showStats", state.showStats)
	prefs.SetString("theme", state.themeName)
}

func loadPrefs(state *viewerState, cursorChk, statsChk *widget.Check, fileLabel *widget.Label) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	if f := prefs.StringWithFallback("lastFile", state.filePath); f != "" {
		state.filePath = f
		if fileLabel != nil {
			fileLabel.SetText(truncatePath(state.filePath, 60))
		}
	}
	state.cursorsEnabled = prefs.BoolWithFallback("cursorsEnabled", state.cursorsEnabled)
	state.showStats = prefs.BoolWithFallback("showStats", state.showStats)
	state.themeName = prefs.StringWithFallback("theme", state.themeName)
	if cursorChk != nil {
		cursorChk.SetChecked(state.cursorsEnabled)
	}
	if statsChk != nil {
		statsChk.SetChecked(state.showStats)
	}
}
