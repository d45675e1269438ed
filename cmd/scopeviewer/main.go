package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/IMMZEK/oscilloscope-lab-viewer/src/config"
	"github.com/IMMZEK/oscilloscope-lab-viewer/src/cursor"
	"github.com/IMMZEK/oscilloscope-lab-viewer/src/interaction"
	"github.com/IMMZEK/oscilloscope-lab-viewer/src/render"
	"github.com/IMMZEK/oscilloscope-lab-viewer/src/scopelog"
	"github.com/IMMZEK/oscilloscope-lab-viewer/src/waveform"
)

type viewerState struct {
	app    fyne.App
	window fyne.Window

	filePath       string
	themeName      string
	cursorsEnabled bool
	showStats      bool

	cfg      *config.Config
	store    *waveform.Store
	engine   *cursor.Engine
	renderer *render.Renderer
	ctrl     *interaction.Controller

	plotCanvas   *canvas.Image
	overlay      *cursorOverlay
	channelBox   *fyne.Container
	cursorChk    *widget.Check
	fileLabel    *widget.Label
	readoutLabel *widget.Label
	statsLabel   *widget.Label
	metaLabel    *widget.Label

	// bumped on every load request; stale completions compare and bail
	loadGen uint64
}

func main() {
	// CLI flag for opening a file directly
	var fileFlag string
	flag.StringVar(&fileFlag, "file", "", "Path to a waveform CSV capture")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	a := app.NewWithID("com.immzek.scopeviewer")
	state := &viewerState{
		app:            a,
		cfg:            cfg,
		filePath:       fileFlag,
		themeName:      cfg.Plot.Theme,
		cursorsEnabled: true,
		showStats:      cfg.Plot.ShowStats,
		store:          waveform.NewStore(),
		engine:         cursor.NewEngine(),
	}
	// Load display prefs before creating the overlay/controls so they reflect it
	state.cursorsEnabled = a.Preferences().BoolWithFallback("cursorsEnabled", state.cursorsEnabled)
	state.showStats = a.Preferences().BoolWithFallback("showStats", state.showStats)
	state.themeName = a.Preferences().StringWithFallback("theme", state.themeName)

	a.Settings().SetTheme(newScopeTheme(state.themeName))
	w := a.NewWindow("Oscilloscope Lab Viewer")
	w.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))
	state.window = w

	rcfg := render.DefaultConfig()
	rcfg.Dark = state.themeName != "light"
	rcfg.ShowStats = state.showStats
	rcfg.CursorAColor = cursorColorByName(cfg.Plot.CursorAColor, rcfg.CursorAColor)
	rcfg.CursorBColor = cursorColorByName(cfg.Plot.CursorBColor, rcfg.CursorBColor)
	state.renderer = render.New(rcfg)
	state.ctrl = interaction.New(state.store, state.engine, state.renderer,
		float32(cfg.Plot.HitTolerancePx), func() { redrawPlot(state) })

	// top bar controls
	fileLabel := widget.NewLabel(truncatePath(state.filePath, 60))
	state.fileLabel = fileLabel
	openBtn := widget.NewButton("Open…", func() { openFileDialog(state) })
	reloadBtn := widget.NewButton("Reload", func() { loadCapture(state) })
	// checkboxes created without callbacks; wired after the canvases exist
	cursorChk := widget.NewCheck("Cursors", nil)
	cursorChk.SetChecked(state.cursorsEnabled)
	state.cursorChk = cursorChk
	statsChk := widget.NewCheck("Auto measure", nil)
	statsChk.SetChecked(state.showStats)
	themeSelect := widget.NewSelect([]string{"dark", "light"}, nil)
	themeSelect.Selected = state.themeName
	state.channelBox = container.NewHBox()

	// plot area: rendered chart with the cursor overlay stacked on top
	initial := state.renderer.BuildScene(state.store, state.engine)
	plotCanvas := canvas.NewImageFromImage(initial.Chart)
	plotCanvas.FillMode = canvas.ImageFillContain
	plotCanvas.SetMinSize(fyne.NewSize(640, 360))
	state.plotCanvas = plotCanvas
	state.overlay = newCursorOverlay(state)
	state.overlay.SetScene(initial)
	plotStack := container.NewStack(plotCanvas, state.overlay)

	// side panel: cursor readout, per-channel auto measurements, file metadata
	state.readoutLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	state.statsLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	state.metaLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Monospace: true})
	side := container.NewVBox(
		widget.NewLabelWithStyle("Cursors", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		state.readoutLabel,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Measurements", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		state.statsLabel,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Capture info", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		state.metaLabel,
	)
	sideScroll := container.NewVScroll(side)
	sideScroll.SetMinSize(fyne.NewSize(230, 200))

	top := container.NewHBox(openBtn, reloadBtn, widget.NewSeparator(),
		cursorChk, statsChk, widget.NewLabel("Theme:"), themeSelect,
		widget.NewSeparator(), state.channelBox, fileLabel)
	content := container.NewBorder(top, nil, nil, sideScroll, plotStack)
	w.SetContent(content)

	// Re-render on window resize so the chart tracks the available area
	if w.Canvas() != nil {
		prevW, prevH := chartSize(state)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					curW, curH := chartSize(state)
					if curW != prevW || curH != prevH {
						prevW, prevH = curW, curH
						fyne.Do(func() {
							state.renderer.SetSize(curW, curH)
							redrawPlot(state)
						})
					}
				}
			}
		}()
	}

	// Now that canvases are ready, assign checkbox callbacks
	cursorChk.OnChanged = func(b bool) {
		state.cursorsEnabled = b
		state.overlay.enabled = b
		if b {
			state.ctrl.ActivateCursor(cursor.A)
			state.ctrl.ActivateCursor(cursor.B)
		} else {
			state.ctrl.HideCursors()
		}
		savePrefs(state)
	}
	statsChk.OnChanged = func(b bool) {
		state.showStats = b
		state.renderer.SetShowStats(b)
		savePrefs(state)
		redrawPlot(state)
	}
	themeSelect.OnChanged = func(sel string) {
		state.themeName = sel
		state.app.Settings().SetTheme(newScopeTheme(sel))
		state.renderer.SetDark(sel != "light")
		savePrefs(state)
		redrawPlot(state)
	}

	loadPrefs(state, cursorChk, statsChk, fileLabel)
	if fileFlag != "" {
		// explicit flag beats the remembered last file
		state.filePath = fileFlag
		fileLabel.SetText(truncatePath(state.filePath, 60))
	}
	buildMenus(state)

	if state.filePath != "" {
		loadCapture(state)
	} else {
		redrawPlot(state)
	}

	w.ShowAndRun()
}

// chartSize derives the render size in pixels from the plot area, with a
// floor so early ticks before layout settle don't render postage stamps.
func chartSize(state *viewerState) (int, int) {
	w, h := 1000, 480
	if state.plotCanvas != nil {
		sz := state.plotCanvas.Size()
		if int(sz.Width) > 0 {
			w = int(sz.Width)
		}
		if int(sz.Height) > 0 {
			h = int(sz.Height)
		}
	}
	if w < 480 {
		w = 480
	}
	if h < 300 {
		h = 300
	}
	return w, h
}

// redrawPlot rebuilds the scene from the current store/engine state and
// pushes it into the canvas, overlay and side panel. UI thread only.
func redrawPlot(state *viewerState) {
	sc := state.renderer.BuildScene(state.store, state.engine)
	state.plotCanvas.Image = sc.Chart
	state.plotCanvas.Refresh()
	state.overlay.enabled = state.cursorsEnabled
	state.overlay.SetScene(sc)
	state.overlay.Refresh()
	state.readoutLabel.SetText(strings.Join(sc.Readout, "\n"))
	updateSidePanel(state)
	state.engine.ClearDirty()
}

// updateSidePanel refreshes the per-channel auto measurements and the capture
// metadata text.
func updateSidePanel(state *viewerState) {
	tb := state.store.Timebase()
	var stats []string
	for _, ch := range state.store.Channels() {
		if !ch.Visible {
			continue
		}
		st := waveform.Stats(tb, ch.Values)
		stats = append(stats,
			ch.ID,
			fmt.Sprintf("  Vpp  %s", render.FormatVolts(st.VPP)),
			fmt.Sprintf("  Vmax %s", render.FormatVolts(st.VMax)),
			fmt.Sprintf("  Vmin %s", render.FormatVolts(st.VMin)),
			fmt.Sprintf("  mean %s", render.FormatVolts(st.Mean)),
		)
		if st.Freq > 0 {
			stats = append(stats,
				fmt.Sprintf("  freq %s", render.FormatHertz(st.Freq)),
				fmt.Sprintf("  per  %s", render.FormatSeconds(st.Period)),
			)
		}
		if st.Rise > 0 {
			stats = append(stats, fmt.Sprintf("  rise %s", render.FormatSeconds(st.Rise)))
		}
		if st.Fall > 0 {
			stats = append(stats, fmt.Sprintf("  fall %s", render.FormatSeconds(st.Fall)))
		}
		if st.Duty > 0 {
			stats = append(stats, fmt.Sprintf("  duty %.1f %%", st.Duty))
		}
	}
	state.statsLabel.SetText(strings.Join(stats, "\n"))

	meta := state.store.Meta()
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var lines []string
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, meta[k]))
	}
	state.metaLabel.SetText(strings.Join(lines, "\n"))
}

// rebuildChannelChecks recreates one visibility checkbox per loaded channel.
func rebuildChannelChecks(state *viewerState) {
	state.channelBox.Objects = nil
	for _, ch := range state.store.Channels() {
		id := ch.ID
		chk := widget.NewCheck(id, func(b bool) { state.ctrl.ToggleChannel(id, b) })
		chk.SetChecked(ch.Visible)
		state.channelBox.Add(chk)
	}
	state.channelBox.Refresh()
}

// loadCapture parses the current file off the UI thread and applies the
// result via fyne.Do. A newer load supersedes any still-running one; the
// store is only replaced on success, so a bad file keeps the old capture.
func loadCapture(state *viewerState) {
	if state.filePath == "" {
		return
	}
	gen := atomic.AddUint64(&state.loadGen, 1)
	path := state.filePath
	go func() {
		defer scopelog.TimeTrack(time.Now(), "loadCapture")
		var capt *waveform.Capture
		f, err := os.Open(path)
		if err == nil {
			capt, err = waveform.Parse(f)
			f.Close()
		}
		fyne.Do(func() {
			if atomic.LoadUint64(&state.loadGen) != gen {
				scopelog.Debugf("stale load of %s superseded", path)
				return
			}
			if err != nil {
				scopelog.Errorf("load %s: %v", path, err)
				dialog.ShowError(err, state.window)
				return
			}
			scopelog.Infof("loaded %s: %d channels, %d samples", path, len(capt.Channels), len(capt.Timebase))
			state.store.Replace(capt)
			if min, max, ok := state.store.TimeBounds(); ok {
				state.engine.SetTimeRange(min, max)
			}
			state.renderer.Refit(state.store)
			rebuildChannelChecks(state)
			redrawPlot(state)
		})
	}()
}

// menus and dialogs
func buildMenus(state *viewerState) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	var items []*fyne.MenuItem
	for _, f := range recentFiles(state) {
		f := f
		items = append(items, fyne.NewMenuItem(truncatePath(f, 60), func() {
			state.filePath = f
			state.fileLabel.SetText(truncatePath(state.filePath, 60))
			savePrefs(state)
			loadCapture(state)
		}))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentFiles(state); buildMenus(state) })
	recentMenu := fyne.NewMenu("Open Recent", append(items, clearRecent)...)
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() { openFileDialog(state) }),
		fyne.NewMenuItem("Reload", func() { loadCapture(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Show Cursor A", func() { showCursor(state, cursor.A) }),
		fyne.NewMenuItem("Show Cursor B", func() { showCursor(state, cursor.B) }),
		fyne.NewMenuItem("Hide Cursors", func() {
			state.cursorsEnabled = false
			state.overlay.enabled = false
			if state.cursorChk != nil {
				state.cursorChk.SetChecked(false)
			}
			state.ctrl.HideCursors()
			savePrefs(state)
		}),
	)
	mainMenu := fyne.NewMainMenu(fileMenu, recentMenu, viewMenu)
	state.window.SetMainMenu(mainMenu)

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { openFileDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { openFileDialog(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { loadCapture(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { loadCapture(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { state.window.Close() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { state.window.Close() })
	}
}

func showCursor(state *viewerState, id cursor.ID) {
	state.cursorsEnabled = true
	state.overlay.enabled = true
	if state.cursorChk != nil {
		state.cursorChk.SetChecked(true)
	}
	state.ctrl.ActivateCursor(id)
	savePrefs(state)
}

// file open dialog
func openFileDialog(state *viewerState) {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		defer rc.Close()
		state.filePath = rc.URI().Path()
		state.fileLabel.SetText(truncatePath(state.filePath, 60))
		addRecentFile(state, state.filePath)
		savePrefs(state)
		buildMenus(state)
		loadCapture(state)
	}, state.window)
	d.Show()
}

// utils
func truncatePath(p string, n int) string {
	if len(p) <= n {
		return p
	}
	base := filepath.Base(p)
	if len(base)+4 >= n {
		return "..." + base
	}
	dir := filepath.Dir(p)
	left := n - len(base) - 4
	if left <= 0 {
		return "..." + base
	}
	if len(dir) > left {
		dir = dir[:left]
	}
	return dir + "/..." + base
}
