// Package config loads viewer configuration. Everything has a default; the
// application runs with no flags, no environment and no config file at all.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/IMMZEK/oscilloscope-lab-viewer/src/scopelog"
)

// Config holds all viewer settings.
type Config struct {
	Window WindowConfig
	Plot   PlotConfig
	Log    LogConfig
}

// WindowConfig sizes the main window.
type WindowConfig struct {
	Width  int
	Height int
}

// PlotConfig is the explicit plot styling handed to the renderer; there is
// no hidden process-wide theme state.
type PlotConfig struct {
	Theme          string // "dark" or "light"
	CursorAColor   string
	CursorBColor   string
	HitTolerancePx int
	ShowStats      bool
}

// LogConfig controls the scopelog level.
type LogConfig struct {
	Level string
}

// Load resolves configuration from defaults, an optional scopeviewer.yaml
// (working directory or ~/.config/scopeviewer), and SCOPE_* environment
// overrides, in increasing precedence.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("window.width", 1200)
	v.SetDefault("window.height", 800)
	v.SetDefault("plot.theme", "dark")
	v.SetDefault("plot.cursor_a_color", "red")
	v.SetDefault("plot.cursor_b_color", "cyan")
	v.SetDefault("plot.hit_tolerance_px", 8)
	v.SetDefault("plot.show_stats", true)
	v.SetDefault("log.level", "info")

	v.SetConfigName("scopeviewer")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/scopeviewer")
	_ = v.ReadInConfig() // file is optional

	v.SetEnvPrefix("SCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		Window: WindowConfig{
			Width:  v.GetInt("window.width"),
			Height: v.GetInt("window.height"),
		},
		Plot: PlotConfig{
			Theme:          v.GetString("plot.theme"),
			CursorAColor:   v.GetString("plot.cursor_a_color"),
			CursorBColor:   v.GetString("plot.cursor_b_color"),
			HitTolerancePx: v.GetInt("plot.hit_tolerance_px"),
			ShowStats:      v.GetBool("plot.show_stats"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
	}
	scopelog.SetLogLevel(cfg.Log.Level)
	return cfg, nil
}
