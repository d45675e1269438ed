// Package scopelog provides the leveled logging facade used across the
// viewer. It keeps a printf-style surface while delegating to zerolog so
// output stays structured and cheap to filter.
package scopelog

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMicro}).
	With().Timestamp().Logger().Level(zerolog.InfoLevel)

var levelNames = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
}

// SetLogLevel parses and sets the global log level. Unknown names are ignored.
func SetLogLevel(s string) {
	l, ok := levelNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return
	}
	logger = logger.Level(l)
}

// GetLogLevel returns the current global level name.
func GetLogLevel() string { return logger.GetLevel().String() }

// Public helpers
func Debugf(format string, a ...interface{}) { logger.Debug().Msgf(format, a...) }
func Infof(format string, a ...interface{})  { logger.Info().Msgf(format, a...) }
func Warnf(format string, a ...interface{})  { logger.Warn().Msgf(format, a...) }
func Errorf(format string, a ...interface{}) { logger.Error().Msgf(format, a...) }

// TimeTrack logs the elapsed time for a phase at debug level.
//
//	defer scopelog.TimeTrack(time.Now(), "load capture")
func TimeTrack(start time.Time, label string) {
	Debugf("%s took %s", label, time.Since(start))
}
