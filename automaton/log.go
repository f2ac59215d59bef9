package automaton

import (
	"fmt"

	"steamwork/coloransi"

	"github.com/Moonlight-Companies/gologger/logger"
)

// Logger is the sink every automaton component writes to
type Logger interface {
	Infoln(v ...interface{})
	Debugln(v ...interface{})
	Warn(v ...interface{})
	Error(v ...interface{})
}

type colorLogger struct {
	log   *logger.Logger
	debug bool
}

// NewLogger returns a gologger backed Logger with a colored component prefix.
// Debug lines are dropped unless debug is set.
func NewLogger(component string, debug bool) Logger {
	return &colorLogger{
		log:   logger.NewLogger(coloransi.Color(coloransi.ColorIndigo, coloransi.ColorLimeGreen, component)),
		debug: debug,
	}
}

func (l *colorLogger) Infoln(v ...interface{}) { l.log.Infoln(v...) }
func (l *colorLogger) Warn(v ...interface{})   { l.log.Warn(v...) }

func (l *colorLogger) Debugln(v ...interface{}) {
	if l.debug {
		l.log.Debugln(v...)
	}
}

// Error goes through the warning channel with a red marker so failures stand out
func (l *colorLogger) Error(v ...interface{}) {
	l.log.Warn(coloransi.Foreground(coloransi.BrightRed, "ERROR"), " ", fmt.Sprint(v...))
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Infoln(...interface{})  {}
func (NopLogger) Debugln(...interface{}) {}
func (NopLogger) Warn(...interface{})    {}
func (NopLogger) Error(...interface{})   {}
