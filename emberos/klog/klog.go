// Package klog is the kernel log.
//
// Lines go to a Sink (the HAL serial logger on the host) and, once the boot
// console is up, are mirrored on screen by wiring a second sink with Tee.
package klog

import "fmt"

// Level selects how much the kernel says.
type Level int

const (
	LvlError Level = iota
	LvlWarn
	LvlInfo
	LvlDebug
)

func (l Level) String() string {
	switch l {
	case LvlError:
		return "ERROR"
	case LvlWarn:
		return "WARN"
	case LvlInfo:
		return "INFO"
	case LvlDebug:
		return "DEBUG"
	default:
		return "?"
	}
}

// Sink consumes newline-delimited log lines.
type Sink interface {
	WriteLineString(s string)
}

type teeSink struct {
	a, b Sink
}

func (t teeSink) WriteLineString(s string) {
	t.a.WriteLineString(s)
	t.b.WriteLineString(s)
}

// Tee returns a sink that duplicates lines to both sinks.
func Tee(a, b Sink) Sink { return teeSink{a: a, b: b} }

type nullSink struct{}

func (nullSink) WriteLineString(string) {}

var (
	level Level = LvlWarn
	sink  Sink  = nullSink{}
)

// SetLevel sets the maximum level that is emitted.
func SetLevel(l Level) { level = l }

// CurrentLevel returns the active log level.
func CurrentLevel() Level { return level }

// SetSink routes log output. A nil sink silences the log.
func SetSink(s Sink) {
	if s == nil {
		sink = nullSink{}
		return
	}
	sink = s
}

// Printf emits one formatted line at the given level.
func Printf(l Level, format string, args ...any) {
	if l > level {
		return
	}
	sink.WriteLineString(l.String() + ": " + fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...any) { Printf(LvlError, format, args...) }
func Warnf(format string, args ...any)  { Printf(LvlWarn, format, args...) }
func Infof(format string, args ...any)  { Printf(LvlInfo, format, args...) }
func Debugf(format string, args ...any) { Printf(LvlDebug, format, args...) }
