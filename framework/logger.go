package framework

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Logger is the minimal logging interface used throughout the harness. It is satisfied by
// *log.Logger and by the ldlog loggers that tests use.
type Logger interface {
	Println(args ...interface{})
	Printf(message string, args ...interface{})
}

type nullLogger struct{}

func (n nullLogger) Println(args ...interface{})                {}
func (n nullLogger) Printf(message string, args ...interface{}) {}

// NullLogger returns a Logger that discards everything.
func NullLogger() Logger { return nullLogger{} }

type prefixedLogger struct {
	base   Logger
	prefix string
}

// LoggerWithPrefix returns a Logger that adds a fixed prefix to every message.
func LoggerWithPrefix(baseLogger Logger, prefix string) Logger {
	return prefixedLogger{baseLogger, prefix}
}

func (p prefixedLogger) Println(args ...interface{}) {
	p.base.Println(append([]interface{}{p.prefix}, args...)...)
}

func (p prefixedLogger) Printf(message string, args ...interface{}) {
	p.base.Printf(p.prefix+message, args...)
}

type coloredLogger struct {
	base  Logger
	color *color.Color
}

// LoggerWithColor returns a Logger that wraps each message in the given terminal color before
// passing it to baseLogger. Coloring follows the usual fatih/color rules, so it is switched
// off automatically when output is not a terminal.
func LoggerWithColor(baseLogger Logger, c *color.Color) Logger {
	return coloredLogger{base: baseLogger, color: c}
}

func (c coloredLogger) Println(args ...interface{}) {
	m := strings.TrimRight(fmt.Sprintln(args...), "\r\n") // Sprintln appends a newline
	c.base.Println(c.color.Sprint(m))
}

func (c coloredLogger) Printf(message string, args ...interface{}) {
	c.base.Println(c.color.Sprintf(message, args...))
}
