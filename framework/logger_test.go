package framework

import (
	"fmt"
	"testing"

	"github.com/fatih/color"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Println(args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprint(args...))
}

func (r *recordingLogger) Printf(message string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(message, args...))
}

func TestNullLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NullLogger().Println("a")
		NullLogger().Printf("%s", "b")
	})
}

func TestLoggerWithPrefix(t *testing.T) {
	var base recordingLogger
	logger := LoggerWithPrefix(&base, "[mock] ")
	logger.Printf("got %d", 3)
	logger.Println("done")
	assert.Equal(t, []string{"[mock] got 3", "[mock] done"}, base.lines)
}

func TestLoggerWithColor(t *testing.T) {
	var base recordingLogger
	c := color.New(color.FgRed)
	c.DisableColor()
	logger := LoggerWithColor(&base, c)
	logger.Printf("status %d", 404)
	logger.Println("a", "b")
	assert.Equal(t, []string{"status 404", "a b"}, base.lines)
}
