package helpers

import (
	"fmt"
	"io"
)

// MustFprintln is fmt.Fprintln for console output where a write failure is not recoverable.
func MustFprintln(w io.Writer, a ...any) {
	if _, err := fmt.Fprintln(w, a...); err != nil {
		panic(err)
	}
}

// MustFprintf is fmt.Fprintf for console output where a write failure is not recoverable.
func MustFprintf(w io.Writer, format string, a ...any) {
	if _, err := fmt.Fprintf(w, format, a...); err != nil {
		panic(err)
	}
}
