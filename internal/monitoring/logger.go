package monitoring

import (
	"log"
	"os"
)

// Logf is the package-level diagnostic logger. It writes to stderr so that
// data written to stdout (CSV, JSON exports) stays clean. Replace it with
// SetLogger.
var Logf func(format string, v ...interface{}) = log.New(os.Stderr, "odosim: ", log.LstdFlags).Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
