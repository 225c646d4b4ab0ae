// Package monitoring holds the swappable diagnostic logger used across the
// service. Keeping it in one tiny package avoids an import cycle between the
// analytics and API layers.
package monitoring

import (
	"log"
	"os"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// Debugf logs only when FIRWATCH_DEBUG is set in the environment. Chatty
// per-request diagnostics go through here so production logs stay readable.
var Debugf func(format string, v ...interface{}) = func(format string, v ...interface{}) {
	if os.Getenv("FIRWATCH_DEBUG") == "" {
		return
	}
	Logf("[debug] "+format, v...)
}

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
