// ABOUTME: Leveled logging on top of the standard log package.
// ABOUTME: Messages carry [LEVEL] prefixes filtered by hashicorp/logutils.
package logging

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/hashicorp/logutils"
)

// Levels lists the recognized log levels, lowest first.
var Levels = []logutils.LogLevel{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}

// DefaultLevel is used when no level is configured.
const DefaultLevel = "WARN"

// New returns a logger for the given domain that writes to w, dropping
// messages below minLevel.
func New(w io.Writer, minLevel, domain string) *log.Logger {
	filter := &logutils.LevelFilter{
		Levels:   Levels,
		MinLevel: ParseLevel(minLevel),
		Writer:   w,
	}
	return log.New(filter, domain+" ", log.Ldate|log.Ltime|log.Lshortfile)
}

// Stderr returns a logger writing to standard error.
func Stderr(minLevel, domain string) *log.Logger {
	return New(os.Stderr, minLevel, domain)
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// ParseLevel normalizes a level name, falling back to DefaultLevel for
// anything unknown.
func ParseLevel(s string) logutils.LogLevel {
	lvl := logutils.LogLevel(strings.ToUpper(strings.TrimSpace(s)))
	for _, l := range Levels {
		if l == lvl {
			return lvl
		}
	}
	return logutils.LogLevel(DefaultLevel)
}
