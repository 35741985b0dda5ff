/*package logging sets up the structured logger used by every hmf mode. */
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"

	"github.com/lmittmann/tint"
)

type Flag int

const (
	Nil Flag = iota
	Performance
	Debug
)

// This is handled this way so that GlobalConfig doesn't need to be passed to
// every function in the project.
var (
	Mode Flag = Nil
)

// ParseFlag converts the name of a logging mode, as written in a config file,
// into a Flag.
func ParseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nil", "none":
		return Nil, nil
	case "performance":
		return Performance, nil
	case "debug":
		return Debug, nil
	}
	return Nil, fmt.Errorf("logging mode '%s' not recognized, supported "+
		"modes are nil, performance, and debug", s)
}

func (f Flag) String() string {
	switch f {
	case Nil: return "nil"
	case Performance: return "performance"
	case Debug: return "debug"
	}
	return fmt.Sprintf("Flag(%d)", int(f))
}

// Level returns the lowest level that gets logged in the given mode.
func (f Flag) Level() slog.Level {
	if f == Debug { return slog.LevelDebug }
	return slog.LevelInfo
}

// New returns a tint-formatted logger which writes to w at the level of the
// given mode.
func New(w io.Writer, mode Flag) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      mode.Level(),
		TimeFormat: "15:04:05",
	}))
}

// Init sets Mode and installs a logger writing to w as the slog default.
func Init(w io.Writer, mode Flag) *slog.Logger {
	Mode = mode
	logger := New(w, mode)
	slog.SetDefault(logger)
	return logger
}

// MemString returns a string containing various statistics on the current
// memory usage of the process.
func MemString() string {
	ms := runtime.MemStats{}
	runtime.ReadMemStats(&ms)
	return fmt.Sprintf(
		"Alloc - %d MB; Sys - %d MB Integrated - %d MB",
		ms.Alloc>>20, ms.Sys>>20, ms.TotalAlloc>>20,
	)
}
