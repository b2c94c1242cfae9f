package logger

import (
	"log"
	"log/slog"
)

// New returns a stdlib-style logger for SDKs that expect Printf/Println,
// forwarding each line to base at debug level with a component attribute.
func New(base *slog.Logger, component string) *log.Logger {
	if base == nil {
		base = slog.Default()
	}
	return slog.NewLogLogger(base.With("component", component).Handler(), slog.LevelDebug)
}
