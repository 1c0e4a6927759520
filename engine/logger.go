package engine

import (
	"log/slog"
	"os"
)

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger overrides the package-level logger. Intended to be called once
// at process startup, before any Engine is constructed.
func SetLogger(l *slog.Logger) {
	logger = l
}
