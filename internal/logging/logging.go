// Package logging builds the process logger: slog text records on stderr.
package logging

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// New returns a text logger writing to w at the level held by level.
func New(w io.Writer, level *slog.LevelVar) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Level returns a LevelVar set to l, or to debug when verbose is set.
func Level(l slog.Level, verbose bool) *slog.LevelVar {
	v := new(slog.LevelVar)
	if verbose {
		l = slog.LevelDebug
	}
	v.Set(l)
	return v
}

// NewRunID identifies one crawl in logs and exports.
func NewRunID() string {
	return uuid.NewString()
}

// ForRun tags every record with the run id.
func ForRun(l *slog.Logger, runID string) *slog.Logger {
	return l.With("run", runID)
}
