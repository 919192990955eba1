package editablecircuit

import (
	"context"
	"log/slog"
)

// LevelTrace is a custom slog level for per-operation editing traces:
// one step above Info, so a handler at the default Info level emits
// it, and a handler set to LevelTrace emits it while dropping Info and
// Debug records.
const LevelTrace slog.Level = slog.LevelInfo + 1

// trace logs msg at LevelTrace against the default logger.
func trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
