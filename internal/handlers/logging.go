package handlers

import "log/slog"

func httpLogger() *slog.Logger {
	return slog.Default().With("module", "http")
}
