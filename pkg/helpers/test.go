package helpers

import (
	"context"
	"log/slog"

	"github.com/GregMSThompson/owms-dashboard/pkg/logger"
)

// TestCtx returns a context carrying a discarding test logger.
func TestCtx() context.Context {
	return TestCtxLevel(slog.LevelInfo)
}

// TestCtxLevel is TestCtx with an explicit level, for code paths guarded by
// logger.IsDebugEnabled.
func TestCtxLevel(level slog.Level) context.Context {
	log := slog.New(logger.NewTestHandler(level))
	return logger.ToContext(context.Background(), log)
}
