package services

import (
	"context"
	"log/slog"
	"time"

	portsrepo "github.com/iswift/iswift_backend/internal/core/ports/repositories"
	"github.com/iswift/iswift_backend/internal/middleware"
	"github.com/jackc/pgx/v5"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// rollbackUnlessCommitted is deferred right after Begin. It is a no-op once
// *committed is true.
func (s *BaseService) rollbackUnlessCommitted(ctx context.Context, tm portsrepo.TransactionManager, tx pgx.Tx, committed *bool) {
	if *committed {
		return
	}
	if err := tm.Rollback(ctx, tx); err != nil {
		s.LogError(ctx, err, "Failed to rollback transaction")
	}
}

// Clock returns the current time; services take one so tests can pin it.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}
