package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sellwise/funnel/internal/logging"
	"github.com/sellwise/funnel/pkg/domain"
)

// newSignalContext returns a context cancelled on SIGINT or SIGTERM.
func newSignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// createLogger configures the application logger. In debug mode it writes
// to stderr, separated from the stdout flow UI.
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message to stdout.
func printSystemMessage(format string, args ...any) {
	fmt.Printf(">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBlockEnter: func(ctx context.Context, e *domain.BlockEvent) {
			logger.Debug("Enter Block", "block_id", e.BlockID, "stage", e.StageName)
		},
		OnBlockLeave: func(ctx context.Context, e *domain.BlockEvent) {
			logger.Debug("Leave Block", "block_id", e.BlockID)
		},
		OnMessage: func(ctx context.Context, e *domain.MessageEvent) {
			logger.Debug("Message", "type", e.Message.Type, "text", e.Message.Text)
		},
		OnTimerResolve: func(ctx context.Context, e *domain.TimerEvent) {
			logger.Debug("Timer Resolved", "block_id", e.BlockID, "outcome", e.Outcome)
		},
	}
}

func isInterrupted(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

// handleExecutionError maps interruptions to a clean exit.
func handleExecutionError(err error) error {
	if isInterrupted(err) {
		return nil
	}
	return err
}
