package shutdown

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// CreateGracefulShutdownChannel returns a channel that receives SIGINT and
// SIGTERM.
func CreateGracefulShutdownChannel() chan os.Signal {
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	return gracefulShutdown
}

// ListenForShutdown blocks until a shutdown signal arrives, runs the
// shutdown callback, then waits for done or the timeout before returning.
func ListenForShutdown(
	signals chan os.Signal,
	done chan bool,
	onShutdown func(),
	timeout time.Duration,
	logger *zap.Logger,
) {
	sig := <-signals
	logger.Sugar().Infow("Received shutdown signal", "signal", sig.String())

	go func() {
		onShutdown()
		done <- true
	}()

	select {
	case <-done:
		logger.Sugar().Infow("Shutdown complete")
	case <-time.After(timeout):
		logger.Sugar().Warnw("Shutdown timed out, exiting anyway", "timeout", timeout)
	}
}
