package graceful

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Operation is a named cleanup executed during shutdown.
type Operation func(ctx context.Context) error

// GracefulShutdown waits for SIGINT/SIGTERM, runs all operations in parallel
// with a shared timeout and closes the returned channel when done.
func GracefulShutdown(ctx context.Context, timeout time.Duration, ops map[string]Operation, log *slog.Logger) <-chan struct{} {
	wait := make(chan struct{})

	go func() {
		s := make(chan os.Signal, 1)
		signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
		<-s

		log.Info("shutting down")

		timeoutFunc := time.AfterFunc(timeout, func() {
			log.Error("shutdown timeout elapsed, forcing exit", slog.Duration("timeout", timeout))
			os.Exit(1)
		})
		defer timeoutFunc.Stop()

		var wg sync.WaitGroup
		for key, op := range ops {
			wg.Add(1)
			go func(name string, op Operation) {
				defer wg.Done()

				log.Info("cleaning up", slog.String("operation", name))
				if err := op(ctx); err != nil {
					log.Error("clean up failed",
						slog.String("operation", name),
						slog.String("error", err.Error()),
					)
					return
				}
				log.Info("cleaned up", slog.String("operation", name))
			}(key, op)
		}
		wg.Wait()

		close(wait)
	}()

	return wait
}
