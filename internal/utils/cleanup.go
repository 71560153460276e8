package utils

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/winecraft-dev/connect4/internal/logger"
)

// CleanupFunc represents a cleanup function
type CleanupFunc func() error

// ResourceManager handles graceful shutdown of resources
type ResourceManager struct {
	cleanupFuncs []CleanupFunc
	mu           sync.Mutex
	once         sync.Once
}

// NewResourceManager creates a new resource manager
func NewResourceManager() *ResourceManager {
	return &ResourceManager{}
}

// AddCleanupFunc adds a cleanup function to be executed during shutdown
func (rm *ResourceManager) AddCleanupFunc(fn CleanupFunc) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.cleanupFuncs = append(rm.cleanupFuncs, fn)
}

// Cleanup executes all cleanup functions once, in registration order.
func (rm *ResourceManager) Cleanup() {
	rm.once.Do(func() {
		rm.mu.Lock()
		defer rm.mu.Unlock()
		for _, fn := range rm.cleanupFuncs {
			if err := fn(); err != nil {
				logger.Error("cleanup error", map[string]any{"error": err.Error()})
			}
		}
	})
}

// HandleGracefulShutdown cleans up and exits on SIGINT/SIGTERM or when
// the context is cancelled.
func (rm *ResourceManager) HandleGracefulShutdown(ctx context.Context) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-signals:
			logger.Info("shutdown signal received, cleaning up")
		case <-ctx.Done():
			logger.Info("context cancelled, cleaning up")
		}
		rm.Cleanup()
		os.Exit(0)
	}()
}
