// Package signal cancels command contexts on SIGINT and SIGTERM, with a way
// to hold cancellation off while a write must finish.
package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	mu         sync.Mutex
	blockCount int
	// pending holds cancellations deferred while blocked.
	pending []context.CancelFunc
)

// WithSignalCancel returns a context that is cancelled when SIGINT or SIGTERM
// is received. Call the returned cancel function when done.
func WithSignalCancel(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case <-sigChan:
			deliver(cancel)
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// deliver cancels now, or queues the cancellation while signals are blocked.
func deliver(cancel context.CancelFunc) {
	mu.Lock()
	if blockCount > 0 {
		pending = append(pending, cancel)
		mu.Unlock()
		return
	}
	mu.Unlock()
	cancel()
}

// BlockSignals defers signal cancellation until the matching UnblockSignals.
// Calls nest.
func BlockSignals() {
	mu.Lock()
	defer mu.Unlock()
	blockCount++
}

// UnblockSignals ends a BlockSignals section. When the outermost section
// ends, any cancellations received in the meantime run.
func UnblockSignals() {
	mu.Lock()
	if blockCount > 0 {
		blockCount--
	}
	var run []context.CancelFunc
	if blockCount == 0 {
		run, pending = pending, nil
	}
	mu.Unlock()

	for _, cancel := range run {
		cancel()
	}
}

// Blocked reports whether signal cancellation is currently held off.
func Blocked() bool {
	mu.Lock()
	defer mu.Unlock()
	return blockCount > 0
}

// Critical runs fn with signal cancellation held off.
func Critical(fn func() error) error {
	BlockSignals()
	defer UnblockSignals()
	return fn()
}
