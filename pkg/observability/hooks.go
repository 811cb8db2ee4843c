// Package observability provides hooks for timing and tracing scans.
//
// Libraries call the registered hooks; main registers real
// implementations at startup. Nothing here depends on a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCommandHooks(&myCommandHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks around every external command:
//
//	observability.Command().OnCommandStart(ctx, "nimble", args)
//	// ... run it ...
//	observability.Command().OnCommandComplete(ctx, "nimble", args, code, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// CommandHooks receives events from external package manager commands.
type CommandHooks interface {
	// OnCommandStart records a command about to be run.
	OnCommandStart(ctx context.Context, name string, args []string)

	// OnCommandComplete records a finished command. exitCode is -1 when the
	// process could not be started or was killed.
	OnCommandComplete(ctx context.Context, name string, args []string, exitCode int, duration time.Duration, err error)
}

// CacheHooks receives events from registry cache lookups.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, key string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, key string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, key string, size int)
}

// NoopCommandHooks is a no-op implementation of CommandHooks.
type NoopCommandHooks struct{}

func (NoopCommandHooks) OnCommandStart(context.Context, string, []string) {}
func (NoopCommandHooks) OnCommandComplete(context.Context, string, []string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	commandHooks CommandHooks = NoopCommandHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetCommandHooks registers custom command hooks.
// This should be called once at application startup before any scan.
func SetCommandHooks(h CommandHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		commandHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Command returns the registered command hooks.
func Command() CommandHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return commandHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	commandHooks = NoopCommandHooks{}
	cacheHooks = NoopCacheHooks{}
}
