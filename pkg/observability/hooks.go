// Package observability provides hooks for metrics and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about cache traffic, undo operations, and searches.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// The containers in pkg/cache and pkg/undo never call hooks themselves; the
// host that owns them (pkg/toolkit) does. [Prometheus] is the bundled backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    metrics := observability.NewPrometheus(nil)
//	    observability.SetCacheHooks(metrics)
//	    observability.SetUndoHooks(metrics)
//	    // ... run application
//	}
//
// Hosts call hooks to emit events:
//
//	observability.Cache().OnCacheHit(ctx, "sessions")
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the shared caches. name identifies the
// cache instance ("users", "sessions", "notifications").
type CacheHooks interface {
	// OnCacheHit records a lookup that found its key.
	OnCacheHit(ctx context.Context, name string)

	// OnCacheMiss records a lookup that did not.
	OnCacheMiss(ctx context.Context, name string)

	// OnCacheSet records a write; size is the cache's length afterwards.
	OnCacheSet(ctx context.Context, name string, size int)

	// OnCacheEvict records an entry dropped to make room.
	OnCacheEvict(ctx context.Context, name string)
}

// =============================================================================
// Undo Hooks
// =============================================================================

// UndoHooks receives events from the admin undo log.
type UndoHooks interface {
	// OnPush records a new action record; depth is the log length afterwards.
	OnPush(ctx context.Context, kind, entityType string, depth int)

	// OnUndo records an undo attempt. err is nil when the record was applied.
	OnUndo(ctx context.Context, kind, entityType string, duration time.Duration, err error)
}

// =============================================================================
// Search Hooks
// =============================================================================

// SearchHooks receives events from ordering and search operations.
type SearchHooks interface {
	// OnSearch records a query. mode is "prefix" or "substring" depending on
	// which strategy produced the results.
	OnSearch(ctx context.Context, mode string, results int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}
func (NoopCacheHooks) OnCacheEvict(context.Context, string)    {}

// NoopUndoHooks is a no-op implementation of UndoHooks.
type NoopUndoHooks struct{}

func (NoopUndoHooks) OnPush(context.Context, string, string, int)                  {}
func (NoopUndoHooks) OnUndo(context.Context, string, string, time.Duration, error) {}

// NoopSearchHooks is a no-op implementation of SearchHooks.
type NoopSearchHooks struct{}

func (NoopSearchHooks) OnSearch(context.Context, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	undoHooks   UndoHooks   = NoopUndoHooks{}
	searchHooks SearchHooks = NoopSearchHooks{}
	hooksMu     sync.RWMutex
)

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetUndoHooks registers custom undo hooks.
func SetUndoHooks(h UndoHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		undoHooks = h
	}
}

// SetSearchHooks registers custom search hooks.
func SetSearchHooks(h SearchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		searchHooks = h
	}
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Undo returns the registered undo hooks.
func Undo() UndoHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return undoHooks
}

// Search returns the registered search hooks.
func Search() SearchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return searchHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	cacheHooks = NoopCacheHooks{}
	undoHooks = NoopUndoHooks{}
	searchHooks = NoopSearchHooks{}
}
