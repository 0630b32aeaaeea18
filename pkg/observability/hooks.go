// Package observability provides hooks for drag, apply and storage events.
//
// The core packages stay free of any metrics backend. The CLI (or an
// embedding application) registers hooks at startup and the review and store
// layers report through them:
//
//	func main() {
//	    observability.SetApplyHooks(&myApplyHooks{})
//	    // ... run application
//	}
//
// Emitting side:
//
//	observability.Apply().OnApplyStart(ctx, runID, "template", len(targets))
//	// ... apply ...
//	observability.Apply().OnApplyComplete(ctx, runID, "template", failed, time.Since(start))
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Drag Hooks
// =============================================================================

// DragHooks receives pointer gesture events from interactive sessions.
type DragHooks interface {
	OnDragStart(ctx context.Context, pageID, target string)
	// OnDragEnd reports the gesture outcome. snapped is true when the final
	// position came from a snap match; canceled when the gesture was aborted.
	OnDragEnd(ctx context.Context, pageID, target string, moves int, snapped, canceled bool)
}

// =============================================================================
// Apply Hooks
// =============================================================================

// ApplyHooks receives events from scoped override application.
type ApplyHooks interface {
	OnApplyStart(ctx context.Context, runID, scope string, targets int)
	OnApplyTarget(ctx context.Context, runID, pageID string, duration time.Duration, err error)
	OnApplyComplete(ctx context.Context, runID, scope string, failed int, duration time.Duration)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from the patch store.
type StoreHooks interface {
	// OnPatchRead records a stored patch lookup; found is false on a miss.
	OnPatchRead(ctx context.Context, runID string, found bool)

	// OnPatchWrite records a patch write and its encoded size.
	OnPatchWrite(ctx context.Context, runID string, size int)

	// OnSignalAppend records a training signal appended to the log.
	OnSignalAppend(ctx context.Context, templateID string, pages int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopDragHooks is a no-op implementation of DragHooks.
type NoopDragHooks struct{}

func (NoopDragHooks) OnDragStart(context.Context, string, string)                {}
func (NoopDragHooks) OnDragEnd(context.Context, string, string, int, bool, bool) {}

// NoopApplyHooks is a no-op implementation of ApplyHooks.
type NoopApplyHooks struct{}

func (NoopApplyHooks) OnApplyStart(context.Context, string, string, int)                   {}
func (NoopApplyHooks) OnApplyTarget(context.Context, string, string, time.Duration, error) {}
func (NoopApplyHooks) OnApplyComplete(context.Context, string, string, int, time.Duration) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnPatchRead(context.Context, string, bool)   {}
func (NoopStoreHooks) OnPatchWrite(context.Context, string, int)   {}
func (NoopStoreHooks) OnSignalAppend(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	dragHooks  DragHooks  = NoopDragHooks{}
	applyHooks ApplyHooks = NoopApplyHooks{}
	storeHooks StoreHooks = NoopStoreHooks{}
	hooksMu    sync.RWMutex
)

// SetDragHooks registers custom drag hooks. Nil is ignored.
func SetDragHooks(h DragHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		dragHooks = h
	}
}

// SetApplyHooks registers custom apply hooks. Nil is ignored.
func SetApplyHooks(h ApplyHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		applyHooks = h
	}
}

// SetStoreHooks registers custom store hooks. Nil is ignored.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Drag returns the registered drag hooks.
func Drag() DragHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return dragHooks
}

// Apply returns the registered apply hooks.
func Apply() ApplyHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return applyHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults. Used by tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	dragHooks = NoopDragHooks{}
	applyHooks = NoopApplyHooks{}
	storeHooks = NoopStoreHooks{}
}
