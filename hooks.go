package pmfscale

import (
	"sync"

	"github.com/agentstation/pmfscale/pkg/reconcile"
)

// Hook function types for run events
type (
	// ProgressHook is called at every checkpoint of a run
	ProgressHook func(stage reconcile.Stage)

	// CompleteHook is called after a run succeeds
	CompleteHook func(result *reconcile.Result)
)

// Compile-time interface check to ensure proper implementation.
var _ Hooks = (*client)(nil)

// Hooks registers event callbacks.
type Hooks interface {
	// OnProgress registers a callback for run checkpoints
	OnProgress(ProgressHook)

	// OnComplete registers a callback for successful runs
	OnComplete(CompleteHook)
}

// OnProgress registers a callback for run checkpoints.
func (c *client) OnProgress(fn ProgressHook) {
	c.hooks.OnProgress(fn)
}

// OnComplete registers a callback for successful runs.
func (c *client) OnComplete(fn CompleteHook) {
	c.hooks.OnComplete(fn)
}

// hooks manages event callbacks; a client may be shared between goroutines
type hooks struct {
	mu         sync.RWMutex
	onProgress []ProgressHook
	onComplete []CompleteHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnProgress registers a callback for run checkpoints
func (h *hooks) OnProgress(fn ProgressHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onProgress = append(h.onProgress, fn)
}

// OnComplete registers a callback for successful runs
func (h *hooks) OnComplete(fn CompleteHook) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onComplete = append(h.onComplete, fn)
}

func (h *hooks) triggerProgress(stage reconcile.Stage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onProgress {
		hook(stage)
	}
}

func (h *hooks) triggerComplete(result *reconcile.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, hook := range h.onComplete {
		hook(result)
	}
}
