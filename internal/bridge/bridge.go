// Package bridge owns the Chrome connection and per-tab CDP contexts.
package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/emutab/emutab/internal/config"
)

type TabEntry struct {
	Ctx    context.Context
	Cancel context.CancelFunc
}

type Bridge struct {
	AllocCtx      context.Context
	AllocCancel   context.CancelFunc
	BrowserCtx    context.Context
	BrowserCancel context.CancelFunc
	Config        *config.RuntimeConfig
	*TabManager

	// Lazy initialization
	initMu      sync.Mutex
	initialized bool
}

func New(allocCtx, browserCtx context.Context, cfg *config.RuntimeConfig) *Bridge {
	return &Bridge{
		AllocCtx:   allocCtx,
		BrowserCtx: browserCtx,
		Config:     cfg,
		TabManager: NewTabManager(browserCtx, cfg),
	}
}

// EnsureChrome starts Chrome on first use when the bridge was created
// without a browser context.
func (b *Bridge) EnsureChrome(cfg *config.RuntimeConfig) error {
	b.initMu.Lock()
	defer b.initMu.Unlock()

	if b.initialized || b.BrowserCtx != nil {
		return nil
	}

	allocCtx, allocCancel, browserCtx, browserCancel, err := InitChrome(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize chrome: %w", err)
	}

	b.AllocCtx = allocCtx
	b.AllocCancel = allocCancel
	b.BrowserCtx = browserCtx
	b.BrowserCancel = browserCancel
	b.initialized = true
	b.TabManager.setBrowserContext(browserCtx)

	return nil
}

func (b *Bridge) SetBrowserContexts(allocCtx context.Context, allocCancel context.CancelFunc, browserCtx context.Context, browserCancel context.CancelFunc) {
	b.initMu.Lock()
	defer b.initMu.Unlock()

	b.AllocCtx = allocCtx
	b.AllocCancel = allocCancel
	b.BrowserCtx = browserCtx
	b.BrowserCancel = browserCancel
	b.initialized = true
	b.TabManager.setBrowserContext(browserCtx)
}

func (b *Bridge) BrowserContext() context.Context {
	return b.BrowserCtx
}
