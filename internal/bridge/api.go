package bridge

import (
	"context"

	"github.com/chromedp/cdproto/target"

	"github.com/emutab/emutab/internal/config"
)

// BridgeAPI abstracts browser tab operations for handler testing.
type BridgeAPI interface {
	BrowserContext() context.Context
	EnsureChrome(cfg *config.RuntimeConfig) error
	TabContext(tabID string) (ctx context.Context, resolvedID string, err error)
	ListTargets() ([]*target.Info, error)
	CreateTab(url string) (tabID string, ctx context.Context, cancel context.CancelFunc, err error)
	CloseTab(tabID string) error
}
