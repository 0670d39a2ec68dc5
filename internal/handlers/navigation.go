package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/emutab/emutab/internal/bridge"
	"github.com/emutab/emutab/internal/web"
)

const maxBodySize = 1 << 20

func (h *Handlers) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TabID   string  `json:"tabId"`
		URL     string  `json:"url"`
		NewTab  bool    `json:"newTab"`
		Timeout float64 `json:"timeout"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		web.Error(w, 400, fmt.Errorf("decode: %w", err))
		return
	}
	if req.URL == "" {
		web.Error(w, 400, fmt.Errorf("url required"))
		return
	}

	if err := h.ensureChrome(); err != nil {
		web.Error(w, 503, fmt.Errorf("chrome initialization failed: %w", err))
		return
	}

	navTimeout := h.Config.NavigateTimeout
	if req.Timeout > 0 {
		if req.Timeout > 120 {
			req.Timeout = 120
		}
		navTimeout = time.Duration(req.Timeout * float64(time.Second))
	}

	if req.NewTab {
		newTargetID, newCtx, _, err := h.Bridge.CreateTab(req.URL)
		if err != nil {
			web.Error(w, 500, fmt.Errorf("new tab: %w", err))
			return
		}

		tCtx, tCancel := context.WithTimeout(newCtx, navTimeout)
		defer tCancel()
		go web.CancelOnClientDone(r.Context(), tCancel)

		var url, title string
		_ = chromedp.Run(tCtx, chromedp.Location(&url), chromedp.Title(&title))
		web.JSON(w, 200, map[string]any{"tabId": newTargetID, "url": url, "title": title})
		return
	}

	ctx, resolvedTabID, err := h.Bridge.TabContext(req.TabID)
	if err != nil {
		web.Error(w, 404, err)
		return
	}

	tCtx, tCancel := context.WithTimeout(ctx, navTimeout)
	defer tCancel()
	go web.CancelOnClientDone(r.Context(), tCancel)

	if err := bridge.NavigatePage(tCtx, req.URL); err != nil {
		web.Error(w, 500, fmt.Errorf("navigate: %w", err))
		return
	}

	var url, title string
	_ = chromedp.Run(tCtx, chromedp.Location(&url), chromedp.Title(&title))
	web.JSON(w, 200, map[string]any{"tabId": resolvedTabID, "url": url, "title": title})
}

const (
	tabActionNew   = "new"
	tabActionClose = "close"
)

func (h *Handlers) HandleTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
		TabID  string `json:"tabId"`
		URL    string `json:"url"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		web.Error(w, 400, fmt.Errorf("decode: %w", err))
		return
	}

	if err := h.ensureChrome(); err != nil {
		web.Error(w, 503, fmt.Errorf("chrome initialization failed: %w", err))
		return
	}

	switch req.Action {
	case tabActionNew:
		newTargetID, ctx, _, err := h.Bridge.CreateTab(req.URL)
		if err != nil {
			web.Error(w, 500, err)
			return
		}

		var curURL, title string
		_ = chromedp.Run(ctx, chromedp.Location(&curURL), chromedp.Title(&title))
		web.JSON(w, 200, map[string]any{"tabId": newTargetID, "url": curURL, "title": title})

	case tabActionClose:
		if req.TabID == "" {
			web.Error(w, 400, fmt.Errorf("tabId required"))
			return
		}

		if err := h.Bridge.CloseTab(req.TabID); err != nil {
			web.Error(w, 500, err)
			return
		}
		web.JSON(w, 200, map[string]any{"closed": true})

	default:
		web.Error(w, 400, fmt.Errorf("action must be 'new' or 'close'"))
	}
}
