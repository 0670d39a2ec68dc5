package handlers

import (
	"fmt"
	"net/http"

	"github.com/emutab/emutab/internal/web"
)

func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if h.Bridge == nil {
		web.JSON(w, 503, map[string]any{"status": "error", "reason": "bridge not initialized"})
		return
	}
	if err := h.ensureChrome(); err != nil {
		web.JSON(w, 503, map[string]any{"status": "error", "reason": fmt.Sprintf("chrome initialization failed: %v", err)})
		return
	}
	targets, err := h.Bridge.ListTargets()
	if err != nil {
		web.JSON(w, 503, map[string]any{"status": "error", "reason": err.Error(), "cdp": h.Config.CdpURL})
		return
	}
	web.JSON(w, 200, map[string]any{"status": "ok", "tabs": len(targets), "cdp": h.Config.CdpURL})
}

func (h *Handlers) HandleEnsureChrome(w http.ResponseWriter, r *http.Request) {
	if err := h.ensureChrome(); err != nil {
		web.Error(w, 500, fmt.Errorf("chrome initialization failed: %w", err))
		return
	}
	web.JSON(w, 200, map[string]string{"status": "chrome_ready"})
}

func (h *Handlers) HandleTabs(w http.ResponseWriter, r *http.Request) {
	if h.Bridge == nil {
		web.JSON(w, 503, map[string]any{"status": "error", "reason": "bridge not initialized"})
		return
	}
	targets, err := h.Bridge.ListTargets()
	if err != nil {
		web.Error(w, 500, err)
		return
	}

	tabs := make([]map[string]any, 0, len(targets))
	for _, t := range targets {
		tabs = append(tabs, map[string]any{
			"id":    string(t.TargetID),
			"url":   t.URL,
			"title": t.Title,
			"type":  t.Type,
		})
	}
	web.JSON(w, 200, map[string]any{"tabs": tabs})
}

func (h *Handlers) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	web.JSON(w, 200, snapshotMetrics())
}

func (h *Handlers) HandleShutdown(doShutdown func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		web.JSON(w, 200, map[string]string{"status": "shutting_down"})
		go doShutdown()
	}
}
